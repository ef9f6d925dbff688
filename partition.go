// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package iceberg

import (
	"fmt"
	"strings"

	"github.com/hamba/avro/v2"
)

// PartitionFieldIDStart is the first id drawn for partition fields, keeping
// their id space disjoint from the data schema's (§4.1).
const PartitionFieldIDStart = 1000

// PartitionField names one column of a partition spec: the source field in
// the table's schema, the transform applied to it, and the partition
// struct's own field id/name.
type PartitionField struct {
	SourceID  int
	FieldID   int
	Name      string
	Transform Transform
}

func (f PartitionField) String() string {
	return fmt.Sprintf("%d: %s: %s(%d)", f.FieldID, f.Name, f.Transform, f.SourceID)
}

func (f PartitionField) Equals(o PartitionField) bool {
	return f.SourceID == o.SourceID && f.FieldID == o.FieldID && f.Name == o.Name &&
		f.Transform.Equals(o.Transform)
}

// PartitionSpec is an ordered list of PartitionFields over a schema. It is
// immutable; build one with NewPartitionSpec.
type PartitionSpec struct {
	specID int
	fields []PartitionField

	partitionType StructType
}

// NewPartitionSpec builds a PartitionSpec, deriving its partition StructType
// by asking each field's transform for its result type against the source
// schema field.
func NewPartitionSpec(specID int, schema *Schema, fields ...PartitionField) *PartitionSpec {
	nested := make([]NestedField, 0, len(fields))
	for _, f := range fields {
		src, ok := schema.FindFieldByID(f.SourceID)
		if !ok {
			panic(fmt.Sprintf("iceberg: partition field %q sources unknown field id %d", f.Name, f.SourceID))
		}
		if !f.Transform.CanTransform(src.Type) {
			panicIllegalArgument("iceberg: transform %s cannot be applied to %s", f.Transform, src.Type)
		}
		resultType := f.Transform.ResultType(src.Type)
		// A partition value is always optional: identity-transformed
		// required source columns still report as optional in the
		// partition struct since partition values may be absent for older
		// data files written before the field was added.
		nested = append(nested, NestedField{
			ID:       f.FieldID,
			Name:     f.Name,
			Type:     resultType,
			Required: false,
		})
	}
	return &PartitionSpec{
		specID:        specID,
		fields:        append([]PartitionField(nil), fields...),
		partitionType: NewStructType(nested...),
	}
}

// Unpartitioned returns the spec with no fields, used for tables that are
// not partitioned.
func Unpartitioned() *PartitionSpec {
	return &PartitionSpec{specID: 0, partitionType: NewStructType()}
}

func (p *PartitionSpec) SpecID() int                 { return p.specID }
func (p *PartitionSpec) Fields() []PartitionField    { return p.fields }
func (p *PartitionSpec) PartitionType() StructType    { return p.partitionType }
func (p *PartitionSpec) IsUnpartitioned() bool        { return len(p.fields) == 0 }

// FieldsBySourceID returns every partition field whose source is id, since a
// column may be partitioned on more than once (e.g. both day and hour of
// the same timestamp).
func (p *PartitionSpec) FieldsBySourceID(id int) []PartitionField {
	var out []PartitionField
	for _, f := range p.fields {
		if f.SourceID == id {
			out = append(out, f)
		}
	}
	return out
}

func (p *PartitionSpec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[")
	for i, f := range p.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteString("]")
	return b.String()
}

// Equals compares specs structurally; spec id does not participate since it
// is a version label.
func (p *PartitionSpec) Equals(o *PartitionSpec) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.fields) != len(o.fields) {
		return false
	}
	for i := range p.fields {
		if !p.fields[i].Equals(o.fields[i]) {
			return false
		}
	}
	return true
}

// CompatibleWith reports whether p and o produce the same partition struct
// (same transforms over the same sources in the same order), ignoring
// field ids and names. Two specs that differ only by a rename or an id
// reassignment remain compatible.
func (p *PartitionSpec) CompatibleWith(o *PartitionSpec) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.fields) != len(o.fields) {
		return false
	}
	for i := range p.fields {
		a, b := p.fields[i], o.fields[i]
		if a.SourceID != b.SourceID || !a.Transform.Equals(b.Transform) {
			return false
		}
	}
	return true
}

// AvroSchema projects this spec's partition struct into the external Avro
// manifest-header schema used by the file-level metadata interface (§6);
// the codec that reads/writes manifests itself is out of scope.
func (p *PartitionSpec) AvroSchema() (avro.Schema, error) {
	return structTypeToAvroPartitionSchema(p.partitionType)
}
