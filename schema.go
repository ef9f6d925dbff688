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
)

// NestedField is a single named, typed, identified column. FieldID is
// globally unique within the owning schema and is never reused after
// deletion.
type NestedField struct {
	ID       int
	Name     string
	Type     Type
	Required bool
	Doc      string

	// WriteDefault and InitialDefault are carried opaquely through
	// evolution and JSON round-trips; this core does not evaluate or apply
	// them (that is writer/table behavior, out of scope).
	WriteDefault   any
	InitialDefault any
}

func (f NestedField) String() string {
	req := "optional"
	if f.Required {
		req = "required"
	}
	return fmt.Sprintf("%d: %s: %s %s", f.ID, f.Name, req, f.Type)
}

// Equals compares two fields structurally, including nested type contents.
func (f NestedField) Equals(o NestedField) bool {
	return f.ID == o.ID && f.Name == o.Name && f.Required == o.Required &&
		f.Doc == o.Doc && typesEqual(f.Type, o.Type)
}

// Schema is an immutable, ID-indexed struct type plus derived name/alias
// indexes. Construct with NewSchema.
type Schema struct {
	schemaID int
	asStruct StructType

	byID   map[int]NestedField
	byName map[string]int
	// nameByID is the inverse of byName for the canonical (non-aliased,
	// dotted) name of an id.
	nameByID map[int]string
	aliases  map[string]int

	identifierFieldIDs Set[int]
}

// NewSchema builds a Schema from top-level fields, indexing it in one
// pre-order traversal. Panics (invariant failure) if any id is reused.
func NewSchema(schemaID int, fields ...NestedField) *Schema {
	return NewSchemaWithAliases(schemaID, nil, fields...)
}

// NewSchemaWithAliases builds a Schema additionally registering the given
// alias name -> field id map.
func NewSchemaWithAliases(schemaID int, aliases map[string]int, fields ...NestedField) *Schema {
	st := NewStructType(fields...)
	s := &Schema{
		schemaID: schemaID,
		asStruct: st,
		byID:     make(map[int]NestedField),
		byName:   make(map[string]int),
		nameByID: make(map[int]string),
		aliases:  make(map[string]int, len(aliases)),
	}
	for k, v := range aliases {
		s.aliases[k] = v
	}

	indexSchema(s)
	s.identifierFieldIDs = newIntSet()
	return s
}

// WithIdentifierFieldIDs returns a copy of the schema with the given field
// ids marked as the row-identity columns (equality-delete / upsert key).
// Every id must already exist in the schema and reference a required field.
func (s *Schema) WithIdentifierFieldIDs(ids ...int) *Schema {
	cp := *s
	cp.identifierFieldIDs = newIntSet()
	for _, id := range ids {
		f, ok := s.byID[id]
		if !ok {
			panic(fmt.Sprintf("iceberg: identifier field id %d not present in schema", id))
		}
		if !f.Required {
			panic(fmt.Sprintf("iceberg: identifier field %q must be required", f.Name))
		}
		cp.identifierFieldIDs.Add(id)
	}
	return &cp
}

// IdentifierFieldIDs returns the set of field ids that form the table's row
// identity.
func (s *Schema) IdentifierFieldIDs() Set[int] { return s.identifierFieldIDs }

func (s *Schema) SchemaID() int        { return s.schemaID }
func (s *Schema) AsStruct() StructType { return s.asStruct }
func (s *Schema) Fields() []NestedField { return s.asStruct.Fields() }

// FindFieldByID returns the field with the given id anywhere in the schema.
func (s *Schema) FindFieldByID(id int) (NestedField, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// FindFieldByName resolves a dotted column name, consulting aliases if the
// main index misses.
func (s *Schema) FindFieldByName(name string) (NestedField, bool) {
	if id, ok := s.byName[name]; ok {
		return s.byID[id], true
	}
	if id, ok := s.aliases[name]; ok {
		return s.byID[id], true
	}
	return NestedField{}, false
}

// FindIDByName resolves a dotted column name (or alias) to its field id.
func (s *Schema) FindIDByName(name string) (int, bool) {
	if id, ok := s.byName[name]; ok {
		return id, true
	}
	if id, ok := s.aliases[name]; ok {
		return id, true
	}
	return 0, false
}

// FindNameByID returns the canonical dotted name registered for an id.
func (s *Schema) FindNameByID(id int) (string, bool) {
	n, ok := s.nameByID[id]
	return n, ok
}

// Equals compares two schemas by their field trees; schema id is not part of
// the comparison since it is a version label, not a structural property.
func (s *Schema) Equals(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.asStruct.Equals(o.asStruct)
}

func (s *Schema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema %d: %s", s.schemaID, s.asStruct)
	return b.String()
}

// indexSchema performs the single pre-order traversal described in §4.2,
// populating byID, byName and nameByID. It panics on a duplicate id, which
// is an invariant failure per §3.
func indexSchema(s *Schema) {
	v := &indexingVisitor{schema: s}
	VisitSchema[any](s, v)
}

type indexingVisitor struct {
	BaseFieldHooks
	schema *Schema
	names  []string
}

func (v *indexingVisitor) record(id int, name string, field NestedField) {
	if _, dup := v.schema.byID[id]; dup {
		panic(fmt.Sprintf("iceberg: field id %d reused by %q and %q", id, v.schema.nameByID[id], name))
	}
	v.schema.byID[id] = field
	v.schema.byName[name] = id
	v.schema.nameByID[id] = name
}

func (v *indexingVisitor) dottedName(leaf string) string {
	if len(v.names) == 0 {
		return leaf
	}
	return strings.Join(v.names, ".") + "." + leaf
}

func (v *indexingVisitor) BeforeField(f NestedField)       { v.names = append(v.names, f.Name) }
func (v *indexingVisitor) AfterField(f NestedField)        { v.names = v.names[:len(v.names)-1] }
func (v *indexingVisitor) BeforeListElement(f NestedField) { v.names = append(v.names, f.Name) }
func (v *indexingVisitor) AfterListElement(f NestedField)  { v.names = v.names[:len(v.names)-1] }
func (v *indexingVisitor) BeforeMapKey(f NestedField)      { v.names = append(v.names, f.Name) }
func (v *indexingVisitor) AfterMapKey(f NestedField)       { v.names = v.names[:len(v.names)-1] }
func (v *indexingVisitor) BeforeMapValue(f NestedField)    { v.names = append(v.names, f.Name) }
func (v *indexingVisitor) AfterMapValue(f NestedField)     { v.names = v.names[:len(v.names)-1] }

func (v *indexingVisitor) Schema(schema *Schema, structResult any) any { return nil }

func (v *indexingVisitor) Struct(st StructType, fieldResults []any) any {
	return nil
}

func (v *indexingVisitor) Field(field NestedField, fieldResult any) any {
	v.record(field.ID, v.dottedName(field.Name), field)
	return nil
}

func (v *indexingVisitor) List(list ListType, elemResult any) any {
	v.record(list.ElementID, v.dottedName("element"), list.ElementField())
	return nil
}

func (v *indexingVisitor) Map(m MapType, keyResult, valueResult any) any {
	v.record(m.KeyID, v.dottedName("key"), m.KeyField())
	v.record(m.ValueID, v.dottedName("value"), m.ValueField())
	return nil
}

func (v *indexingVisitor) Primitive(p PrimitiveType) any { return nil }
