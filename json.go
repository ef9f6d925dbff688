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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// typeJSON is the wire shape of TypeJson in §6: a bare primitive keyword
// (or "fixed[N]"/"decimal(P,S)" string) unmarshals straight into Kind;
// nested shapes use the remaining fields.
type typeJSON struct {
	Kind string `json:"type"`

	// list
	ElementID       int             `json:"element-id,omitempty"`
	Element         json.RawMessage `json:"element,omitempty"`
	ElementRequired bool            `json:"element-required,omitempty"`

	// map
	KeyID         int             `json:"key-id,omitempty"`
	Key           json.RawMessage `json:"key,omitempty"`
	ValueID       int             `json:"value-id,omitempty"`
	Value         json.RawMessage `json:"value,omitempty"`
	ValueRequired bool            `json:"value-required,omitempty"`

	// struct
	Fields []nestedFieldJSON `json:"fields,omitempty"`
}

type nestedFieldJSON struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Required       bool            `json:"required"`
	Type           json.RawMessage `json:"type"`
	Doc            string          `json:"doc,omitempty"`
	WriteDefault   any             `json:"write-default,omitempty"`
	InitialDefault any             `json:"initial-default,omitempty"`
}

// marshalType renders t per §6's TypeJson grammar.
func marshalType(t Type) (json.RawMessage, error) {
	switch v := t.(type) {
	case BooleanType, Int32Type, Int64Type, Float32Type, Float64Type,
		DateType, TimeType, TimestampType, TimestampTzType, StringType, UUIDType, BinaryType:
		return json.Marshal(v.Type())
	case FixedType:
		return json.Marshal(fmt.Sprintf("fixed[%d]", v.Len()))
	case DecimalType:
		return json.Marshal(fmt.Sprintf("decimal(%d, %d)", v.Precision(), v.Scale()))
	case StructType:
		fields := make([]nestedFieldJSON, len(v.Fields()))
		for i, f := range v.Fields() {
			fj, err := marshalNestedField(f)
			if err != nil {
				return nil, err
			}
			fields[i] = fj
		}
		return json.Marshal(struct {
			Type   string            `json:"type"`
			Fields []nestedFieldJSON `json:"fields"`
		}{Type: "struct", Fields: fields})
	case ListType:
		elem, err := marshalType(v.Element)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type            string          `json:"type"`
			ElementID       int             `json:"element-id"`
			Element         json.RawMessage `json:"element"`
			ElementRequired bool            `json:"element-required"`
		}{Type: "list", ElementID: v.ElementID, Element: elem, ElementRequired: v.ElementRequired})
	case MapType:
		key, err := marshalType(v.KeyType)
		if err != nil {
			return nil, err
		}
		val, err := marshalType(v.ValueType)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type          string          `json:"type"`
			KeyID         int             `json:"key-id"`
			Key           json.RawMessage `json:"key"`
			ValueID       int             `json:"value-id"`
			Value         json.RawMessage `json:"value"`
			ValueRequired bool            `json:"value-required"`
		}{Type: "map", KeyID: v.KeyID, Key: key, ValueID: v.ValueID, Value: val, ValueRequired: v.ValueRequired})
	default:
		return nil, fmt.Errorf("iceberg: cannot marshal unknown type %T", t)
	}
}

func marshalNestedField(f NestedField) (nestedFieldJSON, error) {
	typ, err := marshalType(f.Type)
	if err != nil {
		return nestedFieldJSON{}, err
	}
	return nestedFieldJSON{
		ID: f.ID, Name: f.Name, Required: f.Required, Type: typ, Doc: f.Doc,
		WriteDefault: f.WriteDefault, InitialDefault: f.InitialDefault,
	}, nil
}

// unmarshalType parses raw per §6's TypeJson grammar: either a bare string
// (primitive keyword, "fixed[N]", "decimal(P,S)") or an object with a
// "type" discriminator.
func unmarshalType(raw json.RawMessage) (Type, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return parseTypeString(asString)
	}

	var tj typeJSON
	if err := json.Unmarshal(raw, &tj); err != nil {
		return nil, err
	}
	switch tj.Kind {
	case "struct":
		fields := make([]NestedField, len(tj.Fields))
		for i, fj := range tj.Fields {
			ft, err := unmarshalType(fj.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = NestedField{
				ID: fj.ID, Name: fj.Name, Required: fj.Required, Type: ft, Doc: fj.Doc,
				WriteDefault: fj.WriteDefault, InitialDefault: fj.InitialDefault,
			}
		}
		return NewStructType(fields...), nil
	case "list":
		elem, err := unmarshalType(tj.Element)
		if err != nil {
			return nil, err
		}
		return ListType{ElementID: tj.ElementID, Element: elem, ElementRequired: tj.ElementRequired}, nil
	case "map":
		key, err := unmarshalType(tj.Key)
		if err != nil {
			return nil, err
		}
		val, err := unmarshalType(tj.Value)
		if err != nil {
			return nil, err
		}
		return MapType{KeyID: tj.KeyID, KeyType: key, ValueID: tj.ValueID, ValueType: val, ValueRequired: tj.ValueRequired}, nil
	default:
		return parseTypeString(tj.Kind)
	}
}

func parseTypeString(s string) (Type, error) {
	switch s {
	case "boolean":
		return BooleanType{}, nil
	case "int":
		return Int32Type{}, nil
	case "long":
		return Int64Type{}, nil
	case "float":
		return Float32Type{}, nil
	case "double":
		return Float64Type{}, nil
	case "date":
		return DateType{}, nil
	case "time":
		return TimeType{}, nil
	case "timestamp":
		return TimestampType{}, nil
	case "timestamptz":
		return TimestampTzType{}, nil
	case "string":
		return StringType{}, nil
	case "uuid":
		return UUIDType{}, nil
	case "binary":
		return BinaryType{}, nil
	}
	if strings.HasPrefix(s, "fixed[") && strings.HasSuffix(s, "]") {
		n, err := strconv.Atoi(s[len("fixed[") : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("iceberg: malformed fixed type %q: %w", s, err)
		}
		return NewFixedType(n), nil
	}
	if strings.HasPrefix(s, "decimal(") && strings.HasSuffix(s, ")") {
		inner := strings.TrimSpace(s[len("decimal(") : len(s)-1])
		parts := strings.Split(inner, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("iceberg: malformed decimal type %q", s)
		}
		precision, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("iceberg: malformed decimal type %q: %w", s, err)
		}
		scale, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("iceberg: malformed decimal type %q: %w", s, err)
		}
		return NewDecimalType(precision, scale), nil
	}
	return nil, fmt.Errorf("iceberg: unknown type %q", s)
}

// schemaJSON is the wire shape of a Schema: a struct TypeJson plus the
// schema-level id and any identifier field ids. Aliases are not serialized.
type schemaJSON struct {
	Type               string            `json:"type"`
	SchemaID           int               `json:"schema-id"`
	Fields             []nestedFieldJSON `json:"fields"`
	IdentifierFieldIDs []int             `json:"identifier-field-ids,omitempty"`
}

// MarshalJSON implements json.Marshaler for *Schema per §6.
func (s *Schema) MarshalJSON() ([]byte, error) {
	fields := make([]nestedFieldJSON, len(s.Fields()))
	for i, f := range s.Fields() {
		fj, err := marshalNestedField(f)
		if err != nil {
			return nil, err
		}
		fields[i] = fj
	}
	return json.Marshal(schemaJSON{
		Type:               "struct",
		SchemaID:           s.schemaID,
		Fields:             fields,
		IdentifierFieldIDs: s.identifierFieldIDs.Members(),
	})
}

// UnmarshalJSON implements json.Unmarshaler for *Schema per §6.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var sj schemaJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	fields := make([]NestedField, len(sj.Fields))
	for i, fj := range sj.Fields {
		t, err := unmarshalType(fj.Type)
		if err != nil {
			return err
		}
		fields[i] = NestedField{
			ID: fj.ID, Name: fj.Name, Required: fj.Required, Type: t, Doc: fj.Doc,
			WriteDefault: fj.WriteDefault, InitialDefault: fj.InitialDefault,
		}
	}
	built := NewSchema(sj.SchemaID, fields...)
	if len(sj.IdentifierFieldIDs) > 0 {
		built = built.WithIdentifierFieldIDs(sj.IdentifierFieldIDs...)
	}
	*s = *built
	return nil
}

// partitionFieldJSON is the wire shape of one PartitionField, per §6's
// PartitionSpec JSON.
type partitionFieldJSON struct {
	Name      string `json:"name"`
	Transform string `json:"transform"`
	SourceID  int    `json:"source-id"`
	FieldID   int    `json:"field-id"`
}

type partitionSpecJSON struct {
	SpecID int                  `json:"spec-id"`
	Fields []partitionFieldJSON `json:"fields"`
}

// MarshalJSON implements json.Marshaler for *PartitionSpec per §6.
func (p *PartitionSpec) MarshalJSON() ([]byte, error) {
	fields := make([]partitionFieldJSON, len(p.fields))
	for i, f := range p.fields {
		fields[i] = partitionFieldJSON{
			Name: f.Name, Transform: f.Transform.String(), SourceID: f.SourceID, FieldID: f.FieldID,
		}
	}
	return json.Marshal(partitionSpecJSON{SpecID: p.specID, Fields: fields})
}

// UnmarshalPartitionSpec parses a PartitionSpec's wire form against schema,
// which is needed to derive the partition struct type (PartitionSpec has no
// UnmarshalJSON since reconstructing it requires the owning schema).
func UnmarshalPartitionSpec(data []byte, schema *Schema) (*PartitionSpec, error) {
	var psj partitionSpecJSON
	if err := json.Unmarshal(data, &psj); err != nil {
		return nil, err
	}
	fields := make([]PartitionField, len(psj.Fields))
	for i, fj := range psj.Fields {
		transform, err := parseTransformString(fj.Transform)
		if err != nil {
			return nil, err
		}
		fields[i] = PartitionField{SourceID: fj.SourceID, FieldID: fj.FieldID, Name: fj.Name, Transform: transform}
	}
	return NewPartitionSpec(psj.SpecID, schema, fields...), nil
}

func parseTransformString(s string) (Transform, error) {
	switch {
	case s == "identity":
		return IdentityTransform{}, nil
	case s == "year":
		return YearTransform(), nil
	case s == "month":
		return MonthTransform(), nil
	case s == "day":
		return DayTransform(), nil
	case s == "hour":
		return HourTransform(), nil
	case strings.HasPrefix(s, "bucket[") && strings.HasSuffix(s, "]"):
		n, err := strconv.Atoi(s[len("bucket[") : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("iceberg: malformed transform %q: %w", s, err)
		}
		return NewBucketTransform(n), nil
	case strings.HasPrefix(s, "truncate[") && strings.HasSuffix(s, "]"):
		n, err := strconv.Atoi(s[len("truncate[") : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("iceberg: malformed transform %q: %w", s, err)
		}
		return NewTruncateTransform(n), nil
	default:
		return nil, fmt.Errorf("iceberg: unknown transform %q", s)
	}
}
