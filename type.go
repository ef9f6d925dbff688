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
	"math/big"
	"strings"
)

// Type is the closed sum of Iceberg primitive and nested types. Every
// concrete implementation is a value type so that equality is structural.
type Type interface {
	fmt.Stringer
	// Type returns the lowercase type-system name used in JSON and error
	// messages, e.g. "int", "struct", "decimal".
	Type() string
	Equals(Type) bool
}

// PrimitiveType marks the scalar members of the type lattice.
type PrimitiveType interface {
	Type
	isPrimitive()
}

// NestedType marks the composite members of the type lattice.
type NestedType interface {
	Type
	isNested()
}

const (
	maxDecimalLen       = 24
	maxDecimalPrecision = 40
)

var (
	decimalMaxPrecisionTable [maxDecimalLen]int
	decimalRequiredLenTable  [maxDecimalPrecision]int
)

func init() {
	for l := 1; l < maxDecimalLen; l++ {
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(8*l-1)), big.NewInt(1))
		decimalMaxPrecisionTable[l] = len(max.String()) - 1
	}

	p := 0
	for l := 1; l < maxDecimalLen && p < maxDecimalPrecision; l++ {
		for p < maxDecimalPrecision && p <= decimalMaxPrecisionTable[l] {
			decimalRequiredLenTable[p] = l
			p++
		}
	}
}

// decimalMaxPrecision returns the largest decimal precision representable in
// len bytes of unscaled two's-complement storage.
func decimalMaxPrecision(len int) int {
	if len < 0 || len >= maxDecimalLen {
		panicIllegalArgument("iceberg: decimal length %d out of range [0,%d)", len, maxDecimalLen)
	}
	return decimalMaxPrecisionTable[len]
}

// decimalRequiredBytes returns the smallest byte length that can represent
// the given decimal precision.
func decimalRequiredBytes(precision int) int {
	if precision < 0 || precision >= maxDecimalPrecision {
		panicIllegalArgument("iceberg: decimal precision %d out of range [0,%d)", precision, maxDecimalPrecision)
	}
	return decimalRequiredLenTable[precision]
}

// Primitive types. All are value types of zero size except FixedType and
// DecimalType, which carry their parameters.

type BooleanType struct{}

func (BooleanType) Type() string        { return "boolean" }
func (BooleanType) String() string      { return "boolean" }
func (BooleanType) isPrimitive()        {}
func (BooleanType) Equals(o Type) bool  { _, ok := o.(BooleanType); return ok }

type Int32Type struct{}

func (Int32Type) Type() string       { return "int" }
func (Int32Type) String() string     { return "int" }
func (Int32Type) isPrimitive()       {}
func (Int32Type) Equals(o Type) bool { _, ok := o.(Int32Type); return ok }

type Int64Type struct{}

func (Int64Type) Type() string       { return "long" }
func (Int64Type) String() string     { return "long" }
func (Int64Type) isPrimitive()       {}
func (Int64Type) Equals(o Type) bool { _, ok := o.(Int64Type); return ok }

type Float32Type struct{}

func (Float32Type) Type() string       { return "float" }
func (Float32Type) String() string     { return "float" }
func (Float32Type) isPrimitive()       {}
func (Float32Type) Equals(o Type) bool { _, ok := o.(Float32Type); return ok }

type Float64Type struct{}

func (Float64Type) Type() string       { return "double" }
func (Float64Type) String() string     { return "double" }
func (Float64Type) isPrimitive()       {}
func (Float64Type) Equals(o Type) bool { _, ok := o.(Float64Type); return ok }

type DateType struct{}

func (DateType) Type() string       { return "date" }
func (DateType) String() string     { return "date" }
func (DateType) isPrimitive()       {}
func (DateType) Equals(o Type) bool { _, ok := o.(DateType); return ok }

type TimeType struct{}

func (TimeType) Type() string       { return "time" }
func (TimeType) String() string     { return "time" }
func (TimeType) isPrimitive()       {}
func (TimeType) Equals(o Type) bool { _, ok := o.(TimeType); return ok }

// TimestampType is a timestamp without an associated time zone.
type TimestampType struct{}

func (TimestampType) Type() string       { return "timestamp" }
func (TimestampType) String() string     { return "timestamp" }
func (TimestampType) isPrimitive()       {}
func (TimestampType) Equals(o Type) bool { _, ok := o.(TimestampType); return ok }

// TimestampTzType is a timestamp normalised to UTC.
type TimestampTzType struct{}

func (TimestampTzType) Type() string       { return "timestamptz" }
func (TimestampTzType) String() string     { return "timestamptz" }
func (TimestampTzType) isPrimitive()       {}
func (TimestampTzType) Equals(o Type) bool { _, ok := o.(TimestampTzType); return ok }

type StringType struct{}

func (StringType) Type() string       { return "string" }
func (StringType) String() string     { return "string" }
func (StringType) isPrimitive()       {}
func (StringType) Equals(o Type) bool { _, ok := o.(StringType); return ok }

type UUIDType struct{}

func (UUIDType) Type() string       { return "uuid" }
func (UUIDType) String() string     { return "uuid" }
func (UUIDType) isPrimitive()       {}
func (UUIDType) Equals(o Type) bool { _, ok := o.(UUIDType); return ok }

type BinaryType struct{}

func (BinaryType) Type() string       { return "binary" }
func (BinaryType) String() string     { return "binary" }
func (BinaryType) isPrimitive()       {}
func (BinaryType) Equals(o Type) bool { _, ok := o.(BinaryType); return ok }

// FixedType is a fixed-length byte array of Len bytes.
type FixedType struct {
	len int
}

// NewFixedType builds a FixedType of the given byte length.
func NewFixedType(len int) FixedType {
	if len < 0 {
		panic(fmt.Sprintf("iceberg: fixed length must be non-negative, got %d", len))
	}
	return FixedType{len: len}
}

func (t FixedType) Len() int        { return t.len }
func (FixedType) Type() string      { return "fixed" }
func (t FixedType) String() string  { return fmt.Sprintf("fixed[%d]", t.len) }
func (FixedType) isPrimitive()      {}
func (t FixedType) Equals(o Type) bool {
	other, ok := o.(FixedType)
	return ok && other.len == t.len
}

// DecimalType carries fixed precision and scale.
type DecimalType struct {
	precision int
	scale     int
}

// NewDecimalType validates precision against the decimal geometry tables and
// builds a DecimalType.
func NewDecimalType(precision, scale int) DecimalType {
	if precision <= 0 || precision >= maxDecimalPrecision {
		panicIllegalArgument("iceberg: decimal precision must be in (0,%d), got %d", maxDecimalPrecision, precision)
	}
	if scale < 0 || scale > precision {
		panic(fmt.Sprintf("iceberg: decimal scale must be in [0,%d], got %d", precision, scale))
	}
	return DecimalType{precision: precision, scale: scale}
}

func (t DecimalType) Precision() int { return t.precision }
func (t DecimalType) Scale() int     { return t.scale }
func (DecimalType) Type() string     { return "decimal" }
func (t DecimalType) String() string {
	return fmt.Sprintf("decimal(%d, %d)", t.precision, t.scale)
}
func (DecimalType) isPrimitive() {}
func (t DecimalType) Equals(o Type) bool {
	other, ok := o.(DecimalType)
	return ok && other.precision == t.precision && other.scale == t.scale
}

// RequiredBytes returns the minimum unscaled byte-array length for this
// decimal's precision.
func (t DecimalType) RequiredBytes() int { return decimalRequiredBytes(t.precision) }

// Nested types. Field ids embedded in nested types (list element, map
// key/value) are drawn from the same id space as struct fields.

// StructType is an ordered, named tuple of fields.
type StructType struct {
	fields []NestedField
}

// NewStructType builds a StructType from its fields, preserving order.
func NewStructType(fields ...NestedField) StructType {
	return StructType{fields: append([]NestedField(nil), fields...)}
}

func (t StructType) Fields() []NestedField { return t.fields }

func (StructType) Type() string   { return "struct" }
func (t StructType) isNested()    {}
func (t StructType) String() string {
	var b strings.Builder
	b.WriteString("struct<")
	for i, f := range t.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteString(">")
	return b.String()
}

func (t StructType) Equals(o Type) bool {
	other, ok := o.(StructType)
	if !ok || len(other.fields) != len(t.fields) {
		return false
	}
	for i := range t.fields {
		if !t.fields[i].Equals(other.fields[i]) {
			return false
		}
	}
	return true
}

// FieldByID finds an immediate child field of this struct by id, not
// recursing into nested structs.
func (t StructType) FieldByID(id int) (NestedField, bool) {
	for _, f := range t.fields {
		if f.ID == id {
			return f, true
		}
	}
	return NestedField{}, false
}

// ListType is a homogeneous sequence; ElementID is the field id of its
// element, drawn from the schema-wide id space.
type ListType struct {
	ElementID       int
	Element         Type
	ElementRequired bool
}

func (ListType) Type() string   { return "list" }
func (t ListType) isNested()    {}
func (t ListType) String() string {
	req := "optional"
	if t.ElementRequired {
		req = "required"
	}
	return fmt.Sprintf("list<%s %s>", req, t.Element)
}

func (t ListType) Equals(o Type) bool {
	other, ok := o.(ListType)
	return ok && other.ElementID == t.ElementID &&
		other.ElementRequired == t.ElementRequired && typesEqual(t.Element, other.Element)
}

// ElementField exposes the list's element as a synthetic NestedField so it
// can be visited and indexed like a struct field.
func (t ListType) ElementField() NestedField {
	return NestedField{ID: t.ElementID, Name: "element", Type: t.Element, Required: t.ElementRequired}
}

// MapType associates keys of KeyType with values of ValueType; KeyID and
// ValueID are drawn from the schema-wide id space. Map keys are always
// required.
type MapType struct {
	KeyID         int
	KeyType       Type
	ValueID       int
	ValueType     Type
	ValueRequired bool
}

func (MapType) Type() string { return "map" }
func (t MapType) isNested()  {}
func (t MapType) String() string {
	req := "optional"
	if t.ValueRequired {
		req = "required"
	}
	return fmt.Sprintf("map<%s, %s %s>", t.KeyType, req, t.ValueType)
}

func (t MapType) Equals(o Type) bool {
	other, ok := o.(MapType)
	return ok && other.KeyID == t.KeyID && other.ValueID == t.ValueID &&
		other.ValueRequired == t.ValueRequired &&
		typesEqual(t.KeyType, other.KeyType) && typesEqual(t.ValueType, other.ValueType)
}

func (t MapType) KeyField() NestedField {
	return NestedField{ID: t.KeyID, Name: "key", Type: t.KeyType, Required: true}
}

func (t MapType) ValueField() NestedField {
	return NestedField{ID: t.ValueID, Name: "value", Type: t.ValueType, Required: t.ValueRequired}
}

func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// IsPrimitive reports whether t is a scalar member of the lattice.
func IsPrimitive(t Type) bool {
	_, ok := t.(PrimitiveType)
	return ok
}

// IsNested reports whether t is a composite member of the lattice.
func IsNested(t Type) bool {
	_, ok := t.(NestedType)
	return ok
}

// AsStruct asserts t is a StructType, aborting loudly otherwise: callers must
// only call this after confirming IsNested and the "struct" kind.
func AsStruct(t Type) StructType {
	st, ok := t.(StructType)
	if !ok {
		panic(fmt.Sprintf("iceberg: %s is not a struct type", t))
	}
	return st
}

// AsList asserts t is a ListType.
func AsList(t Type) ListType {
	lt, ok := t.(ListType)
	if !ok {
		panic(fmt.Sprintf("iceberg: %s is not a list type", t))
	}
	return lt
}

// AsMap asserts t is a MapType.
func AsMap(t Type) MapType {
	mt, ok := t.(MapType)
	if !ok {
		panic(fmt.Sprintf("iceberg: %s is not a map type", t))
	}
	return mt
}

// AsPrimitive asserts t is a PrimitiveType.
func AsPrimitive(t Type) PrimitiveType {
	pt, ok := t.(PrimitiveType)
	if !ok {
		panic(fmt.Sprintf("iceberg: %s is not a primitive type", t))
	}
	return pt
}
