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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveTypeStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{BooleanType{}, "boolean"},
		{Int32Type{}, "int"},
		{Int64Type{}, "long"},
		{Float32Type{}, "float"},
		{Float64Type{}, "double"},
		{DateType{}, "date"},
		{TimeType{}, "time"},
		{TimestampType{}, "timestamp"},
		{TimestampTzType{}, "timestamptz"},
		{StringType{}, "string"},
		{UUIDType{}, "uuid"},
		{BinaryType{}, "binary"},
		{NewFixedType(16), "fixed[16]"},
		{NewDecimalType(9, 2), "decimal(9, 2)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}

func TestTypeEquals(t *testing.T) {
	assert.True(t, Int32Type{}.Equals(Int32Type{}))
	assert.False(t, Int32Type{}.Equals(Int64Type{}))
	assert.True(t, NewFixedType(8).Equals(NewFixedType(8)))
	assert.False(t, NewFixedType(8).Equals(NewFixedType(16)))
	assert.True(t, NewDecimalType(9, 2).Equals(NewDecimalType(9, 2)))
	assert.False(t, NewDecimalType(9, 2).Equals(NewDecimalType(9, 3)))
}

func TestStructTypeEquals(t *testing.T) {
	a := NewStructType(
		NestedField{ID: 1, Name: "x", Type: Int32Type{}, Required: true},
		NestedField{ID: 2, Name: "y", Type: StringType{}},
	)
	b := NewStructType(
		NestedField{ID: 1, Name: "x", Type: Int32Type{}, Required: true},
		NestedField{ID: 2, Name: "y", Type: StringType{}},
	)
	c := NewStructType(
		NestedField{ID: 1, Name: "x", Type: Int32Type{}, Required: true},
	)
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestListAndMapDerivedFields(t *testing.T) {
	lt := ListType{ElementID: 5, Element: StringType{}, ElementRequired: true}
	elem := lt.ElementField()
	assert.Equal(t, 5, elem.ID)
	assert.Equal(t, "element", elem.Name)
	assert.True(t, elem.Required)

	mt := MapType{KeyID: 6, KeyType: StringType{}, ValueID: 7, ValueType: Int32Type{}, ValueRequired: false}
	key := mt.KeyField()
	val := mt.ValueField()
	assert.Equal(t, 6, key.ID)
	assert.True(t, key.Required)
	assert.Equal(t, 7, val.ID)
	assert.False(t, val.Required)
}

func TestDecimalPrecisionBounds(t *testing.T) {
	require.NotPanics(t, func() { NewDecimalType(38, 0) })
	assert.Panics(t, func() { NewDecimalType(0, 0) })
	assert.Panics(t, func() { NewDecimalType(9, 10) })
}

func TestAsStructAsListAsMapAsPrimitive(t *testing.T) {
	st := NewStructType()
	assert.Equal(t, st, AsStruct(st))
	assert.Panics(t, func() { AsStruct(Int32Type{}) })

	lt := ListType{Element: StringType{}}
	assert.Equal(t, lt, AsList(lt))
	assert.Panics(t, func() { AsList(Int32Type{}) })

	mt := MapType{KeyType: StringType{}, ValueType: StringType{}}
	assert.Equal(t, mt, AsMap(mt))
	assert.Panics(t, func() { AsMap(Int32Type{}) })

	assert.Equal(t, PrimitiveType(Int32Type{}), AsPrimitive(Int32Type{}))
	assert.Panics(t, func() { AsPrimitive(st) })
}

func TestIsPrimitiveIsNested(t *testing.T) {
	assert.True(t, IsPrimitive(Int32Type{}))
	assert.False(t, IsPrimitive(NewStructType()))
	assert.True(t, IsNested(NewStructType()))
	assert.False(t, IsNested(Int32Type{}))
}
