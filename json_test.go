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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalPrimitiveTypeRoundTrip(t *testing.T) {
	types := []Type{
		BooleanType{}, Int32Type{}, Int64Type{}, Float32Type{}, Float64Type{},
		DateType{}, TimeType{}, TimestampType{}, TimestampTzType{}, StringType{},
		UUIDType{}, BinaryType{}, NewFixedType(16), NewDecimalType(9, 2),
	}
	for _, typ := range types {
		raw, err := marshalType(typ)
		require.NoError(t, err)
		back, err := unmarshalType(raw)
		require.NoError(t, err)
		assert.True(t, typ.Equals(back), "%s round-tripped as %s", typ, back)
	}
}

func TestMarshalUnmarshalStructTypeRoundTrip(t *testing.T) {
	st := NewStructType(
		NestedField{ID: 1, Name: "a", Type: Int32Type{}, Required: true},
		NestedField{ID: 2, Name: "b", Type: StringType{}, Required: false, Doc: "a comment"},
	)
	raw, err := marshalType(st)
	require.NoError(t, err)
	back, err := unmarshalType(raw)
	require.NoError(t, err)
	assert.True(t, st.Equals(back))
}

func TestMarshalUnmarshalListAndMapTypeRoundTrip(t *testing.T) {
	lt := ListType{ElementID: 5, Element: StringType{}, ElementRequired: true}
	raw, err := marshalType(lt)
	require.NoError(t, err)
	back, err := unmarshalType(raw)
	require.NoError(t, err)
	assert.True(t, lt.Equals(back))

	mt := MapType{KeyID: 6, KeyType: StringType{}, ValueID: 7, ValueType: Int32Type{}, ValueRequired: false}
	raw, err = marshalType(mt)
	require.NoError(t, err)
	back, err = unmarshalType(raw)
	require.NoError(t, err)
	assert.True(t, mt.Equals(back))
}

func TestParseTypeStringErrors(t *testing.T) {
	_, err := parseTypeString("not-a-type")
	assert.Error(t, err)
	_, err = parseTypeString("fixed[abc]")
	assert.Error(t, err)
	_, err = parseTypeString("decimal(9)")
	assert.Error(t, err)
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	schema := NewSchema(1,
		NestedField{ID: 1, Name: "id", Type: Int64Type{}, Required: true},
		NestedField{ID: 2, Name: "name", Type: StringType{}, Required: false},
	).WithIdentifierFieldIDs(1)

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	var back Schema
	require.NoError(t, json.Unmarshal(data, &back))

	assert.True(t, schema.Equals(&back))
	assert.Equal(t, 1, back.SchemaID())
	assert.True(t, back.IdentifierFieldIDs().Contains(1))
}

func TestPartitionSpecJSONRoundTrip(t *testing.T) {
	schema := NewSchema(1,
		NestedField{ID: 1, Name: "id", Type: Int32Type{}, Required: true},
		NestedField{ID: 2, Name: "ts", Type: TimestampType{}, Required: true},
	)
	spec := NewPartitionSpec(0, schema,
		PartitionField{SourceID: 1, FieldID: PartitionFieldIDStart, Name: "id_bucket", Transform: NewBucketTransform(16)},
		PartitionField{SourceID: 2, FieldID: PartitionFieldIDStart + 1, Name: "ts_day", Transform: DayTransform()},
	)

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	back, err := UnmarshalPartitionSpec(data, schema)
	require.NoError(t, err)
	assert.True(t, spec.Equals(back))
}

func TestParseTransformStringUnknown(t *testing.T) {
	_, err := parseTransformString("not-a-transform")
	assert.Error(t, err)
}
