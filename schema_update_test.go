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

func twoColumnSchema() *Schema {
	return NewSchema(1,
		NestedField{ID: 1, Name: "a", Type: Int32Type{}, Required: true},
		NestedField{ID: 2, Name: "b", Type: StringType{}, Required: false},
	)
}

func TestAddColumnAssignsNextID(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	require.NoError(t, u.AddColumn("", "c", ListType{Element: Int32Type{}, ElementRequired: true}, false, ""))

	updated := u.Apply()
	c, ok := updated.FindFieldByName("c")
	require.True(t, ok)
	assert.Equal(t, 3, c.ID)

	lt := c.Type.(ListType)
	assert.Equal(t, 4, lt.ElementID)
	assert.Equal(t, 4, u.LastColumnID())
}

func TestAddColumnRejectsDuplicateName(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	err := u.AddColumn("", "a", StringType{}, false, "")
	assert.Error(t, err)
}

func TestAddColumnUnderNestedParent(t *testing.T) {
	addr := NewStructType(NestedField{ID: 3, Name: "street", Type: StringType{}, Required: true})
	schema := NewSchema(1,
		NestedField{ID: 1, Name: "a", Type: Int32Type{}, Required: true},
		NestedField{ID: 2, Name: "address", Type: addr, Required: true},
	)
	u := NewUpdateSchema(schema, 3)
	require.NoError(t, u.AddColumn("address", "city", StringType{}, false, ""))

	updated := u.Apply()
	city, ok := updated.FindFieldByName("address.city")
	require.True(t, ok)
	assert.Equal(t, 4, city.ID)
}

func TestAddColumnRejectsUnknownParent(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	err := u.AddColumn("nope", "c", StringType{}, false, "")
	assert.Error(t, err)
}

func TestDeleteColumn(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	require.NoError(t, u.DeleteColumn("b"))

	updated := u.Apply()
	_, ok := updated.FindFieldByName("b")
	assert.False(t, ok)
	_, ok = updated.FindFieldByName("a")
	assert.True(t, ok)
}

func TestDeleteUnknownColumnErrors(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	assert.Error(t, u.DeleteColumn("nope"))
}

func TestRenameColumn(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	require.NoError(t, u.RenameColumn("b", "bee"))

	updated := u.Apply()
	f, ok := updated.FindFieldByName("bee")
	require.True(t, ok)
	assert.Equal(t, 2, f.ID)
	_, ok = updated.FindFieldByName("b")
	assert.False(t, ok)
}

func TestUpdateColumnLegalPromotion(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	require.NoError(t, u.UpdateColumn("a", Int64Type{}))

	updated := u.Apply()
	f, ok := updated.FindFieldByName("a")
	require.True(t, ok)
	assert.Equal(t, Int64Type{}, f.Type)
}

func TestUpdateColumnIllegalPromotionErrors(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	assert.Error(t, u.UpdateColumn("a", StringType{}))
	assert.Error(t, u.UpdateColumn("b", Int32Type{}))
}

func TestUpdateColumnDecimalWidening(t *testing.T) {
	schema := NewSchema(1, NestedField{ID: 1, Name: "amount", Type: NewDecimalType(9, 2), Required: true})
	u := NewUpdateSchema(schema, 1)
	require.NoError(t, u.UpdateColumn("amount", NewDecimalType(18, 2)))
	assert.Error(t, NewUpdateSchema(schema, 1).UpdateColumn("amount", NewDecimalType(18, 3)))
}

func TestDeleteThenAddSameNameIsIndependentOperations(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	require.NoError(t, u.DeleteColumn("b"))
	require.NoError(t, u.AddColumn("", "b", Int32Type{}, false, ""))

	updated := u.Apply()
	f, ok := updated.FindFieldByName("b")
	require.True(t, ok)
	assert.Equal(t, 3, f.ID)
	assert.Equal(t, Int32Type{}, f.Type)
}

func TestApplyPreservesFieldOrderAndAppendsAdds(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	require.NoError(t, u.AddColumn("", "c", StringType{}, false, ""))

	updated := u.Apply()
	names := make([]string, len(updated.Fields()))
	for i, f := range updated.Fields() {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

type fakeMetadataStore struct {
	casOK bool
	got   any
}

func (s *fakeMetadataStore) CompareAndSwap(current, newMetadata any) (bool, error) {
	s.got = newMetadata
	return s.casOK, nil
}

func TestCommitSucceeds(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	require.NoError(t, u.AddColumn("", "c", StringType{}, false, ""))

	store := &fakeMetadataStore{casOK: true}
	result, err := u.Commit(store, schema)
	require.NoError(t, err)
	assert.NotNil(t, store.got)
	_, ok := result.FindFieldByName("c")
	assert.True(t, ok)
}

func TestCommitConflictReturnsErrCommitConflict(t *testing.T) {
	schema := twoColumnSchema()
	u := NewUpdateSchema(schema, 2)
	store := &fakeMetadataStore{casOK: false}
	_, err := u.Commit(store, schema)
	assert.ErrorIs(t, err, ErrCommitConflict)
}
