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

// rootParentID is the synthetic parent id for top-level additions, per
// §4.6's "ParentId = -1 for root".
const rootParentID = -1

// columnUpdate records a pending rename and/or type promotion for one field,
// merged so a rename followed by another rename keeps a single record.
type columnUpdate struct {
	newName *string
	newType Type
}

// UpdateSchema batches schema mutations against a base schema. Nothing is
// applied to the base until Apply/Commit: builder methods only validate and
// accumulate, so a caller hitting an error partway through can keep issuing
// further edits (§7's "must never corrupt the builder").
type UpdateSchema struct {
	base         *Schema
	lastColumnID int

	deletes Set[int]
	updates map[int]columnUpdate
	adds    map[int][]NestedField
}

// NewUpdateSchema begins a batch of edits against base, drawing new field
// ids starting at lastColumnID+1.
func NewUpdateSchema(base *Schema, lastColumnID int) *UpdateSchema {
	return &UpdateSchema{
		base:         base,
		lastColumnID: lastColumnID,
		deletes:      newIntSet(),
		updates:      make(map[int]columnUpdate),
		adds:         make(map[int][]NestedField),
	}
}

func (u *UpdateSchema) nextID() int {
	u.lastColumnID++
	return u.lastColumnID
}

// resolveParent finds the struct a new field should be appended to: name =
// "" means the root; otherwise name must resolve to a struct field (through
// a list's .element or a map's .value), not a deleted one.
func (u *UpdateSchema) resolveParent(name string) (parentID int, parentStruct StructType, err error) {
	if name == "" {
		return rootParentID, u.base.asStruct, nil
	}
	f, ok := u.base.FindFieldByName(name)
	if !ok {
		return 0, StructType{}, newValidationError("cannot add column: parent %q does not exist", name)
	}
	if u.deletes.Contains(f.ID) {
		return 0, StructType{}, newValidationError("cannot add column: parent %q is deleted", name)
	}
	switch t := f.Type.(type) {
	case StructType:
		return f.ID, t, nil
	case ListType:
		if st, ok := t.Element.(StructType); ok {
			return t.ElementID, st, nil
		}
	case MapType:
		if st, ok := t.ValueType.(StructType); ok {
			return t.ValueID, st, nil
		}
	}
	return 0, StructType{}, newValidationError("cannot add column: parent %q is not a struct", name)
}

// AddColumn adds a new field under the struct named by parent ("" for the
// root). The field's own id is drawn first, then any ids nested within typ
// are reassigned, sharing the same counter (§4.6, and the worked example in
// §8: addColumn("c", List(Int)) gives "c" id 3 and its element id 4).
func (u *UpdateSchema) AddColumn(parent, name string, typ Type, required bool, doc string) error {
	parentID, parentStruct, err := u.resolveParent(parent)
	if err != nil {
		return err
	}
	for _, f := range parentStruct.Fields() {
		if f.Name == name && !u.deletes.Contains(f.ID) {
			return newValidationError("cannot add column: %q already exists", name)
		}
	}
	for _, f := range u.adds[parentID] {
		if f.Name == name {
			return newValidationError("cannot add column: %q already pending", name)
		}
	}

	id := u.nextID()
	reassigned := reassignTypeIDs(typ, u.nextID)
	u.adds[parentID] = append(u.adds[parentID], NestedField{
		ID: id, Name: name, Type: reassigned, Required: required, Doc: doc,
	})
	return nil
}

// DeleteColumn marks name for removal; it must exist and have no pending
// adds or updates under it.
func (u *UpdateSchema) DeleteColumn(name string) error {
	f, ok := u.base.FindFieldByName(name)
	if !ok {
		return newValidationError("cannot delete column: %q does not exist", name)
	}
	if len(u.adds[f.ID]) > 0 {
		return newValidationError("cannot delete column %q: has pending additions", name)
	}
	if _, ok := u.updates[f.ID]; ok {
		return newValidationError("cannot delete column %q: has a pending update", name)
	}
	u.deletes.Add(f.ID)
	return nil
}

// RenameColumn schedules name to be renamed to newName, merging with any
// pre-existing update for the same field.
func (u *UpdateSchema) RenameColumn(name, newName string) error {
	f, ok := u.base.FindFieldByName(name)
	if !ok {
		return newValidationError("cannot rename column: %q does not exist", name)
	}
	if u.deletes.Contains(f.ID) {
		return newValidationError("cannot rename column: %q is deleted", name)
	}
	upd := u.updates[f.ID]
	upd.newName = &newName
	u.updates[f.ID] = upd
	return nil
}

// UpdateColumn schedules name's type to be promoted to newType. Only legal
// primitive promotions are accepted: Int->Long, Float->Double,
// Decimal(p1,s)->Decimal(p2,s) with p1<=p2; same-type is a no-op.
func (u *UpdateSchema) UpdateColumn(name string, newType PrimitiveType) error {
	f, ok := u.base.FindFieldByName(name)
	if !ok {
		return newValidationError("cannot update column: %q does not exist", name)
	}
	if u.deletes.Contains(f.ID) {
		return newValidationError("cannot update column: %q is deleted", name)
	}
	if typesEqual(f.Type, newType) {
		return nil
	}
	if !isLegalPromotion(f.Type, newType) {
		return newValidationError("cannot change column %q type: %s to %s is not a valid promotion", name, f.Type, newType)
	}
	upd := u.updates[f.ID]
	upd.newType = newType
	u.updates[f.ID] = upd
	return nil
}

func isLegalPromotion(from, to Type) bool {
	switch fromT := from.(type) {
	case Int32Type:
		_, ok := to.(Int64Type)
		return ok
	case Float32Type:
		_, ok := to.(Float64Type)
		return ok
	case DecimalType:
		toT, ok := to.(DecimalType)
		return ok && toT.Scale() == fromT.Scale() && toT.Precision() >= fromT.Precision()
	default:
		return false
	}
}

// Apply reconstructs the schema with every pending mutation applied, via a
// custom-order traversal: a deleted field yields no output; an updated
// field keeps its id but gets its new name/type; a struct with pending
// root-level (or parent-scoped) additions appends them after its existing
// fields.
func (u *UpdateSchema) Apply() *Schema {
	v := &applyVisitor{update: u}
	rootFields := v.applyStruct(rootParentID, u.base.asStruct)
	return NewSchemaWithAliases(u.base.schemaID, u.base.aliases, rootFields...)
}

// LastColumnID returns the counter value after every AddColumn call so far,
// for the caller to persist alongside the committed schema (§4.6's Commit).
func (u *UpdateSchema) LastColumnID() int { return u.lastColumnID }

type applyVisitor struct {
	update *UpdateSchema
}

// applyStruct rebuilds st's field list: live fields in original order (with
// any update applied), then this struct's pending additions appended.
func (v *applyVisitor) applyStruct(structID int, st StructType) []NestedField {
	out := make([]NestedField, 0, len(st.Fields()))
	for _, f := range st.Fields() {
		if v.update.deletes.Contains(f.ID) {
			continue
		}
		nf := f
		switch t := f.Type.(type) {
		case StructType:
			nf.Type = NewStructType(v.applyStruct(f.ID, t)...)
		case ListType:
			if elemStruct, ok := t.Element.(StructType); ok {
				lt := t
				lt.Element = NewStructType(v.applyStruct(t.ElementID, elemStruct)...)
				nf.Type = lt
			}
		case MapType:
			if valStruct, ok := t.ValueType.(StructType); ok {
				mt := t
				mt.ValueType = NewStructType(v.applyStruct(t.ValueID, valStruct)...)
				nf.Type = mt
			}
		}
		if upd, ok := v.update.updates[f.ID]; ok {
			if upd.newName != nil {
				nf.Name = *upd.newName
			}
			if upd.newType != nil {
				nf.Type = upd.newType
			}
		}
		out = append(out, nf)
	}
	out = append(out, v.update.adds[structID]...)
	return out
}

// reassignTypeIDs assigns fresh ids to every nested id inside typ (list
// element, map key/value, struct field), recursing depth-first in field
// order; typ's own field id is assigned by the caller, not here.
func reassignTypeIDs(typ Type, nextID func() int) Type {
	switch t := typ.(type) {
	case StructType:
		fields := make([]NestedField, len(t.Fields()))
		for i, f := range t.Fields() {
			fields[i] = NestedField{
				ID: nextID(), Name: f.Name, Required: f.Required, Doc: f.Doc,
				Type:         reassignTypeIDs(f.Type, nextID),
				WriteDefault: f.WriteDefault, InitialDefault: f.InitialDefault,
			}
		}
		return NewStructType(fields...)
	case ListType:
		elemID := nextID()
		return ListType{ElementID: elemID, Element: reassignTypeIDs(t.Element, nextID), ElementRequired: t.ElementRequired}
	case MapType:
		keyID := nextID()
		valueID := nextID()
		return MapType{
			KeyID: keyID, KeyType: reassignTypeIDs(t.KeyType, nextID),
			ValueID: valueID, ValueType: reassignTypeIDs(t.ValueType, nextID), ValueRequired: t.ValueRequired,
		}
	default:
		return typ
	}
}

// MetadataStore is the opaque compare-and-swap collaborator named in the
// data-flow overview: it holds the table's current metadata pointer and
// accepts a replacement only if the caller's view of "current" is still
// current. The concrete implementation (object store, catalog RPC, ...) is
// out of scope for this core.
type MetadataStore interface {
	CompareAndSwap(current, newMetadata any) (ok bool, err error)
}

// ErrCommitConflict is returned by Commit when the store's CAS rejects the
// write because another writer already advanced past current.
var ErrCommitConflict = newValidationError("schema commit conflict: metadata changed since base was read")

// Commit applies the batched edits and hands the resulting schema to store
// as a compare-and-swap against current. On a CAS failure the caller may
// rebuild an UpdateSchema from the new current metadata and retry (§4.6).
func (u *UpdateSchema) Commit(store MetadataStore, current any) (*Schema, error) {
	newSchema := u.Apply()
	ok, err := store.CompareAndSwap(current, newSchema)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommitConflict
	}
	return newSchema, nil
}

