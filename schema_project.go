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

// GetProjectedIDs returns the set of every field id appearing anywhere in s.
func GetProjectedIDs(s *Schema) Set[int] {
	ids := newIntSet()
	for id := range s.byID {
		ids.Add(id)
	}
	return ids
}

// IndexByName returns the dotted-name -> id index built by the schema's
// single pre-order indexing traversal.
func IndexByName(s *Schema) map[string]int {
	out := make(map[string]int, len(s.byName))
	for k, v := range s.byName {
		out[k] = v
	}
	return out
}

// IndexByID returns the id -> field index built by the schema's single
// pre-order indexing traversal.
func IndexByID(s *Schema) map[int]NestedField {
	out := make(map[int]NestedField, len(s.byID))
	for k, v := range s.byID {
		out[k] = v
	}
	return out
}

// SelectByIDs prunes s to the transitive closure of ids: a primitive field
// survives iff its id is requested; a struct/list/map field survives either
// because its own id is requested (keeping its entire subtree) or because
// at least one descendant survives, in which case it is rebuilt with only
// the surviving children. A struct left with no surviving fields is itself
// dropped (§4.2's "promoting a struct whose fields are empty to a deleted
// node").
func SelectByIDs(s *Schema, ids Set[int]) *Schema {
	fields := pruneFields(s.asStruct.Fields(), ids)
	return NewSchemaWithAliases(s.schemaID, s.aliases, fields...)
}

// SelectNotByIDs prunes s to every id except those in ids.
func SelectNotByIDs(s *Schema, ids Set[int]) *Schema {
	all := GetProjectedIDs(s)
	keep := newIntSet()
	for _, id := range all.Members() {
		if !ids.Contains(id) {
			keep.Add(id)
		}
	}
	return SelectByIDs(s, keep)
}

func pruneFields(fields []NestedField, ids Set[int]) []NestedField {
	out := make([]NestedField, 0, len(fields))
	for _, f := range fields {
		if pf, ok := pruneField(f, ids); ok {
			out = append(out, pf)
		}
	}
	return out
}

func pruneField(f NestedField, ids Set[int]) (NestedField, bool) {
	selected := ids.Contains(f.ID)
	switch t := f.Type.(type) {
	case StructType:
		if selected {
			return f, true
		}
		children := pruneFields(t.Fields(), ids)
		if len(children) == 0 {
			return NestedField{}, false
		}
		nf := f
		nf.Type = NewStructType(children...)
		return nf, true
	case ListType:
		if selected {
			return f, true
		}
		prunedElem, ok := pruneField(t.ElementField(), ids)
		if !ok {
			return NestedField{}, false
		}
		nf := f
		nf.Type = ListType{ElementID: t.ElementID, Element: prunedElem.Type, ElementRequired: t.ElementRequired}
		return nf, true
	case MapType:
		if selected {
			return f, true
		}
		prunedValue, ok := pruneField(t.ValueField(), ids)
		if !ok {
			return NestedField{}, false
		}
		nf := f
		nf.Type = MapType{KeyID: t.KeyID, KeyType: t.KeyType, ValueID: t.ValueID, ValueType: prunedValue.Type, ValueRequired: t.ValueRequired}
		return nf, true
	default:
		if selected {
			return f, true
		}
		return NestedField{}, false
	}
}

// JoinSchemas concatenates left's and right's top-level fields into one
// schema, in order, left first.
func JoinSchemas(schemaID int, left, right *Schema) *Schema {
	fields := make([]NestedField, 0, len(left.Fields())+len(right.Fields()))
	fields = append(fields, left.Fields()...)
	fields = append(fields, right.Fields()...)
	return NewSchema(schemaID, fields...)
}

// ReassignIDs rebuilds s with every field and nested-type id replaced by a
// fresh value drawn from nextID, preserving structure and traversal order.
// Each field's own id is assigned before its type is recursed into, so a
// struct field gets a lower id than the nested ids its type introduces —
// this is what lets the custom-order visitor do the reassignment in one
// pass instead of two.
func ReassignIDs(s *Schema, nextID func() int) *Schema {
	v := &reassignVisitor{nextID: nextID}
	newStruct := VisitSchemaCustomOrder[Type](s, v)
	return NewSchemaWithAliases(s.schemaID, s.aliases, AsStruct(newStruct).Fields()...)
}

// reassignVisitor implements CustomOrderVisitor[Type]. It needs to return a
// NestedField from Field (carrying the new id) but the visitor is built
// around T=Type, so completed fields at the current struct level are
// accumulated on a side stack rather than threaded through return values.
type reassignVisitor struct {
	nextID func() int
	stack  [][]NestedField
}

func (v *reassignVisitor) pushLevel() { v.stack = append(v.stack, nil) }

func (v *reassignVisitor) popLevel() []NestedField {
	top := len(v.stack) - 1
	fields := v.stack[top]
	v.stack = v.stack[:top]
	return fields
}

func (v *reassignVisitor) appendField(f NestedField) {
	top := len(v.stack) - 1
	v.stack[top] = append(v.stack[top], f)
}

func (v *reassignVisitor) Schema(schema *Schema, structFn func() Type) Type {
	return structFn()
}

func (v *reassignVisitor) Struct(st StructType, fieldFns []func() Type) Type {
	v.pushLevel()
	for _, fn := range fieldFns {
		fn()
	}
	return NewStructType(v.popLevel()...)
}

func (v *reassignVisitor) Field(field NestedField, fieldFn func() Type) Type {
	newID := v.nextID()
	childType := fieldFn()
	nf := field
	nf.ID = newID
	nf.Type = childType
	v.appendField(nf)
	return childType
}

func (v *reassignVisitor) List(list ListType, elemFn func() Type) Type {
	newElemID := v.nextID()
	elemType := elemFn()
	return ListType{ElementID: newElemID, Element: elemType, ElementRequired: list.ElementRequired}
}

func (v *reassignVisitor) Map(m MapType, keyFn, valueFn func() Type) Type {
	newKeyID := v.nextID()
	keyType := keyFn()
	newValueID := v.nextID()
	valueType := valueFn()
	return MapType{KeyID: newKeyID, KeyType: keyType, ValueID: newValueID, ValueType: valueType, ValueRequired: m.ValueRequired}
}

func (v *reassignVisitor) Primitive(p PrimitiveType) Type { return p }
