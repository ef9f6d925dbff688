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

import "fmt"

// SchemaVisitor is the pre-order traversal contract of §4.2. A concrete
// visitor also implements FieldHooks, whose Before/After pairs bracket the
// name-stack pushes needed to build dotted names.
type SchemaVisitor[T any] interface {
	Schema(schema *Schema, structResult T) T
	Struct(st StructType, fieldResults []T) T
	Field(field NestedField, fieldResult T) T
	List(list ListType, elemResult T) T
	Map(m MapType, keyResult, valueResult T) T
	Primitive(p PrimitiveType) T
}

// FieldHooks brackets recursion into a struct field, a list's element, or a
// map's key/value, so a visitor can maintain a name stack or skip subtrees.
type FieldHooks interface {
	BeforeField(field NestedField)
	AfterField(field NestedField)
	BeforeListElement(field NestedField)
	AfterListElement(field NestedField)
	BeforeMapKey(field NestedField)
	AfterMapKey(field NestedField)
	BeforeMapValue(field NestedField)
	AfterMapValue(field NestedField)
}

// BaseFieldHooks is embedded by visitors that only care about a subset of
// the hooks; it supplies no-op defaults for the rest.
type BaseFieldHooks struct{}

func (BaseFieldHooks) BeforeField(NestedField)       {}
func (BaseFieldHooks) AfterField(NestedField)        {}
func (BaseFieldHooks) BeforeListElement(NestedField) {}
func (BaseFieldHooks) AfterListElement(NestedField)  {}
func (BaseFieldHooks) BeforeMapKey(NestedField)      {}
func (BaseFieldHooks) AfterMapKey(NestedField)       {}
func (BaseFieldHooks) BeforeMapValue(NestedField)    {}
func (BaseFieldHooks) AfterMapValue(NestedField)     {}

// FullSchemaVisitor is what VisitSchema requires: traversal callbacks plus
// the name-stack hooks.
type FullSchemaVisitor[T any] interface {
	SchemaVisitor[T]
	FieldHooks
}

// maxSchemaDepth bounds recursive traversal per §5 ("guard against stack
// overflow... documenting a maximum nesting depth (recommended >= 100)").
const maxSchemaDepth = 100

// VisitSchema runs the pre-order traversal described in §4.2 over s.
func VisitSchema[T any](s *Schema, v FullSchemaVisitor[T]) T {
	return v.Schema(s, visitStructPreOrder(s.asStruct, v, 0))
}

func visitStructPreOrder[T any](st StructType, v FullSchemaVisitor[T], depth int) T {
	if depth > maxSchemaDepth {
		panic(fmt.Sprintf("iceberg: schema nesting exceeds maximum depth %d", maxSchemaDepth))
	}
	fields := st.Fields()
	results := make([]T, len(fields))
	for i, f := range fields {
		v.BeforeField(f)
		childResult := visitTypePreOrder(f.Type, v, depth+1)
		v.AfterField(f)
		results[i] = v.Field(f, childResult)
	}
	return v.Struct(st, results)
}

func visitTypePreOrder[T any](t Type, v FullSchemaVisitor[T], depth int) T {
	switch tt := t.(type) {
	case StructType:
		return visitStructPreOrder(tt, v, depth+1)
	case ListType:
		elemField := tt.ElementField()
		v.BeforeListElement(elemField)
		elemResult := visitTypePreOrder(tt.Element, v, depth+1)
		v.AfterListElement(elemField)
		return v.List(tt, elemResult)
	case MapType:
		keyField, valueField := tt.KeyField(), tt.ValueField()
		v.BeforeMapKey(keyField)
		keyResult := visitTypePreOrder(tt.KeyType, v, depth+1)
		v.AfterMapKey(keyField)
		v.BeforeMapValue(valueField)
		valueResult := visitTypePreOrder(tt.ValueType, v, depth+1)
		v.AfterMapValue(valueField)
		return v.Map(tt, keyResult, valueResult)
	case PrimitiveType:
		return v.Primitive(tt)
	default:
		panic(fmt.Sprintf("iceberg: unreachable type variant %#v", t))
	}
}

// CustomOrderVisitor receives single-shot thunks instead of pre-computed
// results, so it may choose traversal order itself (post-order, skipping a
// subtree, ...). Per §4.2/§9, thunks must be invoked at most once and only
// from within the enclosing visitor method; VisitSchemaCustomOrder enforces
// that by panicking on reuse.
type CustomOrderVisitor[T any] interface {
	Schema(schema *Schema, structFn func() T) T
	Struct(st StructType, fieldFns []func() T) T
	Field(field NestedField, fieldFn func() T) T
	List(list ListType, elemFn func() T) T
	Map(m MapType, keyFn, valueFn func() T) T
	Primitive(p PrimitiveType) T
}

// singleShot wraps a thunk so a second invocation panics, enforcing the
// "exactly once" guarantee the spec requires of custom-order thunks.
func singleShot[T any](fn func() T) func() T {
	used := false
	return func() T {
		if used {
			panic("iceberg: custom-order visitor thunk invoked more than once")
		}
		used = true
		return fn()
	}
}

// VisitSchemaCustomOrder runs the pull-based traversal described in §4.2.
func VisitSchemaCustomOrder[T any](s *Schema, v CustomOrderVisitor[T]) T {
	return v.Schema(s, singleShot(func() T { return visitStructCustomOrder(s.asStruct, v, 0) }))
}

func visitStructCustomOrder[T any](st StructType, v CustomOrderVisitor[T], depth int) T {
	if depth > maxSchemaDepth {
		panic(fmt.Sprintf("iceberg: schema nesting exceeds maximum depth %d", maxSchemaDepth))
	}
	fields := st.Fields()
	fieldFns := make([]func() T, len(fields))
	for i, f := range fields {
		f := f
		fieldFns[i] = singleShot(func() T {
			return v.Field(f, singleShot(func() T { return visitTypeCustomOrder(f.Type, v, depth+1) }))
		})
	}
	return v.Struct(st, fieldFns)
}

func visitTypeCustomOrder[T any](t Type, v CustomOrderVisitor[T], depth int) T {
	switch tt := t.(type) {
	case StructType:
		return visitStructCustomOrder(tt, v, depth+1)
	case ListType:
		return v.List(tt, singleShot(func() T { return visitTypeCustomOrder(tt.Element, v, depth+1) }))
	case MapType:
		return v.Map(tt,
			singleShot(func() T { return visitTypeCustomOrder(tt.KeyType, v, depth+1) }),
			singleShot(func() T { return visitTypeCustomOrder(tt.ValueType, v, depth+1) }))
	case PrimitiveType:
		return v.Primitive(tt)
	default:
		panic(fmt.Sprintf("iceberg: unreachable type variant %#v", t))
	}
}
