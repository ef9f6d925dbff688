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

// Bind rewrites expr against schema: NamedReferences resolve to field ids
// with a structLike accessor, and literals convert to their field's type,
// per §4.5's four-step algorithm. IsNull/NotNull on a required field and
// comparisons against an aboveMax/belowMin literal fold to True/False
// instead of producing a BoundPredicate.
func Bind(schema *Schema, expr Expression) (Expression, error) {
	switch e := expr.(type) {
	case AlwaysTrue, AlwaysFalse:
		return e, nil
	case And:
		l, err := Bind(schema, e.Left)
		if err != nil {
			return nil, err
		}
		r, err := Bind(schema, e.Right)
		if err != nil {
			return nil, err
		}
		return NewAnd(l, r), nil
	case Or:
		l, err := Bind(schema, e.Left)
		if err != nil {
			return nil, err
		}
		r, err := Bind(schema, e.Right)
		if err != nil {
			return nil, err
		}
		return NewOr(l, r), nil
	case *UnboundPredicate:
		return bindPredicate(schema, e)
	case BoundPredicate:
		return e, nil
	default:
		panicIllegalArgument("cannot bind expression of type %T", expr)
		return nil, nil
	}
}

func bindPredicate(schema *Schema, p *UnboundPredicate) (Expression, error) {
	field, ok := schema.FindFieldByName(p.Ref.Name)
	if !ok {
		return nil, newValidationError("cannot bind reference %q: field not found", p.Ref.Name)
	}

	if p.Op == OpIsNull || p.Op == OpNotNull {
		if field.Required {
			if p.Op == OpIsNull {
				return AlwaysFalse{}, nil
			}
			return AlwaysTrue{}, nil
		}
		ref := boundReferenceFor(schema, field)
		return BoundPredicate{Op: p.Op, Ref: ref}, nil
	}

	converted := p.Literal.To(field.Type)
	if converted == nil {
		return nil, newValidationError("invalid value %s for type %s", p.Literal, field.Type)
	}

	if IsAboveMax(converted) {
		switch p.Op {
		case OpLt, OpLtEq, OpNotEq:
			return AlwaysTrue{}, nil
		case OpGt, OpGtEq, OpEq:
			return AlwaysFalse{}, nil
		}
	}
	if IsBelowMin(converted) {
		switch p.Op {
		case OpGt, OpGtEq, OpNotEq:
			return AlwaysTrue{}, nil
		case OpLt, OpLtEq, OpEq:
			return AlwaysFalse{}, nil
		}
	}

	ref := boundReferenceFor(schema, field)
	return BoundPredicate{Op: p.Op, Ref: ref, Literal: converted}, nil
}

// boundReferenceFor builds the accessor chain from the schema's root struct
// down to field.ID, used as BoundReference's evaluator against a row.
func boundReferenceFor(schema *Schema, field NestedField) BoundReference {
	acc := buildAccessor(schema.asStruct, field.ID)
	if acc == nil {
		panic("iceberg: unreachable: field resolved by schema but not found while building accessor")
	}
	return newBoundReference(field.ID, field.Type, acc)
}

func buildAccessor(st StructType, targetID int) *accessor {
	for pos, f := range st.Fields() {
		if f.ID == targetID {
			return &accessor{pos: pos}
		}
		if nested, ok := f.Type.(StructType); ok {
			if inner := buildAccessor(nested, targetID); inner != nil {
				return &accessor{pos: pos, inner: inner}
			}
		}
	}
	return nil
}
