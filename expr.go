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

// Op identifies a predicate's comparison.
type Op int

const (
	OpLt Op = iota
	OpLtEq
	OpGt
	OpGtEq
	OpEq
	OpNotEq
	OpIsNull
	OpNotNull
)

func (o Op) String() string {
	switch o {
	case OpLt:
		return "<"
	case OpLtEq:
		return "<="
	case OpGt:
		return ">"
	case OpGtEq:
		return ">="
	case OpEq:
		return "="
	case OpNotEq:
		return "!="
	case OpIsNull:
		return "is_null"
	case OpNotNull:
		return "not_null"
	default:
		return "unknown_op"
	}
}

// Negate returns the operator's logical negation, per §4.5: Lt<->GtEq,
// LtEq<->Gt, Eq<->NotEq, IsNull<->NotNull.
func (o Op) Negate() Op {
	switch o {
	case OpLt:
		return OpGtEq
	case OpGtEq:
		return OpLt
	case OpLtEq:
		return OpGt
	case OpGt:
		return OpLtEq
	case OpEq:
		return OpNotEq
	case OpNotEq:
		return OpEq
	case OpIsNull:
		return OpNotNull
	case OpNotNull:
		return OpIsNull
	default:
		panicIllegalArgument("no negation defined for op %s", o)
		return o
	}
}

// Expression is the closed sum of boolean predicates: the literal constants
// True/False, the And/Or/Not combinators, and Predicate in its unbound or
// bound form.
type Expression interface {
	fmt.Stringer
	// Negate returns the logical negation of this expression (§4.5).
	Negate() Expression
}

// AlwaysTrue and AlwaysFalse are the identity elements used to fold And/Or
// during construction and projection.
type AlwaysTrue struct{}
type AlwaysFalse struct{}

func (AlwaysTrue) String() string     { return "true" }
func (AlwaysTrue) Negate() Expression { return AlwaysFalse{} }

func (AlwaysFalse) String() string     { return "false" }
func (AlwaysFalse) Negate() Expression { return AlwaysTrue{} }

// And is a binary conjunction. Use NewAnd to get constant-folding.
type And struct {
	Left, Right Expression
}

// NewAnd folds against the True/False absorbing elements rather than
// building a literal And node when either side is already decided.
func NewAnd(left, right Expression) Expression {
	if _, ok := left.(AlwaysFalse); ok {
		return left
	}
	if _, ok := right.(AlwaysFalse); ok {
		return right
	}
	if _, ok := left.(AlwaysTrue); ok {
		return right
	}
	if _, ok := right.(AlwaysTrue); ok {
		return left
	}
	return And{Left: left, Right: right}
}

func (e And) String() string     { return fmt.Sprintf("(%s and %s)", e.Left, e.Right) }
func (e And) Negate() Expression { return NewOr(e.Left.Negate(), e.Right.Negate()) }

// Or is a binary disjunction. Use NewOr to get constant-folding.
type Or struct {
	Left, Right Expression
}

func NewOr(left, right Expression) Expression {
	if _, ok := left.(AlwaysTrue); ok {
		return left
	}
	if _, ok := right.(AlwaysTrue); ok {
		return right
	}
	if _, ok := left.(AlwaysFalse); ok {
		return right
	}
	if _, ok := right.(AlwaysFalse); ok {
		return left
	}
	return Or{Left: left, Right: right}
}

func (e Or) String() string     { return fmt.Sprintf("(%s or %s)", e.Left, e.Right) }
func (e Or) Negate() Expression { return NewAnd(e.Left.Negate(), e.Right.Negate()) }

// Not negates its child directly rather than building a Not node, since
// every Expression already knows how to negate itself (§4.5: negate(Not)=e).
func NewNot(e Expression) Expression { return e.Negate() }

// Reference names the column a predicate compares. NamedReference is the
// unbound form (a dotted column name); BoundReference is produced by Bind
// and carries a resolved accessor into the row's structLike form.
type Reference interface {
	fmt.Stringer
	isReference()
}

type NamedReference struct {
	Name string
}

func NewNamedReference(name string) NamedReference { return NamedReference{Name: name} }

func (r NamedReference) String() string { return r.Name }
func (NamedReference) isReference()     {}

// BoundReference resolves a column to its field id, type, and an accessor
// into a structLike row shaped by structType (§4.2's "accessor" concept).
type BoundReference struct {
	FieldID  int
	Type     Type
	accessor *accessor
}

func newBoundReference(fieldID int, typ Type, acc *accessor) BoundReference {
	return BoundReference{FieldID: fieldID, Type: typ, accessor: acc}
}

func (r BoundReference) String() string { return fmt.Sprintf("ref(id=%d)", r.FieldID) }
func (BoundReference) isReference()     {}

// Get evaluates this reference against a row.
func (r BoundReference) Get(row structLike) any { return r.accessor.Get(row) }

// UnboundPredicate is a predicate whose reference is a plain column name and
// whose literal, if any, is in its raw/user-supplied type.
type UnboundPredicate struct {
	Op      Op
	Ref     NamedReference
	Literal Literal
}

func (p *UnboundPredicate) String() string {
	if p.Op == OpIsNull || p.Op == OpNotNull {
		return fmt.Sprintf("%s %s", p.Ref, p.Op)
	}
	return fmt.Sprintf("%s %s %s", p.Ref, p.Op, p.Literal)
}

func (p *UnboundPredicate) Negate() Expression {
	return &UnboundPredicate{Op: p.Op.Negate(), Ref: p.Ref, Literal: p.Literal}
}

// BoundPredicate is a predicate whose reference has been resolved to a field
// id/accessor and whose literal (if any) has been converted to the field's
// type. Every Expression reachable after Bind is in this form (or folded to
// True/False), per §3's binding invariant.
type BoundPredicate struct {
	Op      Op
	Ref     BoundReference
	Literal Literal
}

func (p BoundPredicate) String() string {
	if p.Op == OpIsNull || p.Op == OpNotNull {
		return fmt.Sprintf("%s %s", p.Ref, p.Op)
	}
	return fmt.Sprintf("%s %s %s", p.Ref, p.Op, p.Literal)
}

func (p BoundPredicate) Negate() Expression {
	return BoundPredicate{Op: p.Op.Negate(), Ref: p.Ref, Literal: p.Literal}
}

// Eval evaluates a bound predicate against a row's structLike form.
func (p BoundPredicate) Eval(row structLike) bool {
	val := p.Ref.Get(row)
	switch p.Op {
	case OpIsNull:
		return val == nil
	case OpNotNull:
		return val != nil
	}
	if val == nil {
		return false
	}
	lit, ok := val.(Literal)
	if !ok {
		panicIllegalArgument("row value for field id %d is not a Literal", p.Ref.FieldID)
	}
	cmp, ok := compareLiterals(lit, p.Literal)
	if !ok {
		return false
	}
	switch p.Op {
	case OpLt:
		return cmp < 0
	case OpLtEq:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGtEq:
		return cmp >= 0
	case OpEq:
		return cmp == 0
	case OpNotEq:
		return cmp != 0
	default:
		panicIllegalArgument("unevaluable op %s", p.Op)
		return false
	}
}
