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
)

// Transform is a pure function T -> U with a declared domain, result type,
// and the two projection operators of §4.4.
type Transform interface {
	fmt.Stringer
	// CanTransform reports whether this transform accepts values of t.
	CanTransform(t Type) bool
	// ResultType returns the transform's output type given its source type.
	ResultType(source Type) Type
	// Apply transforms a (non-nil) source literal into the partition value.
	Apply(v Literal) Literal
	// ProjectInclusive derives an over-approximating partition-space
	// predicate from a bound row-space predicate, or nil if it cannot.
	ProjectInclusive(fieldName string, pred BoundPredicate) Expression
	// ProjectStrict derives an under-approximating partition-space
	// predicate, or nil if it cannot.
	ProjectStrict(fieldName string, pred BoundPredicate) Expression
	// Equals compares transforms by their parameters (e.g. bucket N).
	Equals(Transform) bool
}

// ---- Identity ----

type IdentityTransform struct{}

func (IdentityTransform) String() string        { return "identity" }
func (IdentityTransform) CanTransform(t Type) bool { return IsPrimitive(t) }
func (IdentityTransform) ResultType(source Type) Type { return source }
func (IdentityTransform) Apply(v Literal) Literal   { return v }
func (IdentityTransform) Equals(o Transform) bool {
	_, ok := o.(IdentityTransform)
	return ok
}

func (t IdentityTransform) ProjectInclusive(fieldName string, pred BoundPredicate) Expression {
	return projectUnchanged(fieldName, pred)
}

func (t IdentityTransform) ProjectStrict(fieldName string, pred BoundPredicate) Expression {
	return projectUnchanged(fieldName, pred)
}

func projectUnchanged(fieldName string, pred BoundPredicate) Expression {
	ref := NewNamedReference(fieldName)
	if pred.Op == OpIsNull || pred.Op == OpNotNull {
		return &UnboundPredicate{Op: pred.Op, Ref: ref}
	}
	return &UnboundPredicate{Op: pred.Op, Ref: ref, Literal: pred.Literal}
}

// ---- Bucket[N] ----

type BucketTransform struct {
	N int
}

func NewBucketTransform(n int) BucketTransform {
	if n <= 0 {
		panicIllegalArgument("bucket count must be positive, got %d", n)
	}
	return BucketTransform{N: n}
}

func (t BucketTransform) String() string { return fmt.Sprintf("bucket[%d]", t.N) }

func (t BucketTransform) CanTransform(typ Type) bool {
	switch typ.(type) {
	case Int32Type, Int64Type, DateType, TimeType, TimestampType, TimestampTzType,
		DecimalType, StringType, UUIDType, FixedType, BinaryType:
		return true
	default:
		return false
	}
}

func (t BucketTransform) ResultType(Type) Type { return Int32Type{} }

func (t BucketTransform) Apply(v Literal) Literal {
	if v == nil {
		return nil
	}
	h := bucketHash(v)
	bucket := int32((h & 0x7FFFFFFF)) % int32(t.N)
	return Int32Literal(bucket)
}

func (t BucketTransform) Equals(o Transform) bool {
	other, ok := o.(BucketTransform)
	return ok && other.N == t.N
}

func (t BucketTransform) ProjectInclusive(fieldName string, pred BoundPredicate) Expression {
	if pred.Op != OpEq {
		return nil
	}
	bucketed := t.Apply(pred.Literal)
	return &UnboundPredicate{Op: OpEq, Ref: NewNamedReference(fieldName), Literal: bucketed}
}

func (t BucketTransform) ProjectStrict(fieldName string, pred BoundPredicate) Expression {
	if pred.Op != OpNotEq {
		return nil
	}
	bucketed := t.Apply(pred.Literal)
	return &UnboundPredicate{Op: OpNotEq, Ref: NewNamedReference(fieldName), Literal: bucketed}
}

// ---- Truncate[W] ----

type TruncateTransform struct {
	W int
}

func NewTruncateTransform(w int) TruncateTransform {
	if w <= 0 {
		panicIllegalArgument("truncate width must be positive, got %d", w)
	}
	return TruncateTransform{W: w}
}

func (t TruncateTransform) String() string { return fmt.Sprintf("truncate[%d]", t.W) }

func (t TruncateTransform) CanTransform(typ Type) bool {
	switch typ.(type) {
	case Int32Type, Int64Type, DecimalType, StringType, BinaryType:
		return true
	default:
		return false
	}
}

func (t TruncateTransform) ResultType(source Type) Type { return source }

func (t TruncateTransform) Apply(v Literal) Literal {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case Int32Literal:
		return Int32Literal(truncateInt(int64(val), int64(t.W)))
	case Int64Literal:
		return Int64Literal(truncateInt(int64(val), int64(t.W)))
	case StringLiteral:
		return StringLiteral(truncateString(string(val), t.W))
	case DecimalLiteral:
		unscaled := truncateBigInt(val.unscaled, big.NewInt(int64(t.W)))
		return DecimalLiteral{unscaled: unscaled, scale: val.scale, precision: val.precision}
	case BinaryLiteral:
		if len(val) <= t.W {
			return val
		}
		return BinaryLiteral(append([]byte(nil), val[:t.W]...))
	default:
		panicIllegalArgument("cannot truncate literal of type %s", v.Type())
		return nil
	}
}

func truncateInt(v, w int64) int64 {
	return v - (((v % w) + w) % w)
}

func truncateBigInt(v, w *big.Int) *big.Int {
	mod := new(big.Int).Mod(v, w) // big.Int.Mod always returns a non-negative remainder
	return new(big.Int).Sub(v, mod)
}

func truncateString(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w])
}

func (t TruncateTransform) Equals(o Transform) bool {
	other, ok := o.(TruncateTransform)
	return ok && other.W == t.W
}

// ProjectInclusive derives an over-approximating partition predicate.
// Truncate is monotone non-decreasing but not injective, so Lt/Gt must
// weaken to their closed forms (otherwise a value whose truncation collides
// with the boundary's truncation, like x=12 against Lt(x,15) truncate[10],
// would be wrongly pruned), and NotEq has no sound projection at all: two
// distinct values can share a truncated prefix, so a file containing x != v
// rows cannot be ruled out from its truncated bucket alone.
func (t TruncateTransform) ProjectInclusive(fieldName string, pred BoundPredicate) Expression {
	ref := NewNamedReference(fieldName)
	switch pred.Op {
	case OpIsNull, OpNotNull:
		return &UnboundPredicate{Op: pred.Op, Ref: ref}
	case OpEq:
		return &UnboundPredicate{Op: OpEq, Ref: ref, Literal: t.Apply(pred.Literal)}
	case OpLt, OpLtEq:
		return &UnboundPredicate{Op: OpLtEq, Ref: ref, Literal: t.Apply(pred.Literal)}
	case OpGt, OpGtEq:
		return &UnboundPredicate{Op: OpGtEq, Ref: ref, Literal: t.Apply(pred.Literal)}
	default:
		return nil
	}
}

// ProjectStrict derives an under-approximating partition predicate: true on
// p only when every row truncating to p is guaranteed to satisfy pred.
// Eq has no sound strict projection (a bucket holds many distinct values, so
// the bucket matching truncate(v) does not mean every row in it equals v);
// NotEq and the open range comparisons do, via truncate's monotonicity.
func (t TruncateTransform) ProjectStrict(fieldName string, pred BoundPredicate) Expression {
	ref := NewNamedReference(fieldName)
	switch pred.Op {
	case OpIsNull, OpNotNull:
		return &UnboundPredicate{Op: pred.Op, Ref: ref}
	case OpNotEq:
		return &UnboundPredicate{Op: OpNotEq, Ref: ref, Literal: t.Apply(pred.Literal)}
	case OpLt, OpLtEq:
		return &UnboundPredicate{Op: OpLt, Ref: ref, Literal: t.Apply(pred.Literal)}
	case OpGt, OpGtEq:
		return &UnboundPredicate{Op: OpGt, Ref: ref, Literal: t.Apply(pred.Literal)}
	default:
		return nil
	}
}

// ---- Temporal extraction: year/month/day/hour ----

type temporalUnit int

const (
	unitYear temporalUnit = iota
	unitMonth
	unitDay
	unitHour
)

// TemporalTransform extracts a calendar field from a Date/Timestamp value
// as an integer count of units since the epoch.
type TemporalTransform struct {
	unit temporalUnit
}

func YearTransform() TemporalTransform  { return TemporalTransform{unit: unitYear} }
func MonthTransform() TemporalTransform { return TemporalTransform{unit: unitMonth} }
func DayTransform() TemporalTransform   { return TemporalTransform{unit: unitDay} }
func HourTransform() TemporalTransform  { return TemporalTransform{unit: unitHour} }

func (t TemporalTransform) String() string {
	switch t.unit {
	case unitYear:
		return "year"
	case unitMonth:
		return "month"
	case unitDay:
		return "day"
	default:
		return "hour"
	}
}

func (t TemporalTransform) CanTransform(typ Type) bool {
	switch typ.(type) {
	case DateType:
		return t.unit != unitHour
	case TimestampType, TimestampTzType:
		return true
	default:
		return false
	}
}

func (t TemporalTransform) ResultType(Type) Type { return Int32Type{} }

func (t TemporalTransform) Apply(v Literal) Literal {
	if v == nil {
		return nil
	}
	var tm int64 // micros since epoch, or days*86400*1e6 for dates
	switch val := v.(type) {
	case DateLiteral:
		tm = int64(val) * 86400 * 1_000_000
	case TimestampLiteral:
		tm = int64(val)
	case TimestampTzLiteral:
		tm = int64(val)
	default:
		panicIllegalArgument("cannot apply %s to literal of type %s", t, v.Type())
		return nil
	}
	asTime := microsToTime(tm)
	switch t.unit {
	case unitYear:
		return Int32Literal(int32(asTime.Year() - 1970))
	case unitMonth:
		return Int32Literal(int32((asTime.Year()-1970)*12 + int(asTime.Month()) - 1))
	case unitDay:
		days := int32(tm / (86400 * 1_000_000))
		if tm < 0 && tm%(86400*1_000_000) != 0 {
			days--
		}
		return Int32Literal(days)
	default: // unitHour
		hours := int32(tm / (3600 * 1_000_000))
		if tm < 0 && tm%(3600*1_000_000) != 0 {
			hours--
		}
		return Int32Literal(hours)
	}
}

func (t TemporalTransform) Equals(o Transform) bool {
	other, ok := o.(TemporalTransform)
	return ok && other.unit == t.unit
}

// ProjectInclusive and ProjectStrict coincide for temporal extraction: the
// transform is monotone, so Eq/Lt/LtEq/Gt/GtEq project by applying the
// transform to the literal (§4.4). NotEq has no projection and yields nil.
func (t TemporalTransform) ProjectInclusive(fieldName string, pred BoundPredicate) Expression {
	return t.project(fieldName, pred)
}

func (t TemporalTransform) ProjectStrict(fieldName string, pred BoundPredicate) Expression {
	return t.project(fieldName, pred)
}

func (t TemporalTransform) project(fieldName string, pred BoundPredicate) Expression {
	ref := NewNamedReference(fieldName)
	switch pred.Op {
	case OpIsNull, OpNotNull:
		return &UnboundPredicate{Op: pred.Op, Ref: ref}
	case OpEq, OpLt, OpLtEq, OpGt, OpGtEq:
		return &UnboundPredicate{Op: pred.Op, Ref: ref, Literal: t.Apply(pred.Literal)}
	default:
		return nil
	}
}
