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
	"bytes"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Literal is a typed, immutable value. Literal.To is a partial conversion
// function per §4.3: it never panics or returns an error ("Literal
// conversion does not throw", §7) — it returns nil for a disallowed
// conversion, a sentinel (AboveMaxLiteral/BelowMinLiteral) when the source
// value overflows the target domain, or a concrete literal otherwise.
type Literal interface {
	fmt.Stringer
	Type() Type
	Equals(Literal) bool
	To(target Type) Literal
}

// AboveMaxLiteral marks a conversion whose source value exceeds the
// representable range of Target.
type AboveMaxLiteral struct{ Target Type }

func (a AboveMaxLiteral) Type() Type           { return a.Target }
func (a AboveMaxLiteral) String() string       { return "aboveMax" }
func (a AboveMaxLiteral) Equals(o Literal) bool { other, ok := o.(AboveMaxLiteral); return ok && typesEqual(a.Target, other.Target) }
func (a AboveMaxLiteral) To(t Type) Literal    { return a }

// BelowMinLiteral marks a conversion whose source value is below the
// representable range of Target.
type BelowMinLiteral struct{ Target Type }

func (b BelowMinLiteral) Type() Type           { return b.Target }
func (b BelowMinLiteral) String() string       { return "belowMin" }
func (b BelowMinLiteral) Equals(o Literal) bool { other, ok := o.(BelowMinLiteral); return ok && typesEqual(b.Target, other.Target) }
func (b BelowMinLiteral) To(t Type) Literal    { return b }

// IsAboveMax reports whether l is the above-max sentinel.
func IsAboveMax(l Literal) bool { _, ok := l.(AboveMaxLiteral); return ok }

// IsBelowMin reports whether l is the below-min sentinel.
func IsBelowMin(l Literal) bool { _, ok := l.(BelowMinLiteral); return ok }

// Binary marks a byte slice as a Binary raw value rather than Fixed when
// passed to LiteralOf, mirroring the byte[] (Fixed) vs ByteBuffer (Binary)
// split the raw-value inference table draws; a bare []byte infers Fixed.
type Binary []byte

// LiteralOf infers a Literal from an ordinary Go value, for callers building
// predicates from raw values rather than picking a typed constructor by
// hand. Unlike Literal.To, which returns nil for a disallowed conversion, an
// unrecognized raw value here is a caller mistake, not a normal outcome, so
// it is reported as an error.
func LiteralOf(v any) (Literal, error) {
	switch val := v.(type) {
	case bool:
		return NewBooleanLiteral(val), nil
	case int32:
		return NewInt32Literal(val), nil
	case int:
		return NewInt64Literal(int64(val)), nil
	case int64:
		return NewInt64Literal(val), nil
	case float32:
		return NewFloat32Literal(val), nil
	case float64:
		return NewFloat64Literal(val), nil
	case string:
		return NewStringLiteral(val), nil
	case decimal.Decimal:
		return decimalLiteralFromDecimal(val), nil
	case uuid.UUID:
		return NewUUIDLiteral(val), nil
	case Binary:
		return NewBinaryLiteral(val), nil
	case []byte:
		return NewFixedLiteral(val), nil
	default:
		return nil, fmt.Errorf("iceberg: cannot infer a literal type for %T", v)
	}
}

// ---- Boolean ----

type BooleanLiteral bool

func NewBooleanLiteral(v bool) BooleanLiteral { return BooleanLiteral(v) }
func (l BooleanLiteral) Type() Type           { return BooleanType{} }
func (l BooleanLiteral) String() string       { return fmt.Sprintf("%t", bool(l)) }
func (l BooleanLiteral) Equals(o Literal) bool {
	other, ok := o.(BooleanLiteral)
	return ok && other == l
}
func (l BooleanLiteral) To(t Type) Literal {
	if _, ok := t.(BooleanType); ok {
		return l
	}
	return nil
}

// ---- Int32 (Int) ----

type Int32Literal int32

func NewInt32Literal(v int32) Int32Literal { return Int32Literal(v) }
func (l Int32Literal) Type() Type          { return Int32Type{} }
func (l Int32Literal) String() string      { return fmt.Sprintf("%d", int32(l)) }
func (l Int32Literal) Equals(o Literal) bool {
	other, ok := o.(Int32Literal)
	return ok && other == l
}

func (l Int32Literal) To(t Type) Literal {
	switch target := t.(type) {
	case Int32Type:
		return l
	case Int64Type:
		return Int64Literal(int64(l))
	case Float32Type:
		return Float32Literal(float32(l))
	case Float64Type:
		return Float64Literal(float64(l))
	case DecimalType:
		return intToDecimal(int64(l), target)
	default:
		return nil
	}
}

// ---- Int64 (Long) ----

type Int64Literal int64

func NewInt64Literal(v int64) Int64Literal { return Int64Literal(v) }
func (l Int64Literal) Type() Type          { return Int64Type{} }
func (l Int64Literal) String() string      { return fmt.Sprintf("%d", int64(l)) }
func (l Int64Literal) Equals(o Literal) bool {
	other, ok := o.(Int64Literal)
	return ok && other == l
}

func (l Int64Literal) To(t Type) Literal {
	switch target := t.(type) {
	case Int32Type:
		if l > math.MaxInt32 {
			return AboveMaxLiteral{Target: target}
		}
		if l < math.MinInt32 {
			return BelowMinLiteral{Target: target}
		}
		return Int32Literal(int32(l))
	case Int64Type:
		return l
	case Float32Type:
		return Float32Literal(float32(l))
	case Float64Type:
		return Float64Literal(float64(l))
	case DecimalType:
		return intToDecimal(int64(l), target)
	default:
		return nil
	}
}

// ---- Float32 ----

type Float32Literal float32

func NewFloat32Literal(v float32) Float32Literal { return Float32Literal(v) }
func (l Float32Literal) Type() Type              { return Float32Type{} }
func (l Float32Literal) String() string          { return fmt.Sprintf("%v", float32(l)) }
func (l Float32Literal) Equals(o Literal) bool {
	other, ok := o.(Float32Literal)
	return ok && other == l
}

func (l Float32Literal) To(t Type) Literal {
	switch target := t.(type) {
	case Float32Type:
		return l
	case Float64Type:
		return Float64Literal(float64(l))
	case DecimalType:
		return floatToDecimal(float64(l), target)
	default:
		return nil
	}
}

// ---- Float64 (Double) ----

type Float64Literal float64

func NewFloat64Literal(v float64) Float64Literal { return Float64Literal(v) }
func (l Float64Literal) Type() Type              { return Float64Type{} }
func (l Float64Literal) String() string          { return fmt.Sprintf("%v", float64(l)) }
func (l Float64Literal) Equals(o Literal) bool {
	other, ok := o.(Float64Literal)
	return ok && other == l
}

func (l Float64Literal) To(t Type) Literal {
	switch target := t.(type) {
	case Float32Type:
		if float64(l) > math.MaxFloat32 {
			return AboveMaxLiteral{Target: target}
		}
		if float64(l) < -math.MaxFloat32 {
			return BelowMinLiteral{Target: target}
		}
		return Float32Literal(float32(l))
	case Float64Type:
		return l
	case DecimalType:
		return floatToDecimal(float64(l), target)
	default:
		return nil
	}
}

// intToDecimal implements the Int/Long -> Decimal(p,s) row: scale-match
// (multiply by 10^s exactly, never rounds) with overflow sentinels.
func intToDecimal(v int64, target DecimalType) Literal {
	unscaled := new(big.Int).Mul(big.NewInt(v), pow10(target.Scale()))
	return decimalFromUnscaled(unscaled, target)
}

// floatToDecimal implements the Float/Double -> Decimal(p,s) row: convert
// "from the value" with HALF_UP rounding, with overflow sentinels.
func floatToDecimal(v float64, target DecimalType) Literal {
	unscaled := decimal.NewFromFloat(v).Shift(int32(target.Scale())).Round(0).BigInt()
	return decimalFromUnscaled(unscaled, target)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func digitCount(v *big.Int) int {
	abs := new(big.Int).Abs(v)
	if abs.Sign() == 0 {
		return 1
	}
	return len(abs.String())
}

func decimalFromUnscaled(unscaled *big.Int, target DecimalType) Literal {
	if digitCount(unscaled) > target.Precision() {
		if unscaled.Sign() < 0 {
			return BelowMinLiteral{Target: target}
		}
		return AboveMaxLiteral{Target: target}
	}
	return DecimalLiteral{unscaled: unscaled, scale: target.Scale(), precision: target.Precision()}
}

// ---- Decimal ----

// DecimalLiteral stores an exact unscaled two's-complement value and the
// scale/precision of its DecimalType, rather than embedding decimal.Decimal
// directly, so Equals and bucketing can work on the unscaled bytes per §4.4.
type DecimalLiteral struct {
	unscaled  *big.Int
	scale     int
	precision int
}

// NewDecimalLiteral parses s (e.g. "34.55") into a DecimalLiteral whose scale
// is inferred from the number of digits after the decimal point.
func NewDecimalLiteral(s string) (DecimalLiteral, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return DecimalLiteral{}, fmt.Errorf("iceberg: invalid decimal literal %q: %w", s, err)
	}
	return decimalLiteralFromDecimal(d), nil
}

// decimalLiteralFromDecimal builds a DecimalLiteral from a decimal.Decimal
// whose scale is inferred from its exponent, the same rule NewDecimalLiteral
// applies after parsing.
func decimalLiteralFromDecimal(d decimal.Decimal) DecimalLiteral {
	scale := int(-d.Exponent())
	if scale < 0 {
		d = d.Shift(int32(-scale))
		scale = 0
	}
	unscaled := d.Shift(int32(scale)).Round(0).BigInt()
	return DecimalLiteral{unscaled: unscaled, scale: scale, precision: digitCount(unscaled)}
}

func (l DecimalLiteral) Type() Type { return NewDecimalType(max(l.precision, 1), l.scale) }
func (l DecimalLiteral) String() string {
	return decimal.NewFromBigInt(l.unscaled, int32(-l.scale)).StringFixed(int32(l.scale))
}

func (l DecimalLiteral) Equals(o Literal) bool {
	other, ok := o.(DecimalLiteral)
	if !ok || other.scale != l.scale {
		return false
	}
	return other.unscaled.Cmp(l.unscaled) == 0
}

// Unscaled returns the two's-complement unscaled value, as consumed by the
// Bucket transform's hash function (§4.4).
func (l DecimalLiteral) Unscaled() *big.Int { return l.unscaled }
func (l DecimalLiteral) Scale() int         { return l.scale }

// Cmp orders decimals by numeric value regardless of scale, per §4.3's
// ordering rule.
func (l DecimalLiteral) Cmp(o DecimalLiteral) int {
	a := decimal.NewFromBigInt(l.unscaled, int32(-l.scale))
	b := decimal.NewFromBigInt(o.unscaled, int32(-o.scale))
	return a.Cmp(b)
}

func (l DecimalLiteral) To(t Type) Literal {
	target, ok := t.(DecimalType)
	if !ok {
		return nil
	}
	if target.Scale() != l.scale {
		return nil
	}
	if digitCount(l.unscaled) > target.Precision() {
		return nil
	}
	return DecimalLiteral{unscaled: l.unscaled, scale: l.scale, precision: target.Precision()}
}

// ---- Date ----

// DateLiteral is a count of days since 1970-01-01.
type DateLiteral int32

func NewDateLiteral(days int32) DateLiteral { return DateLiteral(days) }
func (l DateLiteral) Type() Type            { return DateType{} }
func (l DateLiteral) String() string {
	return epochDay(int32(l)).Format("2006-01-02")
}
func (l DateLiteral) Equals(o Literal) bool {
	other, ok := o.(DateLiteral)
	return ok && other == l
}
func (l DateLiteral) To(t Type) Literal {
	if _, ok := t.(DateType); ok {
		return l
	}
	return nil
}

func epochDay(days int32) time.Time {
	return time.Unix(int64(days)*86400, 0).UTC()
}

func parseDateLiteral(s string) (DateLiteral, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("iceberg: invalid date literal %q: %w", s, err)
	}
	return DateLiteral(t.Unix() / 86400), nil
}

// ---- Time ----

// TimeLiteral is a count of microseconds since midnight.
type TimeLiteral int64

func NewTimeLiteral(micros int64) TimeLiteral { return TimeLiteral(micros) }
func (l TimeLiteral) Type() Type              { return TimeType{} }
func (l TimeLiteral) String() string {
	d := time.Duration(l) * time.Microsecond
	return fmt.Sprintf("%02d:%02d:%02d.%06d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60, int64(d.Microseconds())%1e6)
}
func (l TimeLiteral) Equals(o Literal) bool {
	other, ok := o.(TimeLiteral)
	return ok && other == l
}
func (l TimeLiteral) To(t Type) Literal {
	if _, ok := t.(TimeType); ok {
		return l
	}
	return nil
}

func parseTimeLiteral(s string) (TimeLiteral, error) {
	layouts := []string{"15:04:05.999999999", "15:04:05"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			micros := (t.Hour()*3600+t.Minute()*60+t.Second())*1_000_000 + t.Nanosecond()/1000
			return TimeLiteral(micros), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("iceberg: invalid time literal %q: %w", s, lastErr)
}

// ---- Timestamp (no zone) ----

// TimestampLiteral is a count of microseconds since the epoch, with no
// associated time zone (a "local" timestamp).
type TimestampLiteral int64

func NewTimestampLiteral(micros int64) TimestampLiteral { return TimestampLiteral(micros) }
func (l TimestampLiteral) Type() Type                   { return TimestampType{} }
func (l TimestampLiteral) String() string                { return microsToTime(int64(l)).Format("2006-01-02T15:04:05.999999") }
func (l TimestampLiteral) Equals(o Literal) bool {
	other, ok := o.(TimestampLiteral)
	return ok && other == l
}
func (l TimestampLiteral) To(t Type) Literal {
	if _, ok := t.(TimestampType); ok {
		return l
	}
	return nil
}

// ---- TimestampTz (UTC) ----

// TimestampTzLiteral is a count of microseconds since the epoch, normalised
// to UTC.
type TimestampTzLiteral int64

func NewTimestampTzLiteral(micros int64) TimestampTzLiteral { return TimestampTzLiteral(micros) }
func (l TimestampTzLiteral) Type() Type                     { return TimestampTzType{} }
func (l TimestampTzLiteral) String() string {
	return microsToTime(int64(l)).Format(time.RFC3339Nano)
}
func (l TimestampTzLiteral) Equals(o Literal) bool {
	other, ok := o.(TimestampTzLiteral)
	return ok && other == l
}
func (l TimestampTzLiteral) To(t Type) Literal {
	if _, ok := t.(TimestampTzType); ok {
		return l
	}
	return nil
}

func microsToTime(micros int64) time.Time {
	sec := micros / 1_000_000
	nsec := (micros % 1_000_000) * 1000
	if nsec < 0 {
		nsec += 1_000_000_000
		sec--
	}
	return time.Unix(sec, nsec).UTC()
}

func parseTimestampLiteral(s string) (TimestampLiteral, error) {
	layouts := []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return TimestampLiteral(t.Unix()*1_000_000 + int64(t.Nanosecond())/1000), nil
		}
	}
	return 0, fmt.Errorf("iceberg: invalid timestamp literal %q", s)
}

func parseTimestampTzLiteral(s string) (TimestampTzLiteral, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, fmt.Errorf("iceberg: invalid timestamptz literal %q: %w", s, err)
	}
	return TimestampTzLiteral(t.Unix()*1_000_000 + int64(t.Nanosecond())/1000), nil
}

// ---- String ----

type StringLiteral string

func NewStringLiteral(v string) StringLiteral { return StringLiteral(v) }
func (l StringLiteral) Type() Type            { return StringType{} }
func (l StringLiteral) String() string        { return string(l) }
func (l StringLiteral) Equals(o Literal) bool {
	other, ok := o.(StringLiteral)
	return ok && other == l
}

func (l StringLiteral) To(t Type) Literal {
	s := string(l)
	switch target := t.(type) {
	case StringType:
		return l
	case DecimalType:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		scale := int(-d.Exponent())
		if scale != target.Scale() {
			return nil
		}
		unscaled := d.Shift(int32(scale)).Round(0).BigInt()
		if digitCount(unscaled) > target.Precision() {
			return nil
		}
		return DecimalLiteral{unscaled: unscaled, scale: scale, precision: target.Precision()}
	case DateType:
		lit, err := parseDateLiteral(s)
		if err != nil {
			return nil
		}
		return lit
	case TimeType:
		lit, err := parseTimeLiteral(s)
		if err != nil {
			return nil
		}
		return lit
	case TimestampType:
		lit, err := parseTimestampLiteral(s)
		if err != nil {
			return nil
		}
		return lit
	case TimestampTzType:
		lit, err := parseTimestampTzLiteral(s)
		if err != nil {
			return nil
		}
		return lit
	case UUIDType:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil
		}
		return UUIDLiteral(id)
	default:
		return nil
	}
}

// ---- UUID ----

type UUIDLiteral uuid.UUID

func NewUUIDLiteral(id uuid.UUID) UUIDLiteral { return UUIDLiteral(id) }
func (l UUIDLiteral) Type() Type              { return UUIDType{} }
func (l UUIDLiteral) String() string          { return uuid.UUID(l).String() }
func (l UUIDLiteral) Equals(o Literal) bool {
	other, ok := o.(UUIDLiteral)
	return ok && other == l
}
func (l UUIDLiteral) To(t Type) Literal {
	if _, ok := t.(UUIDType); ok {
		return l
	}
	return nil
}

// ---- Fixed ----

// FixedLiteral is a fixed-length byte sequence.
type FixedLiteral []byte

func NewFixedLiteral(b []byte) FixedLiteral { return FixedLiteral(append([]byte(nil), b...)) }
func (l FixedLiteral) Type() Type           { return NewFixedType(len(l)) }
func (l FixedLiteral) String() string       { return fmt.Sprintf("X'%X'", []byte(l)) }
func (l FixedLiteral) Equals(o Literal) bool {
	other, ok := o.(FixedLiteral)
	return ok && bytes.Equal(other, l)
}

func (l FixedLiteral) To(t Type) Literal {
	switch target := t.(type) {
	case FixedType:
		if target.Len() != len(l) {
			return nil
		}
		return l
	case BinaryType:
		return BinaryLiteral(append([]byte(nil), l...))
	default:
		return nil
	}
}

// ---- Binary ----

// BinaryLiteral is a variable-length byte sequence.
type BinaryLiteral []byte

func NewBinaryLiteral(b []byte) BinaryLiteral { return BinaryLiteral(append([]byte(nil), b...)) }
func (l BinaryLiteral) Type() Type            { return BinaryType{} }
func (l BinaryLiteral) String() string        { return fmt.Sprintf("X'%X'", []byte(l)) }
func (l BinaryLiteral) Equals(o Literal) bool {
	other, ok := o.(BinaryLiteral)
	return ok && bytes.Equal(other, l)
}

func (l BinaryLiteral) To(t Type) Literal {
	switch target := t.(type) {
	case FixedType:
		if target.Len() != len(l) {
			return nil
		}
		return FixedLiteral(append([]byte(nil), l...))
	case BinaryType:
		return l
	default:
		return nil
	}
}

// literalTypeName returns a short diagnostic name for a literal's runtime
// kind, used in ValidationError messages.
func literalTypeName(l Literal) string {
	return strings.TrimSuffix(fmt.Sprintf("%T", l), "Literal")
}

// compareLiterals orders two literals of the same underlying type, per
// §4.3's total-order requirement (decimals compare by numeric value
// regardless of scale). ok is false when the two literals aren't
// comparable (different kinds, or a kind with no natural order).
func compareLiterals(a, b Literal) (cmp int, ok bool) {
	switch av := a.(type) {
	case BooleanLiteral:
		bv, ok2 := b.(BooleanLiteral)
		if !ok2 {
			return 0, false
		}
		return boolCmp(bool(av), bool(bv)), true
	case Int32Literal:
		bv, ok2 := b.(Int32Literal)
		if !ok2 {
			return 0, false
		}
		return intCmp(int64(av), int64(bv)), true
	case Int64Literal:
		bv, ok2 := b.(Int64Literal)
		if !ok2 {
			return 0, false
		}
		return intCmp(int64(av), int64(bv)), true
	case Float32Literal:
		bv, ok2 := b.(Float32Literal)
		if !ok2 {
			return 0, false
		}
		return floatCmp(float64(av), float64(bv)), true
	case Float64Literal:
		bv, ok2 := b.(Float64Literal)
		if !ok2 {
			return 0, false
		}
		return floatCmp(float64(av), float64(bv)), true
	case DateLiteral:
		bv, ok2 := b.(DateLiteral)
		if !ok2 {
			return 0, false
		}
		return intCmp(int64(av), int64(bv)), true
	case TimeLiteral:
		bv, ok2 := b.(TimeLiteral)
		if !ok2 {
			return 0, false
		}
		return intCmp(int64(av), int64(bv)), true
	case TimestampLiteral:
		bv, ok2 := b.(TimestampLiteral)
		if !ok2 {
			return 0, false
		}
		return intCmp(int64(av), int64(bv)), true
	case TimestampTzLiteral:
		bv, ok2 := b.(TimestampTzLiteral)
		if !ok2 {
			return 0, false
		}
		return intCmp(int64(av), int64(bv)), true
	case StringLiteral:
		bv, ok2 := b.(StringLiteral)
		if !ok2 {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	case DecimalLiteral:
		bv, ok2 := b.(DecimalLiteral)
		if !ok2 {
			return 0, false
		}
		return av.Cmp(bv), true
	case BinaryLiteral:
		bv, ok2 := b.(BinaryLiteral)
		if !ok2 {
			return 0, false
		}
		return bytes.Compare(av, bv), true
	case FixedLiteral:
		bv, ok2 := b.(FixedLiteral)
		if !ok2 {
			return 0, false
		}
		return bytes.Compare(av, bv), true
	default:
		return 0, false
	}
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func intCmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floatCmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
