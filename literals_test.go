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
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntLiteralWidening(t *testing.T) {
	l := NewInt32Literal(34)
	assert.Equal(t, Int64Literal(34), l.To(Int64Type{}))
	assert.Equal(t, Float32Literal(34), l.To(Float32Type{}))
	assert.Equal(t, Float64Literal(34), l.To(Float64Type{}))
	assert.Nil(t, l.To(StringType{}))
}

func TestInt64LiteralNarrowingOverflow(t *testing.T) {
	over := NewInt64Literal(math.MaxInt32 + 1)
	assert.True(t, IsAboveMax(over.To(Int32Type{})))

	under := NewInt64Literal(math.MinInt32 - 1)
	assert.True(t, IsBelowMin(under.To(Int32Type{})))

	exact := NewInt64Literal(42)
	assert.Equal(t, Int32Literal(42), exact.To(Int32Type{}))
}

func TestIntToDecimalConversion(t *testing.T) {
	lit := NewInt64Literal(1420)
	converted := lit.To(NewDecimalType(9, 2))
	dec, ok := converted.(DecimalLiteral)
	require.True(t, ok)
	assert.Equal(t, "1420.00", dec.String())
}

func TestIntToDecimalOverflow(t *testing.T) {
	lit := NewInt64Literal(123456)
	converted := lit.To(NewDecimalType(3, 0))
	assert.True(t, IsAboveMax(converted))
}

func TestDecimalLiteralParseAndCmp(t *testing.T) {
	a, err := NewDecimalLiteral("14.20")
	require.NoError(t, err)
	b, err := NewDecimalLiteral("14.2")
	require.NoError(t, err)

	assert.Equal(t, 0, a.Cmp(b))
	assert.False(t, a.Equals(b)) // different scale, so not structurally Equals

	c, err := NewDecimalLiteral("10.00")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Cmp(c))
}

func TestStringLiteralConversions(t *testing.T) {
	s := NewStringLiteral("2017-11-16")
	date := s.To(DateType{})
	require.NotNil(t, date)
	assert.Equal(t, "2017-11-16", date.String())

	bad := NewStringLiteral("not-a-date")
	assert.Nil(t, bad.To(DateType{}))

	decLit := NewStringLiteral("14.20")
	dec := decLit.To(NewDecimalType(9, 2))
	require.NotNil(t, dec)
	assert.Equal(t, "14.20", dec.String())

	decWrongScale := decLit.To(NewDecimalType(9, 3))
	assert.Nil(t, decWrongScale)
}

func TestFixedBinaryConversions(t *testing.T) {
	f := NewFixedLiteral([]byte{1, 2, 3, 4})
	assert.Nil(t, f.To(NewFixedType(3)))
	asBinary := f.To(BinaryType{})
	require.NotNil(t, asBinary)
	_, ok := asBinary.(BinaryLiteral)
	assert.True(t, ok)

	b := NewBinaryLiteral([]byte{5, 6})
	asFixed := b.To(NewFixedType(2))
	require.NotNil(t, asFixed)
	assert.Nil(t, b.To(NewFixedType(5)))
}

func TestCompareLiteralsTotalOrder(t *testing.T) {
	cmp, ok := compareLiterals(NewInt32Literal(1), NewInt32Literal(2))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = compareLiterals(NewStringLiteral("a"), NewStringLiteral("b"))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	_, ok = compareLiterals(NewInt32Literal(1), NewStringLiteral("a"))
	assert.False(t, ok)

	d1, _ := NewDecimalLiteral("14.20")
	d2, _ := NewDecimalLiteral("14.2")
	cmp, ok = compareLiterals(d1, d2)
	require.True(t, ok)
	assert.Equal(t, 0, cmp)
}

func TestLiteralOfInfersConcreteTypes(t *testing.T) {
	l, err := LiteralOf(true)
	require.NoError(t, err)
	assert.Equal(t, BooleanLiteral(true), l)

	l, err = LiteralOf(int32(34))
	require.NoError(t, err)
	assert.Equal(t, Int32Literal(34), l)

	l, err = LiteralOf(34)
	require.NoError(t, err)
	assert.Equal(t, Int64Literal(34), l)

	l, err = LiteralOf(int64(34))
	require.NoError(t, err)
	assert.Equal(t, Int64Literal(34), l)

	l, err = LiteralOf(float32(1.5))
	require.NoError(t, err)
	assert.Equal(t, Float32Literal(1.5), l)

	l, err = LiteralOf(1.5)
	require.NoError(t, err)
	assert.Equal(t, Float64Literal(1.5), l)

	l, err = LiteralOf("iceberg")
	require.NoError(t, err)
	assert.Equal(t, StringLiteral("iceberg"), l)

	id := uuid.MustParse("f79c3e09-677c-4bbd-a479-3f349cb785e7")
	l, err = LiteralOf(id)
	require.NoError(t, err)
	assert.Equal(t, UUIDLiteral(id), l)
}

func TestLiteralOfInfersFixedAndBinaryFromByteSliceKind(t *testing.T) {
	l, err := LiteralOf([]byte{1, 2, 3})
	require.NoError(t, err)
	_, ok := l.(FixedLiteral)
	assert.True(t, ok, "a bare []byte infers Fixed")

	l, err = LiteralOf(Binary([]byte{1, 2, 3}))
	require.NoError(t, err)
	_, ok = l.(BinaryLiteral)
	assert.True(t, ok, "Binary infers the variable-length Binary type")
}

func TestLiteralOfInfersDecimalFromDecimalDecimal(t *testing.T) {
	d, err := decimal.NewFromString("34.55")
	require.NoError(t, err)

	l, err := LiteralOf(d)
	require.NoError(t, err)
	dec, ok := l.(DecimalLiteral)
	require.True(t, ok)
	assert.Equal(t, "34.55", dec.String())
}

func TestLiteralOfRejectsUnrecognizedValue(t *testing.T) {
	_, err := LiteralOf(struct{}{})
	assert.Error(t, err)
}

func TestAboveMaxBelowMinSentinelsPassThrough(t *testing.T) {
	a := AboveMaxLiteral{Target: Int32Type{}}
	assert.Equal(t, Type(Int32Type{}), a.Type())
	assert.Equal(t, a, a.To(StringType{}))

	b := BelowMinLiteral{Target: Int32Type{}}
	assert.Equal(t, b, b.To(StringType{}))
}
