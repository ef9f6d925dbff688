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
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Bucket vectors are the canonical cross-implementation test values.
func TestBucketTransformVectors(t *testing.T) {
	bucket100 := NewBucketTransform(100)

	assert.Equal(t, Int32Literal(79), bucket100.Apply(NewInt32Literal(34)))
	assert.Equal(t, Int32Literal(79), bucket100.Apply(NewInt64Literal(34)))
	assert.Equal(t, Int32Literal(57), bucket100.Apply(NewStringLiteral("iceberg")))

	id := uuid.MustParse("f79c3e09-677c-4bbd-a479-3f349cb785e7")
	assert.Equal(t, Int32Literal(40), bucket100.Apply(NewUUIDLiteral(id)))

	dec, err := NewDecimalLiteral("14.20")
	require.NoError(t, err)
	assert.Equal(t, Int32Literal(59), bucket100.Apply(dec))
}

func TestBucketTransformCanTransformAndResultType(t *testing.T) {
	b := NewBucketTransform(16)
	assert.True(t, b.CanTransform(Int32Type{}))
	assert.True(t, b.CanTransform(StringType{}))
	assert.False(t, b.CanTransform(BooleanType{}))
	assert.Equal(t, Int32Type{}, b.ResultType(Int64Type{}))
}

func TestBucketTransformConstructorRejectsNonPositive(t *testing.T) {
	assert.Panics(t, func() { NewBucketTransform(0) })
	assert.Panics(t, func() { NewBucketTransform(-3) })
}

func TestTruncateTransformInt(t *testing.T) {
	tr := NewTruncateTransform(10)
	assert.Equal(t, Int32Literal(0), tr.Apply(NewInt32Literal(5)))
	assert.Equal(t, Int32Literal(-10), tr.Apply(NewInt32Literal(-5)))
	assert.Equal(t, Int32Literal(90), tr.Apply(NewInt32Literal(99)))
}

func TestTruncateTransformString(t *testing.T) {
	tr := NewTruncateTransform(3)
	assert.Equal(t, StringLiteral("ice"), tr.Apply(NewStringLiteral("iceberg")))
	assert.Equal(t, StringLiteral("ab"), tr.Apply(NewStringLiteral("ab")))
}

func TestTruncateTransformDecimal(t *testing.T) {
	tr := NewTruncateTransform(10)
	dec, err := NewDecimalLiteral("12.34")
	require.NoError(t, err)
	truncated := tr.Apply(dec).(DecimalLiteral)
	assert.Equal(t, "12.30", truncated.String())
}

func TestTruncateTransformBinary(t *testing.T) {
	tr := NewTruncateTransform(2)
	out := tr.Apply(NewBinaryLiteral([]byte{1, 2, 3, 4})).(BinaryLiteral)
	assert.Equal(t, BinaryLiteral([]byte{1, 2}), out)
}

func TestIdentityTransformProjectsUnchanged(t *testing.T) {
	id := IdentityTransform{}
	pred := BoundPredicate{Op: OpEq, Ref: BoundReference{FieldID: 1, Type: Int32Type{}}, Literal: NewInt32Literal(5)}
	proj := id.ProjectInclusive("col", pred)
	up, ok := proj.(*UnboundPredicate)
	require.True(t, ok)
	assert.Equal(t, OpEq, up.Op)
	assert.Equal(t, "col", up.Ref.Name)
	assert.Equal(t, NewInt32Literal(5), up.Literal)
}

func TestBucketTransformProjectionOnlyHandlesEqNotEq(t *testing.T) {
	b := NewBucketTransform(16)
	eqPred := BoundPredicate{Op: OpEq, Literal: NewInt32Literal(17)}
	inclusive := b.ProjectInclusive("id_bucket", eqPred)
	require.NotNil(t, inclusive)
	up := inclusive.(*UnboundPredicate)
	assert.Equal(t, b.Apply(NewInt32Literal(17)), up.Literal)

	assert.Nil(t, b.ProjectInclusive("id_bucket", BoundPredicate{Op: OpLt, Literal: NewInt32Literal(17)}))

	notEqPred := BoundPredicate{Op: OpNotEq, Literal: NewInt32Literal(17)}
	strict := b.ProjectStrict("id_bucket", notEqPred)
	require.NotNil(t, strict)
	assert.Nil(t, b.ProjectStrict("id_bucket", BoundPredicate{Op: OpEq, Literal: NewInt32Literal(17)}))
}

func TestTemporalTransforms(t *testing.T) {
	ts, err := parseTimestampLiteral("2017-11-16T14:43:21")
	require.NoError(t, err)

	assert.Equal(t, Int32Literal(47), YearTransform().Apply(ts))
	assert.Equal(t, Int32Literal(574), MonthTransform().Apply(ts))

	day := DayTransform().Apply(ts).(Int32Literal)
	assert.Greater(t, int32(day), int32(17000))

	hour := HourTransform().Apply(ts).(Int32Literal)
	assert.Greater(t, int32(hour), int32(0))
}

func TestTemporalTransformCanTransform(t *testing.T) {
	assert.True(t, YearTransform().CanTransform(DateType{}))
	assert.False(t, HourTransform().CanTransform(DateType{}))
	assert.True(t, HourTransform().CanTransform(TimestampType{}))
	assert.True(t, HourTransform().CanTransform(TimestampTzType{}))
	assert.False(t, YearTransform().CanTransform(StringType{}))
}

func TestTwosComplementBytesWidths(t *testing.T) {
	tests := []struct {
		v    int64
		want int
	}{
		{0, 1},
		{-1, 1},
		{-128, 1},
		{-129, 2},
		{-5, 1},
		{127, 1},
		{128, 2},
	}
	for _, tt := range tests {
		b := twosComplementBytes(big.NewInt(tt.v))
		assert.Equal(t, tt.want, len(b), "value %d", tt.v)
	}
}
