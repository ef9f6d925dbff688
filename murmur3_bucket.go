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
	"encoding/binary"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

// murmur3Seed is fixed at 0 per §4.4; every implementation hashing the same
// bytes with this seed must agree bit-for-bit, which is why this reaches for
// the ecosystem's murmur3 rather than a hand-rolled one (see DESIGN.md).
const murmur3Seed uint32 = 0

func hashBytes(b []byte) int32 {
	return int32(murmur3.Sum32WithSeed(b, murmur3Seed))
}

// bucketHash produces the raw Murmur3 32-bit hash of v's wire representation
// per the byte-layout rules in §4.4. bucketHash panics (programmer error)
// when v's type has no defined bucket hash.
func bucketHash(l Literal) int32 {
	switch v := l.(type) {
	case Int32Literal:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		return hashBytes(buf[:])
	case DateLiteral:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		return hashBytes(buf[:])
	case Int64Literal:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		return hashBytes(buf[:])
	case TimeLiteral:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		return hashBytes(buf[:])
	case TimestampLiteral:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		return hashBytes(buf[:])
	case TimestampTzLiteral:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		return hashBytes(buf[:])
	case Float64Literal:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
		return hashBytes(buf[:])
	case Float32Literal:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
		return hashBytes(buf[:])
	case DecimalLiteral:
		return hashBytes(twosComplementBytes(v.unscaled))
	case StringLiteral:
		return hashBytes([]byte(string(v)))
	case UUIDLiteral:
		var buf [16]byte
		id := uuid.UUID(v)
		hi := binary.BigEndian.Uint64(id[0:8])
		lo := binary.BigEndian.Uint64(id[8:16])
		binary.BigEndian.PutUint64(buf[0:8], hi)
		binary.BigEndian.PutUint64(buf[8:16], lo)
		return hashBytes(buf[:])
	case FixedLiteral:
		return hashBytes([]byte(v))
	case BinaryLiteral:
		return hashBytes([]byte(v))
	default:
		panicIllegalArgument("cannot bucket-hash literal of type %s", l.Type())
		return 0
	}
}

// twosComplementBytes returns the minimal big-endian two's-complement byte
// representation of v, matching how a Decimal's unscaled value is encoded
// on the wire (§6).
func twosComplementBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}

	// Two's complement of a negative value: invert the bits of (|v| - 1)
	// over the minimal byte width, sign-extending by one byte if the
	// magnitude's top bit is already set.
	mag := new(big.Int).Neg(v)
	mag.Sub(mag, big.NewInt(1))
	b := mag.Bytes()
	width := len(b)
	if width == 0 || b[0]&0x80 != 0 {
		width++
	}
	out := make([]byte, width)
	copy(out[width-len(b):], b)
	for i := range out {
		out[i] = ^out[i]
	}
	return out
}
