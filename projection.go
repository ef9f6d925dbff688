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

// ProjectionKind selects which of the two projection operators (§4.5)
// Projections.Project runs: Inclusive over-approximates (safe for pruning
// files), Strict under-approximates (safe for skipping filter evaluation).
type ProjectionKind int

const (
	ProjectionInclusive ProjectionKind = iota
	ProjectionStrict
)

// Projections pushes a bound row-space expression through a PartitionSpec's
// transforms into an unbound partition-space expression.
type Projections struct {
	kind ProjectionKind
	spec *PartitionSpec
}

// Inclusive builds a Projections that over-approximates: the result may
// match more files than the original predicate, never fewer.
func Inclusive(spec *PartitionSpec) Projections {
	return Projections{kind: ProjectionInclusive, spec: spec}
}

// Strict builds a Projections that under-approximates: the result may match
// fewer files than the original predicate, never more.
func Strict(spec *PartitionSpec) Projections {
	return Projections{kind: ProjectionStrict, spec: spec}
}

// Project rewrites expr (already bound against the table's row schema) into
// an unbound expression over the partition spec's field names.
func (p Projections) Project(expr Expression) Expression {
	switch e := expr.(type) {
	case AlwaysTrue, AlwaysFalse:
		return e
	case And:
		return NewAnd(p.Project(e.Left), p.Project(e.Right))
	case Or:
		return NewOr(p.Project(e.Left), p.Project(e.Right))
	case BoundPredicate:
		return p.projectPredicate(e)
	default:
		panicIllegalArgument("cannot project unbound expression of type %T", expr)
		return nil
	}
}

// safe is the absorbing element returned when no partition field can prove
// anything about a predicate: True for inclusive (can't rule the file out),
// False for strict (can't guarantee every row matches).
func (p Projections) safe() Expression {
	if p.kind == ProjectionInclusive {
		return AlwaysTrue{}
	}
	return AlwaysFalse{}
}

func (p Projections) projectPredicate(pred BoundPredicate) Expression {
	fields := p.spec.FieldsBySourceID(pred.Ref.FieldID)
	if len(fields) == 0 {
		return p.safe()
	}

	var result Expression
	for _, pf := range fields {
		var projected Expression
		if p.kind == ProjectionInclusive {
			projected = pf.Transform.ProjectInclusive(pf.Name, pred)
		} else {
			projected = pf.Transform.ProjectStrict(pf.Name, pred)
		}
		if projected == nil {
			return p.safe()
		}
		if result == nil {
			result = projected
		} else {
			result = NewAnd(result, projected)
		}
	}
	return result
}
