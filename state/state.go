// Copyright (c) The Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package state implements ProgramState, the executor's per-path snapshot:
// local-variable bindings, accumulated path constraints, and per-block
// visit counts. ProgramState behaves value-wise at every fork: no mutation
// of one fork is ever visible in another (design note "state forking
// without aliasing bugs"). Locals are few per procedure (tens, not
// thousands), so we use full-map-copy-on-fork rather than a persistent
// trie — simpler, and cheap at this scale.
package state

import (
	"go.nullcheck.dev/nullcheck/ir"
	"go.nullcheck.dev/nullcheck/value"
)

// ProgramState is immutable by convention: every mutator returns a new
// ProgramState (or, for AddConstraint, reports infeasibility) rather than
// modifying the receiver in place.
type ProgramState struct {
	bindings    map[ir.Var]value.Value
	constraints map[value.RefID]value.Polarity
	visitCounts map[int]int
}

// New creates an empty ProgramState: no bindings, no constraints, no
// recorded visits.
func New() ProgramState {
	return ProgramState{
		bindings:    map[ir.Var]value.Value{},
		constraints: map[value.RefID]value.Polarity{},
		visitCounts: map[int]int{},
	}
}

// Fork returns a logically independent copy of s. Every field is a map, so
// every field must be copied; sharing any of them would let a mutation of
// one fork leak into another.
func (s ProgramState) Fork() ProgramState {
	f := ProgramState{
		bindings:    make(map[ir.Var]value.Value, len(s.bindings)),
		constraints: make(map[value.RefID]value.Polarity, len(s.constraints)),
		visitCounts: make(map[int]int, len(s.visitCounts)),
	}
	for k, v := range s.bindings {
		f.bindings[k] = v
	}
	for k, v := range s.constraints {
		f.constraints[k] = v
	}
	for k, v := range s.visitCounts {
		f.visitCounts[k] = v
	}
	return f
}

// Bind returns a new state with id bound to v; all other bindings,
// constraints, and visit counts are unaffected.
func (s ProgramState) Bind(id ir.Var, v value.Value) ProgramState {
	next := s.Fork()
	next.bindings[id] = v
	return next
}

// Lookup returns the current symbolic value of id; unbound identifiers
// resolve to value.Unk, matching the spec's "unknown identifiers resolve to
// Unknown".
func (s ProgramState) Lookup(id ir.Var) value.Value {
	if v, ok := s.bindings[id]; ok {
		return v
	}
	return value.Unk
}

// IsConstrainedNull implements value.ConstraintSet.
func (s ProgramState) IsConstrainedNull(ref value.RefID) bool {
	p, ok := s.constraints[ref]
	return ok && p == value.IsNull
}

// IsConstrainedNonNull implements value.ConstraintSet.
func (s ProgramState) IsConstrainedNonNull(ref value.RefID) bool {
	p, ok := s.constraints[ref]
	return ok && p == value.IsNotNull
}

// AddConstraint returns a refined state with fact added, or ok=false if
// fact contradicts an existing constraint on the same ref — per the
// invariant that the constraint set is consistent by construction, a
// contradictory addition discards the path rather than producing an
// inconsistent state.
func (s ProgramState) AddConstraint(fact value.Fact) (next ProgramState, ok bool) {
	if existing, has := s.constraints[fact.Ref]; has && existing != fact.Polarity {
		return ProgramState{}, false
	}
	next = s.Fork()
	next.constraints[fact.Ref] = fact.Polarity
	return next, true
}

// AddConstraints applies every fact in facts in order, short-circuiting to
// ok=false on the first contradiction.
func (s ProgramState) AddConstraints(facts []value.Fact) (next ProgramState, ok bool) {
	cur := s
	for _, f := range facts {
		cur, ok = cur.AddConstraint(f)
		if !ok {
			return ProgramState{}, false
		}
	}
	return cur, true
}

// VisitCount returns the number of times block has been folded into this
// path so far.
func (s ProgramState) VisitCount(block int) int {
	return s.visitCounts[block]
}

// VisitBlock returns a new state with block's visit count incremented.
// Counts are intentionally part of ProgramState (not a side table keyed
// only by block) — they must be per-path, or two independent paths meeting
// at the same block would prematurely saturate each other's bound.
func (s ProgramState) VisitBlock(block int) ProgramState {
	next := s.Fork()
	next.visitCounts[block] = next.visitCounts[block] + 1
	return next
}
