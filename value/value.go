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

// Package value implements the symbolic value lattice that the evaluator and
// path explorer reason about: a flat lattice over nullability plus the
// boolean/literal shape needed to constant-fold conditions.
package value

import "fmt"

// Kind tags the variant of a Value.
type Kind int

const (
	// Unknown carries no information: neither provably null nor provably
	// non-null. Never reported as a dereference target on its own.
	Unknown Kind = iota
	// DefinitelyNull means the value is null on this path.
	DefinitelyNull
	// DefinitelyNonNull means the value is non-null on this path (string,
	// char, numeric literals; anything produced by a non-null constructor).
	DefinitelyNonNull
	// BooleanTrue is the concrete boolean constant true.
	BooleanTrue
	// BooleanFalse is the concrete boolean constant false.
	BooleanFalse
	// SymbolicRef is an opaque reference whose nullability is governed by
	// path constraints over its RefID, not by the Kind alone.
	SymbolicRef
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case DefinitelyNull:
		return "DefinitelyNull"
	case DefinitelyNonNull:
		return "DefinitelyNonNull"
	case BooleanTrue:
		return "BooleanTrue"
	case BooleanFalse:
		return "BooleanFalse"
	case SymbolicRef:
		return "SymbolicRef"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RefID identifies a SymbolicRef value. Fresh ids come from a
// monotonically increasing per-executor counter; ids are not required to be
// globally unique across executor instances.
type RefID uint64

// Value is a single symbolic value. The zero Value is Unknown.
//
// Two Values are equal (via ==) iff their Kind matches and, for
// SymbolicRef, their Ref also matches — this is what "two SymbolicRefs are
// equal iff their ids match" means in practice, since Value is a plain
// comparable struct.
type Value struct {
	Kind Kind
	Ref  RefID
}

// Unk is the canonical Unknown value.
var Unk = Value{Kind: Unknown}

// Null is the canonical DefinitelyNull value.
var Null = Value{Kind: DefinitelyNull}

// NonNull is the canonical DefinitelyNonNull value.
var NonNull = Value{Kind: DefinitelyNonNull}

// True is the canonical BooleanTrue value.
var True = Value{Kind: BooleanTrue}

// False is the canonical BooleanFalse value.
var False = Value{Kind: BooleanFalse}

// Ref builds a fresh symbolic reference value.
func Ref(id RefID) Value {
	return Value{Kind: SymbolicRef, Ref: id}
}

// IsBoolean reports whether v is one of the two concrete boolean constants.
func (v Value) IsBoolean() bool {
	return v.Kind == BooleanTrue || v.Kind == BooleanFalse
}

// Bool returns the Go bool this value represents; ok is false unless
// IsBoolean(v).
func (v Value) Bool() (b, ok bool) {
	switch v.Kind {
	case BooleanTrue:
		return true, true
	case BooleanFalse:
		return false, true
	default:
		return false, false
	}
}

func (v Value) String() string {
	if v.Kind == SymbolicRef {
		return fmt.Sprintf("SymbolicRef(%d)", v.Ref)
	}
	return v.Kind.String()
}

// ConstraintSet is the minimal view onto a ProgramState's accumulated
// constraints that the lattice needs in order to resolve a SymbolicRef's
// nullability. state.ProgramState implements this interface; it is defined
// here (rather than imported) so that this package has no dependency on
// state, keeping the lattice usable in isolation.
type ConstraintSet interface {
	// IsConstrainedNull reports whether ref is known null in this set.
	IsConstrainedNull(ref RefID) bool
	// IsConstrainedNonNull reports whether ref is known non-null in this set.
	IsConstrainedNonNull(ref RefID) bool
}

// IsDefinitelyNull reports whether v is null on every path consistent with
// cs: either the concrete DefinitelyNull value, or a SymbolicRef whose
// constraint set pins it null.
func (v Value) IsDefinitelyNull(cs ConstraintSet) bool {
	switch v.Kind {
	case DefinitelyNull:
		return true
	case SymbolicRef:
		return cs != nil && cs.IsConstrainedNull(v.Ref)
	default:
		return false
	}
}

// IsDefinitelyNonNull is the symmetric check against "IS NOT NULL".
func (v Value) IsDefinitelyNonNull(cs ConstraintSet) bool {
	switch v.Kind {
	case DefinitelyNonNull, BooleanTrue, BooleanFalse:
		// Booleans and non-null literals are never null; they just aren't
		// reference values at all, so treat them as definitely non-null for
		// dereference purposes (a dereference of a boolean never occurs in
		// practice, but the predicate must still be total).
		return true
	case SymbolicRef:
		return cs != nil && cs.IsConstrainedNonNull(v.Ref)
	default:
		return false
	}
}

// MayBeNull is the predicate used at dereference checks: true whenever v is
// not provably non-null. Per the firing rule, an Unknown value is
// "mayBeNull" in the lattice sense but is deliberately never, on its own,
// treated as reportable — callers (eval) only raise a diagnostic when
// IsDefinitelyNull also holds, or reportUnknownDereferences is explicitly
// turned on.
func (v Value) MayBeNull(cs ConstraintSet) bool {
	return !v.IsDefinitelyNonNull(cs)
}

// Join computes the least upper bound of two values under the flat lattice:
// identical values join to themselves, any two distinct concrete values
// join to Unknown. SymbolicRefs join to themselves only if their ids match;
// otherwise to Unknown, since nothing is known about which path was taken.
func Join(a, b Value) Value {
	if a == b {
		return a
	}
	return Unk
}
