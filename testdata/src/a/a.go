// Package a exercises nullcheck's seed scenarios end to end: real Go source
// parsed, built into a CFG, and symbolically executed, with the expected
// diagnostics pinned via "want" comments at the line they fire on.
package a

type node struct{ next *node }

func (n *node) touch() {}

func source() *node { return nil }

func (n *node) origin() *node { return n }

func (n *node) equals(o *node) bool { return n == o }

// Scenario 1: reassigned through a non-null alias before the only
// dereference; no diagnostic.
func noDerefOfReassignedAlias() {
	a := &node{}
	var b *node
	d := a
	b = a
	b.touch()
	_ = d
}

// Scenario 2: dereference of a variable left at its nil zero value.
func derefOfNilZeroValue() {
	var x *node
	x.touch() // want `NullPointerException might be thrown as 'x' is nullable here`
}

// Scenario 3: an earlier alias keeps pointing at null even after the
// original is reassigned.
func aliasCapturesNullBeforeReassignment() {
	var x *node
	y := x
	x = &node{}
	y.touch() // want `NullPointerException might be thrown as 'y' is nullable here`
}

// Scenario 4: an unknown (unconstrained) receiver is never reported by
// default.
func unknownReceiverNotReported() {
	x := source()
	x.touch()
}

// Scenario 5: guarding on `x == nil` and dereferencing inside the guard.
func derefInsideEqNilGuard() {
	x := source()
	if x == nil {
		x.touch() // want `NullPointerException might be thrown as 'x' is nullable here`
	}
}

// Scenario 6: the symmetric `nil == x` spelling behaves identically.
func derefInsideReversedEqNilGuard() {
	x := source()
	if nil == x {
		x.touch() // want `NullPointerException might be thrown as 'x' is nullable here`
	}
}

// Scenario 7: reassigning to non-null inside the guard clears the
// nullability before the dereference that follows it.
func reassignmentInsideGuardClearsNullability() {
	x := source()
	if x == nil {
		x = &node{}
	}
	x.touch()
}

// Scenario 8: guarding a provably non-null value is a tautologically false
// condition.
func guardOnNonNullIsTautologicallyFalse() {
	x := &node{}
	if x == nil { // want `Change this condition so that it does not always evaluate to "false"`
		x = &node{}
	}
	x.touch()
}

// Scenario 9: once the outer guard has pinned x null, the identical inner
// guard is tautologically true.
func nestedIdenticalGuardIsTautologicallyTrue() {
	x := source()
	if x == nil {
		if x == nil { // want `Change this condition so that it does not always evaluate to "true"`
			x = &node{}
		}
		x = &node{}
	}
	x.touch()
}

// Scenario 9b: the outer guard pins x null, so the inner guard of the
// opposite polarity (`x != nil`) is tautologically false.
func nestedOppositePolarityGuardIsTautologicallyFalse() {
	x := source()
	if x == nil {
		b := &node{}
		if x != nil { // want `Change this condition so that it does not always evaluate to "false"`
			b = &node{}
		}
		b.touch()
	}
}

// Scenario 10: a fully-guarded cascaded AND chain reports nothing.
func cascadedAndFullyGuarded(from, to *node) bool {
	return to != nil && from != nil && from.equals(to.origin())
}

// Scenario 11: the first conjunct pins `to` null, and the tail dereferences
// it through a nested call argument.
func cascadedAndDereferencesNullTail(from, to *node) bool {
	return to == nil && from != nil && from.equals(to.origin()) // want `NullPointerException might be thrown as 'to' is nullable here`
}

// Scenario 12: the same chain, reached indirectly through an intermediate
// boolean local instead of a direct return.
func cascadedAndThroughIndirection(from, to *node) bool {
	result := to == nil && from != nil && from.equals(to.origin()) // want `NullPointerException might be thrown as 'to' is nullable here`
	return result
}

// Boundary: a loop that conditionally reassigns a nullable variable must
// terminate within the visit bound without a spurious tautology finding.
func loopWithConditionalReassignmentTerminates(items []*node) *node {
	var cur *node
	for _, it := range items {
		if cur == nil {
			cur = it
		}
	}
	return cur
}

// Boundary: a deeply nested short-circuit chain (four operands) only
// reports where a path provably dereferences null.
func deepShortCircuitChainOnlyReportsProvenNull(a, b, c, d *node) bool {
	return a != nil && b != nil && c == nil && d.equals(c.origin()) // want `NullPointerException might be thrown as 'c' is nullable here`
}

// Scenario 13: an OR's true arm is a disjunction of alternatives ("a null
// or b null") that a flat fact list can't pin as simultaneous facts, so a
// subsequent guard on either operand stays genuinely undetermined and must
// not be flagged as tautological.
func orTrueArmDoesNotFalselyPinEitherOperand(a, b *node) {
	if a == nil || b == nil {
		if a != nil {
			a.touch()
		}
	}
}

// Scenario 14: an OR's false arm is a genuine conjunction — neither operand
// held, so both refs are null — and that must still be caught.
func orFalseArmDereferencesBothNullOperands(a, b *node) {
	if a != nil || b != nil {
	} else {
		a.touch() // want `NullPointerException might be thrown as 'a' is nullable here`
	}
}

// Boundary: reassignment inside one branch must not leak into the other.
func reassignmentInOneBranchDoesNotLeakToOther(flag bool) {
	x := source()
	if flag {
		x = &node{}
	} else {
		x.touch()
	}
	_ = x
}
