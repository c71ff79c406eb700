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

package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRefinementOfNegate(t *testing.T) {
	t.Parallel()

	r := RefinementOf(7)
	neg := r.Negate()

	require.Empty(t, cmp.Diff([]Fact{{Ref: 7, Polarity: IsNotNull}}, neg.True))
	require.Empty(t, cmp.Diff([]Fact{{Ref: 7, Polarity: IsNull}}, neg.False))
}

func TestConstBoolNegate(t *testing.T) {
	t.Parallel()

	r := ConstBool(true)
	neg := r.Negate()
	require.NotNil(t, neg.Const)
	require.False(t, *neg.Const)
	require.True(t, r.Trivial() == false)
}

func TestTrivial(t *testing.T) {
	t.Parallel()

	require.True(t, Refinement{}.Trivial())
	require.False(t, ConstBool(false).Trivial())
	require.False(t, RefinementOf(1).Trivial())
}

func TestAnd(t *testing.T) {
	t.Parallel()

	a := RefinementOf(1)
	b := RefinementOf(2)

	and := And(a, b)
	// The true arm is a genuine conjunction: both operands were true, so
	// both facts hold simultaneously.
	require.Empty(t, cmp.Diff(
		[]Fact{{Ref: 1, Polarity: IsNull}, {Ref: 2, Polarity: IsNull}},
		and.True,
	))
	// The false arm is "a false or b false" — a disjunction of
	// alternatives, not something a flat fact list can pin, so it carries
	// no facts rather than wrongly asserting both refs non-null at once.
	require.Empty(t, and.False)
}

func TestOr(t *testing.T) {
	t.Parallel()

	a := RefinementOf(1)
	b := RefinementOf(2)

	or := Or(a, b)
	// The true arm is "a true or b true", a disjunction: left unpinned.
	require.Empty(t, or.True)
	// The false arm is a genuine conjunction: both operands were false, so
	// both facts hold simultaneously.
	require.Empty(t, cmp.Diff(
		[]Fact{{Ref: 1, Polarity: IsNotNull}, {Ref: 2, Polarity: IsNotNull}},
		or.False,
	))
}
