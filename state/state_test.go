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

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go.nullcheck.dev/nullcheck/ir"
	"go.nullcheck.dev/nullcheck/value"
)

func TestBindLookup(t *testing.T) {
	t.Parallel()

	s := New()
	v := ir.NewVar("x")
	require.Equal(t, value.Unk, s.Lookup(v))

	s2 := s.Bind(v, value.NonNull)
	require.Equal(t, value.NonNull, s2.Lookup(v))
	// Original state is untouched by the fork.
	require.Equal(t, value.Unk, s.Lookup(v))
}

func TestForkIndependence(t *testing.T) {
	t.Parallel()

	v := ir.NewVar("x")
	base := New().Bind(v, value.Null)

	left := base.Bind(v, value.NonNull)
	right := base.Bind(v, value.Ref(9))

	require.Equal(t, value.Null, base.Lookup(v))
	require.Equal(t, value.NonNull, left.Lookup(v))
	require.Equal(t, value.Ref(9), right.Lookup(v))
}

func TestAddConstraint(t *testing.T) {
	t.Parallel()

	s := New()

	s2, ok := s.AddConstraint(value.Fact{Ref: 1, Polarity: value.IsNull})
	require.True(t, ok)
	require.True(t, s2.IsConstrainedNull(1))
	require.False(t, s2.IsConstrainedNonNull(1))

	// Re-adding the same fact is fine.
	s3, ok := s2.AddConstraint(value.Fact{Ref: 1, Polarity: value.IsNull})
	require.True(t, ok)
	require.True(t, s3.IsConstrainedNull(1))

	// Adding the opposite polarity contradicts and is rejected.
	_, ok = s2.AddConstraint(value.Fact{Ref: 1, Polarity: value.IsNotNull})
	require.False(t, ok)

	// The original s2 is unaffected by the rejected attempt.
	require.True(t, s2.IsConstrainedNull(1))
}

func TestAddConstraintsShortCircuitsOnContradiction(t *testing.T) {
	t.Parallel()

	s := New()
	facts := []value.Fact{
		{Ref: 1, Polarity: value.IsNull},
		{Ref: 1, Polarity: value.IsNotNull},
		{Ref: 2, Polarity: value.IsNull},
	}
	next, ok := s.AddConstraints(facts)
	require.False(t, ok)
	require.False(t, next.IsConstrainedNull(2))
}

func TestVisitCount(t *testing.T) {
	t.Parallel()

	s := New()
	require.Equal(t, 0, s.VisitCount(0))

	s2 := s.VisitBlock(0)
	require.Equal(t, 1, s2.VisitCount(0))
	require.Equal(t, 0, s.VisitCount(0))

	s3 := s2.VisitBlock(0).VisitBlock(0)
	require.Equal(t, 3, s3.VisitCount(0))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
