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

// RefAllocator mints fresh, per-executor-instance unique RefIDs. It is
// intentionally not safe for concurrent use: each Execute call owns one
// allocator, and a single executor instance is non-reentrant (see the
// concurrency model in the design).
type RefAllocator struct {
	next RefID
}

// NewRefAllocator returns an allocator whose first Fresh() call returns 1
// (0 is reserved so the zero Value{} never aliases a real ref).
func NewRefAllocator() *RefAllocator {
	return &RefAllocator{}
}

// Fresh mints and returns a new, previously unused RefID.
func (a *RefAllocator) Fresh() RefID {
	a.next++
	return a.next
}

// FreshValue mints a fresh SymbolicRef value, unconstrained (nullability
// Unknown until path constraints say otherwise).
func (a *RefAllocator) FreshValue() Value {
	return Ref(a.Fresh())
}
