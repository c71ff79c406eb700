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

package eval

import (
	"fmt"

	"go.nullcheck.dev/nullcheck/ir"
	"go.nullcheck.dev/nullcheck/state"
	"go.nullcheck.dev/nullcheck/value"
)

// evalAnd evaluates a short-circuit "&&".
func evalAnd(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	return evalShortCircuit(ctx, st, instr, true)
}

// evalOr evaluates a short-circuit "||".
func evalOr(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	return evalShortCircuit(ctx, st, instr, false)
}

// evalShortCircuit implements the shared machinery behind OpAnd and OpOr.
// The two operators are exact duals of each other once phrased in terms of
// "the arm that lets evaluation continue into the right operand" versus "the
// arm that already settles the result without looking at the right operand
// at all": for AND that's the true/false arms respectively, for OR it's
// false/true.
//
// The right operand is evaluated under the left operand's continue-arm
// refinement (e.g. for `a != null && a.use()`, a.use() sees `a` pinned
// non-null) — this is what makes cascaded dereference checks work. But the
// state returned to the caller is always the pre-refinement incoming state:
// at this point in evaluation the whole expression's truth isn't settled
// yet (we're still inside the branch condition), so only the combined
// Refinement — not a forked ProgramState — is allowed to carry that
// information forward to whichever terminator eventually consumes it.
func evalShortCircuit(ctx *Context, st state.ProgramState, instr ir.Instruction, isAnd bool) (Result, error) {
	if len(instr.Sub) != 2 {
		op := "&&"
		if !isAnd {
			op = "||"
		}
		return Result{}, fmt.Errorf("eval: %q at line %d needs exactly two operands, got %d", op, instr.Line, len(instr.Sub))
	}

	left, err := Eval(ctx, st, instr.Sub[0])
	if err != nil {
		return Result{}, err
	}
	diags := append([]Diagnostic(nil), left.Diagnostics...)

	continueFacts, settleFacts := left.Refinement.True, left.Refinement.False
	if !isAnd {
		continueFacts, settleFacts = left.Refinement.False, left.Refinement.True
	}

	continueState, continueFeasible := left.State.AddConstraints(continueFacts)
	_, settleFeasible := left.State.AddConstraints(settleFacts)
	if c := left.Refinement.Const; c != nil {
		// A statically known left operand rules out one arm outright.
		if *c == isAnd {
			settleFeasible = false
		} else {
			continueFeasible = false
		}
	}

	if !continueFeasible {
		// The left operand can only take its settling arm: the whole
		// expression is already decided, and the right operand never runs.
		val, ref := value.False, value.ConstBool(false)
		if !isAnd {
			val, ref = value.True, value.ConstBool(true)
		}
		return Result{State: left.State, Value: val, Refinement: ref, Diagnostics: diags}, nil
	}

	right, err := Eval(ctx, continueState, instr.Sub[1])
	if err != nil {
		return Result{}, err
	}
	diags = append(diags, right.Diagnostics...)

	var combined value.Refinement
	if isAnd {
		combined = value.And(left.Refinement, right.Refinement)
	} else {
		combined = value.Or(left.Refinement, right.Refinement)
	}

	if !settleFeasible {
		// The left operand can only take its continue arm, i.e. it is
		// unconditionally true (AND) or unconditionally false (OR) on this
		// path: the composite's truth is therefore exactly the right
		// operand's truth.
		combined.Const = right.Refinement.Const
		if combined.Const == nil {
			if rb, ok := right.Value.Bool(); ok {
				combined.Const = &rb
			}
		}
	}

	val := value.Unk
	if combined.Const != nil {
		val = value.False
		if *combined.Const {
			val = value.True
		}
	}

	return Result{State: left.State, Value: val, Refinement: combined, Diagnostics: diags}, nil
}
