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

// Package eval implements the instruction evaluator: interpreting each CFG
// element under a state.ProgramState, producing an updated state and zero or
// more diagnostics (section 4.3 of the design). The trickiest part —
// short-circuit boolean composition — lives in shortcircuit.go.
package eval

import (
	"fmt"

	"go.nullcheck.dev/nullcheck/config"
	"go.nullcheck.dev/nullcheck/ir"
	"go.nullcheck.dev/nullcheck/state"
	"go.nullcheck.dev/nullcheck/value"
)

// Context bundles what the evaluator needs beyond the instruction and
// state: the shared ref allocator (fresh ids must not collide within one
// executor instance) and the resolved configuration.
type Context struct {
	Refs *value.RefAllocator
	Conf *config.Config
}

// Result is what evaluating a single instruction produces.
type Result struct {
	// State is the state after evaluating the instruction. For most
	// instructions this is just the input state with (at most) one new
	// binding; composite boolean operators may internally fork and refine
	// the state to check their operands, but that refinement never leaks
	// into Result.State — see shortcircuit.go.
	State state.ProgramState
	// Value is the instruction's scalar result. For boolean-shaped
	// instructions this is the constant-folded outcome when known, or
	// Unknown otherwise; Refinement carries the precise path information
	// in that case.
	Value value.Value
	// Refinement carries branch-refinement information for boolean-shaped
	// instructions (comparisons against nil, logical composition, and
	// negation). It is the zero Refinement (Trivial() == true) for
	// everything else.
	Refinement value.Refinement
	// Diagnostics holds every possible null-dereference raised while
	// evaluating this instruction, including ones raised by nested Sub
	// sub-expressions (e.g. a call argument dereferencing something before
	// the call's own receiver is checked). Usually at most one, but a
	// composite expression can raise several.
	Diagnostics []Diagnostic
}

// Diagnostic is a possible-NPE finding raised while evaluating an
// instruction; the path explorer forwards it to the sink.
type Diagnostic struct {
	Line    int
	Message string
}

// Eval interprets a single instruction under st.
func Eval(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	switch instr.Op {
	case ir.OpNullLiteral:
		return Result{State: st, Value: value.Null}, nil

	case ir.OpNonNullLiteral:
		return Result{State: st, Value: value.NonNull}, nil

	case ir.OpBoolLiteral:
		v, ref := value.True, value.ConstBool(true)
		if !instr.BoolValue {
			v, ref = value.False, value.ConstBool(false)
		}
		return Result{State: st, Value: v, Refinement: ref}, nil

	case ir.OpUnknownRef:
		return evalUnknownRef(ctx, st, instr)

	case ir.OpLoad:
		return Result{State: st, Value: st.Lookup(instr.Var)}, nil

	case ir.OpAssign:
		return evalAssign(ctx, st, instr)

	case ir.OpDeref:
		return evalDeref(ctx, st, instr)

	case ir.OpEqNil:
		return evalEqNil(ctx, st, instr, false)

	case ir.OpNeNil:
		return evalEqNil(ctx, st, instr, true)

	case ir.OpBoolEq, ir.OpBoolNe:
		return evalBoolCompare(ctx, st, instr)

	case ir.OpAnd:
		return evalAnd(ctx, st, instr)

	case ir.OpOr:
		return evalOr(ctx, st, instr)

	case ir.OpNot:
		return evalNot(ctx, st, instr)

	case ir.OpOther:
		// The result is opaque, but operand sub-expressions are still
		// evaluated for their own diagnostics.
		cur := st
		var diags []Diagnostic
		for _, sub := range instr.Sub {
			r, err := Eval(ctx, cur, sub)
			if err != nil {
				return Result{}, err
			}
			cur = r.State
			diags = append(diags, r.Diagnostics...)
		}
		return Result{State: cur, Value: value.Unk, Diagnostics: diags}, nil

	default:
		return Result{}, fmt.Errorf("eval: unrecognized instruction op %v at line %d", instr.Op, instr.Line)
	}
}

func evalAssign(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	if len(instr.Sub) != 1 {
		return Result{}, fmt.Errorf("eval: OpAssign at line %d must have exactly one Sub instruction, got %d", instr.Line, len(instr.Sub))
	}
	rhs, err := Eval(ctx, st, instr.Sub[0])
	if err != nil {
		return Result{}, err
	}
	next := rhs.State.Bind(instr.Var, rhs.Value)
	return Result{State: next, Value: rhs.Value, Refinement: rhs.Refinement, Diagnostics: rhs.Diagnostics}, nil
}

// mayReport applies the firing rule of section 4.1: fire on a receiver that
// is provably null, or (if the option is enabled) on any receiver that is
// merely not provably non-null.
func mayReport(conf *config.Config, v value.Value, cs value.ConstraintSet) bool {
	if v.IsDefinitelyNull(cs) {
		return true
	}
	return conf != nil && conf.ReportUnknownDereferences && v.MayBeNull(cs)
}

// evalDeref evaluates a member access or invocation on instr.Operand. Any
// argument sub-expressions in instr.Sub are evaluated first, in order —
// each may itself dereference something and raise its own diagnostic —
// before the receiver's own nullability is checked, matching the order a
// caller actually observes a dereference happen in `recv.m(arg())`.
func evalDeref(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	cur := st
	var diags []Diagnostic
	for _, sub := range instr.Sub {
		r, err := Eval(ctx, cur, sub)
		if err != nil {
			return Result{}, err
		}
		cur = r.State
		diags = append(diags, r.Diagnostics...)
	}

	receiver := cur.Lookup(instr.Operand)
	if mayReport(ctx.Conf, receiver, cur) {
		diags = append(diags, Diagnostic{
			Line:    instr.Line,
			Message: fmt.Sprintf(config.NPEMessageFormat, instr.Operand.Name),
		})
	}
	// A dereference's own scalar result is opaque to us (we don't model
	// return types of arbitrary calls); it never itself carries
	// nullability information a caller could refine on.
	return Result{State: cur, Value: value.Unk, Diagnostics: diags}, nil
}

// evalUnknownRef evaluates any argument sub-expressions (a call's arguments,
// say, when the call itself isn't one we can model as a receiver
// dereference) before minting the fresh, unconstrained ref that stands in
// for the opaque result.
func evalUnknownRef(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	cur := st
	var diags []Diagnostic
	for _, sub := range instr.Sub {
		r, err := Eval(ctx, cur, sub)
		if err != nil {
			return Result{}, err
		}
		cur = r.State
		diags = append(diags, r.Diagnostics...)
	}
	return Result{State: cur, Value: ctx.Refs.FreshValue(), Diagnostics: diags}, nil
}

// evalEqNil evaluates "operand == nil" (negate=false) or "operand != nil"
// (negate=true), producing the refinement that pins the operand's
// underlying ref on each arm.
func evalEqNil(ctx *Context, st state.ProgramState, instr ir.Instruction, negate bool) (Result, error) {
	operand := st.Lookup(instr.Operand)

	var refinement value.Refinement
	switch operand.Kind {
	case value.DefinitelyNull:
		refinement = value.ConstBool(true)
	case value.DefinitelyNonNull, value.BooleanTrue, value.BooleanFalse:
		refinement = value.ConstBool(false)
	case value.SymbolicRef:
		refinement = value.RefinementOf(operand.Ref)
	default: // Unknown: no ref to pin, no information.
	}

	if negate {
		refinement = refinement.Negate()
	}

	val := value.Unk
	if refinement.Const != nil {
		if *refinement.Const {
			val = value.True
		} else {
			val = value.False
		}
	}

	return Result{State: st, Value: val, Refinement: refinement}, nil
}

func evalBoolCompare(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	if len(instr.Sub) != 2 {
		return Result{}, fmt.Errorf("eval: bool comparison at line %d needs exactly two operands, got %d", instr.Line, len(instr.Sub))
	}
	lhs, err := Eval(ctx, st, instr.Sub[0])
	if err != nil {
		return Result{}, err
	}
	rhs, err := Eval(ctx, lhs.State, instr.Sub[1])
	if err != nil {
		return Result{}, err
	}
	diags := append(append([]Diagnostic(nil), lhs.Diagnostics...), rhs.Diagnostics...)
	lb, lok := lhs.Value.Bool()
	rb, rok := rhs.Value.Bool()
	if !lok || !rok {
		return Result{State: rhs.State, Value: value.Unk, Diagnostics: diags}, nil
	}
	result := lb == rb
	if instr.Op == ir.OpBoolNe {
		result = !result
	}
	v := value.False
	if result {
		v = value.True
	}
	return Result{State: rhs.State, Value: v, Refinement: value.ConstBool(result), Diagnostics: diags}, nil
}

func evalNot(ctx *Context, st state.ProgramState, instr ir.Instruction) (Result, error) {
	if len(instr.Sub) != 1 {
		return Result{}, fmt.Errorf("eval: OpNot at line %d must have exactly one Sub instruction, got %d", instr.Line, len(instr.Sub))
	}
	operand, err := Eval(ctx, st, instr.Sub[0])
	if err != nil {
		return Result{}, err
	}
	refinement := operand.Refinement.Negate()
	val := value.Unk
	switch {
	case refinement.Const != nil && *refinement.Const:
		val = value.True
	case refinement.Const != nil && !*refinement.Const:
		val = value.False
	case operand.Value.Kind == value.BooleanTrue:
		val = value.False
	case operand.Value.Kind == value.BooleanFalse:
		val = value.True
	}
	return Result{State: operand.State, Value: val, Refinement: refinement, Diagnostics: operand.Diagnostics}, nil
}
