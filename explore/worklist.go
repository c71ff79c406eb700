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

// Package explore implements the path explorer: a worklist walk over a
// CFG that forks ProgramState at every branch, prunes infeasible and
// over-visited paths, and reports dereference and tautology diagnostics
// along the way (section 4.4 of the design).
package explore

import (
	"fmt"

	"go.nullcheck.dev/nullcheck/config"
	"go.nullcheck.dev/nullcheck/diagnostic"
	"go.nullcheck.dev/nullcheck/eval"
	"go.nullcheck.dev/nullcheck/ir"
	"go.nullcheck.dev/nullcheck/state"
)

// item is one entry on the worklist: a block still to be processed, paired
// with the ProgramState that reaches it along the path that queued it.
type item struct {
	block *ir.Block
	state state.ProgramState
}

// Run walks cfg to exhaustion from entryState — which the caller has
// already seeded with parameter bindings — reporting every dereference and
// tautological-condition finding it encounters to sink. The walk always
// terminates: every block has a per-path visit bound (config.MaxBlockVisits)
// enforced via ProgramState's own visit counters, so a path that keeps
// looping is eventually dropped rather than explored forever. The worklist
// is processed in FIFO order, so the order of findings is deterministic for
// a given cfg.
func Run(ctx *eval.Context, cfg *ir.CFG, entryState state.ProgramState, sink diagnostic.Sink) error {
	entry := cfg.Entry()
	if entry == nil {
		return nil
	}

	queue := []item{{block: entry, state: entryState}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		if it.state.VisitCount(it.block.Index) > ctx.Conf.MaxBlockVisits {
			continue
		}
		st := it.state.VisitBlock(it.block.Index)

		cur, err := runInstructions(ctx, st, it.block.Instrs, sink)
		if err != nil {
			return err
		}

		switch it.block.Term {
		case ir.TermJump:
			if len(it.block.Succs) != 1 {
				return fmt.Errorf("explore: block %d is a jump with %d successors, want 1", it.block.Index, len(it.block.Succs))
			}
			queue = append(queue, item{block: it.block.Succs[0], state: cur})

		case ir.TermBranch:
			next, err := runBranch(ctx, cur, it.block, sink)
			if err != nil {
				return err
			}
			queue = append(queue, next...)

		case ir.TermReturn, ir.TermExit:
			// Terminal: nothing further to push.

		default:
			return fmt.Errorf("explore: block %d has unrecognized terminator %v", it.block.Index, it.block.Term)
		}
	}
	return nil
}

// runInstructions evaluates a block's straight-line instructions in order,
// forwarding every diagnostic they raise to sink.
func runInstructions(ctx *eval.Context, st state.ProgramState, instrs []ir.Instruction, sink diagnostic.Sink) (state.ProgramState, error) {
	cur := st
	for _, instr := range instrs {
		res, err := eval.Eval(ctx, cur, instr)
		if err != nil {
			return state.ProgramState{}, err
		}
		cur = res.State
		reportAll(sink, res.Diagnostics)
	}
	return cur, nil
}

// runBranch evaluates a branch block's condition and decides which of its
// two successors are feasible, forking cur accordingly. When only one arm
// is feasible — whether because the condition is statically known or
// because the accumulated path constraints already rule the other arm out —
// it reports a tautology finding on the condition's line and queues only
// that arm.
func runBranch(ctx *eval.Context, cur state.ProgramState, block *ir.Block, sink diagnostic.Sink) ([]item, error) {
	if block.Cond == nil || len(block.Succs) != 2 {
		return nil, fmt.Errorf("explore: block %d is a branch missing a condition or successor pair", block.Index)
	}

	condRes, err := eval.Eval(ctx, cur, *block.Cond)
	if err != nil {
		return nil, err
	}
	reportAll(sink, condRes.Diagnostics)

	trueState, trueFeasible := cur.AddConstraints(condRes.Refinement.True)
	falseState, falseFeasible := cur.AddConstraints(condRes.Refinement.False)
	if c := condRes.Refinement.Const; c != nil {
		if *c {
			falseFeasible = false
		} else {
			trueFeasible = false
		}
	}

	switch {
	case trueFeasible && !falseFeasible:
		sink.Report(block.Cond.Line, config.TautologyTrueMessage)
	case falseFeasible && !trueFeasible:
		sink.Report(block.Cond.Line, config.TautologyFalseMessage)
	}

	var next []item
	if trueFeasible {
		next = append(next, item{block: block.Succs[0], state: trueState})
	}
	if falseFeasible {
		next = append(next, item{block: block.Succs[1], state: falseState})
	}
	return next, nil
}

func reportAll(sink diagnostic.Sink, diags []eval.Diagnostic) {
	for _, d := range diags {
		sink.Report(d.Line, d.Message)
	}
}
