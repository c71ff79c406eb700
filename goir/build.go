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

// Package goir adapts a real Go function's control-flow graph, as built by
// golang.org/x/tools/go/cfg, into the abstract ir.CFG the executor
// interprets. It understands only the slice of Go that bears on
// nullability — pointer, interface, slice, map, channel, and function-typed
// locals and parameters, nil comparisons, boolean short-circuiting, and
// selector/method-call receivers — and falls back to an opaque, unknown
// reference for everything it does not model, rather than guessing.
package goir

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/cfg"

	"go.nullcheck.dev/nullcheck/ir"
)

// Build translates graph, the control-flow graph for fn as built by
// ctrlflow.Analyzer, into an *ir.CFG. info supplies the type and object
// information needed to tell nilable locals from value-typed ones and to
// give each local a stable ir.Var identity across the function body.
func Build(fn *ast.FuncDecl, graph *cfg.CFG, info *types.Info, fset *token.FileSet) *ir.CFG {
	b := &builder{info: info, fset: fset, vars: map[types.Object]ir.Var{}}
	return b.build(fn, graph)
}

type builder struct {
	info *types.Info
	fset *token.FileSet
	vars map[types.Object]ir.Var
}

func (b *builder) build(fn *ast.FuncDecl, graph *cfg.CFG) *ir.CFG {
	blocks := make([]*ir.Block, len(graph.Blocks))
	for i, cb := range graph.Blocks {
		blocks[i] = &ir.Block{Index: int(cb.Index)}
	}

	for i, cb := range graph.Blocks {
		blk := blocks[i]
		nodes := cb.Nodes
		isBranch := len(cb.Succs) == 2

		if isBranch && len(nodes) > 0 {
			condExpr, ok := nodes[len(nodes)-1].(ast.Expr)
			if ok {
				cond := b.expr(condExpr)
				blk.Cond = &cond
				nodes = nodes[:len(nodes)-1]
			}
		}

		for _, n := range nodes {
			blk.Instrs = append(blk.Instrs, b.node(n)...)
		}

		switch {
		case isBranch:
			blk.Term = ir.TermBranch
			blk.Succs = []*ir.Block{blocks[cb.Succs[0].Index], blocks[cb.Succs[1].Index]}
			if blk.Cond == nil {
				// The branch's condition wasn't a recognizable trailing
				// expression; treat it as an always-unknown guard so we
				// still explore both arms without asserting anything false.
				blk.Cond = &ir.Instruction{Op: ir.OpUnknownRef}
			}
		case len(cb.Succs) == 1:
			blk.Term = ir.TermJump
			blk.Succs = []*ir.Block{blocks[cb.Succs[0].Index]}
		default:
			// A block with no successors is either a return or the
			// function's implicit exit; the explorer treats both
			// identically (nothing more to push), so we don't distinguish.
			blk.Term = ir.TermReturn
		}
	}

	var params []ir.Var
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			for _, name := range field.Names {
				if obj := b.info.ObjectOf(name); obj != nil {
					params = append(params, b.varFor(obj))
				}
			}
		}
	}

	return &ir.CFG{Blocks: blocks, Params: params}
}

// varFor returns the stable ir.Var for obj, minting one on first use.
func (b *builder) varFor(obj types.Object) ir.Var {
	if v, ok := b.vars[obj]; ok {
		return v
	}
	v := ir.NewVar(obj.Name())
	b.vars[obj] = v
	return v
}

func (b *builder) line(pos token.Pos) int {
	if b.fset == nil {
		return 0
	}
	return b.fset.Position(pos).Line
}

// identVar resolves e to the ir.Var of the local or parameter it names, if
// e is (after unwrapping parens) a plain identifier bound to a variable.
func (b *builder) identVar(e ast.Expr) (ir.Var, bool) {
	id, ok := unparen(e).(*ast.Ident)
	if !ok {
		return ir.Var{}, false
	}
	obj := b.info.ObjectOf(id)
	if obj == nil {
		return ir.Var{}, false
	}
	if _, isVar := obj.(*types.Var); !isVar {
		return ir.Var{}, false
	}
	return b.varFor(obj), true
}

func (b *builder) isNilableExpr(e ast.Expr) bool {
	return isNilable(b.info.TypeOf(e))
}

func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func isNilIdent(e ast.Expr) bool {
	id, ok := unparen(e).(*ast.Ident)
	return ok && id.Name == "nil" && id.Obj == nil
}

// isNilable reports whether t's zero value is nil: pointers, interfaces,
// slices, maps, channels, and function values. Everything else (numerics,
// strings, structs, arrays, bools) has a non-nil zero value.
func isNilable(t types.Type) bool {
	if t == nil {
		return false
	}
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Slice, *types.Map, *types.Chan, *types.Signature:
		return true
	default:
		return false
	}
}

func isBoolType(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Bool
}
