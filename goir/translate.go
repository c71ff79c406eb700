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

package goir

import (
	"go/ast"
	"go/token"
	"go/types"

	"go.nullcheck.dev/nullcheck/ir"
)

// node translates one of a cfg.Block's ast.Node entries — an ast.Stmt, a
// bare ast.Expr, or the *ast.ValueSpec of a local var declaration — into
// zero or more ir.Instructions.
func (b *builder) node(n ast.Node) []ir.Instruction {
	switch s := n.(type) {
	case *ast.ValueSpec:
		return b.declStmt(&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.VAR, Specs: []ast.Spec{s}}})
	case ast.Expr:
		return []ir.Instruction{b.expr(s)}
	case *ast.ExprStmt:
		return []ir.Instruction{b.expr(s.X)}
	case *ast.AssignStmt:
		return b.assignStmt(s)
	case *ast.DeclStmt:
		return b.declStmt(s)
	case *ast.ReturnStmt:
		instrs := make([]ir.Instruction, 0, len(s.Results))
		for _, r := range s.Results {
			instrs = append(instrs, b.expr(r))
		}
		return instrs
	case *ast.IncDecStmt:
		return nil
	case *ast.SendStmt:
		return []ir.Instruction{b.expr(s.Chan), b.expr(s.Value)}
	default:
		// Labels, branches (break/continue/goto/fallthrough), and anything
		// else the cfg builder hands us untranslated carry no nullability
		// information of their own.
		return nil
	}
}

func (b *builder) assignStmt(s *ast.AssignStmt) []ir.Instruction {
	if len(s.Lhs) != len(s.Rhs) {
		// Multi-value assignment from a single call (`v, ok := m[k]`):
		// evaluate the right-hand side for its own diagnostics, but we
		// cannot attribute a single resulting value to any one of several
		// left-hand names.
		instrs := make([]ir.Instruction, 0, len(s.Rhs))
		for _, r := range s.Rhs {
			instrs = append(instrs, b.expr(r))
		}
		return instrs
	}

	line := b.line(s.Pos())
	instrs := make([]ir.Instruction, 0, len(s.Lhs))
	for i, lhs := range s.Lhs {
		rhs := b.expr(s.Rhs[i])
		v, ok := b.identVar(lhs)
		if !ok {
			// Blank identifier, or a non-local target (field/index/map
			// assignment): keep the right-hand side's evaluation for its
			// diagnostics, but there is no local binding to update.
			instrs = append(instrs, rhs)
			continue
		}
		instrs = append(instrs, ir.Instruction{Op: ir.OpAssign, Line: line, Var: v, Sub: []ir.Instruction{rhs}})
	}
	return instrs
}

func (b *builder) declStmt(s *ast.DeclStmt) []ir.Instruction {
	gd, ok := s.Decl.(*ast.GenDecl)
	if !ok || gd.Tok != token.VAR {
		return nil
	}
	var instrs []ir.Instruction
	for _, spec := range gd.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for i, name := range vs.Names {
			if name.Name == "_" {
				continue
			}
			obj := b.info.ObjectOf(name)
			if obj == nil {
				continue
			}
			v := b.varFor(obj)
			var rhs ir.Instruction
			if i < len(vs.Values) {
				rhs = b.expr(vs.Values[i])
			} else {
				rhs = zeroValueInstr(obj.Type())
			}
			instrs = append(instrs, ir.Instruction{Op: ir.OpAssign, Line: b.line(name.Pos()), Var: v, Sub: []ir.Instruction{rhs}})
		}
	}
	return instrs
}

func zeroValueInstr(t types.Type) ir.Instruction {
	if isNilable(t) {
		return ir.Instruction{Op: ir.OpNullLiteral}
	}
	return ir.Instruction{Op: ir.OpNonNullLiteral}
}

// expr translates a single Go expression into one ir.Instruction, always
// succeeding: anything it cannot model precisely becomes OpUnknownRef (for
// expressions that may carry a nilable result) with its recognizable
// sub-expressions still threaded through for their own diagnostics.
func (b *builder) expr(e ast.Expr) ir.Instruction {
	e = unparen(e)
	line := b.line(e.Pos())

	switch x := e.(type) {
	case *ast.Ident:
		return b.identExpr(x, line)

	case *ast.BasicLit:
		return ir.Instruction{Op: ir.OpNonNullLiteral, Line: line}

	case *ast.UnaryExpr:
		return b.unaryExpr(x, line)

	case *ast.StarExpr:
		if v, ok := b.identVar(x.X); ok {
			return ir.Instruction{Op: ir.OpDeref, Line: line, Operand: v}
		}
		return ir.Instruction{Op: ir.OpUnknownRef, Line: line, Sub: []ir.Instruction{b.expr(x.X)}}

	case *ast.BinaryExpr:
		return b.binaryExpr(x, line)

	case *ast.SelectorExpr:
		return b.selectorExpr(x, line)

	case *ast.CallExpr:
		return b.callExpr(x, line)

	case *ast.IndexExpr:
		return ir.Instruction{Op: ir.OpUnknownRef, Line: line, Sub: []ir.Instruction{b.expr(x.X), b.expr(x.Index)}}

	case *ast.TypeAssertExpr:
		return ir.Instruction{Op: ir.OpUnknownRef, Line: line, Sub: []ir.Instruction{b.expr(x.X)}}

	default:
		return ir.Instruction{Op: ir.OpUnknownRef, Line: line}
	}
}

func (b *builder) identExpr(id *ast.Ident, line int) ir.Instruction {
	switch id.Name {
	case "nil":
		if id.Obj == nil {
			return ir.Instruction{Op: ir.OpNullLiteral, Line: line}
		}
	case "true":
		return ir.Instruction{Op: ir.OpBoolLiteral, Line: line, BoolValue: true}
	case "false":
		return ir.Instruction{Op: ir.OpBoolLiteral, Line: line, BoolValue: false}
	}
	obj := b.info.ObjectOf(id)
	if obj == nil {
		return ir.Instruction{Op: ir.OpUnknownRef, Line: line}
	}
	if _, ok := obj.(*types.Var); !ok {
		// A reference to a function, type, const, or package name: opaque
		// but never itself the target of a nil check we'd want to refine.
		return ir.Instruction{Op: ir.OpUnknownRef, Line: line}
	}
	return ir.Instruction{Op: ir.OpLoad, Line: line, Var: b.varFor(obj)}
}

func (b *builder) unaryExpr(x *ast.UnaryExpr, line int) ir.Instruction {
	switch x.Op {
	case token.NOT:
		return ir.Instruction{Op: ir.OpNot, Line: line, Sub: []ir.Instruction{b.expr(x.X)}}
	case token.AND:
		// Address-of always produces a non-nil pointer.
		return ir.Instruction{Op: ir.OpNonNullLiteral, Line: line}
	default:
		return ir.Instruction{Op: ir.OpOther, Line: line, Sub: []ir.Instruction{b.expr(x.X)}}
	}
}

func (b *builder) binaryExpr(x *ast.BinaryExpr, line int) ir.Instruction {
	switch x.Op {
	case token.LAND:
		return ir.Instruction{Op: ir.OpAnd, Line: line, Sub: []ir.Instruction{b.expr(x.X), b.expr(x.Y)}}
	case token.LOR:
		return ir.Instruction{Op: ir.OpOr, Line: line, Sub: []ir.Instruction{b.expr(x.X), b.expr(x.Y)}}
	case token.EQL, token.NEQ:
		negate := x.Op == token.NEQ
		if isNilIdent(x.X) {
			return b.nilCompare(x.Y, negate, line)
		}
		if isNilIdent(x.Y) {
			return b.nilCompare(x.X, negate, line)
		}
		lhs, rhs := b.expr(x.X), b.expr(x.Y)
		if isBoolType(b.info.TypeOf(x.X)) && isBoolType(b.info.TypeOf(x.Y)) {
			op := ir.OpBoolEq
			if negate {
				op = ir.OpBoolNe
			}
			return ir.Instruction{Op: op, Line: line, Sub: []ir.Instruction{lhs, rhs}}
		}
		return ir.Instruction{Op: ir.OpOther, Line: line, Sub: []ir.Instruction{lhs, rhs}}
	default:
		return ir.Instruction{Op: ir.OpOther, Line: line, Sub: []ir.Instruction{b.expr(x.X), b.expr(x.Y)}}
	}
}

// nilCompare builds the OpEqNil/OpNeNil for a `<expr> == nil` /
// `<expr> != nil` comparison. When the non-nil operand isn't a plain local
// (e.g. it's itself a call result), we have no ref to pin on either branch,
// but still evaluate it for whatever diagnostics it raises.
func (b *builder) nilCompare(other ast.Expr, negate bool, line int) ir.Instruction {
	v, ok := b.identVar(other)
	if !ok {
		return ir.Instruction{Op: ir.OpOther, Line: line, Sub: []ir.Instruction{b.expr(other)}}
	}
	op := ir.OpEqNil
	if negate {
		op = ir.OpNeNil
	}
	return ir.Instruction{Op: op, Line: line, Operand: v}
}

func (b *builder) selectorExpr(x *ast.SelectorExpr, line int) ir.Instruction {
	if v, ok := b.identVar(x.X); ok && b.isNilableExpr(x.X) {
		return ir.Instruction{Op: ir.OpDeref, Line: line, Operand: v}
	}
	// Package-qualified name (fmt.Sprintf) or a non-nilable receiver
	// (value-typed struct field access): nothing to check.
	return ir.Instruction{Op: ir.OpUnknownRef, Line: line}
}

func (b *builder) callExpr(x *ast.CallExpr, line int) ir.Instruction {
	args := make([]ir.Instruction, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, b.expr(a))
	}
	if sel, ok := unparen(x.Fun).(*ast.SelectorExpr); ok {
		if v, ok := b.identVar(sel.X); ok && b.isNilableExpr(sel.X) {
			return ir.Instruction{Op: ir.OpDeref, Line: line, Operand: v, Sub: args}
		}
	}
	return ir.Instruction{Op: ir.OpUnknownRef, Line: line, Sub: args}
}
