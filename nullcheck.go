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

// Package nullcheck implements the top-level analyzer: for every function
// declaration in scope it builds a control-flow graph, symbolically
// executes it, and reports every possible null-dereference and
// tautological-condition finding the executor surfaces.
package nullcheck

import (
	"fmt"
	"go/ast"
	"runtime/debug"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/ctrlflow"

	"go.nullcheck.dev/nullcheck/config"
	"go.nullcheck.dev/nullcheck/diagnostic"
	"go.nullcheck.dev/nullcheck/execute"
	"go.nullcheck.dev/nullcheck/goir"
)

const _doc = "Report possible null-dereferences and tautological branch conditions found by " +
	"symbolically executing each function's control-flow graph"

// Analyzer is the top-level instance that coordinates building and
// executing the per-function control-flow graphs and reporting diagnostics.
var Analyzer = &analysis.Analyzer{
	Name:     "nullcheck",
	Doc:      _doc,
	Run:      run,
	Requires: []*analysis.Analyzer{config.Analyzer, ctrlflow.Analyzer},
}

// run walks every function declaration in the package and checks it.
// checkFunc isolates panics per function, so nothing here is expected to
// panic; we still propagate the first error encountered rather than
// swallowing it, matching how a single broken function should surface.
func run(pass *analysis.Pass) (any, error) {
	conf := pass.ResultOf[config.Analyzer].(*config.Config)
	cfgs := pass.ResultOf[ctrlflow.Analyzer].(*ctrlflow.CFGs)

	var errs []error
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}
			if err := checkFunc(pass, conf, cfgs, fn); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", fn.Name.Name, err))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return nil, nil
}

// checkFunc builds and executes fn's control-flow graph, reporting every
// finding through pass. It never panics past its own boundary: any internal
// failure is converted into an error the caller can attribute to fn.
func checkFunc(pass *analysis.Pass, conf *config.Config, cfgs *ctrlflow.CFGs, fn *ast.FuncDecl) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("INTERNAL PANIC: %s\n%s", r, string(debug.Stack()))
		}
	}()

	graph := cfgs.FuncDecl(fn)
	if graph == nil {
		return nil
	}

	g := goir.Build(fn, graph, pass.TypesInfo, pass.Fset)

	collector := diagnostic.NewCollector()
	if err := execute.Execute(g, collector, conf); err != nil {
		return err
	}

	file := pass.Fset.File(fn.Pos())
	diagnostic.Emit(pass, file, collector)
	return nil
}
