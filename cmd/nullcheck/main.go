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

// main package makes it possible to build nullcheck as a standalone code
// checker that can be independently invoked to check other packages.
package main

import (
	"flag"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"

	"go.nullcheck.dev/nullcheck"
	"go.nullcheck.dev/nullcheck/config"
)

// Analyzer is identical to the one in nullcheck.go, except that it
// colorizes reported messages for terminal output before delegating the
// real analysis to the underlying Analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     nullcheck.Analyzer.Name,
	Doc:      nullcheck.Analyzer.Doc,
	Run:      run,
	Requires: nullcheck.Analyzer.Requires,
}

var _npeTag = color.New(color.FgRed, color.Bold).Sprint("possible NPE")
var _tautologyTag = color.New(color.FgYellow, color.Bold).Sprint("tautological condition")

func run(pass *analysis.Pass) (interface{}, error) {
	report := pass.Report
	pass.Report = func(d analysis.Diagnostic) {
		d.Message = colorize(d.Message)
		report(d)
	}
	return nullcheck.Analyzer.Run(pass)
}

// colorize prefixes a finding with a colored tag identifying its kind, so
// it's easy to tell dereference and tautology findings apart at a glance in
// a terminal.
func colorize(msg string) string {
	if strings.HasPrefix(msg, "NullPointerException") {
		return _npeTag + ": " + msg
	}
	return _tautologyTag + ": " + msg
}

func main() {
	// Lift the flags from config.Analyzer to the top level so users can
	// specify them without naming the sub-analyzer:
	//
	//   nullcheck -max-block-visits 4 ./...
	//
	// instead of
	//
	//   nullcheck -nullcheck_config.max-block-visits 4 ./...
	config.Analyzer.Flags.VisitAll(func(f *flag.Flag) { flag.Var(f.Value, f.Name, f.Usage) })

	singlechecker.Main(Analyzer)
}
