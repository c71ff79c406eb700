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

// Package config implements the sub-analyzer that parses and exposes the
// checker's recognized options (section 6.3 of the design): maxBlockVisits
// and reportUnknownDereferences. Every driver — the standalone singlechecker
// binary, the golangci-lint module plugin — sets these through the same
// *flag.FlagSet, so behavior is identical regardless of how the checker is
// invoked.
package config

import (
	"flag"
	"reflect"

	"golang.org/x/tools/go/analysis"
)

// MaxBlockVisitsFlag is the flag name for Config.MaxBlockVisits.
const MaxBlockVisitsFlag = "max-block-visits"

// ReportUnknownDereferencesFlag is the flag name for
// Config.ReportUnknownDereferences.
const ReportUnknownDereferencesFlag = "report-unknown-derefs"

const _doc = "Parse and expose the nullcheck configuration flags to the rest of the analyzers"

// Config is the parsed, immutable configuration for a single analysis run.
type Config struct {
	// MaxBlockVisits bounds the number of times a single path may revisit
	// the same CFG block before the path explorer drops it (loop
	// termination, section 4.4.1).
	MaxBlockVisits int
	// ReportUnknownDereferences, when true, widens the dereference check
	// to fire on any receiver that is not provably non-null, including
	// plain Unknown/unconstrained values. Off by default: see
	// DefaultReportUnknownDereferences for the rationale.
	ReportUnknownDereferences bool
}

var (
	_maxBlockVisits             = DefaultMaxBlockVisits
	_reportUnknownDereferences = DefaultReportUnknownDereferences
)

// Analyzer parses the checker's flags and returns the resulting *Config so
// that downstream analyzers (and the top-level Analyzer) can depend on it
// via Requires.
var Analyzer = &analysis.Analyzer{
	Name:       "nullcheck_config",
	Doc:        _doc,
	Run:        run,
	ResultType: reflect.TypeOf(&Config{}),
	Flags:      newFlagSet(),
}

func newFlagSet() flag.FlagSet {
	fs := flag.NewFlagSet("nullcheck_config", flag.ExitOnError)
	fs.IntVar(&_maxBlockVisits, MaxBlockVisitsFlag, DefaultMaxBlockVisits,
		"upper bound on revisits of a single CFG block along one path, for loop termination")
	fs.BoolVar(&_reportUnknownDereferences, ReportUnknownDereferencesFlag, DefaultReportUnknownDereferences,
		"report dereferences of receivers that are merely unproven non-null, not just provably null")
	return *fs
}

func run(*analysis.Pass) (any, error) {
	return &Config{
		MaxBlockVisits:            _maxBlockVisits,
		ReportUnknownDereferences: _reportUnknownDereferences,
	}, nil
}
