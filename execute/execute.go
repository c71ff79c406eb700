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

// Package execute wires the lattice, state, evaluator, and path explorer
// together behind a single public entry point: Execute. It is the only
// symbol the rest of the checker (and any other driver) needs to call.
package execute

import (
	"fmt"
	"runtime/debug"

	"go.nullcheck.dev/nullcheck/config"
	"go.nullcheck.dev/nullcheck/diagnostic"
	"go.nullcheck.dev/nullcheck/eval"
	"go.nullcheck.dev/nullcheck/explore"
	"go.nullcheck.dev/nullcheck/ir"
	"go.nullcheck.dev/nullcheck/state"
	"go.nullcheck.dev/nullcheck/value"
)

// Execute runs the symbolic executor over a single procedure's CFG and
// reports every finding to sink. Each formal parameter is seeded as a
// freshly allocated, unconstrained SymbolicRef — the executor has no
// information about a parameter's nullability beyond what the procedure's
// own conditionals establish along the way.
//
// Execute never panics: as the outermost boundary of this package, any
// unexpected internal failure (a malformed CFG the builder produced, a bug
// in the evaluator) is converted into an error instead of bringing down
// whatever is driving the analysis.
func Execute(cfg *ir.CFG, sink diagnostic.Sink, conf *config.Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("execute: internal panic: %v\n%s", r, string(debug.Stack()))
		}
	}()

	if cfg == nil {
		return nil
	}
	if conf == nil {
		conf = &config.Config{
			MaxBlockVisits:            config.DefaultMaxBlockVisits,
			ReportUnknownDereferences: config.DefaultReportUnknownDereferences,
		}
	}

	refs := value.NewRefAllocator()
	entryState := state.New()
	for _, p := range cfg.Params {
		entryState = entryState.Bind(p, refs.FreshValue())
	}

	ctx := &eval.Context{Refs: refs, Conf: conf}
	return explore.Run(ctx, cfg, entryState, sink)
}
