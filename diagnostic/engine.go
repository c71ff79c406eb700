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

package diagnostic

import (
	"go/token"

	"golang.org/x/tools/go/analysis"
)

// Emit converts the findings collected in c into analysis.Diagnostics and
// reports them on pass, resolving each recorded line back to a token.Pos
// via file. Unlike a whole-program checker that must stitch together
// positions from facts imported across package boundaries, a single
// procedure's diagnostics are always positions within its own file, so a
// single *token.File suffices here.
func Emit(pass *analysis.Pass, file *token.File, c *Collector) {
	for _, d := range c.Diagnostics() {
		pass.Report(analysis.Diagnostic{
			Pos:     file.LineStart(d.Line),
			Message: d.Message,
		})
	}
}
