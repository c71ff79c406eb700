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

// Package gclplugin implements golangci-lint's module plugin interface for
// nullcheck to be used as a private linter in golangci-lint. See more
// details at https://golangci-lint.run/plugins/module-plugins/.
package gclplugin

import (
	"fmt"

	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"go.nullcheck.dev/nullcheck"
	"go.nullcheck.dev/nullcheck/config"
)

func init() {
	register.Plugin("nullcheck", New)
}

// Plugin adapts nullcheck.Analyzer to golangci-lint's module-plugin
// contract. The raw YAML settings golangci-lint hands to New are kept
// as-is (not yet applied to config.Analyzer's flags) so that a malformed
// flag name or value is reported from BuildAnalyzers, the call golangci-lint
// actually treats as fallible per-run setup.
type Plugin struct {
	rawSettings map[string]string
}

// New validates settings and returns the Plugin wrapping it. golangci-lint
// passes plugin settings as a bag of arbitrary YAML-decoded values; nullcheck
// only accepts ones that round-trip through its flag.FlagSet, so every value
// must already be a string.
func New(settings any) (register.LinterPlugin, error) {
	asMap, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("nullcheck plugin settings: want map[string]string, got %T", settings)
	}

	rawSettings := make(map[string]string, len(asMap))
	for name, value := range asMap {
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("nullcheck plugin setting %q: want a string value, got %T", name, value)
		}
		rawSettings[name] = str
	}

	return &Plugin{rawSettings: rawSettings}, nil
}

// BuildAnalyzers applies the plugin's settings to config.Analyzer's flags
// and returns the single nullcheck.Analyzer for golangci-lint to run.
func (p *Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	if err := p.applyFlags(); err != nil {
		return nil, err
	}
	return []*analysis.Analyzer{nullcheck.Analyzer}, nil
}

func (p *Plugin) applyFlags() error {
	flags := config.Analyzer.Flags
	for name, value := range p.rawSettings {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("nullcheck plugin: invalid setting %q=%q: %w", name, value, err)
		}
	}
	return nil
}

// GetLoadMode reports the package load mode nullcheck requires: full type
// information, since the executor reasons about pointer/interface/slice/map
// nilability by type.
func (p *Plugin) GetLoadMode() string { return register.LoadModeTypesInfo }
