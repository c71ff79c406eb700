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

package config

// This file hosts non-user-configurable parameters; these are for internal
// development and testing purposes only, as opposed to the user-facing
// flags on Analyzer in config.go.

// DefaultMaxBlockVisits is the default bound on per-path block revisits. It
// covers straight-line code, one loop iteration, and a fixpoint check,
// which is enough to avoid false negatives on the loop scenarios we test
// without letting path count blow up on larger loops.
const DefaultMaxBlockVisits = 2

// DefaultReportUnknownDereferences keeps the checker from reporting on
// every receiver we merely failed to prove non-null; reporting on those
// would drown users in findings whose nullability was never actually
// established on any concrete path.
const DefaultReportUnknownDereferences = false

// NPEMessageFormat is the message template for a possible null-dereference
// diagnostic; %s is the source-level identifier of the nullable receiver.
const NPEMessageFormat = "NullPointerException might be thrown as '%s' is nullable here"

// TautologyTrueMessage is reported when a branch condition is shown to
// always evaluate to true on every feasible incoming path.
const TautologyTrueMessage = `Change this condition so that it does not always evaluate to "true"`

// TautologyFalseMessage is the symmetric message for an always-false
// condition.
const TautologyFalseMessage = `Change this condition so that it does not always evaluate to "false"`
