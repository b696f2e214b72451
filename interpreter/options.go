// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interpreter

import (
	"fmt"

	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/interpreter/functions"
)

// options holds the resolved value of every enumerated spec Option (spec
// §3 "Options"). defaultOptions returns the language default: signed longs,
// wrapping overflow, permissive duplicate map keys, unbounded comprehension
// iteration (comprehensionMaxIterations -1), short-circuiting on,
// homogeneous-only numeric comparisons, no attribute tracking, and no
// well-known-type unwrapping. A zero options differs from it in allowing no
// comprehension iterations at all.
type options struct {
	unsignedLongs                          bool
	errorOnIntWrap                         bool
	errorOnDuplicateMapKeys                bool
	comprehensionMaxIterations             int64
	shortCircuitingDisabled                bool
	heterogeneousNumericComparisonsEnabled bool
	unknownTrackingEnabled                 bool
	unwrapWellKnownTypesOnDispatch         bool
}

func defaultOptions() *options {
	return &options{comprehensionMaxIterations: -1}
}

// progBuilder accumulates ProgramOption mutations before NewProgram plans
// the Interpretable tree (spec §3 "Program").
type progBuilder struct {
	disp        Dispatcher
	adapter     ref.TypeAdapter
	provider    ref.TypeProvider
	decorators  []InterpretableDecorator
	defaultVars Activation
	evalOpts    EvalOption
	opts        *options
}

// ProgramOption is a functional interface for configuring a Program at build
// time, mirroring the teacher's cel.EnvOption/cel.ProgramOption pattern
// collapsed into this repository's single build step (no env/checker
// layer).
type ProgramOption func(*progBuilder) (*progBuilder, error)

// CustomTypeAdapter swaps the default ref.TypeAdapter implementation.
func CustomTypeAdapter(adapter ref.TypeAdapter) ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.adapter = adapter
		return p, nil
	}
}

// CustomTypeProvider swaps the default ref.TypeProvider implementation.
func CustomTypeProvider(provider ref.TypeProvider) ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.provider = provider
		return p, nil
	}
}

// CustomDecorator appends an InterpretableDecorator to the program's plan
// step. Custom decorators run first, before the built-in optimize,
// short-circuit, unwrap and observe decorators.
func CustomDecorator(dec InterpretableDecorator) ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.decorators = append(p.decorators, dec)
		return p, nil
	}
}

// Functions registers additional overloads alongside the standard library
// (spec §4.G "Subsetting"). An overload whose function name and
// OperandTrait are already registered is rejected with an error, so a
// standard overload cannot be replaced this way.
func Functions(overloads ...*functions.Overload) ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		if err := p.disp.Add(overloads...); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Globals sets default variable bindings that Eval's input activation may
// shadow but need not repeat on every call.
func Globals(vars map[string]interface{}) ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.defaultVars = NewActivation(vars)
		return p, nil
	}
}

// UnsignedLongs enables the `unsigned_longs` option: uint literals are kept
// as a distinct runtime type rather than wrapped into signed int64.
func UnsignedLongs() ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.unsignedLongs = true
		return p, nil
	}
}

// ErrorOnIntWrap enables `error_on_int_wrap`: signed/unsigned arithmetic
// overflow raises numeric_overflow instead of wrapping.
func ErrorOnIntWrap() ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.errorOnIntWrap = true
		return p, nil
	}
}

// ErrorOnDuplicateMapKeys enables `error_on_duplicate_map_keys`: a map
// literal with a repeated key raises duplicate_attribute instead of letting
// the later entry win silently.
func ErrorOnDuplicateMapKeys() ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.errorOnDuplicateMapKeys = true
		return p, nil
	}
}

// ComprehensionMaxIterations sets `comprehension_max_iterations`; a negative
// value (the default) means unlimited.
func ComprehensionMaxIterations(n int64) ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.comprehensionMaxIterations = n
		return p, nil
	}
}

// DisableShortCircuiting turns off `enable_short_circuiting`: every branch
// of `&&`, `||`, and `?:` is evaluated before a result is selected (errors
// in the unselected branch are still discarded).
func DisableShortCircuiting() ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.shortCircuitingDisabled = true
		return p, nil
	}
}

// EnableHeterogeneousNumericComparisons enables cross-type `<`, `<=`, `>`,
// `>=` between int, uint, and double operands.
func EnableHeterogeneousNumericComparisons() ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.heterogeneousNumericComparisonsEnabled = true
		return p, nil
	}
}

// EnableUnknownTracking enables `enable_unknown_tracking`: Eval calls given
// a PartialActivation resolve its declared AttributePattern values against
// traversed attributes, producing Unknown results instead of lookup errors.
// Without this option, a PartialActivation's pattern set is never
// consulted.
func EnableUnknownTracking() ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.unknownTrackingEnabled = true
		return p, nil
	}
}

// UnwrapWellKnownTypesOnDispatch enables `unwrap_well_known_types_on_dispatch`:
// after a function dispatch, well-known proto wrapper messages in the
// result are adapted back to CEL primitives.
func UnwrapWellKnownTypesOnDispatch() ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		p.opts.unwrapWellKnownTypesOnDispatch = true
		return p, nil
	}
}

// EvalOption indicates an evaluation-time behavior that affects the
// Program's decorator pipeline and what EvalDetails reports back.
type EvalOption int

const (
	// OptTrackState causes Eval to return a non-nil EvalState in EvalDetails,
	// recording the computed value of every expression id.
	OptTrackState EvalOption = 1 << iota

	// OptExhaustiveEval implies OptTrackState and additionally disables
	// short-circuiting so every branch's value is recorded.
	OptExhaustiveEval EvalOption = 1<<iota | OptTrackState

	// OptOptimize precomputes constant subexpressions and specializes common
	// patterns (constant equality, constant-list membership) at plan time.
	OptOptimize EvalOption = 1 << iota
)

// EvalOptions sets one or more evaluation options affecting the Program's
// decorator pipeline.
func EvalOptions(opts ...EvalOption) ProgramOption {
	return func(p *progBuilder) (*progBuilder, error) {
		for _, opt := range opts {
			p.evalOpts |= opt
		}
		return p, nil
	}
}

func (p *progBuilder) resolver() Resolver {
	if p.opts.unknownTrackingEnabled {
		return NewPartialResolver(p.adapter, p.provider)
	}
	return NewResolver(p.adapter, p.provider)
}

func newProgBuilder() (*progBuilder, error) {
	opts := defaultOptions()
	disp := NewDispatcher()
	if err := disp.Add(functions.StandardOverloads(&opts.heterogeneousNumericComparisonsEnabled, &opts.errorOnIntWrap)...); err != nil {
		return nil, fmt.Errorf("registering standard overloads: %w", err)
	}
	return &progBuilder{
		disp:     disp,
		adapter:  types.DefaultTypeAdapter,
		provider: types.NewNativeTypeProvider(),
		opts:     opts,
	}, nil
}
