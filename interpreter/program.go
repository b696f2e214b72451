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

	"github.com/nimbuspolicy/celrt/ast"
	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// Program is an immutable, thread-safe bundle of a checked expression, its
// dispatcher, type provider, and options (spec §3 "Program"). It is built
// once via NewProgram and evaluated repeatedly, possibly concurrently,
// against different Activations; each Eval call owns its own execution
// frame (spec §5 "Shared resources").
type Program interface {
	// Eval evaluates the program against vars, which may be an Activation, a
	// map[string]interface{}, or nil for no bindings. The returned value is
	// a concrete ref.Val or a *types.Unknown; when the expression evaluates
	// to an error, val is that *types.Err and err is the same error, so an
	// error result always surfaces through err (spec §6 "eval", §7). err is
	// also non-nil, with a nil val, when vars has an unsupported type or a
	// state-tracking plan cannot be built, and when evaluation panics.
	Eval(vars interface{}) (val ref.Val, details *EvalDetails, err error)

	// AdvanceEvaluation performs one further round of partial evaluation: it
	// re-evaluates the program against vars (normally the original
	// Activation layered with newly-resolved attributes) and returns either
	// a final value or a narrower *types.Unknown (spec §6
	// "advance_evaluation", SPEC_FULL "Partial evaluation / AdvanceEvaluation").
	// The evaluator is a pure function of (program, activation), so advancing
	// is simply evaluating again with more information available.
	AdvanceEvaluation(vars interface{}) (ref.Val, error)
}

// EvalDetails holds additional information observed during an Eval call;
// non-nil only when OptTrackState or OptExhaustiveEval was set (spec §6).
type EvalDetails struct {
	state EvalState
}

// State returns the per-expression-id recorded values for the Eval call
// that produced this EvalDetails.
func (d *EvalDetails) State() EvalState {
	return d.state
}

// program is the default Program implementation.
type program struct {
	expr             ast.Expression
	disp             Dispatcher
	adapter          ref.TypeAdapter
	provider         ref.TypeProvider
	resolver         Resolver
	customDecorators []InterpretableDecorator
	defaultVars      Activation
	opts             *options
	evalOpts         EvalOption

	plan Interpretable
}

var _ Program = &program{}

// NewProgram plans expr into an Interpretable tree configured by opts and
// returns the resulting Program (spec §3 "create_program").
func NewProgram(expr ast.Expression, opts ...ProgramOption) (Program, error) {
	b, err := newProgBuilder()
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, fmt.Errorf("program options must be non-nil")
		}
		b, err = opt(b)
		if err != nil {
			return nil, err
		}
	}
	p := &program{
		expr:             expr,
		disp:             b.disp,
		adapter:          b.adapter,
		provider:         b.provider,
		resolver:         b.resolver(),
		customDecorators: b.decorators,
		defaultVars:      b.defaultVars,
		opts:             b.opts,
		evalOpts:         b.evalOpts,
	}
	plan, err := p.build(nil)
	if err != nil {
		return nil, err
	}
	p.plan = plan
	return p, nil
}

// build plans expr with the decorator pipeline implied by opts/evalOpts; a
// non-nil state additionally wraps every node to record its computed value
// (spec §3 "Options", the teacher's OptOptimize/OptExhaustiveEval/
// OptTrackState translation from EvalOption flags into decorators).
func (p *program) build(state MutableEvalState) (Interpretable, error) {
	decorators := append([]InterpretableDecorator{}, p.customDecorators...)
	if p.evalOpts&OptOptimize == OptOptimize {
		decorators = append(decorators, decOptimize())
	}
	exhaustive := p.opts.shortCircuitingDisabled || p.evalOpts&OptExhaustiveEval == OptExhaustiveEval
	if exhaustive {
		decorators = append(decorators, decDisableShortcircuits())
	}
	if p.opts.unwrapWellKnownTypesOnDispatch {
		decorators = append(decorators, decUnwrapWellKnownTypesOnDispatch(p.adapter))
	}
	if state != nil {
		decorators = append(decorators, decObserveEval(func(id int64, _ Interpretable, val ref.Val) {
			state.SetValue(id, val)
		}))
	}
	planner := newPlanner(p.disp, p.provider, p.adapter, p.resolver, p.opts.errorOnDuplicateMapKeys, p.opts.unsignedLongs, decorators...)
	return planner.Plan(p.expr)
}

// Eval implements Program.
func (p *program) Eval(vars interface{}) (val ref.Val, details *EvalDetails, err error) {
	activation, aerr := p.activation(vars)
	if aerr != nil {
		return nil, nil, aerr
	}

	plan := p.plan
	if p.evalOpts&(OptTrackState|OptExhaustiveEval) != 0 {
		state := NewEvalState()
		var berr error
		plan, berr = p.build(state)
		if berr != nil {
			return nil, nil, berr
		}
		details = &EvalDetails{state: state}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	val = plan.Eval(activation)
	if types.IsError(val) {
		err = val.Value().(error)
	}
	return
}

// AdvanceEvaluation implements Program.
func (p *program) AdvanceEvaluation(vars interface{}) (ref.Val, error) {
	val, _, err := p.Eval(vars)
	return val, err
}

// activation builds the root Activation an Eval call runs against: it
// normalizes vars, layers in any Globals default bindings, and installs an
// evalFrame when a comprehension iteration budget is configured (spec §3
// "Execution frame").
func (p *program) activation(vars interface{}) (Activation, error) {
	var base Activation
	switch v := vars.(type) {
	case Activation:
		base = v
	case map[string]interface{}:
		base = NewActivation(v)
	case nil:
		base = EmptyActivation()
	default:
		return nil, fmt.Errorf("unsupported activation type: %T", vars)
	}
	if p.defaultVars != nil {
		base = ExtendActivation(p.defaultVars, base)
	}
	if p.opts.comprehensionMaxIterations >= 0 {
		base = newEvalFrame(base, p.opts.comprehensionMaxIterations)
	}
	return base, nil
}

// evalFrame is the per-evaluation mutable state a Program threads through
// nested comprehension scopes: the iteration counter bounding the total
// number of loop steps across every (possibly nested) comprehension in one
// Eval call (spec §3 "Execution frame", §5 "Cancellation and timeouts").
// It forwards UnknownAttributePatterns so wrapping a PartialActivation does
// not hide it from the partial resolver's attribute matching.
type evalFrame struct {
	Activation
	iterations    int64
	maxIterations int64
}

func newEvalFrame(vars Activation, maxIterations int64) *evalFrame {
	return &evalFrame{Activation: vars, maxIterations: maxIterations}
}

// UnknownAttributePatterns implements PartialActivation by delegating to the
// wrapped Activation, if it is itself a PartialActivation.
func (f *evalFrame) UnknownAttributePatterns() []*AttributePattern {
	if partial, ok := f.Activation.(PartialActivation); ok {
		return partial.UnknownAttributePatterns()
	}
	return nil
}

// incrementIteration counts one comprehension loop step, returning a
// iteration_budget_exceeded error once maxIterations is exceeded.
func (f *evalFrame) incrementIteration() *types.Err {
	f.iterations++
	if f.iterations > f.maxIterations {
		return types.NewKindErr(types.ErrorKindIterationBudgetExceeded, "iteration budget exceeded")
	}
	return nil
}

// frameOf walks vars' Parent chain looking for the evalFrame installed at
// the root of the current Eval call. Returns nil when no iteration budget
// was configured, in which case comprehensions run unbounded.
func frameOf(vars Activation) *evalFrame {
	for a := vars; a != nil; a = a.Parent() {
		if f, ok := a.(*evalFrame); ok {
			return f
		}
	}
	return nil
}
