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
	"github.com/nimbuspolicy/celrt/common/operators"
	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/interpreter/functions"
)

// interpretablePlanner turns an ast.Expression tree into a tree of
// Interpretable nodes that Activation-driven Eval calls walk directly,
// with no further reference to the source AST (spec §3).
type interpretablePlanner interface {
	Plan(expr ast.Expression) (Interpretable, error)
}

// newPlanner builds an interpretablePlanner bound to a Dispatcher, the
// TypeProvider/TypeAdapter pair values are constructed and adapted with,
// and a Resolver used to build the attribute chains identifiers, selects,
// indexing, and the ternary conditional resolve through (spec §4.B-§4.D).
func newPlanner(
	disp Dispatcher,
	provider ref.TypeProvider,
	adapter ref.TypeAdapter,
	resolver Resolver,
	errorOnDuplicateMapKeys bool,
	unsignedLongs bool,
	decorators ...InterpretableDecorator) interpretablePlanner {
	return &planner{
		disp:                    disp,
		provider:                provider,
		adapter:                 adapter,
		resolver:                resolver,
		errorOnDuplicateMapKeys: errorOnDuplicateMapKeys,
		unsignedLongs:           unsignedLongs,
		decorators:              decorators,
	}
}

type planner struct {
	disp                    Dispatcher
	provider                ref.TypeProvider
	adapter                 ref.TypeAdapter
	resolver                Resolver
	errorOnDuplicateMapKeys bool
	unsignedLongs           bool
	decorators              []InterpretableDecorator
}

var _ interpretablePlanner = &planner{}

// Plan implements interpretablePlanner.
func (p *planner) Plan(expr ast.Expression) (Interpretable, error) {
	return p.plan(expr)
}

func (p *planner) plan(expr ast.Expression) (Interpretable, error) {
	switch e := expr.(type) {
	case *ast.CallExpression:
		return p.decorate(p.planCall(e))
	case *ast.IdentExpression:
		return p.decorate(p.planIdent(e))
	case *ast.SelectExpression:
		return p.decorate(p.planSelect(e))
	case *ast.CreateListExpression:
		return p.decorate(p.planCreateList(e))
	case *ast.CreateStructExpression:
		return p.decorate(p.planCreateMap(e))
	case *ast.CreateMessageExpression:
		return p.decorate(p.planCreateMessage(e))
	case *ast.ComprehensionExpression:
		return p.decorate(p.planComprehension(e))
	case *ast.Int64Constant:
		return p.decorate(NewConstValue(e.Id(), types.Int(e.Value)), nil)
	case *ast.Uint64Constant:
		// unsigned_longs off (the spec §3 default) coerces uint literals into
		// the signed int64 runtime type instead of keeping them as a distinct
		// Uint (spec §3 "unsigned_longs").
		if !p.unsignedLongs {
			return p.decorate(NewConstValue(e.Id(), types.Int(int64(e.Value))), nil)
		}
		return p.decorate(NewConstValue(e.Id(), types.Uint(e.Value)), nil)
	case *ast.DoubleConstant:
		return p.decorate(NewConstValue(e.Id(), types.Double(e.Value)), nil)
	case *ast.StringConstant:
		return p.decorate(NewConstValue(e.Id(), types.String(e.Value)), nil)
	case *ast.BytesConstant:
		return p.decorate(NewConstValue(e.Id(), types.Bytes(e.Value)), nil)
	case *ast.BoolConstant:
		return p.decorate(NewConstValue(e.Id(), types.Bool(e.Value)), nil)
	case *ast.NullConstant:
		return p.decorate(NewConstValue(e.Id(), types.NullValue), nil)
	}
	return nil, fmt.Errorf("unsupported expression: %T", expr)
}

// decorate applies the planner's InterpretableDecorator chain to i, in
// registration order, short-circuiting on the first error. Both the
// Interpretable and the error produced by a planX step are accepted so
// that callers can write p.decorate(p.planX(e)) directly.
func (p *planner) decorate(i Interpretable, err error) (Interpretable, error) {
	if err != nil {
		return nil, err
	}
	for _, dec := range p.decorators {
		i, err = dec(i)
		if err != nil {
			return nil, err
		}
	}
	return i, nil
}

// planIdent creates an Interpretable that resolves an identifier either to
// a type-literal constant (when the checker annotated it with CheckedType)
// or to an attribute resolved against the Activation at Eval time.
func (p *planner) planIdent(e *ast.IdentExpression) (Interpretable, error) {
	if e.CheckedType != nil {
		tv, found := p.provider.FindIdent(e.Name)
		if !found {
			return nil, fmt.Errorf("reference to undefined type: %s", e.Name)
		}
		return NewConstValue(e.Id(), tv), nil
	}
	return &evalAttr{
		adapter: p.adapter,
		attr:    p.resolver.AbsoluteAttribute(e.Id(), e.Name),
	}, nil
}

// planSelect creates an Interpretable that either selects a field from the
// planned operand or, for a has()-macro TestOnly select, tests whether the
// field is present (spec §4.E).
func (p *planner) planSelect(e *ast.SelectExpression) (Interpretable, error) {
	op, err := p.plan(e.Target)
	if err != nil {
		return nil, err
	}

	attr, isAttr := op.(InterpretableAttribute)
	if !isAttr {
		attr, err = p.relativeAttr(op.ID(), op)
		if err != nil {
			return nil, err
		}
	}

	qual, err := p.resolver.NewQualifier(nil, e.Id(), e.Field)
	if err != nil {
		return nil, err
	}
	if e.TestOnly {
		attr = &evalTestOnly{id: e.Id(), InterpretableAttribute: attr}
	}
	_, err = attr.AddQualifier(qual)
	return attr, err
}

// planCall creates a callable Interpretable, specializing the logical and
// comparison operators, indexing, and the ternary conditional into their
// dedicated Interpretable forms (spec §4.B-§4.D), and otherwise resolving
// the named function against the Dispatcher by arity.
func (p *planner) planCall(e *ast.CallExpression) (Interpretable, error) {
	if e.Target == nil && e.Function == operators.CelBlockList {
		return p.planCallBlockList(e)
	}

	target, fnName, oName := p.resolveFunction(e)
	argCount := len(e.Args)
	offset := 0
	if target != nil {
		argCount++
		offset = 1
	}

	args := make([]Interpretable, argCount)
	if target != nil {
		arg, err := p.plan(target)
		if err != nil {
			return nil, err
		}
		args[0] = arg
	}
	for i, argExpr := range e.Args {
		arg, err := p.plan(argExpr)
		if err != nil {
			return nil, err
		}
		args[i+offset] = arg
	}

	switch fnName {
	case operators.LogicalAnd:
		return &evalAnd{id: e.Id(), terms: args}, nil
	case operators.LogicalOr:
		return &evalOr{id: e.Id(), terms: args}, nil
	case operators.Conditional:
		return p.planCallConditional(e, args)
	case operators.Equals:
		return &evalEq{id: e.Id(), lhs: args[0], rhs: args[1]}, nil
	case operators.NotEquals:
		return &evalNe{id: e.Id(), lhs: args[0], rhs: args[1]}, nil
	case operators.Index:
		return p.planCallIndex(e, args)
	case operators.SelectOptionalField:
		return p.planCallOptionalSelect(e, args)
	case operators.OptionalOr:
		return &evalOptionalOr{id: e.Id(), lhs: args[0], rhs: args[1]}, nil
	case operators.OptionalOrValue:
		return &evalOptionalOrValue{id: e.Id(), lhs: args[0], rhs: args[1]}, nil
	}

	var overloadSet []*functions.Overload
	if oName != "" {
		overloadSet, _ = p.disp.FindOverload(oName)
	}
	if overloadSet == nil {
		overloadSet, _ = p.disp.FindOverload(fnName)
	}
	switch argCount {
	case 0:
		return p.planCallZero(e, fnName, oName, overloadSet)
	case 1:
		return p.planCallUnary(e, fnName, oName, overloadSet, args)
	case 2:
		return p.planCallBinary(e, fnName, oName, overloadSet, args)
	default:
		return p.planCallVarArgs(e, fnName, oName, overloadSet, args)
	}
}

func (p *planner) planCallZero(
	e *ast.CallExpression, function, overload string, overloadSet []*functions.Overload) (Interpretable, error) {
	if len(overloadSet) == 0 {
		return nil, fmt.Errorf("no such overload: %s()", function)
	}
	fn, _, _, err := pickFunctionOp(function, overloadSet)
	if err != nil {
		return nil, err
	}
	return &evalZeroArity{id: e.Id(), function: function, overload: overload, impl: fn}, nil
}

func (p *planner) planCallUnary(
	e *ast.CallExpression, function, overload string, overloadSet []*functions.Overload, args []Interpretable) (Interpretable, error) {
	fn, trait, nonStrict, err := pickUnaryOp(function, overloadSet)
	if err != nil {
		return nil, err
	}
	return &evalUnary{
		id:        e.Id(),
		function:  function,
		overload:  overload,
		arg:       args[0],
		trait:     trait,
		impl:      fn,
		nonStrict: nonStrict,
	}, nil
}

func (p *planner) planCallBinary(
	e *ast.CallExpression, function, overload string, overloadSet []*functions.Overload, args []Interpretable) (Interpretable, error) {
	fn, trait, nonStrict, err := pickBinaryOp(function, overloadSet)
	if err != nil {
		return nil, err
	}
	return &evalBinary{
		id:        e.Id(),
		function:  function,
		overload:  overload,
		lhs:       args[0],
		rhs:       args[1],
		trait:     trait,
		impl:      fn,
		nonStrict: nonStrict,
	}, nil
}

func (p *planner) planCallVarArgs(
	e *ast.CallExpression, function, overload string, overloadSet []*functions.Overload, args []Interpretable) (Interpretable, error) {
	fn, trait, nonStrict, err := pickFunctionOp(function, overloadSet)
	if err != nil {
		return nil, err
	}
	return &evalVarArgs{
		id:        e.Id(),
		function:  function,
		overload:  overload,
		args:      args,
		trait:     trait,
		impl:      fn,
		nonStrict: nonStrict,
	}, nil
}

func (p *planner) planCallConditional(e *ast.CallExpression, args []Interpretable) (Interpretable, error) {
	cond := args[0]

	t := args[1]
	var tAttr Attribute
	if truthyAttr, ok := t.(InterpretableAttribute); ok {
		tAttr = truthyAttr.Attr()
	} else {
		tAttr = p.resolver.RelativeAttribute(t.ID(), t)
	}

	f := args[2]
	var fAttr Attribute
	if falsyAttr, ok := f.(InterpretableAttribute); ok {
		fAttr = falsyAttr.Attr()
	} else {
		fAttr = p.resolver.RelativeAttribute(f.ID(), f)
	}

	return &evalAttr{
		adapter: p.adapter,
		attr:    p.resolver.ConditionalAttribute(e.Id(), cond, tAttr, fAttr),
	}, nil
}

// planCallIndex extends an attribute with the argument to the `[]` index
// operation, or builds a relative attribute rooted at the operand's value
// when the operand is not itself attribute-shaped (e.g. a function call
// result).
func (p *planner) planCallIndex(e *ast.CallExpression, args []Interpretable) (Interpretable, error) {
	op := args[0]
	ind := args[1]

	var err error
	attr, isAttr := op.(InterpretableAttribute)
	if !isAttr {
		attr, err = p.relativeAttr(op.ID(), op)
		if err != nil {
			return nil, err
		}
	}

	var qual Qualifier
	switch ind := ind.(type) {
	case InterpretableConst:
		qual, err = p.resolver.NewQualifier(nil, e.Id(), ind.Value())
	case InterpretableAttribute:
		qual, err = p.resolver.NewQualifier(nil, e.Id(), ind)
	default:
		qual, err = p.resolver.NewQualifier(nil, e.Id(), p.resolver.RelativeAttribute(e.Id(), ind))
	}
	if err != nil {
		return nil, err
	}

	_, err = attr.AddQualifier(qual)
	return attr, err
}

// planCallBlockList implements the compiler-inserted cel_block_list binding
// form (spec §4.H "cel_block_list form"): e.Args[0] must be a list literal
// of bound sub-expressions, each exposed to e.Args[1] as the
// lazily-evaluated identifier @index<i> in a pushed scope.
func (p *planner) planCallBlockList(e *ast.CallExpression) (Interpretable, error) {
	if len(e.Args) != 2 {
		return nil, fmt.Errorf("%s requires exactly 2 arguments", operators.CelBlockList)
	}
	bindList, ok := e.Args[0].(*ast.CreateListExpression)
	if !ok {
		return nil, fmt.Errorf("%s requires a list literal as its first argument", operators.CelBlockList)
	}
	binds := make([]Interpretable, len(bindList.Entries))
	for i, entry := range bindList.Entries {
		bind, err := p.plan(entry)
		if err != nil {
			return nil, err
		}
		binds[i] = bind
	}
	body, err := p.plan(e.Args[1])
	if err != nil {
		return nil, err
	}
	return &evalBlockList{id: e.Id(), binds: binds, body: body}, nil
}

// planCallOptionalSelect builds the select_optional_field special form
// (`_?._`, spec §4.G), represented as a two-argument call
// (target, field-name-string-constant) rather than a dedicated AST select
// node.
func (p *planner) planCallOptionalSelect(e *ast.CallExpression, args []Interpretable) (Interpretable, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s requires exactly 2 arguments", operators.SelectOptionalField)
	}
	fieldConst, ok := args[1].(InterpretableConst)
	if !ok {
		return nil, fmt.Errorf("%s requires a constant field name", operators.SelectOptionalField)
	}
	field, ok := fieldConst.Value().(types.String)
	if !ok {
		return nil, fmt.Errorf("%s requires a string field name", operators.SelectOptionalField)
	}

	op := args[0]
	attr, isAttr := op.(InterpretableAttribute)
	if !isAttr {
		var err error
		attr, err = p.relativeAttr(op.ID(), op)
		if err != nil {
			return nil, err
		}
	}

	qual, err := p.resolver.NewQualifier(nil, e.Id(), string(field))
	if err != nil {
		return nil, err
	}
	if _, err := attr.AddQualifier(qual); err != nil {
		return nil, err
	}
	return &evalOptionalSelect{id: e.Id(), InterpretableAttribute: attr}, nil
}

// planCreateList generates a list construction Interpretable.
func (p *planner) planCreateList(e *ast.CreateListExpression) (Interpretable, error) {
	elems := make([]Interpretable, len(e.Entries))
	for i, elem := range e.Entries {
		elemVal, err := p.plan(elem)
		if err != nil {
			return nil, err
		}
		elems[i] = elemVal
	}
	return &evalList{id: e.Id(), elems: elems, adapter: p.adapter}, nil
}

// planCreateMap generates a map construction Interpretable from a struct
// literal's key/value entries.
func (p *planner) planCreateMap(e *ast.CreateStructExpression) (Interpretable, error) {
	keys := make([]Interpretable, len(e.Entries))
	vals := make([]Interpretable, len(e.Entries))
	for i, entry := range e.Entries {
		keyVal, err := p.plan(entry.Key)
		if err != nil {
			return nil, err
		}
		keys[i] = keyVal
		valVal, err := p.plan(entry.Value)
		if err != nil {
			return nil, err
		}
		vals[i] = valVal
	}
	return &evalMap{
		id:                   e.Id(),
		keys:                 keys,
		vals:                 vals,
		adapter:              p.adapter,
		errorOnDuplicateKeys: p.errorOnDuplicateMapKeys,
	}, nil
}

// planCreateMessage generates a message/struct construction Interpretable.
// Unlike the checker-backed teacher planner, typeName is used as written:
// this tree has no namespace container to disambiguate a relative type
// name against, so the TypeProvider is consulted with exactly the parsed
// MessageName.
func (p *planner) planCreateMessage(e *ast.CreateMessageExpression) (Interpretable, error) {
	fields := make([]string, len(e.Fields))
	vals := make([]Interpretable, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.Name
		val, err := p.plan(f.Initializer)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	return &evalObj{
		id:       e.Id(),
		typeName: e.MessageName,
		fields:   fields,
		vals:     vals,
		provider: p.provider,
	}, nil
}

// planComprehension generates an Interpretable fold operation implementing
// the all/exists/exists_one/map/filter macros (spec §4.F), or, when the
// comprehension matches the reserved lazy-bind shape that `cel.bind`
// compiles to, a dedicated lazy-binding Interpretable instead (spec §4.H
// step 2).
func (p *planner) planComprehension(e *ast.ComprehensionExpression) (Interpretable, error) {
	if isLazyBindShape(e) {
		return p.planLazyBind(e)
	}

	accu, err := p.plan(e.Init)
	if err != nil {
		return nil, err
	}
	iterRange, err := p.plan(e.Target)
	if err != nil {
		return nil, err
	}
	cond, err := p.plan(e.LoopCondition)
	if err != nil {
		return nil, err
	}
	step, err := p.plan(e.LoopStep)
	if err != nil {
		return nil, err
	}
	result, err := p.plan(e.Result)
	if err != nil {
		return nil, err
	}
	return &evalFold{
		id:        e.Id(),
		accuVar:   e.Accumulator,
		accu:      accu,
		iterVar:   e.Variable,
		iterRange: iterRange,
		cond:      cond,
		step:      step,
		result:    result,
		adapter:   p.adapter,
	}, nil
}

// isLazyBindShape reports whether a comprehension matches the reserved
// cel.bind shape (spec §4.H step 2): iter_var is the reserved name
// `#unused`, iter_range is an empty list literal, and loop_condition is the
// literal `false`. Such a comprehension never actually iterates; what
// matters is that accu_init be bound lazily under accu_var rather than
// evaluated up front.
func isLazyBindShape(e *ast.ComprehensionExpression) bool {
	if e.Variable != "#unused" {
		return false
	}
	cond, ok := e.LoopCondition.(*ast.BoolConstant)
	if !ok || cond.Value {
		return false
	}
	iterRange, ok := e.Target.(*ast.CreateListExpression)
	return ok && len(iterRange.Entries) == 0
}

// planLazyBind builds the lazy-binding Interpretable for a comprehension
// matching isLazyBindShape: accu_init is planned but wrapped as a lazy,
// memoizing supplier bound to accu_var instead of being evaluated eagerly
// (spec §4.C "lazy-result cache", §8 "Lazy bind").
func (p *planner) planLazyBind(e *ast.ComprehensionExpression) (Interpretable, error) {
	accu, err := p.plan(e.Init)
	if err != nil {
		return nil, err
	}
	result, err := p.plan(e.Result)
	if err != nil {
		return nil, err
	}
	return &evalBind{id: e.Id(), accuVar: e.Accumulator, accu: accu, result: result}, nil
}

// resolveFunction determines the call target and function name from a
// CallExpression, along with the checker-resolved overload id when the
// call site was annotated with exactly one (spec §4.D). Parse-only ASTs,
// or calls a checker left ambiguous, fall back to resolving purely by
// function name at plan time.
func (p *planner) resolveFunction(e *ast.CallExpression) (ast.Expression, string, string) {
	oName := ""
	if len(e.Overloads) == 1 {
		oName = e.Overloads[0]
	}
	return e.Target, e.Function, oName
}

// relativeAttr wraps a planned Interpretable in an Attribute rooted at its
// runtime value, then runs it back through the decorator chain so that
// qualifier-bearing intermediate results (e.g. for state tracking) are
// still observed.
func (p *planner) relativeAttr(id int64, eval Interpretable) (InterpretableAttribute, error) {
	eAttr, ok := eval.(InterpretableAttribute)
	if !ok {
		eAttr = &evalAttr{
			adapter: p.adapter,
			attr:    p.resolver.RelativeAttribute(id, eval),
		}
	}
	decorated, err := p.decorate(eAttr, nil)
	if err != nil {
		return nil, err
	}
	eAttr, ok = decorated.(InterpretableAttribute)
	if !ok {
		return nil, fmt.Errorf("invalid attribute decoration: %v(%T)", decorated, decorated)
	}
	return eAttr, nil
}

// pickUnaryOp resolves a UnaryOp implementation for function out of
// overloadSet. With exactly one registered overload its Unary/OperandTrait/
// NonStrict are used directly, matching the common case where every
// concrete operand type shares one trait-gated implementation (e.g.
// traits.Negator for `-_`). With more than one, a dispatching closure
// applies the Dispatcher's documented uniqueness rule at Eval time instead
// of plan time, since only the concrete operand type decides which
// registered overload actually applies.
func pickUnaryOp(function string, overloadSet []*functions.Overload) (functions.UnaryOp, int, bool, error) {
	if len(overloadSet) == 0 {
		return nil, 0, false, nil
	}
	if len(overloadSet) == 1 {
		o := overloadSet[0]
		if o.Unary == nil {
			return nil, 0, false, fmt.Errorf("no such overload: %s(arg)", function)
		}
		return o.Unary, o.OperandTrait, o.NonStrict, nil
	}
	nonStrict := false
	for _, o := range overloadSet {
		nonStrict = nonStrict || o.NonStrict
	}
	fn := func(arg ref.Val) ref.Val {
		matched, err := matchOverload(overloadSet, arg.Type())
		if err != nil {
			return types.NewErr(err.Error())
		}
		if matched == nil || matched.Unary == nil {
			return types.NewErr("no such overload: %s(arg)", function)
		}
		return matched.Unary(arg)
	}
	return fn, 0, nonStrict, nil
}

// pickBinaryOp mirrors pickUnaryOp for two-argument overloads.
func pickBinaryOp(function string, overloadSet []*functions.Overload) (functions.BinaryOp, int, bool, error) {
	if len(overloadSet) == 0 {
		return nil, 0, false, nil
	}
	if len(overloadSet) == 1 {
		o := overloadSet[0]
		if o.Binary == nil {
			return nil, 0, false, fmt.Errorf("no such overload: %s(lhs, rhs)", function)
		}
		return o.Binary, o.OperandTrait, o.NonStrict, nil
	}
	nonStrict := false
	for _, o := range overloadSet {
		nonStrict = nonStrict || o.NonStrict
	}
	fn := func(lhs, rhs ref.Val) ref.Val {
		matched, err := matchOverload(overloadSet, lhs.Type())
		if err != nil {
			return types.NewErr(err.Error())
		}
		if matched == nil || matched.Binary == nil {
			return types.NewErr("no such overload: %s(lhs, rhs)", function)
		}
		return matched.Binary(lhs, rhs)
	}
	return fn, 0, nonStrict, nil
}

// pickFunctionOp mirrors pickUnaryOp for zero-arity and variable-arity
// overloads, matching on the first argument's type when there is one.
func pickFunctionOp(function string, overloadSet []*functions.Overload) (functions.FunctionOp, int, bool, error) {
	if len(overloadSet) == 0 {
		return nil, 0, false, nil
	}
	if len(overloadSet) == 1 {
		o := overloadSet[0]
		if o.Function == nil {
			return nil, 0, false, fmt.Errorf("no such overload: %s(...)", function)
		}
		return o.Function, o.OperandTrait, o.NonStrict, nil
	}
	nonStrict := false
	for _, o := range overloadSet {
		nonStrict = nonStrict || o.NonStrict
	}
	fn := func(args ...ref.Val) ref.Val {
		var argType ref.Type
		if len(args) > 0 {
			argType = args[0].Type()
		}
		matched, err := matchOverload(overloadSet, argType)
		if err != nil {
			return types.NewErr(err.Error())
		}
		if matched == nil || matched.Function == nil {
			return types.NewErr("no such overload: %s(...)", function)
		}
		return matched.Function(args...)
	}
	return fn, 0, nonStrict, nil
}

// matchOverload applies the uniqueness-over-first-match rule (see
// Dispatcher) to select the overload in overloadSet whose OperandTrait the
// concrete argType satisfies: an OperandTrait of zero always matches, and
// more than one match is an ambiguity error rather than a silent pick of
// either candidate.
func matchOverload(overloadSet []*functions.Overload, argType ref.Type) (*functions.Overload, error) {
	var matched *functions.Overload
	for _, o := range overloadSet {
		if o.OperandTrait == 0 || (argType != nil && argType.HasTrait(o.OperandTrait)) {
			if matched != nil {
				return nil, fmt.Errorf("ambiguous overload for operator '%s'", o.Operator)
			}
			matched = o
		}
	}
	return matched, nil
}
