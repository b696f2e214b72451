// Copyright 2019 Google LLC
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
	"strings"
	"sync"

	"github.com/nimbuspolicy/celrt/common/operators"
	"github.com/nimbuspolicy/celrt/common/overloads"
	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/common/types/traits"
	"github.com/nimbuspolicy/celrt/interpreter/functions"
)

// Interpretable is a node of a planned evaluation tree. Eval accepts an
// Activation and produces the value computed for that node's subtree.
type Interpretable interface {
	// ID returns the expression id the node was planned from, used to tie an
	// evaluation result (or an Unknown) back to its source expression.
	ID() int64

	// Eval evaluates the node against vars and returns the resulting value,
	// which may be an *types.Unknown or a *types.Err rather than a concrete
	// result.
	Eval(vars Activation) ref.Val
}

// InterpretableConst is implemented by nodes that always evaluate to the
// same value regardless of Activation, namely literals and decorator-folded
// constant sub-expressions.
type InterpretableConst interface {
	Interpretable

	// Value returns the constant value of the node.
	Value() ref.Val
}

// InterpretableAttribute is implemented by nodes whose evaluation resolves
// an Attribute: identifiers, field/index selections, and the ternary
// conditional (which resolves to whichever branch's Attribute applies).
type InterpretableAttribute interface {
	Interpretable

	// Attr returns the underlying Attribute.
	Attr() Attribute

	// Adapter returns the TypeAdapter used to convert the resolved native
	// value into a ref.Val.
	Adapter() ref.TypeAdapter

	// AddQualifier proxies Attribute.AddQualifier, possibly mutating the
	// current attribute in place; the returned Attribute should be used in
	// place of the original in any further qualification.
	AddQualifier(Qualifier) (Attribute, error)

	// Qualify proxies Attribute.Qualify.
	Qualify(vars Activation, obj interface{}) (interface{}, error)

	// Resolve proxies Attribute.Resolve.
	Resolve(Activation) (interface{}, error)
}

// InterpretableCall is implemented by nodes that invoke a function or
// operator overload.
type InterpretableCall interface {
	Interpretable

	// Function returns the function name as it appears in the expression,
	// or the mangled operator name from common/operators.
	Function() string

	// OverloadID returns the overload id the call was bound to, or "" if the
	// node dispatches dynamically by function name at Eval time.
	OverloadID() string

	// Args returns the node's operands; for a receiver-style call, arg 0 is
	// the receiver.
	Args() []Interpretable
}

// InterpretableConstructor is implemented by nodes that build a list, map,
// or message from planned sub-expressions.
type InterpretableConstructor interface {
	Interpretable

	// InitVals returns the list elements, interleaved map key/value pairs,
	// or message field values, in plan order.
	InitVals() []Interpretable

	// Type returns the constructed value's runtime type.
	Type() ref.Type
}

// EvalObserver is notified with the id, node, and computed value of every
// decorated sub-expression when Program tracing is enabled (see
// decObserveEval in decorators.go).
type EvalObserver func(id int64, inst Interpretable, val ref.Val)

// NewConstValue creates a constant-valued Interpretable.
func NewConstValue(id int64, val ref.Val) InterpretableConst {
	return &evalConst{id: id, val: val}
}

type evalConst struct {
	id  int64
	val ref.Val
}

func (cons *evalConst) ID() int64 { return cons.id }

func (cons *evalConst) Eval(vars Activation) ref.Val { return cons.val }

func (cons *evalConst) Value() ref.Val { return cons.val }

// evalOr implements short-circuiting disjunction over the arguments of one
// `||` call (spec §4.B), evaluated left to right; the planner does not
// flatten chains, so nested `||` calls are separate evalOr nodes.
type evalOr struct {
	id    int64
	terms []Interpretable
}

func (or *evalOr) ID() int64 { return or.id }

func (or *evalOr) Eval(vars Activation) ref.Val {
	var err ref.Val
	var unk *types.Unknown
	for _, term := range or.terms {
		val := term.Eval(vars)
		if b, ok := val.(types.Bool); ok && b == types.True {
			return types.True
		}
		if u, isUnk := types.MaybeMergeUnknowns(val, unk); isUnk {
			unk = u
		} else if err == nil && !isBool(val) {
			err = noSuchOverloadOrErr(or.id, val)
		}
	}
	if unk != nil {
		return unk
	}
	if err != nil {
		return err
	}
	return types.False
}

// evalAnd mirrors evalOr for `&&` chains.
type evalAnd struct {
	id    int64
	terms []Interpretable
}

func (and *evalAnd) ID() int64 { return and.id }

func (and *evalAnd) Eval(vars Activation) ref.Val {
	var err ref.Val
	var unk *types.Unknown
	for _, term := range and.terms {
		val := term.Eval(vars)
		if b, ok := val.(types.Bool); ok && b == types.False {
			return types.False
		}
		if u, isUnk := types.MaybeMergeUnknowns(val, unk); isUnk {
			unk = u
		} else if err == nil && !isBool(val) {
			err = noSuchOverloadOrErr(and.id, val)
		}
	}
	if unk != nil {
		return unk
	}
	if err != nil {
		return err
	}
	return types.True
}

func isBool(val ref.Val) bool {
	_, ok := val.(types.Bool)
	return ok
}

func noSuchOverloadOrErr(id int64, val ref.Val) ref.Val {
	if types.IsError(val) {
		return val
	}
	return types.NewErr("no such overload: %v", val)
}

// evalEq implements the `==` operator, always well-defined over the value
// domain via the ref.Val Equal method (spec §3).
type evalEq struct {
	id  int64
	lhs Interpretable
	rhs Interpretable
}

func (eq *evalEq) ID() int64 { return eq.id }

func (eq *evalEq) Eval(vars Activation) ref.Val {
	lVal := eq.lhs.Eval(vars)
	rVal := eq.rhs.Eval(vars)
	if types.IsUnknownOrError(lVal) {
		return lVal
	}
	if types.IsUnknownOrError(rVal) {
		return rVal
	}
	return lVal.Equal(rVal)
}

func (*evalEq) Function() string   { return operators.Equals }
func (*evalEq) OverloadID() string { return overloads.Equals }
func (eq *evalEq) Args() []Interpretable {
	return []Interpretable{eq.lhs, eq.rhs}
}

// evalNe implements the `!=` operator as the negation of evalEq.
type evalNe struct {
	id  int64
	lhs Interpretable
	rhs Interpretable
}

func (ne *evalNe) ID() int64 { return ne.id }

func (ne *evalNe) Eval(vars Activation) ref.Val {
	lVal := ne.lhs.Eval(vars)
	rVal := ne.rhs.Eval(vars)
	if types.IsUnknownOrError(lVal) {
		return lVal
	}
	if types.IsUnknownOrError(rVal) {
		return rVal
	}
	eqVal := lVal.Equal(rVal)
	if types.IsUnknownOrError(eqVal) {
		return eqVal
	}
	return types.Bool(eqVal.(types.Bool) != types.True)
}

func (*evalNe) Function() string   { return operators.NotEquals }
func (*evalNe) OverloadID() string { return overloads.NotEquals }
func (ne *evalNe) Args() []Interpretable {
	return []Interpretable{ne.lhs, ne.rhs}
}

// evalZeroArity invokes a nullary function overload, e.g. `now()`.
type evalZeroArity struct {
	id       int64
	function string
	overload string
	impl     functions.FunctionOp
}

func (zero *evalZeroArity) ID() int64 { return zero.id }

func (zero *evalZeroArity) Eval(vars Activation) ref.Val {
	return zero.impl()
}

func (zero *evalZeroArity) Function() string     { return zero.function }
func (zero *evalZeroArity) OverloadID() string   { return zero.overload }
func (zero *evalZeroArity) Args() []Interpretable { return []Interpretable{} }

// evalUnary invokes a one-argument function or operator overload, falling
// back to a traits.Receiver dispatch if no Overload was bound (spec §3.C).
type evalUnary struct {
	id        int64
	function  string
	overload  string
	arg       Interpretable
	trait     int
	impl      functions.UnaryOp
	nonStrict bool
}

func (un *evalUnary) ID() int64 { return un.id }

func (un *evalUnary) Eval(vars Activation) ref.Val {
	argVal := un.arg.Eval(vars)
	strict := !un.nonStrict
	if strict && types.IsUnknownOrError(argVal) {
		return argVal
	}
	if un.impl != nil && (un.trait == 0 || (!strict && types.IsUnknownOrError(argVal)) || argVal.Type().HasTrait(un.trait)) {
		return un.impl(argVal)
	}
	if argVal.Type().HasTrait(traits.ReceiverType) {
		return argVal.(traits.Receiver).Receive(un.function, un.overload, []ref.Val{})
	}
	return types.NewErr("no such overload: %s", un.function)
}

func (un *evalUnary) Function() string   { return un.function }
func (un *evalUnary) OverloadID() string { return un.overload }
func (un *evalUnary) Args() []Interpretable {
	return []Interpretable{un.arg}
}

// evalBinary invokes a two-argument function or operator overload.
type evalBinary struct {
	id        int64
	function  string
	overload  string
	lhs       Interpretable
	rhs       Interpretable
	trait     int
	impl      functions.BinaryOp
	nonStrict bool
}

func (bin *evalBinary) ID() int64 { return bin.id }

func (bin *evalBinary) Eval(vars Activation) ref.Val {
	lVal := bin.lhs.Eval(vars)
	rVal := bin.rhs.Eval(vars)
	strict := !bin.nonStrict
	if strict {
		if types.IsUnknownOrError(lVal) {
			return lVal
		}
		if types.IsUnknownOrError(rVal) {
			return rVal
		}
	}
	if bin.impl != nil && (bin.trait == 0 || (!strict && types.IsUnknownOrError(lVal)) || lVal.Type().HasTrait(bin.trait)) {
		return bin.impl(lVal, rVal)
	}
	if lVal.Type().HasTrait(traits.ReceiverType) {
		return lVal.(traits.Receiver).Receive(bin.function, bin.overload, []ref.Val{rVal})
	}
	return types.NewErr("no such overload: %s", bin.function)
}

func (bin *evalBinary) Function() string   { return bin.function }
func (bin *evalBinary) OverloadID() string { return bin.overload }
func (bin *evalBinary) Args() []Interpretable {
	return []Interpretable{bin.lhs, bin.rhs}
}

// evalVarArgs invokes a function overload of arbitrary arity, including
// receiver-style calls where arg 0 is the receiver.
type evalVarArgs struct {
	id        int64
	function  string
	overload  string
	args      []Interpretable
	trait     int
	impl      functions.FunctionOp
	nonStrict bool
}

// NewCall builds a variable-arity call node directly, bypassing the
// planner's specialization for 0/1/2-ary overloads. Used by callers (e.g.
// macro expansion) that already hold a resolved functions.FunctionOp.
func NewCall(id int64, function, overload string, args []Interpretable, impl functions.FunctionOp) InterpretableCall {
	return &evalVarArgs{id: id, function: function, overload: overload, args: args, impl: impl}
}

func (fn *evalVarArgs) ID() int64 { return fn.id }

func (fn *evalVarArgs) Eval(vars Activation) ref.Val {
	argVals := make([]ref.Val, len(fn.args))
	strict := !fn.nonStrict
	for i, arg := range fn.args {
		argVals[i] = arg.Eval(vars)
		if strict && types.IsUnknownOrError(argVals[i]) {
			return argVals[i]
		}
	}
	arg0 := argVals[0]
	if fn.impl != nil && (fn.trait == 0 || (!strict && types.IsUnknownOrError(arg0)) || arg0.Type().HasTrait(fn.trait)) {
		return fn.impl(argVals...)
	}
	if arg0.Type().HasTrait(traits.ReceiverType) {
		return arg0.(traits.Receiver).Receive(fn.function, fn.overload, argVals[1:])
	}
	return types.NewErr("no such overload: %s", fn.function)
}

func (fn *evalVarArgs) Function() string   { return fn.function }
func (fn *evalVarArgs) OverloadID() string { return fn.overload }
func (fn *evalVarArgs) Args() []Interpretable {
	return fn.args
}

// evalList constructs a list value from its planned elements (spec §1
// CreateList).
type evalList struct {
	id      int64
	elems   []Interpretable
	adapter ref.TypeAdapter
}

func (l *evalList) ID() int64 { return l.id }

func (l *evalList) Eval(vars Activation) ref.Val {
	elemVals := make([]ref.Val, len(l.elems))
	for i, elem := range l.elems {
		elemVal := elem.Eval(vars)
		if types.IsUnknownOrError(elemVal) {
			return elemVal
		}
		elemVals[i] = elemVal
	}
	return l.adapter.NativeToValue(elemVals)
}

func (l *evalList) InitVals() []Interpretable { return l.elems }
func (l *evalList) Type() ref.Type            { return types.ListType }

// evalMap constructs a map value from planned key/value pairs (spec §1
// CreateStruct - map form), preserving the entries' source order (spec §4.H
// "For maps, iterate the key set in insertion order", §5 "insertion order
// for map literals"). A later key overwrites an earlier one's value without
// moving its position, matching native Go map assignment, unless
// errorOnDuplicateKeys is set, in which case a repeated key raises an error
// instead (spec §3 `error_on_duplicate_map_keys`).
type evalMap struct {
	id                   int64
	keys                 []Interpretable
	vals                 []Interpretable
	adapter              ref.TypeAdapter
	errorOnDuplicateKeys bool
}

func (m *evalMap) ID() int64 { return m.id }

func (m *evalMap) Eval(vars Activation) ref.Val {
	orderedKeys := make([]ref.Val, 0, len(m.keys))
	entries := make(map[ref.Val]ref.Val, len(m.keys))
	for i, key := range m.keys {
		keyVal := key.Eval(vars)
		if types.IsUnknownOrError(keyVal) {
			return keyVal
		}
		valVal := m.vals[i].Eval(vars)
		if types.IsUnknownOrError(valVal) {
			return valVal
		}
		if _, found := entries[keyVal]; found {
			if m.errorOnDuplicateKeys {
				return types.NewKindErr(types.ErrorKindDuplicateAttribute, "duplicate map key: %v", keyVal)
			}
		} else {
			orderedKeys = append(orderedKeys, keyVal)
		}
		entries[keyVal] = valVal
	}
	return types.NewInsertOrderedMap(m.adapter, orderedKeys, entries)
}

func (m *evalMap) InitVals() []Interpretable {
	result := make([]Interpretable, 0, len(m.keys)+len(m.vals))
	for i, k := range m.keys {
		result = append(result, k, m.vals[i])
	}
	return result
}

func (m *evalMap) Type() ref.Type { return types.MapType }

// evalObj constructs a message/struct value from planned field initializers
// (spec §1 CreateStruct - message form), delegating to the TypeProvider for
// the field set and zero-value semantics of typeName.
type evalObj struct {
	id       int64
	typeName string
	fields   []string
	vals     []Interpretable
	provider ref.TypeProvider
}

func (o *evalObj) ID() int64 { return o.id }

func (o *evalObj) Eval(vars Activation) ref.Val {
	fieldVals := make(map[string]ref.Val, len(o.fields))
	for i, field := range o.fields {
		val := o.vals[i].Eval(vars)
		if types.IsUnknownOrError(val) {
			return val
		}
		fieldVals[field] = val
	}
	return o.provider.NewValue(o.typeName, fieldVals)
}

func (o *evalObj) InitVals() []Interpretable { return o.vals }
func (o *evalObj) Type() ref.Type {
	return types.NewObjectTypeValue(o.typeName)
}

// varActivation is a single-binding Activation used as the inner scope of an
// evalFold iteration; pooled since comprehensions allocate one per fold
// invocation and the fold loop allocates one per iteration step.
type varActivation struct {
	parent Activation
	name   string
	val    ref.Val
}

func (v *varActivation) Parent() Activation { return v.parent }

func (v *varActivation) ResolveName(name string) (interface{}, bool) {
	if name == v.name {
		return v.val, true
	}
	return nil, false
}

func (v *varActivation) ResolveReference(id int64) (interface{}, bool) {
	return nil, false
}

var varActivationPool = &sync.Pool{
	New: func() interface{} {
		return &varActivation{}
	},
}

// evalFold implements the comprehension macros (all, exists, exists_one,
// map, filter) as a single fold primitive over an iterable range (spec §4.F):
// the accumulator starts at Init, is updated by Step once per element while
// LoopCondition holds, and Result computes the final value from the
// accumulator scope. Non-exhaustive folds terminate the loop as soon as
// LoopCondition evaluates false, matching has()-style short-circuiting.
type evalFold struct {
	id         int64
	accuVar    string
	iterVar    string
	iterRange  Interpretable
	accu       Interpretable
	cond       Interpretable
	step       Interpretable
	result     Interpretable
	adapter    ref.TypeAdapter
	exhaustive bool
}

func (fold *evalFold) ID() int64 { return fold.id }

func (fold *evalFold) Eval(vars Activation) ref.Val {
	foldRange := fold.iterRange.Eval(vars)
	iterable, ok := foldRange.(traits.Iterable)
	if !ok {
		return types.ValOrErr(foldRange, "got '%T', expected iterable type", foldRange)
	}

	accuCtx := varActivationPool.Get().(*varActivation)
	accuCtx.parent = vars
	accuCtx.name = fold.accuVar
	accuCtx.val = fold.accu.Eval(vars)

	iterCtx := varActivationPool.Get().(*varActivation)
	iterCtx.parent = accuCtx
	iterCtx.name = fold.iterVar

	frame := frameOf(vars)

	it := iterable.Iterator()
	for it.HasNext() == types.True {
		if frame != nil {
			if errVal := frame.incrementIteration(); errVal != nil {
				varActivationPool.Put(iterCtx)
				varActivationPool.Put(accuCtx)
				return errVal
			}
		}
		iterCtx.val = it.Next()

		cond := fold.cond.Eval(iterCtx)
		if condBool, ok := cond.(types.Bool); !fold.exhaustive && ok && condBool != types.True {
			break
		}
		accuCtx.val = fold.step.Eval(iterCtx)
	}
	varActivationPool.Put(iterCtx)

	res := fold.result.Eval(accuCtx)
	varActivationPool.Put(accuCtx)
	return res
}

// evalBind implements the reserved lazy-bind comprehension shape (spec
// §4.H step 2: iter_var `#unused`, an empty-list iter_range, and a literal
// `false` loop_condition) that `cel.bind` compiles to. Unlike evalFold's
// general path, which always evaluates accu_init up front, accu_init here is
// wrapped as a lazy supplier: it runs at most once, on the first reference
// to accuVar within result, and never if result never references it (spec
// §4.C "lazy-result cache", §8 "Lazy bind").
type evalBind struct {
	id      int64
	accuVar string
	accu    Interpretable
	result  Interpretable
}

func (b *evalBind) ID() int64 { return b.id }

func (b *evalBind) Eval(vars Activation) ref.Val {
	accu := b.accu
	lazy := func() interface{} { return accu.Eval(vars) }
	scope := NewActivation(map[string]interface{}{b.accuVar: lazy})
	return b.result.Eval(ExtendActivation(vars, scope))
}

// evalBlockList implements the compiler-inserted cel_block_list binding
// form (spec §4.H "cel_block_list form"): each bound sub-expression is
// exposed to body as the lazily-evaluated identifier @index<i> in a pushed
// scope, evaluated at most once no matter how many times body references
// it.
type evalBlockList struct {
	id    int64
	binds []Interpretable
	body  Interpretable
}

func (b *evalBlockList) ID() int64 { return b.id }

func (b *evalBlockList) Eval(vars Activation) ref.Val {
	bindings := make(map[string]interface{}, len(b.binds))
	for i, bind := range b.binds {
		bind := bind
		bindings[fmt.Sprintf("@index%d", i)] = func() interface{} { return bind.Eval(vars) }
	}
	scope := NewActivation(bindings)
	return b.body.Eval(ExtendActivation(vars, scope))
}

// evalOptionalOr implements the optional_or special form (`a.or(b)`, spec
// §4.G): evaluates lhs; if it holds a value, returns it without evaluating
// rhs at all, otherwise evaluates and returns rhs. Both operands must be
// optional-typed.
type evalOptionalOr struct {
	id  int64
	lhs Interpretable
	rhs Interpretable
}

func (o *evalOptionalOr) ID() int64 { return o.id }

func (o *evalOptionalOr) Eval(vars Activation) ref.Val {
	lhsVal := o.lhs.Eval(vars)
	if types.IsUnknownOrError(lhsVal) {
		return lhsVal
	}
	opt, ok := lhsVal.(*types.Optional)
	if !ok {
		return types.NewErr("no such overload: 'or' requires optional_type, got %s", lhsVal.Type().TypeName())
	}
	if opt.HasValue() {
		return opt
	}
	rhsVal := o.rhs.Eval(vars)
	if types.IsUnknownOrError(rhsVal) {
		return rhsVal
	}
	return opt.Receive("or", overloads.OptionalOrOptional, []ref.Val{rhsVal})
}

// evalOptionalOrValue implements the optional_or_value special form
// (`a.orValue(b)`, spec §4.G): evaluates lhs; if it holds a value, returns
// the unwrapped value without evaluating rhs, otherwise evaluates and
// returns rhs directly (rhs need not itself be optional-typed).
type evalOptionalOrValue struct {
	id  int64
	lhs Interpretable
	rhs Interpretable
}

func (o *evalOptionalOrValue) ID() int64 { return o.id }

func (o *evalOptionalOrValue) Eval(vars Activation) ref.Val {
	lhsVal := o.lhs.Eval(vars)
	if types.IsUnknownOrError(lhsVal) {
		return lhsVal
	}
	opt, ok := lhsVal.(*types.Optional)
	if !ok {
		return types.NewErr("no such overload: 'orValue' requires optional_type, got %s", lhsVal.Type().TypeName())
	}
	if opt.HasValue() {
		return opt.GetValue()
	}
	rhsVal := o.rhs.Eval(vars)
	if types.IsUnknownOrError(rhsVal) {
		return rhsVal
	}
	return opt.Receive("orValue", overloads.OptionalOrValue, []ref.Val{rhsVal})
}

// evalOptionalSelect implements the select_optional_field special form
// (`_?._`, spec §4.G): selecting a field that may be absent produces an
// Optional rather than an attribute-not-found error (spec §4.H "Field
// select"). It reuses the same absent-path detection as the has() macro's
// evalTestOnly, but returns the resolved value wrapped in an Optional
// instead of a presence boolean.
type evalOptionalSelect struct {
	id int64
	InterpretableAttribute
}

func (o *evalOptionalSelect) ID() int64 { return o.id }

func (o *evalOptionalSelect) Eval(vars Activation) ref.Val {
	val, err := o.Resolve(vars)
	if err != nil {
		if isAbsentErr(err) {
			return types.OptionalNone
		}
		return types.WrapErr(err)
	}
	if v, isVal := val.(ref.Val); isVal {
		if unk, isUnk := v.(*types.Unknown); isUnk {
			return unk
		}
		return types.OptionalOf(v)
	}
	return types.OptionalOf(o.Adapter().NativeToValue(val))
}

// evalSetMembership is a decOptimize specialization of an `in` operation
// against a list constant with homogeneous primitive elements: membership is
// tested against a precomputed map rather than scanning the list on every
// Eval.
type evalSetMembership struct {
	inst     Interpretable
	arg      Interpretable
	valueSet map[ref.Val]ref.Val
}

func (e *evalSetMembership) ID() int64 { return e.inst.ID() }

func (e *evalSetMembership) Eval(vars Activation) ref.Val {
	val := e.arg.Eval(vars)
	if types.IsUnknownOrError(val) {
		return val
	}
	if ret, found := e.valueSet[val]; found {
		return ret
	}
	return types.False
}

// evalConstEq and evalConstNe are decOptimize specializations of `==`/`!=`
// where one side is an attribute and the other a constant; resolving the
// attribute's value, adapting it to a ref.Val when it is native, and
// comparing it via the ref.Val Equal method avoids reconstructing an
// intermediate evalAttr.
type evalConstEq struct {
	id   int64
	attr Attribute
	val  ref.Val
}

func (c *evalConstEq) ID() int64 { return c.id }

func (c *evalConstEq) Eval(vars Activation) ref.Val {
	out, err := c.attr.Resolve(vars)
	if err != nil {
		return types.WrapErr(err)
	}
	if unk, isUnk := out.(*types.Unknown); isUnk {
		return unk
	}
	lhs, ok := out.(ref.Val)
	if !ok {
		lhs = types.DefaultTypeAdapter.NativeToValue(out)
	}
	return lhs.Equal(c.val)
}

func (*evalConstEq) Function() string   { return operators.Equals }
func (*evalConstEq) OverloadID() string { return overloads.Equals }
func (c *evalConstEq) Args() []Interpretable {
	return []Interpretable{&evalAttr{adapter: types.DefaultTypeAdapter, attr: c.attr}, NewConstValue(c.id, c.val)}
}

type evalConstNe struct {
	id   int64
	attr Attribute
	val  ref.Val
}

func (c *evalConstNe) ID() int64 { return c.id }

func (c *evalConstNe) Eval(vars Activation) ref.Val {
	out, err := c.attr.Resolve(vars)
	if err != nil {
		return types.WrapErr(err)
	}
	if unk, isUnk := out.(*types.Unknown); isUnk {
		return unk
	}
	lhs, ok := out.(ref.Val)
	if !ok {
		lhs = types.DefaultTypeAdapter.NativeToValue(out)
	}
	eqVal := lhs.Equal(c.val)
	if types.IsUnknownOrError(eqVal) {
		return eqVal
	}
	return types.Bool(eqVal.(types.Bool) != types.True)
}

func (*evalConstNe) Function() string   { return operators.NotEquals }
func (*evalConstNe) OverloadID() string { return overloads.NotEquals }
func (c *evalConstNe) Args() []Interpretable {
	return []Interpretable{&evalAttr{adapter: types.DefaultTypeAdapter, attr: c.attr}, NewConstValue(c.id, c.val)}
}

// evalAttr is an Interpretable whose Eval resolves an Attribute through the
// current Activation and adapts the result to a ref.Val.
type evalAttr struct {
	adapter ref.TypeAdapter
	attr    Attribute
}

var _ InterpretableAttribute = &evalAttr{}

func (a *evalAttr) ID() int64 { return a.attr.ID() }

func (a *evalAttr) AddQualifier(qual Qualifier) (Attribute, error) {
	attr, err := a.attr.AddQualifier(qual)
	a.attr = attr
	return attr, err
}

func (a *evalAttr) Attr() Attribute { return a.attr }

func (a *evalAttr) Adapter() ref.TypeAdapter { return a.adapter }

func (a *evalAttr) Eval(vars Activation) ref.Val {
	v, err := a.attr.Resolve(vars)
	if err != nil {
		return types.WrapErr(err)
	}
	if val, isVal := v.(ref.Val); isVal {
		return val
	}
	return a.adapter.NativeToValue(v)
}

func (a *evalAttr) Qualify(vars Activation, obj interface{}) (interface{}, error) {
	return a.attr.Qualify(vars, obj)
}

func (a *evalAttr) Resolve(vars Activation) (interface{}, error) {
	return a.attr.Resolve(vars)
}

// evalTestOnly wraps an InterpretableAttribute whose final qualifier is
// forced to a presence-only test, implementing the has() macro (spec §4.E):
// the result is a Bool reporting whether the qualified path is set, never
// the field's value.
type evalTestOnly struct {
	id int64
	InterpretableAttribute
}

func (test *evalTestOnly) ID() int64 { return test.id }

func (test *evalTestOnly) Eval(vars Activation) ref.Val {
	val, err := test.Resolve(vars)
	if err != nil {
		return types.WrapErr(err)
	}
	if unk, isUnk := val.(*types.Unknown); isUnk {
		return unk
	}
	return test.Adapter().NativeToValue(val)
}

func (test *evalTestOnly) AddQualifier(q Qualifier) (Attribute, error) {
	cq, ok := q.(ConstantQualifier)
	if !ok {
		return nil, fmt.Errorf("test-only expressions must have constant qualifiers: %v", q)
	}
	return test.InterpretableAttribute.AddQualifier(&testOnlyQualifier{ConstantQualifier: cq})
}

// ConstantQualifier is implemented by Qualifier values whose Qualify input
// is known at plan time (string/int/uint/bool field and index qualifiers),
// letting evalTestOnly force a presence-only test without knowing the
// concrete qualifier type.
type ConstantQualifier interface {
	Qualifier
	qualifierValueEquator
}

// testOnlyQualifier wraps the final qualifier of a has() path so that a
// missing key/field/index resolves to the boolean false rather than an
// error; any other error, or an Unknown carried in from an earlier
// qualifier, still propagates (spec §4.E).
type testOnlyQualifier struct {
	ConstantQualifier
}

func (q *testOnlyQualifier) Qualify(vars Activation, obj interface{}) (interface{}, error) {
	out, err := q.ConstantQualifier.Qualify(vars, obj)
	if err != nil {
		if isAbsentErr(err) {
			return false, nil
		}
		return nil, err
	}
	if unk, isUnk := out.(*types.Unknown); isUnk {
		return unk, nil
	}
	return true, nil
}

// isAbsentErr reports whether err is one of the "missing key/attribute/index"
// errors a Qualifier.Qualify produces for an absent path (see attributes.go),
// as opposed to an unrelated failure that has() should still surface.
func isAbsentErr(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "no such key:") ||
		strings.HasPrefix(msg, "no such attribute:") ||
		strings.HasPrefix(msg, "index out of bounds:")
}

// evalExhaustiveOr is decDisableShortcircuits's replacement for evalOr: every
// term is evaluated regardless of an earlier true/error/unknown result,
// useful for tracing and for partial evaluation modes where every branch's
// Unknown references matter (spec §4.D).
type evalExhaustiveOr struct {
	id    int64
	terms []Interpretable
}

func (or *evalExhaustiveOr) ID() int64 { return or.id }

func (or *evalExhaustiveOr) Eval(vars Activation) ref.Val {
	var err ref.Val
	var unk *types.Unknown
	isTrue := false
	for _, term := range or.terms {
		val := term.Eval(vars)
		if b, ok := val.(types.Bool); ok && b == types.True {
			isTrue = true
		}
		if !isBool(val) {
			if u, isUnk := types.MaybeMergeUnknowns(val, unk); isUnk {
				unk = u
			} else if err == nil {
				err = noSuchOverloadOrErr(or.id, val)
			}
		}
	}
	if isTrue {
		return types.True
	}
	if unk != nil {
		return unk
	}
	if err != nil {
		return err
	}
	return types.False
}

// evalExhaustiveAnd mirrors evalExhaustiveOr for `&&`.
type evalExhaustiveAnd struct {
	id    int64
	terms []Interpretable
}

func (and *evalExhaustiveAnd) ID() int64 { return and.id }

func (and *evalExhaustiveAnd) Eval(vars Activation) ref.Val {
	var err ref.Val
	var unk *types.Unknown
	isFalse := false
	for _, term := range and.terms {
		val := term.Eval(vars)
		if b, ok := val.(types.Bool); ok && b == types.False {
			isFalse = true
		}
		if !isBool(val) {
			if u, isUnk := types.MaybeMergeUnknowns(val, unk); isUnk {
				unk = u
			} else if err == nil {
				err = noSuchOverloadOrErr(and.id, val)
			}
		}
	}
	if isFalse {
		return types.False
	}
	if unk != nil {
		return unk
	}
	if err != nil {
		return err
	}
	return types.True
}

// evalConditional implements the non-exhaustive `c ? t : f` ternary: only
// the taken branch's Attribute is resolved (spec §4.C).
type evalConditional struct {
	id      int64
	adapter ref.TypeAdapter
	expr    Interpretable
	truthy  Attribute
	falsy   Attribute
}

var _ InterpretableAttribute = &evalConditional{}

func (cond *evalConditional) ID() int64 { return cond.id }

func (cond *evalConditional) Eval(vars Activation) ref.Val {
	out, err := cond.Resolve(vars)
	if err != nil {
		return types.WrapErr(err)
	}
	if val, isVal := out.(ref.Val); isVal {
		return val
	}
	return cond.adapter.NativeToValue(out)
}

func (cond *evalConditional) Attr() Attribute { return cond }

func (cond *evalConditional) Adapter() ref.TypeAdapter { return cond.adapter }

func (cond *evalConditional) branch(vars Activation) (Attribute, error) {
	cVal := cond.expr.Eval(vars)
	cBool, ok := cVal.(types.Bool)
	if !ok {
		return nil, fmt.Errorf("no such overload: %v", cVal)
	}
	if cBool {
		return cond.truthy, nil
	}
	return cond.falsy, nil
}

func (cond *evalConditional) Resolve(vars Activation) (interface{}, error) {
	branch, err := cond.branch(vars)
	if err != nil {
		return nil, err
	}
	return branch.Resolve(vars)
}

func (cond *evalConditional) Qualify(vars Activation, obj interface{}) (interface{}, error) {
	branch, err := cond.branch(vars)
	if err != nil {
		return nil, err
	}
	return branch.Qualify(vars, obj)
}

func (cond *evalConditional) AddQualifier(q Qualifier) (Attribute, error) {
	if _, err := cond.truthy.AddQualifier(q); err != nil {
		return nil, err
	}
	if _, err := cond.falsy.AddQualifier(q); err != nil {
		return nil, err
	}
	return cond, nil
}

// evalExhaustiveConditional is decDisableShortcircuits's replacement for
// evalConditional: both branches are always resolved.
type evalExhaustiveConditional struct {
	id      int64
	adapter ref.TypeAdapter
	expr    Interpretable
	truthy  Attribute
	falsy   Attribute
}

func (cond *evalExhaustiveConditional) ID() int64 { return cond.id }

func (cond *evalExhaustiveConditional) Eval(vars Activation) ref.Val {
	cVal := cond.expr.Eval(vars)
	tVal, tErr := cond.truthy.Resolve(vars)
	fVal, fErr := cond.falsy.Resolve(vars)
	cBool, ok := cVal.(types.Bool)
	if !ok {
		return types.ValOrErr(cVal, "no such overload")
	}
	if cBool {
		if tErr != nil {
			return types.WrapErr(tErr)
		}
		return cond.adapter.NativeToValue(tVal)
	}
	if fErr != nil {
		return types.WrapErr(fErr)
	}
	return cond.adapter.NativeToValue(fVal)
}

// evalExhaustiveFold is decDisableShortcircuits's replacement for evalFold:
// LoopCondition never ends the loop early.
type evalExhaustiveFold struct {
	*evalFold
}

// evalWatch wraps an Interpretable so that its computed value is reported to
// an EvalObserver, used to implement Program tracing (spec §6).
type evalWatch struct {
	Interpretable
	observer EvalObserver
}

func (e *evalWatch) Eval(vars Activation) ref.Val {
	val := e.Interpretable.Eval(vars)
	e.observer(e.ID(), e.Interpretable, val)
	return val
}

// evalWatchAttr is evalWatch's counterpart for InterpretableAttribute nodes:
// it must keep satisfying InterpretableAttribute so that a later select or
// index plan step can still qualify it.
type evalWatchAttr struct {
	InterpretableAttribute
	observer EvalObserver
}

var _ InterpretableAttribute = &evalWatchAttr{}

func (e *evalWatchAttr) AddQualifier(q Qualifier) (Attribute, error) {
	switch qual := q.(type) {
	case ConstantQualifier:
		q = &evalWatchConstQual{ConstantQualifier: qual, observer: e.observer, adapter: e.Adapter()}
	case Attribute:
		q = &evalWatchAttrQual{Attribute: qual, observer: e.observer, adapter: e.Adapter()}
	default:
		q = &evalWatchQual{Qualifier: qual, observer: e.observer, adapter: e.Adapter()}
	}
	return e.InterpretableAttribute.AddQualifier(q)
}

func (e *evalWatchAttr) Eval(vars Activation) ref.Val {
	val := e.InterpretableAttribute.Eval(vars)
	e.observer(e.ID(), e.InterpretableAttribute, val)
	return val
}

// evalWatchConstQual observes the qualification of an object by a constant
// boolean, int, string, or uint qualifier.
type evalWatchConstQual struct {
	ConstantQualifier
	observer EvalObserver
	adapter  ref.TypeAdapter
}

func (e *evalWatchConstQual) Qualify(vars Activation, obj interface{}) (interface{}, error) {
	out, err := e.ConstantQualifier.Qualify(vars, obj)
	e.report(out, err)
	return out, err
}

func (e *evalWatchConstQual) report(out interface{}, err error) {
	var val ref.Val
	if err != nil {
		val = types.WrapErr(err)
	} else {
		val = e.adapter.NativeToValue(out)
	}
	e.observer(e.ID(), nil, val)
}

// evalWatchAttrQual observes the qualification of an object by a value
// computed at runtime from a nested Attribute.
type evalWatchAttrQual struct {
	Attribute
	observer EvalObserver
	adapter  ref.TypeAdapter
}

func (e *evalWatchAttrQual) Qualify(vars Activation, obj interface{}) (interface{}, error) {
	out, err := e.Attribute.Qualify(vars, obj)
	e.report(out, err)
	return out, err
}

func (e *evalWatchAttrQual) report(out interface{}, err error) {
	var val ref.Val
	if err != nil {
		val = types.WrapErr(err)
	} else {
		val = e.adapter.NativeToValue(out)
	}
	e.observer(e.ID(), nil, val)
}

// evalWatchQual observes the qualification of an object by a custom
// Qualifier implementation.
type evalWatchQual struct {
	Qualifier
	observer EvalObserver
	adapter  ref.TypeAdapter
}

func (e *evalWatchQual) Qualify(vars Activation, obj interface{}) (interface{}, error) {
	out, err := e.Qualifier.Qualify(vars, obj)
	var val ref.Val
	if err != nil {
		val = types.WrapErr(err)
	} else {
		val = e.adapter.NativeToValue(out)
	}
	e.observer(e.ID(), nil, val)
	return out, err
}

// evalWatchConst observes the value of a constant node.
type evalWatchConst struct {
	InterpretableConst
	observer EvalObserver
}

func (e *evalWatchConst) Eval(vars Activation) ref.Val {
	val := e.Value()
	e.observer(e.ID(), e.InterpretableConst, val)
	return val
}

// evalWatchConstructor observes the value of a list, map, or message
// construction node.
type evalWatchConstructor struct {
	constructor InterpretableConstructor
	observer    EvalObserver
}

func (c *evalWatchConstructor) InitVals() []Interpretable { return c.constructor.InitVals() }
func (c *evalWatchConstructor) Type() ref.Type            { return c.constructor.Type() }
func (c *evalWatchConstructor) ID() int64                 { return c.constructor.ID() }

func (c *evalWatchConstructor) Eval(vars Activation) ref.Val {
	val := c.constructor.Eval(vars)
	c.observer(c.ID(), c.constructor, val)
	return val
}
