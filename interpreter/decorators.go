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
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nimbuspolicy/celrt/common/overloads"
	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

// InterpretableDecorator is a functional interface for decorating or replacing
// Interpretable expression nodes at plan time.
type InterpretableDecorator func(Interpretable) (Interpretable, error)

// decObserveEval wraps every planned node so that its computed value is
// reported to observer, used by Program tracing (spec §6).
func decObserveEval(observer EvalObserver) InterpretableDecorator {
	return func(i Interpretable) (Interpretable, error) {
		switch inst := i.(type) {
		case InterpretableConst:
			return &evalWatchConst{InterpretableConst: inst, observer: observer}, nil
		case InterpretableAttribute:
			return &evalWatchAttr{InterpretableAttribute: inst, observer: observer}, nil
		case InterpretableConstructor:
			return &evalWatchConstructor{constructor: inst, observer: observer}, nil
		}
		return &evalWatch{Interpretable: i, observer: observer}, nil
	}
}

// decDisableShortcircuits ensures that every branch of an or/and/conditional
// and every step of a fold is evaluated, with no short-circuiting. Used for
// tracing and for partial-evaluation modes where every Unknown reference
// along a not-taken branch still needs to surface (spec §4.D).
func decDisableShortcircuits() InterpretableDecorator {
	return func(i Interpretable) (Interpretable, error) {
		switch inst := i.(type) {
		case *evalOr:
			return &evalExhaustiveOr{id: inst.id, terms: inst.terms}, nil
		case *evalAnd:
			return &evalExhaustiveAnd{id: inst.id, terms: inst.terms}, nil
		case *evalConditional:
			return &evalExhaustiveConditional{
				id:      inst.id,
				adapter: inst.adapter,
				expr:    inst.expr,
				truthy:  inst.truthy,
				falsy:   inst.falsy,
			}, nil
		case *evalFold:
			exhaustive := *inst
			exhaustive.exhaustive = true
			return &evalExhaustiveFold{evalFold: &exhaustive}, nil
		}
		return i, nil
	}
}

// decOptimize looks for common evaluation patterns at plan time and
// precomputes or specializes them:
//   - constant list/map literals fold to a single evalConst.
//   - equality/inequality between an attribute and a constant specializes to
//     evalConstEq/evalConstNe.
//   - `in` against a constant list of homogeneous primitives specializes to
//     a map-backed set membership test.
func decOptimize() InterpretableDecorator {
	return func(i Interpretable) (Interpretable, error) {
		switch inst := i.(type) {
		case *evalEq:
			return maybeConstEq(i, inst)
		case *evalNe:
			return maybeConstNe(i, inst)
		case *evalList:
			return maybeBuildListLiteral(i, inst)
		case *evalMap:
			return maybeBuildMapLiteral(i, inst)
		case *evalBinary:
			if inst.overload == overloads.In {
				return maybeOptimizeSetMembership(i, inst)
			}
		}
		return i, nil
	}
}

// maybeConstEq specializes `==` when one side is an attribute and the
// other a constant: resolving the attribute's native value directly and
// comparing avoids reconstructing an intermediate evalAttr on every Eval.
func maybeConstEq(i Interpretable, eq *evalEq) (Interpretable, error) {
	if lhsAttr, ok := eq.lhs.(*evalAttr); ok {
		if rhsConst, ok := eq.rhs.(*evalConst); ok {
			return &evalConstEq{id: eq.id, attr: lhsAttr.attr, val: rhsConst.val}, nil
		}
	}
	if rhsAttr, ok := eq.rhs.(*evalAttr); ok {
		if lhsConst, ok := eq.lhs.(*evalConst); ok {
			return &evalConstEq{id: eq.id, attr: rhsAttr.attr, val: lhsConst.val}, nil
		}
	}
	return i, nil
}

// maybeConstNe mirrors maybeConstEq for `!=`.
func maybeConstNe(i Interpretable, ne *evalNe) (Interpretable, error) {
	if lhsAttr, ok := ne.lhs.(*evalAttr); ok {
		if rhsConst, ok := ne.rhs.(*evalConst); ok {
			return &evalConstNe{id: ne.id, attr: lhsAttr.attr, val: rhsConst.val}, nil
		}
	}
	if rhsAttr, ok := ne.rhs.(*evalAttr); ok {
		if lhsConst, ok := ne.lhs.(*evalConst); ok {
			return &evalConstNe{id: ne.id, attr: rhsAttr.attr, val: lhsConst.val}, nil
		}
	}
	return i, nil
}

func maybeBuildListLiteral(i Interpretable, l *evalList) (Interpretable, error) {
	for _, elem := range l.elems {
		if _, isConst := elem.(*evalConst); !isConst {
			return i, nil
		}
	}
	val := l.Eval(EmptyActivation())
	return &evalConst{id: l.id, val: val}, nil
}

func maybeBuildMapLiteral(i Interpretable, mp *evalMap) (Interpretable, error) {
	for idx, key := range mp.keys {
		if _, isConst := key.(*evalConst); !isConst {
			return i, nil
		}
		if _, isConst := mp.vals[idx].(*evalConst); !isConst {
			return i, nil
		}
	}
	val := mp.Eval(EmptyActivation())
	return &evalConst{id: mp.id, val: val}, nil
}

// maybeOptimizeSetMembership converts `x in [a, b, c]` to a map-backed set
// membership test when the right operand is a constant list of homogeneous
// primitive-type elements; non-primitive elements (lists, maps, messages)
// are left to the ordinary `in` overload since their equality is more than a
// Go map key comparison can express.
func maybeOptimizeSetMembership(i Interpretable, inlist *evalBinary) (Interpretable, error) {
	l, isConst := inlist.rhs.(*evalConst)
	if !isConst {
		return i, nil
	}
	list, isList := l.val.(traits.Lister)
	if !isList {
		return i, nil
	}
	if list.Size() == types.IntZero {
		return &evalConst{id: inlist.id, val: types.False}, nil
	}
	it := list.Iterator()
	var typ ref.Type
	valueSet := make(map[ref.Val]ref.Val)
	for it.HasNext() == types.True {
		elem := it.Next()
		if !isPrimitive(elem) {
			return i, nil
		}
		if typ == nil {
			typ = elem.Type()
		} else if typ.TypeName() != elem.Type().TypeName() {
			return i, nil
		}
		valueSet[elem] = types.True
	}
	return &evalSetMembership{inst: inlist, arg: inlist.lhs, valueSet: valueSet}, nil
}

// decUnwrapWellKnownTypesOnDispatch implements unwrap_well_known_types_on_
// dispatch (spec §3): after a function or operator dispatch, a result whose
// native value is one of the protobuf well-known wrapper messages
// (Int32Value, Int64Value, UInt32Value, UInt64Value, FloatValue,
// DoubleValue, BoolValue, StringValue, BytesValue) is adapted back to the
// CEL primitive it wraps instead of surfacing as a one-field message.
func decUnwrapWellKnownTypesOnDispatch(adapter ref.TypeAdapter) InterpretableDecorator {
	return func(i Interpretable) (Interpretable, error) {
		if call, ok := i.(InterpretableCall); ok {
			return &evalUnwrapDispatch{InterpretableCall: call, adapter: adapter}, nil
		}
		return i, nil
	}
}

// evalUnwrapDispatch wraps an InterpretableCall to apply
// unwrapWellKnownType to its result.
type evalUnwrapDispatch struct {
	InterpretableCall
	adapter ref.TypeAdapter
}

func (u *evalUnwrapDispatch) Eval(vars Activation) ref.Val {
	val := u.InterpretableCall.Eval(vars)
	return unwrapWellKnownType(u.adapter, val)
}

// unwrapWellKnownType adapts a protobuf well-known wrapper message value
// back to the CEL primitive it carries, leaving every other value
// untouched.
func unwrapWellKnownType(adapter ref.TypeAdapter, val ref.Val) ref.Val {
	switch w := val.Value().(type) {
	case *wrapperspb.BoolValue:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.BytesValue:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.DoubleValue:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.FloatValue:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.Int32Value:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.Int64Value:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.StringValue:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.UInt32Value:
		return types.NativeToValue(adapter, w.GetValue())
	case *wrapperspb.UInt64Value:
		return types.NativeToValue(adapter, w.GetValue())
	}
	return val
}

// isPrimitive reports whether val is one of CEL's scalar value kinds, the
// only kinds maybeOptimizeSetMembership can key a Go map on.
func isPrimitive(val ref.Val) bool {
	switch val.(type) {
	case types.Bool, types.Int, types.Uint, types.Double, types.String, types.Bytes, types.Null:
		return true
	}
	return false
}
