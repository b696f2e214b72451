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

package functions

import (
	"math"
	"strings"

	"github.com/nimbuspolicy/celrt/common/operators"
	"github.com/nimbuspolicy/celrt/common/overloads"
	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

// StandardOverloads returns the Overload set backing every builtin operator
// and global/receiver-style function the interpreter supports out of the
// box (spec §4.E "Standard function library"). heterogeneousNumericComparisons
// is read at call time by the ordering overloads (Less/LessEquals/Greater/
// GreaterEquals), and errorOnIntWrap by the int64/uint64 arithmetic overloads,
// so flipping either pointee after the Dispatcher is built
// (EnableHeterogeneousNumericComparisons/ErrorOnIntWrap are ProgramOptions
// applied before NewProgram plans the expression) still takes effect for
// every matching call in the program.
func StandardOverloads(heterogeneousNumericComparisons, errorOnIntWrap *bool) []*Overload {
	overloadSet := []*Overload{
		// Arithmetic. One overload per operator, trait-gated so the concrete
		// operand (string, bytes, list, duration, or the numeric types) picks
		// its own semantics. Numeric overflow on int64/uint64 operands is
		// reported as an error unless error_on_int_wrap is off (spec §3), in
		// which case it wraps silently instead; Duration/Timestamp arithmetic
		// always errors on overflow regardless of the option (spec §4.E).
		{
			Operator:     operators.Add,
			OperandTrait: traits.AdderType,
			Binary: func(lhs, rhs ref.Val) ref.Val {
				if !*errorOnIntWrap {
					if li, ok := lhs.(types.Int); ok {
						if ri, ok := rhs.(types.Int); ok {
							return li.AddWrapping(ri)
						}
					}
					if lu, ok := lhs.(types.Uint); ok {
						if ru, ok := rhs.(types.Uint); ok {
							return lu.AddWrapping(ru)
						}
					}
				}
				return lhs.(traits.Adder).Add(rhs)
			},
		},
		{
			Operator:     operators.Subtract,
			OperandTrait: traits.SubtractorType,
			Binary: func(lhs, rhs ref.Val) ref.Val {
				if !*errorOnIntWrap {
					if li, ok := lhs.(types.Int); ok {
						if ri, ok := rhs.(types.Int); ok {
							return li.SubtractWrapping(ri)
						}
					}
					if lu, ok := lhs.(types.Uint); ok {
						if ru, ok := rhs.(types.Uint); ok {
							return lu.SubtractWrapping(ru)
						}
					}
				}
				return lhs.(traits.Subtractor).Subtract(rhs)
			},
		},
		{
			Operator:     operators.Multiply,
			OperandTrait: traits.MultiplierType,
			Binary: func(lhs, rhs ref.Val) ref.Val {
				if !*errorOnIntWrap {
					if li, ok := lhs.(types.Int); ok {
						if ri, ok := rhs.(types.Int); ok {
							return li.MultiplyWrapping(ri)
						}
					}
					if lu, ok := lhs.(types.Uint); ok {
						if ru, ok := rhs.(types.Uint); ok {
							return lu.MultiplyWrapping(ru)
						}
					}
				}
				return lhs.(traits.Multiplier).Multiply(rhs)
			},
		},
		{
			Operator:     operators.Divide,
			OperandTrait: traits.DividerType,
			Binary: func(lhs, rhs ref.Val) ref.Val {
				if !*errorOnIntWrap {
					if li, ok := lhs.(types.Int); ok {
						if ri, ok := rhs.(types.Int); ok {
							return li.DivideWrapping(ri)
						}
					}
				}
				return lhs.(traits.Divider).Divide(rhs)
			},
		},
		{
			Operator:     operators.Modulo,
			OperandTrait: traits.ModderType,
			Binary: func(lhs, rhs ref.Val) ref.Val {
				if !*errorOnIntWrap {
					if li, ok := lhs.(types.Int); ok {
						if ri, ok := rhs.(types.Int); ok {
							return li.ModuloWrapping(ri)
						}
					}
				}
				return lhs.(traits.Modder).Modulo(rhs)
			},
		},
		{
			Operator:     operators.Negate,
			OperandTrait: traits.NegatorType,
			Unary: func(val ref.Val) ref.Val {
				if !*errorOnIntWrap {
					if i, ok := val.(types.Int); ok {
						return i.NegateWrapping()
					}
				}
				return val.(traits.Negator).Negate()
			},
		},

		// Ordering. Equals/NotEquals are planned directly from ref.Val.Equal
		// (see planner.go's evalEq/evalNe) and never reach the Dispatcher.
		{
			Operator:     operators.Less,
			OperandTrait: traits.ComparerType,
			Binary:       comparisonOp(heterogeneousNumericComparisons, types.IntNegOne),
		},
		{
			Operator:     operators.LessEquals,
			OperandTrait: traits.ComparerType,
			Binary:       comparisonOp(heterogeneousNumericComparisons, types.IntNegOne, types.IntZero),
		},
		{
			Operator:     operators.Greater,
			OperandTrait: traits.ComparerType,
			Binary:       comparisonOp(heterogeneousNumericComparisons, types.IntOne),
		},
		{
			Operator:     operators.GreaterEquals,
			OperandTrait: traits.ComparerType,
			Binary:       comparisonOp(heterogeneousNumericComparisons, types.IntOne, types.IntZero),
		},

		// @not_strictly_false(x): used as a comprehension's LoopCondition
		// (spec §4.C "all"/"exists"/"exists_one"); true unless x is the
		// concrete value false, so an error/unknown accumulator never stops
		// the loop early — it surfaces once the fold actually combines it.
		{
			Operator:  operators.NotStrictlyFalse,
			NonStrict: true,
			Unary: func(val ref.Val) ref.Val {
				return types.Bool(val != types.False)
			},
		},

		// in: `x in y`, true if container y holds value x. Unlike the
		// arithmetic/ordering overloads, the type that decides dispatch is
		// the *second* argument, so this is registered as the sole
		// OperandTrait-0 overload for the name and type-switches internally.
		{
			Operator: operators.In,
			Binary: func(lhs, rhs ref.Val) ref.Val {
				container, ok := rhs.(traits.Container)
				if !ok {
					return types.NewErr("no such overload: 'in' requires a list or map, got %s", rhs.Type().TypeName())
				}
				return container.Contains(lhs)
			},
		},

		// size(): string rune count, bytes length, list/map element count.
		{
			Operator:     "size",
			OperandTrait: traits.SizerType,
			Unary: func(val ref.Val) ref.Val {
				return val.(traits.Sizer).Size()
			},
		},

		// matches(): RE2 regular-expression search, string-typed only.
		{
			Operator:     overloads.Matches,
			OperandTrait: traits.MatcherType,
			Binary: func(lhs, rhs ref.Val) ref.Val {
				return lhs.(traits.Matcher).Match(rhs)
			},
		},

		// String substring tests; no dedicated trait, so these gate directly
		// on the concrete String type.
		{
			Operator: "contains",
			Binary:   stringPredicate(strings.Contains),
		},
		{
			Operator: "startsWith",
			Binary:   stringPredicate(strings.HasPrefix),
		},
		{
			Operator: "endsWith",
			Binary:   stringPredicate(strings.HasSuffix),
		},

		// type(x): the runtime Type of any value.
		{
			Operator: overloads.TypeOf,
			Unary: func(val ref.Val) ref.Val {
				return val.Type()
			},
		},

		// dyn(x): identity; dyn exists for checker-time typing only, and
		// this tree has no checker, so it never needs to alter the value.
		{
			Operator: "dyn",
			Unary: func(val ref.Val) ref.Val {
				return val
			},
		},
	}
	overloadSet = append(overloadSet, conversionOverloads()...)
	overloadSet = append(overloadSet, timeAccessorOverloads()...)
	return overloadSet
}

// comparisonOp builds the Binary overload shared by <, <=, >, >=: it calls
// the operands' Compare method and reports true if the resulting Int(-1/0/1)
// is one of wantCmp, except that a cross-type numeric comparison (int vs
// uint vs double) is refused unless heterogeneousNumericComparisons is set
// — Compare itself performs the numeric coercion unconditionally, so the
// gate has to run before Compare is ever called (spec §4.F, §9
// "enable_heterogeneous_numeric_comparisons").
func comparisonOp(heterogeneousNumericComparisons *bool, wantCmp ...types.Int) BinaryOp {
	return func(lhs, rhs ref.Val) ref.Val {
		lk, lNumeric := numericKind(lhs)
		rk, rNumeric := numericKind(rhs)
		if lNumeric && rNumeric && lk != rk && !*heterogeneousNumericComparisons {
			return types.NewErr("no such overload: heterogeneous numeric comparison requires enable_heterogeneous_numeric_comparisons")
		}
		if lNumeric && rNumeric {
			// Every ordering comparison involving NaN is false.
			if ld, isDouble := lhs.(types.Double); isDouble && math.IsNaN(float64(ld)) {
				return types.False
			}
			if rd, isDouble := rhs.(types.Double); isDouble && math.IsNaN(float64(rd)) {
				return types.False
			}
		}
		comparer, ok := lhs.(traits.Comparer)
		if !ok {
			return types.NewErr("no such overload: %s not comparable", lhs.Type().TypeName())
		}
		cmp := comparer.Compare(rhs)
		result, ok := cmp.(types.Int)
		if !ok {
			return cmp
		}
		for _, want := range wantCmp {
			if result == want {
				return types.True
			}
		}
		return types.False
	}
}

// numericKind distinguishes the three numeric runtime types so comparisonOp
// can tell a same-type comparison (always permitted) from a cross-type one
// (gated).
func numericKind(val ref.Val) (int, bool) {
	switch val.(type) {
	case types.Int:
		return 1, true
	case types.Uint:
		return 2, true
	case types.Double:
		return 3, true
	}
	return 0, false
}

// stringPredicate adapts a strings.XxxFunc into a Binary overload over two
// CEL String operands.
func stringPredicate(pred func(s, substr string) bool) BinaryOp {
	return func(lhs, rhs ref.Val) ref.Val {
		s, ok := lhs.(types.String)
		if !ok {
			return types.NewErr("no such overload: expected string, got %s", lhs.Type().TypeName())
		}
		sub, ok := rhs.(types.String)
		if !ok {
			return types.NewErr("no such overload: expected string, got %s", rhs.Type().TypeName())
		}
		return types.Bool(pred(string(s), string(sub)))
	}
}

// conversionOverloads registers the explicit type-conversion functions
// (spec §4.E). Each delegates to the argument value's own ConvertToType,
// which knows how to parse/coerce that value into every target type it
// supports and returns a type-conversion error for targets it doesn't.
func conversionOverloads() []*Overload {
	targets := []struct {
		name   string
		target ref.Type
	}{
		{"int", types.IntType},
		{"uint", types.UintType},
		{"double", types.DoubleType},
		{"string", types.StringType},
		{"bytes", types.BytesType},
		{"bool", types.BoolType},
		{"timestamp", types.TimestampType},
		{"duration", types.DurationType},
	}
	result := make([]*Overload, 0, len(targets))
	for _, t := range targets {
		target := t.target
		result = append(result, &Overload{
			Operator: t.name,
			Unary: func(val ref.Val) ref.Val {
				return val.ConvertToType(target)
			},
		})
	}
	return result
}

// timeAccessorOverloads registers the getFullYear/getMonth/.../getMilliseconds
// receiver-style methods on timestamp and duration (spec §4.E "Timestamp and
// duration accessors"). Timestamp.Receive/Duration.Receive are keyed by the
// common/overloads ids, not the raw method name a caller writes in an
// expression (e.g. "getFullYear"), so these overloads translate from the one
// to the other rather than relying on the generic traits.Receiver fallback
// in interpretable.go, which would never find a match. Each accessor is
// registered once under OperandTrait=ReceiverType with both a Unary (no
// timezone argument) and Binary (explicit timezone) implementation; which
// one is invoked depends on how many arguments the call was written with
// (see planner.go's planCall arity switch), not on anything the Overload
// itself decides.
func timeAccessorOverloads() []*Overload {
	dateAccessors := []struct {
		name string
		key  string
	}{
		{"getFullYear", overloads.TimestampToYear},
		{"getMonth", overloads.TimestampToMonth},
		{"getDayOfYear", overloads.TimestampToDayOfYear},
		{"getDate", overloads.TimestampToDayOfMonth},
		{"getDayOfMonth", overloads.TimestampToDayOfMonth},
		{"getDayOfWeek", overloads.TimestampToDayOfWeek},
	}
	result := make([]*Overload, 0, len(dateAccessors)+4)
	for _, a := range dateAccessors {
		key := a.key
		result = append(result, &Overload{
			Operator:     a.name,
			OperandTrait: traits.ReceiverType,
			Unary:        receive1(key),
			Binary:       receiveTz(key),
		})
	}

	// getHours/getMinutes/getSeconds/getMilliseconds are shared between
	// timestamp (which also accepts a timezone argument) and duration
	// (which never does); the unary form has to know which concrete type it
	// was called on to pick the matching overloads.* key.
	dualAccessors := []struct {
		name   string
		tsKey  string
		durKey string
	}{
		{"getHours", overloads.TimestampToHours, overloads.DurationToHours},
		{"getMinutes", overloads.TimestampToMinutes, overloads.DurationToMinutes},
		{"getSeconds", overloads.TimestampToSeconds, overloads.DurationToSeconds},
		{"getMilliseconds", overloads.TimestampToMilliseconds, overloads.DurationToMilliseconds},
	}
	for _, a := range dualAccessors {
		name, tsKey, durKey := a.name, a.tsKey, a.durKey
		result = append(result, &Overload{
			Operator:     name,
			OperandTrait: traits.ReceiverType,
			Unary: func(val ref.Val) ref.Val {
				recv, ok := val.(traits.Receiver)
				if !ok {
					return types.NewErr("no such overload: %s", name)
				}
				if _, isDuration := val.(types.Duration); isDuration {
					return recv.Receive(durKey, "", nil)
				}
				return recv.Receive(tsKey, "", nil)
			},
			Binary: receiveTz(tsKey),
		})
	}
	return result
}

// receive1 builds a zero-argument (beyond the receiver) Receive call.
func receive1(key string) UnaryOp {
	return func(val ref.Val) ref.Val {
		recv, ok := val.(traits.Receiver)
		if !ok {
			return types.NewErr("no such overload: %s", key)
		}
		return recv.Receive(key, "", nil)
	}
}

// receiveTz builds the one-argument (explicit timezone) Receive call.
func receiveTz(key string) BinaryOp {
	return func(val, tz ref.Val) ref.Val {
		recv, ok := val.(traits.Receiver)
		if !ok {
			return types.NewErr("no such overload: %s", key)
		}
		return recv.Receive(key, "", []ref.Val{tz})
	}
}
