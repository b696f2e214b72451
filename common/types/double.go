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

package types

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// Double is an IEEE 754 double-precision float value implementing ref.Val,
// comparison, and arithmetic.
type Double float64

// Add implements traits.Adder.
func (d Double) Add(other ref.Val) ref.Val {
	otherDouble, ok := other.(Double)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	return d + otherDouble
}

// Compare implements traits.Comparer. Comparison against Int/Uint succeeds
// numerically; the dispatcher only reaches this path for those
// combinations when enable_heterogeneous_numeric_comparisons is set (spec
// §4.F). A NaN operand on either side makes the ordering undefined; per
// spec §8 every comparison against NaN ultimately evaluates false, which
// the standard ordering overloads enforce by returning false for a NaN
// operand without calling Compare, so this error is not propagated.
func (d Double) Compare(other ref.Val) ref.Val {
	if otherDouble, ok := other.(Double); ok {
		if math.IsNaN(float64(d)) || math.IsNaN(float64(otherDouble)) {
			return NewErr("NaN values cannot be ordered")
		}
		switch {
		case d < otherDouble:
			return IntNegOne
		case d > otherDouble:
			return IntOne
		default:
			return IntZero
		}
	}
	if math.IsNaN(float64(d)) {
		return NewErr("NaN values cannot be ordered")
	}
	if cmp, ok := compareNumeric(d, other); ok {
		return cmp
	}
	return ValOrErr(other, "no such overload")
}

// ConvertToNative implements ref.Val.
func (d Double) ConvertToNative(typeDesc reflect.Type) (any, error) {
	switch typeDesc.Kind() {
	case reflect.Float32:
		return float32(d), nil
	case reflect.Float64:
		return float64(d), nil
	case reflect.Interface:
		if reflect.TypeOf(d).Implements(typeDesc) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("type conversion error from double to '%v'", typeDesc)
}

// ConvertToType implements ref.Val.
func (d Double) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case IntType:
		if d < math.MinInt64 || d >= math.MaxInt64 || math.IsNaN(float64(d)) {
			return NewErr("range error converting %v to int", float64(d))
		}
		return Int(d)
	case UintType:
		if d < 0 || d > math.MaxUint64 || math.IsNaN(float64(d)) {
			return NewErr("range error converting %v to uint", float64(d))
		}
		return Uint(d)
	case DoubleType:
		return d
	case StringType:
		return String(strconv.FormatFloat(float64(d), 'g', -1, 64))
	case TypeType:
		return DoubleType
	}
	return NewTypeConversionError(DoubleType.TypeName(), typeVal.TypeName())
}

// Divide implements traits.Divider. Division by zero follows IEEE 754
// (±Inf or NaN), not an error, matching floating-point semantics.
func (d Double) Divide(other ref.Val) ref.Val {
	otherDouble, ok := other.(Double)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	return d / otherDouble
}

// Equal implements ref.Val. NaN is not equal to itself, per IEEE 754. See
// Int.Equal for the cross-numeric-type rule.
func (d Double) Equal(other ref.Val) ref.Val {
	if otherDouble, ok := other.(Double); ok {
		return Bool(float64(d) == float64(otherDouble))
	}
	if eq, ok := numericEqual(d, other); ok {
		return eq
	}
	return False
}

// Multiply implements traits.Multiplier.
func (d Double) Multiply(other ref.Val) ref.Val {
	otherDouble, ok := other.(Double)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	return d * otherDouble
}

// Negate implements traits.Negator.
func (d Double) Negate() ref.Val {
	return -d
}

// Subtract implements traits.Subtractor.
func (d Double) Subtract(subtrahend ref.Val) ref.Val {
	otherDouble, ok := subtrahend.(Double)
	if !ok {
		return ValOrErr(subtrahend, "no such overload")
	}
	return d - otherDouble
}

// IsZeroValue implements traits.Zeroer.
func (d Double) IsZeroValue() bool {
	return float64(d) == 0
}

// Type implements ref.Val.
func (d Double) Type() ref.Type {
	return DoubleType
}

// Value implements ref.Val.
func (d Double) Value() any {
	return float64(d)
}

// IsDouble returns whether the input ref.Val or ref.Type is equal to
// DoubleType.
func IsDouble(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == DoubleType
	case ref.Val:
		return IsDouble(v.Type())
	}
	return false
}
