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
	"reflect"
	"strconv"

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// Int is a signed 64-bit integer value that implements ref.Val as well as
// the comparison and arithmetic traits. Arithmetic is overflow-checked per
// spec §4.E: an operation that would wrap silently instead produces an Err.
type Int int64

// Int constants used as comparison results and by callers building Compare
// output by hand.
const (
	IntZero   = Int(0)
	IntOne    = Int(1)
	IntNegOne = Int(-1)
)

// Add implements traits.Adder.
func (i Int) Add(other ref.Val) ref.Val {
	otherInt, ok := other.(Int)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	val, ok := addInt64Checked(int64(i), int64(otherInt))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "integer overflow")
	}
	return Int(val)
}

// AddWrapping implements Add's int64/int64 case but wraps silently on
// overflow instead of producing an Err, for use when error_on_int_wrap is
// off (spec §3). Callers are responsible for confirming other is an Int;
// unlike Add it does not itself fall back to ValOrErr.
func (i Int) AddWrapping(other Int) Int {
	return Int(addInt64Wrapping(int64(i), int64(other)))
}

// Compare implements traits.Comparer. Comparison against Uint/Double
// succeeds numerically; the dispatcher only reaches this path for those
// combinations when enable_heterogeneous_numeric_comparisons is set (spec
// §4.F), so Compare itself does not need to gate on the option.
func (i Int) Compare(other ref.Val) ref.Val {
	if otherInt, ok := other.(Int); ok {
		switch {
		case i < otherInt:
			return IntNegOne
		case i > otherInt:
			return IntOne
		default:
			return IntZero
		}
	}
	if cmp, ok := compareNumeric(i, other); ok {
		return cmp
	}
	return ValOrErr(other, "no such overload")
}

// ConvertToNative implements ref.Val.
func (i Int) ConvertToNative(typeDesc reflect.Type) (any, error) {
	switch typeDesc.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(int64(i)).Convert(typeDesc).Interface(), nil
	case reflect.Ptr:
		switch typeDesc.Elem().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			p := reflect.New(typeDesc.Elem())
			p.Elem().Set(reflect.ValueOf(int64(i)).Convert(typeDesc.Elem()))
			return p.Interface(), nil
		}
	case reflect.Interface:
		if reflect.TypeOf(i).Implements(typeDesc) {
			return i, nil
		}
	}
	if reflect.TypeOf(i).AssignableTo(typeDesc) {
		return i, nil
	}
	return nil, fmt.Errorf("unsupported type conversion from 'int' to %v", typeDesc)
}

// ConvertToType implements ref.Val.
func (i Int) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case IntType:
		return i
	case UintType:
		if i < 0 {
			return NewErr("range error converting %d to uint", int64(i))
		}
		return Uint(i)
	case DoubleType:
		return Double(i)
	case StringType:
		return String(strconv.FormatInt(int64(i), 10))
	case TimestampType:
		return timestampFromUnixSeconds(int64(i))
	case TypeType:
		return IntType
	}
	return NewTypeConversionError(IntType.TypeName(), typeVal.TypeName())
}

// Divide implements traits.Divider.
func (i Int) Divide(other ref.Val) ref.Val {
	otherInt, ok := other.(Int)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	if otherInt == IntZero {
		return NewKindErr(ErrorKindDivideByZero, "divide by zero")
	}
	val, ok := divideInt64Checked(int64(i), int64(otherInt))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "integer overflow")
	}
	return Int(val)
}

// DivideWrapping implements Divide's int64/int64 case but wraps silently on
// overflow instead of producing an Err (the only such case is
// math.MinInt64/-1), for use when error_on_int_wrap is off. Division by zero
// still always errors. Callers are responsible for confirming other is an Int.
func (i Int) DivideWrapping(other Int) ref.Val {
	if other == IntZero {
		return NewKindErr(ErrorKindDivideByZero, "divide by zero")
	}
	return Int(divideInt64Wrapping(int64(i), int64(other)))
}

// Equal implements ref.Val. Equality is numeric across Int/Uint/Double
// regardless of enable_heterogeneous_numeric_comparisons, which governs
// ordering only (spec §4.F).
func (i Int) Equal(other ref.Val) ref.Val {
	if otherInt, ok := other.(Int); ok {
		return Bool(i == otherInt)
	}
	if eq, ok := numericEqual(i, other); ok {
		return eq
	}
	return False
}

// Modulo implements traits.Modder.
func (i Int) Modulo(other ref.Val) ref.Val {
	otherInt, ok := other.(Int)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	if otherInt == IntZero {
		return NewKindErr(ErrorKindDivideByZero, "modulus by zero")
	}
	val, ok := moduloInt64Checked(int64(i), int64(otherInt))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "integer overflow")
	}
	return Int(val)
}

// ModuloWrapping implements Modulo's int64/int64 case but wraps silently on
// overflow instead of producing an Err, for use when error_on_int_wrap is
// off. Modulo by zero still always errors. Callers are responsible for
// confirming other is an Int.
func (i Int) ModuloWrapping(other Int) ref.Val {
	if other == IntZero {
		return NewKindErr(ErrorKindDivideByZero, "modulus by zero")
	}
	return Int(moduloInt64Wrapping(int64(i), int64(other)))
}

// Multiply implements traits.Multiplier.
func (i Int) Multiply(other ref.Val) ref.Val {
	otherInt, ok := other.(Int)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	val, ok := multiplyInt64Checked(int64(i), int64(otherInt))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "integer overflow")
	}
	return Int(val)
}

// MultiplyWrapping implements Multiply's int64/int64 case but wraps silently
// on overflow instead of producing an Err, for use when error_on_int_wrap is
// off. Callers are responsible for confirming other is an Int.
func (i Int) MultiplyWrapping(other Int) Int {
	return Int(multiplyInt64Wrapping(int64(i), int64(other)))
}

// Negate implements traits.Negator.
func (i Int) Negate() ref.Val {
	val, ok := negateInt64Checked(int64(i))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "integer overflow")
	}
	return Int(val)
}

// NegateWrapping implements Negate but wraps silently on overflow instead of
// producing an Err (negating math.MinInt64 wraps back to itself), for use
// when error_on_int_wrap is off.
func (i Int) NegateWrapping() Int {
	return Int(negateInt64Wrapping(int64(i)))
}

// Subtract implements traits.Subtractor.
func (i Int) Subtract(subtrahend ref.Val) ref.Val {
	otherInt, ok := subtrahend.(Int)
	if !ok {
		return ValOrErr(subtrahend, "no such overload")
	}
	val, ok := subtractInt64Checked(int64(i), int64(otherInt))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "integer overflow")
	}
	return Int(val)
}

// SubtractWrapping implements Subtract's int64/int64 case but wraps silently
// on overflow instead of producing an Err, for use when error_on_int_wrap is
// off. Callers are responsible for confirming subtrahend is an Int.
func (i Int) SubtractWrapping(subtrahend Int) Int {
	return Int(subtractInt64Wrapping(int64(i), int64(subtrahend)))
}

// IsZeroValue implements traits.Zeroer.
func (i Int) IsZeroValue() bool {
	return i == IntZero
}

// Type implements ref.Val.
func (i Int) Type() ref.Type {
	return IntType
}

// Value implements ref.Val.
func (i Int) Value() any {
	return int64(i)
}

// IsInt returns whether the input ref.Val or ref.Type is equal to IntType.
func IsInt(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == IntType
	case ref.Val:
		return IsInt(v.Type())
	}
	return false
}
