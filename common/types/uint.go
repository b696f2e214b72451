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

// Uint is an unsigned 64-bit integer value. CEL keeps int64 and uint64 as
// distinct types (spec §3); equality between them is numeric (see
// numericEqual), so `1 == 1u` is true.
type Uint uint64

const uintZero = Uint(0)

// Add implements traits.Adder.
func (i Uint) Add(other ref.Val) ref.Val {
	otherUint, ok := other.(Uint)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	val, ok := addUint64Checked(uint64(i), uint64(otherUint))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "unsigned integer overflow")
	}
	return Uint(val)
}

// AddWrapping implements Add's uint64/uint64 case but wraps silently on
// overflow instead of producing an Err, for use when error_on_int_wrap is
// off. Callers are responsible for confirming other is a Uint.
func (i Uint) AddWrapping(other Uint) Uint {
	return Uint(addUint64Wrapping(uint64(i), uint64(other)))
}

// Compare implements traits.Comparer. Comparison against Int/Double succeeds
// numerically; the dispatcher only reaches this path for those combinations
// when enable_heterogeneous_numeric_comparisons is set (spec §4.F).
func (i Uint) Compare(other ref.Val) ref.Val {
	if otherUint, ok := other.(Uint); ok {
		switch {
		case i < otherUint:
			return IntNegOne
		case i > otherUint:
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
func (i Uint) ConvertToNative(typeDesc reflect.Type) (any, error) {
	switch typeDesc.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(uint64(i)).Convert(typeDesc).Interface(), nil
	case reflect.Ptr:
		switch typeDesc.Elem().Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			p := reflect.New(typeDesc.Elem())
			p.Elem().Set(reflect.ValueOf(uint64(i)).Convert(typeDesc.Elem()))
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
	return nil, fmt.Errorf("unsupported type conversion from 'uint' to %v", typeDesc)
}

// ConvertToType implements ref.Val.
func (i Uint) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case IntType:
		if i > Uint(1<<63-1) {
			return NewErr("range error converting %d to int", uint64(i))
		}
		return Int(i)
	case UintType:
		return i
	case DoubleType:
		return Double(i)
	case StringType:
		return String(strconv.FormatUint(uint64(i), 10))
	case TypeType:
		return UintType
	}
	return NewTypeConversionError(UintType.TypeName(), typeVal.TypeName())
}

// Divide implements traits.Divider.
func (i Uint) Divide(other ref.Val) ref.Val {
	otherUint, ok := other.(Uint)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	if otherUint == uintZero {
		return NewKindErr(ErrorKindDivideByZero, "divide by zero")
	}
	return i / otherUint
}

// Equal implements ref.Val. See Int.Equal for the cross-numeric-type rule.
func (i Uint) Equal(other ref.Val) ref.Val {
	if otherUint, ok := other.(Uint); ok {
		return Bool(i == otherUint)
	}
	if eq, ok := numericEqual(i, other); ok {
		return eq
	}
	return False
}

// Modulo implements traits.Modder.
func (i Uint) Modulo(other ref.Val) ref.Val {
	otherUint, ok := other.(Uint)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	if otherUint == uintZero {
		return NewKindErr(ErrorKindDivideByZero, "modulus by zero")
	}
	return i % otherUint
}

// Multiply implements traits.Multiplier.
func (i Uint) Multiply(other ref.Val) ref.Val {
	otherUint, ok := other.(Uint)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	val, ok := multiplyUint64Checked(uint64(i), uint64(otherUint))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "unsigned integer overflow")
	}
	return Uint(val)
}

// MultiplyWrapping implements Multiply's uint64/uint64 case but wraps
// silently on overflow instead of producing an Err, for use when
// error_on_int_wrap is off. Callers are responsible for confirming other is
// a Uint.
func (i Uint) MultiplyWrapping(other Uint) Uint {
	return Uint(multiplyUint64Wrapping(uint64(i), uint64(other)))
}

// Subtract implements traits.Subtractor.
func (i Uint) Subtract(subtrahend ref.Val) ref.Val {
	otherUint, ok := subtrahend.(Uint)
	if !ok {
		return ValOrErr(subtrahend, "no such overload")
	}
	val, ok := subtractUint64Checked(uint64(i), uint64(otherUint))
	if !ok {
		return NewKindErr(ErrorKindNumericOverflow, "unsigned integer overflow")
	}
	return Uint(val)
}

// SubtractWrapping implements Subtract's uint64/uint64 case but wraps
// silently on overflow instead of producing an Err, for use when
// error_on_int_wrap is off. Callers are responsible for confirming
// subtrahend is a Uint.
func (i Uint) SubtractWrapping(subtrahend Uint) Uint {
	return Uint(subtractUint64Wrapping(uint64(i), uint64(subtrahend)))
}

// IsZeroValue implements traits.Zeroer.
func (i Uint) IsZeroValue() bool {
	return i == uintZero
}

// Type implements ref.Val.
func (i Uint) Type() ref.Type {
	return UintType
}

// Value implements ref.Val.
func (i Uint) Value() any {
	return uint64(i)
}

// IsUint returns whether the input ref.Val or ref.Type is equal to UintType.
func IsUint(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == UintType
	case ref.Val:
		return IsUint(v.Type())
	}
	return false
}
