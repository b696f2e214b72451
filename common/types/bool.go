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

// Bool is a boolean value that implements ref.Val and supports comparison
// and negation.
type Bool bool

// Boolean constants.
const (
	False = Bool(false)
	True  = Bool(true)
)

// Compare implements traits.Comparer.
func (b Bool) Compare(other ref.Val) ref.Val {
	otherBool, ok := other.(Bool)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	if b == otherBool {
		return IntZero
	}
	if !b && otherBool {
		return IntNegOne
	}
	return IntOne
}

// ConvertToNative implements ref.Val.
func (b Bool) ConvertToNative(typeDesc reflect.Type) (any, error) {
	switch typeDesc.Kind() {
	case reflect.Bool:
		return bool(b), nil
	case reflect.Ptr:
		if typeDesc.Elem().Kind() == reflect.Bool {
			p := bool(b)
			return &p, nil
		}
	case reflect.Interface:
		if reflect.TypeOf(b).Implements(typeDesc) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("type conversion error from bool to '%v'", typeDesc)
}

// ConvertToType implements ref.Val.
func (b Bool) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case StringType:
		return String(strconv.FormatBool(bool(b)))
	case BoolType:
		return b
	case TypeType:
		return BoolType
	}
	return NewTypeConversionError(BoolType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (b Bool) Equal(other ref.Val) ref.Val {
	otherBool, ok := other.(Bool)
	if !ok {
		return False
	}
	return Bool(b == otherBool)
}

// Negate implements traits.Negator.
func (b Bool) Negate() ref.Val {
	return !b
}

// IsZeroValue implements traits.Zeroer.
func (b Bool) IsZeroValue() bool {
	return bool(!b)
}

// Type implements ref.Val.
func (b Bool) Type() ref.Type {
	return BoolType
}

// Value implements ref.Val.
func (b Bool) Value() any {
	return bool(b)
}

// IsBool returns whether the input ref.Val or ref.Type is equal to BoolType.
func IsBool(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == BoolType
	case ref.Val:
		return IsBool(v.Type())
	}
	return false
}
