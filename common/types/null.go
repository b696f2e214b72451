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
	"reflect"

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// Null is the singleton CEL null value.
type Null struct{}

// NullValue is the singleton instance of Null.
var NullValue = Null{}

// ConvertToNative implements ref.Val.
func (n Null) ConvertToNative(typeDesc reflect.Type) (any, error) {
	switch typeDesc.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return nil, nil
	}
	if reflect.TypeOf(n).AssignableTo(typeDesc) {
		return n, nil
	}
	return nil, NewTypeConversionError(NullType.TypeName(), typeDesc.String())
}

// ConvertToType implements ref.Val.
func (n Null) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case StringType:
		return String("null")
	case NullType:
		return n
	case TypeType:
		return NullType
	}
	return NewTypeConversionError(NullType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val; null equals only null.
func (n Null) Equal(other ref.Val) ref.Val {
	return Bool(NullType == other.Type())
}

// Type implements ref.Val.
func (n Null) Type() ref.Type {
	return NullType
}

// Value implements ref.Val.
func (n Null) Value() any {
	return nil
}
