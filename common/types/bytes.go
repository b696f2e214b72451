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
	"bytes"
	"fmt"
	"reflect"

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// Bytes implements ref.Val and supports concatenation, comparison, and
// size.
type Bytes []byte

// Add implements traits.Adder.
func (b Bytes) Add(other ref.Val) ref.Val {
	otherBytes, ok := other.(Bytes)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	concat := make(Bytes, 0, len(b)+len(otherBytes))
	concat = append(concat, b...)
	concat = append(concat, otherBytes...)
	return concat
}

// Compare implements traits.Comparer.
func (b Bytes) Compare(other ref.Val) ref.Val {
	otherBytes, ok := other.(Bytes)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	return Int(bytes.Compare(b, otherBytes))
}

// ConvertToNative implements ref.Val.
func (b Bytes) ConvertToNative(typeDesc reflect.Type) (any, error) {
	switch typeDesc.Kind() {
	case reflect.Array, reflect.Slice:
		if typeDesc.Elem().Kind() == reflect.Uint8 {
			return []byte(b), nil
		}
	case reflect.Interface:
		if reflect.TypeOf(b).Implements(typeDesc) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("type conversion error from bytes to '%v'", typeDesc)
}

// ConvertToType implements ref.Val.
func (b Bytes) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case StringType:
		return String(b)
	case BytesType:
		return b
	case TypeType:
		return BytesType
	}
	return NewTypeConversionError(BytesType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (b Bytes) Equal(other ref.Val) ref.Val {
	otherBytes, ok := other.(Bytes)
	if !ok {
		return False
	}
	return Bool(bytes.Equal(b, otherBytes))
}

// Size implements traits.Sizer.
func (b Bytes) Size() ref.Val {
	return Int(len(b))
}

// IsZeroValue implements traits.Zeroer.
func (b Bytes) IsZeroValue() bool {
	return len(b) == 0
}

// Type implements ref.Val.
func (b Bytes) Type() ref.Type {
	return BytesType
}

// Value implements ref.Val.
func (b Bytes) Value() any {
	return []byte(b)
}

// IsBytes returns whether elem is the BytesType singleton or a Val of that
// type.
func IsBytes(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == BytesType
	case ref.Val:
		return IsBytes(v.Type())
	}
	return false
}
