// Copyright 2022 Google LLC
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

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// Optional wraps a possibly-absent value, produced by the `_?._` optional
// field select and the `optional.of`/`optional.none` constructors. It is a
// Receiver so it can dispatch to `hasValue()`, `value()`, `or()`, and
// `orValue()`.
type Optional struct {
	value    ref.Val
	hasValue bool
}

// OptionalNone is the singleton absent optional.
var OptionalNone = &Optional{hasValue: false}

// OptionalOf constructs a present optional wrapping value.
func OptionalOf(value ref.Val) *Optional {
	return &Optional{value: value, hasValue: true}
}

// HasValue reports whether the optional holds a value.
func (o *Optional) HasValue() bool {
	return o.hasValue
}

// GetValue returns the wrapped value, or an Err if the optional is absent.
func (o *Optional) GetValue() ref.Val {
	if !o.hasValue {
		return NewErr("optional.none() dereferenced")
	}
	return o.value
}

// ConvertToNative implements ref.Val.
func (o *Optional) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if !o.hasValue {
		return nil, fmt.Errorf("optional.none() cannot be converted to '%v'", typeDesc)
	}
	return o.value.ConvertToNative(typeDesc)
}

// ConvertToType implements ref.Val.
func (o *Optional) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case OptionalType:
		return o
	case TypeType:
		return OptionalType
	}
	return NewTypeConversionError(OptionalType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (o *Optional) Equal(other ref.Val) ref.Val {
	otherOpt, ok := other.(*Optional)
	if !ok {
		return False
	}
	if o.hasValue != otherOpt.hasValue {
		return False
	}
	if !o.hasValue {
		return True
	}
	return o.value.Equal(otherOpt.value)
}

// Receive implements traits.Receiver for hasValue()/value()/or()/orValue().
func (o *Optional) Receive(function string, overload string, args []ref.Val) ref.Val {
	switch function {
	case "hasValue":
		if len(args) == 0 {
			return Bool(o.hasValue)
		}
	case "value":
		if len(args) == 0 {
			return o.GetValue()
		}
	case "or":
		if len(args) == 1 {
			if o.hasValue {
				return o
			}
			otherOpt, ok := args[0].(*Optional)
			if !ok {
				return ValOrErr(args[0], "no such overload")
			}
			return otherOpt
		}
	case "orValue":
		if len(args) == 1 {
			if o.hasValue {
				return o.value
			}
			return args[0]
		}
	}
	return NewErr("no such overload")
}

// Type implements ref.Val.
func (o *Optional) Type() ref.Type {
	return OptionalType
}

// Value implements ref.Val.
func (o *Optional) Value() any {
	if !o.hasValue {
		return nil
	}
	return o.value.Value()
}

// IsOptional returns whether elem is the OptionalType singleton or a Val of
// that type.
func IsOptional(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == OptionalType
	case ref.Val:
		return IsOptional(v.Type())
	}
	return false
}
