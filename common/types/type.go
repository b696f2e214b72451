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
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

// TypeValue is an instance of a Val that describes another value's type; it
// is itself both a ref.Type and a ref.Val, so `type(x)` produces a value in
// the same domain as any other expression result.
type TypeValue struct {
	name      string
	traitMask int
}

// NewTypeValue returns a *TypeValue advertising the given set of operator
// traits OR'd together.
func NewTypeValue(name string, traitList ...int) *TypeValue {
	traitMask := 0
	for _, trait := range traitList {
		traitMask |= trait
	}
	return &TypeValue{name: name, traitMask: traitMask}
}

// NewObjectTypeValue returns a *TypeValue for a message-like type, annotated
// with the traits common to all provider-constructed values.
func NewObjectTypeValue(name string) *TypeValue {
	return NewTypeValue(name, traits.IndexerType, traits.IterableType, traits.FieldTesterType)
}

// ConvertToNative implements ref.Val.
func (t *TypeValue) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if reflect.TypeOf(t).AssignableTo(typeDesc) {
		return t, nil
	}
	return nil, newConversionError("type", typeDesc.String())
}

// ConvertToType implements ref.Val.
func (t *TypeValue) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case TypeType:
		return TypeType
	case StringType:
		return String(t.TypeName())
	}
	return NewErr("type conversion error from '%s' to '%s'", TypeType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (t *TypeValue) Equal(other ref.Val) ref.Val {
	otherType, ok := other.(*TypeValue)
	if !ok {
		return False
	}
	return Bool(t.name == otherType.name)
}

// HasTrait implements ref.Type.
func (t *TypeValue) HasTrait(trait int) bool {
	return trait&t.traitMask == trait
}

// Type implements ref.Val; the type of a type-value is always TypeType.
func (t *TypeValue) Type() ref.Type {
	return TypeType
}

// TypeName implements ref.Type.
func (t *TypeValue) TypeName() string {
	return t.name
}

// Value implements ref.Val.
func (t *TypeValue) Value() any {
	return t.name
}

// String implements fmt.Stringer.
func (t *TypeValue) String() string {
	return t.name
}

// Type singletons for the value domain described in spec §3.
var (
	TypeType      = NewTypeValue("type")
	BoolType      = NewTypeValue("bool", traits.ComparerType, traits.NegatorType, traits.ZeroerType)
	BytesType     = NewTypeValue("bytes", traits.AdderType, traits.ComparerType, traits.SizerType, traits.ZeroerType)
	DoubleType    = NewTypeValue("double", traits.AdderType, traits.ComparerType, traits.DividerType, traits.MultiplierType, traits.NegatorType, traits.SubtractorType, traits.ZeroerType)
	DurationType  = NewTypeValue("google.protobuf.Duration", traits.AdderType, traits.ComparerType, traits.NegatorType, traits.SubtractorType, traits.ReceiverType, traits.ZeroerType)
	ErrType       = NewTypeValue("error")
	IntType       = NewTypeValue("int", traits.AdderType, traits.ComparerType, traits.DividerType, traits.ModderType, traits.MultiplierType, traits.NegatorType, traits.SubtractorType, traits.ZeroerType)
	ListType      = NewTypeValue("list", traits.AdderType, traits.ContainerType, traits.IndexerType, traits.IterableType, traits.SizerType, traits.ZeroerType)
	MapType       = NewTypeValue("map", traits.ContainerType, traits.IndexerType, traits.IterableType, traits.SizerType, traits.FieldTesterType, traits.ZeroerType)
	NullType      = NewTypeValue("null_type")
	OptionalType  = NewTypeValue("optional_type", traits.ReceiverType)
	StringType    = NewTypeValue("string", traits.AdderType, traits.ComparerType, traits.MatcherType, traits.ReceiverType, traits.SizerType, traits.ZeroerType)
	TimestampType = NewTypeValue("google.protobuf.Timestamp", traits.ComparerType, traits.SubtractorType, traits.ReceiverType, traits.ZeroerType)
	UintType      = NewTypeValue("uint", traits.AdderType, traits.ComparerType, traits.DividerType, traits.ModderType, traits.MultiplierType, traits.SubtractorType, traits.ZeroerType)
	UnknownType   = NewTypeValue("unknown")
	DynType       = NewTypeValue("dyn")
)
