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

// Package ref contains the reference interfaces shared across the value
// types evaluated by the interpreter: Val, Type, and the collaborators the
// core consumes but does not implement (TypeAdapter, TypeProvider).
package ref

import "reflect"

// Val describes a runtime value produced by evaluation. Every concrete
// value (Bool, Int, String, a list, a message...) implements this
// interface, including the carried-error and unknown-set variants.
type Val interface {
	// ConvertToNative converts the value to the corresponding Go native
	// type matching typeDesc, or returns an error if the conversion is not
	// supported for the value's type.
	ConvertToNative(typeDesc reflect.Type) (any, error)

	// ConvertToType converts the value to another runtime Type, or returns
	// an error value if no such conversion exists.
	ConvertToType(typeVal Type) Val

	// Equal returns a Bool, or an error value, describing whether this
	// value equals other. Equal never panics; it is total over the value
	// domain.
	Equal(other Val) Val

	// Type returns the runtime Type of the value.
	Type() Type

	// Value returns the unwrapped Go native representation of the value.
	Value() any
}

// Type describes the runtime type of a Val, including which optional
// operator traits (see package traits) that type supports.
type Type interface {
	Val

	// HasTrait returns whether the type implements the given trait bitmask
	// (see package traits), e.g. traits.AdderType.
	HasTrait(trait int) bool

	// TypeName returns the fully qualified name of the type, e.g. "int",
	// "list", "map", or a message type name.
	TypeName() string
}

// FieldType describes a single field of a message/struct type as needed to
// resolve a field qualifier without constructing an intermediate Val.
type FieldType struct {
	// IsSet returns whether the field is set (non-default) on the given
	// native object.
	IsSet func(target any) bool

	// GetFrom returns the field's value from the given native object.
	GetFrom func(target any) (any, error)
}

// TypeAdapter converts a native Go value of arbitrary type into the
// equivalent Val. Consumed by the interpreter, implemented by the host
// (spec §6); celrt also ships a reflection-based default, see
// common/types/provider.go.
type TypeAdapter interface {
	NativeToValue(value any) Val
}

// TypeProvider resolves qualified type/enum identifiers and constructs
// messages by name. This is the seam at which the host's descriptor pool
// would be consumed (spec §1, §6); celrt defines the interface and a
// minimal native-Go implementation rather than a full proto descriptor
// pool, which is explicitly out of scope.
type TypeProvider interface {
	// FindIdent resolves a fully qualified identifier (variable or type
	// name) that is not found in the current Activation, as happens for
	// enum constants and type literals.
	FindIdent(identName string) (Val, bool)

	// FindStructFieldType returns field metadata for a field of a named
	// struct/message type, or false if the field does not exist.
	FindStructFieldType(structType, fieldName string) (*FieldType, bool)

	// NewValue constructs a new message/struct value of the named type
	// from a set of field initializers.
	NewValue(structType string, fields map[string]Val) Val
}
