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

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// ErrorKind classifies a carried error into the closed set of kinds the
// evaluator can produce (spec §7). NewErr alone produces ErrorKindUnspecified;
// call sites that know which spec kind applies use NewKindErr so a caller
// inspecting a failure (e.g. to retry or to report structured diagnostics)
// can switch on Kind() instead of pattern-matching the message text.
type ErrorKind int

const (
	ErrorKindUnspecified ErrorKind = iota
	ErrorKindInvalidArgument
	ErrorKindBadFormat
	ErrorKindDivideByZero
	ErrorKindNumericOverflow
	ErrorKindIndexOutOfBounds
	ErrorKindAttributeNotFound
	ErrorKindDuplicateAttribute
	ErrorKindOverloadNotFound
	ErrorKindTypeNotFound
	ErrorKindIterationBudgetExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInvalidArgument:
		return "invalid_argument"
	case ErrorKindBadFormat:
		return "bad_format"
	case ErrorKindDivideByZero:
		return "divide_by_zero"
	case ErrorKindNumericOverflow:
		return "numeric_overflow"
	case ErrorKindIndexOutOfBounds:
		return "index_out_of_bounds"
	case ErrorKindAttributeNotFound:
		return "attribute_not_found"
	case ErrorKindDuplicateAttribute:
		return "duplicate_attribute"
	case ErrorKindOverloadNotFound:
		return "overload_not_found"
	case ErrorKindTypeNotFound:
		return "type_not_found"
	case ErrorKindIterationBudgetExceeded:
		return "iteration_budget_exceeded"
	default:
		return "unspecified"
	}
}

// Err is a carried-error value: CEL represents evaluation errors as values
// in the same domain as every other result (spec §3/§8) rather than as a Go
// error returned out-of-band, so that `x || y` can still short-circuit away
// an error produced while evaluating `x`.
type Err struct {
	error
	kind ErrorKind
}

// NewErr constructs an Err from a format string, in the manner of
// fmt.Errorf. Its Kind() is ErrorKindUnspecified; use NewKindErr when the
// spec §7 kind is known at the construction site.
func NewErr(format string, args ...any) *Err {
	return &Err{error: fmt.Errorf(format, args...)}
}

// NewKindErr constructs an Err tagged with one of the spec §7 error kinds.
func NewKindErr(kind ErrorKind, format string, args ...any) *Err {
	return &Err{error: fmt.Errorf(format, args...), kind: kind}
}

// Kind reports the spec §7 error kind this Err carries, or
// ErrorKindUnspecified if it was constructed without one.
func (e *Err) Kind() ErrorKind {
	return e.kind
}

// WrapErr wraps a Go error as an Err value, preserving it for errors.Is/As.
func WrapErr(err error) *Err {
	return &Err{error: err}
}

// NewTypeConversionError reports that a value could not be converted to the
// requested native or CEL type.
func NewTypeConversionError(from any, to any) *Err {
	return NewErr("type conversion error from '%v' to '%v'", from, to)
}

// NewNoSuchOverloadErr reports that the Dispatcher (spec §4.D) found no
// overload whose operand types matched the call.
func NewNoSuchOverloadErr() *Err {
	return NewErr("no such overload")
}

// NewNoSuchFieldErr reports that a field/key qualifier (spec §4.A) could not
// be resolved against its operand.
func NewNoSuchFieldErr(field string) *Err {
	return NewErr("no such key: %v", field)
}

func newConversionError(from, to string) error {
	return NewTypeConversionError(from, to)
}

// ConvertToNative implements ref.Val; an error is never convertible, and
// conversion attempts simply surface the wrapped error.
func (e *Err) ConvertToNative(typeDesc reflect.Type) (any, error) {
	return nil, e.error
}

// ConvertToType implements ref.Val; errors are not convertible to other
// representations and so convert to themselves.
func (e *Err) ConvertToType(typeVal ref.Type) ref.Val {
	return e
}

// Equal implements ref.Val; an error is never equal to any value, including
// another error, and so comparisons against it also produce an error.
func (e *Err) Equal(other ref.Val) ref.Val {
	return e
}

// String implements fmt.Stringer.
func (e *Err) String() string {
	return e.error.Error()
}

// Type implements ref.Val.
func (e *Err) Type() ref.Type {
	return ErrType
}

// Value implements ref.Val.
func (e *Err) Value() any {
	return e.error
}

// Unwrap exposes the wrapped error for errors.Is/errors.As.
func (e *Err) Unwrap() error {
	return e.error
}

// ValOrErr returns value unchanged if it is already an error or an unknown
// set — so that error/unknown propagation (spec §4.D/§8) never clobbers an
// operand's own error with a fresh "no such overload" — and otherwise
// constructs a new Err from format/args.
func ValOrErr(value ref.Val, format string, args ...any) ref.Val {
	if value != nil {
		switch value.Type() {
		case ErrType, UnknownType:
			return value
		}
	}
	return NewErr(format, args...)
}

// IsError returns whether elem is the ErrType singleton or a Val of that
// type.
func IsError(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == ErrType
	case ref.Val:
		return v.Type() == ErrType
	}
	return false
}
