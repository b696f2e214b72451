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
	"testing"
)

func TestNullConvertToNative(t *testing.T) {
	val, err := NullValue.ConvertToNative(reflect.TypeOf((*any)(nil)).Elem())
	if err != nil || val != nil {
		t.Errorf("NullValue.ConvertToNative(interface) got (%v, %v), wanted (nil, nil)", val, err)
	}
	if _, err := NullValue.ConvertToNative(reflect.TypeOf(1)); err == nil {
		t.Error("NullValue.ConvertToNative(int) did not error")
	}
}

func TestNullConvertToType(t *testing.T) {
	if !NullValue.ConvertToType(NullType).Equal(NullValue).(Bool) {
		t.Error("Failed to get NullType of NullValue.")
	}
	if !NullValue.ConvertToType(StringType).Equal(String("null")).(Bool) {
		t.Error("Failed to get StringType of NullValue.")
	}
	if !NullValue.ConvertToType(TypeType).Equal(NullType).(Bool) {
		t.Error("Failed to convert NullValue to type.")
	}
	if !IsError(NullValue.ConvertToType(IntType)) {
		t.Error("Failed to error on unsupported conversion.")
	}
}

func TestNullEqual(t *testing.T) {
	if !NullValue.Equal(NullValue).(Bool) {
		t.Error("NullValue does not equal to itself.")
	}
	if NullValue.Equal(IntZero).(Bool) {
		t.Error("NullValue equal to non-null type.")
	}
}

func TestNullType(t *testing.T) {
	if NullValue.Type() != NullType {
		t.Error("NullValue gets incorrect type.")
	}
}

func TestNullValue(t *testing.T) {
	if NullValue.Value() != nil {
		t.Error("NullValue gets incorrect value.")
	}
}
