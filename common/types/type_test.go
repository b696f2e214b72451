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

	"github.com/nimbuspolicy/celrt/common/types/traits"
)

func TestTypeValueString(t *testing.T) {
	tests := []struct {
		in  *TypeValue
		out string
	}{
		{in: BoolType, out: "bool"},
		{in: DynType, out: "dyn"},
		{in: NullType, out: "null_type"},
		{in: ListType, out: "list"},
		{in: MapType, out: "map"},
	}
	for _, tst := range tests {
		if tst.in.String() != tst.out {
			t.Errorf("String() got %v, wanted %v", tst.in, tst.out)
		}
	}
}

func TestTypeValueTypeName(t *testing.T) {
	if BoolType.TypeName() != "bool" {
		t.Errorf("BoolType.TypeName() got %v, wanted bool", BoolType.TypeName())
	}
}

func TestTypeValueEqual(t *testing.T) {
	if BoolType.Equal(BoolType) != True {
		t.Error("BoolType.Equal(BoolType) did not return true")
	}
	if BoolType.Equal(IntType) != False {
		t.Error("BoolType.Equal(IntType) did not return false")
	}
	if BoolType.Equal(True) != False {
		t.Error("BoolType.Equal(true) did not return false")
	}
}

func TestTypeValueHasTrait(t *testing.T) {
	if !BoolType.HasTrait(traits.ComparerType) {
		t.Error("BoolType.HasTrait(ComparerType) returned false")
	}
	if BoolType.HasTrait(traits.AdderType) {
		t.Error("BoolType.HasTrait(AdderType) returned true")
	}
	if !StringType.HasTrait(traits.ComparerType | traits.MatcherType) {
		t.Error("StringType.HasTrait(ComparerType|MatcherType) returned false")
	}
}

func TestTypeValueConvertToType(t *testing.T) {
	if BoolType.ConvertToType(TypeType) != TypeType {
		t.Error("BoolType.ConvertToType(TypeType) did not return TypeType")
	}
	if BoolType.ConvertToType(StringType) != String("bool") {
		t.Error("BoolType.ConvertToType(StringType) did not return the type name")
	}
	if !IsError(BoolType.ConvertToType(IntType)) {
		t.Error("BoolType.ConvertToType(IntType) did not error")
	}
}

func TestTypeValueConvertToNative(t *testing.T) {
	val, err := BoolType.ConvertToNative(reflect.TypeOf(BoolType))
	if err != nil {
		t.Fatalf("ConvertToNative() failed: %v", err)
	}
	if val != BoolType {
		t.Errorf("ConvertToNative() got %v, wanted %v", val, BoolType)
	}
	if _, err := BoolType.ConvertToNative(reflect.TypeOf(0)); err == nil {
		t.Error("ConvertToNative(int) did not error")
	}
}

func TestTypeValueType(t *testing.T) {
	if BoolType.Type() != TypeType {
		t.Error("BoolType.Type() did not return TypeType")
	}
}

func TestTypeValueValue(t *testing.T) {
	if BoolType.Value() != "bool" {
		t.Errorf("BoolType.Value() got %v, wanted bool", BoolType.Value())
	}
}
