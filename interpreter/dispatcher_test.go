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

package interpreter

import (
	"testing"

	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/common/types/traits"
	"github.com/nimbuspolicy/celrt/interpreter/functions"
)

func TestDispatcherAdd(t *testing.T) {
	d := NewDispatcher()
	err := d.Add(&functions.Overload{
		Operator: "size",
		Unary:    func(v ref.Val) ref.Val { return types.Int(0) },
	})
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	overloads, found := d.FindOverload("size")
	if !found || len(overloads) != 1 {
		t.Fatalf("FindOverload('size') got (%v, %v), wanted one overload", overloads, found)
	}
}

func TestDispatcherAddDuplicateTraitErrors(t *testing.T) {
	d := NewDispatcher()
	overload := &functions.Overload{Operator: "_+_", OperandTrait: int(traits.AdderType)}
	if err := d.Add(overload); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := d.Add(overload); err == nil {
		t.Error("Add() with a duplicate (function, trait) pair did not error")
	}
}

func TestDispatcherAddDistinctTraitsSameFunction(t *testing.T) {
	d := NewDispatcher()
	err := d.Add(
		&functions.Overload{Operator: "_+_", OperandTrait: int(traits.AdderType)},
		&functions.Overload{Operator: "_+_", OperandTrait: int(traits.ComparerType)},
	)
	if err != nil {
		t.Fatalf("Add() with distinct traits failed: %v", err)
	}
	overloads, found := d.FindOverload("_+_")
	if !found || len(overloads) != 2 {
		t.Fatalf("FindOverload('_+_') got (%v, %v), wanted two overloads", overloads, found)
	}
}

func TestDispatcherAddMissingOperatorErrors(t *testing.T) {
	d := NewDispatcher()
	if err := d.Add(&functions.Overload{}); err == nil {
		t.Error("Add() with an empty Operator did not error")
	}
}

func TestDispatcherFindOverloadMissing(t *testing.T) {
	d := NewDispatcher()
	if _, found := d.FindOverload("missing"); found {
		t.Error("FindOverload('missing') reported found")
	}
}
