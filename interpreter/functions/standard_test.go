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

package functions

import (
	"testing"

	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
)

func findOverload(t *testing.T, overloadSet []*Overload, operator string) *Overload {
	t.Helper()
	for _, o := range overloadSet {
		if o.Operator == operator {
			return o
		}
	}
	t.Fatalf("no overload registered for %q", operator)
	return nil
}

func TestStandardOverloadsArithmetic(t *testing.T) {
	heterogeneous := false
	errorOnIntWrap := false
	overloadSet := StandardOverloads(&heterogeneous, &errorOnIntWrap)
	add := findOverload(t, overloadSet, "_+_")
	if got := add.Binary(types.Int(2), types.Int(3)); got != types.Int(5) {
		t.Errorf("2 + 3 = %v, wanted 5", got)
	}
	neg := findOverload(t, overloadSet, "-_")
	if got := neg.Unary(types.Int(2)); got != types.Int(-2) {
		t.Errorf("-2 = %v, wanted -2", got)
	}
}

func TestStandardOverloadsComparisonGating(t *testing.T) {
	heterogeneous := false
	errorOnIntWrap := false
	overloadSet := StandardOverloads(&heterogeneous, &errorOnIntWrap)
	less := findOverload(t, overloadSet, "_<_")

	if got := less.Binary(types.Int(1), types.Int(2)); got != types.True {
		t.Errorf("1 < 2 = %v, wanted true", got)
	}
	if got := less.Binary(types.Int(1), types.Double(2.0)); !types.IsError(got) {
		t.Errorf("1 < 2.0 without the option = %v, wanted an error", got)
	}

	heterogeneous = true
	if got := less.Binary(types.Int(1), types.Double(2.0)); got != types.True {
		t.Errorf("1 < 2.0 with the option = %v, wanted true", got)
	}
}

func TestStandardOverloadsSizeAndIn(t *testing.T) {
	heterogeneous := false
	errorOnIntWrap := false
	overloadSet := StandardOverloads(&heterogeneous, &errorOnIntWrap)
	size := findOverload(t, overloadSet, "size")
	if got := size.Unary(types.String("hello")); got != types.Int(5) {
		t.Errorf("size('hello') = %v, wanted 5", got)
	}

	in := findOverload(t, overloadSet, "_in_")
	list := types.NewDynamicList([]ref.Val{types.Int(1), types.Int(2)})
	if got := in.Binary(types.Int(1), list); got != types.True {
		t.Errorf("1 in [1, 2] = %v, wanted true", got)
	}
	if got := in.Binary(types.Int(3), list); got != types.False {
		t.Errorf("3 in [1, 2] = %v, wanted false", got)
	}
}

func TestStandardOverloadsStringFunctions(t *testing.T) {
	heterogeneous := false
	errorOnIntWrap := false
	overloadSet := StandardOverloads(&heterogeneous, &errorOnIntWrap)
	contains := findOverload(t, overloadSet, "contains")
	if got := contains.Binary(types.String("hello world"), types.String("world")); got != types.True {
		t.Errorf("'hello world'.contains('world') = %v, wanted true", got)
	}
	startsWith := findOverload(t, overloadSet, "startsWith")
	if got := startsWith.Binary(types.String("hello"), types.String("he")); got != types.True {
		t.Errorf("'hello'.startsWith('he') = %v, wanted true", got)
	}
}

func TestStandardOverloadsTypeConversion(t *testing.T) {
	heterogeneous := false
	errorOnIntWrap := false
	overloadSet := StandardOverloads(&heterogeneous, &errorOnIntWrap)
	toString := findOverload(t, overloadSet, "string")
	if got := toString.Unary(types.Int(42)); got != types.String("42") {
		t.Errorf("string(42) = %v, wanted '42'", got)
	}
	typeOf := findOverload(t, overloadSet, "type")
	if got := typeOf.Unary(types.Int(42)); got != types.IntType {
		t.Errorf("type(42) = %v, wanted int", got)
	}
}

func TestStandardOverloadsNotStrictlyFalse(t *testing.T) {
	heterogeneous := false
	errorOnIntWrap := false
	overloadSet := StandardOverloads(&heterogeneous, &errorOnIntWrap)
	nsf := findOverload(t, overloadSet, "@not_strictly_false")
	if got := nsf.Unary(types.False); got != types.False {
		t.Errorf("not_strictly_false(false) = %v, wanted false", got)
	}
	if got := nsf.Unary(types.True); got != types.True {
		t.Errorf("not_strictly_false(true) = %v, wanted true", got)
	}
	if got := nsf.Unary(types.NewErr("boom")); got != types.True {
		t.Errorf("not_strictly_false(error) = %v, wanted true", got)
	}
}
