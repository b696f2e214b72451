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

	"github.com/google/go-cmp/cmp"

	"github.com/nimbuspolicy/celrt/ast"
	"github.com/nimbuspolicy/celrt/common"
	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

func num(id int64, v int64) *ast.Int64Constant {
	return ast.NewInt64Constant(id, common.NoLocation, v)
}

func TestProgramEvalConstant(t *testing.T) {
	p, err := NewProgram(num(1, 42))
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val != types.Int(42) {
		t.Errorf("Eval() got %v, wanted 42", val)
	}
}

func TestProgramEvalIdent(t *testing.T) {
	expr := ast.NewIdent(1, common.NoLocation, "x")
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(map[string]interface{}{"x": int64(7)})
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val != types.Int(7) {
		t.Errorf("Eval() got %v, wanted 7", val)
	}
}

func TestProgramEvalArithmetic(t *testing.T) {
	expr := ast.NewCallFunction(3, common.NoLocation, "_+_",
		ast.NewInt64Constant(1, common.NoLocation, 2),
		ast.NewInt64Constant(2, common.NoLocation, 3))
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val != types.Int(5) {
		t.Errorf("Eval() got %v, wanted 5", val)
	}
}

func TestProgramEvalLogicalAndShortCircuits(t *testing.T) {
	// false && <division by zero> must short-circuit to false rather than
	// propagating the error from the unevaluated right-hand side.
	divByZero := ast.NewCallFunction(4, common.NoLocation, "_/_",
		ast.NewInt64Constant(5, common.NoLocation, 1),
		ast.NewInt64Constant(6, common.NoLocation, 0))
	expr := ast.NewCallFunction(1, common.NoLocation, "_&&_",
		ast.NewBoolConstant(2, common.NoLocation, false),
		divByZero)
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val != types.False {
		t.Errorf("Eval() got %v, wanted false", val)
	}
}

func TestProgramEvalConditional(t *testing.T) {
	expr := ast.NewCallFunction(1, common.NoLocation, "_?_:_",
		ast.NewBoolConstant(2, common.NoLocation, true),
		ast.NewStringConstant(3, common.NoLocation, "then"),
		ast.NewStringConstant(4, common.NoLocation, "else"))
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val != types.String("then") {
		t.Errorf("Eval() got %v, wanted 'then'", val)
	}
}

func TestProgramEvalMapLiteral(t *testing.T) {
	expr := ast.NewCreateStruct(1, common.NoLocation,
		ast.NewStructEntry(2, common.NoLocation,
			ast.NewStringConstant(3, common.NoLocation, "k"),
			ast.NewInt64Constant(4, common.NoLocation, 1)))
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	m, ok := val.(traits.Mapper)
	if !ok {
		t.Fatalf("Eval() returned %T, wanted a map", val)
	}
	got := m.Get(types.String("k"))
	if got != types.Int(1) {
		t.Errorf("map[\"k\"] = %v, wanted 1", got)
	}
}

func TestProgramEvalListLiteral(t *testing.T) {
	expr := ast.NewCreateList(1, common.NoLocation,
		ast.NewInt64Constant(2, common.NoLocation, 1),
		ast.NewInt64Constant(3, common.NoLocation, 2),
		ast.NewInt64Constant(4, common.NoLocation, 3))
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	lister, ok := val.(traits.Lister)
	if !ok {
		t.Fatalf("Eval() returned %T, wanted a list", val)
	}
	size := int(lister.Size().(types.Int))
	got := make([]int64, size)
	for i := 0; i < size; i++ {
		got[i] = int64(lister.Get(types.Int(i)).(types.Int))
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, got); diff != "" {
		t.Errorf("list literal produced unexpected elements (-want +got):\n%s", diff)
	}
}

func TestProgramEvalDuplicateMapKeyErrors(t *testing.T) {
	expr := ast.NewCreateStruct(1, common.NoLocation,
		ast.NewStructEntry(2, common.NoLocation,
			ast.NewStringConstant(3, common.NoLocation, "k"),
			ast.NewInt64Constant(4, common.NoLocation, 1)),
		ast.NewStructEntry(5, common.NoLocation,
			ast.NewStringConstant(6, common.NoLocation, "k"),
			ast.NewInt64Constant(7, common.NoLocation, 2)))
	p, err := NewProgram(expr, ErrorOnDuplicateMapKeys())
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	if _, _, err := p.Eval(nil); err == nil {
		t.Error("Eval() with a duplicate map key did not error")
	}
}

func TestProgramEvalHeterogeneousComparisonGated(t *testing.T) {
	expr := ast.NewCallFunction(1, common.NoLocation, "_<_",
		ast.NewInt64Constant(2, common.NoLocation, 1),
		ast.NewDoubleConstant(3, common.NoLocation, 2.0))
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	if _, _, err := p.Eval(nil); err == nil {
		t.Error("Eval() of a cross-type numeric comparison without the option did not error")
	}

	enabled, err := NewProgram(expr, EnableHeterogeneousNumericComparisons())
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := enabled.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val != types.True {
		t.Errorf("Eval() got %v, wanted true", val)
	}
}

func TestProgramEvalComprehensionExists(t *testing.T) {
	// [1, 2, 3].exists(x, x == 2)
	iterRange := ast.NewCreateList(1, common.NoLocation,
		ast.NewInt64Constant(2, common.NoLocation, 1),
		ast.NewInt64Constant(3, common.NoLocation, 2),
		ast.NewInt64Constant(4, common.NoLocation, 3))
	cond := ast.NewCallFunction(5, common.NoLocation, "_==_",
		ast.NewIdent(6, common.NoLocation, "x"),
		ast.NewInt64Constant(7, common.NoLocation, 2))
	step := ast.NewCallFunction(8, common.NoLocation, "_||_",
		ast.NewIdent(9, common.NoLocation, "found"),
		cond)
	expr := ast.NewComprehension(10, common.NoLocation,
		"x", iterRange,
		"found", ast.NewBoolConstant(11, common.NoLocation, false),
		ast.NewCallFunction(12, common.NoLocation, "@not_strictly_false",
			ast.NewIdent(13, common.NoLocation, "found")),
		step,
		ast.NewIdent(14, common.NoLocation, "found"))
	p, err := NewProgram(expr)
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	val, _, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val != types.True {
		t.Errorf("Eval() got %v, wanted true", val)
	}
}

func TestProgramEvalTracksState(t *testing.T) {
	expr := ast.NewCallFunction(3, common.NoLocation, "_+_",
		ast.NewInt64Constant(1, common.NoLocation, 2),
		ast.NewInt64Constant(2, common.NoLocation, 3))
	p, err := NewProgram(expr, EvalOptions(OptTrackState))
	if err != nil {
		t.Fatalf("NewProgram() failed: %v", err)
	}
	_, details, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	if val, found := details.State().Value(3); !found || val != types.Int(5) {
		t.Errorf("State().Value(3) got (%v, %v), wanted (5, true)", val, found)
	}
}
