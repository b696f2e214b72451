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

import "github.com/nimbuspolicy/celrt/common/types/ref"

// EvalState tracks the value computed for each expression id during one
// Eval call, populated by the TrackState/ExhaustiveEval decorators and
// surfaced to callers via EvalDetails (spec §6 "evaluation listener").
type EvalState interface {
	// Value returns the value associated with an expression id, or false if
	// that id was never evaluated (e.g. a short-circuited branch).
	Value(id int64) (ref.Val, bool)
}

// MutableEvalState permits recording values during evaluation.
type MutableEvalState interface {
	EvalState

	// SetValue associates an expression id with its computed value.
	SetValue(id int64, val ref.Val)
}

// NewEvalState returns an empty MutableEvalState.
func NewEvalState() MutableEvalState {
	return &defaultEvalState{exprValues: make(map[int64]ref.Val)}
}

type defaultEvalState struct {
	exprValues map[int64]ref.Val
}

func (s *defaultEvalState) Value(id int64) (ref.Val, bool) {
	val, found := s.exprValues[id]
	return val, found
}

func (s *defaultEvalState) SetValue(id int64, val ref.Val) {
	s.exprValues[id] = val
}
