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
	"fmt"

	"github.com/nimbuspolicy/celrt/interpreter/functions"
)

// Dispatcher resolves a function name written in an expression to the set of
// Overloads registered for it. A single function (e.g. `_+_`, `size`) may
// have several overloads differing in operand trait; which one applies to a
// given call is decided at evaluation time by matching the concrete operand
// type's trait mask (see evalBinary/evalUnary in interpretable.go), per the
// uniqueness-over-first-match rule: if more than one registered overload's
// trait matches the operand, the call is ambiguous and produces an error
// rather than silently picking one.
type Dispatcher interface {
	// Add registers one or more overloads. Registering two overloads for the
	// same function with the same OperandTrait (zero included) is an error,
	// since that trait could never disambiguate between them at call time.
	Add(overloads ...*functions.Overload) error

	// FindOverload returns every overload registered for function, in
	// registration order.
	FindOverload(function string) ([]*functions.Overload, bool)
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() Dispatcher {
	return &defaultDispatcher{
		overloads: make(map[string][]*functions.Overload),
	}
}

type defaultDispatcher struct {
	overloads map[string][]*functions.Overload
}

var _ Dispatcher = &defaultDispatcher{}

func (d *defaultDispatcher) Add(overloads ...*functions.Overload) error {
	for _, o := range overloads {
		if o.Operator == "" {
			return fmt.Errorf("overload missing a function name (Operator)")
		}
		for _, existing := range d.overloads[o.Operator] {
			if existing.OperandTrait == o.OperandTrait {
				return fmt.Errorf(
					"overload already exists for function '%s' with operand trait %d",
					o.Operator, o.OperandTrait)
			}
		}
		d.overloads[o.Operator] = append(d.overloads[o.Operator], o)
	}
	return nil
}

func (d *defaultDispatcher) FindOverload(function string) ([]*functions.Overload, bool) {
	overloads, found := d.overloads[function]
	return overloads, found
}
