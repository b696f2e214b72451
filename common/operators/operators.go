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

// Package operators defines the canonical function names used at call
// nodes of a checked expression tree.
package operators

// Symbolic names of operators as they appear at a call node. Binary and
// unary operators use the underscore-wrapped convention so that they sort
// and print distinctly from ordinary function identifiers.
const (
	Conditional   = "_?_:_"
	LogicalAnd    = "_&&_"
	LogicalOr     = "_||_"
	LogicalNot    = "!_"
	In            = "_in_"
	Equals        = "_==_"
	NotEquals     = "_!=_"
	Less          = "_<_"
	LessEquals    = "_<=_"
	Greater       = "_>_"
	GreaterEquals = "_>=_"
	Add           = "_+_"
	Subtract      = "_-_"
	Multiply      = "_*_"
	Divide        = "_/_"
	Modulo        = "_%_"
	Negate        = "-_"
	Index         = "_[_]"

	// Has, All, Exists, ExistsOne, Map, Filter are macro names; by the time
	// a checked AST reaches the interpreter they have already been expanded
	// into comprehensions. The names are listed for reference only; nothing
	// prevents registering a function under one of them.
	Has       = "has"
	All       = "all"
	Exists    = "exists"
	ExistsOne = "exists_one"
	Map       = "map"
	Filter    = "filter"
)

// Special forms and internal functions (spec §4.G). The planner handles
// OptionalOr, OptionalOrValue, SelectOptionalField and CelBlockList itself;
// NotStrictlyFalse and TypeConversion are registered as ordinary overloads
// in the standard library and routed through the Dispatcher.
const (
	Identity            = "@identity"
	NotStrictlyFalse    = "@not_strictly_false"
	TypeConversion       = "type"
	OptionalOr          = "or"
	OptionalOrValue     = "orValue"
	SelectOptionalField = "_?._"
	CelBlockList        = "cel.@block"
)

var symbolic = map[string]string{
	"+":  Add,
	"-":  Subtract,
	"*":  Multiply,
	"/":  Divide,
	"%":  Modulo,
	"in": In,
	"==": Equals,
	"!=": NotEquals,
	"<":  Less,
	"<=": LessEquals,
	">":  Greater,
	">=": GreaterEquals,
}

// Find returns the operator name associated with a raw symbolic token, such
// as mapping "+" to Add, if one is registered.
func Find(text string) (string, bool) {
	op, found := symbolic[text]
	return op, found
}

// IsSpecialForm reports whether the function name is one of the special
// forms above or a conditional/logical operator. NotStrictlyFalse and
// TypeConversion are included even though the interpreter dispatches them
// through the overload table.
func IsSpecialForm(function string) bool {
	switch function {
	case Identity, Conditional, LogicalAnd, LogicalOr, NotStrictlyFalse,
		TypeConversion, OptionalOr, OptionalOrValue, SelectOptionalField, CelBlockList:
		return true
	}
	return false
}
