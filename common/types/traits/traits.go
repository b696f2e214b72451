// Copyright 2019 Google LLC
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

// Package traits provides a set of interfaces that a type may implement to
// participate in one of the operator overloads supported by the standard
// function library (spec §4.G). A Type advertises which traits it supports
// via a bitmask (HasTrait), which the Dispatcher uses to match an overload
// against the runtime type of its first argument without a type switch on
// every concrete type.
package traits

import "github.com/nimbuspolicy/celrt/common/types/ref"

// Trait bitmask values. A Type's trait mask is the bitwise OR of the
// traits it implements.
const (
	AdderType = 1 << iota
	ComparerType
	ContainerType
	DividerType
	FieldTesterType
	IndexerType
	IterableType
	IteratorType
	MatcherType
	ModderType
	MultiplierType
	NegatorType
	ReceiverType
	SizerType
	SubtractorType
	ZeroerType
)

// Adder supports the `_+_` overload, e.g. string, bytes, list, duration.
type Adder interface {
	Add(other ref.Val) ref.Val
}

// Subtractor supports the `_-_` overload.
type Subtractor interface {
	Subtract(subtrahend ref.Val) ref.Val
}

// Multiplier supports the `_*_` overload.
type Multiplier interface {
	Multiply(other ref.Val) ref.Val
}

// Divider supports the `_/_` overload.
type Divider interface {
	Divide(denominator ref.Val) ref.Val
}

// Modder supports the `_%_` overload.
type Modder interface {
	Modulo(denominator ref.Val) ref.Val
}

// Negator supports unary negation, `-_`.
type Negator interface {
	Negate() ref.Val
}

// Comparer supports ordering comparisons, returning an Int(-1), Int(0), or
// Int(1), or an error/unknown if the comparison could not be made (e.g. a
// NaN operand, spec §4.E/§8).
type Comparer interface {
	Compare(other ref.Val) ref.Val
}

// Sizer supports the `size()` overload.
type Sizer interface {
	Size() ref.Val
}

// Indexer supports `_[_]` for lists (int64 key) and maps (qualifier-typed
// key).
type Indexer interface {
	Get(index ref.Val) ref.Val
}

// Container supports the `in` operator and `has()` test on maps.
type Container interface {
	Contains(value ref.Val) ref.Val
}

// FieldTester supports `has()` on message-like values whose fields are not
// simply map keys.
type FieldTester interface {
	IsSet(field ref.Val) ref.Val
}

// Iterable produces an Iterator, used by comprehensions over lists and
// maps.
type Iterable interface {
	Iterator() Iterator
}

// Iterator is a stateful cursor produced by Iterable.
type Iterator interface {
	ref.Val

	// HasNext returns true if there are more elements to visit.
	HasNext() ref.Val

	// Next returns the next element. Only valid if HasNext returned true.
	Next() ref.Val
}

// Matcher supports the `matches()` regular-expression overload.
type Matcher interface {
	Match(pattern ref.Val) ref.Val
}

// Receiver supports instance-style method dispatch, e.g. `x.getDayOfWeek()`.
type Receiver interface {
	Receive(function string, overload string, args []ref.Val) ref.Val
}

// Zeroer reports whether a value is the zero value of its type.
type Zeroer interface {
	IsZeroValue() bool
}

// Mapper is the refinement of Indexer/Iterable/Sizer/Container implemented
// by CEL map values; it additionally exposes Find, which returns (value,
// found) instead of an error Val for a missing key.
type Mapper interface {
	Indexer
	Iterable
	Sizer
	Container

	// Find returns the value at the given key and whether it was present.
	Find(key ref.Val) (ref.Val, bool)
}

// Lister is the refinement of Indexer/Iterable/Sizer/Adder implemented by
// CEL list values.
type Lister interface {
	Indexer
	Iterable
	Sizer
	Adder
}
