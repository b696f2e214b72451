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

// baseIterator provides the ref.Val boilerplate shared by every
// traits.Iterator implementation (listIterator, mapIterator); an iterator
// is itself a value only so it can flow through the same interfaces as any
// other result, it is never produced as an expression's final value.
type baseIterator struct{}

func (*baseIterator) ConvertToNative(typeDesc reflect.Type) (any, error) {
	return nil, fmt.Errorf("type conversion not supported for 'iterator'")
}

func (*baseIterator) ConvertToType(typeVal ref.Type) ref.Val {
	return NewErr("type conversion not supported for 'iterator'")
}

func (*baseIterator) Equal(other ref.Val) ref.Val {
	return False
}

func (*baseIterator) Type() ref.Type {
	return IteratorType
}

func (*baseIterator) Value() any {
	return nil
}

// IteratorType is the runtime type of a traits.Iterator value.
var IteratorType = NewTypeValue("iterator")
