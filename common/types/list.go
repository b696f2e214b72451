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
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

// NewDynamicList returns a traits.Lister with heterogeneous elements backed
// by reflection over a native Go slice/array.
func NewDynamicList(value any) traits.Lister {
	return &baseList{value, reflect.ValueOf(value)}
}

// NewStringList returns a traits.Lister specialized for []string, avoiding
// a reflection round trip per element access.
func NewStringList(elems []string) traits.Lister {
	return &stringList{
		baseList: NewDynamicList(elems).(*baseList),
		elems:    elems}
}

// baseList wraps a list of elements of any type, resolved via reflection.
type baseList struct {
	value    any
	refValue reflect.Value
}

// concatList is the lazy view produced by `list1 + list2`; it never copies
// the underlying elements until ConvertToNative or Value forces it.
type concatList struct {
	value    any
	prevList traits.Lister
	nextList traits.Lister
}

// stringList specializes the Lister interface for []string.
type stringList struct {
	*baseList
	elems []string
}

// Add implements traits.Adder.
func (l *baseList) Add(other ref.Val) ref.Val {
	if other.Type() != ListType {
		return ValOrErr(other, "no such overload")
	}
	return &concatList{prevList: l, nextList: other.(traits.Lister)}
}

// Add implements traits.Adder.
func (l *concatList) Add(other ref.Val) ref.Val {
	if other.Type() != ListType {
		return ValOrErr(other, "no such overload")
	}
	return &concatList{prevList: l, nextList: other.(traits.Lister)}
}

// Add implements traits.Adder.
func (l *stringList) Add(other ref.Val) ref.Val {
	if other.Type() != ListType {
		return ValOrErr(other, "no such overload")
	}
	otherList := other.(traits.Lister)
	if otherList.Size() == IntZero {
		return l
	}
	if otherStrList, ok := otherList.(*stringList); ok {
		concatElems := append(append([]string{}, l.elems...), otherStrList.elems...)
		return NewStringList(concatElems)
	}
	return &concatList{prevList: l.baseList, nextList: otherList}
}

// Contains implements traits.Container.
func (l *baseList) Contains(elem ref.Val) ref.Val {
	if IsUnknownOrError(elem) {
		return elem
	}
	for i := Int(0); i < l.Size().(Int); i++ {
		if l.Get(i).Equal(elem) == True {
			return True
		}
	}
	return False
}

// Contains implements traits.Container.
func (l *concatList) Contains(elem ref.Val) ref.Val {
	return Bool(l.prevList.Contains(elem) == True || l.nextList.Contains(elem) == True)
}

// ConvertToNative implements ref.Val.
func (l *baseList) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if reflect.TypeOf(l.value).AssignableTo(typeDesc) {
		return l.value, nil
	}
	thisElem := l.refValue.Type().Elem()
	nativeElem := typeDesc.Elem()
	if nativeElem.ConvertibleTo(thisElem) {
		elemCount := int(l.Size().(Int))
		nativeList := reflect.MakeSlice(typeDesc, elemCount, elemCount)
		for i := 0; i < elemCount; i++ {
			elem := l.Get(Int(i))
			nativeElemVal, err := elem.ConvertToNative(nativeElem)
			if err != nil {
				return nil, err
			}
			nativeList.Index(i).Set(reflect.ValueOf(nativeElemVal))
		}
		return nativeList.Interface(), nil
	}
	return nil, fmt.Errorf("no conversion found from list type to native type; list elem: %v, native elem type: %v", thisElem, nativeElem)
}

// ConvertToNative implements ref.Val.
func (l *concatList) ConvertToNative(typeDesc reflect.Type) (any, error) {
	combined := &baseList{value: l.Value(), refValue: reflect.ValueOf(l.Value())}
	return combined.ConvertToNative(typeDesc)
}

// ConvertToNative implements ref.Val.
func (l *stringList) ConvertToNative(typeDesc reflect.Type) (any, error) {
	return l.elems, nil
}

// ConvertToType implements ref.Val.
func (l *baseList) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case ListType:
		return l
	case TypeType:
		return ListType
	}
	return NewTypeConversionError(ListType.TypeName(), typeVal.TypeName())
}

// ConvertToType implements ref.Val.
func (l *concatList) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case ListType:
		return l
	case TypeType:
		return ListType
	}
	return NewTypeConversionError(ListType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (l *baseList) Equal(other ref.Val) ref.Val {
	return listEqual(l, other)
}

// Equal implements ref.Val.
func (l *concatList) Equal(other ref.Val) ref.Val {
	return listEqual(l, other)
}

func listEqual(l traits.Lister, other ref.Val) ref.Val {
	if ListType != other.Type() {
		return False
	}
	otherList := other.(traits.Lister)
	if l.Size() != otherList.Size() {
		return False
	}
	for i := IntZero; i < l.Size().(Int); i++ {
		if l.Get(i).Equal(otherList.Get(i)) != True {
			return False
		}
	}
	return True
}

// Get implements traits.Indexer.
func (l *baseList) Get(index ref.Val) ref.Val {
	i, ok := index.(Int)
	if !ok {
		return ValOrErr(index, "unsupported index type '%s' in list", index.Type())
	}
	if i < 0 || i >= l.Size().(Int) {
		return NewErr("index '%d' out of range in list size '%d'", i, l.Size())
	}
	elem := l.refValue.Index(int(i)).Interface()
	return DefaultTypeAdapter.NativeToValue(elem)
}

// Get implements traits.Indexer.
func (l *concatList) Get(index ref.Val) ref.Val {
	i, ok := index.(Int)
	if !ok {
		return ValOrErr(index, "unsupported index type '%s' in list", index.Type())
	}
	if i < l.prevList.Size().(Int) {
		return l.prevList.Get(i)
	}
	return l.nextList.Get(i - l.prevList.Size().(Int))
}

// Get implements traits.Indexer.
func (l *stringList) Get(index ref.Val) ref.Val {
	i, ok := index.(Int)
	if !ok {
		return ValOrErr(index, "unsupported index type '%s' in list", index.Type())
	}
	if i < 0 || i >= l.Size().(Int) {
		return NewErr("index '%d' out of range in list size '%d'", i, l.Size())
	}
	return String(l.elems[i])
}

// Iterator implements traits.Iterable.
func (l *baseList) Iterator() traits.Iterator {
	return &listIterator{baseIterator: &baseIterator{}, listValue: l, len: l.Size().(Int)}
}

// Iterator implements traits.Iterable.
func (l *concatList) Iterator() traits.Iterator {
	return &listIterator{baseIterator: &baseIterator{}, listValue: l, len: l.Size().(Int)}
}

// Size implements traits.Sizer.
func (l *baseList) Size() ref.Val {
	return Int(l.refValue.Len())
}

// Size implements traits.Sizer.
func (l *concatList) Size() ref.Val {
	return l.prevList.Size().(Int).Add(l.nextList.Size())
}

// Size implements traits.Sizer.
func (l *stringList) Size() ref.Val {
	return Int(len(l.elems))
}

// IsZeroValue implements traits.Zeroer.
func (l *baseList) IsZeroValue() bool {
	return l.refValue.Len() == 0
}

// Type implements ref.Val.
func (l *baseList) Type() ref.Type {
	return ListType
}

// Type implements ref.Val.
func (l *concatList) Type() ref.Type {
	return ListType
}

// Value implements ref.Val.
func (l *baseList) Value() any {
	return l.value
}

// Value implements ref.Val.
func (l *concatList) Value() any {
	if l.value == nil {
		prevVal := reflect.ValueOf(l.prevList.Value())
		nextVal := reflect.ValueOf(l.nextList.Value())
		size := int(l.Size().(Int))
		merged := make([]any, size)
		prevLen := int(l.prevList.Size().(Int))
		for i := 0; i < prevLen; i++ {
			merged[i] = prevVal.Index(i).Interface()
		}
		for j := 0; j < int(l.nextList.Size().(Int)); j++ {
			merged[prevLen+j] = nextVal.Index(j).Interface()
		}
		l.value = merged
	}
	return l.value
}

type listIterator struct {
	*baseIterator
	listValue traits.Lister
	cursor    Int
	len       Int
}

// HasNext implements traits.Iterator.
func (it *listIterator) HasNext() ref.Val {
	return Bool(it.cursor < it.len)
}

// Next implements traits.Iterator.
func (it *listIterator) Next() ref.Val {
	if it.HasNext() == True {
		index := it.cursor
		it.cursor++
		return it.listValue.Get(index)
	}
	return nil
}

// IsList returns whether elem is the ListType singleton or a Val of that
// type.
func IsList(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == ListType
	case ref.Val:
		return IsList(v.Type())
	}
	return false
}
