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
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

// NewDynamicMap returns a traits.Mapper backed by a native Go map of
// arbitrary key/value types, resolved via reflection.
func NewDynamicMap(adapter ref.TypeAdapter, value any) traits.Mapper {
	return &baseMap{
		TypeAdapter: adapter,
		value:       value,
		refValue:    reflect.ValueOf(value)}
}

// NewStringStringMap returns a specialized traits.Mapper for the common
// case of string keys and values, avoiding a reflection round trip per
// lookup.
func NewStringStringMap(adapter ref.TypeAdapter, value map[string]string) traits.Mapper {
	return &stringMap{
		baseMap:   &baseMap{TypeAdapter: adapter, value: value, refValue: reflect.ValueOf(value)},
		mapStrStr: value,
	}
}

// NewInsertOrderedMap returns a traits.Mapper for a CEL map literal: unlike
// NewDynamicMap's reflection-based Iterator, which inherits Go's randomized
// native map order, Iterator here walks keys in first-insertion order. A
// repeated key keeps its original position and only overwrites the stored
// value, matching plain Go map-assignment semantics.
func NewInsertOrderedMap(adapter ref.TypeAdapter, keys []ref.Val, value map[ref.Val]ref.Val) traits.Mapper {
	return &insertOrderedMap{
		baseMap: &baseMap{TypeAdapter: adapter, value: value, refValue: reflect.ValueOf(value)},
		keys:    keys,
	}
}

// insertOrderedMap specializes baseMap so that Iterator (and therefore
// comprehensions and ConvertToNative) walk the map's keys in the order they
// were first inserted (spec §4.H "For maps, iterate the key set in
// insertion order", §5 "insertion order for map literals").
type insertOrderedMap struct {
	*baseMap
	keys []ref.Val
}

// Iterator implements traits.Iterable.
func (m *insertOrderedMap) Iterator() traits.Iterator {
	return &refValIterator{baseIterator: &baseIterator{}, TypeAdapter: m.TypeAdapter, keys: m.keys}
}

// refValIterator walks a []ref.Val directly, with no reflection round trip,
// preserving whatever order the slice was built in.
type refValIterator struct {
	*baseIterator
	ref.TypeAdapter
	keys   []ref.Val
	cursor int
}

// HasNext implements traits.Iterator.
func (it *refValIterator) HasNext() ref.Val {
	return Bool(it.cursor < len(it.keys))
}

// Next implements traits.Iterator.
func (it *refValIterator) Next() ref.Val {
	if it.HasNext() == True {
		key := it.keys[it.cursor]
		it.cursor++
		return key
	}
	return nil
}

// baseMap is a reflection-based map implementation handling any Go map
// type.
type baseMap struct {
	ref.TypeAdapter
	value    any
	refValue reflect.Value
}

// Contains implements traits.Container.
func (m *baseMap) Contains(index ref.Val) ref.Val {
	val, found := m.Find(index)
	if !found && val != nil && IsUnknownOrError(val) {
		return val
	}
	return Bool(found)
}

// ConvertToNative implements ref.Val.
func (m *baseMap) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if reflect.TypeOf(m).AssignableTo(typeDesc) {
		return m, nil
	}
	isPtr := false
	if typeDesc.Kind() == reflect.Ptr {
		tk := typeDesc
		typeDesc = typeDesc.Elem()
		if typeDesc.Kind() == reflect.Ptr {
			return nil, fmt.Errorf("unsupported type conversion to '%v'", tk)
		}
		isPtr = true
	}

	thisType := m.refValue.Type()
	thisKeyKind := thisType.Key().Kind()
	thisElemKind := thisType.Elem().Kind()

	switch typeDesc.Kind() {
	case reflect.Map:
		otherKey := typeDesc.Key()
		otherElem := typeDesc.Elem()
		if otherKey.Kind() == thisKeyKind && otherElem.Kind() == thisElemKind {
			return m.value, nil
		}
		elemCount := int(m.Size().(Int))
		nativeMap := reflect.MakeMapWithSize(typeDesc, elemCount)
		it := m.Iterator()
		for it.HasNext() == True {
			key := it.Next()
			refKeyValue, err := key.ConvertToNative(otherKey)
			if err != nil {
				return nil, err
			}
			refElemValue, err := m.Get(key).ConvertToNative(otherElem)
			if err != nil {
				return nil, err
			}
			nativeMap.SetMapIndex(reflect.ValueOf(refKeyValue), reflect.ValueOf(refElemValue))
		}
		return nativeMap.Interface(), nil
	case reflect.Struct:
		if thisKeyKind != reflect.String && thisKeyKind != reflect.Interface {
			break
		}
		nativeStructPtr := reflect.New(typeDesc)
		nativeStruct := nativeStructPtr.Elem()
		it := m.Iterator()
		for it.HasNext() == True {
			key := it.Next()
			fieldName := string(key.ConvertToType(StringType).(String))
			switch len(fieldName) {
			case 0:
				return nil, errors.New("type conversion error, unsupported empty field")
			case 1:
				fieldName = strings.ToUpper(fieldName)
			default:
				fieldName = strings.ToUpper(fieldName[0:1]) + fieldName[1:]
			}
			fieldRef := nativeStruct.FieldByName(fieldName)
			if !fieldRef.IsValid() {
				return nil, fmt.Errorf("type conversion error, no such field '%s' in type '%v'", fieldName, typeDesc)
			}
			fieldValue, err := m.Get(key).ConvertToNative(fieldRef.Type())
			if err != nil {
				return nil, err
			}
			fieldRef.Set(reflect.ValueOf(fieldValue))
		}
		if isPtr {
			return nativeStructPtr.Interface(), nil
		}
		return nativeStruct.Interface(), nil
	}
	return nil, fmt.Errorf("type conversion error from map to '%v'", typeDesc)
}

// ConvertToType implements ref.Val.
func (m *baseMap) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case MapType:
		return m
	case TypeType:
		return MapType
	}
	return NewTypeConversionError(MapType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (m *baseMap) Equal(other ref.Val) ref.Val {
	if MapType != other.Type() {
		return False
	}
	otherMap := other.(traits.Mapper)
	if m.Size() != otherMap.Size() {
		return False
	}
	it := m.Iterator()
	for it.HasNext() == True {
		key := it.Next()
		thisVal, _ := m.Find(key)
		otherVal, found := otherMap.Find(key)
		if !found {
			if otherVal == nil {
				return False
			}
			return ValOrErr(otherVal, "no such overload")
		}
		valEq := thisVal.Equal(otherVal)
		if valEq != True {
			return valEq
		}
	}
	return True
}

// Find implements traits.Mapper. An Int, Uint, or Double key matches the
// entry whose key is numerically equal to it, so 1, 1u, and 1.0 name the
// same entry.
func (m *baseMap) Find(key ref.Val) (ref.Val, bool) {
	if IsUnknownOrError(key) {
		return key, false
	}
	switch key.(type) {
	case Int, Uint, Double:
		for _, k := range m.refValue.MapKeys() {
			if m.NativeToValue(k.Interface()).Equal(key) == True {
				return m.NativeToValue(m.refValue.MapIndex(k).Interface()), true
			}
		}
		return nil, false
	}
	thisKeyType := m.refValue.Type().Key()
	nativeKey, err := key.ConvertToNative(thisKeyType)
	if err != nil {
		return WrapErr(err), false
	}
	value := m.refValue.MapIndex(reflect.ValueOf(nativeKey))
	if !value.IsValid() {
		return nil, false
	}
	return m.NativeToValue(value.Interface()), true
}

// Get implements traits.Indexer.
func (m *baseMap) Get(key ref.Val) ref.Val {
	v, found := m.Find(key)
	if !found {
		return ValOrErr(v, "no such key: %v", key)
	}
	return v
}

// Iterator implements traits.Iterable. Iteration order over a native Go map
// is unspecified, matching Go's own map iteration guarantees. Map literals
// do not go through this path; see insertOrderedMap.
func (m *baseMap) Iterator() traits.Iterator {
	mapKeys := m.refValue.MapKeys()
	return &mapIterator{
		TypeAdapter: m.TypeAdapter,
		mapKeys:     mapKeys,
		len:         int(m.Size().(Int))}
}

// Size implements traits.Sizer.
func (m *baseMap) Size() ref.Val {
	return Int(m.refValue.Len())
}

// IsZeroValue implements traits.Zeroer.
func (m *baseMap) IsZeroValue() bool {
	return m.refValue.Len() == 0
}

// Type implements ref.Val.
func (m *baseMap) Type() ref.Type {
	return MapType
}

// Value implements ref.Val.
func (m *baseMap) Value() any {
	return m.value
}

// stringMap specializes baseMap for the common string-to-string case.
type stringMap struct {
	*baseMap
	mapStrStr map[string]string
}

// Contains implements traits.Container.
func (m *stringMap) Contains(index ref.Val) ref.Val {
	val, found := m.Find(index)
	if !found && val != nil && IsUnknownOrError(val) {
		return val
	}
	return Bool(found)
}

// ConvertToNative implements ref.Val.
func (m *stringMap) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if reflect.TypeOf(m).AssignableTo(typeDesc) {
		return m, nil
	}
	return m.baseMap.ConvertToNative(typeDesc)
}

// Find implements traits.Mapper.
func (m *stringMap) Find(key ref.Val) (ref.Val, bool) {
	strKey, ok := key.(String)
	if !ok {
		if IsUnknownOrError(key) {
			return key, false
		}
		return nil, false
	}
	val, found := m.mapStrStr[string(strKey)]
	if !found {
		return nil, false
	}
	return String(val), true
}

// Get implements traits.Indexer.
func (m *stringMap) Get(key ref.Val) ref.Val {
	v, found := m.Find(key)
	if !found {
		return ValOrErr(v, "no such key: %v", key)
	}
	return v
}

// Iterator implements traits.Iterable.
func (m *stringMap) Iterator() traits.Iterator {
	if !m.baseMap.refValue.IsValid() {
		m.baseMap.refValue = reflect.ValueOf(m.value)
	}
	return m.baseMap.Iterator()
}

// Size implements traits.Sizer.
func (m *stringMap) Size() ref.Val {
	return Int(len(m.mapStrStr))
}

type mapIterator struct {
	*baseIterator
	ref.TypeAdapter
	mapKeys []reflect.Value
	cursor  int
	len     int
}

// HasNext implements traits.Iterator.
func (it *mapIterator) HasNext() ref.Val {
	return Bool(it.cursor < it.len)
}

// Next implements traits.Iterator.
func (it *mapIterator) Next() ref.Val {
	if it.HasNext() == True {
		index := it.cursor
		it.cursor++
		refKey := it.mapKeys[index]
		return it.NativeToValue(refKey.Interface())
	}
	return nil
}
