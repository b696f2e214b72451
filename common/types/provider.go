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
	"reflect"
	"sync"
	"time"

	"github.com/stoewer/go-strcase"
	dpb "google.golang.org/protobuf/types/known/durationpb"
	tpb "google.golang.org/protobuf/types/known/timestamppb"

	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

// nativeAdapter is a reflection-based ref.TypeAdapter over plain Go values:
// primitives, time.Time/time.Duration, the protobuf well-known Duration and
// Timestamp messages, slices, maps, and structs. A host embedding a richer
// type system (e.g. a proto descriptor pool) supplies its own
// ref.TypeAdapter; DefaultTypeAdapter is the one celrt runs with when none
// is supplied.
type nativeAdapter struct{}

// DefaultTypeAdapter is the package-wide nativeAdapter instance. List element
// access and nativeTypeProvider.NewValue always use it; the interpreter uses
// it wherever a caller has not supplied its own adapter.
var DefaultTypeAdapter ref.TypeAdapter = &nativeAdapter{}

// NativeToValue implements ref.TypeAdapter.
func (a *nativeAdapter) NativeToValue(value any) ref.Val {
	return NativeToValue(a, value)
}

// NativeToValue converts a native Go value to the corresponding ref.Val,
// using adapter to resolve nested elements (list/map members, struct
// fields). Exported so a host's own ref.TypeAdapter can delegate the
// primitive cases to it before falling back to its own message
// construction.
func NativeToValue(adapter ref.TypeAdapter, value any) ref.Val {
	if value == nil {
		return NullValue
	}
	switch v := value.(type) {
	case ref.Val:
		return v
	case bool:
		return Bool(v)
	case int:
		return Int(v)
	case int32:
		return Int(v)
	case int64:
		return Int(v)
	case uint:
		return Uint(v)
	case uint32:
		return Uint(v)
	case uint64:
		return Uint(v)
	case float32:
		return Double(v)
	case float64:
		return Double(v)
	case string:
		return String(v)
	case []byte:
		return Bytes(v)
	case time.Time:
		return NewTimestamp(v)
	case time.Duration:
		return NewDuration(v)
	case *tpb.Timestamp:
		return Timestamp{Timestamp: v}
	case *dpb.Duration:
		return Duration{Duration: v}
	case []string:
		return NewStringList(v)
	case map[string]string:
		return NewStringStringMap(adapter, v)
	}

	refValue := reflect.ValueOf(value)
	switch refValue.Kind() {
	case reflect.Ptr:
		if refValue.IsNil() {
			return NullValue
		}
		return NativeToValue(adapter, refValue.Elem().Interface())
	case reflect.Slice, reflect.Array:
		return NewDynamicList(value)
	case reflect.Map:
		return NewDynamicMap(adapter, value)
	case reflect.Struct:
		return newNativeStruct(adapter, value, refValue)
	}
	return NewErr("unsupported native conversion from value '%v' (%T)", value, value)
}

// nativeStruct adapts an arbitrary Go struct into a traits.Mapper keyed by
// the struct's field names translated to lower_snake_case, the convention
// CEL messages use for proto-derived field names.
type nativeStruct struct {
	ref.TypeAdapter
	value    any
	refValue reflect.Value
	fields   map[string]int
}

func newNativeStruct(adapter ref.TypeAdapter, value any, refValue reflect.Value) *nativeStruct {
	t := refValue.Type()
	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		fields[strcase.SnakeCase(f.Name)] = i
	}
	return &nativeStruct{TypeAdapter: adapter, value: value, refValue: refValue, fields: fields}
}

// Contains implements traits.Container.
func (s *nativeStruct) Contains(index ref.Val) ref.Val {
	_, found := s.Find(index)
	return Bool(found)
}

// ConvertToNative implements ref.Val.
func (s *nativeStruct) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if s.refValue.Type().AssignableTo(typeDesc) {
		return s.value, nil
	}
	if s.refValue.Type().ConvertibleTo(typeDesc) {
		return s.refValue.Convert(typeDesc).Interface(), nil
	}
	return nil, NewTypeConversionError(s.refValue.Type().Name(), typeDesc.Name())
}

// ConvertToType implements ref.Val.
func (s *nativeStruct) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case MapType:
		return s
	case TypeType:
		return NewObjectTypeValue(s.refValue.Type().Name())
	}
	return NewTypeConversionError(s.refValue.Type().Name(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (s *nativeStruct) Equal(other ref.Val) ref.Val {
	otherStruct, ok := other.(*nativeStruct)
	if !ok {
		return False
	}
	return Bool(reflect.DeepEqual(s.value, otherStruct.value))
}

// Find implements traits.Mapper.
func (s *nativeStruct) Find(key ref.Val) (ref.Val, bool) {
	strKey, ok := key.(String)
	if !ok {
		return ValOrErr(key, "no such overload"), false
	}
	idx, found := s.fields[string(strKey)]
	if !found {
		return nil, false
	}
	return s.NativeToValue(s.refValue.Field(idx).Interface()), true
}

// Get implements traits.Indexer.
func (s *nativeStruct) Get(key ref.Val) ref.Val {
	v, found := s.Find(key)
	if !found {
		return ValOrErr(v, "no such key: %v", key)
	}
	return v
}

// Iterator implements traits.Iterable.
func (s *nativeStruct) Iterator() traits.Iterator {
	keys := make([]string, 0, len(s.fields))
	for name := range s.fields {
		keys = append(keys, name)
	}
	return &nativeStructIterator{baseIterator: &baseIterator{}, owner: s, keys: keys}
}

// Size implements traits.Sizer.
func (s *nativeStruct) Size() ref.Val {
	return Int(len(s.fields))
}

// IsZeroValue implements traits.Zeroer.
func (s *nativeStruct) IsZeroValue() bool {
	return s.refValue.IsZero()
}

// Type implements ref.Val.
func (s *nativeStruct) Type() ref.Type {
	return NewObjectTypeValue(s.refValue.Type().Name())
}

// Value implements ref.Val.
func (s *nativeStruct) Value() any {
	return s.value
}

type nativeStructIterator struct {
	*baseIterator
	owner  *nativeStruct
	keys   []string
	cursor int
}

// HasNext implements traits.Iterator.
func (it *nativeStructIterator) HasNext() ref.Val {
	return Bool(it.cursor < len(it.keys))
}

// Next implements traits.Iterator.
func (it *nativeStructIterator) Next() ref.Val {
	if it.HasNext() != True {
		return nil
	}
	key := it.keys[it.cursor]
	it.cursor++
	return String(key)
}

// nativeTypeProvider is a minimal ref.TypeProvider over Go structs
// registered by name; it replaces the descriptor-pool-backed provider a
// proto-aware host would supply, per spec §1/§6 which scopes a full
// descriptor pool out of celrt. Hosts needing richer type resolution
// (dynamic proto messages, enum lookups against a FileDescriptorSet)
// implement ref.TypeProvider themselves.
type nativeTypeProvider struct {
	mu      sync.RWMutex
	structs map[string]reflect.Type
	idents  map[string]ref.Val
}

// NewNativeTypeProvider returns an empty ref.TypeProvider that resolves
// struct types and identifiers registered with RegisterStruct/RegisterIdent.
func NewNativeTypeProvider() *nativeTypeProvider {
	return &nativeTypeProvider{
		structs: make(map[string]reflect.Type),
		idents:  make(map[string]ref.Val),
	}
}

// RegisterStruct associates typeName with the Go struct type of zeroValue,
// enabling NewValue(typeName, ...) to construct instances of it.
func (p *nativeTypeProvider) RegisterStruct(typeName string, zeroValue any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.structs[typeName] = reflect.TypeOf(zeroValue)
}

// RegisterIdent associates name (e.g. an enum constant) with a constant Val.
func (p *nativeTypeProvider) RegisterIdent(name string, val ref.Val) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idents[name] = val
}

// FindIdent implements ref.TypeProvider.
func (p *nativeTypeProvider) FindIdent(identName string) (ref.Val, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, found := p.idents[identName]
	return v, found
}

// FindStructFieldType implements ref.TypeProvider.
func (p *nativeTypeProvider) FindStructFieldType(structType, fieldName string) (*ref.FieldType, bool) {
	p.mu.RLock()
	t, found := p.structs[structType]
	p.mu.RUnlock()
	if !found {
		return nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" || strcase.SnakeCase(f.Name) != fieldName {
			continue
		}
		fieldIndex := i
		return &ref.FieldType{
			IsSet: func(target any) bool {
				rv := reflect.ValueOf(target)
				if rv.Kind() == reflect.Ptr {
					rv = rv.Elem()
				}
				return !rv.Field(fieldIndex).IsZero()
			},
			GetFrom: func(target any) (any, error) {
				rv := reflect.ValueOf(target)
				if rv.Kind() == reflect.Ptr {
					rv = rv.Elem()
				}
				return rv.Field(fieldIndex).Interface(), nil
			},
		}, true
	}
	return nil, false
}

// NewValue implements ref.TypeProvider.
func (p *nativeTypeProvider) NewValue(structType string, fields map[string]ref.Val) ref.Val {
	p.mu.RLock()
	t, found := p.structs[structType]
	p.mu.RUnlock()
	if !found {
		return NewErr("unknown type '%s'", structType)
	}
	inst := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		fieldVal, found := fields[strcase.SnakeCase(f.Name)]
		if !found {
			continue
		}
		native, err := fieldVal.ConvertToNative(f.Type)
		if err != nil {
			return WrapErr(err)
		}
		inst.Field(i).Set(reflect.ValueOf(native))
	}
	return NativeToValue(DefaultTypeAdapter, inst.Interface())
}
