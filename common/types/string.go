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
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// String implements ref.Val and supports concatenation, comparison,
// regular-expression matching (RE2, via the standard library regexp
// package, which already is CEL's `matches()` semantics), and size.
type String string

// Add implements traits.Adder.
func (s String) Add(other ref.Val) ref.Val {
	otherString, ok := other.(String)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	return s + otherString
}

// Compare implements traits.Comparer.
func (s String) Compare(other ref.Val) ref.Val {
	otherString, ok := other.(String)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	return Int(strings.Compare(string(s), string(otherString)))
}

// ConvertToNative implements ref.Val.
func (s String) ConvertToNative(typeDesc reflect.Type) (any, error) {
	switch typeDesc.Kind() {
	case reflect.String:
		return reflect.ValueOf(string(s)).Convert(typeDesc).Interface(), nil
	case reflect.Interface:
		if reflect.TypeOf(s).Implements(typeDesc) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unsupported native conversion from string to '%v'", typeDesc)
}

// ConvertToType implements ref.Val.
func (s String) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case IntType:
		if n, err := strconv.ParseInt(string(s), 10, 64); err == nil {
			return Int(n)
		}
	case UintType:
		if n, err := strconv.ParseUint(string(s), 10, 64); err == nil {
			return Uint(n)
		}
	case DoubleType:
		if n, err := strconv.ParseFloat(string(s), 64); err == nil {
			return Double(n)
		}
	case BoolType:
		if b, err := strconv.ParseBool(string(s)); err == nil {
			return Bool(b)
		}
	case BytesType:
		return Bytes(s)
	case DurationType:
		if d, err := time.ParseDuration(string(s)); err == nil {
			return NewDuration(d)
		}
	case TimestampType:
		if t, err := time.Parse(time.RFC3339, string(s)); err == nil {
			return NewTimestamp(t)
		}
	case StringType:
		return s
	case TypeType:
		return StringType
	}
	return NewTypeConversionError(StringType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (s String) Equal(other ref.Val) ref.Val {
	otherString, ok := other.(String)
	if !ok {
		return False
	}
	return Bool(s == otherString)
}

// Match implements traits.Matcher, i.e. the `matches()` overload. CEL's
// regular-expression dialect is RE2, which is exactly what the standard
// library's regexp package implements, so no additional regex engine is
// needed here.
func (s String) Match(pattern ref.Val) ref.Val {
	patternStr, ok := pattern.(String)
	if !ok {
		return ValOrErr(pattern, "no such overload")
	}
	matched, err := regexp.MatchString(string(patternStr), string(s))
	if err != nil {
		return WrapErr(err)
	}
	return Bool(matched)
}

// Size implements traits.Sizer, counting Unicode code points rather than
// bytes.
func (s String) Size() ref.Val {
	return Int(len([]rune(string(s))))
}

// IsZeroValue implements traits.Zeroer.
func (s String) IsZeroValue() bool {
	return len(s) == 0
}

// Type implements ref.Val.
func (s String) Type() ref.Type {
	return StringType
}

// Value implements ref.Val.
func (s String) Value() any {
	return string(s)
}

// IsString returns whether elem is the StringType singleton or a Val of
// that type.
func IsString(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == StringType
	case ref.Val:
		return IsString(v.Type())
	}
	return false
}
