// Copyright 2022 Google LLC
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
	"strconv"
	"strings"

	"github.com/nimbuspolicy/celrt/common/types/ref"
	"github.com/nimbuspolicy/celrt/common/types/traits"
)

// Format renders val as a CEL-like literal for diagnostics and logging. The
// result is for human consumption only; do not parse it back or depend on
// its stability across releases.
func Format(val ref.Val) string {
	var sb strings.Builder
	formatTo(&sb, val)
	return sb.String()
}

func formatTo(sb *strings.Builder, val ref.Val) {
	switch v := val.(type) {
	case nil:
		sb.WriteString("null")
	case Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(v)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Uint:
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
		sb.WriteByte('u')
	case Double:
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case String:
		sb.WriteString(strconv.Quote(string(v)))
	case Bytes:
		sb.WriteString("b")
		sb.WriteString(strconv.Quote(string(v)))
	case *Err:
		sb.WriteString("error(")
		sb.WriteString(strconv.Quote(v.String()))
		sb.WriteByte(')')
	case *Unknown:
		sb.WriteString(v.String())
	case *Optional:
		if !v.HasValue() {
			sb.WriteString("optional.none()")
			return
		}
		sb.WriteString("optional.of(")
		formatTo(sb, v.GetValue())
		sb.WriteByte(')')
	case traits.Lister:
		formatList(sb, v)
	case traits.Mapper:
		formatMap(sb, v)
	case ref.Type:
		sb.WriteString("type(")
		sb.WriteString(v.TypeName())
		sb.WriteByte(')')
	default:
		sb.WriteString(val.Type().TypeName())
	}
}

func formatList(sb *strings.Builder, l traits.Lister) {
	sb.WriteByte('[')
	sz := int(l.Size().(Int))
	for i := 0; i < sz; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatTo(sb, l.Get(Int(i)))
	}
	sb.WriteByte(']')
}

func formatMap(sb *strings.Builder, m traits.Mapper) {
	sb.WriteByte('{')
	it := m.Iterator()
	first := true
	for it.HasNext() == True {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		key := it.Next()
		formatTo(sb, key)
		sb.WriteString(": ")
		formatTo(sb, m.Get(key))
	}
	sb.WriteByte('}')
}
