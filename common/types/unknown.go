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
	"strings"
	"unicode"

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

var unspecifiedAttribute = &AttributeTrail{qualifierPath: []any{}}

// NewAttributeTrail creates a new simple attribute from a variable name.
func NewAttributeTrail(variable string) *AttributeTrail {
	if variable == "" {
		return unspecifiedAttribute
	}
	return &AttributeTrail{variable: variable}
}

// AttributeTrail names a variable together with an optional qualifier path
// — the concrete half of the spec §4.A/§4.B attribute model, as opposed to
// the wildcard-capable AttributePattern used to match against it. An
// attribute value corresponds to an absolute attribute: a field/index
// selection chain rooted at a top-level variable.
//
// Qualifier path elements are constrained to the AttributeQualifier type
// set: bool, int64, uint64, string.
type AttributeTrail struct {
	variable      string
	qualifierPath []any
}

// Equal returns whether two attribute trails name the same variable and
// qualifier path.
func (a *AttributeTrail) Equal(other *AttributeTrail) bool {
	if a.Variable() != other.Variable() || len(a.QualifierPath()) != len(other.QualifierPath()) {
		return false
	}
	for i, q := range a.QualifierPath() {
		if q != other.QualifierPath()[i] {
			return false
		}
	}
	return true
}

// Variable returns the variable name associated with the attribute.
func (a *AttributeTrail) Variable() string {
	return a.variable
}

// QualifierPath returns the qualifying fields/indices applied to the
// variable, in traversal order.
func (a *AttributeTrail) QualifierPath() []any {
	return a.qualifierPath
}

// String implements fmt.Stringer.
func (a *AttributeTrail) String() string {
	if a.variable == "" {
		return "<unspecified>"
	}
	var str strings.Builder
	str.WriteString(a.variable)
	for _, q := range a.qualifierPath {
		switch q := q.(type) {
		case bool, int64:
			fmt.Fprintf(&str, "[%v]", q)
		case uint64:
			fmt.Fprintf(&str, "[%vu]", q)
		case string:
			if isIdentifierCharacter(q) {
				fmt.Fprintf(&str, ".%v", q)
			} else {
				fmt.Fprintf(&str, "[%q]", q)
			}
		}
	}
	return str.String()
}

func isIdentifierCharacter(str string) bool {
	for _, c := range str {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			continue
		}
		return false
	}
	return true
}

// AttributeQualifier constrains the possible types which may qualify an
// attribute.
type AttributeQualifier interface {
	bool | int64 | uint64 | string
}

// QualifyAttribute appends a qualifier to an attribute trail, returning the
// same trail for chaining.
func QualifyAttribute[T AttributeQualifier](attr *AttributeTrail, qualifier T) *AttributeTrail {
	attr.qualifierPath = append(attr.qualifierPath, qualifier)
	return attr
}

// Unknown is the carried unknown-set value (spec §4.B): the set of
// expression ids whose evaluation was short-circuited because it touched an
// attribute present in the active AttributePattern set, each tagged with
// the concrete attribute trail it resolved to (or unspecifiedAttribute if
// none could be determined).
type Unknown struct {
	attributeTrails map[int64]*AttributeTrail
}

// NewUnknown creates an Unknown recording a single expression id/attribute
// pair. If attr is nil, unspecifiedAttribute is recorded instead.
func NewUnknown(id int64, attr *AttributeTrail) *Unknown {
	if attr == nil {
		attr = unspecifiedAttribute
	}
	return &Unknown{attributeTrails: map[int64]*AttributeTrail{id: attr}}
}

// AttributeTrails returns the distinct attribute trails recorded in u, used
// by partial-evaluation callers (spec §6 "advance_evaluation") to discover
// which attributes must be resolved before a further Eval round can finish.
func (u *Unknown) AttributeTrails() []*AttributeTrail {
	seen := make(map[*AttributeTrail]bool, len(u.attributeTrails))
	trails := make([]*AttributeTrail, 0, len(u.attributeTrails))
	for _, t := range u.attributeTrails {
		if t == unspecifiedAttribute || seen[t] {
			continue
		}
		seen[t] = true
		trails = append(trails, t)
	}
	return trails
}

// Contains returns whether other's expression-id/attribute pairs are all
// present in u.
func (u *Unknown) Contains(other *Unknown) bool {
	for id, trail := range other.attributeTrails {
		t, found := u.attributeTrails[id]
		if !found || !t.Equal(trail) {
			return false
		}
	}
	return true
}

// ConvertToNative implements ref.Val.
func (u *Unknown) ConvertToNative(typeDesc reflect.Type) (any, error) {
	return u.Value(), nil
}

// ConvertToType implements ref.Val; unknown values cannot be converted, so
// this is an identity function.
func (u *Unknown) ConvertToType(typeVal ref.Type) ref.Val {
	return u
}

// Equal implements ref.Val; unknown values are never resolved by equality,
// so this is an identity function (comparisons against unknown are
// themselves unknown).
func (u *Unknown) Equal(other ref.Val) ref.Val {
	return u
}

// String implements fmt.Stringer.
func (u *Unknown) String() string {
	var str strings.Builder
	for id, attr := range u.attributeTrails {
		if str.Len() != 0 {
			str.WriteString(", ")
		}
		fmt.Fprintf(&str, "%v (%d)", attr, id)
	}
	return str.String()
}

// Type implements ref.Val.
func (u *Unknown) Type() ref.Type {
	return UnknownType
}

// Value implements ref.Val.
func (u *Unknown) Value() any {
	return u
}

// IsUnknown returns whether val is an *Unknown.
func IsUnknown(val ref.Val) bool {
	_, ok := val.(*Unknown)
	return ok
}

// IsUnknownOrError returns whether val is an *Unknown or an *Err; both
// propagate through operators unconditionally (spec §4.D/§8).
func IsUnknownOrError(val ref.Val) bool {
	switch val.(type) {
	case *Unknown, *Err:
		return true
	}
	return false
}

// MaybeMergeUnknowns merges val into unk if val is itself an *Unknown,
// otherwise returns unk unchanged. The bool result reports whether the
// returned *Unknown is non-nil.
func MaybeMergeUnknowns(val ref.Val, unk *Unknown) (*Unknown, bool) {
	src, isUnk := val.(*Unknown)
	if !isUnk {
		if unk != nil {
			return unk, true
		}
		return unk, false
	}
	return MergeUnknowns(src, unk), true
}

// MergeUnknowns combines two unknown sets via set union over their
// expression-id/attribute pairs (spec §4.B).
func MergeUnknowns(unk1, unk2 *Unknown) *Unknown {
	if unk1 == nil {
		return unk2
	}
	if unk2 == nil {
		return unk1
	}
	out := &Unknown{
		attributeTrails: make(map[int64]*AttributeTrail, len(unk1.attributeTrails)+len(unk2.attributeTrails)),
	}
	for id, at := range unk1.attributeTrails {
		out.attributeTrails[id] = at
	}
	for id, at := range unk2.attributeTrails {
		out.attributeTrails[id] = at
	}
	return out
}
