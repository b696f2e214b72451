// Copyright 2020 Google LLC
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

	"github.com/nimbuspolicy/celrt/common/types"
	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// AttributePattern represents a top-level variable with an optional set of qualifier patterns.
//
// The variable name must always be a string, and may be a dotted path, e.g. 'ns.app.a'.
//
// The qualifier patterns for attribute matching must be one of the following:
//
//   - valid map key type: string, int, uint, bool
//   - wildcard (*)
//
// Examples:
//
//  1. myvar["complex-value"]
//  2. myvar["complex-value"][0]
//  3. myvar["complex-value"].*.name
//
// The first example is simple: match an attribute where the variable is 'myvar' with a
// field access on 'complex-value'. The second example expands the match to indicate that only
// a specific index `0` should match. And lastly, the third example matches any indexed access
// that later selects the 'name' field.
type AttributePattern struct {
	variable          string
	qualifierPatterns []*AttributeQualifierPattern
}

// NewAttributePattern produces a new mutable AttributePattern based on a variable name.
func NewAttributePattern(variable string) *AttributePattern {
	return &AttributePattern{
		variable:          variable,
		qualifierPatterns: []*AttributeQualifierPattern{},
	}
}

// Field adds a string qualifier pattern to the AttributePattern. The string may be a valid
// identifier, or string map key including empty string.
func (apat *AttributePattern) Field(pattern string) *AttributePattern {
	apat.qualifierPatterns = append(apat.qualifierPatterns,
		&AttributeQualifierPattern{value: pattern})
	return apat
}

// Index adds an int qualifier pattern to the AttributePattern. The index may be either a map or
// list index.
func (apat *AttributePattern) Index(pattern int64) *AttributePattern {
	apat.qualifierPatterns = append(apat.qualifierPatterns,
		&AttributeQualifierPattern{value: pattern})
	return apat
}

// IndexUint adds an uint qualifier pattern for a map index operation to the AttributePattern.
func (apat *AttributePattern) IndexUint(pattern uint64) *AttributePattern {
	apat.qualifierPatterns = append(apat.qualifierPatterns,
		&AttributeQualifierPattern{value: pattern})
	return apat
}

// IndexBool adds a bool qualifier pattern for a map index operation to the AttributePattern.
func (apat *AttributePattern) IndexBool(pattern bool) *AttributePattern {
	apat.qualifierPatterns = append(apat.qualifierPatterns,
		&AttributeQualifierPattern{value: pattern})
	return apat
}

// Wildcard adds a special sentinel qualifier pattern that indicates any value will yield a
// qualifier match.
func (apat *AttributePattern) Wildcard() *AttributePattern {
	apat.qualifierPatterns = append(apat.qualifierPatterns,
		&AttributeQualifierPattern{wildcard: true})
	return apat
}

// Matches returns true if the variable matches the AttributePattern variable.
func (apat *AttributePattern) Matches(variable string) bool {
	return apat.variable == variable
}

// QualifierPatterns returns the set of AttributeQualifierPattern values on the AttributePattern.
func (apat *AttributePattern) QualifierPatterns() []*AttributeQualifierPattern {
	return apat.qualifierPatterns
}

// AttributeQualifierPattern holds a wildcard or valued qualifier pattern.
type AttributeQualifierPattern struct {
	wildcard bool
	value    interface{}
}

// Matches returns true if the qualifier pattern is a wildcard, or the Qualifier implements the
// qualifierValueEquator interface and its QualifierValueEquals returns true for the pattern.
func (qpat *AttributeQualifierPattern) Matches(q Qualifier) bool {
	if qpat.wildcard {
		return true
	}
	qve, ok := q.(qualifierValueEquator)
	return ok && qve.QualifierValueEquals(qpat.value)
}

// qualifierValueEquator defines an interface for determining if an input value, of valid map key
// type, is equal to the value held in the Qualifier. This interface is used by the
// AttributeQualifierPattern to determine pattern matches for non-wildcard qualifier patterns.
//
// Note: Attribute values are also Qualifier values; however, Attributes are resolved before
// qualification happens, which is why the Attribute types do not surface in the list of
// implementations below.
type qualifierValueEquator interface {
	QualifierValueEquals(value interface{}) bool
}

// QualifierValueEquals implementation for boolean qualifiers.
func (q *boolQualifier) QualifierValueEquals(value interface{}) bool {
	bval, ok := value.(bool)
	return ok && q.value == bval
}

// QualifierValueEquals implementation for field qualifiers.
func (q *fieldQualifier) QualifierValueEquals(value interface{}) bool {
	sval, ok := value.(string)
	return ok && q.Name == sval
}

// QualifierValueEquals implementation for string qualifiers.
func (q *stringQualifier) QualifierValueEquals(value interface{}) bool {
	sval, ok := value.(string)
	return ok && q.value == sval
}

// QualifierValueEquals implementation for int qualifiers.
func (q *intQualifier) QualifierValueEquals(value interface{}) bool {
	ival, ok := value.(int64)
	return ok && q.value == ival
}

// QualifierValueEquals implementation for uint qualifiers.
func (q *uintQualifier) QualifierValueEquals(value interface{}) bool {
	uval, ok := value.(uint64)
	return ok && q.value == uval
}

// PartialActivation is an Activation that additionally declares the set of AttributePattern
// values the host could not supply a concrete binding for ahead of evaluation. Attribute
// resolution checks these patterns before resolving a variable, producing an Unknown as soon as
// the traversed path matches a declared pattern (spec §4.B).
type PartialActivation interface {
	Activation

	// UnknownAttributePatterns returns the patterns registered as unknown for this activation.
	UnknownAttributePatterns() []*AttributePattern
}

// namedAttribute is the subset of state AttributePattern matching needs from an Attribute: the
// variable name(s) it could resolve to, and the qualifier path accumulated on it so far. Both
// absoluteAttribute and oneofAttribute implement it; conditionalAttribute and relativeAttribute
// have no variable name of their own to match against, so partial resolution falls through to
// their ordinary Resolve for those cases.
type namedAttribute interface {
	Attribute
	variableNames() []string
	qualifierList() []Qualifier
}

// NewPartialActivation wraps vars with a declared set of AttributePattern values the caller
// could not supply concrete bindings for, producing a PartialActivation a partialResolver's
// Attribute values can check against.
func NewPartialActivation(vars interface{}, patterns ...*AttributePattern) (PartialActivation, error) {
	var base Activation
	switch v := vars.(type) {
	case Activation:
		base = v
	case map[string]interface{}:
		base = NewActivation(v)
	default:
		return nil, fmt.Errorf("unsupported activation type: %T", vars)
	}
	return &partialActivation{Activation: base, patterns: patterns}, nil
}

type partialActivation struct {
	Activation
	patterns []*AttributePattern
}

var _ PartialActivation = &partialActivation{}

func (a *partialActivation) UnknownAttributePatterns() []*AttributePattern {
	return a.patterns
}

// NewPartialResolver returns a Resolver whose AbsoluteAttribute/OneofAttribute values check a
// PartialActivation's declared AttributePattern set before falling back to normal resolution.
func NewPartialResolver(a ref.TypeAdapter, p ref.TypeProvider) Resolver {
	return &partialResolver{resolver: &resolver{adapter: a, provider: p}}
}

type partialResolver struct {
	*resolver
}

// AbsoluteAttribute wraps the base Resolver's AbsoluteAttribute in an attributeMatcher so that
// unknown-pattern matching runs ahead of ordinary resolution.
func (r *partialResolver) AbsoluteAttribute(id int64, name string) Attribute {
	attr := r.resolver.AbsoluteAttribute(id, name).(namedAttribute)
	return &attributeMatcher{namedAttribute: attr, res: r.resolver}
}

// OneofAttribute wraps the base Resolver's OneofAttribute the same way.
func (r *partialResolver) OneofAttribute(id int64, name string) Attribute {
	attr := r.resolver.OneofAttribute(id, name).(namedAttribute)
	return &attributeMatcher{namedAttribute: attr, res: r.resolver}
}

// matchesUnknownPatterns returns a non-nil Unknown if the variable names and qualifiers for a
// given Attribute match any of the AttributePattern values declared on the PartialActivation.
func (r *resolver) matchesUnknownPatterns(
	vars PartialActivation,
	attrID int64,
	variableNames []string,
	qualifiers []Qualifier) (*types.Unknown, error) {
	patterns := vars.UnknownAttributePatterns()
	candIndices := map[int]struct{}{}
	for _, variable := range variableNames {
		for i, pat := range patterns {
			if pat.Matches(variable) {
				candIndices[i] = struct{}{}
			}
		}
	}
	if len(candIndices) == 0 {
		return nil, nil
	}
	if len(qualifiers) == 0 {
		return types.NewUnknown(attrID, nil), nil
	}
	// Resolve the attribute qualifiers into a static set. This prevents more dynamic Attribute
	// resolutions than necessary when there are multiple unknown patterns that traverse the
	// same Attribute-valued qualifier.
	newQuals := make([]Qualifier, len(qualifiers))
	for i, qual := range qualifiers {
		attr, isAttr := qual.(Attribute)
		if isAttr {
			val, err := attr.Resolve(vars)
			if err != nil {
				return nil, err
			}
			if unk, isUnk := val.(*types.Unknown); isUnk {
				return unk, nil
			}
			resolved, err := r.NewQualifier(nil, qual.ID(), val)
			if err != nil {
				return nil, err
			}
			qual = resolved
		}
		newQuals[i] = qual
	}
	for patIdx := range candIndices {
		pat := patterns[patIdx]
		isUnk := true
		matchExprID := attrID
		qualPats := pat.QualifierPatterns()
		for i, qual := range newQuals {
			if i >= len(qualPats) {
				break
			}
			matchExprID = qual.ID()
			if !qualPats[i].Matches(qual) {
				isUnk = false
				break
			}
		}
		if isUnk {
			return types.NewUnknown(matchExprID, nil), nil
		}
	}
	return nil, nil
}

// attributeMatcher wraps a namedAttribute so that Resolve/Qualify check the active
// PartialActivation's declared AttributePattern set before resolving normally.
type attributeMatcher struct {
	namedAttribute
	res *resolver
}

// Resolve implements the Attribute interface method.
func (m *attributeMatcher) Resolve(vars Activation) (interface{}, error) {
	partial, isPartial := vars.(PartialActivation)
	if isPartial {
		unk, err := m.res.matchesUnknownPatterns(
			partial, m.ID(), m.variableNames(), m.qualifierList())
		if err != nil {
			return nil, err
		}
		if unk != nil {
			return unk, nil
		}
	}
	return m.namedAttribute.Resolve(vars)
}

// AddQualifier implements the Attribute interface method.
func (m *attributeMatcher) AddQualifier(qual Qualifier) (Attribute, error) {
	_, err := m.namedAttribute.AddQualifier(qual)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Qualify implements the Qualifier interface method.
func (m *attributeMatcher) Qualify(vars Activation, obj interface{}) (interface{}, error) {
	val, err := m.Resolve(vars)
	if err != nil {
		return nil, err
	}
	if unk, isUnk := val.(*types.Unknown); isUnk {
		return unk, nil
	}
	qual, err := m.res.NewQualifier(nil, m.ID(), val)
	if err != nil {
		return nil, err
	}
	return qual.Qualify(vars, obj)
}
