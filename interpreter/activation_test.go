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

package interpreter

import (
	"testing"
	"time"

	"github.com/nimbuspolicy/celrt/common/types"
)

func TestActivationResolveName(t *testing.T) {
	act := NewActivation(map[string]interface{}{"a": types.True})
	if val, found := act.ResolveName("a"); !found || val != types.True {
		t.Error("activation failed to resolve 'a'")
	}
	if _, found := act.ResolveName("b"); found {
		t.Error("activation resolved an unbound name")
	}
}

func TestActivationResolveReference(t *testing.T) {
	act := EmptyActivation()
	if _, found := act.ResolveReference(1); found {
		t.Error("EmptyActivation resolved a reference")
	}
}

func TestActivationResolveLazy(t *testing.T) {
	var v interface{}
	now := func() interface{} {
		if v == nil {
			v = time.Now().Unix()
		}
		return v
	}
	act := NewActivation(map[string]interface{}{"now": now})
	first, _ := act.ResolveName("now")
	second, _ := act.ResolveName("now")
	if first != second {
		t.Errorf("lazy binding produced different values: %v != %v", first, second)
	}
}

func TestHierarchicalActivationShadowsParent(t *testing.T) {
	parent := NewActivation(map[string]interface{}{
		"a": types.String("world"),
		"b": types.Int(-42),
	})
	child := NewActivation(map[string]interface{}{
		"a": types.True,
		"c": types.String("universe"),
	})
	combined := ExtendActivation(parent, child)

	if val, found := combined.ResolveName("a"); !found || val != types.True {
		t.Error("combined activation did not resolve child's shadowed 'a'")
	}
	if val, found := combined.ResolveName("b"); !found || val != types.Int(-42) {
		t.Error("combined activation did not resolve parent-only 'b'")
	}
	if val, found := combined.ResolveName("c"); !found || val != types.String("universe") {
		t.Error("combined activation did not resolve child-only 'c'")
	}
	if combined.Parent() != parent {
		t.Error("combined activation's Parent() did not return the supplied parent")
	}
}

func TestPartialActivationUnknownPatterns(t *testing.T) {
	pattern := NewAttributePattern("c")
	partial, err := NewPartialActivation(map[string]interface{}{
		"a": types.String("world"),
		"b": types.Int(-42),
	}, pattern)
	if err != nil {
		t.Fatalf("NewPartialActivation() failed: %v", err)
	}
	patterns := partial.UnknownAttributePatterns()
	if len(patterns) != 1 || patterns[0] != pattern {
		t.Errorf("UnknownAttributePatterns() got %v, wanted [%v]", patterns, pattern)
	}
	if val, found := partial.ResolveName("a"); !found || val != types.String("world") {
		t.Error("partial activation did not resolve its concrete binding for 'a'")
	}
}

func TestNewPartialActivationRejectsUnsupportedType(t *testing.T) {
	if _, err := NewPartialActivation(42); err == nil {
		t.Error("NewPartialActivation(42) did not error on an unsupported activation type")
	}
}
