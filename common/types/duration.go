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
	"strconv"
	"time"

	"github.com/nimbuspolicy/celrt/common/overloads"
	"github.com/nimbuspolicy/celrt/common/types/ref"

	"google.golang.org/protobuf/proto"
	dpb "google.golang.org/protobuf/types/known/durationpb"
)

// Duration wraps a durationpb.Duration and implements ref.Val, arithmetic,
// and comparison. It is also a Receiver, so it can participate in dispatch
// to instance-style accessor functions (getHours(), getMinutes(), ...).
type Duration struct {
	*dpb.Duration
}

// NewDuration constructs a Duration value from a Go time.Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{Duration: dpb.New(d)}
}

// AsDuration returns the Go time.Duration equivalent.
func (d Duration) AsDuration() time.Duration {
	return d.Duration.AsDuration()
}

// Add implements traits.Adder.
func (d Duration) Add(other ref.Val) ref.Val {
	switch other.Type() {
	case DurationType:
		val, ok := addDurationChecked(d.AsDuration(), other.(Duration).AsDuration())
		if !ok {
			return NewErr("duration overflow")
		}
		return NewDuration(val)
	case TimestampType:
		return other.(Timestamp).Add(d)
	}
	return ValOrErr(other, "no such overload")
}

// Compare implements traits.Comparer.
func (d Duration) Compare(other ref.Val) ref.Val {
	otherDur, ok := other.(Duration)
	if !ok {
		return ValOrErr(other, "no such overload")
	}
	dur := d.AsDuration() - otherDur.AsDuration()
	switch {
	case dur < 0:
		return IntNegOne
	case dur > 0:
		return IntOne
	default:
		return IntZero
	}
}

// ConvertToNative implements ref.Val.
func (d Duration) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if typeDesc == durationValueType {
		return d.Duration, nil
	}
	if reflect.TypeOf(d).AssignableTo(typeDesc) {
		return d, nil
	}
	return nil, fmt.Errorf("type conversion error from 'google.protobuf.Duration' to '%v'", typeDesc)
}

// ConvertToType implements ref.Val.
func (d Duration) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case StringType:
		dur := d.AsDuration()
		return String(strconv.FormatFloat(dur.Seconds(), 'f', -1, 64) + "s")
	case IntType:
		return Int(d.AsDuration())
	case DurationType:
		return d
	case TypeType:
		return DurationType
	}
	return NewTypeConversionError(DurationType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (d Duration) Equal(other ref.Val) ref.Val {
	otherDur, ok := other.(Duration)
	if !ok {
		return False
	}
	return Bool(proto.Equal(d.Duration, otherDur.Duration))
}

// Negate implements traits.Negator.
func (d Duration) Negate() ref.Val {
	val, ok := negateDurationChecked(d.AsDuration())
	if !ok {
		return NewErr("duration overflow")
	}
	return NewDuration(val)
}

// Receive implements traits.Receiver for getHours()/getMinutes()/etc.
func (d Duration) Receive(function string, overload string, args []ref.Val) ref.Val {
	dur := d.AsDuration()
	if len(args) == 0 {
		if f, found := durationZeroArgOverloads[function]; found {
			return f(dur)
		}
	}
	return NewErr("no such overload")
}

// Subtract implements traits.Subtractor.
func (d Duration) Subtract(subtrahend ref.Val) ref.Val {
	subtraDur, ok := subtrahend.(Duration)
	if !ok {
		return ValOrErr(subtrahend, "no such overload")
	}
	val, ok := subtractDurationChecked(d.AsDuration(), subtraDur.AsDuration())
	if !ok {
		return NewErr("duration overflow")
	}
	return NewDuration(val)
}

// IsZeroValue implements traits.Zeroer.
func (d Duration) IsZeroValue() bool {
	return d.AsDuration() == 0
}

// Type implements ref.Val.
func (d Duration) Type() ref.Type {
	return DurationType
}

// Value implements ref.Val.
func (d Duration) Value() any {
	return d.Duration
}

var durationValueType = reflect.TypeOf(&dpb.Duration{})

var durationZeroArgOverloads = map[string]func(time.Duration) ref.Val{
	overloads.DurationToHours: func(dur time.Duration) ref.Val {
		return Int(dur.Hours())
	},
	overloads.DurationToMinutes: func(dur time.Duration) ref.Val {
		return Int(dur.Minutes())
	},
	overloads.DurationToSeconds: func(dur time.Duration) ref.Val {
		return Int(dur.Seconds())
	},
	overloads.DurationToMilliseconds: func(dur time.Duration) ref.Val {
		return Int(dur.Nanoseconds() / 1e6)
	},
}

// IsDuration returns whether elem is the DurationType singleton or a Val of
// that type.
func IsDuration(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == DurationType
	case ref.Val:
		return IsDuration(v.Type())
	}
	return false
}
