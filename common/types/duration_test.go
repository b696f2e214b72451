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
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/nimbuspolicy/celrt/common/overloads"
	"github.com/nimbuspolicy/celrt/common/types/ref"
)

func TestDurationOperators(t *testing.T) {
	d := duration(7506, 567)
	dSecond := duration(1, 0)
	dNano := duration(0, 1)
	dMax := duration(0, math.MaxInt64)
	dMin := duration(0, math.MinInt64)

	tests := []struct {
		name  string
		op    func() ref.Val
		isErr bool
		out   time.Duration
	}{
		{
			name: "DurationAddSelf",
			op: func() ref.Val {
				return NewDuration(d).Add(NewDuration(d))
			},
			out: d + d,
		},
		{
			name: "DurationMaxAddOneNanoOverflow",
			op: func() ref.Val {
				return NewDuration(dMax).Add(NewDuration(dNano))
			},
			isErr: true,
		},
		{
			name: "DurationMaxAddOneSecondOverflow",
			op: func() ref.Val {
				return NewDuration(dMax).Add(NewDuration(dSecond))
			},
			isErr: true,
		},
		{
			name: "DurationMinAddMinusOneOverflow",
			op: func() ref.Val {
				return NewDuration(dMin).Add(NewDuration(-dSecond))
			},
			isErr: true,
		},
		{
			name: "DurationSubSelf",
			op: func() ref.Val {
				return NewDuration(d).Subtract(NewDuration(d))
			},
			out: duration(0, 0),
		},
		{
			name: "DurationMaxSubMinusOneOverflow",
			op: func() ref.Val {
				return NewDuration(dMax).Subtract(NewDuration(-dNano))
			},
			isErr: true,
		},
		{
			name: "DurationMinSubOneOverflow",
			op: func() ref.Val {
				return NewDuration(dMin).Subtract(NewDuration(dNano))
			},
			isErr: true,
		},
	}
	for _, tst := range tests {
		got := tst.op()
		if tst.isErr {
			if !IsError(got) {
				t.Errorf("%s: got %v, wanted error", tst.name, got)
			}
			continue
		}
		if got.(Duration).AsDuration() != tst.out {
			t.Errorf("%s: got %v, wanted %v", tst.name, got, tst.out)
		}
	}
}

func TestDurationCompare(t *testing.T) {
	d := NewDuration(duration(7506, 0))
	lt := NewDuration(duration(-10, 0))
	if d.Compare(lt).(Int) != IntOne {
		t.Error("Larger duration was not considered greater than smaller one.")
	}
	if lt.Compare(d).(Int) != IntNegOne {
		t.Error("Smaller duration was not less than larger one.")
	}
	if d.Compare(d).(Int) != IntZero {
		t.Error("Durations were not considered equal.")
	}
	if !IsError(d.Compare(False)) {
		t.Error("Got comparison result, expected error.")
	}
}

func TestDurationConvertToNative(t *testing.T) {
	dur := NewDuration(duration(7506, 1000))
	val, err := dur.ConvertToNative(durationValueType)
	if err != nil {
		t.Fatalf("ConvertToNative() failed: %v", err)
	}
	if !reflect.DeepEqual(val, dur.Duration) {
		t.Errorf("got value %v, wanted %v", val, dur.Duration)
	}
	val, err = dur.ConvertToNative(reflect.TypeOf(Duration{}))
	if err != nil {
		t.Fatalf("ConvertToNative() failed: %v", err)
	}
	if !reflect.DeepEqual(val, dur) {
		t.Errorf("got value %v, wanted %v", val, dur)
	}
}

func TestDurationConvertToNative_Error(t *testing.T) {
	val, err := NewDuration(duration(7506, 1000)).ConvertToNative(reflect.TypeOf(0))
	if err == nil {
		t.Errorf("Got '%v', expected error", val)
	}
}

func TestDurationConvertToType_Identity(t *testing.T) {
	d := NewDuration(duration(7506, 1000))
	str := d.ConvertToType(StringType).(String)
	if str != "7506.000001s" {
		t.Errorf("Got '%v', wanted 7506.000001s", str)
	}
	if !d.ConvertToType(DurationType).Equal(d).(Bool) {
		t.Errorf("Got '%v', wanted identity", d.ConvertToType(DurationType))
	}
	if d.ConvertToType(TypeType) != DurationType {
		t.Errorf("Got '%v', expected duration type", d.ConvertToType(TypeType))
	}
	if !IsError(d.ConvertToType(UintType)) {
		t.Errorf("Got value, expected error.")
	}
}

func TestDurationNegate(t *testing.T) {
	neg := NewDuration(duration(1234, 1)).Negate()
	want := duration(-1234, -1)
	if neg.(Duration).AsDuration() != want {
		t.Errorf("Got %v, expected %v", neg, want)
	}
	if v := time.Duration(math.MinInt64); !IsError(NewDuration(v).Negate()) {
		t.Errorf("Expected negating %d to result in overflow.", v)
	}
}

func TestDurationGetHours(t *testing.T) {
	d := NewDuration(duration(7506, 0))
	hr := d.Receive(overloads.DurationToHours, "",[]ref.Val{})
	if !hr.Equal(Int(2)).(Bool) {
		t.Error("Expected 2 hours, got", hr)
	}
}

func TestDurationGetMinutes(t *testing.T) {
	d := NewDuration(duration(7506, 0))
	min := d.Receive(overloads.DurationToMinutes, "",[]ref.Val{})
	if !min.Equal(Int(125)).(Bool) {
		t.Error("Expected 125 minutes, got", min)
	}
}

func TestDurationGetSeconds(t *testing.T) {
	d := NewDuration(duration(7506, 0))
	sec := d.Receive(overloads.DurationToSeconds, "",[]ref.Val{})
	if !sec.Equal(Int(7506)).(Bool) {
		t.Error("Expected 7506 seconds, got", sec)
	}
}

func TestDurationGetMilliseconds(t *testing.T) {
	d := NewDuration(duration(7506, 0))
	ms := d.Receive(overloads.DurationToMilliseconds, "",[]ref.Val{})
	if !ms.Equal(Int(7506000)).(Bool) {
		t.Error("Expected 7506000 milliseconds, got", ms)
	}
}

func TestDurationIsZeroValue(t *testing.T) {
	if NewDuration(time.Duration(1)).IsZeroValue() {
		t.Error("Duration(1).IsZeroValue() returned true, wanted false.")
	}
	if !NewDuration(time.Duration(0)).IsZeroValue() {
		t.Error("Duration(0).IsZeroValue() returned false, wanted true")
	}
}

func duration(seconds, nanos int64) time.Duration {
	return time.Duration(seconds)*time.Second + time.Duration(nanos)
}
