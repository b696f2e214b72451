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
	"strings"
	"time"

	"github.com/nimbuspolicy/celrt/common/overloads"
	"github.com/nimbuspolicy/celrt/common/types/ref"

	"google.golang.org/protobuf/proto"
	tpb "google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp wraps a timestamppb.Timestamp and implements ref.Val, add,
// compare, and subtract. Like Duration, it is a Receiver so it can dispatch
// to instance-style accessors (getFullYear(), getDayOfWeek(), ...).
type Timestamp struct {
	*tpb.Timestamp
}

// Canonical range per google.protobuf.Timestamp: 0001-01-01T00:00:00Z to
// 9999-12-31T23:59:59.999999999Z.
var (
	minUnixTime = tpb.Timestamp{Seconds: -62135596800}.AsTime().Unix()
	maxUnixTime = tpb.Timestamp{Seconds: 253402300799}.AsTime().Unix()
)

// NewTimestamp constructs a Timestamp value from a Go time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Timestamp: tpb.New(t)}
}

func timestampFromUnixSeconds(sec int64) ref.Val {
	if sec < minUnixTime || sec > maxUnixTime {
		return NewErr("range error converting %d to timestamp", sec)
	}
	return NewTimestamp(time.Unix(sec, 0).UTC())
}

// AsTime returns the Go time.Time equivalent, in UTC.
func (t Timestamp) AsTime() time.Time {
	return t.Timestamp.AsTime()
}

// Add implements traits.Adder.
func (t Timestamp) Add(other ref.Val) ref.Val {
	if other.Type() != DurationType {
		return ValOrErr(other, "no such overload")
	}
	val, ok := addTimeDurationChecked(t.AsTime(), other.(Duration).AsDuration())
	if !ok {
		return NewErr("timestamp overflow")
	}
	return NewTimestamp(val)
}

// Compare implements traits.Comparer.
func (t Timestamp) Compare(other ref.Val) ref.Val {
	if TimestampType != other.Type() {
		return ValOrErr(other, "no such overload")
	}
	ts := t.AsTime().Sub(other.(Timestamp).AsTime())
	switch {
	case ts < 0:
		return IntNegOne
	case ts > 0:
		return IntOne
	default:
		return IntZero
	}
}

// ConvertToNative implements ref.Val.
func (t Timestamp) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if typeDesc == timestampValueType {
		return t.Timestamp, nil
	}
	if typeDesc == reflect.TypeOf(time.Time{}) {
		return t.AsTime(), nil
	}
	if reflect.TypeOf(t).AssignableTo(typeDesc) {
		return t, nil
	}
	return nil, fmt.Errorf("type conversion error from 'google.protobuf.Timestamp' to '%v'", typeDesc)
}

// ConvertToType implements ref.Val.
func (t Timestamp) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case StringType:
		return String(t.AsTime().Format(time.RFC3339Nano))
	case IntType:
		return Int(t.AsTime().Unix())
	case TimestampType:
		return t
	case TypeType:
		return TimestampType
	}
	return NewTypeConversionError(TimestampType.TypeName(), typeVal.TypeName())
}

// Equal implements ref.Val.
func (t Timestamp) Equal(other ref.Val) ref.Val {
	otherTs, ok := other.(Timestamp)
	if !ok {
		return False
	}
	return Bool(proto.Equal(t.Timestamp, otherTs.Timestamp))
}

// Receive implements traits.Receiver for getFullYear()/getDayOfWeek()/etc.,
// each with an optional IANA-zone or UTC-offset string argument.
func (t Timestamp) Receive(function string, overload string, args []ref.Val) ref.Val {
	ts := t.AsTime()
	switch len(args) {
	case 0:
		if f, found := timestampZeroArgOverloads[function]; found {
			return f(ts)
		}
	case 1:
		if f, found := timestampOneArgOverloads[function]; found {
			return f(ts, args[0])
		}
	}
	return NewErr("no such overload")
}

// Subtract implements traits.Subtractor.
func (t Timestamp) Subtract(subtrahend ref.Val) ref.Val {
	switch subtrahend.Type() {
	case DurationType:
		val, ok := subtractTimeDurationChecked(t.AsTime(), subtrahend.(Duration).AsDuration())
		if !ok {
			return NewErr("timestamp overflow")
		}
		return NewTimestamp(val)
	case TimestampType:
		val, ok := subtractTimeChecked(t.AsTime(), subtrahend.(Timestamp).AsTime())
		if !ok {
			return NewErr("timestamp overflow")
		}
		return NewDuration(val)
	}
	return ValOrErr(subtrahend, "no such overload")
}

// IsZeroValue implements traits.Zeroer.
func (t Timestamp) IsZeroValue() bool {
	return t.AsTime().Unix() == 0
}

// Type implements ref.Val.
func (t Timestamp) Type() ref.Type {
	return TimestampType
}

// Value implements ref.Val.
func (t Timestamp) Value() any {
	return t.Timestamp
}

var timestampValueType = reflect.TypeOf(&tpb.Timestamp{})

var timestampZeroArgOverloads = map[string]func(time.Time) ref.Val{
	overloads.TimestampToYear:         timestampGetFullYear,
	overloads.TimestampToMonth:        timestampGetMonth,
	overloads.TimestampToDayOfYear:    timestampGetDayOfYear,
	overloads.TimestampToDayOfMonth:   timestampGetDayOfMonthZeroBased,
	overloads.TimestampToDayOfWeek:    timestampGetDayOfWeek,
	overloads.TimestampToHours:        timestampGetHours,
	overloads.TimestampToMinutes:      timestampGetMinutes,
	overloads.TimestampToSeconds:      timestampGetSeconds,
	overloads.TimestampToMilliseconds: timestampGetMilliseconds,
}

var timestampOneArgOverloads = map[string]func(time.Time, ref.Val) ref.Val{
	overloads.TimestampToYear:         timestampGetFullYearWithTz,
	overloads.TimestampToMonth:        timestampGetMonthWithTz,
	overloads.TimestampToDayOfYear:    timestampGetDayOfYearWithTz,
	overloads.TimestampToDayOfMonth:   timestampGetDayOfMonthZeroBasedWithTz,
	overloads.TimestampToDayOfWeek:    timestampGetDayOfWeekWithTz,
	overloads.TimestampToHours:        timestampGetHoursWithTz,
	overloads.TimestampToMinutes:      timestampGetMinutesWithTz,
	overloads.TimestampToSeconds:      timestampGetSecondsWithTz,
	overloads.TimestampToMilliseconds: timestampGetMillisecondsWithTz,
}

type timestampVisitor func(time.Time) ref.Val

func timestampGetFullYear(t time.Time) ref.Val { return Int(t.Year()) }

// CEL months are 0-based; Go's time.Month is 1-based.
func timestampGetMonth(t time.Time) ref.Val             { return Int(t.Month() - 1) }
func timestampGetDayOfYear(t time.Time) ref.Val         { return Int(t.YearDay() - 1) }
func timestampGetDayOfMonthZeroBased(t time.Time) ref.Val { return Int(t.Day() - 1) }

// getDayOfWeek() follows time.Weekday, where Sunday is 0.
func timestampGetDayOfWeek(t time.Time) ref.Val  { return Int(t.Weekday()) }
func timestampGetHours(t time.Time) ref.Val      { return Int(t.Hour()) }
func timestampGetMinutes(t time.Time) ref.Val    { return Int(t.Minute()) }
func timestampGetSeconds(t time.Time) ref.Val    { return Int(t.Second()) }
func timestampGetMilliseconds(t time.Time) ref.Val { return Int(t.Nanosecond() / 1e6) }

func timestampGetFullYearWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetFullYear)(t)
}
func timestampGetMonthWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetMonth)(t)
}
func timestampGetDayOfYearWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetDayOfYear)(t)
}
func timestampGetDayOfMonthZeroBasedWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetDayOfMonthZeroBased)(t)
}
func timestampGetDayOfWeekWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetDayOfWeek)(t)
}
func timestampGetHoursWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetHours)(t)
}
func timestampGetMinutesWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetMinutes)(t)
}
func timestampGetSecondsWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetSeconds)(t)
}
func timestampGetMillisecondsWithTz(t time.Time, tz ref.Val) ref.Val {
	return timeZone(tz, timestampGetMilliseconds)(t)
}

// timeZone resolves a timezone argument, either an IANA zone name (e.g.
// "America/Los_Angeles") or a fixed UTC offset in "+HH:MM"/"-HH:MM" form,
// and rebases the visitor's computation to that zone.
func timeZone(tz ref.Val, visitor timestampVisitor) timestampVisitor {
	return func(t time.Time) ref.Val {
		if StringType != tz.Type() {
			return ValOrErr(tz, "no such overload")
		}
		val := string(tz.(String))
		ind := strings.Index(val, ":")
		if ind == -1 {
			loc, err := time.LoadLocation(val)
			if err != nil {
				return NewErr("unrecognized timezone %q", val)
			}
			return visitor(t.In(loc))
		}
		hr, err := strconv.Atoi(val[0:ind])
		if err != nil {
			return NewErr("invalid timezone offset %q", val)
		}
		min, err := strconv.Atoi(val[ind+1:])
		if err != nil {
			return NewErr("invalid timezone offset %q", val)
		}
		var offsetMinutes int
		if strings.HasPrefix(val, "-") {
			offsetMinutes = hr*60 - min
		} else {
			offsetMinutes = hr*60 + min
		}
		secondsEastOfUTC := int((time.Duration(offsetMinutes) * time.Minute).Seconds())
		zone := time.FixedZone("", secondsEastOfUTC)
		return visitor(t.In(zone))
	}
}

// IsTimestamp returns whether elem is the TimestampType singleton or a Val
// of that type.
func IsTimestamp(elem any) bool {
	switch v := elem.(type) {
	case ref.Type:
		return v == TimestampType
	case ref.Val:
		return IsTimestamp(v.Type())
	}
	return false
}
