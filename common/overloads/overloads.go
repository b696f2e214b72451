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

// Package overloads defines the stable overload ids produced by the checker
// and consumed by the interpreter's Dispatcher.
package overloads

// Arithmetic.
const (
	AddInt64     = "add_int64"
	AddUint64    = "add_uint64"
	AddDouble    = "add_double"
	AddString    = "add_string"
	AddBytes     = "add_bytes"
	AddList      = "add_list"
	AddDuration  = "add_duration"
	AddTimestamp = "add_duration_timestamp"

	SubtractInt64          = "subtract_int64"
	SubtractUint64         = "subtract_uint64"
	SubtractDouble         = "subtract_double"
	SubtractDuration       = "subtract_duration"
	SubtractTimestamp      = "subtract_timestamp"
	SubtractTimestampDur   = "subtract_timestamp_duration"

	MultiplyInt64  = "multiply_int64"
	MultiplyUint64 = "multiply_uint64"
	MultiplyDouble = "multiply_double"

	DivideInt64  = "divide_int64"
	DivideUint64 = "divide_uint64"
	DivideDouble = "divide_double"

	ModuloInt64  = "modulo_int64"
	ModuloUint64 = "modulo_uint64"

	NegateInt64  = "negate_int64"
	NegateDouble = "negate_double"
)

// Comparisons. One overload per concrete type, plus the heterogeneous
// numeric cross-type overloads gated behind
// enable_heterogeneous_numeric_comparisons.
const (
	LessBool      = "less_bool"
	LessInt64     = "less_int64"
	LessUint64    = "less_uint64"
	LessDouble    = "less_double"
	LessString    = "less_string"
	LessBytes     = "less_bytes"
	LessDuration  = "less_duration"
	LessTimestamp = "less_timestamp"

	LessEqualsBool      = "less_equals_bool"
	LessEqualsInt64     = "less_equals_int64"
	LessEqualsUint64    = "less_equals_uint64"
	LessEqualsDouble    = "less_equals_double"
	LessEqualsString    = "less_equals_string"
	LessEqualsBytes     = "less_equals_bytes"
	LessEqualsDuration  = "less_equals_duration"
	LessEqualsTimestamp = "less_equals_timestamp"

	GreaterBool      = "greater_bool"
	GreaterInt64     = "greater_int64"
	GreaterUint64    = "greater_uint64"
	GreaterDouble    = "greater_double"
	GreaterString    = "greater_string"
	GreaterBytes     = "greater_bytes"
	GreaterDuration  = "greater_duration"
	GreaterTimestamp = "greater_timestamp"

	GreaterEqualsBool      = "greater_equals_bool"
	GreaterEqualsInt64     = "greater_equals_int64"
	GreaterEqualsUint64    = "greater_equals_uint64"
	GreaterEqualsDouble    = "greater_equals_double"
	GreaterEqualsString    = "greater_equals_string"
	GreaterEqualsBytes     = "greater_equals_bytes"
	GreaterEqualsDuration  = "greater_equals_duration"
	GreaterEqualsTimestamp = "greater_equals_timestamp"

	Equals    = "equals"
	NotEquals = "not_equals"

	LessIntUint        = "less_int64_uint64"
	LessIntDouble      = "less_int64_double"
	LessUintInt        = "less_uint64_int64"
	LessUintDouble     = "less_uint64_double"
	LessDoubleInt      = "less_double_int64"
	LessDoubleUint     = "less_double_uint64"
	LessEqualsIntUint    = "less_equals_int64_uint64"
	LessEqualsIntDouble  = "less_equals_int64_double"
	LessEqualsUintInt    = "less_equals_uint64_int64"
	LessEqualsUintDouble = "less_equals_uint64_double"
	LessEqualsDoubleInt  = "less_equals_double_int64"
	LessEqualsDoubleUint = "less_equals_double_uint64"
	GreaterIntUint          = "greater_int64_uint64"
	GreaterIntDouble        = "greater_int64_double"
	GreaterUintInt          = "greater_uint64_int64"
	GreaterUintDouble       = "greater_uint64_double"
	GreaterDoubleInt        = "greater_double_int64"
	GreaterDoubleUint       = "greater_double_uint64"
	GreaterEqualsIntUint    = "greater_equals_int64_uint64"
	GreaterEqualsIntDouble  = "greater_equals_int64_double"
	GreaterEqualsUintInt    = "greater_equals_uint64_int64"
	GreaterEqualsUintDouble = "greater_equals_uint64_double"
	GreaterEqualsDoubleInt  = "greater_equals_double_int64"
	GreaterEqualsDoubleUint = "greater_equals_double_uint64"
)

// Logical and conditional, handled by the interpreter directly but still
// carry overload ids for declaration/debugging purposes.
const (
	LogicalNot  = "logical_not"
	LogicalAnd  = "logical_and"
	LogicalOr   = "logical_or"
	Conditional = "conditional"
	NotStrictlyFalse = "not_strictly_false"
	In          = "in_list"
	InMap       = "in_map"
)

// Size, indexing, string, and collection overloads.
const (
	SizeString = "size_string"
	SizeBytes  = "size_bytes"
	SizeList   = "size_list"
	SizeMap    = "size_map"

	IndexList = "index_list"
	IndexMap  = "index_map"

	Matches = "matches"

	Contains   = "contains_string"
	EndsWith   = "ends_with_string"
	StartsWith = "starts_with_string"

	TypeConvertInt       = "type_convert_int"
	TypeConvertUint      = "type_convert_uint"
	TypeConvertDouble    = "type_convert_double"
	TypeConvertString    = "type_convert_string"
	TypeConvertBytes     = "type_convert_bytes"
	TypeConvertBool      = "type_convert_bool"
	TypeConvertTimestamp = "type_convert_timestamp"
	TypeConvertDuration  = "type_convert_duration"
	TypeConvertType      = "type_convert_type"
	TypeConvertDyn       = "type_convert_dyn"

	TimestampToYear         = "timestamp_to_year"
	TimestampToMonth        = "timestamp_to_month"
	TimestampToDayOfYear    = "timestamp_to_day_of_year"
	TimestampToDayOfMonth   = "timestamp_to_day_of_month"
	TimestampToDayOfWeek    = "timestamp_to_day_of_week"
	TimestampToHours        = "timestamp_to_hours"
	TimestampToMinutes      = "timestamp_to_minutes"
	TimestampToSeconds      = "timestamp_to_seconds"
	TimestampToMilliseconds = "timestamp_to_milliseconds"

	DurationToHours        = "duration_to_hours"
	DurationToMinutes      = "duration_to_minutes"
	DurationToSeconds      = "duration_to_seconds"
	DurationToMilliseconds = "duration_to_milliseconds"

	TypeOf = "type"

	OptionalOrOptional = "optional_or_optional"
	OptionalOrValue    = "optional_orValue_value"
)
