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

// Package common defines types shared between the AST, the interpreter, and
// diagnostic output: source locations and source text.
package common

// Location represents a position within a Source.
type Location interface {
	Line() int   // 1-based line number within source.
	Column() int // 0-based column number within source.
}

// SourceLocation is a concrete Location constructed directly, independent of
// any particular Source.
type SourceLocation struct {
	line   int
	column int
}

var (
	_ Location = &SourceLocation{}

	// NoLocation is used by constructed expressions that carry no source
	// position (e.g. those synthesized by a macro or by tests).
	NoLocation Location = &SourceLocation{}
)

// NewLocation returns a Location for the given 1-based line and 0-based
// column.
func NewLocation(line, column int) Location {
	return &SourceLocation{line: line, column: column}
}

func (l *SourceLocation) Line() int {
	return l.line
}

func (l *SourceLocation) Column() int {
	return l.column
}
