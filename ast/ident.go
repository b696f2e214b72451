package ast

import (
	"github.com/nimbuspolicy/celrt/common"
	"github.com/nimbuspolicy/celrt/common/types/ref"
)

type IdentExpression struct {
	BaseExpression

	Name string

	// CheckedType is set when a type-checker has resolved this identifier to
	// a type name (e.g. `int`, `my.Message`) rather than a variable, so the
	// planner can produce a type-value constant instead of an attribute
	// lookup. Nil for ordinary variable references and parse-only ASTs.
	CheckedType ref.Type
}

func (e *IdentExpression) String() string {
	return ToDebugString(e)
}

func (e *IdentExpression) writeDebugString(w *debugWriter) {
	w.append(e.Name)
	w.adorn(e)
}

func NewIdent(id int64, l common.Location, name string) *IdentExpression {
	return &IdentExpression{
		BaseExpression: BaseExpression{id: id, location: l},
		Name:           name,
	}
}
