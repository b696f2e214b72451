package ast

import (
	"testing"

	"github.com/nimbuspolicy/celrt/common"
)

func TestErrorExpressionString(t *testing.T) {
	e := &ErrorExpression{BaseExpression: BaseExpression{id: 1, location: common.NoLocation}}
	if e.String() != "*!error!*" {
		t.Errorf("String() got %q, wanted '*!error!*'", e.String())
	}
}
