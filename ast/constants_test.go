package ast

import (
	"testing"

	"github.com/nimbuspolicy/celrt/common"
)

func TestInt64Constant(t *testing.T) {
	c := NewInt64Constant(1, common.NoLocation, -42)
	if c.Value != -42 {
		t.Errorf("Value got %d, wanted -42", c.Value)
	}
	if c.String() != "-42" {
		t.Errorf("String() got %q, wanted '-42'", c.String())
	}
}

func TestUint64Constant(t *testing.T) {
	c := NewUint64Constant(1, common.NoLocation, 42)
	if c.String() != "42u" {
		t.Errorf("String() got %q, wanted '42u'", c.String())
	}
}

func TestDoubleConstant(t *testing.T) {
	c := NewDoubleConstant(1, common.NoLocation, 1.5)
	if c.String() != "1.5" {
		t.Errorf("String() got %q, wanted '1.5'", c.String())
	}
}

func TestStringConstant(t *testing.T) {
	c := NewStringConstant(1, common.NoLocation, "hello")
	if c.String() != `"hello"` {
		t.Errorf("String() got %q, wanted %q", c.String(), `"hello"`)
	}
}

func TestBytesConstant(t *testing.T) {
	c := NewBytesConstant(1, common.NoLocation, []byte("hello"))
	if c.String() != `b"hello"` {
		t.Errorf("String() got %q, wanted %q", c.String(), `b"hello"`)
	}
}

func TestBoolConstant(t *testing.T) {
	tc := NewBoolConstant(1, common.NoLocation, true)
	if tc.String() != "true" {
		t.Errorf("String() got %q, wanted 'true'", tc.String())
	}
	fc := NewBoolConstant(2, common.NoLocation, false)
	if fc.String() != "false" {
		t.Errorf("String() got %q, wanted 'false'", fc.String())
	}
}

func TestNullConstant(t *testing.T) {
	c := NewNullConstant(1, common.NoLocation)
	if c.String() != "null" {
		t.Errorf("String() got %q, wanted 'null'", c.String())
	}
	if c.Value != c {
		t.Error("NullConstant.Value did not self-reference")
	}
}
