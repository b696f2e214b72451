package ast

import (
	"strings"
	"testing"

	"github.com/nimbuspolicy/celrt/common"
)

func TestNewCreateMessage(t *testing.T) {
	msg := NewCreateMessage(1, common.NoLocation, "my.Message",
		NewFieldEntry(2, common.NoLocation, "name", NewStringConstant(3, common.NoLocation, "hi")))
	if msg.MessageName != "my.Message" {
		t.Errorf("MessageName got %q, wanted 'my.Message'", msg.MessageName)
	}
	if len(msg.Fields) != 1 {
		t.Fatalf("Fields got %d entries, wanted 1", len(msg.Fields))
	}
	out := msg.String()
	if !strings.HasPrefix(out, "my.Message{") {
		t.Errorf("String() got %q, wanted a 'my.Message{' prefix", out)
	}
	if !strings.Contains(out, "name:") {
		t.Errorf("String() got %q, wanted a 'name:' field entry", out)
	}
}

func TestNewCreateMessageEmpty(t *testing.T) {
	msg := NewCreateMessage(1, common.NoLocation, "my.Empty")
	if msg.String() != "my.Empty{}" {
		t.Errorf("String() got %q, wanted 'my.Empty{}'", msg.String())
	}
}

func TestFieldEntry(t *testing.T) {
	f := NewFieldEntry(1, common.NoLocation, "name", NewStringConstant(2, common.NoLocation, "hi"))
	if f.Name != "name" {
		t.Errorf("Name got %q, wanted 'name'", f.Name)
	}
	want := `name:"hi"`
	if f.String() != want {
		t.Errorf("String() got %q, wanted %q", f.String(), want)
	}
}
