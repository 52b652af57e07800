package maybe_test

import (
	"testing"

	. "github.com/npillmayer/inspector/maybe"
)

type node struct {
	id int
}

func TestMaybeMatch(t *testing.T) {
	x := Just(&node{id: 7})
	y := Nothing[*node]()

	var n *node
	switch m := x.Match(); m {
	case m.Just(&n):
		t.Logf("Just(%d)", n.id)
	case m.Nothing():
		t.Error("expected Just(node 7) to match Just, didn't")
	}
	if n == nil || n.id != 7 {
		t.Errorf("expected n to be node 7, is %#v", n)
	}

	var w *node
	matchedNothing := false
	switch m := y.Match(); m {
	case m.Just(&w):
		t.Logf("Just(%v)", w)
	case m.Nothing():
		matchedNothing = true
	}
	if !matchedNothing || w != nil {
		t.Errorf("expected Nothing to match Nothing and leave w unset, w = %#v", w)
	}
}

func TestMaybeGetAndOf(t *testing.T) {
	ids := map[int]string{1: "#document", 2: "html"}
	s, found := ids[3]
	if _, ok := Of(s, found).Get(); ok {
		t.Error("expected Of(…, false) to be Nothing, isn't")
	}
	s, found = ids[2]
	if v, ok := Of(s, found).Get(); !ok || v != "html" {
		t.Errorf("expected Of(html, true) to be Just(html), is %q/%v", v, ok)
	}
}

func TestMaybeWithDefault(t *testing.T) {
	if xx := Just(7).WithDefault(100); xx != 7 {
		t.Errorf("expected Just(7) to have value 7, is %d", xx)
	}
	if yy := Nothing[int]().WithDefault(100); yy != 100 {
		t.Errorf("expected Nothing to default to 100, is %d", yy)
	}
}

func TestMaybeMap(t *testing.T) {
	double := func(n int) int { return n * 2 }
	if v, _ := Just(7).Map(double).Get(); v != 14 {
		t.Errorf("expected Just(7).Map(…) to return 14, is %d", v)
	}
	if _, ok := Nothing[int]().Map(double).Get(); ok {
		t.Error("expected Nothing.Map(…) to stay Nothing, didn't")
	}
}

func TestMaybeAndThen(t *testing.T) {
	lookup := func(id int) Maybe[string] {
		if id == 1 {
			return Just("#document")
		}
		return Nothing[string]()
	}
	if v, ok := AndThen(lookup, Just(1)).Get(); !ok || v != "#document" {
		t.Errorf("expected Just(1) |> andThen(lookup) to be #document, is %q", v)
	}
	if _, ok := AndThen(lookup, Just(2)).Get(); ok {
		t.Error("expected lookup of 2 to be Nothing, isn't")
	}
	if _, ok := AndThen(lookup, Nothing[int]()).Get(); ok {
		t.Error("expected Nothing |> andThen(lookup) to be Nothing, isn't")
	}
}
