package domdbg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/inspector/dom/style/cssom"
	"github.com/npillmayer/inspector/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/inspector/dom/styledtree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/net/html"
)

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	h, err := html.Parse(strings.NewReader(`<html><body><p id="x">Hello</p></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	sheet, err := douceuradapter.Parse("p { margin-top: 4px; }")
	if err != nil {
		t.Fatal(err)
	}
	root := styledtree.Build(h, cssom.Compile(sheet))
	var buf bytes.Buffer
	if err := ToGraphViz(root, &buf, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph g {") {
		t.Errorf("expected output to start a digraph, is %.40q", out)
	}
	for _, want := range []string{"node00001", "node00005", `"p id=x"`, "margin-top:", "4px", "node00004 -> node00005"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected GraphViz output to contain %q, doesn't", want)
		}
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Error("expected digraph to be closed")
	}
}
