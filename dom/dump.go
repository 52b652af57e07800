package dom

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/inspector/dom/style/css"
	"github.com/npillmayer/inspector/dom/styledtree"
	"github.com/xlab/treeprint"
)

// Dump writes a textual representation of the styled tree to w, one line per
// node with its display mode and the selectors of the rules matching it.
func (d *Document) Dump(ctx context.Context, w io.Writer) error {
	var out string
	err := d.Inspect(ctx, func(root *styledtree.StyNode) {
		t := treeprint.NewWithRoot(nodeLabel(root))
		dumpChildren(root, t)
		out = t.String()
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func dumpChildren(sn *styledtree.StyNode, t treeprint.Tree) {
	for _, ch := range sn.Children() {
		child := styledtree.Node(ch)
		if child.ChildCount() == 0 {
			t.AddNode(nodeLabel(child))
			continue
		}
		dumpChildren(child, t.AddBranch(nodeLabel(child)))
	}
}

func nodeLabel(sn *styledtree.StyNode) string {
	display := sn.GetPropertyValue("display")
	mode, err := css.ParseDisplay(display.String())
	if err != nil {
		mode = css.NoMode
	}
	label := fmt.Sprintf("%s %s %s", mode.Symbol(), sn, display)
	var sels []string
	for _, m := range sn.MatchedRules() {
		sels = append(sels, m.Selector)
	}
	if len(sels) > 0 {
		label += " {" + strings.Join(sels, ", ") + "}"
	}
	return label
}
