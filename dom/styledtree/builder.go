package styledtree

import (
	"github.com/npillmayer/inspector/dom/style"
	"github.com/npillmayer/inspector/dom/style/css"
	"github.com/npillmayer/inspector/dom/style/cssom"
	"github.com/npillmayer/inspector/dom/style/cssom/douceuradapter"
	"golang.org/x/net/html"
)

// Build creates a styled tree for an HTML parse tree. Styles are computed
// from rules, which may be nil.
//
// Node ids are assigned in document order, starting with 1 for root.
// Only the document node and element nodes become part of the styled tree.
func Build(root *html.Node, rules *cssom.RuleSet) *StyNode {
	if root == nil {
		return nil
	}
	var nextID NodeID
	var build func(h *html.Node, parent *StyNode) *StyNode
	build = func(h *html.Node, parent *StyNode) *StyNode {
		sn := Node(NewNodeForHTMLNode(h))
		nextID++
		sn.id = nextID
		if parent != nil {
			parent.AddChild(&sn.Node)
		}
		sn.style(rules, parent)
		for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.ElementNode {
				build(ch, sn)
			}
		}
		return sn
	}
	sn := build(root, nil)
	tracer().Debugf("styled tree has %d nodes", nextID)
	return sn
}

// Restyle re-computes the styles of a node and of all its descendents, e.g.
// after attributes of the HTML node have changed.
func Restyle(sn *StyNode, rules *cssom.RuleSet) {
	for n := range sn.All() {
		Node(n).style(rules, Node(n).ParentNode())
	}
}

func (sn *StyNode) style(rules *cssom.RuleSet, parent *StyNode) {
	sn.matched = rules.Match(sn.htmlNode)
	if inline, ok := inlineStyle(sn.htmlNode); ok {
		sn.matched = append(sn.matched, inline)
	}
	sn.computedStyles = css.ComputeStyles(sn.htmlNode, parent.stylesOrNil(), sn.matched)
}

func (sn *StyNode) stylesOrNil() *style.PropertyMap {
	if sn == nil {
		return nil
	}
	return sn.computedStyles
}

func inlineStyle(h *html.Node) (cssom.Match, bool) {
	if h.Type != html.ElementNode {
		return cssom.Match{}, false
	}
	for _, a := range h.Attr {
		if a.Namespace != "" || a.Key != "style" {
			continue
		}
		r, err := douceuradapter.ParseInline(a.Val)
		if err != nil {
			tracer().P("node", h.Data).Errorf("ignoring inline style: %v", err)
			return cssom.Match{}, false
		}
		return cssom.InlineMatch(r), len(r.Declarations) > 0
	}
	return cssom.Match{}, false
}
