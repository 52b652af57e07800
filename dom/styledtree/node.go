package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/inspector/dom/style"
	"github.com/npillmayer/inspector/dom/style/cssom"
	"github.com/npillmayer/inspector/tree"
	"golang.org/x/net/html"
)

// NodeID identifies a styled node within a document.
// IDs are positive; 0 is never a valid node id.
type NodeID int

// StyNode is a style node, the building block of the styled tree.
type StyNode struct {
	tree.Node[*StyNode] // we build on top of general purpose tree
	htmlNode            *html.Node
	id                  NodeID
	matched             []cssom.Match
	computedStyles      *style.PropertyMap
}

// NewNodeForHTMLNode creates a new styled node linked to an HTML node.
func NewNodeForHTMLNode(html *html.Node) *tree.Node[*StyNode] {
	sn := &StyNode{}
	sn.Payload = sn // Payload will always reference the node itself
	sn.htmlNode = html
	return &sn.Node
}

// Node gets the styled node from a generic tree node.
func Node(n *tree.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// HTMLNode gets the HTML DOM node corresponding to this styled node.
func (sn *StyNode) HTMLNode() *html.Node {
	return sn.htmlNode
}

// ID returns the node id of a styled node.
func (sn *StyNode) ID() NodeID {
	return sn.id
}

// ParentNode returns the styled parent node, or nil for the root.
func (sn *StyNode) ParentNode() *StyNode {
	return Node(sn.Parent())
}

// NodeName returns "#document" for the document node and the tag name for
// elements.
func (sn *StyNode) NodeName() string {
	if sn.htmlNode == nil {
		return ""
	}
	if sn.htmlNode.Type == html.DocumentNode {
		return "#document"
	}
	return sn.htmlNode.Data
}

func (sn *StyNode) String() string {
	return fmt.Sprintf("<%s #%d>", sn.NodeName(), sn.id)
}

// Styles returns the computed styles of a node.
func (sn *StyNode) Styles() *style.PropertyMap {
	return sn.computedStyles
}

// MatchedRules returns the rules matching the node, in cascade order. An
// inline style, if present, is the last entry.
func (sn *StyNode) MatchedRules() []cssom.Match {
	return sn.matched
}

// GetPropertyValue returns the property value for a given key.
// If the property is not set for the node and is inherited, it will cascade
// to the parent nodes.
func (sn *StyNode) GetPropertyValue(key string) style.Property {
	for n := sn; n != nil; n = n.ParentNode() {
		p, ok := n.Styles().Property(key)
		if ok && !p.IsEmpty() && !p.IsInherit() {
			return p
		}
		if !p.IsInherit() && !style.IsCascading(key) {
			break
		}
		tracer().P("key", key).Debugf("styling: cascading from %s", n)
	}
	return style.NullStyle
}
