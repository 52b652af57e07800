/*
Package styledtree is a straightforward default implementation of a styled document tree.

Overview

A styled tree mirrors the element structure of an HTML parse tree. Every
styled node links to its HTML node, carries a node id, the rules matching
it and its computed style. Text nodes, comments and the like are not
part of the styled tree.

Build creates a styled tree from an HTML parse tree and a compiled set of
CSS rules; Restyle re-computes styles of a sub-tree after the underlying
HTML nodes have changed.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inspector.dom'.
func tracer() tracing.Trace {
	return tracing.Select("inspector.dom")
}
