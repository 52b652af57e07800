/*
Package dom provides a live, styled HTML document for inspection.

Overview

A Document consists of an HTML parse tree, the CSS rules of its stylesheets
and, while the document is active, a styled tree with computed styles for
every element. All of this state is confined to a single goroutine, the
document's looper (see package looper). Clients read from a document by
posting a task and waiting for it:

	err := doc.PostAndWait(ctx, func() {
	    doc.ResolveNode(id)       // ok, on the owning goroutine
	    …
	})

Methods documented as "owning goroutine only" must only be called from
within such a task.

Activation

A document is reference counted. The first AddRef builds the styled tree
and assigns node ids; the last Release drops them again. Node ids are
only valid while the document is active and may differ between two
activations. Ids are assigned in document order, starting with 1 for the
document node. Only the document node and elements carry ids.

Tree Implementation

Styling involves a lot of operations on different trees.
We implement the various trees on top of a general purpose tree type
(package tree), which offers concurrent operations to manipluate
tree nodes.

In a fully object oriented programming language we would subclass this
tree type for every type of tree in use, but in Go we resort to composition,
thus including a generic tree node in every node (sub-)type. The downside
of this approach is that we will have to provide an adapter for every node
sub-type to return the sub-type from the generic type.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'inspector.dom'
func tracer() tracing.Trace {
	return tracing.Select("inspector.dom")
}
