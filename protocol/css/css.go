/*
Package css implements the CSS domain of the inspection protocol.

The domain answers two queries of a remote inspector: the computed style of
a node (CSS.getComputedStyleForNode) and the style rules matching a node
(CSS.getMatchedStylesForNode). Both read from a Document confined to its
own goroutine: a query posts a task to the document and waits for it, and
all style data is collected within that task. The response is shaped only
after the task has completed.

Node ids which cannot be resolved are not an error. They are traced and
answered with empty results.

While at least one peer is attached to the domain, the document is kept
active (see dom.Document.AddRef).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/npillmayer/inspector/dom"
	"github.com/npillmayer/inspector/dom/style"
	"github.com/npillmayer/inspector/dom/styledtree"
	"github.com/npillmayer/inspector/maybe"
	"github.com/npillmayer/inspector/protocol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inspector.protocol'.
func tracer() tracing.Trace {
	return tracing.Select("inspector.protocol")
}

// Document is the styled document the domain reads from. N is the type of
// the document's nodes. *dom.Document implements Document for
// N = *styledtree.StyNode.
//
// ResolveNode, ComputedStyle and MatchedStyle are only called from within
// a task run by PostAndWait.
type Document[N any] interface {
	PostAndWait(ctx context.Context, task func()) error
	ResolveNode(id dom.NodeID) maybe.Maybe[N]
	ComputedStyle(node N) iter.Seq[style.KeyValue]
	MatchedStyle(node N) iter.Seq[dom.MatchedProperty]
	AddRef()
	Release()
}

// Domain is the CSS domain.
type Domain[N any] struct {
	doc     Document[N]
	peers   *protocol.PeerManager
	timeout time.Duration
}

var _ protocol.PeerObserver = (*Domain[*styledtree.StyNode])(nil)

// Option configures a domain.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithQueryTimeout limits the time a query waits for the document. If the
// document does not answer in time, the query fails with an internal
// error. The document task itself is not aborted. The default is to wait
// without limit.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// New creates a CSS domain for a document.
func New[N any](doc Document[N], opts ...Option) *Domain[N] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	d := &Domain[N]{
		doc:     doc,
		peers:   protocol.NewPeerManager(),
		timeout: o.timeout,
	}
	d.peers.SetListener(newLifecycle(doc))
	return d
}

// ForDocument creates a CSS domain for a dom.Document.
func ForDocument(doc *dom.Document, opts ...Option) *Domain[*styledtree.StyNode] {
	return New[*styledtree.StyNode](doc, opts...)
}

// Name is part of interface protocol.Domain.
func (d *Domain[N]) Name() string {
	return "CSS"
}

// Methods is part of interface protocol.Domain.
func (d *Domain[N]) Methods() map[string]protocol.Handler {
	return map[string]protocol.Handler{
		"enable":  d.enable,
		"disable": d.disable,
		"getComputedStyleForNode": func(ctx context.Context, _ protocol.Peer, params json.RawMessage) (any, error) {
			req, err := protocol.DecodeParams[GetComputedStyleForNodeRequest](params)
			if err != nil {
				return nil, err
			}
			return d.GetComputedStyleForNode(ctx, req)
		},
		"getMatchedStylesForNode": func(ctx context.Context, _ protocol.Peer, params json.RawMessage) (any, error) {
			req, err := protocol.DecodeParams[GetMatchedStylesForNodeRequest](params)
			if err != nil {
				return nil, err
			}
			return d.GetMatchedStylesForNode(ctx, req)
		},
	}
}

// PeerAttached is part of interface protocol.PeerObserver.
func (d *Domain[N]) PeerAttached(peer protocol.Peer) {
	d.peers.AddPeer(peer)
}

// PeerDetached is part of interface protocol.PeerObserver.
func (d *Domain[N]) PeerDetached(peer protocol.Peer) {
	d.peers.RemovePeer(peer)
}

func (d *Domain[N]) enable(context.Context, protocol.Peer, json.RawMessage) (any, error) {
	return nil, nil
}

func (d *Domain[N]) disable(context.Context, protocol.Peer, json.RawMessage) (any, error) {
	return nil, nil
}

// GetComputedStyleForNode returns the computed style of a node, in the
// order the document reports the properties.
func (d *Domain[N]) GetComputedStyleForNode(ctx context.Context, req GetComputedStyleForNodeRequest) (*GetComputedStyleForNodeResult, error) {
	result := &GetComputedStyleForNodeResult{
		ComputedStyle: []CSSComputedStyleProperty{},
	}
	err := d.postAndWait(ctx, func() {
		var node N
		switch m := d.doc.ResolveNode(req.NodeID).Match(); m {
		case m.Just(&node):
		case m.Nothing():
			tracer().P("node", req.NodeID).Errorf("tried to get the style of a node that does not exist")
			return
		}
		for kv := range d.doc.ComputedStyle(node) {
			result.ComputedStyle = append(result.ComputedStyle, CSSComputedStyleProperty{
				Name:  kv.Key,
				Value: kv.Value.String(),
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetMatchedStylesForNode returns the rules matching a node, one rule per
// selector. Properties with a user-agent default value are left out, as
// are selectors with no properties left.
func (d *Domain[N]) GetMatchedStylesForNode(ctx context.Context, req GetMatchedStylesForNodeRequest) (*GetMatchedStylesForNodeResult, error) {
	groups := newSelectorGroups()
	err := d.postAndWait(ctx, func() {
		var node N
		switch m := d.doc.ResolveNode(req.NodeID).Match(); m {
		case m.Just(&node):
		case m.Nothing():
			tracer().P("node", req.NodeID).Infof("failed to get style of a node that does not exist")
			return
		}
		for mp := range d.doc.MatchedStyle(node) {
			if mp.IsDefault {
				continue
			}
			groups.add(mp.Selector, cssProperty(mp))
		}
	})
	if err != nil {
		return nil, err
	}
	return &GetMatchedStylesForNodeResult{
		MatchedCSSRules: groups.ruleMatches(),
		PseudoElements:  []PseudoIdMatches{},
		Inherited:       []InheritedStyleEntry{},
	}, nil
}

func (d *Domain[N]) postAndWait(ctx context.Context, task func()) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := d.doc.PostAndWait(ctx, task); err != nil {
		return fmt.Errorf("%w: reading document: %v", protocol.ErrInternal, err)
	}
	return nil
}

func cssProperty(mp dom.MatchedProperty) CSSProperty {
	p := CSSProperty{
		Name:  mp.Name,
		Value: mp.Value.String(),
	}
	if mp.Important {
		important := true
		p.Important = &important
	}
	return p
}
