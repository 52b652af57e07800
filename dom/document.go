package dom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/inspector/dom/looper"
	"github.com/npillmayer/inspector/dom/style"
	"github.com/npillmayer/inspector/dom/style/css"
	"github.com/npillmayer/inspector/dom/style/cssom"
	"github.com/npillmayer/inspector/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/inspector/dom/styledtree"
	"github.com/npillmayer/inspector/maybe"
	"golang.org/x/net/html"
)

// NodeID identifies an element of an active document.
type NodeID = styledtree.NodeID

// Errors returned by document operations.
var (
	ErrInactive   = errors.New("document is not active")
	ErrNoSuchNode = errors.New("no such node")
	ErrStyleSheet = errors.New("cannot parse stylesheet")
)

// MatchedProperty is a property declaration of a rule matching a node.
type MatchedProperty struct {
	Selector  string         // selector of the rule, cssom.InlineSelector for inline styles
	Name      string         // property name, e.g. "margin"
	Value     style.Property // declared value
	Important bool           // declared as !important
	IsDefault bool           // declared value equals the user-agent default
}

// Document is a live HTML document with styles. See package doc.
type Document struct {
	looper *looper.Looper
	// the following fields are owned by looper
	html   *html.Node
	rules  *cssom.RuleSet
	refcnt int
	root   *styledtree.StyNode
	nodes  map[NodeID]*styledtree.StyNode
}

type options struct {
	sheets   []string
	queueLen int
}

// Option configures a document.
type Option func(*options)

// WithStyleSheet adds an external stylesheet to a document. External
// stylesheets precede the stylesheets embedded in the document, in the
// order they are given.
func WithStyleSheet(text string) Option {
	return func(o *options) {
		o.sheets = append(o.sheets, text)
	}
}

// WithQueueLength sets the number of tasks which may be queued for the
// document's goroutine without blocking.
func WithQueueLength(n int) Option {
	return func(o *options) {
		o.queueLen = n
	}
}

// Parse reads an HTML document and its stylesheets. The document starts
// inactive. Clients have to call Close when done with the document.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	o := options{queueLen: 16}
	for _, opt := range opts {
		opt(&o)
	}
	h, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML document: %w", err)
	}
	var sheets []cssom.StyleSheet
	external, err := mergeStyleSheets(o.sheets)
	if err != nil {
		return nil, err
	}
	if external != nil {
		sheets = append(sheets, external)
	}
	for _, sheet := range douceuradapter.ExtractStyleElements(h) {
		sheets = append(sheets, sheet)
	}
	doc := &Document{
		looper: looper.New(o.queueLen),
		html:   h,
		rules:  cssom.Compile(sheets...),
	}
	tracer().Infof("document parsed, %d stylesheets with %d selectors", len(sheets), doc.rules.Len())
	return doc, nil
}

// mergeStyleSheets parses external stylesheets into a single one, keeping
// the order of their rules.
func mergeStyleSheets(texts []string) (cssom.StyleSheet, error) {
	var merged cssom.StyleSheet
	for i, text := range texts {
		sheet, err := douceuradapter.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w #%d: %v", ErrStyleSheet, i+1, err)
		}
		if merged == nil {
			merged = sheet
			continue
		}
		merged.AppendRules(sheet)
	}
	return merged, nil
}

// Close stops the document's goroutine. Pending tasks are discarded.
func (d *Document) Close() {
	d.looper.Quit()
}

// PostAndWait runs a task on the document's goroutine and waits for it to
// complete, see looper.PostAndWait.
func (d *Document) PostAndWait(ctx context.Context, task func()) error {
	return d.looper.PostAndWait(ctx, task)
}

// --- Activation ------------------------------------------------------------

// AddRef increments the activation count of the document. The first call
// activates the document. AddRef does not wait for the activation to happen;
// tasks posted afterwards will see the active document. AddRef blocks while
// the task queue of the document is full.
func (d *Document) AddRef() {
	if err := d.looper.Post(context.Background(), d.addRef); err != nil {
		tracer().Errorf("cannot activate document: %v", err)
	}
}

// Release decrements the activation count of the document. The last call
// deactivates the document. Like AddRef, it blocks while the task queue of
// the document is full.
func (d *Document) Release() {
	if err := d.looper.Post(context.Background(), d.release); err != nil {
		tracer().Errorf("cannot deactivate document: %v", err)
	}
}

func (d *Document) addRef() {
	d.refcnt++
	if d.refcnt == 1 {
		d.activate()
	}
}

func (d *Document) release() {
	if d.refcnt == 0 {
		tracer().Errorf("document released more often than referenced")
		return
	}
	d.refcnt--
	if d.refcnt == 0 {
		d.root, d.nodes = nil, nil
		tracer().Infof("document deactivated")
	}
}

func (d *Document) activate() {
	d.root = styledtree.Build(d.html, d.rules)
	d.nodes = make(map[NodeID]*styledtree.StyNode)
	for n := range d.root.All() {
		d.nodes[styledtree.Node(n).ID()] = styledtree.Node(n)
	}
	tracer().Infof("document activated with %d nodes", len(d.nodes))
}

// IsActive returns true if the document is active.
//
// Owning goroutine only.
func (d *Document) IsActive() bool {
	return d.refcnt > 0
}

// --- Owning goroutine reads ------------------------------------------------

// ResolveNode finds the styled node for a node id.
//
// Owning goroutine only.
func (d *Document) ResolveNode(id NodeID) maybe.Maybe[*styledtree.StyNode] {
	sn, ok := d.nodes[id]
	return maybe.Of(sn, ok)
}

// ComputedStyle iterates over the computed style properties of a node,
// sorted by property name.
//
// Owning goroutine only.
func (d *Document) ComputedStyle(sn *styledtree.StyNode) iter.Seq[style.KeyValue] {
	return sn.Styles().All()
}

// MatchedStyle iterates over the property declarations of all rules matching
// a node, in cascade order. Declarations within a rule are reported in
// source order; a property declared more than once in a rule is reported
// once, with its effective value.
//
// Owning goroutine only.
func (d *Document) MatchedStyle(sn *styledtree.StyNode) iter.Seq[MatchedProperty] {
	return func(yield func(MatchedProperty) bool) {
		for _, m := range sn.MatchedRules() {
			seen := make(map[string]bool)
			for _, key := range m.Rule.Properties() {
				if seen[key] {
					continue
				}
				seen[key] = true
				value := m.Rule.Value(key)
				mp := MatchedProperty{
					Selector:  m.Selector,
					Name:      key,
					Value:     value,
					Important: m.Rule.IsImportant(key),
					IsDefault: css.IsDefaultValue(sn.HTMLNode(), key, value),
				}
				if !yield(mp) {
					return
				}
			}
		}
	}
}

// --- Conveniences ----------------------------------------------------------

// FindNode returns the id of the first element matching a CSS selector.
func (d *Document) FindNode(ctx context.Context, selector string) (NodeID, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return 0, fmt.Errorf("illegal selector %q: %w", selector, err)
	}
	var id NodeID
	perr := d.PostAndWait(ctx, func() {
		if !d.IsActive() {
			err = ErrInactive
			return
		}
		for n := range d.root.All() {
			if h := styledtree.Node(n).HTMLNode(); h.Type == html.ElementNode && sel.Match(h) {
				id = styledtree.Node(n).ID()
				return
			}
		}
		err = fmt.Errorf("%w: %s", ErrNoSuchNode, selector)
	})
	if perr != nil {
		return 0, perr
	}
	return id, err
}

// SetAttribute sets (or, for an empty value, removes) an attribute of an
// element and re-computes the styles of the document.
func (d *Document) SetAttribute(ctx context.Context, id NodeID, key, value string) error {
	var err error
	perr := d.PostAndWait(ctx, func() {
		sn, ok := d.ResolveNode(id).Get()
		if !ok {
			err = fmt.Errorf("%w: %d", ErrNoSuchNode, id)
			return
		}
		h := sn.HTMLNode()
		if h.Type != html.ElementNode {
			err = fmt.Errorf("%w: %d is not an element", ErrNoSuchNode, id)
			return
		}
		setAttr(h, key, value)
		styledtree.Restyle(d.root, d.rules)
		tracer().P("node", id).Debugf("attribute %s set, document restyled", key)
	})
	if perr != nil {
		return perr
	}
	return err
}

func setAttr(h *html.Node, key, value string) {
	key = strings.ToLower(key)
	for i, a := range h.Attr {
		if a.Namespace == "" && a.Key == key {
			if value == "" {
				h.Attr = append(h.Attr[:i], h.Attr[i+1:]...)
			} else {
				h.Attr[i].Val = value
			}
			return
		}
	}
	if value != "" {
		h.Attr = append(h.Attr, html.Attribute{Key: key, Val: value})
	}
}

// Inspect calls f on the document's goroutine with the root of the styled
// tree. If the document is inactive, f will get a temporary styled tree
// without stable node ids.
func (d *Document) Inspect(ctx context.Context, f func(root *styledtree.StyNode)) error {
	return d.PostAndWait(ctx, func() {
		root := d.root
		if root == nil {
			root = styledtree.Build(d.html, d.rules)
		}
		f(root)
	})
}
