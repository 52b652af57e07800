package dom

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/inspector/dom/style"
	"github.com/npillmayer/inspector/dom/style/cssom"
	"github.com/npillmayer/inspector/dom/styledtree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHTML = `<html><head>
<style>
p { margin: 0 0 2px 0; color: red; }
.note { color: blue !important; display: block; }
</style>
</head><body>
<p class="note" style="margin-left: 3px">Hello <b>World</b></p>
<div id="x"></div>
</body></html>`

func testDocument(t *testing.T, opts ...Option) *Document {
	doc, err := Parse(strings.NewReader(testHTML), opts...)
	require.NoError(t, err)
	t.Cleanup(doc.Close)
	return doc
}

func TestActivation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t)
	ctx := context.Background()
	var active bool
	var resolved bool
	require.NoError(t, doc.PostAndWait(ctx, func() {
		active = doc.IsActive()
		_, resolved = doc.ResolveNode(1).Get()
	}))
	assert.False(t, active)
	assert.False(t, resolved, "inactive document must not resolve node ids")
	//
	doc.AddRef()
	doc.AddRef()
	var names []string
	require.NoError(t, doc.PostAndWait(ctx, func() {
		active = doc.IsActive()
		for id := NodeID(1); id <= 7; id++ {
			sn, ok := doc.ResolveNode(id).Get()
			if !assert.True(t, ok, "node %d", id) {
				return
			}
			names = append(names, sn.NodeName())
		}
		_, resolved = doc.ResolveNode(8).Get()
	}))
	assert.True(t, active)
	assert.Equal(t, []string{"#document", "html", "head", "style", "body", "p", "b"}, names)
	assert.True(t, resolved, "div should have id 8")
	//
	doc.Release()
	require.NoError(t, doc.PostAndWait(ctx, func() { active = doc.IsActive() }))
	assert.True(t, active, "document should still be referenced once")
	doc.Release()
	require.NoError(t, doc.PostAndWait(ctx, func() {
		active = doc.IsActive()
		_, resolved = doc.ResolveNode(1).Get()
	}))
	assert.False(t, active)
	assert.False(t, resolved)
}

func TestComputedStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t)
	doc.AddRef()
	ctx := context.Background()
	id, err := doc.FindNode(ctx, "p")
	require.NoError(t, err)
	props := map[string]string{}
	var keys []string
	require.NoError(t, doc.PostAndWait(ctx, func() {
		sn, ok := doc.ResolveNode(id).Get()
		if !assert.True(t, ok) {
			return
		}
		for kv := range doc.ComputedStyle(sn) {
			keys = append(keys, kv.Key)
			props[kv.Key] = kv.Value.String()
		}
	}))
	assert.IsIncreasing(t, keys)
	assert.Equal(t, "rgb(0, 0, 255)", props["color"])
	assert.Equal(t, "block", props["display"])
	assert.Equal(t, "2px", props["margin-bottom"])
	assert.Equal(t, "3px", props["margin-left"])
}

func TestMatchedStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t)
	doc.AddRef()
	ctx := context.Background()
	id, err := doc.FindNode(ctx, ".note")
	require.NoError(t, err)
	var matched []MatchedProperty
	require.NoError(t, doc.PostAndWait(ctx, func() {
		sn, _ := doc.ResolveNode(id).Get()
		for mp := range doc.MatchedStyle(sn) {
			matched = append(matched, mp)
		}
	}))
	require.Len(t, matched, 5)
	assert.Equal(t, MatchedProperty{"p", "margin", style.Property("0 0 2px 0"), false, false}, matched[0])
	assert.Equal(t, "p", matched[1].Selector)
	assert.Equal(t, "color", matched[1].Name)
	assert.Equal(t, ".note", matched[2].Selector)
	assert.True(t, matched[2].Important)
	assert.Equal(t, "display", matched[3].Name)
	assert.True(t, matched[3].IsDefault, "display:block is the default for <p>")
	assert.Equal(t, cssom.InlineSelector, matched[4].Selector)
	assert.Equal(t, "margin-left", matched[4].Name)
}

func TestFindNodeInactive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t)
	ctx := context.Background()
	_, err := doc.FindNode(ctx, "p")
	assert.True(t, errors.Is(err, ErrInactive))
	doc.AddRef()
	_, err = doc.FindNode(ctx, "table")
	assert.True(t, errors.Is(err, ErrNoSuchNode))
	_, err = doc.FindNode(ctx, "p[")
	assert.Error(t, err)
}

func TestSetAttribute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t)
	doc.AddRef()
	ctx := context.Background()
	id, err := doc.FindNode(ctx, "#x")
	require.NoError(t, err)
	require.NoError(t, doc.SetAttribute(ctx, id, "class", "note"))
	var color string
	require.NoError(t, doc.PostAndWait(ctx, func() {
		sn, _ := doc.ResolveNode(id).Get()
		color = sn.GetPropertyValue("color").String()
	}))
	assert.Equal(t, "rgb(0, 0, 255)", color)
	require.NoError(t, doc.SetAttribute(ctx, id, "class", ""))
	require.NoError(t, doc.PostAndWait(ctx, func() {
		sn, _ := doc.ResolveNode(id).Get()
		color = sn.GetPropertyValue("color").String()
	}))
	assert.Equal(t, "rgb(0, 0, 0)", color)
	err = doc.SetAttribute(ctx, 99, "class", "note")
	assert.True(t, errors.Is(err, ErrNoSuchNode))
}

func TestExternalStyleSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t, WithStyleSheet("div { color: green; } p { color: green; }"))
	var div, p string
	err := doc.Inspect(context.Background(), func(root *styledtree.StyNode) {
		for n := range root.All() {
			switch sn := styledtree.Node(n); sn.NodeName() {
			case "div":
				div = sn.GetPropertyValue("color").String()
			case "p":
				p = sn.GetPropertyValue("color").String()
			}
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "rgb(0, 128, 0)", div)
	assert.Equal(t, "rgb(0, 0, 255)", p, "embedded stylesheet should win over external one")
	//
	_, err = Parse(strings.NewReader(testHTML), WithStyleSheet("p { color: red"))
	if err != nil {
		assert.True(t, errors.Is(err, ErrStyleSheet))
	}
}

func TestExternalStyleSheetsMerged(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t,
		WithStyleSheet("div { color: green; }"),
		WithStyleSheet("div { color: olive; } #x { margin-top: 1px; }"))
	doc.AddRef()
	ctx := context.Background()
	id, err := doc.FindNode(ctx, "div")
	require.NoError(t, err)
	var color string
	var selectors []string
	require.NoError(t, doc.PostAndWait(ctx, func() {
		sn, _ := doc.ResolveNode(id).Get()
		color = sn.GetPropertyValue("color").String()
		for mp := range doc.MatchedStyle(sn) {
			selectors = append(selectors, mp.Selector)
		}
	}))
	assert.Equal(t, "rgb(128, 128, 0)", color, "later external stylesheet should win")
	assert.Equal(t, []string{"div", "div", "#x"}, selectors)
	//
	_, err = mergeStyleSheets(nil)
	assert.NoError(t, err)
}

func TestAddRefBlocksOnFullQueue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t, WithQueueLength(1))
	ctx := context.Background()
	running, unblock := make(chan struct{}), make(chan struct{})
	require.NoError(t, doc.looper.Post(ctx, func() { close(running); <-unblock }))
	<-running
	require.NoError(t, doc.looper.Post(ctx, func() {}))
	added := make(chan struct{})
	go func() {
		doc.AddRef()
		close(added)
	}()
	isAdded := func() bool {
		select {
		case <-added:
			return true
		default:
			return false
		}
	}
	assert.Never(t, isAdded, 50*time.Millisecond, 5*time.Millisecond)
	close(unblock)
	assert.Eventually(t, isAdded, 2*time.Second, 5*time.Millisecond)
	var active bool
	require.NoError(t, doc.PostAndWait(ctx, func() { active = doc.IsActive() }))
	assert.True(t, active)
}

func TestDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc := testDocument(t)
	var buf bytes.Buffer
	require.NoError(t, doc.Dump(context.Background(), &buf))
	out := buf.String()
	t.Log("\n" + out)
	assert.Contains(t, out, "<#document #1>")
	assert.Contains(t, out, "<p #6> block {p, .note, element.style}")
	assert.Contains(t, out, "<div #8>")
}

func TestClosedDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	doc, err := Parse(strings.NewReader(testHTML))
	require.NoError(t, err)
	doc.Close()
	err = doc.PostAndWait(context.Background(), func() {})
	assert.Error(t, err)
}
