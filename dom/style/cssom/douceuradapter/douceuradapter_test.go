package douceuradapter

import (
	"strings"
	"testing"

	"github.com/npillmayer/inspector/dom/style/cssom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var myhtml = `
<html><head>
<style>
  body { border-color: red; }
  .title, h1 { color: blue !important; margin: 1px 2px; }
</style>
</head><body>
  <h1 class="title">Hello</h1>
  <style>p { font-size: 12pt; }</style>
  <p>World</p>
</body>
`

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	h, err := html.Parse(strings.NewReader(myhtml))
	require.NoError(t, err)
	sheets := ExtractStyleElements(h)
	if len(sheets) != 2 {
		t.Fatalf("expected 2 style sheets, have %d", len(sheets))
	}
	rules := sheets[0].Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "body", rules[0].Selector())
	assert.Equal(t, []string{".title", "h1"}, rules[1].SelectorList())
	assert.Equal(t, []string{"color", "margin"}, rules[1].Properties())
	assert.True(t, rules[1].IsImportant("color"))
	assert.False(t, rules[1].IsImportant("margin"))
	assert.Equal(t, "1px 2px", rules[1].Value("margin").String())
	//
	sheets[0].AppendRules(sheets[1])
	assert.Len(t, sheets[0].Rules(), 3)
}

func TestParseInline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	r, err := ParseInline("color: green; width: 10px; color: red")
	require.NoError(t, err)
	assert.Equal(t, cssom.InlineSelector, r.Selector())
	assert.Equal(t, []string{cssom.InlineSelector}, r.SelectorList())
	assert.Equal(t, "red", r.Value("color").String(), "last declaration wins")
	assert.Equal(t, "", r.Value("height").String())
}

func TestEmptyStyleElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	h, err := html.Parse(strings.NewReader("<html><head><style></style></head><body></body></html>"))
	require.NoError(t, err)
	sheets := ExtractStyleElements(h)
	if len(sheets) != 0 {
		t.Errorf("expected empty <style> to be skipped, have %d sheets", len(sheets))
	}
}
