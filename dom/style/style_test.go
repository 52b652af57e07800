package style

import (
	"image/color"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestSplitCompound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	kvs, err := SplitCompoundProperty("margin", "1px 2px")
	if err != nil {
		t.Fatal(err)
	}
	expected := []KeyValue{
		{"margin-top", "1px"}, {"margin-right", "2px"},
		{"margin-bottom", "1px"}, {"margin-left", "2px"},
	}
	assert.Equal(t, expected, kvs)
	//
	kvs, err = SplitCompoundProperty("border-radius", "1px 2px 3px")
	if err != nil {
		t.Fatal(err)
	}
	expected = []KeyValue{
		{"border-top-left-radius", "1px"}, {"border-top-right-radius", "2px"},
		{"border-bottom-right-radius", "3px"}, {"border-bottom-left-radius", "2px"},
	}
	assert.Equal(t, expected, kvs)
	//
	kvs, _ = SplitCompoundProperty("border-style", "solid")
	for _, kv := range kvs {
		if kv.Value != "solid" {
			t.Errorf("expected %s to be solid, is %s", kv.Key, kv.Value)
		}
	}
	if _, err = SplitCompoundProperty("padding", "1px 2px 3px 4px 5px"); err == nil {
		t.Error("expected 5 padding values to be rejected, weren't")
	}
	if _, err = SplitCompoundProperty("color", "red"); err == nil {
		t.Error("expected color not to be a compound property")
	}
}

func TestPropertyMapAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	pmap := NewPropertyMap()
	pmap.Add("width", "10px")
	pmap.Add("color", "Red")
	pmap.Add("x-funny", "big")
	var keys []string
	for kv := range pmap.All() {
		keys = append(keys, kv.Key)
	}
	assert.Equal(t, []string{"color", "width", "x-funny"}, keys)
	p, ok := pmap.Property("color")
	assert.True(t, ok)
	assert.Equal(t, Property("Red"), p, "values are kept as declared")
	//
	c := pmap.Copy()
	c.Add("color", "blue")
	if p, _ = pmap.Property("color"); p != "Red" {
		t.Errorf("expected copy to be independent of original, color is %s", p)
	}
	var nilmap *PropertyMap
	for range nilmap.All() {
		t.Error("expected nil property map to be empty")
	}
}

func TestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	defaults := InitializeDefaultPropertyValues([]KeyValue{{"x-custom", "7"}})
	if p, ok := defaults.Property("x-custom"); !ok || p != "7" {
		t.Errorf("expected additional property to be set, is %q", p)
	}
	if g := defaults.Group(PGMargins).Cascade("margin-top"); g == nil {
		t.Error("expected margin-top to be found in default margins")
	}
	if g := defaults.Group(PGMargins).Cascade("margin-nowhere"); g != nil {
		t.Error("expected unknown key not to cascade to any group")
	}
	keys := slices.Collect(func(yield func(string) bool) {
		for kv := range defaults.All() {
			if !yield(kv.Key) {
				return
			}
		}
	})
	assert.Contains(t, keys, "font-size")
	assert.Contains(t, keys, "background-color")
	//
	p := &html.Node{Type: html.ElementNode, Data: "p"}
	span := &html.Node{Type: html.ElementNode, Data: "span"}
	assert.Equal(t, Property("block"), GetUserAgentDefaultProperty(p, "display"))
	assert.Equal(t, Property("inline"), GetUserAgentDefaultProperty(span, "display"))
	assert.Equal(t, Property("1em"), GetUserAgentDefaultProperty(p, "margin-top"))
	assert.Equal(t, Property("0"), GetUserAgentDefaultProperty(span, "margin-top"))
	assert.Equal(t, Property("black"), GetUserAgentDefaultProperty(nil, "color"))
	assert.Equal(t, NullStyle, GetUserAgentDefaultProperty(span, "x-unknown"))
	assert.True(t, IsDimensionKey("border-top-width"))
	assert.False(t, IsDimensionKey("border-top-style"))
	assert.True(t, IsCascading("font-size"))
	assert.False(t, IsCascading("margin-top"))
}

func TestColor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	tests := []struct {
		in  Property
		out string
	}{
		{"red", "rgb(255, 0, 0)"},
		{"Blue", "rgb(0, 0, 255)"},
		{"#0f0", "rgb(0, 255, 0)"},
		{"#102030", "rgb(16, 32, 48)"},
		{"rgb(1, 2, 3)", "rgb(1, 2, 3)"},
		{"rgba(10, 20, 30, 0.5)", "rgba(10, 20, 30, 0.5)"},
		{"transparent", "rgba(0, 0, 0, 0)"},
	}
	for _, test := range tests {
		c, ok := test.in.Color()
		if !ok {
			t.Errorf("expected %q to be a color, isn't", test.in)
			continue
		}
		assert.Equal(t, test.out, ColorString(c), "color %q", test.in)
	}
	if _, ok := Property("12px").Color(); ok {
		t.Error("expected 12px not to be a color")
	}
	assert.Equal(t, "rgb(0, 0, 0)", ColorString(color.Black))
}
