package style

import (
	"iter"

	"golang.org/x/net/html"
)

// userAgentDefaults are the initial values of every property we know of.
// In real-world browsers these are the user-agent CSS values.
var userAgentDefaults = []KeyValue{
	{"margin-top", "0"}, // Margins
	{"margin-left", "0"},
	{"margin-right", "0"},
	{"margin-bottom", "0"},
	{"padding-top", "0"}, // Padding
	{"padding-left", "0"},
	{"padding-right", "0"},
	{"padding-bottom", "0"},
	{"border-top-color", "currentcolor"}, // Border
	{"border-left-color", "currentcolor"},
	{"border-right-color", "currentcolor"},
	{"border-bottom-color", "currentcolor"},
	{"border-top-width", "medium"},
	{"border-left-width", "medium"},
	{"border-right-width", "medium"},
	{"border-bottom-width", "medium"},
	{"border-top-style", "none"},
	{"border-left-style", "none"},
	{"border-right-style", "none"},
	{"border-bottom-style", "none"},
	{"border-top-left-radius", "0"},
	{"border-top-right-radius", "0"},
	{"border-bottom-left-radius", "0"},
	{"border-bottom-right-radius", "0"},
	{"width", "auto"}, // Dimension
	{"height", "auto"},
	{"min-width", "auto"},
	{"min-height", "auto"},
	{"max-width", "none"},
	{"max-height", "none"},
	{"display", "inline"}, // Display
	{"float", "none"},
	{"visibility", "visible"},
	{"position", "static"},
	{"top", "auto"},
	{"right", "auto"},
	{"bottom", "auto"},
	{"left", "auto"},
	{"flow-from", "none"}, // Regions
	{"flow-into", "none"},
	{"color", "black"}, // Colors
	{"background-color", "transparent"},
	{"font-family", "serif"}, // Fonts
	{"font-size", "16px"},
	{"font-style", "normal"},
	{"font-weight", "normal"},
	{"line-height", "normal"},
	{"direction", "ltr"}, // Text
	{"text-align", "start"},
	{"white-space", "normal"},
	{"word-spacing", "normal"},
	{"letter-spacing", "normal"},
	{"word-break", "normal"},
	{"word-wrap", "normal"},
}

var uaDefaultsDict map[string]Property

func init() {
	uaDefaultsDict = make(map[string]Property, len(userAgentDefaults))
	for _, kv := range userAgentDefaults {
		uaDefaultsDict[kv.Key] = kv.Value
	}
}

// elementDefaults are user-agent styles for specific HTML elements, i.e.
// what a browser's default stylesheet would set for them.
var elementDefaults = map[string][]KeyValue{
	"body":   {{"margin-top", "8px"}, {"margin-right", "8px"}, {"margin-bottom", "8px"}, {"margin-left", "8px"}},
	"p":      {{"margin-top", "1em"}, {"margin-bottom", "1em"}},
	"h1":     {{"font-size", "2em"}, {"font-weight", "bold"}, {"margin-top", "0.67em"}, {"margin-bottom", "0.67em"}},
	"h2":     {{"font-size", "1.5em"}, {"font-weight", "bold"}, {"margin-top", "0.83em"}, {"margin-bottom", "0.83em"}},
	"h3":     {{"font-size", "1.17em"}, {"font-weight", "bold"}, {"margin-top", "1em"}, {"margin-bottom", "1em"}},
	"b":      {{"font-weight", "bold"}},
	"strong": {{"font-weight", "bold"}},
	"i":      {{"font-style", "italic"}},
	"em":     {{"font-style", "italic"}},
	"ul":     {{"margin-top", "1em"}, {"margin-bottom", "1em"}, {"padding-left", "40px"}},
	"ol":     {{"margin-top", "1em"}, {"margin-bottom", "1em"}, {"padding-left", "40px"}},
}

// KnownProperties iterates over the keys of all properties we carry a
// user-agent default for.
func KnownProperties() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, kv := range userAgentDefaults {
			if !yield(kv.Key) {
				return
			}
		}
	}
}

// IsKnownProperty is a predicate wether key is a property we carry a
// user-agent default for.
func IsKnownProperty(key string) bool {
	_, ok := uaDefaultsDict[key]
	return ok
}

// IsDimensionKey is a predicate wether key denotes a property holding a
// length.
func IsDimensionKey(key string) bool {
	switch GroupNameFromPropertyKey(key) {
	case PGMargins, PGPadding, PGDimension:
		return true
	case PGBorder:
		return !isBorderKeyword(key)
	}
	switch key {
	case "top", "right", "bottom", "left", "font-size", "line-height",
		"letter-spacing", "word-spacing":
		return true
	}
	return false
}

func isBorderKeyword(key string) bool {
	return len(key) > 6 && (key[len(key)-6:] == "-color" || key[len(key)-6:] == "-style")
}

// GetUserAgentDefaultProperty returns the user-agent default property for a given key,
// as applicable to a given HTML node. node may be nil, resulting in the
// element-independent initial value.
func GetUserAgentDefaultProperty(node *html.Node, key string) Property {
	if key == "display" {
		if node == nil {
			return uaDefaultsDict[key]
		}
		return DisplayPropertyForHTMLNode(node)
	}
	if node != nil && node.Type == html.ElementNode {
		for _, kv := range elementDefaults[node.Data] {
			if kv.Key == key {
				return kv.Value
			}
		}
	}
	if p, ok := uaDefaultsDict[key]; ok {
		return p
	}
	return NullStyle
}

// ElementDefaults returns the element specific user-agent properties for
// an HTML node, in addition to the 'display' property.
func ElementDefaults(node *html.Node) []KeyValue {
	if node == nil || node.Type != html.ElementNode {
		return nil
	}
	kvs := []KeyValue{{"display", DisplayPropertyForHTMLNode(node)}}
	return append(kvs, elementDefaults[node.Data]...)
}

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "style", "script", "title", "meta", "link":
		return "none"
	case "html", "address", "article", "aside", "blockquote", "body", "div",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hr",
		"main", "nav", "ol", "p", "pre", "section", "ul":
		return "block"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "a", "b", "code", "em", "i", "img", "label", "small", "span", "strong",
		"sub", "sup", "u":
		return "inline"
	}
	tracer().Debugf("unknown HTML element %s will be set to display: inline", node.Data)
	return "inline"
}

// InitializeDefaultPropertyValues creates an internal data structure to
// hold all the default values for CSS properties.
// In real-world browsers these are the user-agent CSS values.
//
// Groups are chained to a common root group, which allows Cascade to
// terminate.
func InitializeDefaultPropertyValues(additionalProps []KeyValue) *PropertyMap {
	pmap := NewPropertyMap()
	root := NewPropertyGroup("Root")
	for _, kv := range userAgentDefaults {
		pmap.Add(kv.Key, kv.Value)
	}
	for _, kv := range additionalProps {
		pmap.Add(kv.Key, kv.Value)
	}
	for _, group := range pmap.m {
		group.Parent = root
	}
	return pmap
}
