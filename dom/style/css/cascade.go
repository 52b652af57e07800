package css

import (
	"iter"
	"strings"

	"github.com/npillmayer/inspector/dom/style"
	"github.com/npillmayer/inspector/dom/style/cssom"
	"github.com/npillmayer/tyse/core/dimen"
	"golang.org/x/net/html"
)

// ComputeStyles computes the style properties of an HTML node from the rules
// matching it. matches are expected in cascade order (see cssom.SortMatches).
// parent is the computed style of the parent node, or nil for the root of a
// document.
//
// The resulting property map contains a value for every property known to
// package style, plus any other property declared by a matching rule.
func ComputeStyles(node *html.Node, parent *style.PropertyMap, matches []cssom.Match) *style.PropertyMap {
	decl := collectDeclarations(node, matches)
	computed := style.NewPropertyMap()
	parentFontSize := rootFontSize
	if fs, ok := parent.Property("font-size"); ok {
		parentFontSize = pxOrDefault(fs, rootFontSize)
	}
	resolve := func(key string) style.Property {
		value, ok := decl[key]
		switch {
		case ok && value.IsInherit():
			return inherited(node, parent, key)
		case ok && value.IsInitial():
			return style.GetUserAgentDefaultProperty(nil, key)
		case ok:
			return value
		case style.IsCascading(key):
			return inherited(node, parent, key)
		}
		return style.GetUserAgentDefaultProperty(node, key)
	}
	fontSize := computeFontSize(resolve("font-size"), parentFontSize)
	computed.Add("font-size", style.Property(FormatPx(fontSize)))
	color := resolve("color")
	if strings.EqualFold(color.String(), "currentcolor") {
		color = inherited(node, parent, "color")
	}
	computed.Add("color", normalizeValue(node, "color", color, fontSize))
	for key := range keys(decl) {
		if key == "font-size" || key == "color" {
			continue
		}
		value := resolve(key)
		if isColorKey(key) && strings.EqualFold(value.String(), "currentcolor") {
			value, _ = computed.Property("color")
		}
		computed.Add(key, normalizeValue(node, key, value, fontSize))
	}
	return computed
}

// collectDeclarations applies the cascade to the declarations of a list of
// matching rules: user-agent styles of the element first, then normal
// declarations in cascade order, then !important ones.
// Shorthand properties are expanded.
func collectDeclarations(node *html.Node, matches []cssom.Match) map[string]style.Property {
	decl := make(map[string]style.Property)
	for _, kv := range style.ElementDefaults(node) {
		decl[kv.Key] = kv.Value
	}
	for _, important := range []bool{false, true} {
		for _, m := range matches {
			for _, key := range m.Rule.Properties() {
				if m.Rule.IsImportant(key) != important {
					continue
				}
				value := m.Rule.Value(key)
				if !style.IsCompoundProperty(key) {
					decl[key] = value
					continue
				}
				kvs, err := style.SplitCompoundProperty(key, value)
				if err != nil {
					tracer().P("selector", m.Selector).Infof("ignoring declaration: %v", err)
					continue
				}
				for _, kv := range kvs {
					decl[kv.Key] = kv.Value
				}
			}
		}
	}
	return decl
}

// keys iterates over all known property keys and then over the keys of
// other declared properties.
func keys(decl map[string]style.Property) iter.Seq[string] {
	return func(yield func(string) bool) {
		for key := range style.KnownProperties() {
			if !yield(key) {
				return
			}
		}
		for key := range decl {
			if !style.IsKnownProperty(key) && !yield(key) {
				return
			}
		}
	}
}

func inherited(node *html.Node, parent *style.PropertyMap, key string) style.Property {
	if p, ok := parent.Property(key); ok && !p.IsEmpty() {
		return p
	}
	return style.GetUserAgentDefaultProperty(node, key)
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
}

// computeFontSize resolves a font-size value to px. Relative values are
// relative to the parent's font size.
func computeFontSize(p style.Property, parentFontSize float64) float64 {
	kw := strings.ToLower(strings.TrimSpace(p.String()))
	if px, ok := fontSizeKeywords[kw]; ok {
		return px
	}
	switch kw {
	case "larger":
		return parentFontSize * 1.2
	case "smaller":
		return parentFontSize / 1.2
	}
	d, err := ParseDimen(p)
	if err != nil {
		tracer().Infof("illegal font-size %q, using parent's", p)
		return parentFontSize
	}
	var du dimen.DU
	var x float64
	switch m := d.Match(); m {
	case m.Just(&du):
		return Px(du)
	case m.FontRelative(&x):
		if d.flags&relativeMask == dimenREM {
			return x * rootFontSize
		}
		return x * parentFontSize
	case m.Percentage(nil):
		return d.rel * parentFontSize
	}
	return parentFontSize
}

func pxOrDefault(p style.Property, def float64) float64 {
	d, err := ParseDimen(p)
	if err != nil {
		return def
	}
	var du dimen.DU
	if m := d.Match(); m.Just(&du) != nil {
		return Px(du)
	}
	return def
}

func isColorKey(key string) bool {
	return key == "color" || key == "background-color" ||
		strings.HasPrefix(key, "border-") && strings.HasSuffix(key, "-color")
}

// normalizeValue converts a declared value into its computed form:
// lengths to px, colors to rgb() notation. Illegal display values are
// replaced by the user-agent default.
func normalizeValue(node *html.Node, key string, value style.Property, fontSize float64) style.Property {
	switch {
	case key == "display":
		if _, err := ParseDisplay(value.String()); err != nil {
			tracer().Infof("%v, using default", err)
			return style.GetUserAgentDefaultProperty(node, key)
		}
		return style.Property(strings.ToLower(strings.TrimSpace(value.String())))
	case style.IsDimensionKey(key):
		return NormalizeLength(value, fontSize)
	case isColorKey(key):
		if c, ok := value.Color(); ok {
			return style.Property(style.ColorString(c))
		}
	}
	return value
}

// IsDefaultValue is a predicate wether a declared value for a property equals
// the user-agent default of this property for node. Shorthand properties
// are default if all of their components are.
//
// Inherited values are not considered: a declared value equal to the
// user-agent default is reported as default even if it overrides a
// different value inherited from the parent.
func IsDefaultValue(node *html.Node, key string, value style.Property) bool {
	if style.IsCompoundProperty(key) {
		kvs, err := style.SplitCompoundProperty(key, value)
		if err != nil {
			return false
		}
		for _, kv := range kvs {
			if !IsDefaultValue(node, kv.Key, kv.Value) {
				return false
			}
		}
		return true
	}
	def := style.GetUserAgentDefaultProperty(node, key)
	if def.IsEmpty() {
		return false
	}
	if value.Equals(def) {
		return true
	}
	if !style.IsDimensionKey(key) && !isColorKey(key) {
		return false
	}
	v := normalizeValue(node, key, value, rootFontSize)
	return v.Equals(normalizeValue(node, key, def, rootFontSize))
}
