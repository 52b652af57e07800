package cssom

import (
	"slices"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// InlineSelector is the selector text under which the declarations of an
// element's style attribute are reported.
const InlineSelector = "element.style"

// RuleSet is a set of rules with compiled selectors, ready to be matched
// against HTML elements.
type RuleSet struct {
	rules []compiledRule
}

type compiledRule struct {
	selector string
	sel      cascadia.Sel
	rule     Rule
	order    int // index of the rule in source order
}

// Compile compiles the selectors of all rules of a list of stylesheets.
// Stylesheets are expected in source order.
//
// Selectors which cascadia is unable to parse (e.g., pseudo elements) are
// skipped.
func Compile(sheets ...StyleSheet) *RuleSet {
	rs := &RuleSet{}
	order := 0
	for _, sheet := range sheets {
		if sheet == nil || sheet.Empty() {
			continue
		}
		for _, rule := range sheet.Rules() {
			for _, selector := range rule.SelectorList() {
				sel, err := cascadia.Parse(selector)
				if err != nil {
					tracer().P("selector", selector).Infof("skipping rule: %v", err)
					continue
				}
				rs.rules = append(rs.rules, compiledRule{
					selector: selector,
					sel:      sel,
					rule:     rule,
					order:    order,
				})
			}
			order++
		}
	}
	tracer().Debugf("compiled %d rules into %d selectors", order, len(rs.rules))
	return rs
}

// Len returns the number of compiled selectors.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Match is a rule matching an element.
type Match struct {
	Selector    string               // the selector of the rule which matched
	Specificity cascadia.Specificity // specificity of Selector
	Rule        Rule                 // the matching rule
	Order       int                  // source order of the rule
	Inline      bool                 // rule is from an element's style attribute
}

// Match finds all rules matching an HTML element. The result is sorted in
// cascade order, i.e. a later match takes precedence over an earlier one
// (disregarding !important).
//
// If more than one selector of a rule matches, the rule is reported once, for
// its most specific selector.
func (rs *RuleSet) Match(n *html.Node) []Match {
	if rs == nil || n == nil || n.Type != html.ElementNode {
		return nil
	}
	var matches []Match
	for _, cr := range rs.rules {
		if !cr.sel.Match(n) {
			continue
		}
		spec := cr.sel.Specificity()
		if k := len(matches) - 1; k >= 0 && matches[k].Order == cr.order {
			if matches[k].Specificity.Less(spec) {
				matches[k].Selector = cr.selector
				matches[k].Specificity = spec
			}
			continue
		}
		matches = append(matches, Match{
			Selector:    cr.selector,
			Specificity: spec,
			Rule:        cr.rule,
			Order:       cr.order,
		})
	}
	SortMatches(matches)
	return matches
}

// InlineMatch wraps the declarations of an element's style attribute.
func InlineMatch(rule Rule) Match {
	return Match{Selector: InlineSelector, Rule: rule, Inline: true}
}

// SortMatches sorts matches in cascade order: rules from stylesheets by
// specificity, then source order; inline styles last.
func SortMatches(matches []Match) {
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Inline != b.Inline:
			if a.Inline {
				return 1
			}
			return -1
		case a.Specificity.Less(b.Specificity):
			return -1
		case b.Specificity.Less(a.Specificity):
			return 1
		}
		return a.Order - b.Order
	})
}
