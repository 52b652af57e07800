package css

// selectorGroups groups the properties of matched rules by selector text.
// Selectors keep the order of their first property, properties keep the
// order in which they are added. A selectorGroups lives for a single query.
type selectorGroups struct {
	selectors []string
	props     map[string][]CSSProperty
}

func newSelectorGroups() *selectorGroups {
	return &selectorGroups{props: make(map[string][]CSSProperty)}
}

func (g *selectorGroups) add(selector string, p CSSProperty) {
	if _, ok := g.props[selector]; !ok {
		g.selectors = append(g.selectors, selector)
	}
	g.props[selector] = append(g.props[selector], p)
}

// ruleMatches creates a rule match for every selector with at least one
// property.
func (g *selectorGroups) ruleMatches() []RuleMatch {
	matches := make([]RuleMatch, 0, len(g.selectors))
	for _, sel := range g.selectors {
		props := g.props[sel]
		if len(props) == 0 {
			continue
		}
		matches = append(matches, RuleMatch{
			Rule: CSSRule{
				SelectorList: SelectorList{
					Selectors: []Selector{{Value: sel}},
				},
				Origin: OriginRegular,
				Style: CSSStyle{
					CSSProperties:    append([]CSSProperty(nil), props...),
					ShorthandEntries: []ShorthandEntry{},
				},
			},
			MatchingSelectors: []int{},
		})
	}
	return matches
}
