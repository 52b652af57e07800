package css

import (
	"github.com/npillmayer/inspector/dom"
)

// Origin is the origin of a style rule.
type Origin string

// Rule origins.
const (
	OriginRegular   Origin = "regular"
	OriginUserAgent Origin = "user-agent"
	OriginInjected  Origin = "injected"
	OriginInspector Origin = "inspector"
)

// CSSComputedStyleProperty is a property of a node's computed style.
type CSSComputedStyleProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SourceRange is a text range within a stylesheet.
type SourceRange struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// CSSProperty is a property declaration of a style rule.
// Optional fields are omitted when nil.
type CSSProperty struct {
	Name      string       `json:"name"`
	Value     string       `json:"value"`
	Important *bool        `json:"important,omitempty"`
	Implicit  *bool        `json:"implicit,omitempty"`
	Text      *string      `json:"text,omitempty"`
	ParsedOk  *bool        `json:"parsedOk,omitempty"`
	Disabled  *bool        `json:"disabled,omitempty"`
	Range     *SourceRange `json:"range,omitempty"`
}

// Selector is a single selector of a rule.
type Selector struct {
	Value string       `json:"value"`
	Range *SourceRange `json:"range,omitempty"`
}

// SelectorList is the list of selectors of a rule.
type SelectorList struct {
	Selectors []Selector `json:"selectors"`
	Text      *string    `json:"text,omitempty"`
}

// ShorthandEntry is a shorthand property of a style.
type ShorthandEntry struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Important *bool  `json:"important,omitempty"`
}

// CSSStyle is the set of property declarations of a rule.
type CSSStyle struct {
	StyleSheetID     *string          `json:"styleSheetId,omitempty"`
	CSSProperties    []CSSProperty    `json:"cssProperties"`
	ShorthandEntries []ShorthandEntry `json:"shorthandEntries"`
	CSSText          *string          `json:"cssText,omitempty"`
	Range            *SourceRange     `json:"range,omitempty"`
}

// CSSRule is a style rule.
type CSSRule struct {
	StyleSheetID *string      `json:"styleSheetId,omitempty"`
	SelectorList SelectorList `json:"selectorList"`
	Origin       Origin       `json:"origin"`
	Style        CSSStyle     `json:"style"`
}

// RuleMatch is a rule matching a node. MatchingSelectors holds the indices
// of the selectors of the rule which match the node.
type RuleMatch struct {
	Rule              CSSRule `json:"rule"`
	MatchingSelectors []int   `json:"matchingSelectors"`
}

// PseudoIdMatches are the rules matching a pseudo element of a node.
type PseudoIdMatches struct {
	PseudoID int         `json:"pseudoId"`
	Matches  []RuleMatch `json:"matches"`
}

// InheritedStyleEntry are the styles a node inherits from an ancestor.
type InheritedStyleEntry struct {
	InlineStyle     CSSStyle    `json:"inlineStyle"`
	MatchedCSSRules []RuleMatch `json:"matchedCSSRules"`
}

// --- Requests and results --------------------------------------------------

// GetComputedStyleForNodeRequest are the params of CSS.getComputedStyleForNode.
type GetComputedStyleForNodeRequest struct {
	NodeID dom.NodeID `json:"nodeId"`
}

// Required is part of interface protocol.Required.
func (GetComputedStyleForNodeRequest) Required() []string {
	return []string{"nodeId"}
}

// GetComputedStyleForNodeResult is the result of CSS.getComputedStyleForNode.
type GetComputedStyleForNodeResult struct {
	ComputedStyle []CSSComputedStyleProperty `json:"computedStyle"`
}

// GetMatchedStylesForNodeRequest are the params of CSS.getMatchedStylesForNode.
// The exclude flags are accepted, but have no effect.
type GetMatchedStylesForNodeRequest struct {
	NodeID           dom.NodeID `json:"nodeId"`
	ExcludePseudo    *bool      `json:"excludePseudo,omitempty"`
	ExcludeInherited *bool      `json:"excludeInherited,omitempty"`
}

// Required is part of interface protocol.Required.
func (GetMatchedStylesForNodeRequest) Required() []string {
	return []string{"nodeId"}
}

// GetMatchedStylesForNodeResult is the result of CSS.getMatchedStylesForNode.
type GetMatchedStylesForNodeResult struct {
	MatchedCSSRules []RuleMatch           `json:"matchedCSSRules"`
	PseudoElements  []PseudoIdMatches     `json:"pseudoElements"`
	Inherited       []InheritedStyleEntry `json:"inherited"`
}
