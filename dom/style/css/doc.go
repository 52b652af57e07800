/*
Package css provides functionality for CSS styling.

CSS properties are plentyful and some of them are complicated.
This package trys to shield clients from the cumbersome handling of
CSS properties resulting of (1) the textual nature of CSS properties
and (2) the complicated semantics of computing style attributes for a
given node.

Computing the style of an element follows the CSS cascade, in a
simplified form:

  - declarations marked !important win over normal ones
  - inline styles (attribute style="…") win over stylesheet rules
  - more specific selectors win over less specific ones
  - later rules win over earlier ones

Properties not declared for an element are inherited from the parent
element, if they are inheritable, or take their user-agent default value
otherwise.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

// see
// https://developer.mozilla.org/en-US/docs/Web/CSS/Reference#dom-css_cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inspector.dom'.
func tracer() tracing.Trace {
	return tracing.Select("inspector.dom")
}
