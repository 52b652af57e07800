package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/inspector/dom/style"
	"github.com/npillmayer/tyse/core/dimen"
	. "github.com/npillmayer/tyse/core/percent"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// ErrNotADimension is returned by ParseDimen for values which are not
// CSS lengths.
var ErrNotADimension = errors.New("not a CSS dimension")

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d       dimen.DU
	percent Percent
	rel     float64 // factor for font- or viewport-relative units
	flags   uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage Percent
	| ViewRel unit
	| FontRel unit
	| ContentRel Min N
	| ContentRel Max N
*/

// Auto is the 'auto' dimension.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Inherit is the 'inherit' dimension.
func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

// Initial is the 'initial' dimension.
func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n Percent) DimenT {
	return DimenT{percent: n, flags: dimenPercent}
}

// FontRelative creates a CSS dimension relative to the element's font size.
func FontRelative(x float64) DimenT {
	return DimenT{rel: x, flags: dimenEM}
}

// RootFontRelative creates a CSS dimension relative to the root element's
// font size.
func RootFontRelative(x float64) DimenT {
	return DimenT{rel: x, flags: dimenREM}
}

// IsAbsolute is a predicate for fixed dimensions.
func (d DimenT) IsAbsolute() bool {
	return d.flags&kindMask == dimenAbsolute
}

// IsRelative is a predicate for dimensions depending on the rendering context,
// i.e. font sizes, viewport or containing block.
func (d DimenT) IsRelative() bool {
	return d.flags&relativeMask > 0
}

// ---------------------------------------------------------------------------

// Match starts a switch-style match on a dimension:
//
//	var du dimen.DU
//	switch m := d.Match(); m {
//	case m.Just(&du):
//	    …
//	case m.IsKind(css.Auto()):
//	    …
//	}
func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

// Matcher is a helper type for matching dimensions.
type Matcher struct {
	dimen DimenT
}

// IsKind matches if the dimension is of the same kind as d.
func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case (m.dimen.flags&relativeMask > 0) && (d.flags&relativeMask > 0):
		if (m.dimen.flags&relativeMask == dimenPercent) != (d.flags&relativeMask == dimenPercent) {
			return nil
		}
		return m
	case (m.dimen.flags&contentMask > 0) && (d.flags&contentMask > 0):
		return m
	case m.dimen.flags&(relativeMask|contentMask) > 0 || d.flags&(relativeMask|contentMask) > 0:
		return nil
	case (m.dimen.flags & kindMask) == (d.flags & kindMask):
		return m
	}
	return nil
}

// Just matches fixed dimensions and unpacks the value into du.
func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.flags&kindMask == dimenAbsolute {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

// Percentage matches %-relative dimensions and unpacks the value into p.
func (m *Matcher) Percentage(p *Percent) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.percent
		}
		return m
	}
	return nil
}

// FontRelative matches em and rem dimensions and unpacks the factor into x.
func (m *Matcher) FontRelative(x *float64) *Matcher {
	if r := m.dimen.flags & relativeMask; r == dimenEM || r == dimenREM {
		if x != nil {
			*x = m.dimen.rel
		}
		return m
	}
	return nil
}

// --- Parsing ---------------------------------------------------------------

// absolute units in points
var unitPoints = map[string]float64{
	"pt": 1,
	"px": 0.75,
	"pc": 12,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
}

var relativeUnits = map[string]uint32{
	"em":   dimenEM,
	"ex":   dimenEX,
	"ch":   dimenCH,
	"rem":  dimenREM,
	"vw":   dimenVW,
	"vh":   dimenVH,
	"vmin": dimenVMIN,
	"vmax": dimenVMAX,
}

// ParseDimen parses a CSS length property, e.g. "12px" or "auto".
func ParseDimen(p style.Property) (DimenT, error) {
	s := strings.ToLower(strings.TrimSpace(p.String()))
	switch s {
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "max-content":
		return DimenT{flags: DimenContentMax}, nil
	case "min-content":
		return DimenT{flags: DimenContentMin}, nil
	case "fit-content":
		return DimenT{flags: DimenContentFit}, nil
	}
	i := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+')
	})
	num, unit := s, ""
	if i >= 0 {
		num, unit = s[:i], s[i:]
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return DimenT{}, fmt.Errorf("%w: %q", ErrNotADimension, p)
	}
	if unit == "" {
		if n != 0 {
			return DimenT{}, fmt.Errorf("%w: %q has no unit", ErrNotADimension, p)
		}
		return JustDimen(0), nil
	}
	if unit == "%" {
		d := Percentage(FromInt(int(n)))
		d.rel = n / 100
		return d, nil
	}
	if pts, ok := unitPoints[unit]; ok {
		return JustDimen(dimen.DU(math.Round(n * pts * float64(dimen.PT)))), nil
	}
	if flag, ok := relativeUnits[unit]; ok {
		return DimenT{rel: n, flags: flag}, nil
	}
	return DimenT{}, fmt.Errorf("%w: unknown unit %q", ErrNotADimension, unit)
}

// Px returns a fixed dimension in CSS pixels.
func Px(du dimen.DU) float64 {
	return float64(du) / float64(dimen.PT) / unitPoints["px"]
}

// FormatPx formats a pixel value the way browsers report computed lengths,
// e.g. "12px" or "37.8px".
func FormatPx(px float64) string {
	px = math.Round(px*100) / 100
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}

// NormalizeLength converts a length property to its computed value in
// pixels. Font-relative lengths are resolved against fontSize (in px).
// Values which cannot be resolved without a layout context (percentages,
// viewport units, keywords) are returned unchanged.
func NormalizeLength(p style.Property, fontSize float64) style.Property {
	d, err := ParseDimen(p)
	if err != nil {
		return p
	}
	var du dimen.DU
	var x float64
	switch m := d.Match(); m {
	case m.Just(&du):
		return style.Property(FormatPx(Px(du)))
	case m.FontRelative(&x):
		if d.flags&relativeMask == dimenREM {
			return style.Property(FormatPx(x * rootFontSize))
		}
		return style.Property(FormatPx(x * fontSize))
	}
	return p
}

const rootFontSize = 16.0
