package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 0xff},
	"silver":      {0xc0, 0xc0, 0xc0, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"maroon":      {0x80, 0, 0, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"purple":      {0x80, 0, 0x80, 0xff},
	"fuchsia":     {0xff, 0, 0xff, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"lime":        {0, 0xff, 0, 0xff},
	"olive":       {0x80, 0x80, 0, 0xff},
	"yellow":      {0xff, 0xff, 0, 0xff},
	"navy":        {0, 0, 0x80, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"teal":        {0, 0x80, 0x80, 0xff},
	"aqua":        {0, 0xff, 0xff, 0xff},
	"orange":      {0xff, 0xa5, 0, 0xff},
	"powderblue":  {0xb0, 0xe0, 0xe6, 0xff},
	"transparent": {0, 0, 0, 0},
}

// Color interprets a property as a CSS color. It understands the basic
// named colors, hex notation (#rgb and #rrggbb) and rgb()/rgba() functional
// notation. If p is not a color value, Color returns false.
func (p Property) Color() (color.Color, bool) {
	s := p.keyword()
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return hexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return functionalColor(s)
	}
	return nil, false
}

func hexColor(h string) (color.Color, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, true
}

func functionalColor(s string) (color.Color, bool) {
	lp, rp := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if rp < lp {
		return nil, false
	}
	args := strings.FieldsFunc(s[lp+1:rp], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(args) != 3 && len(args) != 4 {
		return nil, false
	}
	var c [4]uint8
	c[3] = 0xff
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return nil, false
		}
		switch {
		case i == 3 && strings.HasSuffix(a, "%"):
			f = f * 255 / 100
		case i == 3:
			f = f * 255
		case strings.HasSuffix(a, "%"):
			f = f * 255 / 100
		}
		c[i] = uint8(min(max(f+0.5, 0), 255))
	}
	// color.RGBA is alpha-premultiplied, we keep it as a plain NRGBA
	return color.NRGBA{c[0], c[1], c[2], c[3]}, true
}

// ColorString formats a color the way browsers report computed colors,
// i.e. as rgb(r, g, b) or, if not opaque, as rgba(r, g, b, a).
func ColorString(c color.Color) string {
	if c == nil {
		return ""
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("rgb(%d, %d, %d)", n.R, n.G, n.B)
	}
	a := strconv.FormatFloat(math.Round(float64(n.A)*100/255)/100, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", n.R, n.G, n.B, a)
}
