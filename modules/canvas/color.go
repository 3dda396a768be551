package canvas

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/deepnoodle-ai/canvasbox/object"
)

// ParseColor parses a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(),
// rgba(), "transparent" or a named color.
func ParseColor(css string) (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(css))
	switch {
	case strings.HasPrefix(s, "#"):
		if c, ok := parseHex(s[1:]); ok {
			return c, nil
		}
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		if c, ok := parseFunc(s[5:len(s)-1], 4); ok {
			return c, nil
		}
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		if c, ok := parseFunc(s[4:len(s)-1], 3); ok {
			return c, nil
		}
	case s == "transparent":
		return color.NRGBA{}, nil
	default:
		if c, ok := colornames.Map[s]; ok {
			return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
	}
	return color.NRGBA{}, object.TypeErrorf("Invalid color: %s", css)
}

func parseHex(s string) (color.NRGBA, bool) {
	switch len(s) {
	case 3, 4:
		expanded := make([]byte, 0, len(s)*2)
		for i := 0; i < len(s); i++ {
			expanded = append(expanded, s[i], s[i])
		}
		s = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, false
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func parseFunc(body string, n int) (color.NRGBA, bool) {
	parts := strings.Split(body, ",")
	if len(parts) != n {
		return color.NRGBA{}, false
	}
	var channels [4]uint8
	channels[3] = 255
	for i, part := range parts {
		part = strings.TrimSpace(part)
		percent := strings.HasSuffix(part, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(part, "%"), 64)
		if err != nil || math.IsNaN(f) {
			return color.NRGBA{}, false
		}
		switch {
		case i == 3 && percent:
			f = f / 100 * 255
		case i == 3:
			f *= 255
		case percent:
			f = f / 100 * 255
		}
		channels[i] = uint8(math.Round(math.Max(0, math.Min(255, f))))
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, true
}
