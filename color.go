package particlenet

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// resolveColor normalizes a CSS-style color string into an opaque hex
// string plus a separate alpha in [0,1]. Supported forms: #rgb, #rgba,
// #rrggbb, #rrggbbaa, rgb(), rgba() and the SVG named colors. The
// functional forms take comma-separated numeric components, channels in
// 0-255 and alpha in 0-1; percentage and space-separated syntax are not
// accepted. Alpha defaults to 1 for formats that carry none.
func resolveColor(s string) (string, float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseRGBColor(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return rgbHex(c.R, c.G, c.B), 1, nil
	}
	return "", 0, fmt.Errorf("unrecognized color %q", s)
}

func rgbHex(r, g, b uint8) string {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return c.Hex()
}

func parseHexColor(s string) (string, float64, error) {
	digits := s[1:]
	switch len(digits) {
	case 3, 4:
		var long strings.Builder
		long.WriteByte('#')
		for i := 0; i < len(digits); i++ {
			long.WriteByte(digits[i])
			long.WriteByte(digits[i])
		}
		return parseHexColor(long.String())
	case 6:
		c, err := colorful.Hex(s)
		if err != nil {
			return "", 0, err
		}
		return c.Hex(), 1, nil
	case 8:
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return "", 0, err
		}
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return "", 0, fmt.Errorf("malformed hex color %q", s)
		}
		return c.Hex(), float64(a) / 255, nil
	}
	return "", 0, fmt.Errorf("malformed hex color %q", s)
}

func parseRGBColor(s string) (string, float64, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", 0, fmt.Errorf("malformed color %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return "", 0, fmt.Errorf("malformed color %q", s)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return "", 0, fmt.Errorf("malformed color %q", s)
		}
		ch[i] = uint8(clamp(v, 0, 255))
	}
	alpha := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return "", 0, fmt.Errorf("malformed color %q", s)
		}
		alpha = clamp(v, 0, 1)
	}
	return rgbHex(ch[0], ch[1], ch[2]), alpha, nil
}
