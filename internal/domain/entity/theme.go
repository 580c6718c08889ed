package entity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexColorPattern  = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)
	hslTriplePattern = regexp.MustCompile(`^(\d{1,3}(?:\.\d+)?)\s+(\d{1,3}(?:\.\d+)?)%\s+(\d{1,3}(?:\.\d+)?)%$`)
)

// Theme is the owner-selected color scheme. Each color is a hex code or an HSL triple like "222 47% 11%".
type Theme struct {
	Primary    string `json:"primary"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
}

// CSS renders the theme as a :root block of HSL custom properties.
func (t Theme) CSS() (string, error) {
	vars := []struct {
		name  string
		value string
	}{
		{"--primary", t.Primary},
		{"--background", t.Background},
		{"--accent", t.Accent},
	}

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range vars {
		hsl, err := ToHSLTriple(v.value)
		if err != nil {
			return "", fmt.Errorf("%s: %w", v.name, err)
		}
		fmt.Fprintf(&b, "  %s: %s;\n", v.name, hsl)
	}
	b.WriteString("}\n")

	return b.String(), nil
}

// ToHSLTriple converts a hex color to the "H S% L%" form. HSL triples are returned normalized.
func ToHSLTriple(color string) (string, error) {
	color = strings.TrimSpace(color)
	if m := hslTriplePattern.FindStringSubmatch(color); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		s, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		if h > 360 || s > 100 || l > 100 {
			return "", ErrInvalidThemeColor
		}

		return formatHSL(h, s, l), nil
	}
	if !hexColorPattern.MatchString(color) {
		return "", ErrInvalidThemeColor
	}

	hex := color[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", ErrInvalidThemeColor
	}

	r := float64((rgb>>16)&0xff) / 255
	g := float64((rgb>>8)&0xff) / 255
	bl := float64(rgb&0xff) / 255

	maxC := math.Max(r, math.Max(g, bl))
	minC := math.Min(r, math.Min(g, bl))
	l := (maxC + minC) / 2

	var h, s float64
	if delta := maxC - minC; delta != 0 {
		if l > 0.5 {
			s = delta / (2 - maxC - minC)
		} else {
			s = delta / (maxC + minC)
		}
		switch maxC {
		case r:
			h = (g - bl) / delta
			if g < bl {
				h += 6
			}
		case g:
			h = (bl-r)/delta + 2
		default:
			h = (r-g)/delta + 4
		}
		h *= 60
	}

	return formatHSL(h, s*100, l*100), nil
}

func formatHSL(h, s, l float64) string {
	return fmt.Sprintf("%d %d%% %d%%", int(math.Round(h)), int(math.Round(s)), int(math.Round(l)))
}
