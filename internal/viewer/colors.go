package viewer

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jengzang/photomap-backend-go/internal/models"
	"golang.org/x/image/colornames"
)

// DefaultColor is used for categories missing from the color table
const DefaultColor = "#808080"

// Fixed category colors
var categoryColors = map[string]string{
	"bike":       "#0070C0",
	"car":        "#C00000",
	"pedestrian": "#00C000",
	"bus":        "#FF8000",
}

// Palette maps segment categories to display colors
type Palette struct {
	colors map[string]string
}

// NewPalette builds a palette from the fixed table, extended or overridden by
// the dataset's category settings. Unresolvable dataset colors are ignored.
func NewPalette(categories map[string]models.Category) *Palette {
	colors := make(map[string]string, len(categoryColors)+len(categories))
	for name, hex := range categoryColors {
		colors[name] = hex
	}
	for name, cat := range categories {
		if hex, ok := ResolveColor(cat.Color); ok {
			colors[name] = hex
		}
	}
	return &Palette{colors: colors}
}

// Color returns the hex color for a category, or DefaultColor
func (p *Palette) Color(category string) string {
	if p != nil {
		if hex, ok := p.colors[category]; ok {
			return hex
		}
	}
	return DefaultColor
}

// RGBA returns the category color as an opaque RGBA value
func (p *Palette) RGBA(category string) color.RGBA {
	c, err := parseHex(p.Color(category))
	if err != nil {
		c, _ = parseHex(DefaultColor)
	}
	return c
}

// Legend lists every known category sorted by name
func (p *Palette) Legend() []models.LegendEntry {
	names := make([]string, 0, len(p.colors))
	for name := range p.colors {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]models.LegendEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, models.LegendEntry{
			Category: name,
			Label:    Capitalize(name),
			Color:    p.colors[name],
		})
	}
	return entries
}

// ResolveColor normalizes a hex ("#0070c0", "#fff") or CSS color name ("blue")
// to an upper-case "#RRGGBB" string.
func ResolveColor(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if strings.HasPrefix(value, "#") {
		c, err := parseHex(value)
		if err != nil {
			return "", false
		}
		return toHex(c), true
	}

	if c, ok := colornames.Map[strings.ToLower(value)]; ok {
		return toHex(c), true
	}
	return "", false
}

// Capitalize upper-cases the first letter and lower-cases the rest
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

func toHex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
