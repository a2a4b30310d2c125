package logline

import (
	"fmt"
	"regexp"
)

// Color is a "#RRGGBB" hex color.
type Color string

// Named colors used by the pipeline and offered to plugins.
const (
	Black     Color = "#000000"
	Blue      Color = "#0000FF"
	Cyan      Color = "#00FFFF"
	DarkGray  Color = "#A9A9A9"
	Gray      Color = "#808080"
	Green     Color = "#008000"
	IndianRed Color = "#CD5C5C"
	LightGray Color = "#D3D3D3"
	LimeGreen Color = "#32CD32"
	Magenta   Color = "#FF00FF"
	Red       Color = "#FF0000"
	White     Color = "#FFFFFF"
	Yellow    Color = "#FFFF00"
)

const (
	// DefaultOriginColor is the tag color of plugins that declare none.
	DefaultOriginColor = Cyan
	// DefaultTextColor is the body color of informational messages.
	DefaultTextColor = LightGray
	// TagColor is used for brackets and punctuation.
	TagColor = LightGray
	// TimestampColor is the color of the timestamp on non-error lines.
	TimestampColor = LimeGreen
	// WarningColor is forced on warning tags and bodies.
	WarningColor = Yellow
	// ErrorColor is forced on error tags and bodies.
	ErrorColor = IndianRed
)

// hexColor matches "#RRGGBB".
var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// namedColors maps lowercase color names to their hex value.
//
//nolint:gochecknoglobals // Read-only lookup table.
var namedColors = map[string]Color{
	"black":     Black,
	"blue":      Blue,
	"cyan":      Cyan,
	"darkgray":  DarkGray,
	"gray":      Gray,
	"green":     Green,
	"indianred": IndianRed,
	"lightgray": LightGray,
	"limegreen": LimeGreen,
	"magenta":   Magenta,
	"red":       Red,
	"white":     White,
	"yellow":    Yellow,
}

// ParseColor accepts either a "#RRGGBB" value or a known color name.
func ParseColor(s string) (Color, error) {
	if hexColor.MatchString(s) {
		return Color(s), nil
	}

	if c, ok := namedColors[normalizeName(s)]; ok {
		return c, nil
	}

	return "", fmt.Errorf("unknown color %q", s)
}

// normalizeName lowercases and strips separators from a color name.
func normalizeName(s string) string {
	out := make([]byte, 0, len(s))

	for i := range len(s) {
		c := s[i]

		switch {
		case c == ' ' || c == '_' || c == '-':
			continue
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		default:
			out = append(out, c)
		}
	}

	return string(out)
}
