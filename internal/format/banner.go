package format

import (
	"time"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
)

// Banner describes a plugin announced when it is loaded.
type Banner struct {
	// Name is the plugin display name.
	Name string
	// Version is the plugin version, printed with a "v" prefix.
	Version string
	// ID is an optional plugin identifier.
	ID string
	// Author is the plugin author.
	Author string
	// AdditionalCredits is an optional credits line.
	AdditionalCredits string
	// NameColor colors the name. Defaults to logline.DefaultOriginColor.
	NameColor logline.Color
	// AuthorColor colors the author line. Defaults to logline.DefaultTextColor.
	AuthorColor logline.Color
}

// Banner renders the "name vX (id)" and "by author" lines, plus the credits line when present.
func (f *Formatter) Banner(b *Banner, ts time.Time) []logline.Line {
	var (
		stamp       = f.Timestamp(ts)
		prefix      = "[" + stamp + "] "
		coloredTS   = f.timestamp(stamp, false)
		nameColor   = b.NameColor
		authorColor = b.AuthorColor
	)

	if nameColor == "" {
		nameColor = logline.DefaultOriginColor
	}

	if authorColor == "" {
		authorColor = logline.DefaultTextColor
	}

	suffix := " v" + b.Version
	if b.ID != "" {
		suffix += " (" + b.ID + ")"
	}

	lines := []logline.Line{
		{
			Plain:   prefix + b.Name + suffix,
			Colored: coloredTS + f.paint(b.Name, nameColor) + f.paint(suffix, logline.DefaultTextColor),
		},
		{
			Plain:   prefix + "by " + b.Author,
			Colored: coloredTS + f.paint("by "+b.Author, authorColor),
		},
	}

	if b.AdditionalCredits != "" {
		credits := "Additional credits: " + b.AdditionalCredits

		lines = append(lines, logline.Line{
			Plain:   prefix + credits,
			Colored: coloredTS + f.paint(credits, logline.DefaultTextColor),
		})
	}

	return lines
}
