package format

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
)

const (
	// DefaultTimestampLayout renders hours, minutes, seconds and milliseconds.
	DefaultTimestampLayout = "15:04:05.000"

	// BigErrorWidth is the width of the separators framing a big error.
	BigErrorWidth = 50
)

// Formatter renders messages. It is safe for concurrent use.
type Formatter struct {
	// renderer produces the terminal color sequences.
	renderer *lipgloss.Renderer
	// layout is the time layout of the timestamp bracket.
	layout string
	// utc renders timestamps in UTC instead of local time.
	utc bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithRenderer sets the lipgloss renderer (and thereby the color profile) used for console lines.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(f *Formatter) {
		if r != nil {
			f.renderer = r
		}
	}
}

// WithUTC switches timestamps to UTC.
func WithUTC(utc bool) Option {
	return func(f *Formatter) {
		f.utc = utc
	}
}

// WithTimestampLayout overrides DefaultTimestampLayout.
func WithTimestampLayout(layout string) Option {
	return func(f *Formatter) {
		if layout != "" {
			f.layout = layout
		}
	}
}

// New creates a Formatter. By default it detects the color profile of stdout.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		layout: DefaultTimestampLayout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.renderer == nil {
		f.renderer = lipgloss.NewRenderer(os.Stdout)
	}

	return f
}

// Colors returns the tag and body colors a message is rendered with.
// Warnings and errors force their fixed color onto both.
func Colors(msg *logline.Message) (tag, body logline.Color) {
	switch msg.Severity {
	case logline.SeverityWarning:
		return logline.WarningColor, logline.WarningColor
	case logline.SeverityError:
		return logline.ErrorColor, logline.ErrorColor
	case logline.SeverityInfo:
	}

	tag = logline.DefaultOriginColor
	if msg.Origin != nil && msg.Origin.Color != "" {
		tag = msg.Origin.Color
	}

	body = msg.Color
	if body == "" {
		body = logline.DefaultTextColor
	}

	return tag, body
}

// Timestamp renders t with the configured layout and zone.
func (f *Formatter) Timestamp(t time.Time) string {
	if f.utc {
		t = t.UTC()
	} else {
		t = t.Local()
	}

	return t.Format(f.layout)
}

// Format renders a message into its plain and colorized lines.
func (f *Formatter) Format(msg *logline.Message) logline.Line {
	var (
		ts        = f.Timestamp(msg.Timestamp)
		tag, body = Colors(msg)
		plain     strings.Builder
		colored   strings.Builder
	)

	plain.WriteString("[" + ts + "] ")

	if msg.Origin != nil {
		plain.WriteString("[" + msg.Origin.Tag() + "] ")
	}

	plain.WriteString(msg.Text)

	colored.WriteString(f.timestamp(ts, tag == logline.ErrorColor && body == logline.ErrorColor))

	if msg.Origin != nil {
		colored.WriteString(f.paint("[", logline.TagColor))
		colored.WriteString(f.paint(msg.Origin.Tag(), tag))
		colored.WriteString(f.paint("] ", logline.TagColor))
	}

	colored.WriteString(f.paint(msg.Text, body))

	return logline.Line{
		Plain:   plain.String(),
		Colored: colored.String(),
	}
}

// BigError renders text as a boxed block of error lines: a separator,
// every line of text, and another separator, all under the same origin.
func (f *Formatter) BigError(origin *logline.Origin, text string, ts time.Time) []logline.Line {
	var (
		textLines = strings.Split(text, "\n")
		separator = Separator('=', BigErrorWidth)
		lines     = make([]logline.Line, 0, len(textLines)+2)
	)

	render := func(s string) logline.Line {
		return f.Format(&logline.Message{
			Timestamp: ts,
			Origin:    origin,
			Text:      s,
			Severity:  logline.SeverityError,
			Direct:    true,
		})
	}

	lines = append(lines, render(separator))

	for _, line := range textLines {
		lines = append(lines, render(line))
	}

	lines = append(lines, render(separator))

	return lines
}

// Separator returns n copies of ch.
func Separator(ch byte, n int) string {
	if n <= 0 {
		return ""
	}

	return strings.Repeat(string(ch), n)
}

// timestamp renders the colorized timestamp bracket.
func (f *Formatter) timestamp(ts string, isError bool) string {
	if isError {
		return f.paint("[", logline.ErrorColor) +
			f.paint(ts, logline.ErrorColor) +
			f.paint("] ", logline.ErrorColor)
	}

	return f.paint("[", logline.TagColor) +
		f.paint(ts, logline.TimestampColor) +
		f.paint("] ", logline.TagColor)
}

// paint colors s line by line so multi-line bodies are not padded to a common width.
func (f *Formatter) paint(s string, c logline.Color) string {
	style := f.renderer.NewStyle().
		Foreground(lipgloss.Color(string(c))).
		TabWidth(lipgloss.NoTabConversion)

	if !strings.Contains(s, "\n") {
		return style.Render(s)
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}

	return strings.Join(lines, "\n")
}
