package logline

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Severity classifies a log message.
type Severity int

const (
	// SeverityInfo is an ordinary message.
	SeverityInfo Severity = iota
	// SeverityWarning is rendered in the fixed warning color and can be suppressed.
	SeverityWarning
	// SeverityError is rendered in the fixed error color.
	SeverityError
)

// String returns a lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// NullText replaces an absent message payload.
const NullText = "null"

// Origin identifies the plugin a line is attributed to.
type Origin struct {
	// Name is the display name of the plugin.
	Name string
	// Color is the color of the bracketed origin tag.
	Color Color
}

// Tag returns the name as rendered inside the origin brackets.
func (o *Origin) Tag() string {
	if o == nil {
		return ""
	}

	return TagName(o.Name)
}

// Clone returns a copy of the origin.
func (o *Origin) Clone() *Origin {
	if o == nil {
		return nil
	}

	cloned := *o

	return &cloned
}

// TagName replaces spaces with underscores so a name renders as a single tag token.
func TagName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// Message is a single logical log call on its way through the pipeline.
type Message struct {
	// Timestamp is when the call was made.
	Timestamp time.Time
	// Origin is the resolved or caller-supplied identity, nil when unattributed.
	Origin *Origin
	// Text is the message body, never empty of meaning: a nil payload becomes NullText.
	Text string
	// Color is the body color requested by the caller. Ignored for warnings and errors.
	Color Color
	// Severity is the message severity.
	Severity Severity
	// Direct marks calls that must not trigger origin resolution.
	Direct bool
}

// Line is one rendered output line.
type Line struct {
	// Plain is what persists to the log files.
	Plain string
	// Colored is what the console receives.
	Colored string
}

// Stringify converts an arbitrary payload to message text.
// A nil payload, including a typed nil pointer, map, slice, func or chan, becomes NullText.
// A panicking Error or String method is reported inline by fmt instead of escaping.
func Stringify(v any) string {
	if IsNull(v) {
		return NullText
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// IsNull reports whether v is nil or a nil value of a nillable kind.
func IsNull(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive // Other kinds are never nil.
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
