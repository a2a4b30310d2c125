package pluginlog

import (
	"fmt"
	"sync/atomic"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/events"
)

// std is the Logger behind the package-level functions.
var std atomic.Pointer[Logger]

// SetDefault installs l as the target of the package-level functions and
// returns the previous one. Nil uninstalls it.
func SetDefault(l *Logger) *Logger {
	return std.Swap(l)
}

// Default returns the installed Logger, nil when none is.
func Default() *Logger {
	return std.Load()
}

// Msg logs v with the default text color.
func Msg(v any) {
	if l := Default(); l != nil {
		l.submit(l.message(nil, "", logline.Stringify(v), false), events.KindMessage)
	}
}

// Msgf logs a formatted message with the default text color.
func Msgf(template string, args ...any) {
	if l := Default(); l != nil {
		l.submit(l.message(nil, "", fmt.Sprintf(template, args...), false), events.KindMessage)
	}
}

// MsgColor logs v with the given text color.
func MsgColor(color logline.Color, v any) {
	if l := Default(); l != nil {
		l.submit(l.message(nil, color, logline.Stringify(v), false), events.KindMessage)
	}
}

// MsgColorf logs a formatted message with the given text color.
func MsgColorf(color logline.Color, template string, args ...any) {
	if l := Default(); l != nil {
		l.submit(l.message(nil, color, fmt.Sprintf(template, args...), false), events.KindMessage)
	}
}

// MsgDirect logs text without attributing it to a plugin.
func MsgDirect(text string) {
	if l := Default(); l != nil {
		l.MsgDirect(text)
	}
}

// MsgDirectColor logs text in the given color without attributing it to a plugin.
func MsgDirectColor(color logline.Color, text string) {
	if l := Default(); l != nil {
		l.MsgDirectColor(color, text)
	}
}

// Warning logs v as a warning unless warnings are hidden.
func Warning(v any) {
	if l := Default(); l != nil && !l.HideWarnings() {
		l.submit(l.notice(nil, logline.SeverityWarning, "", logline.Stringify(v)), events.KindWarning)
	}
}

// Warningf logs a formatted warning unless warnings are hidden.
func Warningf(template string, args ...any) {
	if l := Default(); l != nil && !l.HideWarnings() {
		l.submit(l.notice(nil, logline.SeverityWarning, "", fmt.Sprintf(template, args...)), events.KindWarning)
	}
}

// WarningColor logs v as a warning unless warnings are hidden.
func WarningColor(color logline.Color, v any) {
	if l := Default(); l != nil && !l.HideWarnings() {
		l.submit(l.notice(nil, logline.SeverityWarning, color, logline.Stringify(v)), events.KindWarning)
	}
}

// WarningColorf logs a formatted warning unless warnings are hidden.
func WarningColorf(color logline.Color, template string, args ...any) {
	if l := Default(); l != nil && !l.HideWarnings() {
		l.submit(l.notice(nil, logline.SeverityWarning, color, fmt.Sprintf(template, args...)), events.KindWarning)
	}
}

// Error logs v as an error.
func Error(v any) {
	if l := Default(); l != nil {
		l.submit(l.notice(nil, logline.SeverityError, "", logline.Stringify(v)), events.KindError)
	}
}

// Errorf logs a formatted error.
func Errorf(template string, args ...any) {
	if l := Default(); l != nil {
		l.submit(l.notice(nil, logline.SeverityError, "", fmt.Sprintf(template, args...)), events.KindError)
	}
}

// ErrorColor logs v as an error.
func ErrorColor(color logline.Color, v any) {
	if l := Default(); l != nil {
		l.submit(l.notice(nil, logline.SeverityError, color, logline.Stringify(v)), events.KindError)
	}
}

// ErrorColorf logs a formatted error.
func ErrorColorf(color logline.Color, template string, args ...any) {
	if l := Default(); l != nil {
		l.submit(l.notice(nil, logline.SeverityError, color, fmt.Sprintf(template, args...)), events.KindError)
	}
}

// ErrorCause logs text followed by the full description of cause on a new line.
func ErrorCause(text string, cause error) {
	if l := Default(); l != nil {
		l.submit(l.notice(nil, logline.SeverityError, "", withCause(text, cause)), events.KindError)
	}
}

// BigError logs text as a boxed block of error lines tagged with name.
func BigError(name, text string) {
	if l := Default(); l != nil {
		l.BigError(name, text)
	}
}

// WriteLine writes a separator of length dashes.
func WriteLine(length int) {
	if l := Default(); l != nil {
		l.WriteLine(length)
	}
}

// WriteLineColor writes a colored separator of length dashes.
func WriteLineColor(color logline.Color, length int) {
	if l := Default(); l != nil {
		l.WriteLineColor(color, length)
	}
}

// WriteSpacer writes a blank line to every destination.
func WriteSpacer() {
	if l := Default(); l != nil {
		l.WriteSpacer()
	}
}
