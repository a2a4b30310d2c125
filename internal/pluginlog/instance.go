package pluginlog

import (
	"fmt"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/events"
)

// Instance logs with a fixed identity and never inspects the call stack.
// An unnamed Instance has no identity of its own: its calls are attributed
// from the call stack like the package-level functions. BigError and the
// separators are never attributed.
type Instance struct {
	// logger is the bound pipeline; nil means the default Logger at call time.
	logger *Logger
	// origin is the fixed identity, nil for an unnamed instance.
	origin *logline.Origin
}

// Named returns an instance of l tagged with name and color.
// An empty color falls back to logline.DefaultOriginColor.
func (l *Logger) Named(name string, color logline.Color) *Instance {
	return &Instance{
		logger: l,
		origin: namedOrigin(name, color),
	}
}

// Named returns an instance bound to whichever Logger is the default when it logs,
// so plugins may create it before the host has called SetDefault.
func Named(name string, color logline.Color) *Instance {
	return &Instance{
		origin: namedOrigin(name, color),
	}
}

// Name returns the tag the instance renders, empty when unnamed.
func (i *Instance) Name() string {
	return i.origin.Tag()
}

// Msg logs v with the default text color.
func (i *Instance) Msg(v any) {
	i.message("", logline.Stringify(v))
}

// Msgf logs a formatted message with the default text color.
func (i *Instance) Msgf(template string, args ...any) {
	i.message("", fmt.Sprintf(template, args...))
}

// MsgColor logs v with the given text color.
func (i *Instance) MsgColor(color logline.Color, v any) {
	i.message(color, logline.Stringify(v))
}

// MsgColorf logs a formatted message with the given text color.
func (i *Instance) MsgColorf(color logline.Color, template string, args ...any) {
	i.message(color, fmt.Sprintf(template, args...))
}

// Warning logs v as a warning unless warnings are hidden.
func (i *Instance) Warning(v any) {
	i.notice(logline.SeverityWarning, "", logline.Stringify(v))
}

// Warningf logs a formatted warning unless warnings are hidden.
func (i *Instance) Warningf(template string, args ...any) {
	i.notice(logline.SeverityWarning, "", fmt.Sprintf(template, args...))
}

// WarningColor logs v as a warning unless warnings are hidden.
func (i *Instance) WarningColor(color logline.Color, v any) {
	i.notice(logline.SeverityWarning, color, logline.Stringify(v))
}

// WarningColorf logs a formatted warning unless warnings are hidden.
func (i *Instance) WarningColorf(color logline.Color, template string, args ...any) {
	i.notice(logline.SeverityWarning, color, fmt.Sprintf(template, args...))
}

// Error logs v as an error.
func (i *Instance) Error(v any) {
	i.notice(logline.SeverityError, "", logline.Stringify(v))
}

// Errorf logs a formatted error.
func (i *Instance) Errorf(template string, args ...any) {
	i.notice(logline.SeverityError, "", fmt.Sprintf(template, args...))
}

// ErrorColor logs v as an error.
func (i *Instance) ErrorColor(color logline.Color, v any) {
	i.notice(logline.SeverityError, color, logline.Stringify(v))
}

// ErrorColorf logs a formatted error.
func (i *Instance) ErrorColorf(color logline.Color, template string, args ...any) {
	i.notice(logline.SeverityError, color, fmt.Sprintf(template, args...))
}

// ErrorCause logs text followed by the full description of cause on a new line.
func (i *Instance) ErrorCause(text string, cause error) {
	i.notice(logline.SeverityError, "", withCause(text, cause))
}

// BigError logs text as a boxed block of error lines under the instance's tag.
func (i *Instance) BigError(text string) {
	if l := i.target(); l != nil {
		l.bigError(i.origin, text)
	}
}

// WriteLine writes a separator of length dashes.
func (i *Instance) WriteLine(length int) {
	if l := i.target(); l != nil {
		l.WriteLine(length)
	}
}

// WriteLineColor writes a colored separator of length dashes.
func (i *Instance) WriteLineColor(color logline.Color, length int) {
	if l := i.target(); l != nil {
		l.WriteLineColor(color, length)
	}
}

// WriteSpacer writes a blank line to every destination.
func (i *Instance) WriteSpacer() {
	if l := i.target(); l != nil {
		l.WriteSpacer()
	}
}

// target returns the Logger the instance writes to, nil when none is installed.
func (i *Instance) target() *Logger {
	if i == nil {
		return nil
	}

	if i.logger != nil {
		return i.logger
	}

	return Default()
}

// message submits an informational line under the instance's origin.
func (i *Instance) message(color logline.Color, text string) {
	l := i.target()
	if l == nil {
		return
	}

	l.submit(l.message(i.origin, color, text, false), events.KindMessage)
}

// notice submits a warning or error under the instance's origin.
func (i *Instance) notice(severity logline.Severity, color logline.Color, text string) {
	l := i.target()
	if l == nil {
		return
	}

	kind := events.KindError
	if severity == logline.SeverityWarning {
		if l.HideWarnings() {
			return
		}

		kind = events.KindWarning
	}

	l.submit(l.notice(i.origin, severity, color, text), kind)
}

// namedOrigin builds the fixed identity of an instance.
func namedOrigin(name string, color logline.Color) *logline.Origin {
	if name == "" {
		return nil
	}

	if color == "" {
		color = logline.DefaultOriginColor
	}

	return &logline.Origin{
		Name:  logline.TagName(name),
		Color: color,
	}
}
