package pluginlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/events"
	"github.com/oshokin/plugin-logger/internal/format"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/origin"
	"github.com/oshokin/plugin-logger/internal/sink"
)

const (
	// DefaultSeparatorLength is the width of WriteLine separators.
	DefaultSeparatorLength = 30

	// resolveSkip skips submit and the public method that called it.
	resolveSkip = 2

	// maxDrainBatches bounds how many queued batches a logging caller publishes.
	maxDrainBatches = 64
)

// Logger is the shared logging pipeline. It is safe for concurrent use.
//
// Every event is published after its line is written and in the order the
// lines were written. Publication is synchronous for a caller that logs while
// no one else is publishing. A caller that logs while another goroutine is
// publishing returns after its write, and that goroutine delivers its event
// later, so subscribers may run on any logging goroutine. A publishing caller
// delivers a bounded number of batches before a background goroutine takes
// over the rest, so it returns even under sustained load.
type Logger struct {
	// ctx carries the diagnostics logger.
	ctx context.Context
	// resolver attributes ambient calls to plugins.
	resolver *origin.Resolver
	// formatter renders messages.
	formatter *format.Formatter
	// sinks receives the rendered lines.
	sinks *sink.Group
	// bus notifies subscribers.
	bus *events.Bus
	// clock stamps messages.
	clock func() time.Time
	// onFatal receives unrecoverable failures.
	onFatal func(err *FatalError)
	// pending holds written but not yet published events, in write order.
	pending []events.Event
	// mu orders writes and their events.
	mu sync.Mutex
	// idle is signaled on mu when a drain finishes.
	idle *sync.Cond
	// hideWarnings suppresses warnings when set.
	hideWarnings atomic.Bool
	// dispatching is set while a caller drains pending.
	dispatching bool
}

// Events returns the subscriber registry.
func (l *Logger) Events() *events.Bus {
	return l.bus
}

// Paths returns the files the logger writes to, the rolling log first.
func (l *Logger) Paths() []string {
	return l.sinks.Paths()
}

// SetHideWarnings toggles warning suppression.
func (l *Logger) SetHideWarnings(hide bool) {
	l.hideWarnings.Store(hide)
}

// HideWarnings reports whether warnings are suppressed.
func (l *Logger) HideWarnings() bool {
	return l.hideWarnings.Load()
}

// Msg logs v with the default text color.
func (l *Logger) Msg(v any) {
	l.submit(l.message(nil, "", logline.Stringify(v), false), events.KindMessage)
}

// Msgf logs a formatted message with the default text color.
func (l *Logger) Msgf(template string, args ...any) {
	l.submit(l.message(nil, "", fmt.Sprintf(template, args...), false), events.KindMessage)
}

// MsgColor logs v with the given text color.
func (l *Logger) MsgColor(color logline.Color, v any) {
	l.submit(l.message(nil, color, logline.Stringify(v), false), events.KindMessage)
}

// MsgColorf logs a formatted message with the given text color.
func (l *Logger) MsgColorf(color logline.Color, template string, args ...any) {
	l.submit(l.message(nil, color, fmt.Sprintf(template, args...), false), events.KindMessage)
}

// MsgDirect logs text without attributing it to a plugin.
func (l *Logger) MsgDirect(text string) {
	l.submit(l.message(nil, "", text, true), events.KindMessage)
}

// MsgDirectColor logs text in the given color without attributing it to a plugin.
func (l *Logger) MsgDirectColor(color logline.Color, text string) {
	l.submit(l.message(nil, color, text, true), events.KindMessage)
}

// Warning logs v as a warning unless warnings are hidden.
func (l *Logger) Warning(v any) {
	if l.HideWarnings() {
		return
	}

	l.submit(l.notice(nil, logline.SeverityWarning, "", logline.Stringify(v)), events.KindWarning)
}

// Warningf logs a formatted warning unless warnings are hidden.
func (l *Logger) Warningf(template string, args ...any) {
	if l.HideWarnings() {
		return
	}

	l.submit(l.notice(nil, logline.SeverityWarning, "", fmt.Sprintf(template, args...)), events.KindWarning)
}

// WarningColor logs v as a warning unless warnings are hidden.
// Warnings are always rendered in logline.WarningColor, so color only reaches the message.
func (l *Logger) WarningColor(color logline.Color, v any) {
	if l.HideWarnings() {
		return
	}

	l.submit(l.notice(nil, logline.SeverityWarning, color, logline.Stringify(v)), events.KindWarning)
}

// WarningColorf logs a formatted warning unless warnings are hidden.
func (l *Logger) WarningColorf(color logline.Color, template string, args ...any) {
	if l.HideWarnings() {
		return
	}

	l.submit(l.notice(nil, logline.SeverityWarning, color, fmt.Sprintf(template, args...)), events.KindWarning)
}

// Error logs v as an error.
func (l *Logger) Error(v any) {
	l.submit(l.notice(nil, logline.SeverityError, "", logline.Stringify(v)), events.KindError)
}

// Errorf logs a formatted error.
func (l *Logger) Errorf(template string, args ...any) {
	l.submit(l.notice(nil, logline.SeverityError, "", fmt.Sprintf(template, args...)), events.KindError)
}

// ErrorColor logs v as an error. Errors are always rendered in logline.ErrorColor.
func (l *Logger) ErrorColor(color logline.Color, v any) {
	l.submit(l.notice(nil, logline.SeverityError, color, logline.Stringify(v)), events.KindError)
}

// ErrorColorf logs a formatted error.
func (l *Logger) ErrorColorf(color logline.Color, template string, args ...any) {
	l.submit(l.notice(nil, logline.SeverityError, color, fmt.Sprintf(template, args...)), events.KindError)
}

// ErrorCause logs text followed by the full description of cause on a new line.
func (l *Logger) ErrorCause(text string, cause error) {
	l.submit(l.notice(nil, logline.SeverityError, "", withCause(text, cause)), events.KindError)
}

// BigError logs text as a boxed block of error lines tagged with name.
// An empty name leaves the block unattributed; the call stack is never inspected.
func (l *Logger) BigError(name, text string) {
	var o *logline.Origin
	if name != "" {
		o = &logline.Origin{Name: name, Color: logline.ErrorColor}
	}

	l.bigError(o, text)
}

// WriteLine writes a separator of length dashes, DefaultSeparatorLength when length is not positive.
func (l *Logger) WriteLine(length int) {
	l.WriteLineColor(logline.DefaultTextColor, length)
}

// WriteLineColor writes a colored separator of length dashes.
func (l *Logger) WriteLineColor(color logline.Color, length int) {
	if length <= 0 {
		length = DefaultSeparatorLength
	}

	l.MsgDirectColor(color, format.Separator('-', length))
}

// WriteSpacer writes a blank line to every destination.
func (l *Logger) WriteSpacer() {
	l.emit(l.sinks.WriteBlank, nil)
}

// PluginBanner announces a loaded plugin. It publishes no event.
func (l *Logger) PluginBanner(b *format.Banner) {
	lines := l.formatter.Banner(b, l.clock())

	l.emit(func() error {
		return l.sinks.Write(lines...)
	}, nil)
}

// InternalFailure reports an unrecoverable condition through the fatal handler.
func (l *Logger) InternalFailure(reason string) {
	l.onFatal(&FatalError{Reason: reason})
}

// Flush waits for queued events to be published and commits written lines
// to stable storage. It must not be called from a subscriber.
func (l *Logger) Flush() error {
	l.settle()

	return l.sinks.Flush()
}

// Close waits for queued events to be published, flushes and closes the
// destinations and drops every subscriber. Later calls are dropped.
// It must not be called from a subscriber.
func (l *Logger) Close() error {
	l.settle()

	err := l.sinks.Close()

	l.bus.Reset()

	return err
}

// message builds an informational message.
func (l *Logger) message(o *logline.Origin, color logline.Color, text string, direct bool) *logline.Message {
	return &logline.Message{
		Origin:   o,
		Text:     text,
		Color:    color,
		Severity: logline.SeverityInfo,
		Direct:   direct,
	}
}

// notice builds a warning or error message. The formatter replaces color with the fixed severity color.
func (l *Logger) notice(o *logline.Origin, severity logline.Severity, color logline.Color, text string) *logline.Message {
	return &logline.Message{
		Origin:   o,
		Text:     text,
		Color:    color,
		Severity: severity,
	}
}

// submit attributes, renders, writes and publishes msg.
func (l *Logger) submit(msg *logline.Message, kind events.Kind) {
	if msg.Origin == nil && !msg.Direct {
		msg.Origin = l.resolver.Resolve(resolveSkip)
	}

	msg.Timestamp = l.clock()

	var (
		line      = l.formatter.Format(msg)
		tag, body = format.Colors(msg)
		ev        = events.Event{Kind: kind, Origin: msg.Origin.Tag(), Text: msg.Text}
	)

	if kind == events.KindMessage {
		ev.TagColor, ev.BodyColor = tag, body
	}

	l.emit(func() error {
		return l.sinks.Write(line)
	}, &ev)
}

// bigError writes the boxed block and publishes a single error event.
func (l *Logger) bigError(o *logline.Origin, text string) {
	lines := l.formatter.BigError(o, text, l.clock())

	l.emit(func() error {
		return l.sinks.Write(lines...)
	}, &events.Event{Kind: events.KindError, Origin: o.Tag(), Text: text})
}

// emit runs write under the pipeline lock, queues ev and drains the queue
// unless another caller is already draining it. Events are therefore
// published in write order, and a subscriber may log without deadlocking.
func (l *Logger) emit(write func() error, ev *events.Event) {
	l.mu.Lock()

	if err := write(); err != nil {
		l.mu.Unlock()

		if errors.Is(err, sink.ErrClosed) {
			return
		}

		l.onFatal(&FatalError{Reason: "write log destinations", Err: err})

		return
	}

	if ev != nil {
		l.pending = append(l.pending, *ev)
	}

	if l.dispatching {
		l.mu.Unlock()

		return
	}

	l.dispatching = true
	l.drain(maxDrainBatches)
}

// drain publishes pending batches. It is entered with mu held and dispatching set
// and returns with mu released. After limit batches the rest is handed to a new
// goroutine so the caller returns; a non-positive limit drains until empty.
func (l *Logger) drain(limit int) {
	for batches := 0; len(l.pending) > 0; batches++ {
		if limit > 0 && batches == limit {
			l.mu.Unlock()

			go l.resume()

			return
		}

		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		for i := range batch {
			if err := l.bus.Publish(batch[i]); err != nil {
				logger.WarnKV(l.ctx, "Log subscriber failed", "kind", batch[i].Kind.String(), "error", err)
			}
		}

		l.mu.Lock()
	}

	l.dispatching = false
	l.idle.Broadcast()
	l.mu.Unlock()
}

// settle waits until every queued event has been published.
func (l *Logger) settle() {
	l.mu.Lock()

	for l.dispatching {
		l.idle.Wait()
	}

	l.mu.Unlock()
}

// resume finishes a drain handed off by a logging caller.
func (l *Logger) resume() {
	l.mu.Lock()
	l.drain(0)
}

// withCause appends the description of cause to text on a new line.
func withCause(text string, cause error) string {
	if logline.IsNull(cause) {
		return text + "\n" + logline.NullText
	}

	return text + "\n" + fmt.Sprintf("%+v", cause)
}
