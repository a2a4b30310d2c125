package events

import (
	"errors"
	"fmt"
	"sync"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
)

// Kind selects one of the subscriber lists.
type Kind int

const (
	// KindMessage notifies informational messages.
	KindMessage Kind = iota
	// KindWarning notifies warnings that were actually written.
	KindWarning
	// KindError notifies errors.
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MessageFunc observes informational messages.
type MessageFunc func(tagColor, bodyColor logline.Color, origin, text string)

// NoticeFunc observes warnings and errors.
type NoticeFunc func(origin, text string)

// Event is one notification.
type Event struct {
	// Origin is the rendered origin tag, empty when unattributed.
	Origin string
	// Text is the message text.
	Text string
	// TagColor is the origin tag color. Only set for messages.
	TagColor logline.Color
	// BodyColor is the body color. Only set for messages.
	BodyColor logline.Color
	// Kind selects the subscribers.
	Kind Kind
}

// CallbackError describes a subscriber that panicked.
type CallbackError struct {
	// Value is what the callback panicked with.
	Value any
	// Kind is the list the callback was registered on.
	Kind Kind
	// Index is the callback's registration position.
	Index int
}

// Error implements error.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s callback #%d panicked: %v", e.Kind, e.Index, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *CallbackError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// errUnknownKind is returned by Subscribe for kinds outside the enum.
var errUnknownKind = errors.New("unknown event kind")

// Bus holds the three subscriber lists.
type Bus struct {
	// messages are the message subscribers, in registration order.
	messages []MessageFunc
	// warnings are the warning subscribers, in registration order.
	warnings []NoticeFunc
	// errs are the error subscribers, in registration order.
	errs []NoticeFunc
	// mu protects the lists.
	mu sync.RWMutex
}

// NewBus creates a bus without subscribers.
func NewBus() *Bus {
	return new(Bus)
}

// OnMessage appends a message subscriber. Nil callbacks are ignored.
func (b *Bus) OnMessage(fn MessageFunc) {
	if fn == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append(b.messages, fn)
}

// OnWarning appends a warning subscriber. Nil callbacks are ignored.
func (b *Bus) OnWarning(fn NoticeFunc) {
	b.addNotice(KindWarning, fn)
}

// OnError appends an error subscriber. Nil callbacks are ignored.
func (b *Bus) OnError(fn NoticeFunc) {
	b.addNotice(KindError, fn)
}

// Subscribe registers fn on the list selected by kind. Message subscribers
// must be a MessageFunc, warning and error subscribers a NoticeFunc.
func (b *Bus) Subscribe(kind Kind, fn any) error {
	switch kind {
	case KindMessage:
		cb, ok := asMessageFunc(fn)
		if !ok {
			return fmt.Errorf("subscribe %s: unexpected callback type %T", kind, fn)
		}

		b.OnMessage(cb)
	case KindWarning, KindError:
		cb, ok := asNoticeFunc(fn)
		if !ok {
			return fmt.Errorf("subscribe %s: unexpected callback type %T", kind, fn)
		}

		b.addNotice(kind, cb)
	default:
		return fmt.Errorf("subscribe %s: %w", kind, errUnknownKind)
	}

	return nil
}

// Len returns the number of subscribers of a kind.
func (b *Bus) Len(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	switch kind {
	case KindMessage:
		return len(b.messages)
	case KindWarning:
		return len(b.warnings)
	case KindError:
		return len(b.errs)
	default:
		return 0
	}
}

// Reset drops every subscriber.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = nil
	b.warnings = nil
	b.errs = nil
}

// Publish invokes the subscribers of ev.Kind in registration order.
// Panicking callbacks are returned as joined *CallbackError values.
func (b *Bus) Publish(ev Event) error {
	b.mu.RLock()
	messages, warnings, errs := b.messages, b.warnings, b.errs
	b.mu.RUnlock()

	var failures []error

	switch ev.Kind {
	case KindMessage:
		for i, fn := range messages {
			failures = appendFailure(failures, invoke(ev.Kind, i, func() {
				fn(ev.TagColor, ev.BodyColor, ev.Origin, ev.Text)
			}))
		}
	case KindWarning, KindError:
		list := warnings
		if ev.Kind == KindError {
			list = errs
		}

		for i, fn := range list {
			failures = appendFailure(failures, invoke(ev.Kind, i, func() {
				fn(ev.Origin, ev.Text)
			}))
		}
	default:
		return fmt.Errorf("publish %s: %w", ev.Kind, errUnknownKind)
	}

	return errors.Join(failures...)
}

// addNotice appends fn to the warning or error list.
func (b *Bus) addNotice(kind Kind, fn NoticeFunc) {
	if fn == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if kind == KindError {
		b.errs = append(b.errs, fn)

		return
	}

	b.warnings = append(b.warnings, fn)
}

// invoke runs call and converts a panic into a CallbackError.
func invoke(kind Kind, index int, call func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CallbackError{Value: r, Kind: kind, Index: index}
		}
	}()

	call()

	return nil
}

// appendFailure appends err when it is not nil.
func appendFailure(failures []error, err error) []error {
	if err == nil {
		return failures
	}

	return append(failures, err)
}

// asMessageFunc accepts a MessageFunc or a plain function of the same signature.
func asMessageFunc(fn any) (MessageFunc, bool) {
	switch cb := fn.(type) {
	case MessageFunc:
		return cb, true
	case func(tagColor, bodyColor logline.Color, origin, text string):
		return cb, true
	default:
		return nil, false
	}
}

// asNoticeFunc accepts a NoticeFunc or a plain function of the same signature.
func asNoticeFunc(fn any) (NoticeFunc, bool) {
	switch cb := fn.(type) {
	case NoticeFunc:
		return cb, true
	case func(origin, text string):
		return cb, true
	default:
		return nil, false
	}
}
