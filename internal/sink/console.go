package sink

import (
	"io"
	"sync"
)

// Console renders pre-colorized lines. Implementations only receive pushes.
type Console interface {
	WriteLine(line string) error
	WriteBlank() error
}

// WriterConsole is a Console backed by an io.Writer such as os.Stdout.
type WriterConsole struct {
	// w receives the colorized lines.
	w io.Writer
	// mu keeps lines whole when the console is shared outside a Group.
	mu sync.Mutex
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer) *WriterConsole {
	return &WriterConsole{w: w}
}

// WriteLine writes line followed by a newline.
func (c *WriterConsole) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.w, line+"\n")

	return err
}

// WriteBlank writes an empty line.
func (c *WriterConsole) WriteBlank() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.w, "\n")

	return err
}

// discardConsole drops everything.
type discardConsole struct{}

// WriteLine does nothing.
func (discardConsole) WriteLine(string) error { return nil }

// WriteBlank does nothing.
func (discardConsole) WriteBlank() error { return nil }

// Discard is a Console that drops every line.
//
//nolint:gochecknoglobals // Stateless sentinel value.
var Discard Console = discardConsole{}
