package pluginlog

import "fmt"

// FatalError reports a failure the logging pipeline cannot recover from,
// such as a destination that stopped accepting writes. It is distinct from
// error-severity log lines and is handed to Options.OnFatal.
type FatalError struct {
	// Err is the underlying cause, if any.
	Err error
	// Reason describes what failed.
	Reason string
}

// Error implements error.
func (e *FatalError) Error() string {
	if e.Err == nil {
		return "internal failure: " + e.Reason
	}

	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// panicOnFatal is the default fatal handler.
func panicOnFatal(err *FatalError) {
	panic(err)
}
