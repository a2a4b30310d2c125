// Package origin attributes log calls to plugins.
//
// A plugin is a Go package (or package subtree) registered with a Registry
// under its import path. The Resolver walks the goroutine's call stack from
// the logging call site outward and returns the identity of the first frame
// whose declaring package belongs to a registered plugin.
package origin
