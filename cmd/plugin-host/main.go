// Command plugin-host runs the built-in plugins on top of the attributed logging pipeline.
package main

import "github.com/oshokin/plugin-logger/cmd/plugin-host/cmd"

func main() {
	cmd.Execute()
}
