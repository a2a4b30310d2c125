// Package greeter is a built-in plugin greeting the user and echoing configured phrases.
package greeter

import (
	"context"
	"errors"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/origin"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/plugins"
)

// DefaultEvery is how many ticks pass between phrases.
const DefaultEvery = 10

var errNoPhrases = errors.New("no phrases configured")

// Greeter greets once and then repeats its phrases.
type Greeter struct {
	// words logs under its own fixed tag.
	words *pluginlog.Instance
	// user is greeted on Init.
	user string
	// phrases are echoed in turn.
	phrases []string
	// every is the number of ticks between phrases.
	every int
}

// New creates a greeter for user.
func New(user string, phrases ...string) *Greeter {
	return &Greeter{
		words:   pluginlog.Named("Greeter Words", logline.Yellow),
		user:    user,
		phrases: phrases,
		every:   DefaultEvery,
	}
}

// Manifest describes the plugin.
func (g *Greeter) Manifest() *plugins.Manifest {
	return &plugins.Manifest{
		Name:              "Greeter",
		Version:           "1.2.0",
		Author:            "oshokin",
		ID:                "greeter",
		AdditionalCredits: "everyone who said hello",
		Color:             logline.Magenta,
		Package:           origin.PackagePathOf(New),
	}
}

// Init greets the user. Missing phrases are reported but do not stop the plugin.
func (g *Greeter) Init(_ context.Context) error {
	pluginlog.MsgColorf(logline.Green, "Hello, %s!", g.user)

	if len(g.phrases) == 0 {
		pluginlog.ErrorCause("Greeter has nothing to say", errNoPhrases)
	}

	return nil
}

// Tick echoes the next phrase every few ticks.
func (g *Greeter) Tick(_ context.Context, n int) {
	if len(g.phrases) == 0 || g.every <= 0 || n%g.every != 0 {
		return
	}

	g.words.Msg(g.phrases[(n/g.every-1)%len(g.phrases)])
}
