// Package heartbeat is a built-in plugin reporting host liveness on every tick.
package heartbeat

import (
	"context"
	"time"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/origin"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/plugins"
)

// DefaultTolerance is how late a tick may arrive before a warning is logged.
const DefaultTolerance = 500 * time.Millisecond

// Heartbeat logs uptime and warns about late ticks.
type Heartbeat struct {
	// interval is the expected time between ticks.
	interval time.Duration
	// tolerance is the accepted lateness.
	tolerance time.Duration
	// now reads the clock.
	now func() time.Time
	// started is when Init ran.
	started time.Time
	// last is when the previous tick ran.
	last time.Time
}

// New creates a heartbeat expecting a tick every interval.
func New(interval time.Duration) *Heartbeat {
	return &Heartbeat{
		interval:  interval,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// Manifest describes the plugin.
func (h *Heartbeat) Manifest() *plugins.Manifest {
	return &plugins.Manifest{
		Name:    "Heartbeat",
		Version: "1.0.0",
		Author:  "oshokin",
		Color:   logline.LimeGreen,
		Package: origin.PackagePathOf(New),
	}
}

// Init records the start time.
func (h *Heartbeat) Init(_ context.Context) error {
	h.started = h.now()
	h.last = h.started

	pluginlog.Msgf("Reporting every %s", h.interval)

	return nil
}

// Tick logs the uptime and warns when the tick arrived late.
func (h *Heartbeat) Tick(_ context.Context, n int) {
	var (
		now     = h.now()
		elapsed = now.Sub(h.last)
	)

	h.last = now

	if h.interval > 0 && elapsed > h.interval+h.tolerance {
		pluginlog.Warningf("Tick #%d is late by %s", n, (elapsed - h.interval).Round(time.Millisecond))
	}

	pluginlog.Msgf("Tick #%d, up %s", n, now.Sub(h.started).Round(time.Second))
}
