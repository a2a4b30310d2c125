//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/plugin-logger/internal/config"
	"github.com/oshokin/plugin-logger/internal/domain/logline"
)

// TestNewRegistry maps configured packages and their subpackages to plugin identities.
func TestNewRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry([]config.Plugin{
		{Name: "Greeter", Color: "green", Package: "example.com/greeter"},
		{Name: "Plain", Package: "example.com/plain"},
	})

	require.Equal(t, 2, registry.Len())

	got, ok := registry.Lookup("example.com/greeter/internal/words")
	require.True(t, ok)
	require.Equal(t, "Greeter", got.Name)
	require.Equal(t, logline.Green, got.Color)

	got, ok = registry.Lookup("example.com/plain")
	require.True(t, ok)
	require.Equal(t, logline.DefaultOriginColor, got.Color)

	_, ok = registry.Lookup("example.com/other")
	require.False(t, ok)
}

// TestLoggerOptions carries the settings over and honors debug mode.
func TestLoggerOptions(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.HideWarnings = true
	cfg.UTCTimestamps = true

	opts := LoggerOptions(cfg, nil)
	require.Equal(t, config.DefaultLogsDirectory, opts.LogsDirectory)
	require.Equal(t, config.DefaultLatestPath, opts.LatestPath)
	require.Equal(t, config.DefaultMaxLogs, opts.MaxLogs)
	require.True(t, opts.HideWarnings)
	require.True(t, opts.UTC)

	cfg.Debug = true
	require.Zero(t, LoggerOptions(cfg, nil).MaxLogs)
}
