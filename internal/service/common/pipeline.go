//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"github.com/oshokin/plugin-logger/internal/config"
	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/origin"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
)

// NewRegistry returns a registry seeded with the configured plugins.
// Later entries for the same package replace earlier ones.
func NewRegistry(plugins []config.Plugin) *origin.PackageRegistry {
	registry := origin.NewPackageRegistry()

	for i := range plugins {
		RegisterPlugin(registry, &plugins[i])
	}

	return registry
}

// RegisterPlugin adds p to registry under its package path.
func RegisterPlugin(registry *origin.PackageRegistry, p *config.Plugin) {
	registry.Register(p.Package, logline.Origin{
		Name:  p.Name,
		Color: p.TagColor(),
	})
}

// LoggerOptions translates the host settings into pipeline options.
// Console, renderer, clock and fatal handler are left to the caller.
func LoggerOptions(cfg *config.Config, registry origin.Registry) *pluginlog.Options {
	return &pluginlog.Options{
		Registry:      registry,
		LogsDirectory: cfg.LogsDirectory,
		LatestPath:    cfg.LatestPath,
		MaxLogs:       cfg.EffectiveMaxLogs(),
		HideWarnings:  cfg.HideWarnings,
		UTC:           cfg.UTCTimestamps,
	}
}
