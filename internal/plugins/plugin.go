package plugins

import (
	"context"
	"fmt"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/format"
	"github.com/oshokin/plugin-logger/internal/origin"
)

// Manifest describes a plugin to the host.
type Manifest struct {
	// Name is the display name and tag.
	Name string
	// Version is printed in the load banner.
	Version string
	// Author is printed in the load banner.
	Author string
	// ID is an optional identifier printed next to the version.
	ID string
	// AdditionalCredits is an optional credits line.
	AdditionalCredits string
	// Color is the tag color.
	Color logline.Color
	// Package is the import path owning the plugin's code.
	Package string
}

// Banner returns the load banner of the plugin.
func (m *Manifest) Banner() *format.Banner {
	return &format.Banner{
		Name:              m.Name,
		Version:           m.Version,
		ID:                m.ID,
		Author:            m.Author,
		AdditionalCredits: m.AdditionalCredits,
		NameColor:         m.Color,
	}
}

// Origin returns the identity the plugin's lines are tagged with.
func (m *Manifest) Origin() logline.Origin {
	return logline.Origin{Name: m.Name, Color: m.Color}
}

// Plugin is a unit of code loaded by the host.
type Plugin interface {
	// Manifest describes the plugin.
	Manifest() *Manifest
	// Init runs once after the plugin is loaded.
	Init(ctx context.Context) error
	// Tick runs on every host heartbeat, n counts from 1.
	Tick(ctx context.Context, n int)
}

// Register attributes the code of every plugin in list to its manifest.
func Register(registry *origin.PackageRegistry, list ...Plugin) error {
	for _, p := range list {
		m := p.Manifest()
		if m.Package == "" {
			return fmt.Errorf("plugin %q has no package", m.Name)
		}

		registry.Register(m.Package, m.Origin())
	}

	return nil
}
