// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"maps"

	"github.com/matt-FFFFFF/iolayer/internal/diag"
	"github.com/spf13/afero"
)

// DefaultLayerNames are the layers used when an open names no opener.
var DefaultLayerNames = []string{"file"}

// DefaultTargetLayers maps structural target kinds to the layer that handles them.
// A kind whose layer is not registered has no inferred layer.
var DefaultTargetLayers = map[TargetKind]string{
	KindScalar:   "scalar",
	KindSequence: "array",
	KindMapping:  "hash",
	KindCallable: "code",
	KindHandle:   "handle",
}

// Config is passed explicitly to every open and is shared by the streams it creates.
type Config struct {
	// Registry resolves layer names.
	Registry Registry
	// DefaultLayers are opened when no requested layer can open a stream.
	DefaultLayers []string
	// TargetLayers maps structural target kinds to layer names.
	TargetLayers map[TargetKind]string
	// FS is the filesystem used by file backed layers.
	FS afero.Fs
	// Reporter receives diagnostics from best-effort operations.
	Reporter diag.Reporter
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithFS sets the filesystem used by file backed layers.
func WithFS(fs afero.Fs) ConfigOption {
	return func(c *Config) {
		c.FS = fs
	}
}

// WithReporter sets the diagnostic reporter.
func WithReporter(r diag.Reporter) ConfigOption {
	return func(c *Config) {
		c.Reporter = r
	}
}

// WithDefaultLayers sets the layers used when no opener is requested.
func WithDefaultLayers(names ...string) ConfigOption {
	return func(c *Config) {
		c.DefaultLayers = names
	}
}

// WithTargetLayer maps a target kind to a layer name.
// An empty name removes the mapping.
func WithTargetLayer(kind TargetKind, name string) ConfigOption {
	return func(c *Config) {
		if name == "" {
			delete(c.TargetLayers, kind)
			return
		}

		c.TargetLayers[kind] = name
	}
}

// NewConfig returns a Config using registry r and the OS filesystem.
// Diagnostics are logged through slog's default logger unless WithReporter is given.
func NewConfig(r Registry, opts ...ConfigOption) *Config {
	if r == nil {
		r = NewRegistry()
	}

	c := &Config{
		Registry:      r,
		DefaultLayers: append([]string(nil), DefaultLayerNames...),
		TargetLayers:  maps.Clone(DefaultTargetLayers),
		FS:            afero.NewOsFs(),
		Reporter:      diag.NewLogReporter(nil),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Report sends a diagnostic to the configured reporter.
func (c *Config) Report(event diag.Event) {
	if c == nil || c.Reporter == nil {
		return
	}

	c.Reporter.Report(event)
}

// Lookup resolves a layer name.
func (c *Config) Lookup(name string) (Layer, error) {
	return c.Registry.Lookup(name)
}

// DefaultSpecs resolves the default layers.
func (c *Config) DefaultSpecs() ([]Spec, error) {
	specs := make([]Spec, 0, len(c.DefaultLayers))

	for _, name := range c.DefaultLayers {
		l, err := c.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("default layers: %w", err)
		}

		specs = append(specs, Spec{Layer: l})
	}

	if len(specs) == 0 {
		return nil, ErrNoOpener
	}

	return specs, nil
}

// TargetLayer returns the layer that handles targets of kind.
// It returns false if the kind is unmapped or its layer is not registered.
func (c *Config) TargetLayer(kind TargetKind) (Layer, bool) {
	name, ok := c.TargetLayers[kind]
	if !ok {
		return nil, false
	}

	l, err := c.Lookup(name)
	if err != nil {
		return nil, false
	}

	return l, true
}
