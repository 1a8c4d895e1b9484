// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate carries the layer configuration from main to the subcommands.
package cmdstate

import (
	"context"

	"github.com/matt-FFFFFF/iolayer/internal/alllayers"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// ConfigContextKey is the context key for the *layer.Config.
type ConfigContextKey struct{}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *layer.Config) context.Context {
	return context.WithValue(ctx, ConfigContextKey{}, cfg)
}

// Config returns the configuration stored in ctx, or one holding the builtin layers.
func Config(ctx context.Context) *layer.Config {
	if cfg, ok := ctx.Value(ConfigContextKey{}).(*layer.Config); ok && cfg != nil {
		return cfg
	}

	return alllayers.Config()
}
