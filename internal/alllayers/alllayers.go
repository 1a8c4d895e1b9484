// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package alllayers builds a registry holding every builtin layer.
package alllayers

import (
	"github.com/matt-FFFFFF/iolayer/internal/flock"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/matt-FFFFFF/iolayer/internal/layers/array"
	"github.com/matt-FFFFFF/iolayer/internal/layers/code"
	"github.com/matt-FFFFFF/iolayer/internal/layers/file"
	"github.com/matt-FFFFFF/iolayer/internal/layers/handle"
	"github.com/matt-FFFFFF/iolayer/internal/layers/scalar"
	"github.com/matt-FFFFFF/iolayer/internal/openflags"
	"github.com/matt-FFFFFF/iolayer/internal/tee"
)

// RegisterFuncs are the register functions of the builtin layers.
var RegisterFuncs = []layer.RegisterFunc{
	file.Register,
	scalar.Register,
	array.Register,
	code.Register,
	handle.Register,
	flock.Register,
	openflags.Register,
	tee.Register,
}

// Registry returns a new registry holding every builtin layer.
func Registry() layer.Registry {
	return layer.NewRegistry(RegisterFuncs...)
}

// Config returns a configuration using the builtin layers.
func Config(opts ...layer.ConfigOption) *layer.Config {
	return layer.NewConfig(Registry(), opts...)
}
