// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(
		func(r Registry) { r.Register(&memLayer{}) },
		func(r Registry) { r.Register(&recLayer{name: "tee"}) },
	)

	assert.Equal(t, []string{"mem", "tee"}, r.Names())

	l, err := r.Lookup("tee")
	require.NoError(t, err)
	assert.Equal(t, "tee", l.Name())

	_, err = r.Lookup("nope")
	require.ErrorIs(t, err, ErrUnknownLayer)
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestRegistry_Specs(t *testing.T) {
	r := NewRegistry(
		func(r Registry) { r.Register(&memLayer{}) },
		func(r Registry) { r.Register(&recLayer{name: "tee"}) },
	)

	specs, err := r.Specs(":mem:tee(>> copy.log)")
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "mem", specs[0].Layer.Name())
	assert.True(t, specs[0].Arg.IsZero())
	assert.Equal(t, ArgName, specs[1].Arg.Kind())
	assert.Equal(t, ">> copy.log", specs[1].Arg.Name())

	_, err = r.Specs(":mem:unknown")
	require.ErrorIs(t, err, ErrUnknownLayer)

	_, err = r.Specs(":tee(")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestConfig(t *testing.T) {
	r := NewRegistry(func(r Registry) { r.Register(&memLayer{name: "scalar"}) })
	cfg := NewConfig(r, WithTargetLayer(KindCallable, ""))

	assert.Equal(t, []string{"file"}, cfg.DefaultLayers)

	l, ok := cfg.TargetLayer(KindScalar)
	require.True(t, ok)
	assert.Equal(t, "scalar", l.Name())

	// mapped but not registered
	_, ok = cfg.TargetLayer(KindMapping)
	assert.False(t, ok)

	// removed from the mapping
	_, ok = cfg.TargetLayer(KindCallable)
	assert.False(t, ok)

	// the package defaults are not modified by options
	assert.Equal(t, "code", DefaultTargetLayers[KindCallable])
}
