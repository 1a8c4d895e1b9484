// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package alllayers

import (
	"testing"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := Registry()

	assert.Equal(t, []string{"array", "code", "creat", "excl", "file", "flock", "handle", "scalar", "tee"}, r.Names())

	tee, err := r.Lookup("tee")
	require.NoError(t, err)
	assert.Implements(t, (*layer.Pusher)(nil), tee)
	assert.Implements(t, (*layer.Opener)(nil), tee)
}

func TestConfig_TargetLayers(t *testing.T) {
	cfg := Config()

	for kind, want := range map[layer.TargetKind]string{
		layer.KindScalar:   "scalar",
		layer.KindSequence: "array",
		layer.KindCallable: "code",
		layer.KindHandle:   "handle",
	} {
		l, ok := cfg.TargetLayer(kind)
		require.True(t, ok, kind.String())
		assert.Equal(t, want, l.Name())
	}

	_, ok := cfg.TargetLayer(layer.KindMapping)
	assert.False(t, ok, "no hash layer is registered")
}
