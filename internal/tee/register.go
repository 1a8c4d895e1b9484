// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tee

import "github.com/matt-FFFFFF/iolayer/internal/layer"

// Register adds the tee layer to r.
func Register(r layer.Registry) {
	r.Register(New())
}
