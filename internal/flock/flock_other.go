// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !unix

package flock

import (
	"errors"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

var errWouldBlock = errors.New("operation would block")

var (
	lockFn   = lock
	unlockFn = unlock
)

func lock(uintptr, bool, bool) error {
	return layer.ErrUnsupported
}

func unlock(uintptr) error {
	return nil
}
