// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package flock

import (
	"golang.org/x/sys/unix"
)

var errWouldBlock error = unix.EWOULDBLOCK

var (
	lockFn   = lock
	unlockFn = unlock
)

func lock(fd uintptr, exclusive, blocking bool) error {
	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}

	if !blocking {
		how |= unix.LOCK_NB
	}

	for {
		err := unix.Flock(int(fd), how)
		if err != unix.EINTR { //nolint:errorlint
			return err //nolint:wrapcheck
		}
	}
}

func unlock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_UN) //nolint:wrapcheck
}
