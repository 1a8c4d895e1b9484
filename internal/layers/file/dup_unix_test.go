// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package file

import (
	"os"

	"golang.org/x/sys/unix"
)

func dupFd(f *os.File) (int, error) {
	return unix.Dup(int(f.Fd()))
}
