// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"os"
	"strings"
)

// Mode is the access mode a stream is opened or a layer is pushed with.
type Mode int

const (
	// ModeNone means no mode was given.
	ModeNone Mode = iota
	// ModeRead opens for reading ("<").
	ModeRead
	// ModeWrite opens for writing, truncating (">").
	ModeWrite
	// ModeAppend opens for writing at the end (">>").
	ModeAppend
	// ModeReadWrite opens an existing file for update ("+<").
	ModeReadWrite
	// ModeReadWriteTruncate opens for update, truncating ("+>").
	ModeReadWriteTruncate
	// ModeReadAppend opens for reading and appending ("+>>").
	ModeReadAppend
)

var modeSymbols = map[Mode]string{
	ModeNone:              "",
	ModeRead:              "<",
	ModeWrite:             ">",
	ModeAppend:            ">>",
	ModeReadWrite:         "+<",
	ModeReadWriteTruncate: "+>",
	ModeReadAppend:        "+>>",
}

// ParseMode parses the symbolic form of a mode, e.g. ">>".
// An empty string yields ModeNone.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)

	for m, sym := range modeSymbols {
		if sym == s {
			return m, nil
		}
	}

	return ModeNone, fmt.Errorf("%w: unknown mode %q", ErrConfiguration, s)
}

// String implements the Stringer interface for Mode.
func (m Mode) String() string {
	if sym, ok := modeSymbols[m]; ok {
		return sym
	}

	return "unknown"
}

// CanWrite reports whether the mode allows writing.
func (m Mode) CanWrite() bool {
	return m.Flags().Has(FlagCanWrite)
}

// WriteOnly reports whether the mode is one of the pure output modes.
func (m Mode) WriteOnly() bool {
	return m == ModeWrite || m == ModeAppend
}

// Flags returns the stream flags implied by the mode.
func (m Mode) Flags() Flags {
	switch m {
	case ModeRead:
		return FlagCanRead
	case ModeWrite:
		return FlagCanWrite
	case ModeAppend:
		return FlagCanWrite | FlagAppend
	case ModeReadWrite, ModeReadWriteTruncate:
		return FlagCanRead | FlagCanWrite
	case ModeReadAppend:
		return FlagCanRead | FlagCanWrite | FlagAppend
	default:
		return 0
	}
}

// OSFlag returns the os.OpenFile flags implied by the mode.
func (m Mode) OSFlag() int {
	switch m {
	case ModeWrite:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case ModeReadWrite:
		return os.O_RDWR
	case ModeReadWriteTruncate:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case ModeReadAppend:
		return os.O_RDWR | os.O_CREATE | os.O_APPEND
	default:
		return os.O_RDONLY
	}
}
