// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import "strings"

// Flags describe the capabilities and buffering state of a layer instance.
type Flags uint32

const (
	// FlagCanRead is set when the stream was opened for reading.
	FlagCanRead Flags = 1 << iota
	// FlagCanWrite is set when the stream was opened for writing.
	FlagCanWrite
	// FlagAppend is set when every write goes to the end of the stream.
	FlagAppend
	// FlagBuffered is set when the stream is fully buffered.
	FlagBuffered
	// FlagUnbuffered is set when every write is passed straight through.
	FlagUnbuffered
	// FlagLineBuffered is set when the stream is flushed at every newline.
	FlagLineBuffered
	// FlagText is set when the stream applies text translation.
	FlagText
	// FlagOpen is set while the stream is open.
	FlagOpen
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagCanRead, "canread"},
	{FlagCanWrite, "canwrite"},
	{FlagAppend, "append"},
	{FlagBuffered, "buffered"},
	{FlagUnbuffered, "unbuffered"},
	{FlagLineBuffered, "linebuffered"},
	{FlagText, "text"},
	{FlagOpen, "open"},
}

// Has reports whether all bits of o are set in f.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

// String implements the Stringer interface for Flags.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}

	names := make([]string, 0, len(flagNames))

	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}

	return strings.Join(names, "|")
}
