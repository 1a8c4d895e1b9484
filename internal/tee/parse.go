// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tee

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// ErrUnsupportedMode is returned when a destination names a mode other than
// ">" or ">>".
var ErrUnsupportedMode = fmt.Errorf("%w: unsupported tee mode", layer.ErrConfiguration)

// Parse splits a destination such as ">> copy.log" into its mode and path.
// A destination without a prefix is opened for writing.
func Parse(spec string) (layer.Mode, string, error) {
	return ParseDefault(spec, layer.ModeWrite)
}

// ParseDefault is like Parse but returns fallback when spec has no prefix.
// Whitespace around the path is only dropped after a prefix; an unprefixed
// spec is taken as a literal path.
func ParseDefault(spec string, fallback layer.Mode) (layer.Mode, string, error) {
	mode := fallback
	path := spec

	switch {
	case strings.HasPrefix(spec, ">>"):
		mode = layer.ModeAppend
		path = trimSpace(spec[2:])
	case strings.HasPrefix(spec, ">"):
		mode = layer.ModeWrite
		path = trimSpace(spec[1:])
	case spec != "" && strings.ContainsRune("+<|:", rune(spec[0])):
		return layer.ModeNone, "", fmt.Errorf("%w: %q (it must be '>' or '>>')", ErrUnsupportedMode, spec[:1])
	}

	if path == "" {
		return layer.ModeNone, "", fmt.Errorf("%w: missing path in %q", layer.ErrConfiguration, spec)
	}

	return mode, path, nil
}

func trimSpace(s string) string {
	return strings.TrimRightFunc(strings.TrimLeftFunc(s, unicode.IsSpace), unicode.IsSpace)
}
