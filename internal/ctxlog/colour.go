// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColour is the environment variable that disables colour output.
	NoColour = "NO_COLOR"
	// ForceColour is the environment variable that forces colour output.
	ForceColour = "FORCE_COLOR"
)

// colour is an ANSI SGR foreground code.
type colour int

const (
	fgRed       colour = 31
	fgYellow    colour = 33
	fgBlue      colour = 34
	fgCyan      colour = 36
	fgWhite     colour = 37
	fgHiMagenta colour = 95
	fgHiWhite   colour = 97
)

func colourize(enabled bool, s string, c colour) string {
	if !enabled || s == "" {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s) + 9) //nolint:mnd
	sb.WriteString("\033[")
	sb.WriteString(strconv.Itoa(int(c)))
	sb.WriteString("m")
	sb.WriteString(s)
	sb.WriteString("\033[0m")

	return sb.String()
}

// colourEnabled honours NO_COLOR and FORCE_COLOR, then checks for a terminal.
func colourEnabled(f *os.File) bool {
	if os.Getenv(NoColour) != "" {
		return false
	}

	if os.Getenv(ForceColour) != "" {
		return true
	}

	return f != nil && term.IsTerminal(int(f.Fd()))
}
