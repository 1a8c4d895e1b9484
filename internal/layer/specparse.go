// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"strings"
	"unicode"
)

// LayerName is one element of a layer string such as ":tee(>> copy.log)".
type LayerName struct {
	Name   string
	Arg    string
	HasArg bool
}

// String returns the layer string form of the element.
func (n LayerName) String() string {
	if !n.HasArg {
		return ":" + n.Name
	}

	return fmt.Sprintf(":%s(%s)", n.Name, n.Arg)
}

// ParseSpecs parses a layer string. Elements are separated by colons or
// whitespace and may carry a parenthesised argument. Parentheses inside the
// argument must balance; a backslash escapes the next character.
func ParseSpecs(s string) ([]LayerName, error) {
	var (
		names []LayerName
		pos   int
	)

	for {
		for pos < len(s) && (s[pos] == ':' || isSpace(s[pos])) {
			pos++
		}

		if pos >= len(s) {
			return names, nil
		}

		start := pos
		for pos < len(s) && isNameByte(s[pos], pos == start) {
			pos++
		}

		if pos == start {
			return nil, fmt.Errorf("%w: invalid character %q at offset %d in %q", ErrConfiguration, s[pos], pos, s)
		}

		n := LayerName{Name: s[start:pos]}

		if pos < len(s) && s[pos] == '(' {
			arg, end, err := parseArg(s, pos)
			if err != nil {
				return nil, err
			}

			n.Arg = arg
			n.HasArg = true
			pos = end
		}

		if pos < len(s) && s[pos] != ':' && !isSpace(s[pos]) {
			return nil, fmt.Errorf("%w: unexpected %q after layer %q in %q", ErrConfiguration, s[pos], n.Name, s)
		}

		names = append(names, n)
	}
}

// parseArg reads a parenthesised argument starting at s[open] and returns it
// along with the offset just past the closing parenthesis.
func parseArg(s string, open int) (string, int, error) {
	var (
		b     strings.Builder
		depth = 1
	)

	for i := open + 1; i < len(s); i++ {
		c := s[i]

		switch c {
		case '\\':
			if i+1 >= len(s) {
				return "", 0, fmt.Errorf("%w: trailing escape in %q", ErrConfiguration, s)
			}

			i++
			b.WriteByte(s[i])

			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1, nil
			}
		}

		b.WriteByte(c)
	}

	return "", 0, fmt.Errorf("%w: unbalanced parentheses in %q", ErrConfiguration, s)
}

func isNameByte(c byte, first bool) bool {
	r := rune(c)
	if r == '_' || (unicode.IsLetter(r) && r < unicode.MaxASCII) {
		return true
	}

	return !first && r >= '0' && r <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
