// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input     string
		want      Mode
		writeOnly bool
	}{
		{"", ModeNone, false},
		{"<", ModeRead, false},
		{">", ModeWrite, true},
		{" >> ", ModeAppend, true},
		{"+<", ModeReadWrite, false},
		{"+>", ModeReadWriteTruncate, false},
		{"+>>", ModeReadAppend, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.writeOnly, got.WriteOnly())
		})
	}

	_, err := ParseMode("|-")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestMode_Flags(t *testing.T) {
	assert.True(t, ModeAppend.CanWrite())
	assert.False(t, ModeRead.CanWrite())
	assert.True(t, ModeReadWrite.Flags().Has(FlagCanRead|FlagCanWrite))
	assert.Equal(t, os.O_WRONLY|os.O_CREATE|os.O_APPEND, ModeAppend.OSFlag())
	assert.Equal(t, os.O_RDONLY, ModeRead.OSFlag())
	assert.Equal(t, ">>", ModeAppend.String())
}

func TestFlags_String(t *testing.T) {
	assert.Equal(t, "none", Flags(0).String())
	assert.Equal(t, "canwrite|append", (FlagCanWrite | FlagAppend).String())
}

func TestClassify(t *testing.T) {
	var (
		s     string
		b     []byte
		lines []string
		m     = map[string]string{}
	)

	tests := []struct {
		name  string
		value any
		want  TargetKind
	}{
		{"nil", nil, KindUnknown},
		{"string pointer", &s, KindScalar},
		{"byte slice pointer", &b, KindScalar},
		{"buffer", &bytes.Buffer{}, KindScalar},
		{"slice pointer", &lines, KindSequence},
		{"slice", lines, KindSequence},
		{"map", m, KindMapping},
		{"map pointer", &m, KindMapping},
		{"func", func(string) {}, KindCallable},
		{"writer", os.Stdout, KindHandle},
		{"reader", strings.NewReader(""), KindHandle},
		{"int", 42, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value))
		})
	}
}

func TestArgFrom(t *testing.T) {
	s := NewStream(nil, ModeWrite, nil)

	assert.True(t, ArgFrom(nil).IsZero())
	assert.Equal(t, ArgStream, ArgFrom(s).Kind())
	assert.Same(t, s, ArgFrom(s).Stream())
	assert.Equal(t, ArgName, ArgFrom("file.log").Kind())
	assert.Equal(t, "file.log", ArgFrom("file.log").String())
	assert.Equal(t, ArgTarget, ArgFrom(&[]string{}).Kind())
	assert.True(t, StreamArg(nil).IsZero())

	a := NameArg("x")
	assert.Equal(t, a, ArgFrom(a))

	args := ArgsFrom("a", nil, s)
	require.Len(t, args, 3)
	assert.Equal(t, ArgNone, args[1].Kind())
}

func TestArg_CloneSharesReferences(t *testing.T) {
	buf := &bytes.Buffer{}

	c := TargetArg(buf).Clone()
	require.Equal(t, ArgTarget, c.Kind())
	assert.Same(t, buf, c.Target())

	s := NewStream(nil, ModeWrite, nil)
	assert.Same(t, s, StreamArg(s).Clone().Stream())

	assert.Equal(t, NameArg("out.log"), NameArg("out.log").Clone())
}
