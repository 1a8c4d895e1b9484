// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpecs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []LayerName
	}{
		{"empty", "", nil},
		{"single", ":tee", []LayerName{{Name: "tee"}}},
		{"no leading colon", "tee", []LayerName{{Name: "tee"}}},
		{
			"with args",
			":flock(non-blocking):tee(>> copy.log)",
			[]LayerName{
				{Name: "flock", Arg: "non-blocking", HasArg: true},
				{Name: "tee", Arg: ">> copy.log", HasArg: true},
			},
		},
		{
			"whitespace separated",
			"creat  excl\t:file",
			[]LayerName{{Name: "creat"}, {Name: "excl"}, {Name: "file"}},
		},
		{"empty arg", ":tee()", []LayerName{{Name: "tee", HasArg: true}}},
		{"nested parens", ":tee(a(b)c)", []LayerName{{Name: "tee", Arg: "a(b)c", HasArg: true}}},
		{"escaped paren", `:tee(a\)b)`, []LayerName{{Name: "tee", Arg: "a)b", HasArg: true}}},
		{"underscore and digits", ":my_layer2", []LayerName{{Name: "my_layer2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpecs(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSpecs_Errors(t *testing.T) {
	for _, input := range []string{
		":tee(unbalanced",
		":tee(trailing\\",
		":2tee",
		":tee(a)b",
		":te-e",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSpecs(input)
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLayerName_String(t *testing.T) {
	assert.Equal(t, ":tee", LayerName{Name: "tee"}.String())
	assert.Equal(t, ":tee(x)", LayerName{Name: "tee", Arg: "x", HasArg: true}.String())
}
