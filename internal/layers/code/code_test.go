// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package code

import (
	"context"
	"errors"
	"testing"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(mode layer.Mode, target any) (*layer.Stream, error) {
	return layer.Open(context.Background(), layer.NewConfig(nil), []layer.Spec{{Layer: &Layer{}}}, layer.NewOpenRequest(mode, target))
}

func TestCallables(t *testing.T) {
	var got []string

	errRejected := errors.New("rejected")

	tests := []struct {
		name    string
		fn      any
		wantErr error
	}{
		{"string", func(s string) { got = append(got, s) }, nil},
		{"bytes", func(b []byte) { got = append(got, string(b)) }, nil},
		{"bytes with error", func(b []byte) error {
			got = append(got, string(b))
			return nil
		}, nil},
		{"failing", func([]byte) error { return errRejected }, errRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil

			s, err := open(layer.ModeWrite, tt.fn)
			require.NoError(t, err)
			defer s.Close() //nolint:errcheck

			n, err := s.WriteString("hi")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, n)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Equal(t, []string{"hi"}, got)
		})
	}
}

func TestWriteReceivesCopy(t *testing.T) {
	var kept []byte

	s, err := open(layer.ModeWrite, func(b []byte) { kept = b })
	require.NoError(t, err)

	buf := []byte("abc")
	_, err = s.Write(buf)
	require.NoError(t, err)

	buf[0] = 'X'
	assert.Equal(t, "abc", string(kept))
	require.NoError(t, s.Close())
}

func TestOpenErrors(t *testing.T) {
	_, err := open(layer.ModeRead, func(string) {})
	require.ErrorIs(t, err, layer.ErrOpen)

	_, err = open(layer.ModeWrite, func(int) {})
	require.ErrorIs(t, err, layer.ErrOpen)
}
