// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"context"
	"io"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T, mode Mode) (*Stream, *memLayer) {
	t.Helper()

	mem := &memLayer{}
	cfg := newTestConfig(mem)

	s, err := Open(context.Background(), cfg, nil, NewOpenRequest(mode, "x"))
	require.NoError(t, err)

	return s, mem
}

func TestStream_WriteAndFlags(t *testing.T) {
	s, mem := openMem(t, ModeAppend)

	assert.True(t, s.CanWrite())
	assert.False(t, s.CanRead())
	assert.True(t, s.Flags().Has(FlagAppend))
	assert.Equal(t, ModeAppend, s.Mode())

	n, err := s.WriteString("hello")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", mem.buffers[0].buf.String())

	pos, err := s.Tell()
	require.NoError(t, err)
	assert.EqualValues(t, 5, pos)

	_, err = s.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrBadHandle)

	_, err = s.Seek(0, io.SeekStart)
	require.ErrorIs(t, err, ErrUnsupported)

	require.NoError(t, s.Close())
}

func TestStream_ReadOnlyRejectsWrite(t *testing.T) {
	s, _ := openMem(t, ModeRead)

	_, err := s.Write([]byte("x"))
	require.ErrorIs(t, err, ErrBadHandle)
	assert.False(t, s.CanWrite())
	require.NoError(t, s.Close())
}

func TestStream_Push(t *testing.T) {
	ctx := context.Background()

	t.Run("not pushable", func(t *testing.T) {
		s, _ := openMem(t, ModeWrite)
		defer s.Close() //nolint:errcheck

		_, err := s.Push(ctx, openOnlyLayer{}, ModeWrite, Arg{})
		require.ErrorIs(t, err, ErrNotPushable)
		assert.Equal(t, []string{"mem"}, s.Layers())
	})

	t.Run("failure leaves stack unchanged", func(t *testing.T) {
		s, _ := openMem(t, ModeWrite)
		defer s.Close() //nolint:errcheck

		top := s.Top()
		_, err := s.Push(ctx, &recLayer{name: "bad", failPush: errBoom}, ModeWrite, Arg{})
		require.ErrorIs(t, err, errBoom)
		assert.Same(t, top, s.Top())
		assert.Equal(t, []string{"mem"}, s.Layers())
	})

	t.Run("inherits stream mode", func(t *testing.T) {
		s, _ := openMem(t, ModeAppend)
		defer s.Close() //nolint:errcheck

		inst, err := s.Push(ctx, &recLayer{name: "a"}, ModeNone, NameArg("arg"))
		require.NoError(t, err)
		assert.Same(t, inst, s.Top())
		assert.Equal(t, "arg", inst.Arg().Name())
	})

	t.Run("closed stream", func(t *testing.T) {
		s, _ := openMem(t, ModeWrite)
		require.NoError(t, s.Close())

		_, err := s.Push(ctx, &recLayer{name: "a"}, ModeWrite, Arg{})
		require.ErrorIs(t, err, ErrClosed)
	})
}

func TestStream_Close(t *testing.T) {
	ctx := context.Background()

	var order []string

	s, mem := openMem(t, ModeWrite)

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Push(ctx, &recLayer{name: name, popOrder: &order}, ModeWrite, NameArg(name))
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"mem", "a", "b", "c"}, s.Layers())

	atts := s.Attachments()
	require.Len(t, atts, 4)
	assert.Equal(t, "mem", atts[0].Layer.Name())
	assert.Equal(t, "c", atts[3].Arg.Name())

	require.NoError(t, s.Close())
	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.Equal(t, 1, mem.buffers[0].flushes)
	assert.Equal(t, 1, mem.buffers[0].popped)
	assert.True(t, s.Closed())
	assert.Nil(t, s.Top())

	// second close is a no-op
	require.NoError(t, s.Close())
	assert.Equal(t, 1, mem.buffers[0].popped)

	_, err := s.Write([]byte("x"))
	require.ErrorIs(t, err, ErrClosed)
}

func TestStream_CloseAggregatesErrors(t *testing.T) {
	ctx := context.Background()
	s, mem := openMem(t, ModeWrite)

	_, err := s.Push(ctx, &recLayer{name: "a", failPop: errBoom}, ModeWrite, Arg{})
	require.NoError(t, err)
	_, err = s.Push(ctx, &recLayer{name: "b", failPop: errBoom}, ModeWrite, Arg{})
	require.NoError(t, err)

	err = s.Close()
	require.Error(t, err)
	require.ErrorIs(t, err, errBoom)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Equal(t, 1, mem.buffers[0].popped)
}

func TestStream_PopEmpty(t *testing.T) {
	s := NewStream(nil, ModeWrite, nil)

	require.ErrorIs(t, s.Pop(), ErrBadHandle)
	require.ErrorIs(t, s.Flush(), ErrBadHandle)
	assert.False(t, s.CanWrite())
	assert.Equal(t, Flags(0), s.Flags())
	require.NoError(t, s.Close())
}
