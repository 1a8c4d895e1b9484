// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package openflags provides the creat and excl layers. They only have an
// effect while a stream is being opened: they add O_CREATE or O_EXCL to the
// open flags and let the layers below them open the stream.
package openflags

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

const (
	// CreatName is the name of the layer adding O_CREATE.
	CreatName = "creat"
	// ExclName is the name of the layer adding O_EXCL.
	ExclName = "excl"
)

var (
	_ layer.Opener = (*Layer)(nil)
	_ layer.Pusher = (*Layer)(nil)
)

// Layer adds flags to the open request.
type Layer struct {
	name string
	flag int
}

// Creat returns the layer adding O_CREATE.
func Creat() *Layer {
	return &Layer{name: CreatName, flag: os.O_CREATE}
}

// Excl returns the layer adding O_EXCL.
func Excl() *Layer {
	return &Layer{name: ExclName, flag: os.O_EXCL}
}

// Name implements layer.Layer.
func (l *Layer) Name() string { return l.name }

// Flag returns the os.O_* bits the layer adds.
func (l *Layer) Flag() int { return l.flag }

// Open implements layer.Opener.
func (l *Layer) Open(ctx context.Context, chain *layer.Chain, req layer.OpenRequest) (*layer.Stream, error) {
	req.OSFlag |= l.flag
	if req.Perm == 0 {
		req.Perm = 0o666
	}

	return chain.OpenBelow(ctx, req)
}

// Push implements layer.Pusher. The layer cannot affect a stream that is already open.
func (l *Layer) Push(context.Context, *layer.PushRequest) (layer.Instance, error) {
	return nil, fmt.Errorf("%w %s", layer.ErrTooLate, l.name)
}

// Register adds the creat and excl layers to r.
func Register(r layer.Registry) {
	r.Register(Creat())
	r.Register(Excl())
}
