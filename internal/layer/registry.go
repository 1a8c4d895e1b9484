// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"slices"
	"sort"
)

// Registry maps layer names to layers.
type Registry map[string]Layer

// RegisterFunc adds one or more layers to a registry.
type RegisterFunc func(Registry)

// NewRegistry returns a registry populated by the given register functions.
func NewRegistry(fns ...RegisterFunc) Registry {
	r := make(Registry)
	for _, fn := range fns {
		fn(r)
	}

	return r
}

// Register adds l under its name, replacing any layer of the same name.
func (r Registry) Register(l Layer) {
	r[l.Name()] = l
}

// Lookup returns the layer registered under name.
func (r Registry) Lookup(name string) (Layer, error) {
	l, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}

	return l, nil
}

// Names returns the registered names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

// Specs parses a layer string such as ":flock(non-blocking):tee(copy.log)" and
// resolves every name in it.
func (r Registry) Specs(layers string) ([]Spec, error) {
	parsed, err := ParseSpecs(layers)
	if err != nil {
		return nil, err
	}

	specs := make([]Spec, 0, len(parsed))

	for _, p := range parsed {
		l, err := r.Lookup(p.Name)
		if err != nil {
			return nil, err
		}

		spec := Spec{Layer: l}
		if p.HasArg {
			spec.Arg = NameArg(p.Arg)
		}

		specs = append(specs, spec)
	}

	return slices.Clip(specs), nil
}
