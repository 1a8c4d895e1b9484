// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
)

// ArgKind identifies the variant held by an Arg.
type ArgKind int

const (
	// ArgNone is the zero Arg.
	ArgNone ArgKind = iota
	// ArgStream holds an already open stream.
	ArgStream
	// ArgName holds a file name, optionally prefixed with a mode.
	ArgName
	// ArgTarget holds a structured value that needs a layer inferred for it.
	ArgTarget
)

// String implements the Stringer interface for ArgKind.
func (k ArgKind) String() string {
	switch k {
	case ArgNone:
		return "none"
	case ArgStream:
		return "stream"
	case ArgName:
		return "name"
	case ArgTarget:
		return "target"
	default:
		return "unknown"
	}
}

// Arg is the argument a layer is pushed or opened with.
// It is a small value type; the zero value means "no argument".
type Arg struct {
	kind   ArgKind
	stream *Stream
	name   string
	target any
}

// StreamArg returns an Arg referring to an open stream.
func StreamArg(s *Stream) Arg {
	if s == nil {
		return Arg{}
	}

	return Arg{kind: ArgStream, stream: s}
}

// NameArg returns an Arg holding a file name specifier.
func NameArg(name string) Arg {
	return Arg{kind: ArgName, name: name}
}

// TargetArg returns an Arg holding a structured target value.
func TargetArg(v any) Arg {
	if v == nil {
		return Arg{}
	}

	return Arg{kind: ArgTarget, target: v}
}

// ArgFrom classifies an arbitrary value into an Arg.
func ArgFrom(v any) Arg {
	switch t := v.(type) {
	case nil:
		return Arg{}
	case Arg:
		return t
	case *Stream:
		return StreamArg(t)
	case string:
		return NameArg(t)
	default:
		return TargetArg(v)
	}
}

// ArgsFrom classifies every value in vs.
func ArgsFrom(vs ...any) []Arg {
	args := make([]Arg, 0, len(vs))
	for _, v := range vs {
		args = append(args, ArgFrom(v))
	}

	return args
}

// Kind returns the variant held by the Arg.
func (a Arg) Kind() ArgKind { return a.kind }

// IsZero reports whether the Arg holds nothing.
func (a Arg) IsZero() bool { return a.kind == ArgNone }

// Stream returns the stream held by an ArgStream.
func (a Arg) Stream() *Stream { return a.stream }

// Name returns the name held by an ArgName.
func (a Arg) Name() string { return a.name }

// Target returns the value held by an ArgTarget.
func (a Arg) Target() any { return a.target }

// Clone returns a copy of the Arg. An Arg is a value type: the copy shares
// the stream or target it refers to.
func (a Arg) Clone() Arg {
	return a
}

// String implements the Stringer interface for Arg.
func (a Arg) String() string {
	switch a.kind {
	case ArgStream:
		return fmt.Sprintf("stream(%s)", a.stream.ID())
	case ArgName:
		return a.name
	case ArgTarget:
		return fmt.Sprintf("%s(%T)", Classify(a.target), a.target)
	default:
		return ""
	}
}

// TargetKind is the structural kind of a target value.
type TargetKind int

const (
	// KindUnknown is a value with no known structure.
	KindUnknown TargetKind = iota
	// KindScalar is an in-memory byte or string value.
	KindScalar
	// KindSequence is a slice or array.
	KindSequence
	// KindMapping is a map.
	KindMapping
	// KindCallable is a function.
	KindCallable
	// KindHandle is an io.Reader or io.Writer owned by the caller.
	KindHandle
)

// String implements the Stringer interface for TargetKind.
func (k TargetKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindCallable:
		return "callable"
	case KindHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Classify returns the structural kind of v.
func Classify(v any) TargetKind {
	switch v.(type) {
	case nil:
		return KindUnknown
	case *bytes.Buffer, *[]byte, *string:
		return KindScalar
	case io.Writer, io.Reader:
		return KindHandle
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Func:
		return KindCallable
	case reflect.Map:
		return KindMapping
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Pointer:
		switch rv.Elem().Kind() {
		case reflect.Slice, reflect.Array:
			return KindSequence
		case reflect.Map:
			return KindMapping
		case reflect.String:
			return KindScalar
		}
	}

	return KindUnknown
}
