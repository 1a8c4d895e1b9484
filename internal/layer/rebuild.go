// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Rebuild pushes the given attachments onto dst in order.
// Attachments whose layer cannot be pushed, such as the innermost layer of the
// source stream, are skipped. If a push fails every instance pushed so far is
// popped again and the error is returned.
func Rebuild(ctx context.Context, dst *Stream, atts []Attachment) error {
	pushed := 0

	for _, att := range atts {
		if _, ok := att.Layer.(Pusher); !ok {
			continue
		}

		if _, err := dst.Push(ctx, att.Layer, ModeNone, att.Arg.Clone()); err != nil {
			var result error = fmt.Errorf("rebuild %s: %w", att.Layer.Name(), err)

			for range pushed {
				if perr := dst.Pop(); perr != nil {
					result = multierror.Append(result, perr)
				}
			}

			return result
		}

		pushed++
	}

	return nil
}
