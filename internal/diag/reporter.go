// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package diag

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// NullReporter drops every event.
type NullReporter struct{}

// Report implements Reporter.
func (NullReporter) Report(Event) {}

// LogReporter writes every event to a slog logger at warn level.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter logging to logger, or to slog.Default() if nil.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogReporter{logger: logger}
}

// Report implements Reporter.
func (r *LogReporter) Report(event Event) {
	r.logger.Warn(event.Message(),
		"stream", event.StreamID.String(),
		"layer", event.Layer,
		"op", event.Op.String(),
		"error", event.Err,
	)
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report implements Reporter.
func (r *Recorder) Report(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Ops returns the operations of the recorded events, in order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, len(r.events))
	for i, e := range r.events {
		ops[i] = e.Op
	}

	return ops
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

// MultiReporter forwards every event to each of its reporters.
type MultiReporter []Reporter

// Report implements Reporter.
func (m MultiReporter) Report(event Event) {
	for _, r := range m {
		r.Report(event)
	}
}

// ChannelReporter implements Reporter using a Go channel.
// Events are sent without blocking; if the channel is full the event is dropped.
type ChannelReporter struct {
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.RWMutex // guards closed against Report racing Close
	closed bool
}

// NewChannelReporter creates a new ChannelReporter with the given buffer size.
func NewChannelReporter(ctx context.Context, bufferSize int) *ChannelReporter {
	reporterCtx, cancel := context.WithCancel(ctx)

	return &ChannelReporter{
		ch:     make(chan Event, bufferSize),
		ctx:    reporterCtx,
		cancel: cancel,
	}
}

// Report implements Reporter.
func (cr *ChannelReporter) Report(event Event) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- event:
	case <-cr.ctx.Done():
	default:
		// full, drop
	}
}

// Close stops the reporter and waits for any listener to return.
func (cr *ChannelReporter) Close() {
	cr.once.Do(func() {
		cr.cancel()
		cr.wg.Wait()

		cr.mu.Lock()
		defer cr.mu.Unlock()

		cr.closed = true
		close(cr.ch)
	})
}

// Listen forwards events to listener on a new goroutine until the reporter
// is closed or its context is cancelled.
func (cr *ChannelReporter) Listen(listener Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for {
			select {
			case event := <-cr.ch:
				listener.OnEvent(event)
			case <-cr.ctx.Done():
				return
			}
		}
	}()
}

// Events returns the channel of events, for callers that do not use Listen.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}
