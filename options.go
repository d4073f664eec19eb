// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"log/slog"
)

// Option configures a Heap.
type Option func(*Heap)

// WithPageSource sets the source pages are obtained from.
func WithPageSource(src PageSource) Option {
	return func(h *Heap) {
		h.source = src
	}
}

// WithLogger sets the logger provisioning events are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Heap) {
		h.logger = logger
	}
}

// WithMaxReserved caps the number of bytes the heap may obtain from its page
// source. Allocations that would need more fail with ErrOutOfMemory.
// A value of 0 means no limit.
func WithMaxReserved(bytes int) Option {
	return func(h *Heap) {
		h.maxReserved = bytes
	}
}

// WithDebug makes the heap remember every live pointer so that Free panics on
// pointers it did not hand out or that were already freed.
func WithDebug() Option {
	return func(h *Heap) {
		h.tracked = make(map[uintptr]struct{})
	}
}
