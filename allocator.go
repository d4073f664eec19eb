// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"unsafe"
)

// Allocator is an interface that describes a size-class allocator.
type Allocator interface {
	// Alloc allocates size bytes and returns a pointer to them.
	// The memory is not zeroed.
	Alloc(size int) (unsafe.Pointer, error)

	// Free returns memory previously obtained from Alloc.
	// Passing any other pointer, or the same pointer twice, is undefined.
	Free(ptr unsafe.Pointer)

	// Reset frees every allocation at once without giving memory back.
	// After invoking this method any pointer previously returned by Alloc becomes immediately invalid.
	Reset()

	// LiveBytes returns the sum of the sizes requested by allocations that are still live.
	LiveBytes() int

	// ReservedBytes returns the total number of bytes obtained from the platform.
	// It never decreases.
	ReservedBytes() int

	// PeakBytes returns the highest number of live bytes seen so far.
	// This value is not reset when Reset is called.
	PeakBytes() int
}

var _ Allocator = (*Heap)(nil)
