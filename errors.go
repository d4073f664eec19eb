// SPDX-License-Identifier: Apache-2.0

package slab

import "errors"

var (
	// ErrOutOfMemory indicates that the page source could not supply another page
	// or that the reservation ceiling would be exceeded. No state is changed.
	ErrOutOfMemory = errors.New("slab: out of memory")

	// ErrOversizeRequest indicates that the request plus its header does not fit
	// into the largest size class.
	ErrOversizeRequest = errors.New("slab: request exceeds largest size class")

	// ErrInvalidSize indicates a negative request size.
	ErrInvalidSize = errors.New("slab: negative request size")

	// ErrCorruptFreeList is returned by Verify when a free list is inconsistent.
	ErrCorruptFreeList = errors.New("slab: corrupt free list")

	// ErrNoAllocator is returned by wrappers that were built around a nil Allocator.
	ErrNoAllocator = errors.New("slab: no allocator")
)
