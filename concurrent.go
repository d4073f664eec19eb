// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"sync"
	"unsafe"
)

type concurrentAllocator struct {
	mtx sync.Mutex
	a   Allocator
}

// NewConcurrentAllocator returns an allocator that is safe to be accessed
// concurrently from multiple goroutines. All operations, including the free
// lists and counters of every class, are serialized by a single lock.
func NewConcurrentAllocator(a Allocator) Allocator {
	return &concurrentAllocator{a: a}
}

// Alloc satisfies the Allocator interface.
func (c *concurrentAllocator) Alloc(size int) (unsafe.Pointer, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.a == nil {
		return nil, ErrNoAllocator
	}
	return c.a.Alloc(size)
}

// Free satisfies the Allocator interface.
func (c *concurrentAllocator) Free(ptr unsafe.Pointer) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.a == nil {
		return
	}
	c.a.Free(ptr)
}

// Reset satisfies the Allocator interface.
func (c *concurrentAllocator) Reset() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.a == nil {
		return
	}
	c.a.Reset()
}

// LiveBytes satisfies the Allocator interface.
func (c *concurrentAllocator) LiveBytes() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.a == nil {
		return 0
	}
	return c.a.LiveBytes()
}

// ReservedBytes satisfies the Allocator interface.
func (c *concurrentAllocator) ReservedBytes() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.a == nil {
		return 0
	}
	return c.a.ReservedBytes()
}

// PeakBytes satisfies the Allocator interface.
func (c *concurrentAllocator) PeakBytes() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.a == nil {
		return 0
	}
	return c.a.PeakBytes()
}
