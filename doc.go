// SPDX-License-Identifier: Apache-2.0

// Package slab implements a heap allocator with segregated free lists and
// power-of-two size classes.
//
// Requests are rounded up, together with a 4-byte header, to one of nine
// block sizes from 16 to 4096 bytes. Every class has its own doubly-linked
// free list threaded through the free blocks themselves. When a class runs
// out of blocks the heap asks its PageSource for one 4096-byte page and
// slices it into blocks of that class. Allocation and release are O(1);
// pages are never given back.
//
//	h := slab.NewHeap()
//	ptr, err := h.Alloc(12)
//	if err != nil {
//		return err
//	}
//	defer h.Free(ptr)
//
// A Heap is meant for a single goroutine. NewConcurrentAllocator wraps it
// with one lock for shared use.
package slab
