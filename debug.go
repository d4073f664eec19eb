// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"fmt"
	"unsafe"
)

func (h *Heap) untrack(ptr unsafe.Pointer) {
	addr := uintptr(ptr)
	if _, ok := h.tracked[addr]; !ok {
		if h.Owns(ptr) {
			panic(fmt.Sprintf("slab: free of %p which is not allocated (double free?)", ptr))
		}
		panic(fmt.Sprintf("slab: free of %p which does not belong to this heap", ptr))
	}
	delete(h.tracked, addr)
}

// Verify walks every free list and checks that links are symmetric, every
// block carries its class tag and lies on a block boundary of a page
// provisioned for that class, and the free counts match.
func (h *Heap) Verify() error {
	for class := range h.buckets {
		if err := h.verifyClass(class); err != nil {
			return err
		}
	}
	return nil
}

func (h *Heap) verifyClass(class int) error {
	b := &h.buckets[class]
	size := uintptr(BlockSize(class))
	limit := b.pages * BlocksPerPage(class)

	var prev uintptr
	count := 0
	for addr := b.head; addr != 0; addr = blockAt(addr).next() {
		if count == limit {
			return fmt.Errorf("%w: class %d has more than %d free blocks (cycle?)", ErrCorruptFreeList, class, limit)
		}
		idx, ok := h.pageIndex[pageBase(addr)]
		if !ok {
			return fmt.Errorf("%w: class %d block %#x is outside every page", ErrCorruptFreeList, class, addr)
		}
		if p := h.pages[idx]; p.class != class || (addr-p.base)%size != 0 {
			return fmt.Errorf("%w: class %d block %#x is not a block of this class", ErrCorruptFreeList, class, addr)
		}
		blk := blockAt(addr)
		if blk.class() != class {
			return fmt.Errorf("%w: class %d block %#x tagged with class %d", ErrCorruptFreeList, class, addr, blk.class())
		}
		if blk.prev != prev {
			return fmt.Errorf("%w: class %d block %#x back-link %#x, want %#x", ErrCorruptFreeList, class, addr, blk.prev, prev)
		}
		prev = addr
		count++
	}
	if count != b.free {
		return fmt.Errorf("%w: class %d has %d free blocks, counted %d", ErrCorruptFreeList, class, b.free, count)
	}
	return nil
}
