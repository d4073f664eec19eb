// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"unsafe"
)

// classTagMask selects the low bits of a free block's forward link that hold
// its class index. Blocks are at least MinBlockSize aligned, so those bits of
// a block address are always zero.
const classTagMask = uintptr(MinBlockSize - 1)

// freeBlock is the view of a block while it sits in a bucket. It overlays the
// first bytes of the block; once the block is handed out the same bytes hold
// the header and the payload.
type freeBlock struct {
	link uintptr // forward link, class index in the low bits
	prev uintptr // backward link
}

func blockAt(addr uintptr) *freeBlock {
	return (*freeBlock)(unsafe.Pointer(addr))
}

func (b *freeBlock) next() uintptr {
	return b.link &^ classTagMask
}

func (b *freeBlock) class() int {
	return int(b.link & classTagMask)
}

func (b *freeBlock) setNext(next uintptr, class int) {
	b.link = next | uintptr(class)
}

// bucket is the free list of one size class.
type bucket struct {
	head  uintptr // 0 when empty
	free  int     // blocks currently linked
	pages int     // pages ever provisioned for this class
}

type bucketStore [NumClasses]bucket

func (s *bucketStore) empty(class int) bool {
	return s[class].head == 0
}

// pop unlinks and returns the head block of the class. The bucket must not be
// empty.
func (s *bucketStore) pop(class int) uintptr {
	b := &s[class]
	addr := b.head
	b.head = blockAt(addr).next()
	if b.head != 0 {
		blockAt(b.head).prev = 0
	}
	b.free--
	return addr
}

// push links the block at addr in front of the current head. An empty bucket
// simply gets addr as its only element.
func (s *bucketStore) push(class int, addr uintptr) {
	b := &s[class]
	blk := blockAt(addr)
	blk.setNext(b.head, class)
	blk.prev = 0
	if b.head != 0 {
		blockAt(b.head).prev = addr
	}
	b.head = addr
	b.free++
}

// carve slices the page at base into blocks of the class and links them, in
// address order, in front of the bucket. The tail of the new chain points at
// the previous head, which is 0 for an empty bucket.
func (s *bucketStore) carve(class int, base uintptr) {
	b := &s[class]
	size := uintptr(BlockSize(class))
	n := BlocksPerPage(class)

	var prev uintptr
	for i := 0; i < n; i++ {
		addr := base + uintptr(i)*size
		next := addr + size
		if i == n-1 {
			next = b.head
		}
		blk := blockAt(addr)
		blk.setNext(next, class)
		blk.prev = prev
		prev = addr
	}
	if b.head != 0 {
		blockAt(b.head).prev = prev
	}
	b.head = base
	b.free += n
}

// clear drops every free list without touching the memory behind it.
func (s *bucketStore) clear() {
	for i := range s {
		s[i].head = 0
		s[i].free = 0
	}
}
