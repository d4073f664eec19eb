// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"fmt"
	"io"
	"log/slog"
	"unsafe"
)

// Heap is a segregated free-list allocator with power-of-two size classes
// from MinBlockSize to MaxBlockSize. Each class owns a free list that is
// refilled one page at a time from a PageSource the first time it runs dry.
// Pages are never returned to the source.
//
// A Heap is not safe for concurrent use; see NewConcurrentAllocator.
// The zero value is ready to use with the default page source.
type Heap struct {
	buckets bucketStore

	pages     []page
	pageIndex map[uintptr]int // page base -> index into pages

	source PageSource
	logger *slog.Logger

	live        int // sum of requested sizes of live allocations
	reserved    int // bytes obtained from source
	peak        int // high-water mark of live
	maxReserved int // 0 means unlimited

	tracked map[uintptr]struct{} // live payload addresses, debug only
}

type page struct {
	base  uintptr
	class int
}

// NewHeap creates a heap. Without options it uses the platform's default
// page source and discards log output.
func NewHeap(opts ...Option) *Heap {
	h := &Heap{}
	for _, opt := range opts {
		opt(h)
	}
	h.init()
	return h
}

func (h *Heap) init() {
	if h.source == nil {
		h.source = defaultPageSource()
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if h.pageIndex == nil {
		h.pageIndex = make(map[uintptr]int)
	}
}

// Alloc returns a pointer to size bytes of uninitialized memory. It fails
// with ErrInvalidSize, ErrOversizeRequest or ErrOutOfMemory and leaves the
// heap untouched in that case.
func (h *Heap) Alloc(size int) (unsafe.Pointer, error) {
	class, err := ClassOf(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes", err, size)
	}
	if h.buckets.empty(class) {
		if err := h.provision(class); err != nil {
			return nil, err
		}
	}
	block := h.buckets.pop(class)
	writeHeader(block, size)

	h.live += size
	if h.live > h.peak {
		h.peak = h.live
	}

	ptr := payloadOf(block)
	if h.tracked != nil {
		h.tracked[uintptr(ptr)] = struct{}{}
	}
	return ptr, nil
}

// Free returns the block behind ptr to the free list of its class. ptr must
// have been returned by Alloc on this heap and not freed since; anything else
// corrupts the heap unless debug tracking is enabled, in which case Free
// panics. Free(nil) does nothing.
func (h *Heap) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	if h.tracked != nil {
		h.untrack(ptr)
	}
	block := blockOf(ptr)
	size := readHeader(block)
	class, err := ClassOf(size)
	if err != nil {
		panic(fmt.Sprintf("slab: corrupt header at %p: size %d", ptr, size))
	}
	h.buckets.push(class, block)
	h.live -= size
}

// Reset makes every block of every reserved page free again. Pointers
// returned by Alloc become invalid. Reserved memory is kept and PeakBytes is
// not reset.
func (h *Heap) Reset() {
	h.buckets.clear()
	for _, p := range h.pages {
		h.buckets.carve(p.class, p.base)
	}
	h.live = 0
	if h.tracked != nil {
		clear(h.tracked)
	}
}

// LiveBytes returns the sum of the sizes requested by all allocations that
// have not been freed.
func (h *Heap) LiveBytes() int {
	return h.live
}

// ReservedBytes returns the number of bytes obtained from the page source.
// It only ever grows, in steps of PageSize.
func (h *Heap) ReservedBytes() int {
	return h.reserved
}

// PeakBytes returns the highest value LiveBytes has reached.
func (h *Heap) PeakBytes() int {
	return h.peak
}

// Owns reports whether ptr points into a page provisioned by this heap.
func (h *Heap) Owns(ptr unsafe.Pointer) bool {
	if ptr == nil {
		return false
	}
	_, ok := h.pageIndex[pageBase(blockOf(ptr))]
	return ok
}

func pageBase(addr uintptr) uintptr {
	return addr &^ (PageSize - 1)
}

// ClassStats describes one size class.
type ClassStats struct {
	BlockSize  int `json:"block_size"`
	Pages      int `json:"pages"`
	FreeBlocks int `json:"free_blocks"`
	UsedBlocks int `json:"used_blocks"`
}

// Stats is a snapshot of a heap's accounting.
type Stats struct {
	LiveBytes     int                    `json:"live_bytes"`
	ReservedBytes int                    `json:"reserved_bytes"`
	PeakBytes     int                    `json:"peak_bytes"`
	Classes       [NumClasses]ClassStats `json:"classes"`
}

// Stats returns a snapshot of the heap's counters.
func (h *Heap) Stats() Stats {
	s := Stats{
		LiveBytes:     h.live,
		ReservedBytes: h.reserved,
		PeakBytes:     h.peak,
	}
	for class := range s.Classes {
		b := &h.buckets[class]
		s.Classes[class] = ClassStats{
			BlockSize:  BlockSize(class),
			Pages:      b.pages,
			FreeBlocks: b.free,
			UsedBlocks: b.pages*BlocksPerPage(class) - b.free,
		}
	}
	return s
}
