// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"fmt"
	"unsafe"
)

// PageSource is the primitive a Heap grows through. RequestPage returns size
// bytes of memory aligned to PageSize, disjoint from everything it returned
// before. The contents may be zero or garbage. Memory handed out is never
// given back.
type PageSource interface {
	RequestPage(size int) (unsafe.Pointer, error)
}

const defaultRegionPages = 8 // 32KB

// regionSource obtains memory from the platform in regions of several pages
// and hands it out one request at a time.
type regionSource struct {
	regions     []*region
	regionPages int
	mapRegion   func(size int) ([]byte, error)
}

type region struct {
	mem    []byte
	offset int
}

// RegionOption configures a page source.
type RegionOption func(*regionSource)

// WithRegionPages sets how many pages a source maps from the platform at once.
func WithRegionPages(pages int) RegionOption {
	return func(s *regionSource) {
		s.regionPages = pages
	}
}

func newRegionSource(mapRegion func(size int) ([]byte, error), opts ...RegionOption) *regionSource {
	s := &regionSource{
		regionPages: defaultRegionPages,
		mapRegion:   mapRegion,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.regionPages < 1 {
		s.regionPages = 1
	}
	return s
}

// NewHeapPageSource returns a PageSource that carves pages out of regions
// allocated on the Go heap. Regions stay referenced by the source, so the
// source must outlive every Heap using it.
func NewHeapPageSource(opts ...RegionOption) PageSource {
	return newRegionSource(heapRegion, opts...)
}

func heapRegion(size int) ([]byte, error) {
	// extra page so the usable part can start on a page boundary
	return make([]byte, size+PageSize), nil
}

// RequestPage satisfies the PageSource interface.
func (s *regionSource) RequestPage(size int) (unsafe.Pointer, error) {
	if size <= 0 || size%PageSize != 0 {
		return nil, fmt.Errorf("slab: page request of %d bytes is not a multiple of %d", size, PageSize)
	}
	var r *region
	if n := len(s.regions); n > 0 && s.regions[n-1].available() >= size {
		r = s.regions[n-1]
	} else {
		var err error
		if r, err = s.grow(size); err != nil {
			return nil, err
		}
	}
	ptr := unsafe.Pointer(&r.mem[r.offset])
	r.offset += size
	return ptr, nil
}

func (s *regionSource) grow(size int) (*region, error) {
	regionSize := s.regionPages * PageSize
	if regionSize < size {
		regionSize = size
	}
	mem, err := s.mapRegion(regionSize)
	if err != nil {
		return nil, err
	}
	pad := 0
	if rem := uintptr(unsafe.Pointer(unsafe.SliceData(mem))) % PageSize; rem != 0 {
		pad = PageSize - int(rem)
	}
	if len(mem)-pad < regionSize {
		return nil, fmt.Errorf("slab: region of %d bytes cannot hold %d aligned bytes", len(mem), regionSize)
	}
	r := &region{mem: mem[pad : pad+regionSize]}
	s.regions = append(s.regions, r)
	return r, nil
}

func (r *region) available() int {
	return len(r.mem) - r.offset
}
