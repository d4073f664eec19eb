// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func requireDisjointPages(t *testing.T, src PageSource, n int) []uintptr {
	t.Helper()
	var bases []uintptr
	for i := 0; i < n; i++ {
		ptr, err := src.RequestPage(PageSize)
		require.NoError(t, err)
		require.NotNil(t, ptr)
		base := uintptr(ptr)
		require.Zero(t, base%PageSize, "page %#x not aligned", base)
		for _, other := range bases {
			require.True(t, base+PageSize <= other || other+PageSize <= base, "pages %#x and %#x overlap", base, other)
		}
		bases = append(bases, base)

		// whole page is writable
		mem := unsafe.Slice((*byte)(ptr), PageSize)
		for j := range mem {
			mem[j] = byte(i)
		}
	}
	return bases
}

func TestHeapPageSourceRegions(t *testing.T) {
	src := NewHeapPageSource(WithRegionPages(4))
	requireDisjointPages(t, src, 10)

	rs := src.(*regionSource)
	require.Len(t, rs.regions, 3)
	require.Equal(t, 2*PageSize, rs.regions[2].available())
	for _, r := range rs.regions {
		require.Len(t, r.mem, 4*PageSize)
	}
}

func TestHeapPageSourceDefaultRegion(t *testing.T) {
	src := NewHeapPageSource()
	requireDisjointPages(t, src, defaultRegionPages)
	require.Len(t, src.(*regionSource).regions, 1)
}

func TestPageSourceLargeRequest(t *testing.T) {
	src := NewHeapPageSource(WithRegionPages(1))
	ptr, err := src.RequestPage(3 * PageSize)
	require.NoError(t, err)
	require.Zero(t, uintptr(ptr)%PageSize)

	_, err = src.RequestPage(PageSize)
	require.NoError(t, err)
	require.Len(t, src.(*regionSource).regions, 2)
}

func TestPageSourceRejectsPartialPages(t *testing.T) {
	src := NewHeapPageSource()
	for _, size := range []int{0, -PageSize, 100, PageSize + 1} {
		_, err := src.RequestPage(size)
		require.Error(t, err, "size %d", size)
	}
	require.Empty(t, src.(*regionSource).regions)
}

func TestPageSourceMapFailure(t *testing.T) {
	mapErr := errors.New("mapping refused")
	src := newRegionSource(func(int) ([]byte, error) { return nil, mapErr })
	_, err := src.RequestPage(PageSize)
	require.ErrorIs(t, err, mapErr)
}

func TestPageSourceShortRegion(t *testing.T) {
	// a region that can't fit a page once aligned
	src := newRegionSource(func(size int) ([]byte, error) { return make([]byte, size/2), nil })
	_, err := src.RequestPage(PageSize)
	require.Error(t, err)
	require.Empty(t, src.regions)
}

func TestDefaultPageSource(t *testing.T) {
	requireDisjointPages(t, defaultPageSource(), 3*defaultRegionPages)
}
