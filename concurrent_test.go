// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestConcurrentAllocatorAccounting(t *testing.T) {
	a := NewConcurrentAllocator(NewHeap())
	require.Equal(t, 0, a.LiveBytes())

	ptr1, err := a.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, 100, a.LiveBytes())

	ptr2, err := a.Alloc(200)
	require.NoError(t, err)
	require.Equal(t, 300, a.LiveBytes())
	require.Equal(t, 2*PageSize, a.ReservedBytes())

	a.Free(ptr1)
	a.Free(ptr2)
	require.Equal(t, 0, a.LiveBytes())
	require.Equal(t, 300, a.PeakBytes())
	require.Equal(t, 2*PageSize, a.ReservedBytes())
}

func TestConcurrentAllocatorReset(t *testing.T) {
	a := NewConcurrentAllocator(NewHeap())
	_, err := a.Alloc(50)
	require.NoError(t, err)

	a.Reset()
	require.Equal(t, 0, a.LiveBytes())
	require.Equal(t, PageSize, a.ReservedBytes())
	require.Equal(t, 50, a.PeakBytes())
}

func TestConcurrentAllocatorConcurrentAccess(t *testing.T) {
	h := NewHeap()
	a := NewConcurrentAllocator(h)

	const numGoroutines = 10
	const allocationsPerGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	kept := make([][]unsafe.Pointer, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			size := 10 + i*100
			for j := 0; j < allocationsPerGoroutine; j++ {
				ptr, err := a.Alloc(size)
				if err != nil {
					t.Error(err)
					return
				}
				if j%2 == 0 {
					a.Free(ptr)
					continue
				}
				kept[i] = append(kept[i], ptr)
			}
		}(i)
	}

	wg.Wait()

	expected := 0
	for i := 0; i < numGoroutines; i++ {
		expected += (10 + i*100) * allocationsPerGoroutine / 2
	}
	require.Equal(t, expected, a.LiveBytes())
	require.NoError(t, h.Verify())

	for i := range kept {
		for _, ptr := range kept[i] {
			a.Free(ptr)
		}
	}
	require.Equal(t, 0, a.LiveBytes())
	require.NoError(t, h.Verify())
}

func TestConcurrentAllocatorConcurrentQueries(t *testing.T) {
	a := NewConcurrentAllocator(NewHeap())

	const numGoroutines = 10
	const operationsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				ptr, err := a.Alloc(12)
				if err != nil {
					t.Error(err)
					return
				}
				if a.LiveBytes() < 12 || a.ReservedBytes() < PageSize {
					t.Error("counters behind an allocation")
				}
				a.Free(ptr)
			}
		}()
	}

	wg.Wait()
	require.Equal(t, 0, a.LiveBytes())
}

func TestConcurrentAllocatorNil(t *testing.T) {
	a := NewConcurrentAllocator(nil)

	ptr, err := a.Alloc(10)
	require.Nil(t, ptr)
	require.ErrorIs(t, err, ErrNoAllocator)

	a.Free(nil)
	a.Reset()
	require.Equal(t, 0, a.LiveBytes())
	require.Equal(t, 0, a.ReservedBytes())
	require.Equal(t, 0, a.PeakBytes())
}

func BenchmarkConcurrentAllocatorParallel(b *testing.B) {
	a := NewConcurrentAllocator(NewHeap())
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ptr, err := a.Alloc(64)
			if err != nil {
				b.Error(err)
				return
			}
			a.Free(ptr)
		}
	})
}
