// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"unsafe"
)

const growThreshold = 256

// AllocateBytes returns a byte slice of length n whose storage is a block
// obtained from a, together with the pointer that has to be passed to Free
// to give the block back. If a is nil, the slice is made on the Go heap and
// the returned pointer is nil.
func AllocateBytes(a Allocator, n int) ([]byte, unsafe.Pointer, error) {
	if a == nil {
		return make([]byte, n), nil, nil
	}
	ptr, err := a.Alloc(n)
	if err != nil {
		return nil, nil, err
	}
	return unsafe.Slice((*byte)(ptr), n), ptr, nil
}

// FreeBytes releases storage obtained from AllocateBytes. A nil ptr is ignored.
func FreeBytes(a Allocator, ptr unsafe.Pointer) {
	if a == nil || ptr == nil {
		return
	}
	a.Free(ptr)
}

// growCap returns the capacity a slice of capacity oldCap should grow to in
// order to hold newLen elements. Small slices double, larger ones grow by a
// quarter. The result never exceeds MaxRequest unless newLen does.
func growCap(oldCap, newLen int) int {
	newCap := oldCap
	if newCap == 0 {
		newCap = newLen
	}
	for newLen > newCap {
		if newCap < growThreshold {
			newCap *= 2
		} else {
			newCap += newCap / 4
		}
	}
	if newCap > MaxRequest && newLen <= MaxRequest {
		newCap = MaxRequest
	}
	return newCap
}
