// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"unsafe"
)

// An allocated block starts with a 4-byte header holding the size the caller
// asked for, not the block size. The payload follows immediately.

func writeHeader(block uintptr, n int) {
	*(*uint32)(unsafe.Pointer(block)) = uint32(n)
}

func readHeader(block uintptr) int {
	return int(*(*uint32)(unsafe.Pointer(block)))
}

func payloadOf(block uintptr) unsafe.Pointer {
	return unsafe.Pointer(block + HeaderSize)
}

func blockOf(ptr unsafe.Pointer) uintptr {
	return uintptr(ptr) - HeaderSize
}

// SizeOf returns the size that was requested when ptr was allocated.
// ptr must be a live pointer returned by Alloc.
func SizeOf(ptr unsafe.Pointer) int {
	return readHeader(blockOf(ptr))
}
