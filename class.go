// SPDX-License-Identifier: Apache-2.0

package slab

const (
	// HeaderSize is the number of bytes in front of every payload that record
	// the size originally requested by the caller.
	HeaderSize = 4

	// MinBlockSize is the block size of the smallest class.
	MinBlockSize = 16

	// PageSize is the unit in which memory is obtained from a PageSource.
	PageSize = 4096

	// MaxBlockSize is the block size of the largest class.
	MaxBlockSize = PageSize

	// NumClasses is the number of power-of-two classes between MinBlockSize
	// and MaxBlockSize inclusive.
	NumClasses = 9

	// MaxRequest is the largest payload size Alloc accepts.
	MaxRequest = MaxBlockSize - HeaderSize
)

// ClassOf returns the index of the smallest class whose blocks can hold n
// payload bytes plus the header. The same function runs on the allocation
// path and on the release path, so a block always returns to the class it
// was taken from.
func ClassOf(n int) (int, error) {
	if n < 0 {
		return 0, ErrInvalidSize
	}
	if n > MaxRequest {
		return 0, ErrOversizeRequest
	}
	effective := n + HeaderSize
	class := 0
	for size := MinBlockSize; size < effective; size <<= 1 {
		class++
	}
	return class, nil
}

// BlockSize returns the size in bytes of blocks in the given class.
func BlockSize(class int) int {
	return MinBlockSize << class
}

// BlocksPerPage returns how many blocks of the given class one page yields.
// Leftover bytes are not tracked; with power-of-two classes there are none.
func BlocksPerPage(class int) int {
	return PageSize / BlockSize(class)
}
