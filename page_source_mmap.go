// SPDX-License-Identifier: Apache-2.0

//go:build linux || darwin || freebsd || netbsd || openbsd

package slab

import (
	"golang.org/x/sys/unix"
)

// NewMmapPageSource returns a PageSource backed by anonymous private mappings.
// Mappings are never unmapped.
func NewMmapPageSource(opts ...RegionOption) PageSource {
	return newRegionSource(mmapRegion, opts...)
}

func mmapRegion(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func defaultPageSource() PageSource {
	return NewMmapPageSource()
}
