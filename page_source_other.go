// SPDX-License-Identifier: Apache-2.0

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package slab

func defaultPageSource() PageSource {
	return NewHeapPageSource()
}
