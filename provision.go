// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"fmt"
	"log/slog"
)

// provision obtains one page from the source and links all of its blocks
// into the free list of class. Nothing is changed if the page can't be had.
func (h *Heap) provision(class int) error {
	h.init()

	if h.maxReserved > 0 && h.reserved+PageSize > h.maxReserved {
		h.logger.Warn("reservation limit reached",
			slog.Int("class", class),
			slog.Int("reserved", h.reserved),
			slog.Int("limit", h.maxReserved))
		return fmt.Errorf("%w: reservation limit of %d bytes reached", ErrOutOfMemory, h.maxReserved)
	}

	ptr, err := h.source.RequestPage(PageSize)
	if err != nil {
		h.logger.Warn("page request failed",
			slog.Int("class", class),
			slog.Int("reserved", h.reserved),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if ptr == nil {
		return fmt.Errorf("%w: page source returned nil", ErrOutOfMemory)
	}
	base := uintptr(ptr)
	if base%PageSize != 0 {
		return fmt.Errorf("slab: page source returned unaligned page %#x", base)
	}

	h.reserved += PageSize
	h.pageIndex[base] = len(h.pages)
	h.pages = append(h.pages, page{base: base, class: class})
	h.buckets[class].pages++
	h.buckets.carve(class, base)

	h.logger.Debug("provisioned page",
		slog.Int("class", class),
		slog.Int("block_size", BlockSize(class)),
		slog.Int("blocks", BlocksPerPage(class)),
		slog.Int("reserved", h.reserved))
	return nil
}
