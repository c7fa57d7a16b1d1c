// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"cmp"
	"slices"
)

// FirstDisplayOrder is the position given to an artist's first image.
const FirstDisplayOrder = 0

// NextDisplayOrder returns the position for a new image given the current
// maximum of the artist's images. max is nil when the artist has none.
func NextDisplayOrder(max *int) int {
	if max == nil {
		return FirstDisplayOrder
	}
	return *max + 1
}

// Compare orders two images canonically: display_order, then created_at, then id.
// Duplicate and gapped display_order values are allowed and still sort deterministically.
func Compare(a, b *Image) int {
	if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortImages sorts images in place into canonical order.
func SortImages(images []*Image) {
	slices.SortStableFunc(images, Compare)
}
