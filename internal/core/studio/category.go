// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

// Category groups studio images on the public page.
type Category string

const (
	CategoryStudio  Category = "studio"
	CategoryProcess Category = "process"
	CategoryOther   Category = "other"
)

// DefaultCategory is used when an upload names no category.
const DefaultCategory = CategoryOther

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryStudio, CategoryProcess, CategoryOther}
}

// ParseCategory converts user input into a Category. Matching is exact.
func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryStudio:
		return CategoryStudio, true
	case CategoryProcess:
		return CategoryProcess, true
	case CategoryOther:
		return CategoryOther, true
	}
	return "", false
}

func (c Category) String() string { return string(c) }
