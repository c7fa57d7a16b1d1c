// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer converts between values and the nullable pointers used for
// optional columns and optional JSON fields.
package pointer

// To returns the address of a copy of v.
func To[T any](v T) *T { return &v }

// Val dereferences p, or returns the zero value of T when p is nil.
func Val[T any](p *T) (v T) {
	if p != nil {
		v = *p
	}
	return v
}
