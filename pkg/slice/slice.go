// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds the generic helpers the standard [slices] package lacks.
package slice

// Map applies transform to every element.
//
// The result is never nil, so an empty list encodes as [] in JSON.
func Map[T, U any](input []T, transform func(T) U) []U {
	result := make([]U, 0, len(input))
	for _, item := range input {
		result = append(result, transform(item))
	}
	return result
}

// Filter returns the elements for which keep reports true, in order.
// The input is not modified. A nil input yields nil.
func Filter[T any](input []T, keep func(T) bool) []T {
	if input == nil {
		return nil
	}

	result := make([]T, 0, len(input)/2)
	for _, item := range input {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result
}
