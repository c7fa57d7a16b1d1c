// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the UUIDv7 identifiers used as primary keys.
//
// Version 7 values sort by creation time, which keeps B-tree inserts on the
// studioimage primary key append-only.
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string. It panics only if the system entropy
// source fails, which leaves nothing sensible to do.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsValid reports whether s is a canonical 36-character UUID of any version.
// Path and payload ids are checked with it before they reach a uuid column,
// where a malformed value would fail the query with a cast error.
func IsValid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
