// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns arbitrary Unicode text into lowercase ASCII slugs.
//
// Slugs form the readable part of object-storage keys for uploaded studio
// photos, e.g. "artists/<id>/studio/<uuid>-atelier-morning-light.jpg".
package slug

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxStemLength bounds the slug part of an object key.
const maxStemLength = 60

// From folds s to ASCII: accents are stripped ("Émaillée" → "emaillee"), runs
// of anything outside [a-z0-9] become a single hyphen, and edge hyphens are trimmed.
func From(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// FileStem slugifies a client file name without its directory or extension.
// The stem is capped at 60 bytes and falls back to "image" when nothing survives.
func FileStem(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	stem := From(strings.TrimSuffix(base, path.Ext(base)))

	if len(stem) > maxStemLength {
		stem = strings.TrimRight(stem[:maxStemLength], "-")
	}
	if stem == "" {
		return "image"
	}
	return stem
}
