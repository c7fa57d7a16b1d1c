// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package artist exposes the read side of artist profiles needed by the studio.
//
// Profile editing lives in the portfolio service; here an artist is looked up
// by id to resolve the path artist and to read the studio page fields.
package artist

import "time"

// Artist is the owner of a studio page.
type Artist struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`

	// StudioIntroText is the free text shown on the studio page.
	StudioIntroText *string `json:"studio_intro_text"`

	// StudioHeroImageID points at one of the artist's own studio images, or nil.
	StudioHeroImageID *string `json:"studio_hero_image_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasHero reports whether a hero image is selected.
func (a *Artist) HasHero() bool {
	return a.StudioHeroImageID != nil && *a.StudioHeroImageID != ""
}
