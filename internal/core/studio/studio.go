// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package studio manages an artist's studio images and the studio page composite.

Rules owned by this package:

  - Canonical ordering: display_order ascending, then created_at, then id.
  - New images are appended after the current maximum display_order.
  - The hero pointer on the artist always names one of the artist's own images,
    or nothing. Deleting the hero image clears the pointer in the same transaction.
  - Category is a closed set parsed at the boundary; unknown values never reach the store.
*/
package studio

import (
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/claycompanion/studio/pkg/pointer"
)

// # Limits

const (
	MaxCaptionLength   = 150
	MaxAltTextLength   = 500
	MaxIntroTextLength = 600
)

// # Field Names

const (
	FieldImage        = "image"
	FieldCaption      = "caption"
	FieldAltText      = "alt_text"
	FieldCategory     = "category"
	FieldDisplayOrder = "display_order"
	FieldIntroText    = "studio_intro_text"
	FieldHeroImage    = "hero_image"
)

// # Messages

const (
	MsgImageUploaded = "Image uploaded successfully"
	MsgImageUpdated  = "Image updated successfully"
	MsgImageDeleted  = "Image deleted successfully"
	MsgDeleteFailed  = "Unable to delete image"
	MsgPageUpdated   = "Studio page updated successfully"
	MsgHeroNotOwned  = "does not belong to this artist"

	// PageTitle is the fixed heading of the studio page.
	PageTitle = "Studio & Process"
)

const (
	resourceArtist = "Artist"
	resourceImage  = "Studio image"
)

// Image is one studio photo owned by exactly one artist.
type Image struct {
	ID       string
	ArtistID string

	// ImageKey is the storage key of the attachment; nil when nothing is attached.
	ImageKey    *string
	ContentType *string

	Caption  *string
	AltText  *string
	Category Category

	Width    *int
	Height   *int
	FileSize *int64

	DisplayOrder int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attached reports whether the image has a stored attachment.
func (i *Image) Attached() bool {
	return i.ImageKey != nil && *i.ImageKey != ""
}

// OwnedBy reports whether artistID owns the image.
func (i *Image) OwnedBy(artistID string) bool {
	return i.ArtistID == artistID
}

// ImagePatch is a validated partial update. Nil fields are left unchanged.
//
// An empty Caption or AltText clears the column.
type ImagePatch struct {
	Caption      *string
	AltText      *string
	Category     *Category
	DisplayOrder *int
}

// Empty reports whether the patch changes nothing.
func (p ImagePatch) Empty() bool {
	return p.Caption == nil && p.AltText == nil && p.Category == nil && p.DisplayOrder == nil
}

// PageUpdate is a validated studio page change.
type PageUpdate struct {
	// IntroText replaces the intro when non-nil. An empty string clears it.
	IntroText *string
	Hero      HeroSelection
}

// Apply copies the set fields of patch onto the image.
func (i *Image) Apply(patch ImagePatch) {
	if patch.Caption != nil {
		i.Caption = blankToNil(*patch.Caption)
	}
	if patch.AltText != nil {
		i.AltText = blankToNil(*patch.AltText)
	}
	if patch.Category != nil {
		i.Category = *patch.Category
	}
	if patch.DisplayOrder != nil {
		i.DisplayOrder = *patch.DisplayOrder
	}
}

// Apply copies the update onto the page. Hero ownership must already be checked.
func (p *Page) Apply(update PageUpdate) {
	if update.IntroText != nil {
		p.IntroText = blankToNil(*update.IntroText)
	}
	switch update.Hero.Action {
	case HeroClear:
		p.HeroImageID = nil
	case HeroSelect:
		p.HeroImageID = pointer.To(update.Hero.ImageID)
	}
}

// blankToNil stores text in NFC, the form MaxLen measures.
func blankToNil(value string) *string {
	if value == "" {
		return nil
	}
	return pointer.To(norm.NFC.String(value))
}
