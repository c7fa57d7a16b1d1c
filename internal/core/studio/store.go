// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import "context"

// Repository persists studio images and the artist's studio page fields.
//
// Every mutating method runs as one transaction. Ownership mismatches are
// reported as NotFound so they are indistinguishable from missing rows.
type Repository interface {
	// ListImages returns the artist's images in canonical order, optionally
	// restricted to one category.
	ListImages(context context.Context, artistID string, category *Category) ([]*Image, error)

	// GetImage looks an image up by id alone.
	GetImage(context context.Context, id string) (*Image, error)

	// CreateImage inserts image, assigning DisplayOrder from the artist's current maximum.
	CreateImage(context context.Context, image *Image) error

	// UpdateImage applies patch to an image owned by ownerID.
	UpdateImage(context context.Context, id, ownerID string, patch ImagePatch) (*Image, error)

	// DeleteImage removes an image owned by ownerID, clearing the owner's hero
	// pointer if it referenced the image. It returns the deleted row.
	DeleteImage(context context.Context, id, ownerID string) (*DeletedImage, error)

	// UpdateStudioPage writes intro text and hero pointer after re-checking hero
	// ownership under lock.
	UpdateStudioPage(context context.Context, artistID string, update PageUpdate) (*Page, error)
}

// DeletedImage reports what a delete removed.
type DeletedImage struct {
	Image       *Image
	HeroCleared bool
}

// Page is the persisted state behind the studio page.
type Page struct {
	ArtistID    string
	IntroText   *string
	HeroImageID *string
}
