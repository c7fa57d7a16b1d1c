// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"time"

	"github.com/claycompanion/studio/pkg/slice"
)

// imageJSON is the public representation of one image.
type imageJSON struct {
	ID           string    `json:"id"`
	Caption      *string   `json:"caption"`
	Category     Category  `json:"category"`
	DisplayOrder int       `json:"display_order"`
	ImageURL     *string   `json:"image_url"`
	AltText      *string   `json:"alt_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type listJSON struct {
	Images []imageJSON `json:"images"`
	Total  int         `json:"total"`
}

// mutationJSON answers create and update.
type mutationJSON struct {
	ID           string   `json:"id"`
	Caption      *string  `json:"caption"`
	Category     Category `json:"category"`
	DisplayOrder int      `json:"display_order"`
	ImageURL     *string  `json:"image_url"`
	Message      string   `json:"message"`
}

type messageJSON struct {
	Message string `json:"message"`
}

type heroJSON struct {
	IntroText          *string `json:"intro_text"`
	BackgroundImageURL *string `json:"background_image_url"`
	Title              string  `json:"title"`
}

type pageJSON struct {
	Hero heroJSON `json:"hero"`
}

type pageUpdateJSON struct {
	StudioIntroText    *string  `json:"studio_intro_text"`
	BackgroundImageURL *string  `json:"background_image_url"`
	Hero               heroJSON `json:"hero"`
	Message            string   `json:"message"`
}

func newImageJSON(resolved ResolvedImage) imageJSON {
	return imageJSON{
		ID:           resolved.ID,
		Caption:      resolved.Caption,
		Category:     resolved.Category,
		DisplayOrder: resolved.DisplayOrder,
		ImageURL:     resolved.URL,
		AltText:      resolved.AltText,
		CreatedAt:    resolved.CreatedAt,
		UpdatedAt:    resolved.UpdatedAt,
	}
}

func newListJSON(images []ResolvedImage) listJSON {
	return listJSON{
		Images: slice.Map(images, newImageJSON),
		Total:  len(images),
	}
}

func newMutationJSON(resolved ResolvedImage, message string) mutationJSON {
	return mutationJSON{
		ID:           resolved.ID,
		Caption:      resolved.Caption,
		Category:     resolved.Category,
		DisplayOrder: resolved.DisplayOrder,
		ImageURL:     resolved.URL,
		Message:      message,
	}
}

func newHeroJSON(page *PageView) heroJSON {
	return heroJSON{
		IntroText:          page.IntroText,
		BackgroundImageURL: page.BackgroundImageURL,
		Title:              page.Title,
	}
}

func newPageUpdateJSON(page *PageView) pageUpdateJSON {
	return pageUpdateJSON{
		StudioIntroText:    page.IntroText,
		BackgroundImageURL: page.BackgroundImageURL,
		Hero:               newHeroJSON(page),
		Message:            MsgPageUpdated,
	}
}
