// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/pkg/uuid"
)

// HeroAction is the requested change to an artist's hero pointer.
type HeroAction int

const (
	// HeroKeep leaves the pointer untouched.
	HeroKeep HeroAction = iota
	// HeroClear sets the pointer to null.
	HeroClear
	// HeroSelect points the hero at an image id.
	HeroSelect
)

// HeroSelection is the normalized hero input of a studio page update.
type HeroSelection struct {
	Action  HeroAction
	ImageID string
}

// KeepHero leaves the current hero in place.
func KeepHero() HeroSelection { return HeroSelection{Action: HeroKeep} }

// ClearHero removes the hero.
func ClearHero() HeroSelection { return HeroSelection{Action: HeroClear} }

// SelectHero points the hero at imageID.
func SelectHero(imageID string) HeroSelection {
	return HeroSelection{Action: HeroSelect, ImageID: imageID}
}

// ErrHeroNotOwned is the validation failure for a hero candidate that is
// missing or owned by someone else.
func ErrHeroNotOwned() *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   FieldHeroImage,
		Message: MsgHeroNotOwned,
	})
}

// CheckHeroOwnership validates a hero candidate.
//
// ownerID is the owning artist of the candidate image, or nil when the image
// does not exist. Stores call this inside the transaction that writes the pointer.
func CheckHeroOwnership(artistID string, ownerID *string) error {
	if ownerID == nil || *ownerID != artistID {
		return ErrHeroNotOwned()
	}
	return nil
}

// Validate rejects selections that can never succeed, such as a malformed id,
// before any transaction is opened.
func (h HeroSelection) Validate() error {
	if h.Action == HeroSelect && !uuid.IsValid(h.ImageID) {
		return ErrHeroNotOwned()
	}
	return nil
}
