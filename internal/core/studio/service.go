// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/claycompanion/studio/internal/core/artist"
	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/metrics"
	"github.com/claycompanion/studio/internal/platform/storage"
	"github.com/claycompanion/studio/internal/platform/validate"
	"github.com/claycompanion/studio/pkg/pointer"
	"github.com/claycompanion/studio/pkg/slice"
	"github.com/claycompanion/studio/pkg/uuid"
)

// ArtistFinder resolves the artist named in a request path.
type ArtistFinder interface {
	GetArtist(context context.Context, id string) (*artist.Artist, error)
}

// Service applies the ordering, hero and ownership rules on top of the repository.
type Service struct {
	repo    Repository
	artists ArtistFinder
	storage storage.Storage
	logger  *slog.Logger
}

func NewService(repo Repository, artists ArtistFinder, store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		artists: artists,
		storage: store,
		logger:  logger,
	}
}

// ResolvedImage is an image together with its client-reachable URL.
type ResolvedImage struct {
	*Image
	URL *string
}

// PageView is the public studio page composite.
type PageView struct {
	IntroText          *string
	BackgroundImageURL *string
	Title              string
}

// CreateInput is the raw create request after multipart decoding.
type CreateInput struct {
	Upload   *Upload
	Caption  string
	AltText  string
	Category string
}

// UpdateInput is the raw update request. Nil fields are not being changed.
type UpdateInput struct {
	Caption      *string
	AltText      *string
	Category     *string
	DisplayOrder *int
}

// PageInput is a studio page update with both accepted field names already merged.
type PageInput struct {
	IntroText *string
	Hero      HeroSelection
}

// # Reads

/*
ListImages returns an artist's images in canonical order.

Parameters:
  - context: context.Context
  - artistID: string (UUID from the path)
  - rawCategory: string (optional filter, empty for all)

Returns:
  - []ResolvedImage: Ordered images with URLs
  - error: NotFound for an unknown artist, ValidationFailed for an unknown category
*/
func (service *Service) ListImages(context context.Context, artistID, rawCategory string) ([]ResolvedImage, error) {
	if _, err := service.artists.GetArtist(context, artistID); err != nil {
		return nil, err
	}

	var filter *Category
	if rawCategory != "" {
		category, ok := ParseCategory(rawCategory)
		if !ok {
			return nil, validate.FieldErr(FieldCategory, "is not a valid category")
		}
		filter = &category
	}

	images, err := service.repo.ListImages(context, artistID, filter)
	if err != nil {
		return nil, err
	}
	SortImages(images)

	return slice.Map(images, func(image *Image) ResolvedImage {
		return service.resolve(context, image)
	}), nil
}

// GetImage returns one image. The image is looked up by id alone; the path
// artist only has to exist.
func (service *Service) GetImage(context context.Context, artistID, imageID string) (ResolvedImage, error) {
	if _, err := service.artists.GetArtist(context, artistID); err != nil {
		return ResolvedImage{}, err
	}
	if !uuid.IsValid(imageID) {
		return ResolvedImage{}, apperr.NotFound(resourceImage)
	}

	image, err := service.repo.GetImage(context, imageID)
	if err != nil {
		return ResolvedImage{}, err
	}
	return service.resolve(context, image), nil
}

// GetStudioPage returns the intro text and resolved hero URL.
func (service *Service) GetStudioPage(context context.Context, artistID string) (*PageView, error) {
	found, err := service.artists.GetArtist(context, artistID)
	if err != nil {
		return nil, err
	}
	var heroID *string
	if found.HasHero() {
		heroID = found.StudioHeroImageID
	}
	return service.pageView(context, found.StudioIntroText, heroID)
}

// # Writes

/*
CreateImage validates and stores an upload, then appends the image to the
artist's ordering.

Parameters:
  - context: context.Context
  - callerID: string (authenticated artist)
  - artistID: string (artist from the path)
  - input: CreateInput

Returns:
  - ResolvedImage: The created image
  - error: NotFound on ownership mismatch, ValidationFailed listing every problem
*/
func (service *Service) CreateImage(context context.Context, callerID, artistID string, input CreateInput) (ResolvedImage, error) {
	if err := authorizeArtist(callerID, artistID); err != nil {
		return ResolvedImage{}, err
	}

	// 1. Validate every field before touching storage
	validator := &validate.Validator{}

	category := DefaultCategory
	if input.Category != "" {
		if parsed, ok := ParseCategory(input.Category); ok {
			category = parsed
		} else {
			validator.OneOf(FieldCategory, input.Category, categoryNames()...)
		}
	}

	validator.
		ValidUTF8(FieldCaption, input.Caption).
		MaxLen(FieldCaption, input.Caption, MaxCaptionLength).
		ValidUTF8(FieldAltText, input.AltText).
		MaxLen(FieldAltText, input.AltText, MaxAltTextLength)

	attachment, uploadErr := InspectUpload(input.Upload)
	if uploadErr != nil {
		validator.Custom(uploadErr.Field, true, uploadErr.Message)
	}

	if err := validator.Err(); err != nil {
		metrics.RecordUpload(uploadContentType(attachment), metrics.StatusRejected, 0)
		return ResolvedImage{}, err
	}

	// 2. Store the attachment
	key := ObjectKey(artistID, input.Upload.FileName, attachment.ContentType)
	if err := service.storage.Put(context, key, bytes.NewReader(attachment.Data), attachment.Size, attachment.ContentType); err != nil {
		metrics.RecordUpload(attachment.ContentType, metrics.StatusError, 0)
		return ResolvedImage{}, apperr.Internal(err)
	}

	// 3. Persist the record
	image := &Image{
		ID:          uuid.New(),
		ArtistID:    artistID,
		ImageKey:    &key,
		ContentType: &attachment.ContentType,
		Caption:     blankToNil(input.Caption),
		AltText:     blankToNil(input.AltText),
		Category:    category,
		Width:       &attachment.Width,
		Height:      &attachment.Height,
		FileSize:    &attachment.Size,
	}

	if err := service.repo.CreateImage(context, image); err != nil {
		service.purge(context, key)
		metrics.RecordUpload(attachment.ContentType, metrics.StatusError, 0)
		return ResolvedImage{}, err
	}

	metrics.RecordUpload(attachment.ContentType, metrics.StatusSuccess, attachment.Size)
	service.logger.Info("studio_image_created",
		slog.String("artist_id", artistID),
		slog.String("image_id", image.ID),
		slog.Int("display_order", image.DisplayOrder),
		slog.String("category", image.Category.String()),
	)

	return service.resolve(context, image), nil
}

/*
UpdateImage changes caption, alt text, category or display order of an owned image.

Returns:
  - ResolvedImage: The updated image
  - error: NotFound on ownership mismatch, ValidationFailed for bad fields
*/
func (service *Service) UpdateImage(context context.Context, callerID, artistID, imageID string, input UpdateInput) (ResolvedImage, error) {
	if err := authorizeArtist(callerID, artistID); err != nil {
		return ResolvedImage{}, err
	}
	if !uuid.IsValid(imageID) {
		return ResolvedImage{}, apperr.NotFound(resourceImage)
	}

	patch, err := buildPatch(input)
	if err != nil {
		return ResolvedImage{}, err
	}

	image, err := service.repo.UpdateImage(context, imageID, callerID, patch)
	if err != nil {
		return ResolvedImage{}, err
	}

	service.logger.Info("studio_image_updated",
		slog.String("artist_id", artistID),
		slog.String("image_id", image.ID),
		slog.Int("display_order", image.DisplayOrder),
	)

	return service.resolve(context, image), nil
}

/*
DeleteImage removes an owned image. If it was the hero, the hero pointer is
cleared in the same transaction. The attachment is purged afterwards; a purge
failure is logged and does not fail the request.
*/
func (service *Service) DeleteImage(context context.Context, callerID, artistID, imageID string) error {
	if err := authorizeArtist(callerID, artistID); err != nil {
		return err
	}
	if !uuid.IsValid(imageID) {
		return apperr.NotFound(resourceImage)
	}

	deleted, err := service.repo.DeleteImage(context, imageID, callerID)
	if err != nil {
		return err
	}

	if deleted.HeroCleared {
		metrics.RecordHeroChange("cleared")
		service.logger.Info("studio_hero_cleared",
			slog.String("artist_id", artistID),
			slog.String("image_id", imageID),
			slog.String("reason", "image_deleted"),
		)
	}

	if deleted.Image.Attached() {
		service.purge(context, pointer.Val(deleted.Image.ImageKey))
	}

	service.logger.Warn("studio_image_deleted",
		slog.String("artist_id", artistID),
		slog.String("image_id", imageID),
	)
	return nil
}

/*
UpdateStudioPage changes the intro text and hero selection.

Returns:
  - *PageView: The page after the update
  - error: NotFound on ownership mismatch, ValidationFailed for a long intro or a foreign hero
*/
func (service *Service) UpdateStudioPage(context context.Context, callerID, artistID string, input PageInput) (*PageView, error) {
	if err := authorizeArtist(callerID, artistID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.IntroText != nil {
		validator.
			ValidUTF8(FieldIntroText, *input.IntroText).
			MaxLen(FieldIntroText, *input.IntroText, MaxIntroTextLength)
	}
	validator.Merge(input.Hero.Validate())

	if err := validator.Err(); err != nil {
		return nil, err
	}

	page, err := service.repo.UpdateStudioPage(context, artistID, PageUpdate{
		IntroText: input.IntroText,
		Hero:      input.Hero,
	})
	if err != nil {
		return nil, err
	}

	switch input.Hero.Action {
	case HeroSelect:
		metrics.RecordHeroChange("selected")
		service.logger.Info("studio_hero_selected", slog.String("artist_id", artistID), slog.String("image_id", input.Hero.ImageID))
	case HeroClear:
		metrics.RecordHeroChange("cleared")
		service.logger.Info("studio_hero_cleared", slog.String("artist_id", artistID), slog.String("reason", "requested"))
	}

	return service.pageView(context, page.IntroText, page.HeroImageID)
}

// # Helpers

// authorizeArtist enforces that the caller is the path artist. A mismatch is
// reported as NotFound so that foreign artist ids are not confirmed.
func authorizeArtist(callerID, artistID string) error {
	if callerID == "" {
		return apperr.Unauthorized("Unauthorized")
	}
	if callerID != artistID {
		return apperr.NotFound(resourceArtist)
	}
	return nil
}

// buildPatch validates raw update fields. Category is parsed here so that an
// unknown value never reaches the store.
func buildPatch(input UpdateInput) (ImagePatch, error) {
	validator := &validate.Validator{}
	patch := ImagePatch{
		Caption:      input.Caption,
		AltText:      input.AltText,
		DisplayOrder: input.DisplayOrder,
	}

	if input.Category != nil {
		if *input.Category == "" {
			validator.Required(FieldCategory, "")
		} else if category, ok := ParseCategory(*input.Category); ok {
			patch.Category = &category
		} else {
			validator.OneOf(FieldCategory, *input.Category, categoryNames()...)
		}
	}
	if input.Caption != nil {
		validator.ValidUTF8(FieldCaption, *input.Caption).MaxLen(FieldCaption, *input.Caption, MaxCaptionLength)
	}
	if input.AltText != nil {
		validator.ValidUTF8(FieldAltText, *input.AltText).MaxLen(FieldAltText, *input.AltText, MaxAltTextLength)
	}

	return patch, validator.Err()
}

func (service *Service) pageView(context context.Context, introText, heroImageID *string) (*PageView, error) {
	view := &PageView{IntroText: introText, Title: PageTitle}
	if heroImageID == nil {
		return view, nil
	}

	hero, err := service.repo.GetImage(context, *heroImageID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return view, nil
		}
		return nil, err
	}

	view.BackgroundImageURL = service.resolve(context, hero).URL
	return view, nil
}

// resolve attaches a URL to the image. Storage errors degrade to a null URL.
func (service *Service) resolve(context context.Context, image *Image) ResolvedImage {
	resolved := ResolvedImage{Image: image}
	if !image.Attached() {
		return resolved
	}

	url, err := service.storage.URL(context, pointer.Val(image.ImageKey))
	if err != nil {
		service.logger.Warn("studio_image_url_unresolved",
			slog.String("image_id", image.ID),
			slog.String("error", err.Error()),
		)
		return resolved
	}
	resolved.URL = &url
	return resolved
}

// purge deletes an attachment, logging instead of failing.
func (service *Service) purge(context context.Context, key string) {
	if err := service.storage.Delete(context, key); err != nil {
		service.logger.Warn("studio_attachment_purge_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func categoryNames() []string {
	return slice.Map(Categories(), Category.String)
}

func uploadContentType(attachment *Attachment) string {
	if attachment == nil {
		return "unknown"
	}
	return attachment.ContentType
}
