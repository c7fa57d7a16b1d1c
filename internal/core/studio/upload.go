// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for DecodeConfig
	_ "image/png"  // register decoder for DecodeConfig

	"github.com/gabriel-vasile/mimetype"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/constants"
	"github.com/claycompanion/studio/pkg/slug"
	"github.com/claycompanion/studio/pkg/uuid"
)

// allowedMIMEs maps accepted attachment types to their file extension.
var allowedMIMEs = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// Upload is the raw attachment received with a create request.
type Upload struct {
	FileName string
	Data     []byte
}

// Attachment is an upload that passed inspection and is ready to store.
type Attachment struct {
	ContentType string
	Width       int
	Height      int
	Size        int64
	Data        []byte
}

// InspectUpload validates an upload and extracts its metadata.
//
// A nil upload or empty data is reported as a blank image. Every failure is
// returned as a [apperr.FieldError] on the image field.
func InspectUpload(upload *Upload) (*Attachment, *apperr.FieldError) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, &apperr.FieldError{Field: FieldImage, Message: "can't be blank"}
	}

	size := int64(len(upload.Data))
	if size > constants.MaxUploadBytes {
		return nil, &apperr.FieldError{Field: FieldImage, Message: "must be under 5MB. Please compress and try again."}
	}

	contentType := mimetype.Detect(upload.Data).String()
	if _, ok := allowedMIMEs[contentType]; !ok {
		return nil, &apperr.FieldError{Field: FieldImage, Message: "must be a JPG or PNG image"}
	}

	config, _, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil || config.Width <= 0 || config.Height <= 0 {
		return nil, &apperr.FieldError{Field: FieldImage, Message: "could not be read. Please upload a valid JPG or PNG image."}
	}

	return &Attachment{
		ContentType: contentType,
		Width:       config.Width,
		Height:      config.Height,
		Size:        size,
		Data:        upload.Data,
	}, nil
}

// ObjectKey builds the storage key for an artist's attachment.
//
// Example: artists/0190c8a2-.../studio/0190c8b0-...-wheel-throwing.jpg
func ObjectKey(artistID, fileName, contentType string) string {
	ext, ok := allowedMIMEs[contentType]
	if !ok {
		ext = "bin"
	}
	return fmt.Sprintf("artists/%s/studio/%s-%s.%s", artistID, uuid.New(), slug.FileStem(fileName), ext)
}
