// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"log/slog"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetArtist returns the artist or a NotFound error. Malformed ids never reach the database.
func (service *Service) GetArtist(context context.Context, id string) (*Artist, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Artist")
	}
	return service.repo.GetArtist(context, id)
}
