// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claycompanion/studio/internal/platform/database/schema"
	"github.com/claycompanion/studio/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) GetArtist(context context.Context, id string) (*Artist, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.PortfolioArtist.ID, schema.PortfolioArtist.FullName, schema.PortfolioArtist.StudioIntroText,
		schema.PortfolioArtist.StudioHeroImageID, schema.PortfolioArtist.CreatedAt, schema.PortfolioArtist.UpdatedAt,
		schema.PortfolioArtist.Table, schema.PortfolioArtist.ID,
	)

	a := &Artist{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&a.ID, &a.FullName, &a.StudioIntroText, &a.StudioHeroImageID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Artist")
	}
	return a, nil
}
