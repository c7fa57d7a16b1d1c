// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/database/schema"
	"github.com/claycompanion/studio/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	imageTable  = schema.PortfolioStudioImage
	artistTable = schema.PortfolioArtist

	imageColumns = strings.Join(imageTable.Columns(), ", ")
)

// scanImage reads one row selected with imageColumns.
func scanImage(row pgx.Row) (*Image, error) {
	image := &Image{}
	var category string
	err := row.Scan(
		&image.ID, &image.ArtistID, &image.ImageKey, &image.ContentType,
		&image.Caption, &image.AltText, &category,
		&image.Width, &image.Height, &image.FileSize, &image.DisplayOrder,
		&image.CreatedAt, &image.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	image.Category = Category(category)
	return image, nil
}

/*
ListImages returns an artist's images in canonical order.

Parameters:
  - context: context.Context
  - artistID: string (UUID)
  - category: *Category (optional filter)

Returns:
  - []*Image: Ordered images, never nil
  - error: Storage failures
*/
func (repository *PostgresRepository) ListImages(context context.Context, artistID string, category *Category) ([]*Image, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, imageColumns, imageTable.Table, imageTable.ArtistID)
	args := []any{artistID}

	if category != nil {
		query += fmt.Sprintf(` AND %s = $2`, imageTable.Category)
		args = append(args, string(*category))
	}

	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC, %s ASC`, imageTable.DisplayOrder, imageTable.CreatedAt, imageTable.ID)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	defer rows.Close()

	images := make([]*Image, 0)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceImage)
		}
		images = append(images, image)
	}

	return images, dberr.Wrap(rows.Err(), resourceImage)
}

func (repository *PostgresRepository) GetImage(context context.Context, id string) (*Image, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, imageColumns, imageTable.Table, imageTable.ID)

	image, err := scanImage(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	return image, nil
}

/*
CreateImage inserts a new image at the end of the artist's ordering.

Description: The artist row is locked first so that concurrent uploads for one
artist read distinct maxima and never share a position by accident.

Parameters:
  - context: context.Context
  - image: *Image (ID, ArtistID and attachment fields set by the caller)

Returns:
  - error: NotFound for an unknown artist, or storage failures
*/
func (repository *PostgresRepository) CreateImage(context context.Context, image *Image) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, resourceImage)
	}
	defer transaction.Rollback(context)

	// Step 1: Serialize creates per artist
	if err := lockArtist(context, transaction, image.ArtistID, resourceArtist); err != nil {
		return err
	}

	// Step 2: Assign the next position
	maxQuery := fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE %s = $1`, imageTable.DisplayOrder, imageTable.Table, imageTable.ArtistID)
	var maxOrder *int
	if err := transaction.QueryRow(context, maxQuery, image.ArtistID).Scan(&maxOrder); err != nil {
		return dberr.Wrap(err, resourceImage)
	}
	image.DisplayOrder = NextDisplayOrder(maxOrder)

	// Step 3: Insert
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING %s, %s
	`,
		imageTable.Table,
		imageTable.ID, imageTable.ArtistID, imageTable.ImageKey, imageTable.ContentType, imageTable.Caption, imageTable.AltText, imageTable.Category,
		imageTable.Width, imageTable.Height, imageTable.FileSize, imageTable.DisplayOrder, imageTable.CreatedAt, imageTable.UpdatedAt,
		imageTable.CreatedAt, imageTable.UpdatedAt,
	)
	err = transaction.QueryRow(context, insertQuery,
		image.ID, image.ArtistID, image.ImageKey, image.ContentType, image.Caption, image.AltText, string(image.Category),
		image.Width, image.Height, image.FileSize, image.DisplayOrder,
	).Scan(&image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resourceImage)
	}

	// Persist Atomic Changeset
	return dberr.Wrap(transaction.Commit(context), resourceImage)
}

/*
UpdateImage applies a partial update to an owned image.

Description: The row is locked, ownership is checked, and the patched values are
written back. Concurrent reorders of one image are last-write-wins.

Returns:
  - *Image: The updated image
  - error: NotFound if missing or owned by someone else
*/
func (repository *PostgresRepository) UpdateImage(context context.Context, id, ownerID string, patch ImagePatch) (*Image, error) {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	defer transaction.Rollback(context)

	image, err := lockImage(context, transaction, id)
	if err != nil {
		return nil, err
	}
	if !image.OwnedBy(ownerID) {
		return nil, apperr.NotFound(resourceImage)
	}

	if patch.Empty() {
		return image, nil
	}

	image.Apply(patch)

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		imageTable.Table,
		imageTable.Caption, imageTable.AltText, imageTable.Category, imageTable.DisplayOrder, imageTable.UpdatedAt,
		imageTable.ID,
		imageTable.UpdatedAt,
	)
	err = transaction.QueryRow(context, updateQuery,
		image.ID, image.Caption, image.AltText, string(image.Category), image.DisplayOrder,
	).Scan(&image.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	return image, nil
}

/*
DeleteImage removes an owned image and clears the owner's hero pointer if it
referenced the image, in one transaction.

Description: The owner's artist row is locked before the image row, the same
order CreateImage and UpdateStudioPage take, so a delete racing a hero
selection queues instead of deadlocking.

Returns:
  - *DeletedImage: The removed row and whether the hero was cleared
  - error: NotFound if missing or not owned, PersistenceFailure if the delete did not happen
*/
func (repository *PostgresRepository) DeleteImage(context context.Context, id, ownerID string) (*DeletedImage, error) {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	defer transaction.Rollback(context)

	if err := lockArtist(context, transaction, ownerID, resourceImage); err != nil {
		return nil, err
	}

	image, err := lockImage(context, transaction, id)
	if err != nil {
		return nil, err
	}
	if !image.OwnedBy(ownerID) {
		return nil, apperr.NotFound(resourceImage)
	}

	// Step 1: Clear the hero pointer if it names this image
	clearQuery := fmt.Sprintf(`
		UPDATE %s SET %s = NULL, %s = NOW()
		WHERE %s = $1 AND %s = $2
	`, artistTable.Table, artistTable.StudioHeroImageID, artistTable.UpdatedAt, artistTable.ID, artistTable.StudioHeroImageID)
	cleared, err := transaction.Exec(context, clearQuery, image.ArtistID, image.ID)
	if err != nil {
		return nil, apperr.PersistenceFailure(MsgDeleteFailed, err)
	}

	// Step 2: Remove the row
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, imageTable.Table, imageTable.ID)
	removed, err := transaction.Exec(context, deleteQuery, image.ID)
	if err != nil {
		return nil, apperr.PersistenceFailure(MsgDeleteFailed, err)
	}
	if removed.RowsAffected() != 1 {
		return nil, apperr.PersistenceFailure(MsgDeleteFailed, fmt.Errorf("studio: deleted %d rows for %s", removed.RowsAffected(), image.ID))
	}

	if err := transaction.Commit(context); err != nil {
		return nil, apperr.PersistenceFailure(MsgDeleteFailed, err)
	}

	return &DeletedImage{Image: image, HeroCleared: cleared.RowsAffected() > 0}, nil
}

/*
UpdateStudioPage writes the intro text and hero pointer.

Description: The artist row is locked and a hero candidate is re-read with
FOR SHARE inside the same transaction. DeleteImage takes the artist lock
first as well, so a concurrent delete of the candidate either completes
first (and the selection fails) or waits for this commit (and then clears
the pointer itself).

Returns:
  - *Page: The stored page
  - error: NotFound for an unknown artist, ValidationFailed for a hero not owned by the artist
*/
func (repository *PostgresRepository) UpdateStudioPage(context context.Context, artistID string, update PageUpdate) (*Page, error) {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, resourceArtist)
	}
	defer transaction.Rollback(context)

	// Step 1: Lock the artist
	pageQuery := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		artistTable.StudioIntroText, artistTable.StudioHeroImageID, artistTable.Table, artistTable.ID)
	page := &Page{ArtistID: artistID}
	if err := transaction.QueryRow(context, pageQuery, artistID).Scan(&page.IntroText, &page.HeroImageID); err != nil {
		return nil, dberr.Wrap(err, resourceArtist)
	}

	// Step 2: Re-validate the hero candidate under lock
	if update.Hero.Action == HeroSelect {
		ownerQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR SHARE`, imageTable.ArtistID, imageTable.Table, imageTable.ID)
		var ownerID *string
		var owner string
		err := transaction.QueryRow(context, ownerQuery, update.Hero.ImageID).Scan(&owner)
		switch {
		case err == nil:
			ownerID = &owner
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return nil, dberr.Wrap(err, resourceImage)
		}

		if err := CheckHeroOwnership(artistID, ownerID); err != nil {
			return nil, err
		}
	}

	// Step 3: Write
	page.Apply(update)

	updateQuery := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
	`, artistTable.Table, artistTable.StudioIntroText, artistTable.StudioHeroImageID, artistTable.UpdatedAt, artistTable.ID)
	if _, err := transaction.Exec(context, updateQuery, artistID, page.IntroText, page.HeroImageID); err != nil {
		return nil, dberr.Wrap(err, resourceArtist)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, resourceArtist)
	}
	return page, nil
}

// lockArtist takes the artist row lock. A missing artist is NotFound(resource).
func lockArtist(context context.Context, transaction pgx.Tx, artistID, resource string) error {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, artistTable.ID, artistTable.Table, artistTable.ID)
	var lockedID string
	if err := transaction.QueryRow(context, query, artistID).Scan(&lockedID); err != nil {
		return dberr.Wrap(err, resource)
	}
	return nil
}

// lockImage selects an image row FOR UPDATE.
func lockImage(context context.Context, transaction pgx.Tx, id string) (*Image, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, imageColumns, imageTable.Table, imageTable.ID)

	image, err := scanImage(transaction.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	return image, nil
}
