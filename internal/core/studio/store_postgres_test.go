// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycompanion/studio/internal/core/studio"
	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/migration"
	"github.com/claycompanion/studio/internal/platform/postgres"
	"github.com/claycompanion/studio/pkg/pointer"
	"github.com/claycompanion/studio/pkg/uuid"
)

// testDatabaseEnv names a disposable PostgreSQL database. Tests against the
// real repository are skipped when it is unset.
const testDatabaseEnv = "STUDIO_TEST_DATABASE_URL"

func openRepository(t *testing.T) (*studio.PostgresRepository, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(ctx, dsn, "../../../data/migrations", logger))

	pool, err := postgres.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return studio.NewPostgresRepository(pool), pool
}

func insertArtist(t *testing.T, pool *pgxpool.Pool, name string) string {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(), `INSERT INTO portfolio.artist (id, fullname) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
	return id
}

func newRow(artistID string, category studio.Category) *studio.Image {
	id := uuid.New()
	return &studio.Image{
		ID:          id,
		ArtistID:    artistID,
		ImageKey:    pointer.To("artists/" + artistID + "/studio/" + id + ".png"),
		ContentType: pointer.To("image/png"),
		Category:    category,
		Width:       pointer.To(4),
		Height:      pointer.To(3),
		FileSize:    pointer.To(int64(128)),
	}
}

func createRow(t *testing.T, repo *studio.PostgresRepository, artistID string) *studio.Image {
	t.Helper()
	image := newRow(artistID, studio.CategoryStudio)
	require.NoError(t, repo.CreateImage(context.Background(), image))
	return image
}

/*
TestPostgresRepository_CreateImage appends per artist and serializes concurrent inserts.
*/
func TestPostgresRepository_CreateImage(t *testing.T) {
	repo, pool := openRepository(t)
	ctx := context.Background()
	artistID := insertArtist(t, pool, "Mira Okafor")

	first := createRow(t, repo, artistID)
	second := createRow(t, repo, artistID)
	assert.Equal(t, 0, first.DisplayOrder)
	assert.Equal(t, 1, second.DisplayOrder)

	t.Run("unknown_artist", func(t *testing.T) {
		err := repo.CreateImage(ctx, newRow(uuid.New(), studio.CategoryOther))
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("concurrent_inserts", func(t *testing.T) {
		artistID := insertArtist(t, pool, "Ama Mensah")

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, repo.CreateImage(ctx, newRow(artistID, studio.CategoryProcess)))
			}()
		}
		wg.Wait()

		images, err := repo.ListImages(ctx, artistID, nil)
		require.NoError(t, err)
		orders := make([]int, 0, len(images))
		for _, image := range images {
			orders = append(orders, image.DisplayOrder)
		}
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, orders)
	})
}

/*
TestPostgresRepository_ListImages orders in SQL and filters by category.
*/
func TestPostgresRepository_ListImages(t *testing.T) {
	repo, pool := openRepository(t)
	ctx := context.Background()
	artistID := insertArtist(t, pool, "Mira Okafor")

	a := createRow(t, repo, artistID)
	b := createRow(t, repo, artistID)
	c := newRow(artistID, studio.CategoryProcess)
	require.NoError(t, repo.CreateImage(ctx, c))

	_, err := repo.UpdateImage(ctx, a.ID, artistID, studio.ImagePatch{DisplayOrder: pointer.To(9)})
	require.NoError(t, err)

	images, err := repo.ListImages(ctx, artistID, nil)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, []string{images[0].ID, images[1].ID, images[2].ID})

	process := studio.CategoryProcess
	filtered, err := repo.ListImages(ctx, artistID, &process)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, c.ID, filtered[0].ID)
}

/*
TestPostgresRepository_UpdateImage writes a patch only for the owner.
*/
func TestPostgresRepository_UpdateImage(t *testing.T) {
	repo, pool := openRepository(t)
	ctx := context.Background()
	artistID := insertArtist(t, pool, "Mira Okafor")
	other := insertArtist(t, pool, "Jun Ito")
	image := createRow(t, repo, artistID)

	_, err := repo.UpdateImage(ctx, image.ID, other, studio.ImagePatch{Caption: pointer.To("mine now")})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	updated, err := repo.UpdateImage(ctx, image.ID, artistID, studio.ImagePatch{
		Caption:  pointer.To("Trimming feet"),
		Category: pointer.To(studio.CategoryProcess),
	})
	require.NoError(t, err)
	assert.Equal(t, "Trimming feet", pointer.Val(updated.Caption))

	stored, err := repo.GetImage(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trimming feet", pointer.Val(stored.Caption))
	assert.Equal(t, studio.CategoryProcess, stored.Category)
}

/*
TestPostgresRepository_DeleteImage clears the hero pointer with the row.
*/
func TestPostgresRepository_DeleteImage(t *testing.T) {
	repo, pool := openRepository(t)
	ctx := context.Background()
	artistID := insertArtist(t, pool, "Mira Okafor")
	other := insertArtist(t, pool, "Jun Ito")
	hero := createRow(t, repo, artistID)

	_, err := repo.UpdateStudioPage(ctx, artistID, studio.PageUpdate{Hero: studio.SelectHero(hero.ID)})
	require.NoError(t, err)

	_, err = repo.DeleteImage(ctx, hero.ID, other)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	deleted, err := repo.DeleteImage(ctx, hero.ID, artistID)
	require.NoError(t, err)
	assert.True(t, deleted.HeroCleared)

	_, err = repo.GetImage(ctx, hero.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	page, err := repo.UpdateStudioPage(ctx, artistID, studio.PageUpdate{})
	require.NoError(t, err)
	assert.Nil(t, page.HeroImageID)
}

/*
TestPostgresRepository_UpdateStudioPage rejects foreign heroes under lock.
*/
func TestPostgresRepository_UpdateStudioPage(t *testing.T) {
	repo, pool := openRepository(t)
	ctx := context.Background()
	artistID := insertArtist(t, pool, "Mira Okafor")
	other := insertArtist(t, pool, "Jun Ito")
	foreign := createRow(t, repo, other)

	_, err := repo.UpdateStudioPage(ctx, artistID, studio.PageUpdate{Hero: studio.SelectHero(foreign.ID)})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, []string{"Hero image does not belong to this artist"}, ae.Messages())

	_, err = repo.UpdateStudioPage(ctx, uuid.New(), studio.PageUpdate{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	page, err := repo.UpdateStudioPage(ctx, artistID, studio.PageUpdate{IntroText: pointer.To("Stoneware and slip.")})
	require.NoError(t, err)
	assert.Equal(t, "Stoneware and slip.", pointer.Val(page.IntroText))
}

/*
TestPostgresRepository_DeleteRacesHeroSelection runs a delete of an image
against its selection as hero. Either order must succeed without a lock
error, and the artist never ends up pointing at the deleted row.
*/
func TestPostgresRepository_DeleteRacesHeroSelection(t *testing.T) {
	repo, pool := openRepository(t)
	ctx := context.Background()
	artistID := insertArtist(t, pool, "Mira Okafor")

	for round := 0; round < 20; round++ {
		image := createRow(t, repo, artistID)

		var deleteErr, selectErr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, deleteErr = repo.DeleteImage(ctx, image.ID, artistID)
		}()
		go func() {
			defer wg.Done()
			_, selectErr = repo.UpdateStudioPage(ctx, artistID, studio.PageUpdate{Hero: studio.SelectHero(image.ID)})
		}()
		wg.Wait()

		require.NoError(t, deleteErr, "round %d", round)
		if selectErr != nil {
			assert.True(t, apperr.HasCode(selectErr, apperr.CodeValidation), "round %d: %v", round, selectErr)
		}

		page, err := repo.UpdateStudioPage(ctx, artistID, studio.PageUpdate{})
		require.NoError(t, err)
		assert.Nil(t, page.HeroImageID, "round %d", round)
	}
}

/*
TestPostgresRepository_ArtistCascade removes images with their artist.
*/
func TestPostgresRepository_ArtistCascade(t *testing.T) {
	repo, pool := openRepository(t)
	ctx := context.Background()
	artistID := insertArtist(t, pool, "Mira Okafor")
	hero := createRow(t, repo, artistID)
	createRow(t, repo, artistID)

	_, err := repo.UpdateStudioPage(ctx, artistID, studio.PageUpdate{Hero: studio.SelectHero(hero.ID)})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM portfolio.artist WHERE id = $1`, artistID)
	require.NoError(t, err)

	images, err := repo.ListImages(ctx, artistID, nil)
	require.NoError(t, err)
	assert.Empty(t, images)
}
