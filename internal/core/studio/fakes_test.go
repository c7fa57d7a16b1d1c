// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/claycompanion/studio/internal/core/artist"
	"github.com/claycompanion/studio/internal/core/studio"
	"github.com/claycompanion/studio/internal/platform/apperr"
	"github.com/claycompanion/studio/internal/platform/storage"
	"github.com/claycompanion/studio/pkg/slice"
	"github.com/claycompanion/studio/pkg/uuid"
)

// memoryStore is an in-memory Repository and ArtistFinder. It applies the
// same ordering and hero rules as the PostgreSQL store.
type memoryStore struct {
	mu      sync.Mutex
	artists map[string]*artist.Artist
	images  map[string]*studio.Image
	clock   time.Time

	failDelete bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		artists: map[string]*artist.Artist{},
		images:  map[string]*studio.Image{},
		clock:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) addArtist(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.artists[id] = &artist.Artist{ID: id, FullName: name}
	return id
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryStore) artist(id string) *artist.Artist {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := *m.artists[id]
	return &found
}

func (m *memoryStore) image(id string) *studio.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	found, ok := m.images[id]
	if !ok {
		return nil
	}
	copied := *found
	return &copied
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

func (m *memoryStore) GetArtist(_ context.Context, id string) (*artist.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found, ok := m.artists[id]
	if !ok {
		return nil, apperr.NotFound("Artist")
	}
	copied := *found
	return &copied, nil
}

func (m *memoryStore) ListImages(_ context.Context, artistID string, category *studio.Category) ([]*studio.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*studio.Image, 0, len(m.images))
	for _, image := range m.images {
		copied := *image
		all = append(all, &copied)
	}

	// Map order on purpose: the service sorts.
	return slice.Filter(all, func(image *studio.Image) bool {
		return image.ArtistID == artistID && (category == nil || image.Category == *category)
	}), nil
}

func (m *memoryStore) GetImage(_ context.Context, id string) (*studio.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found, ok := m.images[id]
	if !ok {
		return nil, apperr.NotFound("Studio image")
	}
	copied := *found
	return &copied, nil
}

func (m *memoryStore) CreateImage(_ context.Context, image *studio.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artists[image.ArtistID]; !ok {
		return apperr.NotFound("Artist")
	}

	var max *int
	for _, existing := range m.images {
		if existing.ArtistID != image.ArtistID {
			continue
		}
		if max == nil || existing.DisplayOrder > *max {
			order := existing.DisplayOrder
			max = &order
		}
	}

	image.DisplayOrder = studio.NextDisplayOrder(max)
	image.CreatedAt = m.tick()
	image.UpdatedAt = image.CreatedAt

	copied := *image
	m.images[image.ID] = &copied
	return nil
}

func (m *memoryStore) UpdateImage(_ context.Context, id, ownerID string, patch studio.ImagePatch) (*studio.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found, ok := m.images[id]
	if !ok || !found.OwnedBy(ownerID) {
		return nil, apperr.NotFound("Studio image")
	}
	if !patch.Empty() {
		found.Apply(patch)
		found.UpdatedAt = m.tick()
	}
	copied := *found
	return &copied, nil
}

func (m *memoryStore) DeleteImage(_ context.Context, id, ownerID string) (*studio.DeletedImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDelete {
		return nil, apperr.PersistenceFailure(studio.MsgDeleteFailed, errors.New("row locked"))
	}

	found, ok := m.images[id]
	if !ok || !found.OwnedBy(ownerID) {
		return nil, apperr.NotFound("Studio image")
	}

	heroCleared := false
	if owner := m.artists[ownerID]; owner.StudioHeroImageID != nil && *owner.StudioHeroImageID == id {
		owner.StudioHeroImageID = nil
		heroCleared = true
	}
	delete(m.images, id)

	return &studio.DeletedImage{Image: found, HeroCleared: heroCleared}, nil
}

func (m *memoryStore) UpdateStudioPage(_ context.Context, artistID string, update studio.PageUpdate) (*studio.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.artists[artistID]
	if !ok {
		return nil, apperr.NotFound("Artist")
	}

	if update.Hero.Action == studio.HeroSelect {
		var candidateOwner *string
		if candidate, ok := m.images[update.Hero.ImageID]; ok {
			candidateOwner = &candidate.ArtistID
		}
		if err := studio.CheckHeroOwnership(artistID, candidateOwner); err != nil {
			return nil, err
		}
	}

	page := &studio.Page{ArtistID: artistID, IntroText: owner.StudioIntroText, HeroImageID: owner.StudioHeroImageID}
	page.Apply(update)
	owner.StudioIntroText = page.IntroText
	owner.StudioHeroImageID = page.HeroImageID
	return page, nil
}

// memoryStorage keeps attachments in a map and serves them from a fake CDN.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	failPut    bool
	failURL    bool
	failDelete bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

const cdnBase = "https://cdn.example.test/"

func (s *memoryStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if s.failPut {
		return errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	if s.failDelete {
		return errors.New("bucket unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStorage) URL(_ context.Context, key string) (string, error) {
	if s.failURL {
		return "", storage.ErrNotFound
	}
	return cdnBase + key, nil
}

func (s *memoryStorage) Health(context.Context) error { return nil }

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// fixture bundles a service over in-memory collaborators.
type fixture struct {
	store   *memoryStore
	files   *memoryStorage
	service *studio.Service
}

func newFixture() *fixture {
	store := newMemoryStore()
	files := newMemoryStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		store:   store,
		files:   files,
		service: studio.NewService(store, store, files, logger),
	}
}

// upload creates an image through the service and fails the test on error.
func (f *fixture) upload(t *testing.T, artistID, caption string, category studio.Category) studio.ResolvedImage {
	t.Helper()
	created, err := f.service.CreateImage(context.Background(), artistID, artistID, studio.CreateInput{
		Upload:   &studio.Upload{FileName: caption + ".png", Data: pngBytes(t, 4, 3)},
		Caption:  caption,
		Category: string(category),
	})
	require.NoError(t, err)
	return created
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, paint(width, height)))
	return buffer.Bytes()
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buffer bytes.Buffer
	require.NoError(t, jpeg.Encode(&buffer, paint(width, height), nil))
	return buffer.Bytes()
}

func paint(width, height int) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			canvas.Set(x, y, color.RGBA{R: 180, G: 120, B: 90, A: 255})
		}
	}
	return canvas
}
