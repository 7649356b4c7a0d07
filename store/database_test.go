package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/aouyang1/vitrine/photo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "db", "vitrine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestListing(t *testing.T, db *Database) *Listing {
	t.Helper()
	l := &Listing{UserID: "u1", Kind: KindProperty, Title: "Casa", Data: json.RawMessage(`{"title":"Casa"}`)}
	require.NoError(t, db.CreateListing(context.Background(), l))
	return l
}

func photoURLs(t *testing.T, db *Database, listingID string) []string {
	t.Helper()
	photos, err := db.GetPhotos(context.Background(), listingID)
	require.NoError(t, err)
	var urls []string
	for i, p := range photos {
		require.Equal(t, i, p.Order, "orders must stay dense")
		urls = append(urls, p.URL)
	}
	return urls
}

func TestListing(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	l := newTestListing(t, db)
	require.NotEmpty(t, l.ID)

	got, err := db.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Title, got.Title)
	assert.Equal(t, KindProperty, got.Kind)
	assert.JSONEq(t, `{"title":"Casa"}`, string(got.Data))

	_, err = db.GetListing(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPhotoOrdering(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	l := newTestListing(t, db)

	for _, url := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		order, err := db.GetMaxOrder(ctx, l.ID)
		require.NoError(t, err)
		require.NoError(t, db.InsertPhoto(ctx, l.ID, url, photo.Bedroom, order))
	}
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, photoURLs(t, db, l.ID))

	require.NoError(t, db.UpdatePhotoOrder(ctx, l.ID, "a.jpg", 2))
	assert.Equal(t, []string{"b.jpg", "c.jpg", "a.jpg", "d.jpg"}, photoURLs(t, db, l.ID))

	require.NoError(t, db.UpdatePhotoOrder(ctx, l.ID, "d.jpg", 0))
	assert.Equal(t, []string{"d.jpg", "b.jpg", "c.jpg", "a.jpg"}, photoURLs(t, db, l.ID))

	require.NoError(t, db.UpdatePhotoOrder(ctx, l.ID, "c.jpg", 2))
	assert.Equal(t, []string{"d.jpg", "b.jpg", "c.jpg", "a.jpg"}, photoURLs(t, db, l.ID))

	require.NoError(t, db.DeletePhoto(ctx, l.ID, "b.jpg"))
	assert.Equal(t, []string{"d.jpg", "c.jpg", "a.jpg"}, photoURLs(t, db, l.ID))

	assert.ErrorIs(t, db.DeletePhoto(ctx, l.ID, "b.jpg"), ErrNotFound)
	assert.ErrorIs(t, db.UpdatePhotoOrder(ctx, l.ID, "zzz.jpg", 0), ErrNotFound)

	exists, err := db.PhotoExists(ctx, l.ID, "a.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	p, err := db.GetPhoto(ctx, l.ID, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, photo.CategorizedPhoto{URL: "a.jpg", Category: photo.Bedroom, Order: 2}, p.Categorized())
}

func TestPhotosAreScopedToListing(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	first := newTestListing(t, db)
	second := newTestListing(t, db)

	require.NoError(t, db.InsertPhoto(ctx, first.ID, "a.jpg", photo.Facade, 0))
	require.NoError(t, db.InsertPhoto(ctx, second.ID, "a.jpg", photo.Kitchen, 0))

	order, err := db.GetMaxOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, order)

	p, err := db.GetPhoto(ctx, second.ID, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, photo.Kitchen, p.Category)
}

func TestExportSettings(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	s, err := db.GetExportSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultExportSettings(), *s)

	require.NoError(t, db.UpsertExportSettings(ctx, &ExportSettings{Quality: 0.8, PixelDensity: 3}))
	s, err = db.GetExportSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExportSettings{Quality: 0.8, PixelDensity: 3}, *s)
}

func TestCreativesAndCRMProperties(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	older := &Creative{
		UserID:         "u1",
		ListingID:      "l1",
		Title:          "Casa",
		Kind:           KindProperty,
		Format:         "feed",
		Photos:         []string{"a.jpg"},
		ThumbnailURL:   "https://cdn/1.png",
		ExportedImages: []string{"https://cdn/1.png", "https://cdn/2.png"},
		CreatedAt:      time.Now().Add(-time.Hour).UTC(),
	}
	require.NoError(t, db.CreateCreative(ctx, older))
	newer := &Creative{UserID: "u1", ListingID: "l1", Title: "Casa", Kind: KindProperty, Format: "story"}
	require.NoError(t, db.CreateCreative(ctx, newer))
	require.NoError(t, db.CreateCreative(ctx, &Creative{UserID: "u2", Title: "Outro"}))

	creatives, err := db.ListCreatives(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, creatives, 2)
	assert.Equal(t, newer.ID, creatives[0].ID)
	assert.Equal(t, []string{}, creatives[0].Photos)
	assert.Equal(t, older.ExportedImages, creatives[1].ExportedImages)
	assert.Equal(t, "https://cdn/1.png", creatives[1].ThumbnailURL)

	prop := &CRMProperty{
		Code:             "REV-ABCDEF12",
		PropertyType:     "house",
		City:             "Campinas",
		State:            "SP",
		SaleValue:        450000,
		CoverImageURL:    "https://cdn/crm/cover.png",
		SourceCreativeID: older.ID,
		CreatedByUserID:  "u1",
	}
	require.NoError(t, db.CreateCRMProperty(ctx, prop))
	assert.Error(t, db.CreateCRMProperty(ctx, &CRMProperty{Code: prop.Code}), "codes are unique")

	props, err := db.ListCRMProperties(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, prop.Code, props[0].Code)
	assert.InDelta(t, 450000, props[0].SaleValue, 0.001)
}
