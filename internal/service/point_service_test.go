package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/ecoleta/internal/domain"
	"github.com/vbonduro/ecoleta/internal/store"
)

func newTestPointService(t *testing.T) (*PointService, *stubPhotoStore) {
	t.Helper()
	photos := newStubPhotoStore()
	svc := NewPointService(store.NewPointStore(openTestDB(t)), photos, NewImageURLs(testPublicURL), testLogger())
	return svc, photos
}

func samplePoint() *domain.Point {
	return &domain.Point{
		Name:      "Mercado Verde",
		Email:     "contato@mercadoverde.com.br",
		WhatsApp:  "11999999999",
		Latitude:  -23.5505,
		Longitude: -46.6333,
		City:      "São Paulo",
		UF:        "SP",
	}
}

func sampleImage() Image {
	return Image{Filename: "foto.jpg", MimeType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}}
}

func TestPointServiceCreateAndView_RoundTrip(t *testing.T) {
	svc, photos := newTestPointService(t)
	ctx := context.Background()

	created, err := svc.CreatePoint(ctx, samplePoint(), []int64{1, 5}, sampleImage())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 1, photos.count())

	detail, err := svc.ViewPoint(ctx, created.ID)
	require.NoError(t, err)

	want := samplePoint()
	got := detail.Point
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.WhatsApp, got.WhatsApp)
	assert.Equal(t, want.City, got.City)
	assert.Equal(t, want.UF, got.UF)
	assert.Equal(t, want.Latitude, got.Latitude)
	assert.Equal(t, want.Longitude, got.Longitude)
	assert.Equal(t, created.Image, got.Image)
	assert.Equal(t, testPublicURL+"/uploads/data/"+created.Image, got.ImageURL)
	assert.Equal(t, []ItemTitle{{Title: "Lâmpadas"}, {Title: "Resíduos Orgânicos"}}, detail.Items)
}

func TestPointServiceCreate_RemovesImageOnFailure(t *testing.T) {
	svc, photos := newTestPointService(t)

	_, err := svc.CreatePoint(context.Background(), samplePoint(), []int64{1, 999}, sampleImage())
	require.Error(t, err)
	assert.Equal(t, 0, photos.count())

	list, err := svc.ListPoints(context.Background(), domain.PointFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPointServiceCreate_SaveFails(t *testing.T) {
	svc, photos := newTestPointService(t)
	photos.saveErr = errors.New("disk full")

	_, err := svc.CreatePoint(context.Background(), samplePoint(), []int64{1}, sampleImage())
	assert.ErrorContains(t, err, "disk full")
}

func TestPointServiceCreate_NoItems(t *testing.T) {
	svc, photos := newTestPointService(t)

	_, err := svc.CreatePoint(context.Background(), samplePoint(), nil, sampleImage())
	assert.ErrorIs(t, err, domain.ErrNoItems)
	assert.Equal(t, 0, photos.count())
}

func TestPointServiceListPoints(t *testing.T) {
	svc, _ := newTestPointService(t)
	ctx := context.Background()

	_, err := svc.CreatePoint(ctx, samplePoint(), []int64{1, 2}, sampleImage())
	require.NoError(t, err)

	list, err := svc.ListPoints(ctx, domain.PointFilter{City: "são", UF: "sp", ItemIDs: []int64{1, 2}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].ImageURL, "/uploads/data/")
}

func TestPointServiceViewPoint_NotFound(t *testing.T) {
	svc, _ := newTestPointService(t)

	_, err := svc.ViewPoint(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPointServiceUpdatePoint(t *testing.T) {
	svc, _ := newTestPointService(t)
	ctx := context.Background()

	created, err := svc.CreatePoint(ctx, samplePoint(), []int64{1}, sampleImage())
	require.NoError(t, err)

	changed := samplePoint()
	changed.Name = "Mercado Azul"
	updated, err := svc.UpdatePoint(ctx, created.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Mercado Azul", updated.Name)
	assert.Equal(t, created.Image, updated.Image)

	_, err = svc.UpdatePoint(ctx, 999, changed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPointServiceDeletePoint(t *testing.T) {
	svc, photos := newTestPointService(t)
	ctx := context.Background()

	created, err := svc.CreatePoint(ctx, samplePoint(), []int64{1}, sampleImage())
	require.NoError(t, err)

	require.NoError(t, svc.DeletePoint(ctx, created.ID))
	assert.Equal(t, 0, photos.count())

	assert.ErrorIs(t, svc.DeletePoint(ctx, created.ID), domain.ErrNotFound)
}
