package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/ecoleta/internal/domain"
	"github.com/vbonduro/ecoleta/internal/photostore"
)

// pointRepository is the subset of store.PointStore that PointService requires.
type pointRepository interface {
	Create(ctx context.Context, point *domain.Point, itemIDs []int64) (*domain.Point, error)
	GetByID(ctx context.Context, id int64) (*domain.Point, error)
	View(ctx context.Context, id int64) (*domain.PointDetail, error)
	List(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error)
	Update(ctx context.Context, id int64, point *domain.Point) error
	Delete(ctx context.Context, id int64) error
}

// PointView is a point as exposed to clients, with its derived image URL.
type PointView struct {
	ID        int64   `json:"id"`
	Image     string  `json:"image"`
	ImageURL  string  `json:"image_url,omitempty"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	WhatsApp  string  `json:"whatsapp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	UF        string  `json:"uf"`
}

// ItemTitle is one entry of a point detail's item list.
type ItemTitle struct {
	Title string `json:"title"`
}

// PointDetailView is the response shape of a single-point lookup.
type PointDetailView struct {
	Point PointView   `json:"point"`
	Items []ItemTitle `json:"items"`
}

// Image is an uploaded point image whose type has already been checked.
type Image struct {
	Filename string
	MimeType string
	Data     []byte
}

type PointService struct {
	points   pointRepository
	photoStg photostore.PhotoStore
	urls     ImageURLs
	logger   *slog.Logger
}

func NewPointService(points pointRepository, photoStg photostore.PhotoStore, urls ImageURLs, logger *slog.Logger) *PointService {
	return &PointService{
		points:   points,
		photoStg: photoStg,
		urls:     urls,
		logger:   logger,
	}
}

func (s *PointService) ListPoints(ctx context.Context, filter domain.PointFilter) ([]PointView, error) {
	points, err := s.points.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]PointView, 0, len(points))
	for _, p := range points {
		views = append(views, s.view(p))
	}
	return views, nil
}

func (s *PointService) ViewPoint(ctx context.Context, id int64) (*PointDetailView, error) {
	detail, err := s.points.View(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]ItemTitle, 0, len(detail.ItemTitles))
	for _, title := range detail.ItemTitles {
		items = append(items, ItemTitle{Title: title})
	}
	return &PointDetailView{Point: s.view(detail.Point), Items: items}, nil
}

// CreatePoint stores the image, then writes the point and its item links. If
// the database write fails the stored image is removed again.
func (s *PointService) CreatePoint(ctx context.Context, point *domain.Point, itemIDs []int64, img Image) (*PointView, error) {
	if len(itemIDs) == 0 {
		return nil, domain.ErrNoItems
	}
	s.logger.Info("create point started", "name", point.Name, "city", point.City, "uf", point.UF, "items", len(itemIDs))

	key, err := s.photoStg.Save(ctx, img.Filename, img.MimeType, bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	toCreate := *point
	toCreate.Image = key
	created, err := s.points.Create(ctx, &toCreate, itemIDs)
	if err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}

	s.logger.Info("point created", "point_id", created.ID, "image", key)
	view := s.view(created)
	return &view, nil
}

// UpdatePoint replaces the point's fields and returns the stored result.
func (s *PointService) UpdatePoint(ctx context.Context, id int64, point *domain.Point) (*PointView, error) {
	if err := s.points.Update(ctx, id, point); err != nil {
		return nil, err
	}
	updated, err := s.points.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("point updated", "point_id", id)
	view := s.view(updated)
	return &view, nil
}

// DeletePoint removes the point, its item links, and its stored image.
func (s *PointService) DeletePoint(ctx context.Context, id int64) error {
	point, err := s.points.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.points.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(ctx, point.Image)
	s.logger.Info("point deleted", "point_id", id)
	return nil
}

func (s *PointService) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.photoStg.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("failed to remove image", "image", key, "error", err)
	}
}

func (s *PointService) view(p *domain.Point) PointView {
	v := PointView{
		ID:        p.ID,
		Image:     p.Image,
		Name:      p.Name,
		Email:     p.Email,
		WhatsApp:  p.WhatsApp,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		City:      p.City,
		UF:        p.UF,
	}
	if p.Image != "" {
		v.ImageURL = s.urls.Point(p.Image)
	}
	return v
}
