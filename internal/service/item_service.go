package service

import (
	"context"
	"log/slog"

	"github.com/vbonduro/ecoleta/internal/domain"
)

// itemRepository is the subset of store.ItemStore that ItemService requires.
type itemRepository interface {
	List(ctx context.Context) ([]*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}

// ItemView is an item as exposed to clients.
type ItemView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

type ItemService struct {
	items  itemRepository
	urls   ImageURLs
	logger *slog.Logger
}

func NewItemService(items itemRepository, urls ImageURLs, logger *slog.Logger) *ItemService {
	return &ItemService{items: items, urls: urls, logger: logger}
}

func (s *ItemService) ListItems(ctx context.Context) ([]ItemView, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{ID: item.ID, Title: item.Title, ImageURL: s.urls.Item(item.Image)})
	}
	return views, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted", "item_id", id)
	return nil
}
