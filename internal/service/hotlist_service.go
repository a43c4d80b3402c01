package service

import (
	"context"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/models"
)

// ProductRepository exposes the hotlist query.
type ProductRepository interface {
	ListAvailableProducts(ctx context.Context, town string, limit int) ([]models.Product, error)
}

// HotlistService lists products that can be bought right now.
type HotlistService interface {
	List(ctx context.Context, town string) ([]models.Product, error)
}

const hotlistLimit = 50

type hotlistService struct {
	repo ProductRepository
}

// NewHotlistService returns a concrete implementation.
func NewHotlistService(repo ProductRepository) HotlistService {
	return &hotlistService{repo: repo}
}

// List returns up to 50 available products, newest first; an empty town
// means every town.
func (s *hotlistService) List(ctx context.Context, town string) ([]models.Product, error) {
	items, err := s.repo.ListAvailableProducts(ctx, town, hotlistLimit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return items, nil
}
