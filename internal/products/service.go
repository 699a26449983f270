package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes storefront catalog reads.
type Service interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	ListFeatured(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
}

type catalogReader interface {
	FetchAllActive(ctx context.Context) ([]models.InventoryItem, error)
	FetchByCategory(ctx context.Context, category string) ([]models.InventoryItem, error)
	FetchByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FetchFeatured(ctx context.Context) ([]models.InventoryItem, error)
	Search(ctx context.Context, term string) ([]models.InventoryItem, error)
}

// service implements the catalog service.
type service struct {
	repo        catalogReader
	transformer *Transformer
}

// NewService constructs a product service instance.
func NewService(repo catalogReader, transformer *Transformer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if transformer == nil {
		return nil, fmt.Errorf("transformer required")
	}
	return &service{repo: repo, transformer: transformer}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.repo.FetchAllActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing catalog items")
	}
	return s.transformAll(ctx, rows), nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	rows, err := s.repo.FetchByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing catalog category")
	}
	return s.transformAll(ctx, rows), nil
}

func (s *service) ListFeatured(ctx context.Context) ([]Product, error) {
	rows, err := s.repo.FetchFeatured(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing featured items")
	}
	return s.transformAll(ctx, rows), nil
}

func (s *service) Search(ctx context.Context, term string) ([]Product, error) {
	rows, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "searching catalog")
	}
	return s.transformAll(ctx, rows), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	row, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	p := s.transformer.Transform(ctx, *row)
	return &p, nil
}

func (s *service) transformAll(ctx context.Context, rows []models.InventoryItem) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.transformer.Transform(ctx, row))
	}
	return out
}
