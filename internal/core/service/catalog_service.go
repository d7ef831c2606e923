package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

type CatalogService struct {
	repo port.ProductRepository
	log  *slog.Logger
	now  func() time.Time
}

func NewCatalogService(repo port.ProductRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log, now: time.Now}
}

// StreamProducts hands every product to fn in id order without buffering
// the catalog.
func (s *CatalogService) StreamProducts(ctx context.Context, fn func(domain.Product) error) error {
	return s.repo.EachProduct(ctx, fn)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p, err := s.prepare(p)
	if err != nil {
		return domain.Product{}, err
	}

	added, err := s.repo.AddProduct(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.log.Info("product added", "product_id", added.ID, "name", added.Name)
	return added, nil
}

// InsertProducts validates the whole set before writing any of it.
func (s *CatalogService) InsertProducts(ctx context.Context, products []domain.Product) (int, error) {
	prepared := make([]domain.Product, 0, len(products))
	for i, p := range products {
		p, err := s.prepare(p)
		if err != nil {
			return 0, fmt.Errorf("product %d of %d: %w", i+1, len(products), err)
		}
		prepared = append(prepared, p)
	}

	n, err := s.repo.InsertProducts(ctx, prepared)
	if err != nil {
		return 0, err
	}
	s.log.Info("products inserted", "received", len(products), "inserted", n)
	return n, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p, err := p.Normalize()
	if err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.UpdateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: %w", p.ID, err)
	}
	s.log.Info("product updated", "product_id", updated.ID)
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("product %d: %w", id, err)
	}
	s.log.Info("product deleted", "product_id", id)
	return nil
}

func (s *CatalogService) prepare(p domain.Product) (domain.Product, error) {
	p, err := p.Normalize()
	if err != nil {
		return domain.Product{}, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	return p, nil
}
