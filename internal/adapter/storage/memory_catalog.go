package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

// MemoryProductRepository keeps the catalog in a map. Listing works on a
// snapshot taken under the read lock, so writers never block a stream that
// is already sending.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	lastID   int64
}

func NewMemoryProductRepository(products ...domain.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{products: make(map[int64]domain.Product, len(products))}
	for _, p := range products {
		r.products[p.ID] = p
		r.lastID = max(r.lastID, p.ID)
	}
	return r
}

// SeedProducts is the starter catalog used when no database is configured.
func SeedProducts(now time.Time) []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Mi10T", Description: "New Xiaomi Phone Mi10T", Price: decimal.NewFromInt(699), Status: domain.ProductStatusInStock, CreatedAt: now},
		{ID: 2, Name: "P40", Description: "New Huawei Phone P40", Price: decimal.NewFromInt(899), Status: domain.ProductStatusInStock, CreatedAt: now},
		{ID: 3, Name: "A50", Description: "New Samsung Phone A50", Price: decimal.NewFromInt(399), Status: domain.ProductStatusInStock, CreatedAt: now},
	}
}

func (r *MemoryProductRepository) EachProduct(ctx context.Context, fn func(domain.Product) error) error {
	r.mu.RLock()
	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	r.mu.RUnlock()

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryProductRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *MemoryProductRepository) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	p.ID = r.lastID
	r.products[p.ID] = p
	return p, nil
}

func (r *MemoryProductRepository) InsertProducts(ctx context.Context, products []domain.Product) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range products {
		r.lastID++
		p.ID = r.lastID
		r.products[p.ID] = p
	}
	return len(products), nil
}

func (r *MemoryProductRepository) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[p.ID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = current.CreatedAt
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *MemoryProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
