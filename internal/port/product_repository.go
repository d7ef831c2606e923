package port

import (
	"context"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

type ProductRepository interface {
	// EachProduct calls fn for every product ordered by id, stopping at the first error
	EachProduct(ctx context.Context, fn func(domain.Product) error) error

	// GetProduct returns a single product, or domain.ErrProductNotFound
	GetProduct(ctx context.Context, id int64) (domain.Product, error)

	// AddProduct stores a new product under a freshly assigned id and returns it
	AddProduct(ctx context.Context, p domain.Product) (domain.Product, error)

	// InsertProducts stores all products in one transaction and returns how many were written
	InsertProducts(ctx context.Context, products []domain.Product) (int, error)

	// UpdateProduct replaces an existing product, or domain.ErrProductNotFound
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)

	// DeleteProduct removes a product, or domain.ErrProductNotFound
	DeleteProduct(ctx context.Context, id int64) error
}
