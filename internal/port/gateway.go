package port

import (
	"context"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

// Session holds the connections of one worker cycle. Close releases them.
type Session interface {
	Carts() CartGateway
	Catalog() CatalogGateway
	Close() error
}

type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}

type CartGateway interface {
	GetCart(ctx context.Context, token, username string) (domain.Cart, error)
	CreateCart(ctx context.Context, token, username string) (domain.Cart, error)
	OpenAddStream(ctx context.Context, token string) (CartAddStream, error)
}

type CartAddStream interface {
	Send(req domain.AddItemRequest) error
	CloseAndRecv() (domain.AddItemsResult, error)
}

type CatalogGateway interface {
	// StreamProducts opens the full catalog listing; Recv returns io.EOF after the last product
	StreamProducts(ctx context.Context, token string) (ProductStream, error)
}

// ProductWriter adds generated products to the catalog.
type ProductWriter interface {
	AddProduct(ctx context.Context, p domain.Product) (domain.Product, error)
}

type ProductStream interface {
	Recv() (domain.Product, error)
}
