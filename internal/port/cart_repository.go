package port

import (
	"context"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

type CartRepository interface {
	// GetCart loads a cart with its items tracked for change detection, or domain.ErrCartNotFound
	GetCart(ctx context.Context, username string) (domain.Cart, error)

	// CreateCart persists an empty cart, domain.ErrCartExists if the owner already has one
	CreateCart(ctx context.Context, cart domain.Cart) (domain.Cart, error)

	// Commit applies all change sets atomically with a version check per cart and
	// returns the number of line item rows written
	Commit(ctx context.Context, sets []domain.CartChangeSet) (int, error)
}
