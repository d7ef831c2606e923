package port

import (
	"context"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

type DiscountRepository interface {
	// GetDiscount returns the discount for a code, or domain.ErrDiscountNotFound
	GetDiscount(ctx context.Context, code string) (domain.Discount, error)
}

// DiscountLookup is the cart service's view of the discount service.
type DiscountLookup interface {
	GetDiscount(ctx context.Context, code string) (domain.Discount, error)
}
