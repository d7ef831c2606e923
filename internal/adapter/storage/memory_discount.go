package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

// MemoryDiscountRepository serves a fixed table; it is never written after
// construction.
type MemoryDiscountRepository struct {
	discounts map[string]domain.Discount
}

func NewMemoryDiscountRepository(discounts ...domain.Discount) *MemoryDiscountRepository {
	r := &MemoryDiscountRepository{discounts: make(map[string]domain.Discount, len(discounts))}
	for _, d := range discounts {
		r.discounts[d.Code] = d
	}
	return r
}

func SeedDiscounts() []domain.Discount {
	return []domain.Discount{
		{ID: 1, Code: "CODE_100", Amount: decimal.NewFromInt(100)},
		{ID: 2, Code: "CODE_200", Amount: decimal.NewFromInt(200)},
		{ID: 3, Code: "CODE_300", Amount: decimal.NewFromInt(300)},
	}
}

func (r *MemoryDiscountRepository) GetDiscount(ctx context.Context, code string) (domain.Discount, error) {
	d, ok := r.discounts[code]
	if !ok {
		return domain.Discount{}, domain.ErrDiscountNotFound
	}
	return d, nil
}
