package service

import (
	"context"
	"log/slog"

	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

type DiscountService struct {
	repo port.DiscountRepository
	log  *slog.Logger
}

func NewDiscountService(repo port.DiscountRepository, log *slog.Logger) *DiscountService {
	return &DiscountService{repo: repo, log: log}
}

func (s *DiscountService) GetDiscount(ctx context.Context, code string) (domain.Discount, error) {
	d, err := s.repo.GetDiscount(ctx, code)
	if err != nil {
		return domain.Discount{}, err
	}
	s.log.Info("discount resolved", "code", d.Code, "amount", d.Amount.String())
	return d, nil
}
