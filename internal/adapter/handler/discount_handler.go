package handler

import (
	"context"

	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/core/service"
)

type DiscountHandler struct {
	pb.UnimplementedDiscountServiceServer
	discountService *service.DiscountService
}

func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

func (h *DiscountHandler) GetDiscount(ctx context.Context, req *pb.GetDiscountRequest) (*pb.Discount, error) {
	d, err := h.discountService.GetDiscount(ctx, req.GetDiscountCode())
	if err != nil {
		return nil, mapErr(err)
	}
	return toPBDiscount(d), nil
}
