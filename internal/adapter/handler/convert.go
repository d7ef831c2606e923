package handler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/core/domain"
)

func toPBCart(cart domain.Cart) *pb.Cart {
	items := make([]*pb.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, toPBCartItem(it))
	}
	return &pb.Cart{Username: cart.Username, Items: items}
}

func toPBCartItem(it domain.CartItem) *pb.CartItem {
	return &pb.CartItem{
		ProductId:   it.ProductID,
		ProductName: it.ProductName,
		Price:       it.Price.String(),
		Color:       it.Color,
		Quantity:    int32(it.Quantity),
	}
}

func toAddItemRequest(req *pb.AddItemRequest) (domain.AddItemRequest, error) {
	in := req.GetNewCartItem()
	if in == nil {
		return domain.AddItemRequest{}, fmt.Errorf("missing cart item: %w", domain.ErrInvalidItem)
	}

	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return domain.AddItemRequest{}, fmt.Errorf("price %q: %w", in.Price, domain.ErrInvalidItem)
	}

	return domain.AddItemRequest{
		Username:     req.GetUsername(),
		DiscountCode: req.GetDiscountCode(),
		Item: domain.CartItem{
			ProductID:   in.ProductId,
			ProductName: in.ProductName,
			Price:       price,
			Color:       in.Color,
			Quantity:    int(in.Quantity),
		},
	}, nil
}

func toPBProduct(p domain.Product) *pb.Product {
	return &pb.Product{
		ProductId:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Status:      string(p.Status),
		CreatedTime: p.CreatedAt,
	}
}

func toDomainProduct(p *pb.Product) (domain.Product, error) {
	if p == nil {
		return domain.Product{}, fmt.Errorf("missing product: %w", domain.ErrInvalidProduct)
	}

	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price %q: %w", p.Price, domain.ErrInvalidProduct)
	}

	return domain.Product{
		ID:          p.ProductId,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Status:      domain.ProductStatus(p.Status),
		CreatedAt:   p.CreatedTime,
	}, nil
}

func toPBDiscount(d domain.Discount) *pb.Discount {
	return &pb.Discount{
		DiscountId: d.ID,
		Code:       d.Code,
		Amount:     d.Amount.String(),
	}
}
