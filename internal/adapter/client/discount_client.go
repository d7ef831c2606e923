package client

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/core/domain"
)

// DiscountClient is the cart service's lookup against the discount service.
type DiscountClient struct {
	client  pb.DiscountServiceClient
	timeout time.Duration
}

func NewDiscountClient(conn grpc.ClientConnInterface, timeout time.Duration) *DiscountClient {
	return &DiscountClient{client: pb.NewDiscountServiceClient(conn), timeout: timeout}
}

func (c *DiscountClient) GetDiscount(ctx context.Context, code string) (domain.Discount, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.GetDiscount(ctx, &pb.GetDiscountRequest{DiscountCode: code})
	if err != nil {
		return domain.Discount{}, fromStatus(err, domain.ErrDiscountNotFound)
	}

	amount, err := decimal.NewFromString(resp.Amount)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("discount %q amount %q: %w", code, resp.Amount, err)
	}
	return domain.Discount{ID: resp.DiscountId, Code: resp.Code, Amount: amount}, nil
}
