package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

type CartGateway struct {
	client  pb.CartServiceClient
	timeout time.Duration
}

func NewCartGateway(conn grpc.ClientConnInterface, timeout time.Duration) *CartGateway {
	return &CartGateway{client: pb.NewCartServiceClient(conn), timeout: timeout}
}

func (g *CartGateway) GetCart(ctx context.Context, token, username string) (domain.Cart, error) {
	ctx, cancel := withTimeout(withToken(ctx, token), g.timeout)
	defer cancel()

	resp, err := g.client.GetCart(ctx, &pb.GetCartRequest{Username: username})
	if err != nil {
		return domain.Cart{}, fromStatus(err, domain.ErrCartNotFound)
	}
	return fromPBCart(resp)
}

func (g *CartGateway) CreateCart(ctx context.Context, token, username string) (domain.Cart, error) {
	ctx, cancel := withTimeout(withToken(ctx, token), g.timeout)
	defer cancel()

	resp, err := g.client.CreateCart(ctx, &pb.Cart{Username: username})
	if err != nil {
		return domain.Cart{}, fromStatus(err, nil)
	}
	return fromPBCart(resp)
}

func (g *CartGateway) RemoveItem(ctx context.Context, token, username string, productID int64) (bool, error) {
	ctx, cancel := withTimeout(withToken(ctx, token), g.timeout)
	defer cancel()

	resp, err := g.client.RemoveItem(ctx, &pb.RemoveItemRequest{Username: username, ProductId: productID})
	if err != nil {
		return false, fromStatus(err, domain.ErrItemNotFound)
	}
	return resp.Success, nil
}

// OpenAddStream starts an AddItems call bound to ctx. The caller bounds the
// stream's lifetime through ctx.
func (g *CartGateway) OpenAddStream(ctx context.Context, token string) (port.CartAddStream, error) {
	stream, err := g.client.AddItems(withToken(ctx, token))
	if err != nil {
		return nil, fromStatus(err, nil)
	}
	return &addStream{stream: stream}, nil
}

type addStream struct {
	stream grpc.ClientStreamingClient[pb.AddItemRequest, pb.AddItemsResponse]
}

func (s *addStream) Send(req domain.AddItemRequest) error {
	err := s.stream.Send(&pb.AddItemRequest{
		Username:     req.Username,
		DiscountCode: req.DiscountCode,
		NewCartItem: &pb.CartItem{
			ProductId:   req.Item.ProductID,
			ProductName: req.Item.ProductName,
			Price:       req.Item.Price.String(),
			Color:       req.Item.Color,
			Quantity:    int32(req.Item.Quantity),
		},
	})
	if err == io.EOF {
		// the server ended the call; its status is only visible on receive
		_, err = s.stream.CloseAndRecv()
	}
	return fromStatus(err, nil)
}

func (s *addStream) CloseAndRecv() (domain.AddItemsResult, error) {
	resp, err := s.stream.CloseAndRecv()
	if err != nil {
		return domain.AddItemsResult{}, fromStatus(err, nil)
	}
	return domain.AddItemsResult{Success: resp.Success, InsertCount: int(resp.InsertCount)}, nil
}

func fromPBCart(c *pb.Cart) (domain.Cart, error) {
	cart := domain.Cart{Username: c.Username, Items: make([]domain.CartItem, 0, len(c.Items))}
	for _, it := range c.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("cart %q product %d price %q: %w", c.Username, it.ProductId, it.Price, err)
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:   it.ProductId,
			ProductName: it.ProductName,
			Price:       price,
			Color:       it.Color,
			Quantity:    int(it.Quantity),
		})
	}
	return cart, nil
}
