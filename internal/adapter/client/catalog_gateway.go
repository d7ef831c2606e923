package client

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/port"
)

type CatalogGateway struct {
	client  pb.CatalogServiceClient
	timeout time.Duration
}

func NewCatalogGateway(conn grpc.ClientConnInterface, timeout time.Duration) *CatalogGateway {
	return &CatalogGateway{client: pb.NewCatalogServiceClient(conn), timeout: timeout}
}

func (g *CatalogGateway) StreamProducts(ctx context.Context, token string) (port.ProductStream, error) {
	stream, err := g.client.ListProducts(withToken(ctx, token), &pb.ListProductsRequest{})
	if err != nil {
		return nil, fromStatus(err, domain.ErrProductNotFound)
	}
	return &productStream{stream: stream}, nil
}

func (g *CatalogGateway) GetProduct(ctx context.Context, token string, id int64) (domain.Product, error) {
	ctx, cancel := withTimeout(withToken(ctx, token), g.timeout)
	defer cancel()

	resp, err := g.client.GetProduct(ctx, &pb.GetProductRequest{ProductId: id})
	if err != nil {
		return domain.Product{}, fromStatus(err, domain.ErrProductNotFound)
	}
	return fromPBProduct(resp)
}

func (g *CatalogGateway) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.AddProduct(ctx, &pb.AddProductRequest{Product: &pb.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Status:      string(p.Status),
		CreatedTime: p.CreatedAt,
	}})
	if status.Code(err) == codes.InvalidArgument {
		return domain.Product{}, fmt.Errorf("%w: %w", domain.ErrInvalidProduct, err)
	}
	if err != nil {
		return domain.Product{}, fromStatus(err, nil)
	}
	return fromPBProduct(resp)
}

type productStream struct {
	stream grpc.ServerStreamingClient[pb.Product]
}

// Recv returns io.EOF unwrapped once the catalog is exhausted.
func (s *productStream) Recv() (domain.Product, error) {
	p, err := s.stream.Recv()
	if err != nil {
		return domain.Product{}, fromStatus(err, domain.ErrProductNotFound)
	}
	return fromPBProduct(p)
}

func fromPBProduct(p *pb.Product) (domain.Product, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d price %q: %w", p.ProductId, p.Price, err)
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
