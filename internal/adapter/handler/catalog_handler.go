package handler

import (
	"context"
	"io"

	"google.golang.org/grpc"

	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/core/service"
)

type CatalogHandler struct {
	pb.UnimplementedCatalogServiceServer
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListProducts(_ *pb.ListProductsRequest, stream grpc.ServerStreamingServer[pb.Product]) error {
	err := h.catalogService.StreamProducts(stream.Context(), func(p domain.Product) error {
		return stream.Send(toPBProduct(p))
	})
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (h *CatalogHandler) GetProduct(ctx context.Context, req *pb.GetProductRequest) (*pb.Product, error) {
	p, err := h.catalogService.GetProduct(ctx, req.GetProductId())
	if err != nil {
		return nil, mapErr(err)
	}
	return toPBProduct(p), nil
}

func (h *CatalogHandler) AddProduct(ctx context.Context, req *pb.AddProductRequest) (*pb.Product, error) {
	p, err := toDomainProduct(req.GetProduct())
	if err != nil {
		return nil, mapErr(err)
	}

	added, err := h.catalogService.AddProduct(ctx, p)
	if err != nil {
		return nil, mapErr(err)
	}
	return toPBProduct(added), nil
}

func (h *CatalogHandler) UpdateProduct(ctx context.Context, req *pb.UpdateProductRequest) (*pb.Product, error) {
	p, err := toDomainProduct(req.GetProduct())
	if err != nil {
		return nil, mapErr(err)
	}

	updated, err := h.catalogService.UpdateProduct(ctx, p)
	if err != nil {
		return nil, mapErr(err)
	}
	return toPBProduct(updated), nil
}

func (h *CatalogHandler) DeleteProduct(ctx context.Context, req *pb.DeleteProductRequest) (*pb.DeleteProductResponse, error) {
	if err := h.catalogService.DeleteProduct(ctx, req.GetProductId()); err != nil {
		return nil, mapErr(err)
	}
	return &pb.DeleteProductResponse{Success: true}, nil
}

// InsertBulkProduct collects the whole stream and writes it in one
// transaction once the client half-closes.
func (h *CatalogHandler) InsertBulkProduct(stream grpc.ClientStreamingServer[pb.Product, pb.InsertBulkProductResponse]) error {
	var products []domain.Product
	for {
		in, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		p, err := toDomainProduct(in)
		if err != nil {
			return mapErr(err)
		}
		products = append(products, p)
	}

	n, err := h.catalogService.InsertProducts(stream.Context(), products)
	if err != nil {
		return mapErr(err)
	}

	return stream.SendAndClose(&pb.InsertBulkProductResponse{
		Success:     n > 0,
		InsertCount: int32(n),
	})
}
