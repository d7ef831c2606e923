package handler

import (
	"context"
	"io"

	"google.golang.org/grpc"

	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedCartServiceServer
	cartService *service.CartService
}

func NewGRPCHandler(cartService *service.CartService) *GRPCHandler {
	return &GRPCHandler{cartService: cartService}
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *pb.GetCartRequest) (*pb.Cart, error) {
	cart, err := h.cartService.GetCart(ctx, req.GetUsername())
	if err != nil {
		return nil, mapErr(err)
	}
	return toPBCart(cart), nil
}

func (h *GRPCHandler) CreateCart(ctx context.Context, req *pb.Cart) (*pb.Cart, error) {
	cart, err := h.cartService.CreateCart(ctx, req.GetUsername())
	if err != nil {
		return nil, mapErr(err)
	}
	return toPBCart(cart), nil
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *pb.RemoveItemRequest) (*pb.RemoveItemResponse, error) {
	ok, err := h.cartService.RemoveItem(ctx, req.GetUsername(), req.GetProductId())
	if err != nil {
		return nil, mapErr(err)
	}
	return &pb.RemoveItemResponse{Success: ok}, nil
}

// AddItems applies every element as it arrives and answers once the client
// half-closes. Any element error ends the call and nothing is committed.
func (h *GRPCHandler) AddItems(stream grpc.ClientStreamingServer[pb.AddItemRequest, pb.AddItemsResponse]) error {
	ctx := stream.Context()
	batch := h.cartService.NewAddItemsBatch()

	for {
		req, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		add, err := toAddItemRequest(req)
		if err != nil {
			return mapErr(err)
		}
		if err := batch.Add(ctx, add); err != nil {
			return mapErr(err)
		}
	}

	result, err := batch.Commit(ctx)
	if err != nil {
		return mapErr(err)
	}

	return stream.SendAndClose(&pb.AddItemsResponse{
		Success:     result.Success,
		InsertCount: int32(result.InsertCount),
	})
}
