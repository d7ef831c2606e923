package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type GetDiscountRequest struct {
	DiscountCode string `json:"discountCode"`
}

func (x *GetDiscountRequest) GetDiscountCode() string {
	if x != nil {
		return x.DiscountCode
	}
	return ""
}

type Discount struct {
	DiscountId int64  `json:"discountId"`
	Code       string `json:"code"`
	Amount     string `json:"amount"`
}

const DiscountService_GetDiscount_FullMethodName = "/cartsync.discount.v1.DiscountService/GetDiscount"

type DiscountServiceClient interface {
	GetDiscount(ctx context.Context, in *GetDiscountRequest, opts ...grpc.CallOption) (*Discount, error)
}

type discountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDiscountServiceClient(cc grpc.ClientConnInterface) DiscountServiceClient {
	return &discountServiceClient{cc}
}

func (c *discountServiceClient) GetDiscount(ctx context.Context, in *GetDiscountRequest, opts ...grpc.CallOption) (*Discount, error) {
	out := new(Discount)
	if err := c.cc.Invoke(ctx, DiscountService_GetDiscount_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

type DiscountServiceServer interface {
	GetDiscount(context.Context, *GetDiscountRequest) (*Discount, error)
	mustEmbedUnimplementedDiscountServiceServer()
}

type UnimplementedDiscountServiceServer struct{}

func (UnimplementedDiscountServiceServer) GetDiscount(context.Context, *GetDiscountRequest) (*Discount, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDiscount not implemented")
}
func (UnimplementedDiscountServiceServer) mustEmbedUnimplementedDiscountServiceServer() {}

func RegisterDiscountServiceServer(s grpc.ServiceRegistrar, srv DiscountServiceServer) {
	s.RegisterService(&DiscountService_ServiceDesc, srv)
}

func _DiscountService_GetDiscount_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetDiscountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiscountServiceServer).GetDiscount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DiscountService_GetDiscount_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiscountServiceServer).GetDiscount(ctx, req.(*GetDiscountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var DiscountService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cartsync.discount.v1.DiscountService",
	HandlerType: (*DiscountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDiscount", Handler: _DiscountService_GetDiscount_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/adapter/handler/pb/discount.go",
}
