package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CartItem struct {
	ProductId   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Price       string `json:"price"`
	Color       string `json:"color"`
	Quantity    int32  `json:"quantity"`
}

type Cart struct {
	Username string      `json:"username"`
	Items    []*CartItem `json:"items"`
}

func (x *Cart) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

type GetCartRequest struct {
	Username string `json:"username"`
}

func (x *GetCartRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

type RemoveItemRequest struct {
	Username  string `json:"username"`
	ProductId int64  `json:"productId"`
}

func (x *RemoveItemRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *RemoveItemRequest) GetProductId() int64 {
	if x != nil {
		return x.ProductId
	}
	return 0
}

type RemoveItemResponse struct {
	Success bool `json:"success"`
}

type AddItemRequest struct {
	Username     string    `json:"username"`
	DiscountCode string    `json:"discountCode"`
	NewCartItem  *CartItem `json:"newCartItem"`
}

func (x *AddItemRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *AddItemRequest) GetDiscountCode() string {
	if x != nil {
		return x.DiscountCode
	}
	return ""
}

func (x *AddItemRequest) GetNewCartItem() *CartItem {
	if x != nil {
		return x.NewCartItem
	}
	return nil
}

type AddItemsResponse struct {
	Success     bool  `json:"success"`
	InsertCount int32 `json:"insertCount"`
}

const (
	CartService_GetCart_FullMethodName    = "/cartsync.cart.v1.ShoppingCartService/GetCart"
	CartService_CreateCart_FullMethodName = "/cartsync.cart.v1.ShoppingCartService/CreateCart"
	CartService_RemoveItem_FullMethodName = "/cartsync.cart.v1.ShoppingCartService/RemoveItem"
	CartService_AddItems_FullMethodName   = "/cartsync.cart.v1.ShoppingCartService/AddItems"
)

type CartServiceClient interface {
	GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*Cart, error)
	CreateCart(ctx context.Context, in *Cart, opts ...grpc.CallOption) (*Cart, error)
	RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*RemoveItemResponse, error)
	AddItems(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[AddItemRequest, AddItemsResponse], error)
}

type cartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) CartServiceClient {
	return &cartServiceClient{cc}
}

func (c *cartServiceClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	if err := c.cc.Invoke(ctx, CartService_GetCart_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cartServiceClient) CreateCart(ctx context.Context, in *Cart, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	if err := c.cc.Invoke(ctx, CartService_CreateCart_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cartServiceClient) RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*RemoveItemResponse, error) {
	out := new(RemoveItemResponse)
	if err := c.cc.Invoke(ctx, CartService_RemoveItem_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cartServiceClient) AddItems(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[AddItemRequest, AddItemsResponse], error) {
	stream, err := c.cc.NewStream(ctx, &CartService_ServiceDesc.Streams[0], CartService_AddItems_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[AddItemRequest, AddItemsResponse]{ClientStream: stream}, nil
}

type CartServiceServer interface {
	GetCart(context.Context, *GetCartRequest) (*Cart, error)
	CreateCart(context.Context, *Cart) (*Cart, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*RemoveItemResponse, error)
	AddItems(grpc.ClientStreamingServer[AddItemRequest, AddItemsResponse]) error
	mustEmbedUnimplementedCartServiceServer()
}

type UnimplementedCartServiceServer struct{}

func (UnimplementedCartServiceServer) GetCart(context.Context, *GetCartRequest) (*Cart, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCart not implemented")
}
func (UnimplementedCartServiceServer) CreateCart(context.Context, *Cart) (*Cart, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCart not implemented")
}
func (UnimplementedCartServiceServer) RemoveItem(context.Context, *RemoveItemRequest) (*RemoveItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveItem not implemented")
}
func (UnimplementedCartServiceServer) AddItems(grpc.ClientStreamingServer[AddItemRequest, AddItemsResponse]) error {
	return status.Error(codes.Unimplemented, "method AddItems not implemented")
}
func (UnimplementedCartServiceServer) mustEmbedUnimplementedCartServiceServer() {}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartService_ServiceDesc, srv)
}

func _CartService_GetCart_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetCartRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CartServiceServer).GetCart(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CartService_GetCart_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CartServiceServer).GetCart(ctx, req.(*GetCartRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CartService_CreateCart_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Cart)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CartServiceServer).CreateCart(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CartService_CreateCart_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CartServiceServer).CreateCart(ctx, req.(*Cart))
	}
	return interceptor(ctx, in, info, handler)
}

func _CartService_RemoveItem_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RemoveItemRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CartServiceServer).RemoveItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CartService_RemoveItem_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CartServiceServer).RemoveItem(ctx, req.(*RemoveItemRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CartService_AddItems_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(CartServiceServer).AddItems(&grpc.GenericServerStream[AddItemRequest, AddItemsResponse]{ServerStream: stream})
}

var CartService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cartsync.cart.v1.ShoppingCartService",
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCart", Handler: _CartService_GetCart_Handler},
		{MethodName: "CreateCart", Handler: _CartService_CreateCart_Handler},
		{MethodName: "RemoveItem", Handler: _CartService_RemoveItem_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "AddItems", Handler: _CartService_AddItems_Handler, ClientStreams: true},
	},
	Metadata: "internal/adapter/handler/pb/cart.go",
}
