package pb

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Product struct {
	ProductId   int64     `json:"productId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Status      string    `json:"status"`
	CreatedTime time.Time `json:"createdTime"`
}

type ListProductsRequest struct{}

type GetProductRequest struct {
	ProductId int64 `json:"productId"`
}

func (x *GetProductRequest) GetProductId() int64 {
	if x != nil {
		return x.ProductId
	}
	return 0
}

type AddProductRequest struct {
	Product *Product `json:"product"`
}

func (x *AddProductRequest) GetProduct() *Product {
	if x != nil {
		return x.Product
	}
	return nil
}

type UpdateProductRequest struct {
	Product *Product `json:"product"`
}

func (x *UpdateProductRequest) GetProduct() *Product {
	if x != nil {
		return x.Product
	}
	return nil
}

type DeleteProductRequest struct {
	ProductId int64 `json:"productId"`
}

func (x *DeleteProductRequest) GetProductId() int64 {
	if x != nil {
		return x.ProductId
	}
	return 0
}

type DeleteProductResponse struct {
	Success bool `json:"success"`
}

type InsertBulkProductResponse struct {
	Success     bool  `json:"success"`
	InsertCount int32 `json:"insertCount"`
}

const (
	CatalogService_ListProducts_FullMethodName      = "/cartsync.catalog.v1.CatalogService/ListProducts"
	CatalogService_GetProduct_FullMethodName        = "/cartsync.catalog.v1.CatalogService/GetProduct"
	CatalogService_AddProduct_FullMethodName        = "/cartsync.catalog.v1.CatalogService/AddProduct"
	CatalogService_UpdateProduct_FullMethodName     = "/cartsync.catalog.v1.CatalogService/UpdateProduct"
	CatalogService_DeleteProduct_FullMethodName     = "/cartsync.catalog.v1.CatalogService/DeleteProduct"
	CatalogService_InsertBulkProduct_FullMethodName = "/cartsync.catalog.v1.CatalogService/InsertBulkProduct"
)

type CatalogServiceClient interface {
	ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Product], error)
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*Product, error)
	AddProduct(ctx context.Context, in *AddProductRequest, opts ...grpc.CallOption) (*Product, error)
	UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*Product, error)
	DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*DeleteProductResponse, error)
	InsertBulkProduct(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[Product, InsertBulkProductResponse], error)
}

type catalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) CatalogServiceClient {
	return &catalogServiceClient{cc}
}

func (c *catalogServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Product], error) {
	stream, err := c.cc.NewStream(ctx, &CatalogService_ServiceDesc.Streams[0], CatalogService_ListProducts_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[ListProductsRequest, Product]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *catalogServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*Product, error) {
	out := new(Product)
	if err := c.cc.Invoke(ctx, CatalogService_GetProduct_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogServiceClient) AddProduct(ctx context.Context, in *AddProductRequest, opts ...grpc.CallOption) (*Product, error) {
	out := new(Product)
	if err := c.cc.Invoke(ctx, CatalogService_AddProduct_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogServiceClient) UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*Product, error) {
	out := new(Product)
	if err := c.cc.Invoke(ctx, CatalogService_UpdateProduct_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogServiceClient) DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*DeleteProductResponse, error) {
	out := new(DeleteProductResponse)
	if err := c.cc.Invoke(ctx, CatalogService_DeleteProduct_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogServiceClient) InsertBulkProduct(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[Product, InsertBulkProductResponse], error) {
	stream, err := c.cc.NewStream(ctx, &CatalogService_ServiceDesc.Streams[1], CatalogService_InsertBulkProduct_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[Product, InsertBulkProductResponse]{ClientStream: stream}, nil
}

type CatalogServiceServer interface {
	ListProducts(*ListProductsRequest, grpc.ServerStreamingServer[Product]) error
	GetProduct(context.Context, *GetProductRequest) (*Product, error)
	AddProduct(context.Context, *AddProductRequest) (*Product, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*Product, error)
	DeleteProduct(context.Context, *DeleteProductRequest) (*DeleteProductResponse, error)
	InsertBulkProduct(grpc.ClientStreamingServer[Product, InsertBulkProductResponse]) error
	mustEmbedUnimplementedCatalogServiceServer()
}

type UnimplementedCatalogServiceServer struct{}

func (UnimplementedCatalogServiceServer) ListProducts(*ListProductsRequest, grpc.ServerStreamingServer[Product]) error {
	return status.Error(codes.Unimplemented, "method ListProducts not implemented")
}
func (UnimplementedCatalogServiceServer) GetProduct(context.Context, *GetProductRequest) (*Product, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}
func (UnimplementedCatalogServiceServer) AddProduct(context.Context, *AddProductRequest) (*Product, error) {
	return nil, status.Error(codes.Unimplemented, "method AddProduct not implemented")
}
func (UnimplementedCatalogServiceServer) UpdateProduct(context.Context, *UpdateProductRequest) (*Product, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateProduct not implemented")
}
func (UnimplementedCatalogServiceServer) DeleteProduct(context.Context, *DeleteProductRequest) (*DeleteProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteProduct not implemented")
}
func (UnimplementedCatalogServiceServer) InsertBulkProduct(grpc.ClientStreamingServer[Product, InsertBulkProductResponse]) error {
	return status.Error(codes.Unimplemented, "method InsertBulkProduct not implemented")
}
func (UnimplementedCatalogServiceServer) mustEmbedUnimplementedCatalogServiceServer() {}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

func _CatalogService_ListProducts_Handler(srv any, stream grpc.ServerStream) error {
	m := new(ListProductsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(CatalogServiceServer).ListProducts(m, &grpc.GenericServerStream[ListProductsRequest, Product]{ServerStream: stream})
}

func _CatalogService_InsertBulkProduct_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(CatalogServiceServer).InsertBulkProduct(&grpc.GenericServerStream[Product, InsertBulkProductResponse]{ServerStream: stream})
}

func _CatalogService_GetProduct_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetProductRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServiceServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CatalogService_GetProduct_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServiceServer).GetProduct(ctx, req.(*GetProductRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CatalogService_AddProduct_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddProductRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServiceServer).AddProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CatalogService_AddProduct_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServiceServer).AddProduct(ctx, req.(*AddProductRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CatalogService_UpdateProduct_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdateProductRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServiceServer).UpdateProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CatalogService_UpdateProduct_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServiceServer).UpdateProduct(ctx, req.(*UpdateProductRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CatalogService_DeleteProduct_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteProductRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServiceServer).DeleteProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CatalogService_DeleteProduct_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServiceServer).DeleteProduct(ctx, req.(*DeleteProductRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cartsync.catalog.v1.CatalogService",
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProduct", Handler: _CatalogService_GetProduct_Handler},
		{MethodName: "AddProduct", Handler: _CatalogService_AddProduct_Handler},
		{MethodName: "UpdateProduct", Handler: _CatalogService_UpdateProduct_Handler},
		{MethodName: "DeleteProduct", Handler: _CatalogService_DeleteProduct_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "ListProducts", Handler: _CatalogService_ListProducts_Handler, ServerStreams: true},
		{StreamName: "InsertBulkProduct", Handler: _CatalogService_InsertBulkProduct_Handler, ClientStreams: true},
	},
	Metadata: "internal/adapter/handler/pb/catalog.go",
}
