package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The Catalog service is declared by hand on protobuf well-known types, so it
// needs no generated code. Clients call it with the method names below.
const (
	CatalogServiceName     = "moviestore.v1.Catalog"
	GetMovieInfoMethod     = "/moviestore.v1.Catalog/GetMovieInfo"
	CheckMovieExistsMethod = "/moviestore.v1.Catalog/CheckMovieExists"
	GetTrendingMethod      = "/moviestore.v1.Catalog/GetTrending"
)

// CatalogServer is the server API of moviestore.v1.Catalog.
type CatalogServer interface {
	GetMovieInfo(ctx context.Context, movieID *wrapperspb.StringValue) (*structpb.Struct, error)
	CheckMovieExists(ctx context.Context, movieID *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	GetTrending(ctx context.Context, region *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterCatalogServer attaches srv to a gRPC server.
func RegisterCatalogServer(s gogrpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

func getMovieInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor gogrpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetMovieInfo(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: GetMovieInfoMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).GetMovieInfo(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func checkMovieExistsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor gogrpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).CheckMovieExists(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: CheckMovieExistsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).CheckMovieExists(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getTrendingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor gogrpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetTrending(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: GetTrendingMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).GetTrending(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogServiceDesc describes moviestore.v1.Catalog to the gRPC runtime.
var CatalogServiceDesc = gogrpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "GetMovieInfo", Handler: getMovieInfoHandler},
		{MethodName: "CheckMovieExists", Handler: checkMovieExistsHandler},
		{MethodName: "GetTrending", Handler: getTrendingHandler},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "moviestore/v1/catalog.proto",
}
