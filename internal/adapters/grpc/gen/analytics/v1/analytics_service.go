// Package analyticsv1 は turnover.analytics.v1.AnalyticsService のサービス定義です。
// リクエストとレスポンスは google.protobuf.Struct で表現し、フィールド名は snake_case です。
package analyticsv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "turnover.analytics.v1.AnalyticsService"

const (
	AnalyticsService_ListFilterOptions_FullMethodName     = "/" + ServiceName + "/ListFilterOptions"
	AnalyticsService_GetHeadcount_FullMethodName          = "/" + ServiceName + "/GetHeadcount"
	AnalyticsService_GetTerminationReasons_FullMethodName = "/" + ServiceName + "/GetTerminationReasons"
	AnalyticsService_GetTimeMetrics_FullMethodName        = "/" + ServiceName + "/GetTimeMetrics"
	AnalyticsService_FindReplacements_FullMethodName      = "/" + ServiceName + "/FindReplacements"
	AnalyticsService_ListTitles_FullMethodName            = "/" + ServiceName + "/ListTitles"
	AnalyticsService_ReloadSnapshot_FullMethodName        = "/" + ServiceName + "/ReloadSnapshot"
)

// AnalyticsServiceServer はサーバー側の実装が満たすインターフェースです。
type AnalyticsServiceServer interface {
	ListFilterOptions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHeadcount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTerminationReasons(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTimeMetrics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindReplacements(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTitles(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReloadSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedAnalyticsServiceServer()
}

// UnimplementedAnalyticsServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedAnalyticsServiceServer struct{}

func (UnimplementedAnalyticsServiceServer) ListFilterOptions(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListFilterOptions not implemented")
}

func (UnimplementedAnalyticsServiceServer) GetHeadcount(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHeadcount not implemented")
}

func (UnimplementedAnalyticsServiceServer) GetTerminationReasons(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTerminationReasons not implemented")
}

func (UnimplementedAnalyticsServiceServer) GetTimeMetrics(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTimeMetrics not implemented")
}

func (UnimplementedAnalyticsServiceServer) FindReplacements(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FindReplacements not implemented")
}

func (UnimplementedAnalyticsServiceServer) ListTitles(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTitles not implemented")
}

func (UnimplementedAnalyticsServiceServer) ReloadSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ReloadSnapshot not implemented")
}

func (UnimplementedAnalyticsServiceServer) mustEmbedUnimplementedAnalyticsServiceServer() {}

// RegisterAnalyticsServiceServer はサービスをサーバーに登録します。
func RegisterAnalyticsServiceServer(s grpc.ServiceRegistrar, srv AnalyticsServiceServer) {
	s.RegisterService(&AnalyticsService_ServiceDesc, srv)
}

type unaryMethod func(AnalyticsServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AnalyticsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AnalyticsServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AnalyticsService_ServiceDesc は AnalyticsService の grpc.ServiceDesc です。
var AnalyticsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyticsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListFilterOptions",
			Handler:    unaryHandler(AnalyticsService_ListFilterOptions_FullMethodName, AnalyticsServiceServer.ListFilterOptions),
		},
		{
			MethodName: "GetHeadcount",
			Handler:    unaryHandler(AnalyticsService_GetHeadcount_FullMethodName, AnalyticsServiceServer.GetHeadcount),
		},
		{
			MethodName: "GetTerminationReasons",
			Handler:    unaryHandler(AnalyticsService_GetTerminationReasons_FullMethodName, AnalyticsServiceServer.GetTerminationReasons),
		},
		{
			MethodName: "GetTimeMetrics",
			Handler:    unaryHandler(AnalyticsService_GetTimeMetrics_FullMethodName, AnalyticsServiceServer.GetTimeMetrics),
		},
		{
			MethodName: "FindReplacements",
			Handler:    unaryHandler(AnalyticsService_FindReplacements_FullMethodName, AnalyticsServiceServer.FindReplacements),
		},
		{
			MethodName: "ListTitles",
			Handler:    unaryHandler(AnalyticsService_ListTitles_FullMethodName, AnalyticsServiceServer.ListTitles),
		},
		{
			MethodName: "ReloadSnapshot",
			Handler:    unaryHandler(AnalyticsService_ReloadSnapshot_FullMethodName, AnalyticsServiceServer.ReloadSnapshot),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "turnover/analytics/v1/analytics.proto",
}

// AnalyticsServiceClient はクライアント側のインターフェースです。
type AnalyticsServiceClient interface {
	ListFilterOptions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetHeadcount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTerminationReasons(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTimeMetrics(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	FindReplacements(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListTitles(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ReloadSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type analyticsServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAnalyticsServiceClient はクライアントを生成します。
func NewAnalyticsServiceClient(cc grpc.ClientConnInterface) AnalyticsServiceClient {
	return &analyticsServiceClient{cc: cc}
}

func (c *analyticsServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *analyticsServiceClient) ListFilterOptions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalyticsService_ListFilterOptions_FullMethodName, in, opts)
}

func (c *analyticsServiceClient) GetHeadcount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalyticsService_GetHeadcount_FullMethodName, in, opts)
}

func (c *analyticsServiceClient) GetTerminationReasons(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalyticsService_GetTerminationReasons_FullMethodName, in, opts)
}

func (c *analyticsServiceClient) GetTimeMetrics(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalyticsService_GetTimeMetrics_FullMethodName, in, opts)
}

func (c *analyticsServiceClient) FindReplacements(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalyticsService_FindReplacements_FullMethodName, in, opts)
}

func (c *analyticsServiceClient) ListTitles(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalyticsService_ListTitles_FullMethodName, in, opts)
}

func (c *analyticsServiceClient) ReloadSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalyticsService_ReloadSnapshot_FullMethodName, in, opts)
}
