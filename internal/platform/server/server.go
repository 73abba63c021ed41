package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	analyticspb "github.com/ogurasousui/turnover-analytics/internal/adapters/grpc/gen/analytics/v1"
	"github.com/ogurasousui/turnover-analytics/internal/adapters/grpc/handler"
	"github.com/ogurasousui/turnover-analytics/internal/core/analytics"
	"google.golang.org/grpc"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	listener   net.Listener
}

// New は指定されたアドレスで待ち受け、AnalyticsService を公開する gRPC サーバーを構築します。
func New(listenAddr string, svc analytics.UseCase, opts ...grpc.ServerOption) *Server {
	srv := grpc.NewServer(opts...)
	analyticsHandler := handler.NewAnalyticsGrpcHandler(svc)
	analyticspb.RegisterAnalyticsServiceServer(srv, analyticsHandler)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis := s.listener
	if lis == nil {
		var err error
		lis, err = net.Listen("tcp", s.listenAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
		}
	}

	go func() {
		<-ctx.Done()
		s.grpcServer.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// ServeListener は事前に確保したリスナーで待ち受けるよう設定します。
func (s *Server) ServeListener(lis net.Listener) {
	s.listener = lis
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
