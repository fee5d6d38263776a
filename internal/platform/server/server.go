package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/handler"
	"github.com/ogurasousui/attendance-payroll/internal/platform/config"
	"google.golang.org/grpc"
)

// Server は gRPC サーバーと運用用 HTTP サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr      string
	shutdownTimeout time.Duration
	grpcServer      *grpc.Server
	opsServer       *http.Server
}

// New は設定に従ってサーバーを構築します。ops が nil、または OpsAddr が空の場合は運用用サーバーを起動しません。
// インターセプターは指定順に実行されます。
func New(cfg config.ServerConfig, handlers handler.Handlers, ops http.Handler, interceptors ...grpc.UnaryServerInterceptor) *Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	handlers.Register(srv)

	s := &Server{
		listenAddr:      cfg.ListenAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
		grpcServer:      srv,
	}
	if ops != nil && cfg.OpsAddr != "" {
		s.opsServer = &http.Server{
			Addr:              cfg.OpsAddr,
			Handler:           ops,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return s
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
// shutdownTimeout を過ぎても終了しない場合は強制停止します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.serve(ctx, lis)
}

func (s *Server) serve(ctx context.Context, lis net.Listener) error {
	opsErr := make(chan error, 1)
	if s.opsServer != nil {
		go func() {
			log.Printf("ops server listening on %s", s.opsServer.Addr)
			if err := s.opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				opsErr <- fmt.Errorf("serve ops http: %w", err)
			}
		}()
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
		case err := <-opsErr:
			log.Printf("%v", err)
		}
		s.shutdown()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	<-stopped

	return nil
}

func (s *Server) shutdown() {
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.opsServer != nil {
		if err := s.opsServer.Shutdown(ctx); err != nil {
			log.Printf("ops server shutdown: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("graceful stop timed out after %s, forcing stop", timeout)
		s.grpcServer.Stop()
	}
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
