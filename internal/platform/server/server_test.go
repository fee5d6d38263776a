package server

import (
	"bytes"
	"context"
	"log"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/handler"
	"github.com/ogurasousui/attendance-payroll/internal/platform/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

func rejectAll(context.Context, any, *grpc.UnaryServerInfo, grpc.UnaryHandler) (any, error) {
	return nil, status.Error(codes.Unauthenticated, "missing bearer token")
}

func TestServer_ServeAndStop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthGrpcHandler(nil, nil),
		Employee:   handler.NewEmployeeGrpcHandler(nil),
		Attendance: handler.NewAttendanceGrpcHandler(nil, nil),
		Payroll:    handler.NewPayrollGrpcHandler(nil, nil),
	}
	srv := New(config.ServerConfig{ListenAddr: "127.0.0.1:0", ShutdownTimeout: time.Second}, handlers, nil,
		LoggingUnaryInterceptor(logger), rejectAll)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()

	_, err = api.NewAttendanceServiceClient(conn).CurrentSession(callCtx)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	logged := buf.String()
	if !strings.Contains(logged, "method=/attendance.v1.AttendanceService/CurrentSession") || !strings.Contains(logged, "code=Unauthenticated") {
		t.Fatalf("unexpected log output: %q", logged)
	}
}

func TestLoggingUnaryInterceptor_SkipsSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	interceptor := LoggingUnaryInterceptor(log.New(&buf, "", 0))

	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/auth.v1.AuthService/Me"},
		func(context.Context, any) (any, error) { return "ok", nil })
	if err != nil || resp != "ok" {
		t.Fatalf("unexpected result: %v, %v", resp, err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no log output, got %q", buf.String())
	}
}
