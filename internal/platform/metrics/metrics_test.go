package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const punchIn = "/attendance.v1.AttendanceService/PunchIn"

func TestUnaryServerInterceptor_CountsByCode(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	interceptor := m.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: punchIn}

	ok := func(context.Context, any) (any, error) { return "ok", nil }
	conflict := func(context.Context, any) (any, error) {
		return nil, status.Error(codes.AlreadyExists, "open session already exists")
	}

	for i := 0; i < 2; i++ {
		if _, err := interceptor(context.Background(), nil, info, ok); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := interceptor(context.Background(), nil, info, conflict); status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues(punchIn, codes.OK.String())); got != 2 {
		t.Fatalf("expected 2 OK calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(punchIn, codes.AlreadyExists.String())); got != 1 {
		t.Fatalf("expected 1 AlreadyExists call, got %v", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}

func TestNew_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}
