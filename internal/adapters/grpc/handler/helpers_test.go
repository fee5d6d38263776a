package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	adminID    = "0f8fad5b-d9cb-469f-a165-70867728950e"
	employeeID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func adminCtx() context.Context {
	return ContextWithIdentity(context.Background(), access.Identity{ProfileID: adminID, Role: access.RoleAdmin})
}

func employeeCtx() context.Context {
	return ContextWithIdentity(context.Background(), access.Identity{ProfileID: employeeID, Role: access.RoleEmployee})
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected gRPC status error, got %v", err)
	}
	if st.Code() != want {
		t.Fatalf("expected %s, got %s (%s)", want, st.Code(), st.Message())
	}
}

func errorReason(t *testing.T, err error) string {
	t.Helper()

	st, _ := status.FromError(err)
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	t.Fatalf("expected ErrorInfo detail in %v", err)
	return ""
}

var errBoom = errors.New("boom")
