package handler

import (
	"fmt"
	"testing"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	"github.com/ogurasousui/attendance-payroll/internal/core/payroll"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   codes.Code
		reason string
	}{
		{"open session conflict", attendance.ErrOpenSessionExists, codes.AlreadyExists, "CONFLICT"},
		{"payroll exists", payroll.ErrPayrollExists, codes.AlreadyExists, "CONFLICT"},
		{"already punched out", attendance.ErrAlreadyPunchedOut, codes.FailedPrecondition, "INVALID_STATE"},
		{"skip transition", payroll.ErrInvalidTransition, codes.FailedPrecondition, "INVALID_STATE"},
		{"negative range", attendance.ErrInvalidTimeRange, codes.InvalidArgument, "INVALID_TIME_RANGE"},
		{"invalid location", attendance.ErrInvalidLocation, codes.InvalidArgument, "INVALID_ARGUMENT"},
		{"not found", attendance.ErrRecordNotFound, codes.NotFound, "NOT_FOUND"},
		{"permission", access.ErrPermissionDenied, codes.PermissionDenied, "PERMISSION_DENIED"},
		{"bad credentials", profile.ErrInvalidCredentials, codes.Unauthenticated, "UNAUTHENTICATED"},
		{"store failure", fmt.Errorf("list attendance: %w: %w", apperr.ErrStore, errBoom), codes.Unavailable, "STORE_FAILURE"},
		{"unclassified", errBoom, codes.Internal, "INTERNAL"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := toStatusError(tt.err)
			assertCode(t, err, tt.code)
			if got := errorReason(t, err); got != tt.reason {
				t.Fatalf("expected reason %s, got %s", tt.reason, got)
			}
		})
	}
}

func TestToStatusError_HidesStoreDetails(t *testing.T) {
	t.Parallel()

	err := toStatusError(fmt.Errorf("postgres: %w: connection reset by peer", apperr.ErrStore))
	st, _ := status.FromError(err)
	if st.Message() != "store is unavailable" {
		t.Fatalf("expected store details to be hidden, got %q", st.Message())
	}
}

func TestToStatusError_PassesThroughStatus(t *testing.T) {
	t.Parallel()

	original := status.Error(codes.Unauthenticated, "authentication required")
	if got := toStatusError(original); got != original {
		t.Fatalf("expected status error to pass through, got %v", got)
	}
	if toStatusError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
