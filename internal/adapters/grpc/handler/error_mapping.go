package handler

import (
	"errors"
	"log"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain は ErrorInfo の domain です。
const ErrorDomain = "attendance-payroll"

func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, profile.ErrInvalidCredentials), errors.Is(err, access.ErrInvalidIdentity):
		return withReason(codes.Unauthenticated, "UNAUTHENTICATED", err.Error())
	}

	switch apperr.Kind(err) {
	case apperr.ErrPermission:
		return withReason(codes.PermissionDenied, "PERMISSION_DENIED", err.Error())
	case apperr.ErrInvalidArgument:
		return withReason(codes.InvalidArgument, "INVALID_ARGUMENT", err.Error())
	case apperr.ErrInvalidTimeRange:
		return withReason(codes.InvalidArgument, "INVALID_TIME_RANGE", err.Error())
	case apperr.ErrInvalidState:
		return withReason(codes.FailedPrecondition, "INVALID_STATE", err.Error())
	case apperr.ErrConflict:
		return withReason(codes.AlreadyExists, "CONFLICT", err.Error())
	case apperr.ErrNotFound:
		return withReason(codes.NotFound, "NOT_FOUND", err.Error())
	case apperr.ErrStore:
		log.Printf("store failure: %v", err)
		return withReason(codes.Unavailable, "STORE_FAILURE", "store is unavailable")
	default:
		log.Printf("unclassified error: %v", err)
		return withReason(codes.Internal, "INTERNAL", "internal error")
	}
}

func withReason(code codes.Code, reason, msg string) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: ErrorDomain,
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

func invalidArgument(msg string) error {
	return withReason(codes.InvalidArgument, "INVALID_ARGUMENT", msg)
}
