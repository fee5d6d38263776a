package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
	"github.com/ogurasousui/attendance-payroll/internal/platform/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// LoginMethod は認証なしで呼び出せるログインメソッドです。
const LoginMethod = "/" + api.AuthServiceName + "/Login"

// TokenVerifier はアクセストークンを検証します。
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// IdentityResolver はプロフィール ID から保存済みのロールを解決します。
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, profileID string) (access.Identity, error)
}

// AuthUnaryInterceptor は Bearer トークンを検証し、認証済み主体をコンテキストに格納します。
// publicMethods に含まれるメソッドは検証しません。
func AuthUnaryInterceptor(verifier TokenVerifier, resolver IdentityResolver, publicMethods ...string) grpc.UnaryServerInterceptor {
	public := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if _, ok := public[info.FullMethod]; ok {
			return next(ctx, req)
		}

		raw, err := bearerToken(ctx)
		if err != nil {
			return nil, err
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid access token")
		}

		id, err := resolver.ResolveIdentity(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidArgument) {
				return nil, status.Error(codes.Unauthenticated, "unknown principal")
			}
			return nil, toStatusError(err)
		}

		return next(ContextWithIdentity(ctx, id), req)
	}
}

func bearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "authorization metadata is required")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization metadata is required")
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(values[0]), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", status.Error(codes.Unauthenticated, "authorization must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}
