package handler

import (
	"context"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type identityKey struct{}

// ContextWithIdentity は認証済み主体をコンテキストに格納します。
func ContextWithIdentity(ctx context.Context, id access.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext はコンテキストから認証済み主体を取り出します。
func IdentityFromContext(ctx context.Context) (access.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(access.Identity)
	return id, ok
}

func actorFromContext(ctx context.Context) (access.Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return access.Identity{}, status.Error(codes.Unauthenticated, "authentication required")
	}
	return id, nil
}
