package handler

import (
	"context"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"github.com/ogurasousui/attendance-payroll/internal/platform/auth"
	"google.golang.org/protobuf/types/known/emptypb"
)

// TokenIssuer はログイン成功時にアクセストークンを発行します。
type TokenIssuer interface {
	Issue(profileID, email string) (auth.Token, error)
}

// AuthGrpcHandler は AuthService の gRPC 実装です。
type AuthGrpcHandler struct {
	svc    profile.UseCase
	tokens TokenIssuer
}

// NewAuthGrpcHandler は AuthGrpcHandler を生成します。
func NewAuthGrpcHandler(svc profile.UseCase, tokens TokenIssuer) *AuthGrpcHandler {
	return &AuthGrpcHandler{svc: svc, tokens: tokens}
}

// Login はメールアドレスとパスワードでログインしトークンを返します。
func (h *AuthGrpcHandler) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}

	found, err := h.svc.Authenticate(ctx, profile.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	token, err := h.tokens.Issue(found.ID, found.Email)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.LoginResponse{
		AccessToken: token.Value,
		ExpiresAt:   token.ExpiresAt,
		Profile:     toAPIProfile(found),
	}, nil
}

// Me は呼び出し元のプロフィールを返します。
func (h *AuthGrpcHandler) Me(ctx context.Context, _ *emptypb.Empty) (*api.ProfileResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetProfile(ctx, profile.GetProfileInput{Actor: actor})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.ProfileResponse{Profile: toAPIProfile(found)}, nil
}

// ChangePassword は呼び出し元のパスワードを変更します。
func (h *AuthGrpcHandler) ChangePassword(ctx context.Context, req *api.ChangePasswordRequest) (*emptypb.Empty, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.svc.ChangePassword(ctx, profile.ChangePasswordInput{
		Actor:           actor,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return nil, toStatusError(err)
	}

	return &emptypb.Empty{}, nil
}

// UpdateRole はプロフィールのロールを変更します。
func (h *AuthGrpcHandler) UpdateRole(ctx context.Context, req *api.UpdateRoleRequest) (*api.ProfileResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	role, err := access.ParseRole(req.Role)
	if err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.svc.UpdateRole(ctx, profile.UpdateRoleInput{
		Actor: actor,
		ID:    req.ProfileID,
		Role:  role,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.ProfileResponse{Profile: toAPIProfile(updated)}, nil
}
