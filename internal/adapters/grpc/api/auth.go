package api

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AuthServiceName は認証サービスの完全修飾名です。
const AuthServiceName = "auth.v1.AuthService"

// Profile はプロフィールの表現です。
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest はログインリクエストです。
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse はアクセストークンとプロフィールを返します。
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Profile     *Profile  `json:"profile"`
}

// ProfileResponse はプロフィールを返すレスポンスです。
type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

// ChangePasswordRequest はパスワード変更リクエストです。
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateRoleRequest はロール変更リクエストです。
type UpdateRoleRequest struct {
	ProfileID string `json:"profile_id"`
	Role      string `json:"role"`
}

// AuthServiceServer は AuthService のサーバー実装です。
type AuthServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *emptypb.Empty) (*ProfileResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*emptypb.Empty, error)
	UpdateRole(context.Context, *UpdateRoleRequest) (*ProfileResponse, error)
}

// AuthServiceDesc は AuthService のサービス定義です。
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuthServiceName, "Login", func(srv any, ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
			return srv.(AuthServiceServer).Login(ctx, req)
		}),
		unary(AuthServiceName, "Me", func(srv any, ctx context.Context, req *emptypb.Empty) (*ProfileResponse, error) {
			return srv.(AuthServiceServer).Me(ctx, req)
		}),
		unary(AuthServiceName, "ChangePassword", func(srv any, ctx context.Context, req *ChangePasswordRequest) (*emptypb.Empty, error) {
			return srv.(AuthServiceServer).ChangePassword(ctx, req)
		}),
		unary(AuthServiceName, "UpdateRole", func(srv any, ctx context.Context, req *UpdateRoleRequest) (*ProfileResponse, error) {
			return srv.(AuthServiceServer).UpdateRole(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auth/v1/auth.proto",
}

// RegisterAuthServiceServer は AuthService を登録します。
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

// AuthServiceClient は AuthService のクライアントです。
type AuthServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient は AuthServiceClient を生成します。
func NewAuthServiceClient(cc grpc.ClientConnInterface) *AuthServiceClient {
	return &AuthServiceClient{cc: cc}
}

// Login は AuthService.Login を呼び出します。
func (c *AuthServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "/"+AuthServiceName+"/Login", in, opts...)
}

// Me は AuthService.Me を呼び出します。
func (c *AuthServiceClient) Me(ctx context.Context, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "/"+AuthServiceName+"/Me", &emptypb.Empty{}, opts...)
}

// ChangePassword は AuthService.ChangePassword を呼び出します。
func (c *AuthServiceClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "/"+AuthServiceName+"/ChangePassword", in, opts...)
	return err
}

// UpdateRole は AuthService.UpdateRole を呼び出します。
func (c *AuthServiceClient) UpdateRole(ctx context.Context, in *UpdateRoleRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "/"+AuthServiceName+"/UpdateRole", in, opts...)
}
