package profile

import (
	"context"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
)

// Repository はプロフィール永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, p *Profile) (*Profile, error)
	Update(ctx context.Context, p *Profile) (*Profile, error)
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	HasEmployee(ctx context.Context, id string) (bool, error)
}

// PasswordHasher はパスワードのハッシュ化と照合を行います。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// IdentityCache はプロフィール ID からロールを引く際のキャッシュです。
type IdentityCache interface {
	Get(ctx context.Context, profileID string) (access.Identity, bool)
	Set(ctx context.Context, id access.Identity)
	Invalidate(ctx context.Context, profileID string)
}
