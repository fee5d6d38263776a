package profile

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
)

// MinPasswordLength はパスワードの最小文字数です。
const MinPasswordLength = 8

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (access.Identity, bool) { return access.Identity{}, false }
func (noopCache) Set(context.Context, access.Identity)                {}
func (noopCache) Invalidate(context.Context, string)                  {}

// Service はプロフィールと認証に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	hasher PasswordHasher
	cache  IdentityCache
	clock  Clock
}

// UseCase はプロフィールユースケースの公開インターフェースです。
type UseCase interface {
	Authenticate(ctx context.Context, in AuthenticateInput) (*Profile, error)
	ResolveIdentity(ctx context.Context, profileID string) (access.Identity, error)
	GetProfile(ctx context.Context, in GetProfileInput) (*Profile, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	UpdateRole(ctx context.Context, in UpdateRoleInput) (*Profile, error)
}

// NewService は Service を生成します。cache が nil の場合はキャッシュを使いません。
func NewService(repo Repository, hasher PasswordHasher, cache IdentityCache, clock Clock) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, hasher: hasher, cache: cache, clock: clock}
}

// AuthenticateInput はログイン時の入力です。
type AuthenticateInput struct {
	Email    string
	Password string
}

// GetProfileInput はプロフィール取得時の入力です。ID が空の場合は呼び出し元自身を返します。
type GetProfileInput struct {
	Actor access.Identity
	ID    string
}

// ChangePasswordInput はパスワード変更時の入力です。
type ChangePasswordInput struct {
	Actor           access.Identity
	CurrentPassword string
	NewPassword     string
}

// UpdateRoleInput はロール変更時の入力です。
type UpdateRoleInput struct {
	Actor access.Identity
	ID    string
	Role  access.Role
}

// CreateAdminInput は管理者プロフィール作成時の入力です。
type CreateAdminInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// CreateAdmin は管理者プロフィールを作成します。最初の管理者を用意する運用コマンドから呼び出されます。
func (s *Service) CreateAdmin(ctx context.Context, in CreateAdminInput) (*Profile, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, ErrInvalidFirstName
	}
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, ErrInvalidLastName
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("profile: hash password: %w", err)
	}

	now := s.clock.Now()
	return s.repo.Create(ctx, &Profile{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         access.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Authenticate はメールアドレスとパスワードを照合します。
func (s *Service) Authenticate(ctx context.Context, in AuthenticateInput) (*Profile, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(found.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.cache.Set(ctx, found.Identity())
	return found, nil
}

// ResolveIdentity は保存されているロールから主体を組み立てます。
func (s *Service) ResolveIdentity(ctx context.Context, profileID string) (access.Identity, error) {
	id, err := NormalizeID(profileID)
	if err != nil {
		return access.Identity{}, err
	}

	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return access.Identity{}, err
	}

	identity := found.Identity()
	s.cache.Set(ctx, identity)
	return identity, nil
}

// GetProfile はプロフィールを取得します。
func (s *Service) GetProfile(ctx context.Context, in GetProfileInput) (*Profile, error) {
	if err := access.Validate(in.Actor); err != nil {
		return nil, err
	}

	target := in.Actor.ProfileID
	if strings.TrimSpace(in.ID) != "" {
		id, err := NormalizeID(in.ID)
		if err != nil {
			return nil, err
		}
		target = id
	}

	if !access.CanView(in.Actor, access.ActionViewEmployee, target) {
		return nil, ErrProfileNotFound
	}

	return s.repo.FindByID(ctx, target)
}

// ChangePassword は呼び出し元自身のパスワードを変更します。
func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := access.Validate(in.Actor); err != nil {
		return err
	}
	if err := ValidatePassword(in.NewPassword); err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, in.Actor.ProfileID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(existing.PasswordHash, in.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("profile: hash password: %w", err)
	}

	existing.PasswordHash = hash
	existing.UpdatedAt = s.clock.Now()

	_, err = s.repo.Update(ctx, existing)
	return err
}

// UpdateRole はプロフィールのロールを変更します。管理者のみ実行でき、自身のロールと社員レコードを持つプロフィールの昇格は変更できません。
func (s *Service) UpdateRole(ctx context.Context, in UpdateRoleInput) (*Profile, error) {
	if err := access.Require(in.Actor, access.ActionManageRole); err != nil {
		return nil, err
	}

	id, err := NormalizeID(in.ID)
	if err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, access.ErrInvalidRole
	}
	if id == in.Actor.ProfileID {
		return nil, ErrOwnRoleChange
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Role == in.Role {
		return existing, nil
	}

	if in.Role != access.RoleEmployee {
		hasEmployee, err := s.repo.HasEmployee(ctx, id)
		if err != nil {
			return nil, err
		}
		if hasEmployee {
			return nil, ErrEmployeePromotion
		}
	}

	existing.Role = in.Role
	existing.UpdatedAt = s.clock.Now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, updated.ID)
	return updated, nil
}

// NormalizeEmail はメールアドレスを検証し小文字化します。
func NormalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}

// NormalizeID は UUID 形式の ID を正規化します。
func NormalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

// ValidatePassword はパスワードの最低条件を確認します。
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
