package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	pgdb "github.com/ogurasousui/attendance-payroll/internal/platform/db/postgres"
)

const profileColumns = `id, email, first_name, last_name, role, password_hash, created_at, updated_at`

// ProfileRepository は PostgreSQL を利用したプロフィール永続化の実装です。
type ProfileRepository struct {
	pool pgdb.Queryer
}

// NewProfileRepository は ProfileRepository を生成します。
func NewProfileRepository(pool pgdb.Queryer) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Create はプロフィールを新規作成します。
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO profiles (email, first_name, last_name, role, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+profileColumns,
		p.Email,
		p.FirstName,
		p.LastName,
		string(p.Role),
		p.PasswordHash,
		p.CreatedAt,
		p.UpdatedAt,
	)

	created, err := scanProfile(row)
	if err != nil {
		return nil, translateProfilePgError("create profile", err)
	}
	return created, nil
}

// Update はプロフィールを更新します。
func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE profiles
           SET email = $1,
               first_name = $2,
               last_name = $3,
               role = $4,
               password_hash = $5,
               updated_at = $6
         WHERE id = $7
        RETURNING `+profileColumns,
		p.Email,
		p.FirstName,
		p.LastName,
		string(p.Role),
		p.PasswordHash,
		p.UpdatedAt,
		p.ID,
	)

	updated, err := scanProfile(row)
	if err != nil {
		return nil, translateProfilePgError("update profile", err)
	}
	return updated, nil
}

// FindByID は ID でプロフィールを取得します。
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)

	found, err := scanProfile(row)
	if err != nil {
		return nil, translateProfilePgError("find profile", err)
	}
	return found, nil
}

// FindByEmail はメールアドレスでプロフィールを取得します。
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)

	found, err := scanProfile(row)
	if err != nil {
		return nil, translateProfilePgError("find profile by email", err)
	}
	return found, nil
}

// HasEmployee はプロフィールに社員レコードが紐づくかを返します。
func (r *ProfileRepository) HasEmployee(ctx context.Context, id string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, pgdb.StoreError("check employee", err)
	}
	return exists, nil
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var (
		p         profile.Profile
		role      string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&role,
		&p.PasswordHash,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	p.Role = access.Role(role)
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}

func translateProfilePgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return profile.ErrProfileNotFound
	}

	if code, constraint, ok := pgdb.ConstraintViolation(err); ok {
		switch {
		case code == pgdb.UniqueViolationCode:
			return profile.ErrEmailAlreadyExists
		case constraint == "profiles_role_check":
			return access.ErrInvalidRole
		case constraint == "profiles_email_lower_check":
			return profile.ErrInvalidEmail
		}
	}

	return pgdb.StoreError(op, err)
}
