package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

// PostgreSQL のエラーコードです。
const (
	UniqueViolationCode     = "23505"
	ForeignKeyViolationCode = "23503"
	CheckViolationCode      = "23514"
)

// ConstraintViolation は err が制約違反であればそのコードと制約名を返します。
func ConstraintViolation(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	switch pgErr.Code {
	case UniqueViolationCode, ForeignKeyViolationCode, CheckViolationCode:
		return pgErr.Code, pgErr.ConstraintName, true
	default:
		return "", "", false
	}
}

// StoreError は解釈できない永続化層の失敗を apperr.ErrStore でラップします。
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrStore) {
		return err
	}
	return fmt.Errorf("postgres: %s: %w: %w", op, apperr.ErrStore, err)
}
