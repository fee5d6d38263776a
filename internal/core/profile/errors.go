package profile

import (
	"fmt"

	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

var (
	ErrInvalidID          = fmt.Errorf("profile: invalid id: %w", apperr.ErrInvalidArgument)
	ErrInvalidEmail       = fmt.Errorf("profile: invalid email: %w", apperr.ErrInvalidArgument)
	ErrInvalidFirstName   = fmt.Errorf("profile: invalid first name: %w", apperr.ErrInvalidArgument)
	ErrInvalidLastName    = fmt.Errorf("profile: invalid last name: %w", apperr.ErrInvalidArgument)
	ErrWeakPassword       = fmt.Errorf("profile: password must be at least %d characters: %w", MinPasswordLength, apperr.ErrInvalidArgument)
	ErrInvalidCredentials = fmt.Errorf("profile: invalid credentials: %w", apperr.ErrPermission)
	ErrProfileNotFound    = fmt.Errorf("profile: %w", apperr.ErrNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("profile: email already exists: %w", apperr.ErrConflict)
	ErrOwnRoleChange      = fmt.Errorf("profile: cannot change own role: %w", apperr.ErrInvalidState)
	ErrEmployeePromotion  = fmt.Errorf("profile: profile with an employee record must keep the employee role: %w", apperr.ErrInvalidState)
)
