package employee

import (
	"fmt"

	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

var (
	ErrInvalidID                 = fmt.Errorf("employee: invalid id: %w", apperr.ErrInvalidArgument)
	ErrInvalidEmployeeCode       = fmt.Errorf("employee: invalid employee code: %w", apperr.ErrInvalidArgument)
	ErrInvalidSalary             = fmt.Errorf("employee: invalid salary component: %w", apperr.ErrInvalidArgument)
	ErrInvalidPageSize           = fmt.Errorf("employee: invalid page size: %w", apperr.ErrInvalidArgument)
	ErrInvalidPageToken          = fmt.Errorf("employee: invalid page token: %w", apperr.ErrInvalidArgument)
	ErrEmployeeNotFound          = fmt.Errorf("employee: %w", apperr.ErrNotFound)
	ErrProfileNotFound           = fmt.Errorf("employee: profile %w", apperr.ErrNotFound)
	ErrEmployeeCodeAlreadyExists = fmt.Errorf("employee: employee code already exists: %w", apperr.ErrConflict)
)
