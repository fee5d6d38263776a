package payroll

import (
	"fmt"

	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

var (
	ErrInvalidID         = fmt.Errorf("payroll: invalid id: %w", apperr.ErrInvalidArgument)
	ErrInvalidStatus     = fmt.Errorf("payroll: invalid status: %w", apperr.ErrInvalidArgument)
	ErrInvalidPeriod     = fmt.Errorf("payroll: invalid period: %w", apperr.ErrInvalidArgument)
	ErrInvalidPageSize   = fmt.Errorf("payroll: invalid page size: %w", apperr.ErrInvalidArgument)
	ErrInvalidPageToken  = fmt.Errorf("payroll: invalid page token: %w", apperr.ErrInvalidArgument)
	ErrInvalidDeductions = fmt.Errorf("payroll: deductions exceed gross salary: %w", apperr.ErrInvalidArgument)
	ErrPayrollExists     = fmt.Errorf("payroll: record already exists for period: %w", apperr.ErrConflict)
	ErrPayrollNotFound   = fmt.Errorf("payroll: %w", apperr.ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("payroll: status transition not allowed: %w", apperr.ErrInvalidState)
	ErrStatusChanged     = fmt.Errorf("payroll: status changed concurrently: %w", apperr.ErrInvalidState)
)
