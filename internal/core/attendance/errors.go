package attendance

import (
	"fmt"

	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

var (
	ErrInvalidID         = fmt.Errorf("attendance: invalid id: %w", apperr.ErrInvalidArgument)
	ErrInvalidLocation   = fmt.Errorf("attendance: location must be finite: %w", apperr.ErrInvalidArgument)
	ErrInvalidPeriod     = fmt.Errorf("attendance: invalid period: %w", apperr.ErrInvalidArgument)
	ErrInvalidPageSize   = fmt.Errorf("attendance: invalid page size: %w", apperr.ErrInvalidArgument)
	ErrInvalidPageToken  = fmt.Errorf("attendance: invalid page token: %w", apperr.ErrInvalidArgument)
	ErrInvalidTimeRange  = fmt.Errorf("attendance: punch-out precedes punch-in: %w", apperr.ErrInvalidTimeRange)
	ErrOpenSessionExists = fmt.Errorf("attendance: open session already exists: %w", apperr.ErrConflict)
	ErrRecordNotFound    = fmt.Errorf("attendance: record %w", apperr.ErrNotFound)
	ErrNoOpenSession     = fmt.Errorf("attendance: open session %w", apperr.ErrNotFound)
	ErrAlreadyPunchedOut = fmt.Errorf("attendance: already punched out: %w", apperr.ErrInvalidState)
	ErrEmployeeNotFound  = fmt.Errorf("attendance: employee %w", apperr.ErrNotFound)
)
