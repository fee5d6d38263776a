package payroll

import (
	"context"
	"time"
)

// Repository は給与記録永続化の抽象です。
type Repository interface {
	// Create は給与記録を作成します。同じ社員・年月の記録があれば ErrPayrollExists を返します。
	Create(ctx context.Context, record *Record) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	FindByPeriod(ctx context.Context, employeeID string, year int, month time.Month) (*Record, error)
	// UpdateStatus は保存済みのステータスが from と一致する場合のみ更新します。
	UpdateStatus(ctx context.Context, record *Record, from Status) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]*Record, string, error)
}

// ListFilter は一覧取得用フィルタです。0 や空文字列の項目は絞り込みに使いません。
type ListFilter struct {
	EmployeeID string
	Year       int
	Month      time.Month
	Status     Status
	Limit      int
	Offset     int
}
