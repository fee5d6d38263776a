package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository は勤怠記録永続化の抽象です。
type Repository interface {
	// Create は勤務中の記録を作成します。同じ社員の勤務中記録が既にあれば ErrOpenSessionExists を返します。
	Create(ctx context.Context, record *Record) (*Record, error)
	// Close は勤務中の記録にのみ退勤情報を書き込みます。既に退勤済みなら ErrAlreadyPunchedOut を返します。
	Close(ctx context.Context, record *Record) (*Record, error)
	SetFieldVisit(ctx context.Context, id string, isFieldVisit bool, updatedAt time.Time) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	FindOpenByEmployee(ctx context.Context, employeeID string) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]*Record, string, error)
	Summarize(ctx context.Context, employeeID string, from, to time.Time) (*Totals, error)
}

// ListFilter は一覧取得用フィルタです。From は含み To は含みません。
type ListFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// Totals は期間内に出勤した記録の集計値です。
type Totals struct {
	TotalHours     decimal.Decimal
	Records        int
	CompletedCount int
	FieldVisits    int
}
