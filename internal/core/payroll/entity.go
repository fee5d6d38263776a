package payroll

import (
	"strings"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/money"
	"github.com/shopspring/decimal"
)

// Status は給与記録の処理状況です。pending → processed → paid の順にのみ進みます。
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusPaid      Status = "paid"
)

// ParseStatus は文字列をステータスに変換します。
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusPending, StatusProcessed, StatusPaid:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Next は現在のステータスから遷移可能な次のステータスを返します。
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusProcessed, true
	case StatusProcessed:
		return StatusPaid, true
	default:
		return "", false
	}
}

// CanAdvanceTo は next への遷移が許可されているかを返します。段階の飛ばしは許可しません。
func (s Status) CanAdvanceTo(next Status) bool {
	allowed, ok := s.Next()
	return ok && allowed == next
}

// Record は給与記録エンティティです。金額は生成時点の社員情報のスナップショットです。
type Record struct {
	ID              string
	EmployeeID      string
	Year            int
	Month           time.Month
	DaysWorked      int
	BasicSalary     decimal.Decimal
	DA              decimal.Decimal
	HRA             decimal.Decimal
	OtherAllowances decimal.Decimal
	GrossSalary     decimal.Decimal
	Deductions      decimal.Decimal
	NetSalary       decimal.Decimal
	Status          Status
	ProcessedAt     *time.Time
	ProcessedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Period は "2025-03" 形式の対象期間を返します。
func (r *Record) Period() string {
	return time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Gross は 4 つの給与要素の合計です。
func Gross(basic, da, hra, other decimal.Decimal) decimal.Decimal {
	return money.Sum(basic, da, hra, other)
}
