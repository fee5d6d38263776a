package employee

import (
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/money"
	"github.com/shopspring/decimal"
)

// Employee は社員エンティティです。ID はプロフィール ID と同一です。
type Employee struct {
	ID           string
	EmployeeCode string
	Department   string
	Position     string
	JoinDate     *time.Time
	Salary       SalaryComponents
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Profile      *ProfileSnapshot
}

// SalaryComponents は月額給与の構成要素です。各要素は独立した値で、互いに導出されません。
type SalaryComponents struct {
	Basic           decimal.Decimal
	DA              decimal.Decimal
	HRA             decimal.Decimal
	OtherAllowances decimal.Decimal
}

// Gross は構成要素の合計を返します。
func (s SalaryComponents) Gross() decimal.Decimal {
	return money.Sum(s.Basic, s.DA, s.HRA, s.OtherAllowances)
}

// ProfileSnapshot は社員に紐づくプロフィール情報のスナップショットです。
type ProfileSnapshot struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      string
	CreatedAt time.Time
}
