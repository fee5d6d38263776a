package employee

import (
	"context"

	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
)

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByCode(ctx context.Context, employeeCode string) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, string, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// ProfileRepository は社員登録時に利用するプロフィール永続化です。
type ProfileRepository interface {
	Create(ctx context.Context, p *profile.Profile) (*profile.Profile, error)
	Update(ctx context.Context, p *profile.Profile) (*profile.Profile, error)
	FindByID(ctx context.Context, id string) (*profile.Profile, error)
}

// ListEmployeesFilter は一覧取得用フィルタです。
type ListEmployeesFilter struct {
	// ID が空でない場合はその社員のみに絞り込みます。
	ID     string
	Query  string
	Limit  int
	Offset int
}
