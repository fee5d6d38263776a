package employee

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/money"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"github.com/shopspring/decimal"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

var employeeCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]*$`)

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	profiles ProfileRepository
	hasher   profile.PasswordHasher
	clock    Clock
	tx       TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, profiles ProfileRepository, hasher profile.PasswordHasher, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, profiles: profiles, hasher: hasher, clock: clock, tx: tx}
}

// CreateEmployeeInput は社員登録時の入力です。ログイン用のプロフィールも同時に作成します。
type CreateEmployeeInput struct {
	Actor        access.Identity
	Email        string
	FirstName    string
	LastName     string
	Password     string
	EmployeeCode string
	Department   string
	Position     string
	JoinDate     *time.Time
	Salary       SalaryComponents
}

// UpdateEmployeeInput は社員更新時の入力です。nil のフィールドは変更しません。
type UpdateEmployeeInput struct {
	Actor           access.Identity
	ID              string
	FirstName       *string
	LastName        *string
	EmployeeCode    *string
	Department      *string
	Position        *string
	JoinDate        *time.Time
	JoinDateSet     bool
	BasicSalary     *decimal.Decimal
	DA              *decimal.Decimal
	HRA             *decimal.Decimal
	OtherAllowances *decimal.Decimal
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	Actor access.Identity
	ID    string
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Actor     access.Identity
	Query     string
	PageSize  int
	PageToken string
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// CreateEmployee はプロフィールと社員情報を 1 トランザクションで作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	if err := access.Require(in.Actor, access.ActionManageEmployee); err != nil {
		return nil, err
	}

	email, err := profile.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, profile.ErrInvalidFirstName
	}
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, profile.ErrInvalidLastName
	}

	if err := profile.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	code, err := normalizeEmployeeCode(in.EmployeeCode)
	if err != nil {
		return nil, err
	}

	salary, err := normalizeSalary(in.Salary)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("employee: hash password: %w", err)
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmployeeCodeNotExists(txCtx, code); err != nil {
			return err
		}

		now := s.clock.Now()
		p, err := s.profiles.Create(txCtx, &profile.Profile{
			Email:        email,
			FirstName:    firstName,
			LastName:     lastName,
			Role:         access.RoleEmployee,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}

		result, err := s.repo.Create(txCtx, &Employee{
			ID:           p.ID,
			EmployeeCode: code,
			Department:   strings.TrimSpace(in.Department),
			Position:     strings.TrimSpace(in.Position),
			JoinDate:     normalizeDate(in.JoinDate),
			Salary:       salary,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
		if result.Profile == nil {
			result.Profile = snapshotOf(p)
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は社員情報を更新します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if err := access.Require(in.Actor, access.ActionManageEmployee); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if in.EmployeeCode != nil {
			code, err := normalizeEmployeeCode(*in.EmployeeCode)
			if err != nil {
				return err
			}
			if code != existing.EmployeeCode {
				if err := s.ensureEmployeeCodeNotExists(txCtx, code); err != nil {
					return err
				}
				existing.EmployeeCode = code
			}
		}

		if in.Department != nil {
			existing.Department = strings.TrimSpace(*in.Department)
		}
		if in.Position != nil {
			existing.Position = strings.TrimSpace(*in.Position)
		}
		if in.JoinDateSet {
			existing.JoinDate = normalizeDate(in.JoinDate)
		}

		for _, field := range []struct {
			value *decimal.Decimal
			dest  *decimal.Decimal
		}{
			{in.BasicSalary, &existing.Salary.Basic},
			{in.DA, &existing.Salary.DA},
			{in.HRA, &existing.Salary.HRA},
			{in.OtherAllowances, &existing.Salary.OtherAllowances},
		} {
			if field.value == nil {
				continue
			}
			amount, err := money.NonNegative(*field.value)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidSalary, err)
			}
			*field.dest = amount
		}

		now := s.clock.Now()

		if in.FirstName != nil || in.LastName != nil {
			p, err := s.updateNames(txCtx, id, in.FirstName, in.LastName, now)
			if err != nil {
				return err
			}
			existing.Profile = snapshotOf(p)
		}

		existing.UpdatedAt = now

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetEmployee は社員を取得します。自分以外を参照できない主体には存在しないものとして扱います。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if err := access.Validate(in.Actor); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	if !access.CanView(in.Actor, access.ActionViewEmployee, id) {
		return nil, ErrEmployeeNotFound
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は社員の一覧を取得します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	scope, err := access.Narrow(in.Actor, access.ActionViewEmployee, "")
	if err != nil {
		return nil, err
	}

	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		employees []*Employee
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		resultEmployees, token, err := s.repo.List(txCtx, ListEmployeesFilter{
			ID:     scope,
			Query:  strings.TrimSpace(in.Query),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		employees = resultEmployees
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListEmployeesResult{Employees: employees, NextPageToken: nextToken}, nil
}

func (s *Service) updateNames(ctx context.Context, id string, firstName, lastName *string, now time.Time) (*profile.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if firstName != nil {
		trimmed := strings.TrimSpace(*firstName)
		if trimmed == "" {
			return nil, profile.ErrInvalidFirstName
		}
		p.FirstName = trimmed
	}
	if lastName != nil {
		trimmed := strings.TrimSpace(*lastName)
		if trimmed == "" {
			return nil, profile.ErrInvalidLastName
		}
		p.LastName = trimmed
	}
	p.UpdatedAt = now

	return s.profiles.Update(ctx, p)
}

func (s *Service) ensureEmployeeCodeNotExists(ctx context.Context, code string) error {
	emp, err := s.repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if emp != nil {
		return ErrEmployeeCodeAlreadyExists
	}
	return nil
}

func snapshotOf(p *profile.Profile) *ProfileSnapshot {
	return &ProfileSnapshot{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}

func normalizeID(raw string) (string, error) {
	id, err := profile.NormalizeID(raw)
	if err != nil {
		return "", ErrInvalidID
	}
	return id, nil
}

func normalizeEmployeeCode(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmployeeCode
	}

	upper := strings.ToUpper(trimmed)
	if !employeeCodePattern.MatchString(upper) {
		return "", ErrInvalidEmployeeCode
	}
	return upper, nil
}

func normalizeSalary(in SalaryComponents) (SalaryComponents, error) {
	var out SalaryComponents
	for _, field := range []struct {
		value decimal.Decimal
		dest  *decimal.Decimal
	}{
		{in.Basic, &out.Basic},
		{in.DA, &out.DA},
		{in.HRA, &out.HRA},
		{in.OtherAllowances, &out.OtherAllowances},
	} {
		amount, err := money.NonNegative(field.value)
		if err != nil {
			return SalaryComponents{}, fmt.Errorf("%w: %w", ErrInvalidSalary, err)
		}
		*field.dest = amount
	}
	return out, nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
