package payroll

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	"github.com/ogurasousui/attendance-payroll/internal/core/employee"
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

// EmployeeDirectory は給与計算に必要な社員情報の参照です。
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// AttendanceSummarizer は期間内の勤怠集計を提供します。
type AttendanceSummarizer interface {
	Summarize(ctx context.Context, employeeID string, from, to time.Time) (*attendance.Totals, error)
}

// DeductionInput は控除額の算出に渡す情報です。
type DeductionInput struct {
	Employee   *employee.Employee
	Year       int
	Month      time.Month
	DaysWorked int
	Gross      decimal.Decimal
}

// DeductionPolicy は控除額を算出します。
type DeductionPolicy interface {
	Deductions(ctx context.Context, in DeductionInput) (decimal.Decimal, error)
}

// NoDeductions は控除額を常に 0 とするポリシーです。
type NoDeductions struct{}

// Deductions は 0 を返します。
func (NoDeductions) Deductions(context.Context, DeductionInput) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service は給与に関するユースケースをまとめます。
type Service struct {
	repo       Repository
	employees  EmployeeDirectory
	attendance AttendanceSummarizer
	deductions DeductionPolicy
	clock      Clock
	tx         TransactionManager
}

// UseCase は給与ユースケースの公開インターフェースです。
type UseCase interface {
	GeneratePayroll(ctx context.Context, in GeneratePayrollInput) (*Record, error)
	GeneratePayrollBatch(ctx context.Context, in GeneratePayrollBatchInput) (*BatchResult, error)
	AdvancePayrollStatus(ctx context.Context, in AdvancePayrollStatusInput) (*Record, error)
	GetPayroll(ctx context.Context, in GetPayrollInput) (*Record, error)
	ListPayroll(ctx context.Context, in ListPayrollInput) (*ListPayrollResult, error)
}

// NewService は Service を生成します。deductions が nil の場合は控除なしとして扱います。
func NewService(repo Repository, employees EmployeeDirectory, summarizer AttendanceSummarizer, deductions DeductionPolicy, clock Clock, tx TransactionManager) *Service {
	if deductions == nil {
		deductions = NoDeductions{}
	}
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo:       repo,
		employees:  employees,
		attendance: summarizer,
		deductions: deductions,
		clock:      clock,
		tx:         tx,
	}
}

// GeneratePayrollInput は給与生成の入力です。
type GeneratePayrollInput struct {
	Actor      access.Identity
	EmployeeID string
	Year       int
	Month      time.Month
}

// GeneratePayrollBatchInput は全社員分の給与生成の入力です。
type GeneratePayrollBatchInput struct {
	Actor access.Identity
	Year  int
	Month time.Month
}

// BatchResult は一括生成の結果です。既存記録のある社員は Skipped に入ります。
type BatchResult struct {
	Generated []*Record
	Skipped   []string
}

// AdvancePayrollStatusInput はステータス更新の入力です。
type AdvancePayrollStatusInput struct {
	Actor     access.Identity
	PayrollID string
	Status    Status
}

// GetPayrollInput は給与記録取得の入力です。
type GetPayrollInput struct {
	Actor     access.Identity
	PayrollID string
}

// ListPayrollInput は給与一覧取得の入力です。
type ListPayrollInput struct {
	Actor      access.Identity
	EmployeeID string
	Year       int
	Month      time.Month
	Status     Status
	PageSize   int
	PageToken  string
}

// ListPayrollResult は給与一覧取得結果を表します。
type ListPayrollResult struct {
	Records       []*Record
	NextPageToken string
}

// GeneratePayroll は指定社員・指定月の給与記録を生成します。既に存在する場合は上書きしません。
func (s *Service) GeneratePayroll(ctx context.Context, in GeneratePayrollInput) (*Record, error) {
	if err := access.Require(in.Actor, access.ActionManagePayroll); err != nil {
		return nil, err
	}

	employeeID, err := normalizeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	if _, _, err := periodRange(in.Year, in.Month); err != nil {
		return nil, err
	}

	var created *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		record, err := s.generate(txCtx, employeeID, in.Year, in.Month)
		if err != nil {
			return err
		}
		created = record
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GeneratePayrollBatch は全社員分の給与記録を生成します。
func (s *Service) GeneratePayrollBatch(ctx context.Context, in GeneratePayrollBatchInput) (*BatchResult, error) {
	if err := access.Require(in.Actor, access.ActionManagePayroll); err != nil {
		return nil, err
	}

	if _, _, err := periodRange(in.Year, in.Month); err != nil {
		return nil, err
	}

	var ids []string
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.employees.ListIDs(txCtx)
		if err != nil {
			return err
		}
		ids = result
		return nil
	}); err != nil {
		return nil, err
	}

	result := &BatchResult{Generated: []*Record{}, Skipped: []string{}}
	for _, id := range ids {
		var created *Record
		err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
			record, err := s.generate(txCtx, id, in.Year, in.Month)
			if err != nil {
				return err
			}
			created = record
			return nil
		})
		switch {
		case errors.Is(err, ErrPayrollExists):
			result.Skipped = append(result.Skipped, id)
		case err != nil:
			return result, fmt.Errorf("payroll: generate for employee %s: %w", id, err)
		default:
			result.Generated = append(result.Generated, created)
		}
	}

	return result, nil
}

// AdvancePayrollStatus はステータスを 1 段階だけ進めます。
func (s *Service) AdvancePayrollStatus(ctx context.Context, in AdvancePayrollStatusInput) (*Record, error) {
	if err := access.Require(in.Actor, access.ActionManagePayroll); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.PayrollID)
	if err != nil {
		return nil, err
	}

	next, err := ParseStatus(string(in.Status))
	if err != nil {
		return nil, err
	}

	var updated *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		record, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		current := record.Status
		if !current.CanAdvanceTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
		}

		now := s.clock.Now()
		if current == StatusPending {
			record.ProcessedAt = &now
			record.ProcessedBy = in.Actor.ProfileID
		}
		record.Status = next
		record.UpdatedAt = now

		result, err := s.repo.UpdateStatus(txCtx, record, current)
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

// GetPayroll は給与記録を取得します。参照範囲外の記録は存在しないものとして扱います。
func (s *Service) GetPayroll(ctx context.Context, in GetPayrollInput) (*Record, error) {
	if err := access.Validate(in.Actor); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.PayrollID)
	if err != nil {
		return nil, err
	}

	var found *Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		record, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = record
		return nil
	}); err != nil {
		return nil, err
	}

	if !access.CanView(in.Actor, access.ActionViewPayroll, found.EmployeeID) {
		return nil, ErrPayrollNotFound
	}

	return found, nil
}

// ListPayroll は年・月・作成日時の降順で給与記録を返します。社員ロールは常に自分の記録に絞り込まれます。
func (s *Service) ListPayroll(ctx context.Context, in ListPayrollInput) (*ListPayrollResult, error) {
	employeeID, err := access.Narrow(in.Actor, access.ActionViewPayroll, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employeeID != "" && employeeID != in.Actor.ProfileID {
		if employeeID, err = normalizeID(employeeID); err != nil {
			return nil, err
		}
	}

	if in.Year < 0 || in.Month < 0 || in.Month > time.December {
		return nil, ErrInvalidPeriod
	}

	var status Status
	if in.Status != "" {
		if status, err = ParseStatus(string(in.Status)); err != nil {
			return nil, err
		}
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
		records   []*Record
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.repo.List(txCtx, ListFilter{
			EmployeeID: employeeID,
			Year:       in.Year,
			Month:      in.Month,
			Status:     status,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return err
		}
		records = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListPayrollResult{Records: records, NextPageToken: nextToken}, nil
}

func (s *Service) generate(ctx context.Context, employeeID string, year int, month time.Month) (*Record, error) {
	from, to, err := periodRange(year, month)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPeriod(ctx, employeeID, year, month)
	if err != nil && !errors.Is(err, ErrPayrollNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPayrollExists
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	totals, err := s.attendance.Summarize(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	salary := emp.Salary
	gross := Gross(salary.Basic, salary.DA, salary.HRA, salary.OtherAllowances)

	deductions, err := s.deductions.Deductions(ctx, DeductionInput{
		Employee:   emp,
		Year:       year,
		Month:      month,
		DaysWorked: totals.CompletedCount,
		Gross:      gross,
	})
	if err != nil {
		return nil, err
	}
	if deductions.IsNegative() || deductions.GreaterThan(gross) {
		return nil, ErrInvalidDeductions
	}

	now := s.clock.Now()
	return s.repo.Create(ctx, &Record{
		EmployeeID:      employeeID,
		Year:            year,
		Month:           month,
		DaysWorked:      totals.CompletedCount,
		BasicSalary:     salary.Basic,
		DA:              salary.DA,
		HRA:             salary.HRA,
		OtherAllowances: salary.OtherAllowances,
		GrossSalary:     gross,
		Deductions:      deductions,
		NetSalary:       gross.Sub(deductions),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func periodRange(year int, month time.Month) (time.Time, time.Time, error) {
	from, to, err := attendance.MonthRange(year, month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	return from, to, nil
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
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
