package attendance

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
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
	// DefaultWorkingDaysPerMonth は出勤率の分母に使う月間所定労働日数の既定値です。
	DefaultWorkingDaysPerMonth = 22

	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service は勤怠に関するユースケースをまとめます。
type Service struct {
	repo        Repository
	clock       Clock
	tx          TransactionManager
	workingDays int
}

// UseCase は勤怠ユースケースの公開インターフェースです。
type UseCase interface {
	PunchIn(ctx context.Context, in PunchInInput) (*Record, error)
	PunchOut(ctx context.Context, in PunchOutInput) (*Record, error)
	ToggleFieldVisit(ctx context.Context, in ToggleFieldVisitInput) (*Record, error)
	GetAttendance(ctx context.Context, in GetAttendanceInput) (*Record, error)
	ListAttendance(ctx context.Context, in ListAttendanceInput) (*ListAttendanceResult, error)
	CurrentSession(ctx context.Context, actor access.Identity) (*Record, error)
	MonthlySummary(ctx context.Context, in MonthlySummaryInput) (*Summary, error)
}

// NewService は Service を生成します。workingDaysPerMonth が 0 以下の場合は既定値を使います。
func NewService(repo Repository, clock Clock, tx TransactionManager, workingDaysPerMonth int) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if workingDaysPerMonth <= 0 {
		workingDaysPerMonth = DefaultWorkingDaysPerMonth
	}
	return &Service{repo: repo, clock: clock, tx: tx, workingDays: workingDaysPerMonth}
}

// PunchInInput は出勤打刻の入力です。EmployeeID が空の場合は呼び出し元自身です。
type PunchInInput struct {
	Actor      access.Identity
	EmployeeID string
	At         *time.Time
	Location   *Location
	Notes      string
}

// PunchOutInput は退勤打刻の入力です。
type PunchOutInput struct {
	Actor        access.Identity
	AttendanceID string
	At           *time.Time
	Location     *Location
}

// ToggleFieldVisitInput は外勤フラグ切り替えの入力です。
type ToggleFieldVisitInput struct {
	Actor        access.Identity
	AttendanceID string
}

// GetAttendanceInput は勤怠記録取得の入力です。
type GetAttendanceInput struct {
	Actor        access.Identity
	AttendanceID string
}

// ListAttendanceInput は勤怠一覧取得の入力です。From は含み To は含みません。
type ListAttendanceInput struct {
	Actor      access.Identity
	EmployeeID string
	From       *time.Time
	To         *time.Time
	PageSize   int
	PageToken  string
}

// ListAttendanceResult は勤怠一覧取得結果を表します。
type ListAttendanceResult struct {
	Records       []*Record
	NextPageToken string
}

// MonthlySummaryInput は月次集計の入力です。
type MonthlySummaryInput struct {
	Actor      access.Identity
	EmployeeID string
	Year       int
	Month      time.Month
}

// PunchIn は勤務を開始します。
func (s *Service) PunchIn(ctx context.Context, in PunchInInput) (*Record, error) {
	if err := access.Validate(in.Actor); err != nil {
		return nil, err
	}

	employeeID := in.Actor.ProfileID
	if strings.TrimSpace(in.EmployeeID) != "" {
		id, err := normalizeID(in.EmployeeID)
		if err != nil {
			return nil, err
		}
		employeeID = id
	}

	if err := access.Authorize(in.Actor, access.ActionPunch, employeeID); err != nil {
		return nil, err
	}

	location, err := normalizeLocation(in.Location)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	punchInAt := now
	if in.At != nil {
		punchInAt = in.At.UTC()
	}

	var created *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		open, err := s.repo.FindOpenByEmployee(txCtx, employeeID)
		if err != nil && !errors.Is(err, ErrNoOpenSession) {
			return err
		}
		if open != nil {
			return ErrOpenSessionExists
		}

		result, err := s.repo.Create(txCtx, &Record{
			EmployeeID:      employeeID,
			PunchInAt:       punchInAt,
			PunchInLocation: location,
			Notes:           strings.TrimSpace(in.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// PunchOut は勤務中の記録を終了し勤務時間を確定します。
func (s *Service) PunchOut(ctx context.Context, in PunchOutInput) (*Record, error) {
	if err := access.Validate(in.Actor); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.AttendanceID)
	if err != nil {
		return nil, err
	}

	location, err := normalizeLocation(in.Location)
	if err != nil {
		return nil, err
	}

	var closed *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		record, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := access.Authorize(in.Actor, access.ActionPunch, record.EmployeeID); err != nil {
			return err
		}

		if !record.Open() {
			return ErrAlreadyPunchedOut
		}

		now := s.clock.Now()
		punchOutAt := now
		if in.At != nil {
			punchOutAt = in.At.UTC()
		}

		hours, err := ComputeTotalHours(record.PunchInAt, punchOutAt)
		if err != nil {
			return err
		}

		record.PunchOutAt = &punchOutAt
		record.PunchOutLocation = location
		record.TotalHours = &hours
		record.UpdatedAt = now

		result, err := s.repo.Close(txCtx, record)
		if err != nil {
			return err
		}

		closed = result
		return nil
	}); err != nil {
		return nil, err
	}

	return closed, nil
}

// ToggleFieldVisit は外勤フラグを反転します。管理者のみ実行できます。
func (s *Service) ToggleFieldVisit(ctx context.Context, in ToggleFieldVisitInput) (*Record, error) {
	if err := access.Require(in.Actor, access.ActionToggleFieldVisit); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.AttendanceID)
	if err != nil {
		return nil, err
	}

	var updated *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		record, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		result, err := s.repo.SetFieldVisit(txCtx, record.ID, !record.IsFieldVisit, s.clock.Now())
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

// GetAttendance は勤怠記録を取得します。参照範囲外の記録は存在しないものとして扱います。
func (s *Service) GetAttendance(ctx context.Context, in GetAttendanceInput) (*Record, error) {
	if err := access.Validate(in.Actor); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.AttendanceID)
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

	if !access.CanView(in.Actor, access.ActionViewAttendance, found.EmployeeID) {
		return nil, ErrRecordNotFound
	}

	return found, nil
}

// ListAttendance は出勤時刻の降順で勤怠記録を返します。社員ロールは常に自分の記録に絞り込まれます。
func (s *Service) ListAttendance(ctx context.Context, in ListAttendanceInput) (*ListAttendanceResult, error) {
	employeeID, err := s.narrowEmployee(in.Actor, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, ErrInvalidPeriod
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
			From:       in.From,
			To:         in.To,
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

	return &ListAttendanceResult{Records: records, NextPageToken: nextToken}, nil
}

// CurrentSession は呼び出し元の勤務中記録を返します。
func (s *Service) CurrentSession(ctx context.Context, actor access.Identity) (*Record, error) {
	if err := access.Validate(actor); err != nil {
		return nil, err
	}

	var open *Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		record, err := s.repo.FindOpenByEmployee(txCtx, actor.ProfileID)
		if err != nil {
			return err
		}
		open = record
		return nil
	}); err != nil {
		return nil, err
	}

	return open, nil
}

// MonthlySummary は指定月の勤務時間・出勤日数・出勤率を集計します。
func (s *Service) MonthlySummary(ctx context.Context, in MonthlySummaryInput) (*Summary, error) {
	employeeID, err := s.narrowEmployee(in.Actor, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employeeID == "" {
		employeeID = in.Actor.ProfileID
	}

	from, to, err := MonthRange(in.Year, in.Month)
	if err != nil {
		return nil, err
	}

	var totals *Totals
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Summarize(txCtx, employeeID, from, to)
		if err != nil {
			return err
		}
		totals = result
		return nil
	}); err != nil {
		return nil, err
	}

	return &Summary{
		EmployeeID:     employeeID,
		Year:           in.Year,
		Month:          in.Month,
		TotalHours:     totals.TotalHours.Round(2),
		DaysWorked:     totals.Records,
		FieldVisits:    totals.FieldVisits,
		AttendanceRate: attendanceRate(totals.Records, s.workingDays),
	}, nil
}

// MonthRange は指定月の [月初, 翌月初) を UTC で返します。
func MonthRange(year int, month time.Month) (time.Time, time.Time, error) {
	if year < 1 || month < time.January || month > time.December {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

func (s *Service) narrowEmployee(actor access.Identity, requested string) (string, error) {
	employeeID, err := access.Narrow(actor, access.ActionViewAttendance, requested)
	if err != nil {
		return "", err
	}
	if employeeID == "" || employeeID == actor.ProfileID {
		return employeeID, nil
	}
	return normalizeID(employeeID)
}

func attendanceRate(days, workingDays int) int {
	if workingDays <= 0 {
		return 0
	}
	rate := int(math.Round(float64(days) / float64(workingDays) * 100))
	if rate > 100 {
		return 100
	}
	return rate
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

func normalizeLocation(loc *Location) (*Location, error) {
	if loc == nil {
		return nil, nil
	}
	if !loc.Valid() {
		return nil, ErrInvalidLocation
	}
	copied := *loc
	return &copied, nil
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
