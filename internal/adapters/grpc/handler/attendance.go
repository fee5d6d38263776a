package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// AttendanceGrpcHandler は AttendanceService の gRPC 実装です。
type AttendanceGrpcHandler struct {
	svc   attendance.UseCase
	clock Clock
}

// NewAttendanceGrpcHandler は AttendanceGrpcHandler を生成します。
func NewAttendanceGrpcHandler(svc attendance.UseCase, clock Clock) *AttendanceGrpcHandler {
	if clock == nil {
		clock = realClock{}
	}
	return &AttendanceGrpcHandler{svc: svc, clock: clock}
}

// PunchIn は出勤を打刻します。
func (h *AttendanceGrpcHandler) PunchIn(ctx context.Context, req *api.PunchInRequest) (*api.AttendanceResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.PunchIn(ctx, attendance.PunchInInput{
		Actor:      actor,
		EmployeeID: req.EmployeeID,
		Location:   toDomainLocation(req.Location),
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.AttendanceResponse{Attendance: toAPIAttendance(created)}, nil
}

// PunchOut は退勤を打刻します。
func (h *AttendanceGrpcHandler) PunchOut(ctx context.Context, req *api.PunchOutRequest) (*api.AttendanceResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	closed, err := h.svc.PunchOut(ctx, attendance.PunchOutInput{
		Actor:        actor,
		AttendanceID: req.AttendanceID,
		Location:     toDomainLocation(req.Location),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.AttendanceResponse{Attendance: toAPIAttendance(closed)}, nil
}

// ToggleFieldVisit は外勤フラグを反転します。
func (h *AttendanceGrpcHandler) ToggleFieldVisit(ctx context.Context, req *api.AttendanceIDRequest) (*api.AttendanceResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.ToggleFieldVisit(ctx, attendance.ToggleFieldVisitInput{Actor: actor, AttendanceID: req.AttendanceID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.AttendanceResponse{Attendance: toAPIAttendance(updated)}, nil
}

// GetAttendance は勤怠記録を取得します。
func (h *AttendanceGrpcHandler) GetAttendance(ctx context.Context, req *api.AttendanceIDRequest) (*api.AttendanceResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetAttendance(ctx, attendance.GetAttendanceInput{Actor: actor, AttendanceID: req.AttendanceID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.AttendanceResponse{Attendance: toAPIAttendance(found)}, nil
}

// ListAttendance は勤怠記録の一覧を取得します。
func (h *AttendanceGrpcHandler) ListAttendance(ctx context.Context, req *api.ListAttendanceRequest) (*api.ListAttendanceResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	from, err := parseTimeBound(req.From)
	if err != nil {
		return nil, invalidArgument(fmt.Sprintf("from: %v", err))
	}
	to, err := parseTimeBound(req.To)
	if err != nil {
		return nil, invalidArgument(fmt.Sprintf("to: %v", err))
	}

	result, err := h.svc.ListAttendance(ctx, attendance.ListAttendanceInput{
		Actor:      actor,
		EmployeeID: req.EmployeeID,
		From:       from,
		To:         to,
		PageSize:   int(req.PageSize),
		PageToken:  req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &api.ListAttendanceResponse{
		Records:       make([]*api.Attendance, 0, len(result.Records)),
		NextPageToken: result.NextPageToken,
	}
	for _, r := range result.Records {
		resp.Records = append(resp.Records, toAPIAttendance(r))
	}
	return resp, nil
}

// CurrentSession は呼び出し元の勤務中記録と経過時間を返します。勤務中でない場合は空の応答です。
func (h *AttendanceGrpcHandler) CurrentSession(ctx context.Context, _ *emptypb.Empty) (*api.CurrentSessionResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	open, err := h.svc.CurrentSession(ctx, actor)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) {
			return &api.CurrentSessionResponse{}, nil
		}
		return nil, toStatusError(err)
	}

	return &api.CurrentSessionResponse{
		Attendance: toAPIAttendance(open),
		Elapsed:    open.ElapsedLabel(h.clock.Now()),
	}, nil
}

// MonthlySummary は月次の勤怠集計を返します。
func (h *AttendanceGrpcHandler) MonthlySummary(ctx context.Context, req *api.MonthlySummaryRequest) (*api.MonthlySummaryResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	year, month := int(req.Year), time.Month(req.Month)
	if year == 0 && month == 0 {
		now := h.clock.Now()
		year, month = now.Year(), now.Month()
	}

	summary, err := h.svc.MonthlySummary(ctx, attendance.MonthlySummaryInput{
		Actor:      actor,
		EmployeeID: req.EmployeeID,
		Year:       year,
		Month:      month,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.MonthlySummaryResponse{
		EmployeeID:     summary.EmployeeID,
		Year:           int32(summary.Year),
		Month:          int32(summary.Month),
		TotalHours:     summary.TotalHours.StringFixed(2),
		DaysWorked:     int32(summary.DaysWorked),
		FieldVisits:    int32(summary.FieldVisits),
		AttendanceRate: int32(summary.AttendanceRate),
	}, nil
}
