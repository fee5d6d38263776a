package handler

import (
	"context"
	"testing"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/emptypb"
)

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}

type stubAttendanceUseCase struct {
	punchInInput  attendance.PunchInInput
	punchOutInput attendance.PunchOutInput
	listInput     attendance.ListAttendanceInput
	summaryInput  attendance.MonthlySummaryInput

	record  *attendance.Record
	summary *attendance.Summary
	err     error
}

func (s *stubAttendanceUseCase) PunchIn(_ context.Context, in attendance.PunchInInput) (*attendance.Record, error) {
	s.punchInInput = in
	return s.record, s.err
}

func (s *stubAttendanceUseCase) PunchOut(_ context.Context, in attendance.PunchOutInput) (*attendance.Record, error) {
	s.punchOutInput = in
	return s.record, s.err
}

func (s *stubAttendanceUseCase) ToggleFieldVisit(_ context.Context, _ attendance.ToggleFieldVisitInput) (*attendance.Record, error) {
	return s.record, s.err
}

func (s *stubAttendanceUseCase) GetAttendance(_ context.Context, _ attendance.GetAttendanceInput) (*attendance.Record, error) {
	return s.record, s.err
}

func (s *stubAttendanceUseCase) ListAttendance(_ context.Context, in attendance.ListAttendanceInput) (*attendance.ListAttendanceResult, error) {
	s.listInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &attendance.ListAttendanceResult{Records: []*attendance.Record{s.record}}, nil
}

func (s *stubAttendanceUseCase) CurrentSession(_ context.Context, _ access.Identity) (*attendance.Record, error) {
	return s.record, s.err
}

func (s *stubAttendanceUseCase) MonthlySummary(_ context.Context, in attendance.MonthlySummaryInput) (*attendance.Summary, error) {
	s.summaryInput = in
	return s.summary, s.err
}

var punchInAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func openRecord() *attendance.Record {
	return &attendance.Record{
		ID:              "rec-1",
		EmployeeID:      employeeID,
		PunchInAt:       punchInAt,
		PunchInLocation: &attendance.Location{Latitude: 12.5, Longitude: 77.25},
		CreatedAt:       punchInAt,
		UpdatedAt:       punchInAt,
	}
}

func TestAttendanceGrpcHandler_PunchIn(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{record: openRecord()}
	h := NewAttendanceGrpcHandler(stub, nil)

	resp, err := h.PunchIn(employeeCtx(), &api.PunchInRequest{Location: &api.Location{Latitude: 12.5, Longitude: 77.25}})
	if err != nil {
		t.Fatalf("PunchIn returned error: %v", err)
	}

	if stub.punchInInput.Location == nil || stub.punchInInput.Location.Latitude != 12.5 {
		t.Fatalf("expected location to pass through, got %+v", stub.punchInInput.Location)
	}
	got := resp.Attendance
	if got.Status != attendance.StatusInProgress || got.Duration != "In progress" || got.TotalHours != "" {
		t.Fatalf("unexpected open attendance: %+v", got)
	}
}

func TestAttendanceGrpcHandler_PunchIn_Conflict(t *testing.T) {
	t.Parallel()

	h := NewAttendanceGrpcHandler(&stubAttendanceUseCase{err: attendance.ErrOpenSessionExists}, nil)

	_, err := h.PunchIn(employeeCtx(), &api.PunchInRequest{})
	assertCode(t, err, codes.AlreadyExists)
}

func TestAttendanceGrpcHandler_PunchOut(t *testing.T) {
	t.Parallel()

	rec := openRecord()
	out := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	hours := decimal.RequireFromString("8.5")
	rec.PunchOutAt = &out
	rec.TotalHours = &hours

	stub := &stubAttendanceUseCase{record: rec}
	h := NewAttendanceGrpcHandler(stub, nil)

	resp, err := h.PunchOut(employeeCtx(), &api.PunchOutRequest{AttendanceID: "rec-1"})
	if err != nil {
		t.Fatalf("PunchOut returned error: %v", err)
	}
	if stub.punchOutInput.AttendanceID != "rec-1" || stub.punchOutInput.Location != nil {
		t.Fatalf("unexpected input: %+v", stub.punchOutInput)
	}

	got := resp.Attendance
	if got.TotalHours != "8.50" || got.Duration != "8.50 hours" || got.Status != attendance.StatusCompleted {
		t.Fatalf("unexpected completed attendance: %+v", got)
	}
}

func TestAttendanceGrpcHandler_PunchOut_Twice(t *testing.T) {
	t.Parallel()

	h := NewAttendanceGrpcHandler(&stubAttendanceUseCase{err: attendance.ErrAlreadyPunchedOut}, nil)

	_, err := h.PunchOut(employeeCtx(), &api.PunchOutRequest{AttendanceID: "rec-1"})
	assertCode(t, err, codes.FailedPrecondition)
}

func TestAttendanceGrpcHandler_ListAttendance_ParsesBounds(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{record: openRecord()}
	h := NewAttendanceGrpcHandler(stub, nil)

	_, err := h.ListAttendance(adminCtx(), &api.ListAttendanceRequest{
		From:     "2025-03-01",
		To:       "2025-04-01T00:00:00+05:30",
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("ListAttendance returned error: %v", err)
	}

	if stub.listInput.From == nil || !stub.listInput.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from: %v", stub.listInput.From)
	}
	if stub.listInput.To == nil || !stub.listInput.To.Equal(time.Date(2025, 3, 31, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected to: %v", stub.listInput.To)
	}

	_, err = h.ListAttendance(adminCtx(), &api.ListAttendanceRequest{From: "March"})
	assertCode(t, err, codes.InvalidArgument)
}

func TestAttendanceGrpcHandler_CurrentSession(t *testing.T) {
	t.Parallel()

	clock := stubClock{now: punchInAt.Add(2*time.Hour + 15*time.Minute)}

	h := NewAttendanceGrpcHandler(&stubAttendanceUseCase{record: openRecord()}, clock)
	resp, err := h.CurrentSession(employeeCtx(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("CurrentSession returned error: %v", err)
	}
	if resp.Attendance == nil || resp.Elapsed != "2h 15m" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	none := NewAttendanceGrpcHandler(&stubAttendanceUseCase{err: attendance.ErrNoOpenSession}, clock)
	resp, err = none.CurrentSession(employeeCtx(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("expected empty response when not working, got %v", err)
	}
	if resp.Attendance != nil {
		t.Fatalf("expected no attendance, got %+v", resp.Attendance)
	}
}

func TestAttendanceGrpcHandler_MonthlySummary_DefaultsToCurrentMonth(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{summary: &attendance.Summary{
		EmployeeID:     employeeID,
		Year:           2025,
		Month:          time.March,
		TotalHours:     decimal.RequireFromString("152.5"),
		DaysWorked:     19,
		FieldVisits:    2,
		AttendanceRate: 86,
	}}
	h := NewAttendanceGrpcHandler(stub, stubClock{now: punchInAt})

	resp, err := h.MonthlySummary(employeeCtx(), &api.MonthlySummaryRequest{})
	if err != nil {
		t.Fatalf("MonthlySummary returned error: %v", err)
	}

	if stub.summaryInput.Year != 2025 || stub.summaryInput.Month != time.March {
		t.Fatalf("expected current month, got %d-%d", stub.summaryInput.Year, stub.summaryInput.Month)
	}
	if resp.TotalHours != "152.50" || resp.AttendanceRate != 86 || resp.DaysWorked != 19 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}
