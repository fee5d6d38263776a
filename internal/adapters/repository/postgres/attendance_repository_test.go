package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
)

var attendanceRowColumns = []string{
	"id", "employee_id", "punch_in_time", "punch_in_latitude", "punch_in_longitude",
	"punch_out_time", "punch_out_latitude", "punch_out_longitude", "total_hours",
	"is_field_visit", "notes", "created_at", "updated_at",
}

func TestAttendanceRepository_Create_OpenSessionConflict(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO attendance_records`).
		WithArgs("emp-1", now, 12.5, 77.25, false, "", now, now).
		WillReturnError(&pgconn.PgError{Code: pgdbUnique, ConstraintName: "attendance_records_open_session_key"})

	_, err = repo.Create(context.Background(), &attendance.Record{
		EmployeeID:      "emp-1",
		PunchInAt:       now,
		PunchInLocation: &attendance.Location{Latitude: 12.5, Longitude: 77.25},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if !errors.Is(err, attendance.ErrOpenSessionExists) || !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected open session conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_Close(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	hours := decimal.RequireFromString("8.5")

	mock.ExpectQuery(`(?s)UPDATE attendance_records.*AND punch_out_time IS NULL`).
		WithArgs(out, nil, nil, "8.50", out, "rec-1").
		WillReturnRows(pgxmock.NewRows(attendanceRowColumns).
			AddRow("rec-1", "emp-1", in, 12.5, 77.25, out, nil, nil, "8.50", false, "", in, out))

	closed, err := repo.Close(context.Background(), &attendance.Record{
		ID:         "rec-1",
		PunchOutAt: &out,
		TotalHours: &hours,
		UpdatedAt:  out,
	})
	if err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if closed.TotalHours == nil || closed.TotalHours.StringFixed(2) != "8.50" {
		t.Fatalf("unexpected total hours: %v", closed.TotalHours)
	}
	if closed.PunchInLocation == nil || closed.PunchInLocation.Longitude != 77.25 {
		t.Fatalf("expected punch-in location, got %+v", closed.PunchInLocation)
	}
	if closed.PunchOutLocation != nil {
		t.Fatalf("expected nil punch-out location")
	}
	if closed.Status() != attendance.StatusCompleted {
		t.Fatalf("expected completed status")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_Close_AlreadyClosed(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	out := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	hours := decimal.RequireFromString("8.5")

	mock.ExpectQuery(`UPDATE attendance_records`).
		WithArgs(out, nil, nil, "8.50", out, "rec-1").
		WillReturnRows(pgxmock.NewRows(attendanceRowColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("rec-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = repo.Close(context.Background(), &attendance.Record{ID: "rec-1", PunchOutAt: &out, TotalHours: &hours, UpdatedAt: out})
	if !errors.Is(err, attendance.ErrAlreadyPunchedOut) {
		t.Fatalf("expected ErrAlreadyPunchedOut, got %v", err)
	}

	mock.ExpectQuery(`UPDATE attendance_records`).
		WithArgs(out, nil, nil, "8.50", out, "rec-2").
		WillReturnRows(pgxmock.NewRows(attendanceRowColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("rec-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = repo.Close(context.Background(), &attendance.Record{ID: "rec-2", PunchOutAt: &out, TotalHours: &hours, UpdatedAt: out})
	if !errors.Is(err, attendance.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_FindOpenByEmployee_None(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)

	mock.ExpectQuery(`punch_out_time IS NULL`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows(attendanceRowColumns))

	if _, err := repo.FindOpenByEmployee(context.Background(), "emp-1"); !errors.Is(err, attendance.ErrNoOpenSession) {
		t.Fatalf("expected ErrNoOpenSession, got %v", err)
	}
}

func TestAttendanceRepository_List_WithRange(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(attendanceRowColumns).
		AddRow("rec-2", "emp-1", day.Add(24*time.Hour), nil, nil, nil, nil, nil, nil, true, "", day, day).
		AddRow("rec-1", "emp-1", day, nil, nil, day.Add(8*time.Hour), nil, nil, "8.00", false, "", day, day)

	mock.ExpectQuery(`(?s)WHERE employee_id = \$1 AND punch_in_time >= \$2 AND punch_in_time < \$3.*ORDER BY punch_in_time DESC, id DESC`).
		WithArgs("emp-1", from, to, 11, 0).
		WillReturnRows(rows)

	records, nextToken, err := repo.List(context.Background(), attendance.ListFilter{
		EmployeeID: "emp-1",
		From:       &from,
		To:         &to,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(records) != 2 || nextToken != "" {
		t.Fatalf("unexpected result: %d %q", len(records), nextToken)
	}
	if !records[0].Open() || records[0].DurationLabel() != "In progress" || !records[0].IsFieldVisit {
		t.Fatalf("expected open field visit record first, got %+v", records[0])
	}
	if records[1].DurationLabel() != "8.00 hours" {
		t.Fatalf("unexpected duration label: %s", records[1].DurationLabel())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_Summarize(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE is_field_visit\)`).
		WithArgs("emp-1", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"hours", "records", "completed", "visits"}).
			AddRow("152.75", int64(20), int64(19), int64(3)))

	totals, err := repo.Summarize(context.Background(), "emp-1", from, to)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if totals.TotalHours.StringFixed(2) != "152.75" || totals.Records != 20 || totals.CompletedCount != 19 || totals.FieldVisits != 3 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestTranslateAttendancePgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateAttendancePgError("op", &pgconn.PgError{Code: pgdbForeignKey}), attendance.ErrEmployeeNotFound) {
		t.Fatalf("expected fk violation to map to ErrEmployeeNotFound")
	}
	checkErr := &pgconn.PgError{Code: pgdbCheck, ConstraintName: "attendance_records_time_range_check"}
	if !errors.Is(translateAttendancePgError("op", checkErr), apperr.ErrInvalidTimeRange) {
		t.Fatalf("expected time range check to map to ErrInvalidTimeRange")
	}
	if !errors.Is(translateAttendancePgError("op", errors.New("io")), apperr.ErrStore) {
		t.Fatalf("expected generic error to be a store failure")
	}
}
