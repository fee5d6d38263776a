package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	"github.com/ogurasousui/attendance-payroll/internal/core/employee"
	"github.com/ogurasousui/attendance-payroll/internal/core/money"
	"github.com/ogurasousui/attendance-payroll/internal/core/payroll"
	"github.com/ogurasousui/attendance-payroll/internal/core/payslip"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func toAPIProfile(p *profile.Profile) *api.Profile {
	if p == nil {
		return nil
	}
	return &api.Profile{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toAPIEmployee(e *employee.Employee) *api.Employee {
	if e == nil {
		return nil
	}

	out := &api.Employee{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		Department:   e.Department,
		Position:     e.Position,
		Salary: api.Salary{
			Basic:           money.String(e.Salary.Basic),
			DA:              money.String(e.Salary.DA),
			HRA:             money.String(e.Salary.HRA),
			OtherAllowances: money.String(e.Salary.OtherAllowances),
			Gross:           money.String(e.Salary.Gross()),
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.JoinDate != nil {
		out.JoinDate = e.JoinDate.Format(dateLayout)
	}
	if e.Profile != nil {
		out.Email = e.Profile.Email
		out.FirstName = e.Profile.FirstName
		out.LastName = e.Profile.LastName
		out.Role = e.Profile.Role
	}
	return out
}

func toAPILocation(l *attendance.Location) *api.Location {
	if l == nil {
		return nil
	}
	return &api.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

func toDomainLocation(l *api.Location) *attendance.Location {
	if l == nil {
		return nil
	}
	return &attendance.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

func toAPIAttendance(r *attendance.Record) *api.Attendance {
	if r == nil {
		return nil
	}

	out := &api.Attendance{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		PunchInTime:      r.PunchInAt,
		PunchInLocation:  toAPILocation(r.PunchInLocation),
		PunchOutTime:     r.PunchOutAt,
		PunchOutLocation: toAPILocation(r.PunchOutLocation),
		Status:           r.Status(),
		Duration:         r.DurationLabel(),
		IsFieldVisit:     r.IsFieldVisit,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.TotalHours != nil {
		out.TotalHours = r.TotalHours.StringFixed(2)
	}
	return out
}

func toAPIPayroll(r *payroll.Record) *api.Payroll {
	if r == nil {
		return nil
	}
	return &api.Payroll{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Year:            int32(r.Year),
		Month:           int32(r.Month),
		DaysWorked:      int32(r.DaysWorked),
		BasicSalary:     money.String(r.BasicSalary),
		DA:              money.String(r.DA),
		HRA:             money.String(r.HRA),
		OtherAllowances: money.String(r.OtherAllowances),
		GrossSalary:     money.String(r.GrossSalary),
		Deductions:      money.String(r.Deductions),
		NetSalary:       money.String(r.NetSalary),
		Status:          string(r.Status),
		ProcessedAt:     r.ProcessedAt,
		ProcessedBy:     r.ProcessedBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toAPIDocument(d *payslip.Document) *api.DocumentResponse {
	return &api.DocumentResponse{
		FileName:        d.FileName,
		ContentType:     d.ContentType,
		Content:         d.Content,
		ArchiveLocation: d.ArchiveLocation,
	}
}

func parseDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("must be in YYYY-MM-DD format")
	}
	return &t, nil
}

func parseDateUpdate(raw *string) (*time.Time, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// 日付のみの指定は UTC の 0 時として扱う。
func parseTimeBound(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		utc := t.UTC()
		return &utc, nil
	}
	return parseDate(trimmed)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return money.Parse(raw)
}

func parseAmountUpdate(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := money.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
