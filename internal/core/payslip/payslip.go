// Package payslip は給与明細と給与台帳のドキュメント出力を扱います。
package payslip

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
	"github.com/ogurasousui/attendance-payroll/internal/core/employee"
	"github.com/ogurasousui/attendance-payroll/internal/core/payroll"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	registerPageSize = 200
)

var (
	// ErrArchiveUnavailable は保管先が設定されていない状態で保管を要求された場合に返却されます。
	ErrArchiveUnavailable = fmt.Errorf("payslip: archive storage is not configured: %w", apperr.ErrInvalidState)
)

// Entry は 1 件の給与記録と、その社員情報の組です。
type Entry struct {
	Payroll  *payroll.Record
	Employee *employee.Employee
}

// EmployeeName は明細に表示する氏名を返します。
func (e Entry) EmployeeName() string {
	if e.Employee == nil || e.Employee.Profile == nil {
		return ""
	}
	return e.Employee.Profile.FirstName + " " + e.Employee.Profile.LastName
}

// PayslipRenderer は給与明細を描画します。
type PayslipRenderer interface {
	RenderPayslip(entry Entry) ([]byte, error)
}

// RegisterRenderer は指定月の給与台帳を描画します。
type RegisterRenderer interface {
	RenderRegister(year int, month time.Month, entries []Entry) ([]byte, error)
}

// Archive は生成済みドキュメントの保管先です。
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// EmployeeDirectory は社員情報の参照です。
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// Document は生成済みドキュメントです。
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
	// ArchiveLocation は保管した場合の保存先です。
	ArchiveLocation string
}

// Service は給与ドキュメント出力のユースケースをまとめます。
type Service struct {
	payrolls  payroll.UseCase
	employees EmployeeDirectory
	payslips  PayslipRenderer
	registers RegisterRenderer
	archive   Archive
}

// UseCase は給与ドキュメント出力の公開インターフェースです。
type UseCase interface {
	RenderPayslip(ctx context.Context, in RenderPayslipInput) (*Document, error)
	ExportRegister(ctx context.Context, in ExportRegisterInput) (*Document, error)
}

// NewService は Service を生成します。archive は nil でも構いません。
func NewService(payrolls payroll.UseCase, employees EmployeeDirectory, payslips PayslipRenderer, registers RegisterRenderer, archive Archive) *Service {
	return &Service{
		payrolls:  payrolls,
		employees: employees,
		payslips:  payslips,
		registers: registers,
		archive:   archive,
	}
}

// RenderPayslipInput は給与明細出力の入力です。
type RenderPayslipInput struct {
	Actor     access.Identity
	PayrollID string
	Archive   bool
}

// ExportRegisterInput は給与台帳出力の入力です。
type ExportRegisterInput struct {
	Actor access.Identity
	Year  int
	Month time.Month
}

// RenderPayslip は給与明細 PDF を生成します。参照範囲は給与記録の参照ルールに従います。
func (s *Service) RenderPayslip(ctx context.Context, in RenderPayslipInput) (*Document, error) {
	if in.Archive && s.archive == nil {
		return nil, ErrArchiveUnavailable
	}

	record, err := s.payrolls.GetPayroll(ctx, payroll.GetPayrollInput{Actor: in.Actor, PayrollID: in.PayrollID})
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.FindByID(ctx, record.EmployeeID)
	if err != nil {
		return nil, err
	}

	content, err := s.payslips.RenderPayslip(Entry{Payroll: record, Employee: emp})
	if err != nil {
		return nil, fmt.Errorf("payslip: render: %w", err)
	}

	doc := &Document{
		FileName:    fmt.Sprintf("payslip-%s-%s.pdf", emp.EmployeeCode, record.Period()),
		ContentType: ContentTypePDF,
		Content:     content,
	}

	if in.Archive {
		key := fmt.Sprintf("payslips/%s/%s/%s", record.Period(), record.EmployeeID, doc.FileName)
		location, err := s.archive.Put(ctx, key, content, ContentTypePDF)
		if err != nil {
			return nil, fmt.Errorf("payslip: archive: %w", err)
		}
		doc.ArchiveLocation = location
	}

	return doc, nil
}

// ExportRegister は指定月の全社員分の給与台帳を生成します。管理者のみ実行できます。
func (s *Service) ExportRegister(ctx context.Context, in ExportRegisterInput) (*Document, error) {
	if err := access.Require(in.Actor, access.ActionManagePayroll); err != nil {
		return nil, err
	}
	if in.Year < 1 || in.Month < time.January || in.Month > time.December {
		return nil, payroll.ErrInvalidPeriod
	}

	var entries []Entry
	token := ""
	for {
		page, err := s.payrolls.ListPayroll(ctx, payroll.ListPayrollInput{
			Actor:     in.Actor,
			Year:      in.Year,
			Month:     in.Month,
			PageSize:  registerPageSize,
			PageToken: token,
		})
		if err != nil {
			return nil, err
		}

		for _, record := range page.Records {
			emp, err := s.employees.FindByID(ctx, record.EmployeeID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Payroll: record, Employee: emp})
		}

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	content, err := s.registers.RenderRegister(in.Year, in.Month, entries)
	if err != nil {
		return nil, fmt.Errorf("payslip: render register: %w", err)
	}

	return &Document{
		FileName:    fmt.Sprintf("payroll-register-%04d-%02d.xlsx", in.Year, int(in.Month)),
		ContentType: ContentTypeXLSX,
		Content:     content,
	}, nil
}
