// Package pdf は給与明細を PDF として描画します。
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/ogurasousui/attendance-payroll/internal/core/money"
	"github.com/ogurasousui/attendance-payroll/internal/core/payslip"
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

// PayslipRenderer は A4 一枚の給与明細を生成します。
type PayslipRenderer struct {
	companyName string
	clock       Clock
}

// NewPayslipRenderer は PayslipRenderer を生成します。
func NewPayslipRenderer(companyName string, clock Clock) *PayslipRenderer {
	if clock == nil {
		clock = realClock{}
	}
	return &PayslipRenderer{companyName: companyName, clock: clock}
}

// RenderPayslip は給与明細を PDF のバイト列として返します。
func (r *PayslipRenderer) RenderPayslip(entry payslip.Entry) ([]byte, error) {
	rec := entry.Payroll
	if rec == nil || entry.Employee == nil {
		return nil, fmt.Errorf("pdf: payslip entry is incomplete")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle("Payslip "+rec.Period(), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, r.companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 6, fmt.Sprintf("Payslip for %s %d", rec.Month.String(), rec.Year), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 5, "Generated: "+r.clock.Now().Format("02-Jan-2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Employee", "1", 1, "L", true, 0, "")

	emp := entry.Employee
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, "Name: "+entry.EmployeeName(), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Code: "+emp.EmployeeCode, "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Department: "+emp.Department, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Position: "+emp.Position, "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Days worked: %d", rec.DaysWorked), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Status: "+string(rec.Status), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Earnings", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Basic salary", rec.BasicSalary},
		{"Dearness allowance", rec.DA},
		{"House rent allowance", rec.HRA},
		{"Other allowances", rec.OtherAllowances},
	} {
		pdf.CellFormat(130, 7, line.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, money.Format(line.amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 7, "Gross salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, money.Format(rec.GrossSalary), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(130, 7, "Deductions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, money.Format(rec.Deductions), "1", 1, "R", false, 0, "")

	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(130, 10, "Net pay", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 10, money.Format(rec.NetSalary), "1", 1, "R", true, 0, "")

	if rec.ProcessedAt != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(190, 5, "Processed on "+rec.ProcessedAt.Format("02-Jan-2006"), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
