// Package xlsx は月次の給与台帳を Excel ブックとして出力します。
package xlsx

import (
	"fmt"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/payslip"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Register"

var registerHeader = []any{
	"Employee code", "Name", "Department", "Days worked",
	"Basic", "DA", "HRA", "Other allowances",
	"Gross", "Deductions", "Net", "Status",
}

// RegisterRenderer は給与台帳を生成します。
type RegisterRenderer struct{}

// NewRegisterRenderer は RegisterRenderer を生成します。
func NewRegisterRenderer() *RegisterRenderer {
	return &RegisterRenderer{}
}

// RenderRegister は指定月の給与台帳を xlsx のバイト列として返します。最終行に合計を出力します。
func (r *RegisterRenderer) RenderRegister(year int, month time.Month, entries []payslip.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	title := fmt.Sprintf("Payroll register %04d-%02d", year, int(month))
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, fmt.Errorf("xlsx: write title: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A2", &registerHeader); err != nil {
		return nil, fmt.Errorf("xlsx: write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: create style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("xlsx: create style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "L2", bold); err != nil {
		return nil, fmt.Errorf("xlsx: apply style: %w", err)
	}

	totals := make([]decimal.Decimal, 7)
	row := 3
	for _, entry := range entries {
		rec := entry.Payroll
		if rec == nil {
			continue
		}
		code, department := "", ""
		if entry.Employee != nil {
			code = entry.Employee.EmployeeCode
			department = entry.Employee.Department
		}

		amounts := []decimal.Decimal{
			rec.BasicSalary, rec.DA, rec.HRA, rec.OtherAllowances,
			rec.GrossSalary, rec.Deductions, rec.NetSalary,
		}
		values := []any{code, entry.EmployeeName(), department, rec.DaysWorked}
		for i, a := range amounts {
			values = append(values, a.InexactFloat64())
			totals[i] = totals[i].Add(a)
		}
		values = append(values, string(rec.Status))

		if err := writeRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	totalRow := []any{"Total", "", "", ""}
	for _, t := range totals {
		totalRow = append(totalRow, t.InexactFloat64())
	}
	if err := writeRow(f, row, totalRow); err != nil {
		return nil, err
	}

	first, _ := excelize.CoordinatesToCellName(5, 3)
	last, _ := excelize.CoordinatesToCellName(11, row)
	if err := f.SetCellStyle(sheetName, first, last, amount); err != nil {
		return nil, fmt.Errorf("xlsx: apply style: %w", err)
	}
	totalStart, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetCellStyle(sheetName, totalStart, totalStart, bold); err != nil {
		return nil, fmt.Errorf("xlsx: apply style: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "L", 16); err != nil {
		return nil, fmt.Errorf("xlsx: set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("xlsx: write row %d: %w", row, err)
	}
	return nil
}
