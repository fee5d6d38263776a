package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/attendance-payroll/internal/core/employee"
	"github.com/ogurasousui/attendance-payroll/internal/core/payroll"
	pgdb "github.com/ogurasousui/attendance-payroll/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

const payrollColumns = `id,
               employee_id,
               year,
               month,
               days_worked,
               basic_salary::text,
               da::text,
               hra::text,
               other_allowances::text,
               gross_salary::text,
               deductions::text,
               net_salary::text,
               status,
               processed_at,
               processed_by,
               created_at,
               updated_at`

// PayrollRepository は PostgreSQL を利用した給与記録永続化の実装です。
type PayrollRepository struct {
	pool pgdb.Queryer
}

// NewPayrollRepository は PayrollRepository を生成します。
func NewPayrollRepository(pool pgdb.Queryer) *PayrollRepository {
	return &PayrollRepository{pool: pool}
}

// Create は給与記録を作成します。(employee_id, month, year) の重複は一意制約で拒否されます。
func (r *PayrollRepository) Create(ctx context.Context, rec *payroll.Record) (*payroll.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO payroll_records (
            employee_id, year, month, days_worked,
            basic_salary, da, hra, other_allowances,
            gross_salary, deductions, net_salary,
            status, processed_at, processed_by, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING `+payrollColumns,
		rec.EmployeeID,
		rec.Year,
		int(rec.Month),
		rec.DaysWorked,
		decimalArg(rec.BasicSalary),
		decimalArg(rec.DA),
		decimalArg(rec.HRA),
		decimalArg(rec.OtherAllowances),
		decimalArg(rec.GrossSalary),
		decimalArg(rec.Deductions),
		decimalArg(rec.NetSalary),
		string(rec.Status),
		nullableTimestamp(rec.ProcessedAt),
		nullableString(rec.ProcessedBy),
		rec.CreatedAt,
		rec.UpdatedAt,
	)

	created, err := scanPayroll(row)
	if err != nil {
		return nil, translatePayrollPgError("create payroll", err)
	}
	return created, nil
}

// FindByID は ID で給与記録を取得します。
func (r *PayrollRepository) FindByID(ctx context.Context, id string) (*payroll.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payroll_records WHERE id = $1`, id)

	found, err := scanPayroll(row)
	if err != nil {
		return nil, translatePayrollPgError("find payroll", err)
	}
	return found, nil
}

// FindByPeriod は社員と年月で給与記録を取得します。
func (r *PayrollRepository) FindByPeriod(ctx context.Context, employeeID string, year int, month time.Month) (*payroll.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+payrollColumns+`
          FROM payroll_records
         WHERE employee_id = $1
           AND year = $2
           AND month = $3
    `, employeeID, year, int(month))

	found, err := scanPayroll(row)
	if err != nil {
		return nil, translatePayrollPgError("find payroll by period", err)
	}
	return found, nil
}

// UpdateStatus は保存済みのステータスが from の場合のみステータスと処理情報を更新します。
func (r *PayrollRepository) UpdateStatus(ctx context.Context, rec *payroll.Record, from payroll.Status) (*payroll.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE payroll_records
           SET status = $1,
               processed_at = $2,
               processed_by = $3,
               updated_at = $4
         WHERE id = $5
           AND status = $6
        RETURNING `+payrollColumns,
		string(rec.Status),
		nullableTimestamp(rec.ProcessedAt),
		nullableString(rec.ProcessedBy),
		rec.UpdatedAt,
		rec.ID,
		string(from),
	)

	updated, err := scanPayroll(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translatePayrollPgError("update payroll status", err)
	}

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payroll_records WHERE id = $1)`, rec.ID).Scan(&exists); err != nil {
		return nil, pgdb.StoreError("check payroll", err)
	}
	if exists {
		return nil, payroll.ErrStatusChanged
	}
	return nil, payroll.ErrPayrollNotFound
}

// List は給与記録を年・月・作成日時の降順で取得します。
func (r *PayrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]*payroll.Record, string, error) {
	if filter.Limit <= 0 {
		return nil, "", payroll.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", payroll.ErrInvalidPageToken
	}

	var (
		params     placeholders
		conditions []string
	)

	if filter.EmployeeID != "" {
		conditions = append(conditions, "employee_id = "+params.add(filter.EmployeeID))
	}
	if filter.Year != 0 {
		conditions = append(conditions, "year = "+params.add(filter.Year))
	}
	if filter.Month != 0 {
		conditions = append(conditions, "month = "+params.add(int(filter.Month)))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+params.add(string(filter.Status)))
	}

	limitWithBuffer := filter.Limit + 1
	limitPlaceholder := params.add(limitWithBuffer)
	offsetPlaceholder := params.add(filter.Offset)

	query := `
        SELECT ` + payrollColumns + `
          FROM payroll_records` + whereClause(conditions) + `
         ORDER BY year DESC, month DESC, created_at DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, params.args...)
	if err != nil {
		return nil, "", translatePayrollPgError("list payroll", err)
	}
	defer rows.Close()

	records := make([]*payroll.Record, 0, filter.Limit)
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, "", translatePayrollPgError("list payroll", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translatePayrollPgError("list payroll", err)
	}

	nextToken := nextPageToken(len(records), filter.Limit, filter.Offset)
	if nextToken != "" {
		records = records[:filter.Limit]
	}

	return records, nextToken, nil
}

func scanPayroll(row pgx.Row) (*payroll.Record, error) {
	var (
		id          string
		employeeID  string
		year        int
		month       int
		daysWorked  int
		basic       string
		da          string
		hra         string
		other       string
		gross       string
		deductions  string
		net         string
		status      string
		processedAt sql.NullTime
		processedBy sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(
		&id,
		&employeeID,
		&year,
		&month,
		&daysWorked,
		&basic,
		&da,
		&hra,
		&other,
		&gross,
		&deductions,
		&net,
		&status,
		&processedAt,
		&processedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	rec := &payroll.Record{
		ID:          id,
		EmployeeID:  employeeID,
		Year:        year,
		Month:       time.Month(month),
		DaysWorked:  daysWorked,
		Status:      payroll.Status(status),
		ProcessedAt: timestampFromNull(processedAt),
		ProcessedBy: processedBy.String,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}

	if err := parseDecimals(
		[]string{"basic_salary", "da", "hra", "other_allowances", "gross_salary", "deductions", "net_salary"},
		[]string{basic, da, hra, other, gross, deductions, net},
		[]*decimal.Decimal{&rec.BasicSalary, &rec.DA, &rec.HRA, &rec.OtherAllowances, &rec.GrossSalary, &rec.Deductions, &rec.NetSalary},
	); err != nil {
		return nil, err
	}

	return rec, nil
}

func translatePayrollPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.ErrPayrollNotFound
	}

	if code, constraint, ok := pgdb.ConstraintViolation(err); ok {
		switch {
		case code == pgdb.UniqueViolationCode:
			return payroll.ErrPayrollExists
		case constraint == "payroll_records_employee_id_fkey":
			return employee.ErrEmployeeNotFound
		case constraint == "payroll_records_status_check":
			return payroll.ErrInvalidStatus
		case constraint == "payroll_records_month_check":
			return payroll.ErrInvalidPeriod
		case constraint == "payroll_records_amount_check":
			return payroll.ErrInvalidDeductions
		}
	}

	return pgdb.StoreError(op, err)
}
