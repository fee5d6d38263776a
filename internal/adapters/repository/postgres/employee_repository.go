package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/attendance-payroll/internal/core/employee"
	pgdb "github.com/ogurasousui/attendance-payroll/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

const employeeSelectColumns = `
               e.id,
               e.employee_code,
               e.department,
               e.position,
               e.join_date,
               e.basic_salary::text,
               e.da::text,
               e.hra::text,
               e.other_allowances::text,
               e.created_at,
               e.updated_at,
               p.id,
               p.email,
               p.first_name,
               p.last_name,
               p.role,
               p.created_at`

const employeeReturningColumns = `id, employee_code, department, position, join_date, basic_salary, da, hra, other_allowances, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。ID は既存プロフィールの ID です。
func (r *EmployeeRepository) Create(ctx context.Context, emp *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH e AS (
            INSERT INTO employees (id, employee_code, department, position, join_date, basic_salary, da, hra, other_allowances, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
            RETURNING `+employeeReturningColumns+`
        )
        SELECT`+employeeSelectColumns+`
          FROM e
          JOIN profiles p ON p.id = e.id
    `,
		emp.ID,
		emp.EmployeeCode,
		emp.Department,
		emp.Position,
		nullableDate(emp.JoinDate),
		decimalArg(emp.Salary.Basic),
		decimalArg(emp.Salary.DA),
		decimalArg(emp.Salary.HRA),
		decimalArg(emp.Salary.OtherAllowances),
		emp.CreatedAt,
		emp.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError("create employee", err)
	}
	return created, nil
}

// Update は社員情報を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, emp *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH e AS (
            UPDATE employees
               SET employee_code = $1,
                   department = $2,
                   position = $3,
                   join_date = $4,
                   basic_salary = $5,
                   da = $6,
                   hra = $7,
                   other_allowances = $8,
                   updated_at = $9
             WHERE id = $10
            RETURNING `+employeeReturningColumns+`
        )
        SELECT`+employeeSelectColumns+`
          FROM e
          JOIN profiles p ON p.id = e.id
    `,
		emp.EmployeeCode,
		emp.Department,
		emp.Position,
		nullableDate(emp.JoinDate),
		decimalArg(emp.Salary.Basic),
		decimalArg(emp.Salary.DA),
		decimalArg(emp.Salary.HRA),
		decimalArg(emp.Salary.OtherAllowances),
		emp.UpdatedAt,
		emp.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError("update employee", err)
	}
	return updated, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+employeeSelectColumns+`
          FROM employees e
          JOIN profiles p ON p.id = e.id
         WHERE e.id = $1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError("find employee", err)
	}
	return found, nil
}

// FindByCode は社員コードで社員を取得します。
func (r *EmployeeRepository) FindByCode(ctx context.Context, employeeCode string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+employeeSelectColumns+`
          FROM employees e
          JOIN profiles p ON p.id = e.id
         WHERE e.employee_code = $1
    `, employeeCode)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError("find employee by code", err)
	}
	return found, nil
}

// List は社員の一覧を作成日時の降順で取得します。Query は氏名・メール・部署・社員コードの部分一致です。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if filter.Limit <= 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	var (
		params     placeholders
		conditions []string
	)

	if filter.ID != "" {
		conditions = append(conditions, "e.id = "+params.add(filter.ID))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		ph := params.add(likePattern(q))
		conditions = append(conditions, "(p.first_name ILIKE "+ph+
			" OR p.last_name ILIKE "+ph+
			" OR p.email ILIKE "+ph+
			" OR e.department ILIKE "+ph+
			" OR e.employee_code ILIKE "+ph+")")
	}

	limitWithBuffer := filter.Limit + 1
	limitPlaceholder := params.add(limitWithBuffer)
	offsetPlaceholder := params.add(filter.Offset)

	query := `
        SELECT` + employeeSelectColumns + `
          FROM employees e
          JOIN profiles p ON p.id = e.id` + whereClause(conditions) + `
         ORDER BY e.created_at DESC, e.id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, params.args...)
	if err != nil {
		return nil, "", translateEmployeePgError("list employees", err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0, filter.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, "", translateEmployeePgError("list employees", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateEmployeePgError("list employees", err)
	}

	nextToken := nextPageToken(len(employees), filter.Limit, filter.Offset)
	if nextToken != "" {
		employees = employees[:filter.Limit]
	}

	return employees, nextToken, nil
}

// ListIDs は全社員の ID を社員コード順に返します。
func (r *EmployeeRepository) ListIDs(ctx context.Context) ([]string, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT id FROM employees ORDER BY employee_code`)
	if err != nil {
		return nil, translateEmployeePgError("list employee ids", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translateEmployeePgError("list employee ids", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError("list employee ids", err)
	}

	return ids, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id             string
		code           string
		department     string
		position       string
		joinDate       sql.NullTime
		basic          string
		da             string
		hra            string
		other          string
		createdAt      time.Time
		updatedAt      time.Time
		profileID      string
		profileEmail   string
		profileFirst   string
		profileLast    string
		profileRole    string
		profileCreated time.Time
	)

	if err := row.Scan(
		&id,
		&code,
		&department,
		&position,
		&joinDate,
		&basic,
		&da,
		&hra,
		&other,
		&createdAt,
		&updatedAt,
		&profileID,
		&profileEmail,
		&profileFirst,
		&profileLast,
		&profileRole,
		&profileCreated,
	); err != nil {
		return nil, err
	}

	emp := &employee.Employee{
		ID:           id,
		EmployeeCode: code,
		Department:   department,
		Position:     position,
		JoinDate:     dateFromNull(joinDate),
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
		Profile: &employee.ProfileSnapshot{
			ID:        profileID,
			Email:     profileEmail,
			FirstName: profileFirst,
			LastName:  profileLast,
			Role:      profileRole,
			CreatedAt: profileCreated.UTC(),
		},
	}

	if err := parseDecimals(
		[]string{"basic_salary", "da", "hra", "other_allowances"},
		[]string{basic, da, hra, other},
		[]*decimal.Decimal{&emp.Salary.Basic, &emp.Salary.DA, &emp.Salary.HRA, &emp.Salary.OtherAllowances},
	); err != nil {
		return nil, err
	}

	return emp, nil
}

func translateEmployeePgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	if errors.Is(err, employee.ErrInvalidPageSize) || errors.Is(err, employee.ErrInvalidPageToken) {
		return err
	}

	if code, _, ok := pgdb.ConstraintViolation(err); ok {
		switch code {
		case pgdb.UniqueViolationCode:
			return employee.ErrEmployeeCodeAlreadyExists
		case pgdb.ForeignKeyViolationCode:
			return employee.ErrProfileNotFound
		case pgdb.CheckViolationCode:
			return employee.ErrInvalidSalary
		}
	}

	return pgdb.StoreError(op, err)
}
