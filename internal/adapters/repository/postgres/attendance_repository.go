package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	pgdb "github.com/ogurasousui/attendance-payroll/internal/platform/db/postgres"
)

const attendanceColumns = `id,
               employee_id,
               punch_in_time,
               punch_in_latitude,
               punch_in_longitude,
               punch_out_time,
               punch_out_latitude,
               punch_out_longitude,
               total_hours::text,
               is_field_visit,
               notes,
               created_at,
               updated_at`

// AttendanceRepository は PostgreSQL を利用した勤怠記録永続化の実装です。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create は勤務中の記録を作成します。勤務中記録の重複は部分一意インデックスで拒否されます。
func (r *AttendanceRepository) Create(ctx context.Context, rec *attendance.Record) (*attendance.Record, error) {
	lat, lng := locationArgs(rec.PunchInLocation)

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO attendance_records (employee_id, punch_in_time, punch_in_latitude, punch_in_longitude, is_field_visit, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+attendanceColumns,
		rec.EmployeeID,
		rec.PunchInAt.UTC(),
		lat,
		lng,
		rec.IsFieldVisit,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)

	created, err := scanAttendance(row)
	if err != nil {
		return nil, translateAttendancePgError("create attendance", err)
	}
	return created, nil
}

// Close は退勤前の記録にのみ退勤情報を書き込みます。
func (r *AttendanceRepository) Close(ctx context.Context, rec *attendance.Record) (*attendance.Record, error) {
	if rec.PunchOutAt == nil || rec.TotalHours == nil {
		return nil, attendance.ErrInvalidTimeRange
	}
	lat, lng := locationArgs(rec.PunchOutLocation)

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE attendance_records
           SET punch_out_time = $1,
               punch_out_latitude = $2,
               punch_out_longitude = $3,
               total_hours = $4,
               updated_at = $5
         WHERE id = $6
           AND punch_out_time IS NULL
        RETURNING `+attendanceColumns,
		rec.PunchOutAt.UTC(),
		lat,
		lng,
		decimalArg(*rec.TotalHours),
		rec.UpdatedAt,
		rec.ID,
	)

	closed, err := scanAttendance(row)
	if err == nil {
		return closed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateAttendancePgError("close attendance", err)
	}

	exists, err := r.exists(ctx, exec, rec.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, attendance.ErrAlreadyPunchedOut
	}
	return nil, attendance.ErrRecordNotFound
}

// SetFieldVisit は外勤フラグを更新します。
func (r *AttendanceRepository) SetFieldVisit(ctx context.Context, id string, isFieldVisit bool, updatedAt time.Time) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE attendance_records
           SET is_field_visit = $1,
               updated_at = $2
         WHERE id = $3
        RETURNING `+attendanceColumns,
		isFieldVisit,
		updatedAt,
		id,
	)

	updated, err := scanAttendance(row)
	if err != nil {
		return nil, translateAttendancePgError("set field visit", err)
	}
	return updated, nil
}

// FindByID は ID で勤怠記録を取得します。
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance_records WHERE id = $1`, id)

	found, err := scanAttendance(row)
	if err != nil {
		return nil, translateAttendancePgError("find attendance", err)
	}
	return found, nil
}

// FindOpenByEmployee は社員の勤務中記録を取得します。
func (r *AttendanceRepository) FindOpenByEmployee(ctx context.Context, employeeID string) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+attendanceColumns+`
          FROM attendance_records
         WHERE employee_id = $1
           AND punch_out_time IS NULL
    `, employeeID)

	found, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrNoOpenSession
		}
		return nil, translateAttendancePgError("find open attendance", err)
	}
	return found, nil
}

// List は勤怠記録を出勤時刻の降順で取得します。
func (r *AttendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]*attendance.Record, string, error) {
	if filter.Limit <= 0 {
		return nil, "", attendance.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", attendance.ErrInvalidPageToken
	}

	var (
		params     placeholders
		conditions []string
	)

	if filter.EmployeeID != "" {
		conditions = append(conditions, "employee_id = "+params.add(filter.EmployeeID))
	}
	if filter.From != nil {
		conditions = append(conditions, "punch_in_time >= "+params.add(filter.From.UTC()))
	}
	if filter.To != nil {
		conditions = append(conditions, "punch_in_time < "+params.add(filter.To.UTC()))
	}

	limitWithBuffer := filter.Limit + 1
	limitPlaceholder := params.add(limitWithBuffer)
	offsetPlaceholder := params.add(filter.Offset)

	query := `
        SELECT ` + attendanceColumns + `
          FROM attendance_records` + whereClause(conditions) + `
         ORDER BY punch_in_time DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, params.args...)
	if err != nil {
		return nil, "", translateAttendancePgError("list attendance", err)
	}
	defer rows.Close()

	records := make([]*attendance.Record, 0, filter.Limit)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, "", translateAttendancePgError("list attendance", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateAttendancePgError("list attendance", err)
	}

	nextToken := nextPageToken(len(records), filter.Limit, filter.Offset)
	if nextToken != "" {
		records = records[:filter.Limit]
	}

	return records, nextToken, nil
}

// Summarize は [from, to) に出勤した記録を集計します。
func (r *AttendanceRepository) Summarize(ctx context.Context, employeeID string, from, to time.Time) (*attendance.Totals, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT COALESCE(SUM(total_hours), 0)::text,
               COUNT(*),
               COUNT(punch_out_time),
               COUNT(*) FILTER (WHERE is_field_visit)
          FROM attendance_records
         WHERE employee_id = $1
           AND punch_in_time >= $2
           AND punch_in_time < $3
    `, employeeID, from.UTC(), to.UTC())

	var (
		hours     string
		records   int64
		completed int64
		visits    int64
	)
	if err := row.Scan(&hours, &records, &completed, &visits); err != nil {
		return nil, translateAttendancePgError("summarize attendance", err)
	}

	total, err := parseDecimal("total_hours", hours)
	if err != nil {
		return nil, pgdb.StoreError("summarize attendance", err)
	}

	return &attendance.Totals{
		TotalHours:     total,
		Records:        int(records),
		CompletedCount: int(completed),
		FieldVisits:    int(visits),
	}, nil
}

func (r *AttendanceRepository) exists(ctx context.Context, exec pgdb.Queryer, id string) (bool, error) {
	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendance_records WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, pgdb.StoreError("check attendance", err)
	}
	return exists, nil
}

func locationArgs(loc *attendance.Location) (any, any) {
	if loc == nil {
		return nil, nil
	}
	return loc.Latitude, loc.Longitude
}

func locationFromNull(lat, lng sql.NullFloat64) *attendance.Location {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &attendance.Location{Latitude: lat.Float64, Longitude: lng.Float64}
}

func scanAttendance(row pgx.Row) (*attendance.Record, error) {
	var (
		id           string
		employeeID   string
		punchIn      time.Time
		punchInLat   sql.NullFloat64
		punchInLng   sql.NullFloat64
		punchOut     sql.NullTime
		punchOutLat  sql.NullFloat64
		punchOutLng  sql.NullFloat64
		totalHours   sql.NullString
		isFieldVisit bool
		notes        string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&id,
		&employeeID,
		&punchIn,
		&punchInLat,
		&punchInLng,
		&punchOut,
		&punchOutLat,
		&punchOutLng,
		&totalHours,
		&isFieldVisit,
		&notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	rec := &attendance.Record{
		ID:               id,
		EmployeeID:       employeeID,
		PunchInAt:        punchIn.UTC(),
		PunchInLocation:  locationFromNull(punchInLat, punchInLng),
		PunchOutAt:       timestampFromNull(punchOut),
		PunchOutLocation: locationFromNull(punchOutLat, punchOutLng),
		IsFieldVisit:     isFieldVisit,
		Notes:            notes,
		CreatedAt:        createdAt.UTC(),
		UpdatedAt:        updatedAt.UTC(),
	}

	if totalHours.Valid {
		hours, err := parseDecimal("total_hours", totalHours.String)
		if err != nil {
			return nil, err
		}
		rec.TotalHours = &hours
	}

	return rec, nil
}

func translateAttendancePgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.ErrRecordNotFound
	}

	if code, constraint, ok := pgdb.ConstraintViolation(err); ok {
		switch {
		case code == pgdb.UniqueViolationCode:
			return attendance.ErrOpenSessionExists
		case code == pgdb.ForeignKeyViolationCode:
			return attendance.ErrEmployeeNotFound
		case constraint == "attendance_records_time_range_check":
			return attendance.ErrInvalidTimeRange
		}
	}

	return pgdb.StoreError(op, err)
}

