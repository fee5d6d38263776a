package postgres

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/money"
	"github.com/shopspring/decimal"
)

// placeholders は位置パラメータを組み立てながら引数を蓄積します。
type placeholders struct {
	args []any
}

func (p *placeholders) add(value any) string {
	p.args = append(p.args, value)
	return "$" + strconv.Itoa(len(p.args))
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableTimestamp(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func dateFromNull(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}

func timestampFromNull(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}

// numeric 列は ::text で取得し decimal に変換する。
func parseDecimal(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s %q: %w", column, raw, err)
	}
	return d, nil
}

func parseDecimals(columns []string, raws []string, dests []*decimal.Decimal) error {
	for i := range raws {
		d, err := parseDecimal(columns[i], raws[i])
		if err != nil {
			return err
		}
		*dests[i] = d
	}
	return nil
}

func decimalArg(d decimal.Decimal) string {
	return money.String(d)
}

func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}

func nextPageToken(count, limit, offset int) string {
	if count <= limit {
		return ""
	}
	return strconv.Itoa(offset + limit)
}
