package postgres

import (
	pgdb "github.com/ogurasousui/attendance-payroll/internal/platform/db/postgres"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

const (
	pgdbUnique     = pgdb.UniqueViolationCode
	pgdbForeignKey = pgdb.ForeignKeyViolationCode
	pgdbCheck      = pgdb.CheckViolationCode
)

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
