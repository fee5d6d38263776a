package handler

import (
	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"google.golang.org/grpc"
)

var (
	_ api.AuthServiceServer       = (*AuthGrpcHandler)(nil)
	_ api.EmployeeServiceServer   = (*EmployeeGrpcHandler)(nil)
	_ api.AttendanceServiceServer = (*AttendanceGrpcHandler)(nil)
	_ api.PayrollServiceServer    = (*PayrollGrpcHandler)(nil)
)

// Handlers はサーバーに登録する gRPC ハンドラーの組です。
type Handlers struct {
	Auth       *AuthGrpcHandler
	Employee   *EmployeeGrpcHandler
	Attendance *AttendanceGrpcHandler
	Payroll    *PayrollGrpcHandler
}

// Register は全サービスを登録します。
func (h Handlers) Register(s grpc.ServiceRegistrar) {
	api.RegisterAuthServiceServer(s, h.Auth)
	api.RegisterEmployeeServiceServer(s, h.Employee)
	api.RegisterAttendanceServiceServer(s, h.Attendance)
	api.RegisterPayrollServiceServer(s, h.Payroll)
}
