package handler

import (
	"context"
	"fmt"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/core/employee"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// CreateEmployee はログイン用プロフィールと社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *api.CreateEmployeeRequest) (*api.EmployeeResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		return nil, invalidArgument(fmt.Sprintf("join_date: %v", err))
	}

	salary, err := toDomainSalary(req.Salary)
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{
		Actor:        actor,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Password:     req.Password,
		EmployeeCode: req.EmployeeCode,
		Department:   req.Department,
		Position:     req.Position,
		JoinDate:     joinDate,
		Salary:       salary,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.EmployeeResponse{Employee: toAPIEmployee(created)}, nil
}

// UpdateEmployee は社員情報を部分更新します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *api.UpdateEmployeeRequest) (*api.EmployeeResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	joinDate, joinDateSet, err := parseDateUpdate(req.JoinDate)
	if err != nil {
		return nil, invalidArgument(fmt.Sprintf("join_date: %v", err))
	}

	in := employee.UpdateEmployeeInput{
		Actor:        actor,
		ID:           req.ID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmployeeCode: req.EmployeeCode,
		Department:   req.Department,
		Position:     req.Position,
		JoinDate:     joinDate,
		JoinDateSet:  joinDateSet,
	}

	if in.BasicSalary, err = parseAmountUpdate(req.BasicSalary); err != nil {
		return nil, toStatusError(err)
	}
	if in.DA, err = parseAmountUpdate(req.DA); err != nil {
		return nil, toStatusError(err)
	}
	if in.HRA, err = parseAmountUpdate(req.HRA); err != nil {
		return nil, toStatusError(err)
	}
	if in.OtherAllowances, err = parseAmountUpdate(req.OtherAllowances); err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.svc.UpdateEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.EmployeeResponse{Employee: toAPIEmployee(updated)}, nil
}

// GetEmployee は社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *api.GetEmployeeRequest) (*api.EmployeeResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{Actor: actor, ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.EmployeeResponse{Employee: toAPIEmployee(found)}, nil
}

// ListEmployees は社員一覧を取得します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *api.ListEmployeesRequest) (*api.ListEmployeesResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.svc.ListEmployees(ctx, employee.ListEmployeesInput{
		Actor:     actor,
		Query:     req.Query,
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &api.ListEmployeesResponse{
		Employees:     make([]*api.Employee, 0, len(result.Employees)),
		NextPageToken: result.NextPageToken,
	}
	for _, e := range result.Employees {
		resp.Employees = append(resp.Employees, toAPIEmployee(e))
	}
	return resp, nil
}

func toDomainSalary(s api.Salary) (employee.SalaryComponents, error) {
	var (
		out employee.SalaryComponents
		err error
	)
	if out.Basic, err = parseAmount(s.Basic); err != nil {
		return employee.SalaryComponents{}, err
	}
	if out.DA, err = parseAmount(s.DA); err != nil {
		return employee.SalaryComponents{}, err
	}
	if out.HRA, err = parseAmount(s.HRA); err != nil {
		return employee.SalaryComponents{}, err
	}
	if out.OtherAllowances, err = parseAmount(s.OtherAllowances); err != nil {
		return employee.SalaryComponents{}, err
	}
	return out, nil
}
