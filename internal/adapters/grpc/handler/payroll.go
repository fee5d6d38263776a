package handler

import (
	"context"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/api"
	"github.com/ogurasousui/attendance-payroll/internal/core/payroll"
	"github.com/ogurasousui/attendance-payroll/internal/core/payslip"
)

// PayrollGrpcHandler は PayrollService の gRPC 実装です。
type PayrollGrpcHandler struct {
	svc       payroll.UseCase
	documents payslip.UseCase
}

// NewPayrollGrpcHandler は PayrollGrpcHandler を生成します。
func NewPayrollGrpcHandler(svc payroll.UseCase, documents payslip.UseCase) *PayrollGrpcHandler {
	return &PayrollGrpcHandler{svc: svc, documents: documents}
}

// GeneratePayroll は社員の月次給与記録を生成します。
func (h *PayrollGrpcHandler) GeneratePayroll(ctx context.Context, req *api.GeneratePayrollRequest) (*api.PayrollResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.GeneratePayroll(ctx, payroll.GeneratePayrollInput{
		Actor:      actor,
		EmployeeID: req.EmployeeID,
		Year:       int(req.Year),
		Month:      time.Month(req.Month),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.PayrollResponse{Payroll: toAPIPayroll(created)}, nil
}

// GeneratePayrollBatch は全社員の月次給与記録を生成します。生成済みの社員はスキップします。
func (h *PayrollGrpcHandler) GeneratePayrollBatch(ctx context.Context, req *api.PeriodRequest) (*api.GeneratePayrollBatchResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.svc.GeneratePayrollBatch(ctx, payroll.GeneratePayrollBatchInput{
		Actor: actor,
		Year:  int(req.Year),
		Month: time.Month(req.Month),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &api.GeneratePayrollBatchResponse{
		Generated: make([]*api.Payroll, 0, len(result.Generated)),
		Skipped:   result.Skipped,
	}
	for _, r := range result.Generated {
		resp.Generated = append(resp.Generated, toAPIPayroll(r))
	}
	return resp, nil
}

// AdvancePayrollStatus は給与記録のステータスを次の段階へ進めます。
func (h *PayrollGrpcHandler) AdvancePayrollStatus(ctx context.Context, req *api.AdvancePayrollStatusRequest) (*api.PayrollResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	next, err := payroll.ParseStatus(req.Status)
	if err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.svc.AdvancePayrollStatus(ctx, payroll.AdvancePayrollStatusInput{
		Actor:     actor,
		PayrollID: req.PayrollID,
		Status:    next,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.PayrollResponse{Payroll: toAPIPayroll(updated)}, nil
}

// GetPayroll は給与記録を取得します。
func (h *PayrollGrpcHandler) GetPayroll(ctx context.Context, req *api.PayrollIDRequest) (*api.PayrollResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetPayroll(ctx, payroll.GetPayrollInput{Actor: actor, PayrollID: req.PayrollID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &api.PayrollResponse{Payroll: toAPIPayroll(found)}, nil
}

// ListPayroll は給与記録の一覧を取得します。
func (h *PayrollGrpcHandler) ListPayroll(ctx context.Context, req *api.ListPayrollRequest) (*api.ListPayrollResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var statusFilter payroll.Status
	if req.Status != "" {
		parsed, err := payroll.ParseStatus(req.Status)
		if err != nil {
			return nil, toStatusError(err)
		}
		statusFilter = parsed
	}

	result, err := h.svc.ListPayroll(ctx, payroll.ListPayrollInput{
		Actor:      actor,
		EmployeeID: req.EmployeeID,
		Year:       int(req.Year),
		Month:      time.Month(req.Month),
		Status:     statusFilter,
		PageSize:   int(req.PageSize),
		PageToken:  req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &api.ListPayrollResponse{
		Records:       make([]*api.Payroll, 0, len(result.Records)),
		NextPageToken: result.NextPageToken,
	}
	for _, r := range result.Records {
		resp.Records = append(resp.Records, toAPIPayroll(r))
	}
	return resp, nil
}

// RenderPayslip は給与明細の PDF を返します。
func (h *PayrollGrpcHandler) RenderPayslip(ctx context.Context, req *api.RenderPayslipRequest) (*api.DocumentResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := h.documents.RenderPayslip(ctx, payslip.RenderPayslipInput{
		Actor:     actor,
		PayrollID: req.PayrollID,
		Archive:   req.Archive,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toAPIDocument(doc), nil
}

// ExportRegister は指定月の給与台帳を xlsx で返します。
func (h *PayrollGrpcHandler) ExportRegister(ctx context.Context, req *api.PeriodRequest) (*api.DocumentResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := h.documents.ExportRegister(ctx, payslip.ExportRegisterInput{
		Actor: actor,
		Year:  int(req.Year),
		Month: time.Month(req.Month),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toAPIDocument(doc), nil
}
