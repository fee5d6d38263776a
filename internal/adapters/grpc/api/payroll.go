package api

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// PayrollServiceName は給与サービスの完全修飾名です。
const PayrollServiceName = "payroll.v1.PayrollService"

// Payroll は給与記録の表現です。金額は小数点以下 2 桁の文字列です。
type Payroll struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Year            int32      `json:"year"`
	Month           int32      `json:"month"`
	DaysWorked      int32      `json:"days_worked"`
	BasicSalary     string     `json:"basic_salary"`
	DA              string     `json:"da"`
	HRA             string     `json:"hra"`
	OtherAllowances string     `json:"other_allowances"`
	GrossSalary     string     `json:"gross_salary"`
	Deductions      string     `json:"deductions"`
	NetSalary       string     `json:"net_salary"`
	Status          string     `json:"status"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessedBy     string     `json:"processed_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// GeneratePayrollRequest は社員 1 名分の給与生成リクエストです。
type GeneratePayrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int32  `json:"year"`
	Month      int32  `json:"month"`
}

// PeriodRequest は対象年月を指定するリクエストです。
type PeriodRequest struct {
	Year  int32 `json:"year"`
	Month int32 `json:"month"`
}

// GeneratePayrollBatchResponse は一括給与生成の結果です。
type GeneratePayrollBatchResponse struct {
	Generated []*Payroll `json:"generated"`
	Skipped   []string   `json:"skipped,omitempty"`
}

// AdvancePayrollStatusRequest は給与ステータス遷移リクエストです。
type AdvancePayrollStatusRequest struct {
	PayrollID string `json:"payroll_id"`
	Status    string `json:"status"`
}

// PayrollIDRequest は給与レコード ID を指定するリクエストです。
type PayrollIDRequest struct {
	PayrollID string `json:"payroll_id"`
}

// PayrollResponse は給与レコードを 1 件返すレスポンスです。
type PayrollResponse struct {
	Payroll *Payroll `json:"payroll"`
}

// ListPayrollRequest は給与一覧リクエストです。
type ListPayrollRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Year       int32  `json:"year,omitempty"`
	Month      int32  `json:"month,omitempty"`
	Status     string `json:"status,omitempty"`
	PageSize   int32  `json:"page_size"`
	PageToken  string `json:"page_token,omitempty"`
}

// ListPayrollResponse は給与一覧レスポンスです。
type ListPayrollResponse struct {
	Records       []*Payroll `json:"records"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

// RenderPayslipRequest は給与明細 PDF の生成リクエストです。
type RenderPayslipRequest struct {
	PayrollID string `json:"payroll_id"`
	Archive   bool   `json:"archive,omitempty"`
}

// DocumentResponse は生成済みドキュメントです。Content は JSON では base64 で表現されます。
type DocumentResponse struct {
	FileName        string `json:"file_name"`
	ContentType     string `json:"content_type"`
	Content         []byte `json:"content"`
	ArchiveLocation string `json:"archive_location,omitempty"`
}

// PayrollServiceServer は PayrollService のサーバー実装です。
type PayrollServiceServer interface {
	GeneratePayroll(context.Context, *GeneratePayrollRequest) (*PayrollResponse, error)
	GeneratePayrollBatch(context.Context, *PeriodRequest) (*GeneratePayrollBatchResponse, error)
	AdvancePayrollStatus(context.Context, *AdvancePayrollStatusRequest) (*PayrollResponse, error)
	GetPayroll(context.Context, *PayrollIDRequest) (*PayrollResponse, error)
	ListPayroll(context.Context, *ListPayrollRequest) (*ListPayrollResponse, error)
	RenderPayslip(context.Context, *RenderPayslipRequest) (*DocumentResponse, error)
	ExportRegister(context.Context, *PeriodRequest) (*DocumentResponse, error)
}

// PayrollServiceDesc は PayrollService のサービス定義です。
var PayrollServiceDesc = grpc.ServiceDesc{
	ServiceName: PayrollServiceName,
	HandlerType: (*PayrollServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(PayrollServiceName, "GeneratePayroll", func(srv any, ctx context.Context, req *GeneratePayrollRequest) (*PayrollResponse, error) {
			return srv.(PayrollServiceServer).GeneratePayroll(ctx, req)
		}),
		unary(PayrollServiceName, "GeneratePayrollBatch", func(srv any, ctx context.Context, req *PeriodRequest) (*GeneratePayrollBatchResponse, error) {
			return srv.(PayrollServiceServer).GeneratePayrollBatch(ctx, req)
		}),
		unary(PayrollServiceName, "AdvancePayrollStatus", func(srv any, ctx context.Context, req *AdvancePayrollStatusRequest) (*PayrollResponse, error) {
			return srv.(PayrollServiceServer).AdvancePayrollStatus(ctx, req)
		}),
		unary(PayrollServiceName, "GetPayroll", func(srv any, ctx context.Context, req *PayrollIDRequest) (*PayrollResponse, error) {
			return srv.(PayrollServiceServer).GetPayroll(ctx, req)
		}),
		unary(PayrollServiceName, "ListPayroll", func(srv any, ctx context.Context, req *ListPayrollRequest) (*ListPayrollResponse, error) {
			return srv.(PayrollServiceServer).ListPayroll(ctx, req)
		}),
		unary(PayrollServiceName, "RenderPayslip", func(srv any, ctx context.Context, req *RenderPayslipRequest) (*DocumentResponse, error) {
			return srv.(PayrollServiceServer).RenderPayslip(ctx, req)
		}),
		unary(PayrollServiceName, "ExportRegister", func(srv any, ctx context.Context, req *PeriodRequest) (*DocumentResponse, error) {
			return srv.(PayrollServiceServer).ExportRegister(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payroll/v1/payroll.proto",
}

// RegisterPayrollServiceServer は PayrollService を登録します。
func RegisterPayrollServiceServer(s grpc.ServiceRegistrar, srv PayrollServiceServer) {
	s.RegisterService(&PayrollServiceDesc, srv)
}

// PayrollServiceClient は PayrollService のクライアントです。
type PayrollServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPayrollServiceClient は PayrollServiceClient を生成します。
func NewPayrollServiceClient(cc grpc.ClientConnInterface) *PayrollServiceClient {
	return &PayrollServiceClient{cc: cc}
}

// GeneratePayroll は PayrollService.GeneratePayroll を呼び出します。
func (c *PayrollServiceClient) GeneratePayroll(ctx context.Context, in *GeneratePayrollRequest, opts ...grpc.CallOption) (*PayrollResponse, error) {
	return invoke[PayrollResponse](ctx, c.cc, "/"+PayrollServiceName+"/GeneratePayroll", in, opts...)
}

// GeneratePayrollBatch は PayrollService.GeneratePayrollBatch を呼び出します。
func (c *PayrollServiceClient) GeneratePayrollBatch(ctx context.Context, in *PeriodRequest, opts ...grpc.CallOption) (*GeneratePayrollBatchResponse, error) {
	return invoke[GeneratePayrollBatchResponse](ctx, c.cc, "/"+PayrollServiceName+"/GeneratePayrollBatch", in, opts...)
}

// AdvancePayrollStatus は PayrollService.AdvancePayrollStatus を呼び出します。
func (c *PayrollServiceClient) AdvancePayrollStatus(ctx context.Context, in *AdvancePayrollStatusRequest, opts ...grpc.CallOption) (*PayrollResponse, error) {
	return invoke[PayrollResponse](ctx, c.cc, "/"+PayrollServiceName+"/AdvancePayrollStatus", in, opts...)
}

// GetPayroll は PayrollService.GetPayroll を呼び出します。
func (c *PayrollServiceClient) GetPayroll(ctx context.Context, in *PayrollIDRequest, opts ...grpc.CallOption) (*PayrollResponse, error) {
	return invoke[PayrollResponse](ctx, c.cc, "/"+PayrollServiceName+"/GetPayroll", in, opts...)
}

// ListPayroll は PayrollService.ListPayroll を呼び出します。
func (c *PayrollServiceClient) ListPayroll(ctx context.Context, in *ListPayrollRequest, opts ...grpc.CallOption) (*ListPayrollResponse, error) {
	return invoke[ListPayrollResponse](ctx, c.cc, "/"+PayrollServiceName+"/ListPayroll", in, opts...)
}

// RenderPayslip は PayrollService.RenderPayslip を呼び出します。
func (c *PayrollServiceClient) RenderPayslip(ctx context.Context, in *RenderPayslipRequest, opts ...grpc.CallOption) (*DocumentResponse, error) {
	return invoke[DocumentResponse](ctx, c.cc, "/"+PayrollServiceName+"/RenderPayslip", in, opts...)
}

// ExportRegister は PayrollService.ExportRegister を呼び出します。
func (c *PayrollServiceClient) ExportRegister(ctx context.Context, in *PeriodRequest, opts ...grpc.CallOption) (*DocumentResponse, error) {
	return invoke[DocumentResponse](ctx, c.cc, "/"+PayrollServiceName+"/ExportRegister", in, opts...)
}
