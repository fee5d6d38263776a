package api

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// EmployeeServiceName は社員サービスの完全修飾名です。
const EmployeeServiceName = "employee.v1.EmployeeService"

// Salary は月額給与の構成要素です。金額は小数点以下 2 桁の文字列です。
type Salary struct {
	Basic           string `json:"basic"`
	DA              string `json:"da"`
	HRA             string `json:"hra"`
	OtherAllowances string `json:"other_allowances"`
	Gross           string `json:"gross,omitempty"`
}

// Employee は社員の表現です。
type Employee struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	JoinDate     string    `json:"join_date,omitempty"`
	Salary       Salary    `json:"salary"`
	Email        string    `json:"email,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateEmployeeRequest は社員作成リクエストです。
type CreateEmployeeRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Password     string `json:"password"`
	EmployeeCode string `json:"employee_code"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	JoinDate     string `json:"join_date,omitempty"`
	Salary       Salary `json:"salary"`
}

// UpdateEmployeeRequest は部分更新の要求です。nil のフィールドは変更しません。
// JoinDate に空文字列を指定すると入社日を消去します。
type UpdateEmployeeRequest struct {
	ID              string  `json:"id"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	EmployeeCode    *string `json:"employee_code,omitempty"`
	Department      *string `json:"department,omitempty"`
	Position        *string `json:"position,omitempty"`
	JoinDate        *string `json:"join_date,omitempty"`
	BasicSalary     *string `json:"basic_salary,omitempty"`
	DA              *string `json:"da,omitempty"`
	HRA             *string `json:"hra,omitempty"`
	OtherAllowances *string `json:"other_allowances,omitempty"`
}

// GetEmployeeRequest は社員取得リクエストです。
type GetEmployeeRequest struct {
	ID string `json:"id"`
}

// EmployeeResponse は社員を 1 件返すレスポンスです。
type EmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

// ListEmployeesRequest は社員一覧リクエストです。
type ListEmployeesRequest struct {
	Query     string `json:"query,omitempty"`
	PageSize  int32  `json:"page_size"`
	PageToken string `json:"page_token,omitempty"`
}

// ListEmployeesResponse は社員一覧レスポンスです。
type ListEmployeesResponse struct {
	Employees     []*Employee `json:"employees"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// EmployeeServiceServer は EmployeeService のサーバー実装です。
type EmployeeServiceServer interface {
	CreateEmployee(context.Context, *CreateEmployeeRequest) (*EmployeeResponse, error)
	UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*EmployeeResponse, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*EmployeeResponse, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error)
}

// EmployeeServiceDesc は EmployeeService のサービス定義です。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(EmployeeServiceName, "CreateEmployee", func(srv any, ctx context.Context, req *CreateEmployeeRequest) (*EmployeeResponse, error) {
			return srv.(EmployeeServiceServer).CreateEmployee(ctx, req)
		}),
		unary(EmployeeServiceName, "UpdateEmployee", func(srv any, ctx context.Context, req *UpdateEmployeeRequest) (*EmployeeResponse, error) {
			return srv.(EmployeeServiceServer).UpdateEmployee(ctx, req)
		}),
		unary(EmployeeServiceName, "GetEmployee", func(srv any, ctx context.Context, req *GetEmployeeRequest) (*EmployeeResponse, error) {
			return srv.(EmployeeServiceServer).GetEmployee(ctx, req)
		}),
		unary(EmployeeServiceName, "ListEmployees", func(srv any, ctx context.Context, req *ListEmployeesRequest) (*ListEmployeesResponse, error) {
			return srv.(EmployeeServiceServer).ListEmployees(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "employee/v1/employee.proto",
}

// RegisterEmployeeServiceServer は EmployeeService を登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

// EmployeeServiceClient は EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は EmployeeServiceClient を生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

// CreateEmployee は EmployeeService.CreateEmployee を呼び出します。
func (c *EmployeeServiceClient) CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[EmployeeResponse](ctx, c.cc, "/"+EmployeeServiceName+"/CreateEmployee", in, opts...)
}

// UpdateEmployee は EmployeeService.UpdateEmployee を呼び出します。
func (c *EmployeeServiceClient) UpdateEmployee(ctx context.Context, in *UpdateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[EmployeeResponse](ctx, c.cc, "/"+EmployeeServiceName+"/UpdateEmployee", in, opts...)
}

// GetEmployee は EmployeeService.GetEmployee を呼び出します。
func (c *EmployeeServiceClient) GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[EmployeeResponse](ctx, c.cc, "/"+EmployeeServiceName+"/GetEmployee", in, opts...)
}

// ListEmployees は EmployeeService.ListEmployees を呼び出します。
func (c *EmployeeServiceClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	return invoke[ListEmployeesResponse](ctx, c.cc, "/"+EmployeeServiceName+"/ListEmployees", in, opts...)
}
