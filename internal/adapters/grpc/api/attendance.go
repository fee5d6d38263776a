package api

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AttendanceServiceName は勤怠サービスの完全修飾名です。
const AttendanceServiceName = "attendance.v1.AttendanceService"

// Location は打刻位置の緯度経度です。
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Attendance は勤怠記録の表現です。TotalHours は退勤済みの場合のみ設定されます。
type Attendance struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	PunchInTime      time.Time  `json:"punch_in_time"`
	PunchInLocation  *Location  `json:"punch_in_location,omitempty"`
	PunchOutTime     *time.Time `json:"punch_out_time,omitempty"`
	PunchOutLocation *Location  `json:"punch_out_location,omitempty"`
	TotalHours       string     `json:"total_hours,omitempty"`
	Status           string     `json:"status"`
	Duration         string     `json:"duration"`
	IsFieldVisit     bool       `json:"is_field_visit"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// PunchInRequest は出勤打刻リクエストです。時刻はサーバー側で決まります。
type PunchInRequest struct {
	EmployeeID string    `json:"employee_id,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// PunchOutRequest は退勤打刻リクエストです。
type PunchOutRequest struct {
	AttendanceID string    `json:"attendance_id"`
	Location     *Location `json:"location,omitempty"`
}

// AttendanceIDRequest は勤怠記録 ID を指定するリクエストです。
type AttendanceIDRequest struct {
	AttendanceID string `json:"attendance_id"`
}

// AttendanceResponse は勤怠記録を 1 件返すレスポンスです。
type AttendanceResponse struct {
	Attendance *Attendance `json:"attendance"`
}

// ListAttendanceRequest の From / To は YYYY-MM-DD または RFC 3339 形式です。To は含みません。
type ListAttendanceRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	PageSize   int32  `json:"page_size"`
	PageToken  string `json:"page_token,omitempty"`
}

// ListAttendanceResponse は勤怠一覧レスポンスです。
type ListAttendanceResponse struct {
	Records       []*Attendance `json:"records"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// CurrentSessionResponse は勤務中記録です。勤務中でない場合 Attendance は nil です。
type CurrentSessionResponse struct {
	Attendance *Attendance `json:"attendance,omitempty"`
	Elapsed    string      `json:"elapsed,omitempty"`
}

// MonthlySummaryRequest は月次集計リクエストです。Year と Month がともに 0 の場合は当月を集計します。
type MonthlySummaryRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Year       int32  `json:"year"`
	Month      int32  `json:"month"`
}

// MonthlySummaryResponse は月次集計の結果です。
type MonthlySummaryResponse struct {
	EmployeeID     string `json:"employee_id"`
	Year           int32  `json:"year"`
	Month          int32  `json:"month"`
	TotalHours     string `json:"total_hours"`
	DaysWorked     int32  `json:"days_worked"`
	FieldVisits    int32  `json:"field_visits"`
	AttendanceRate int32  `json:"attendance_rate"`
}

// AttendanceServiceServer は AttendanceService のサーバー実装です。
type AttendanceServiceServer interface {
	PunchIn(context.Context, *PunchInRequest) (*AttendanceResponse, error)
	PunchOut(context.Context, *PunchOutRequest) (*AttendanceResponse, error)
	ToggleFieldVisit(context.Context, *AttendanceIDRequest) (*AttendanceResponse, error)
	GetAttendance(context.Context, *AttendanceIDRequest) (*AttendanceResponse, error)
	ListAttendance(context.Context, *ListAttendanceRequest) (*ListAttendanceResponse, error)
	CurrentSession(context.Context, *emptypb.Empty) (*CurrentSessionResponse, error)
	MonthlySummary(context.Context, *MonthlySummaryRequest) (*MonthlySummaryResponse, error)
}

// AttendanceServiceDesc は AttendanceService のサービス定義です。
var AttendanceServiceDesc = grpc.ServiceDesc{
	ServiceName: AttendanceServiceName,
	HandlerType: (*AttendanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AttendanceServiceName, "PunchIn", func(srv any, ctx context.Context, req *PunchInRequest) (*AttendanceResponse, error) {
			return srv.(AttendanceServiceServer).PunchIn(ctx, req)
		}),
		unary(AttendanceServiceName, "PunchOut", func(srv any, ctx context.Context, req *PunchOutRequest) (*AttendanceResponse, error) {
			return srv.(AttendanceServiceServer).PunchOut(ctx, req)
		}),
		unary(AttendanceServiceName, "ToggleFieldVisit", func(srv any, ctx context.Context, req *AttendanceIDRequest) (*AttendanceResponse, error) {
			return srv.(AttendanceServiceServer).ToggleFieldVisit(ctx, req)
		}),
		unary(AttendanceServiceName, "GetAttendance", func(srv any, ctx context.Context, req *AttendanceIDRequest) (*AttendanceResponse, error) {
			return srv.(AttendanceServiceServer).GetAttendance(ctx, req)
		}),
		unary(AttendanceServiceName, "ListAttendance", func(srv any, ctx context.Context, req *ListAttendanceRequest) (*ListAttendanceResponse, error) {
			return srv.(AttendanceServiceServer).ListAttendance(ctx, req)
		}),
		unary(AttendanceServiceName, "CurrentSession", func(srv any, ctx context.Context, req *emptypb.Empty) (*CurrentSessionResponse, error) {
			return srv.(AttendanceServiceServer).CurrentSession(ctx, req)
		}),
		unary(AttendanceServiceName, "MonthlySummary", func(srv any, ctx context.Context, req *MonthlySummaryRequest) (*MonthlySummaryResponse, error) {
			return srv.(AttendanceServiceServer).MonthlySummary(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "attendance/v1/attendance.proto",
}

// RegisterAttendanceServiceServer は AttendanceService を登録します。
func RegisterAttendanceServiceServer(s grpc.ServiceRegistrar, srv AttendanceServiceServer) {
	s.RegisterService(&AttendanceServiceDesc, srv)
}

// AttendanceServiceClient は AttendanceService のクライアントです。
type AttendanceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAttendanceServiceClient は AttendanceServiceClient を生成します。
func NewAttendanceServiceClient(cc grpc.ClientConnInterface) *AttendanceServiceClient {
	return &AttendanceServiceClient{cc: cc}
}

// PunchIn は AttendanceService.PunchIn を呼び出します。
func (c *AttendanceServiceClient) PunchIn(ctx context.Context, in *PunchInRequest, opts ...grpc.CallOption) (*AttendanceResponse, error) {
	return invoke[AttendanceResponse](ctx, c.cc, "/"+AttendanceServiceName+"/PunchIn", in, opts...)
}

// PunchOut は AttendanceService.PunchOut を呼び出します。
func (c *AttendanceServiceClient) PunchOut(ctx context.Context, in *PunchOutRequest, opts ...grpc.CallOption) (*AttendanceResponse, error) {
	return invoke[AttendanceResponse](ctx, c.cc, "/"+AttendanceServiceName+"/PunchOut", in, opts...)
}

// ToggleFieldVisit は AttendanceService.ToggleFieldVisit を呼び出します。
func (c *AttendanceServiceClient) ToggleFieldVisit(ctx context.Context, in *AttendanceIDRequest, opts ...grpc.CallOption) (*AttendanceResponse, error) {
	return invoke[AttendanceResponse](ctx, c.cc, "/"+AttendanceServiceName+"/ToggleFieldVisit", in, opts...)
}

// GetAttendance は AttendanceService.GetAttendance を呼び出します。
func (c *AttendanceServiceClient) GetAttendance(ctx context.Context, in *AttendanceIDRequest, opts ...grpc.CallOption) (*AttendanceResponse, error) {
	return invoke[AttendanceResponse](ctx, c.cc, "/"+AttendanceServiceName+"/GetAttendance", in, opts...)
}

// ListAttendance は AttendanceService.ListAttendance を呼び出します。
func (c *AttendanceServiceClient) ListAttendance(ctx context.Context, in *ListAttendanceRequest, opts ...grpc.CallOption) (*ListAttendanceResponse, error) {
	return invoke[ListAttendanceResponse](ctx, c.cc, "/"+AttendanceServiceName+"/ListAttendance", in, opts...)
}

// CurrentSession は AttendanceService.CurrentSession を呼び出します。
func (c *AttendanceServiceClient) CurrentSession(ctx context.Context, opts ...grpc.CallOption) (*CurrentSessionResponse, error) {
	return invoke[CurrentSessionResponse](ctx, c.cc, "/"+AttendanceServiceName+"/CurrentSession", &emptypb.Empty{}, opts...)
}

// MonthlySummary は AttendanceService.MonthlySummary を呼び出します。
func (c *AttendanceServiceClient) MonthlySummary(ctx context.Context, in *MonthlySummaryRequest, opts ...grpc.CallOption) (*MonthlySummaryResponse, error) {
	return invoke[MonthlySummaryResponse](ctx, c.cc, "/"+AttendanceServiceName+"/MonthlySummary", in, opts...)
}
