package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// 表示用ステータスです。
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Location は打刻時の位置情報です。
type Location struct {
	Latitude  float64
	Longitude float64
}

// Valid は緯度経度が有限値かどうかを返します。
func (l Location) Valid() bool {
	return isFinite(l.Latitude) && isFinite(l.Longitude)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Record は勤怠記録エンティティです。PunchOutAt が nil の記録は勤務中を表します。
type Record struct {
	ID               string
	EmployeeID       string
	PunchInAt        time.Time
	PunchInLocation  *Location
	PunchOutAt       *time.Time
	PunchOutLocation *Location
	TotalHours       *decimal.Decimal
	IsFieldVisit     bool
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Open は退勤前かどうかを返します。
func (r *Record) Open() bool {
	return r.PunchOutAt == nil
}

// Status は表示用のステータスを返します。
func (r *Record) Status() string {
	if r.Open() {
		return StatusInProgress
	}
	return StatusCompleted
}

// DurationLabel は勤務時間の表示文字列を返します。
func (r *Record) DurationLabel() string {
	if r.Open() || r.TotalHours == nil {
		return "In progress"
	}
	return r.TotalHours.StringFixed(2) + " hours"
}

// ElapsedLabel は出勤から退勤まで (退勤前は now まで) の経過時間を "8h 30m" 形式で返します。
func (r *Record) ElapsedLabel(now time.Time) string {
	end := now
	if r.PunchOutAt != nil {
		end = *r.PunchOutAt
	}

	elapsed := end.Sub(r.PunchInAt)
	if elapsed < 0 {
		elapsed = 0
	}

	hours := int(elapsed / time.Hour)
	minutes := int((elapsed % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// ComputeTotalHours は勤務時間を小数第 2 位で丸めて返します。
func ComputeTotalHours(punchIn, punchOut time.Time) (decimal.Decimal, error) {
	if punchOut.Before(punchIn) {
		return decimal.Zero, ErrInvalidTimeRange
	}

	ms := punchOut.Sub(punchIn).Milliseconds()
	return decimal.NewFromInt(ms).Div(decimal.NewFromInt(millisPerHour)).Round(2), nil
}

const millisPerHour = 3600000

// Summary は月次の勤怠集計です。
type Summary struct {
	EmployeeID     string
	Year           int
	Month          time.Month
	TotalHours     decimal.Decimal
	DaysWorked     int
	FieldVisits    int
	AttendanceRate int
}
