package models

// Attendance statuses the backend knows about. The aggregation side must
// tolerate values outside this set; validation only applies on the way out.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
)

// DateLayout is the calendar-date format used on the wire (no time component).
const DateLayout = "2006-01-02"

type AttendanceRecord struct {
	ID         int64  `json:"id,omitempty"`
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

type MarkAttendanceRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"required,oneof=Present Absent Late"`
}

// AttendanceHistoryResponse mirrors GET /attendance/employee/{id}.
type AttendanceHistoryResponse struct {
	EmployeeName string             `json:"employee_name"`
	Attendance   []AttendanceRecord `json:"attendance"`
}
