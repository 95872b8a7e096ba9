package clients

import (
	"context"

	"github.com/staffdesk/console/internal/models"
)

// BackendClient defines the interface for the workforce backend API. It is
// the single choke point for outbound calls: every request carries the
// current bearer token and every 401 reply expires the session before the
// error reaches the caller. No call retries and no call caches.
type BackendClient interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, req models.CreateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	MarkAttendance(ctx context.Context, req models.MarkAttendanceRequest) (*models.AttendanceRecord, error)
	EmployeeAttendance(ctx context.Context, id int64) (*models.AttendanceHistoryResponse, error)
}
