package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/staffdesk/console/internal/clients"
	"github.com/staffdesk/console/internal/models"
)

// AttendanceService covers the per-employee attendance surface: recording
// a day's status and reading one employee's full history.
type AttendanceService interface {
	Mark(ctx context.Context, req models.MarkAttendanceRequest) (*models.AttendanceRecord, error)
	History(ctx context.Context, employeeID int64) (*models.EmployeeHistory, error)
}

type attendanceService struct {
	client   clients.BackendClient
	engine   *AggregationEngine
	validate *validator.Validate
}

func NewAttendanceService(client clients.BackendClient, engine *AggregationEngine) AttendanceService {
	return &attendanceService{
		client:   client,
		engine:   engine,
		validate: validator.New(),
	}
}

// Mark validates the payload before dispatch so obviously malformed input
// never reaches the backend. Backend rejections propagate verbatim; the
// caller surfaces them at the form.
func (s *attendanceService) Mark(ctx context.Context, req models.MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid attendance entry: %w", err)
	}

	return s.client.MarkAttendance(ctx, req)
}

// History fetches one employee's records and hands them to the engine. An
// employee with no records gets an empty history and zero totals.
func (s *attendanceService) History(ctx context.Context, employeeID int64) (*models.EmployeeHistory, error) {
	response, err := s.client.EmployeeAttendance(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	history := s.engine.BuildHistory(response.EmployeeName, response.Attendance)
	return &history, nil
}
