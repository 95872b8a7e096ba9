package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/staffdesk/console/internal/clients"
	"github.com/staffdesk/console/internal/models"
)

// historyFetchLimit bounds how many per-employee history requests run at
// once during a dashboard load.
const historyFetchLimit = 8

// DashboardService assembles the dashboard snapshot: refresh the roster,
// fan out one history fetch per employee, and aggregate whatever settled.
type DashboardService interface {
	Load(ctx context.Context) (*models.DashboardSnapshot, error)
}

type dashboardService struct {
	client    clients.BackendClient
	directory DirectoryService
	engine    *AggregationEngine
}

func NewDashboardService(client clients.BackendClient, directory DirectoryService, engine *AggregationEngine) DashboardService {
	return &dashboardService{
		client:    client,
		directory: directory,
		engine:    engine,
	}
}

// Load is fail-soft throughout: a failed roster refresh falls back to the
// previously held roster, and an employee whose history fetch fails simply
// contributes zero records. Every fan-out branch settles before the engine
// runs, so one bad employee never aborts the aggregate.
func (s *dashboardService) Load(ctx context.Context) (*models.DashboardSnapshot, error) {
	if err := s.directory.Load(ctx); err != nil {
		log.Printf("Warning: roster refresh failed, aggregating over held roster: %v", err)
	}
	roster := s.directory.All()

	perEmployee := make([][]models.AttendanceRecord, len(roster))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(historyFetchLimit)
	for i, emp := range roster {
		i, emp := i, emp
		group.Go(func() error {
			response, err := s.client.EmployeeAttendance(groupCtx, emp.ID)
			if err != nil {
				// Fail-soft per employee; the branch settles with no records.
				log.Printf("Warning: attendance fetch failed for employee %d: %v", emp.ID, err)
				return nil
			}
			perEmployee[i] = response.Attendance
			return nil
		})
	}
	// Branches never return errors, so Wait only orders completion.
	_ = group.Wait()

	records := make([]models.AttendanceRecord, 0)
	for _, batch := range perEmployee {
		records = append(records, batch...)
	}

	return s.engine.Snapshot(roster, records), nil
}
