package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/staffdesk/console/internal/clients"
	"github.com/staffdesk/console/internal/models"
)

// DirectoryService holds the last successfully loaded roster and answers
// filter queries against it without re-fetching. Create and Delete write
// through to the backend and keep the held roster in step on success.
type DirectoryService interface {
	Load(ctx context.Context) error
	All() []models.Employee
	Filter(query string) []models.Employee
	Create(ctx context.Context, req models.CreateEmployeeRequest) (*models.Employee, error)
	Delete(ctx context.Context, id int64) error
}

type directoryService struct {
	client   clients.BackendClient
	validate *validator.Validate
	mutex    sync.RWMutex
	roster   []models.Employee
}

func NewDirectoryService(client clients.BackendClient) DirectoryService {
	return &directoryService{
		client:   client,
		validate: validator.New(),
	}
}

// Load replaces the held roster with a fresh fetch. On failure the previous
// roster stays in place; stale data beats no data for a read-only listing.
func (s *directoryService) Load(ctx context.Context) error {
	employees, err := s.client.ListEmployees(ctx)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	s.roster = employees
	s.mutex.Unlock()
	return nil
}

func (s *directoryService) All() []models.Employee {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	roster := make([]models.Employee, len(s.roster))
	copy(roster, s.roster)
	return roster
}

// Filter matches the query case-insensitively as a substring of name,
// email or department; any field matching is enough. The empty query
// returns the full roster in load order.
func (s *directoryService) Filter(query string) []models.Employee {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		roster := make([]models.Employee, len(s.roster))
		copy(roster, s.roster)
		return roster
	}

	matches := make([]models.Employee, 0)
	for _, emp := range s.roster {
		if strings.Contains(strings.ToLower(emp.FullName), needle) ||
			strings.Contains(strings.ToLower(emp.Email), needle) ||
			strings.Contains(strings.ToLower(emp.Department), needle) {
			matches = append(matches, emp)
		}
	}
	return matches
}

// Create validates the payload locally, then writes through. Backend
// rejections (duplicate email and the like) propagate verbatim so the form
// can show them.
func (s *directoryService) Create(ctx context.Context, req models.CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid employee: %w", err)
	}

	emp, err := s.client.CreateEmployee(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	s.roster = append(s.roster, *emp)
	s.mutex.Unlock()
	return emp, nil
}

func (s *directoryService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteEmployee(ctx, id); err != nil {
		return err
	}

	s.mutex.Lock()
	for i, emp := range s.roster {
		if emp.ID == id {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			break
		}
	}
	s.mutex.Unlock()
	return nil
}
