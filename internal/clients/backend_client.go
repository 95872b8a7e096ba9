package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/staffdesk/console/internal/models"
	"github.com/staffdesk/console/internal/session"
)

type backendClient struct {
	baseURL  string
	sessions *session.Manager
	client   *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration, sessions *session.Manager) BackendClient {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	return &backendClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		sessions: sessions,
		client:   &http.Client{Timeout: timeout},
	}
}

// send attaches the bearer token read at dispatch time, executes the
// request, and maps non-2xx replies to *APIError. A 401 expires the
// session before the error is returned, whatever the operation was.
func (c *backendClient) send(req *http.Request) ([]byte, error) {
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.sessions.Expire(req.Context()); err != nil {
			log.Printf("Warning: failed to clear expired session: %v", err)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *backendClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var response models.LoginResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}

func (c *backendClient) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/employees/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var employees []models.Employee
	if err := json.Unmarshal(body, &employees); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return employees, nil
}

func (c *backendClient) CreateEmployee(ctx context.Context, request models.CreateEmployeeRequest) (*models.Employee, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/employees/", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var employee models.Employee
	if err := json.Unmarshal(body, &employee); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &employee, nil
}

func (c *backendClient) DeleteEmployee(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/employees/%d", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if _, err := c.send(req); err != nil {
		return err
	}

	return nil
}

func (c *backendClient) MarkAttendance(ctx context.Context, request models.MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/attendance/", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var record models.AttendanceRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &record, nil
}

func (c *backendClient) EmployeeAttendance(ctx context.Context, id int64) (*models.AttendanceHistoryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/attendance/employee/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var response models.AttendanceHistoryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}
