// Package backendtest provides an in-process stand-in for the workforce
// backend, implementing the REST contract the gateway client speaks:
// form-encoded login issuing a bearer token, employee CRUD, and attendance
// recording. Integration tests point a real client at it over httptest.
package backendtest

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/staffdesk/console/internal/models"
)

type Server struct {
	Username string
	Password string
	Token    string

	mutex       sync.Mutex
	nextID      int64
	nextRecID   int64
	employees   []models.Employee
	attendance  map[int64][]models.AttendanceRecord
	failHistory map[int64]bool
}

func New() *Server {
	return &Server{
		Username:    "admin",
		Password:    "secret",
		Token:       "test-token-123",
		nextID:      1,
		nextRecID:   1,
		attendance:  make(map[int64][]models.AttendanceRecord),
		failHistory: make(map[int64]bool),
	}
}

// Seed inserts an employee directly, bypassing the HTTP surface.
func (s *Server) Seed(fullName, email, department string) models.Employee {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	emp := models.Employee{ID: s.nextID, FullName: fullName, Email: email, Department: department}
	s.nextID++
	s.employees = append(s.employees, emp)
	return emp
}

// SeedAttendance inserts a record directly. The status is not validated,
// so tests can plant values outside the known set.
func (s *Server) SeedAttendance(employeeID int64, date, status string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.attendance[employeeID] = append(s.attendance[employeeID], models.AttendanceRecord{
		ID:         s.nextRecID,
		EmployeeID: employeeID,
		Date:       date,
		Status:     status,
	})
	s.nextRecID++
}

// FailHistory makes GET /attendance/employee/{id} answer 500 for one
// employee, for exercising the fail-soft fan-out.
func (s *Server) FailHistory(employeeID int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.failHistory[employeeID] = true
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/auth/login", s.handleLogin)

	authed := router.Group("/", s.requireBearer)
	authed.GET("/employees/", s.handleListEmployees)
	authed.POST("/employees/", s.handleCreateEmployee)
	authed.DELETE("/employees/:id", s.handleDeleteEmployee)
	authed.POST("/attendance/", s.handleMarkAttendance)
	authed.GET("/attendance/employee/:id", s.handleEmployeeAttendance)

	return router
}

func (s *Server) requireBearer(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+s.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	c.Next()
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username != s.Username || password != s.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": s.Token})
}

func (s *Server) handleListEmployees(c *gin.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	roster := make([]models.Employee, len(s.employees))
	copy(roster, s.employees)
	c.JSON(http.StatusOK, roster)
}

func (s *Server) handleCreateEmployee(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid employee payload"})
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, emp := range s.employees {
		if emp.Email == req.Email {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
	}

	emp := models.Employee{ID: s.nextID, FullName: req.FullName, Email: req.Email, Department: req.Department}
	s.nextID++
	s.employees = append(s.employees, emp)
	c.JSON(http.StatusOK, emp)
}

func (s *Server) handleDeleteEmployee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid employee id"})
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, emp := range s.employees {
		if emp.ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			delete(s.attendance, id)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
}

func (s *Server) handleMarkAttendance(c *gin.Context) {
	var req models.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid attendance payload"})
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	found := false
	for _, emp := range s.employees {
		if emp.ID == req.EmployeeID {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
		return
	}

	record := models.AttendanceRecord{
		ID:         s.nextRecID,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Status:     req.Status,
	}
	s.nextRecID++
	s.attendance[req.EmployeeID] = append(s.attendance[req.EmployeeID], record)
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleEmployeeAttendance(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid employee id"})
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.failHistory[id] {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "boom"})
		return
	}

	name := ""
	for _, emp := range s.employees {
		if emp.ID == id {
			name = emp.FullName
			break
		}
	}
	if name == "" {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
		return
	}

	records := make([]models.AttendanceRecord, len(s.attendance[id]))
	copy(records, s.attendance[id])
	c.JSON(http.StatusOK, models.AttendanceHistoryResponse{EmployeeName: name, Attendance: records})
}
