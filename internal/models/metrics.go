package models

import (
	"time"

	"github.com/google/uuid"
)

// TodaySnapshot counts today's records by status. Rate is the percentage of
// Present among today's records, rounded; it is meaningless when HasData is
// false (zero records dated today).
type TodaySnapshot struct {
	Present int
	Absent  int
	Late    int
	Total   int
	Rate    int
	HasData bool
}

// DayBucket is one day of the trailing 7-day series. Days without records
// still get a bucket with zero counts.
type DayBucket struct {
	Date    string
	Label   string
	DayName string
	Present int
	Absent  int
	Late    int
}

type StatusCount struct {
	Status string
	Count  int
}

type DepartmentCount struct {
	Department string
	Count      int
}

type StatusTotals struct {
	Present int
	Absent  int
	Late    int
}

type HistoryEntry struct {
	Date    string
	DayName string
	Status  string
}

// EmployeeHistory is one employee's records sorted most recent first, with
// running totals over the full set.
type EmployeeHistory struct {
	EmployeeName string
	Entries      []HistoryEntry
	Totals       StatusTotals
}

// DashboardSnapshot is one immutable aggregation pass over the roster and
// all attendance records. Overlapping loads each produce their own snapshot;
// the ID tells them apart and the latest-completed one replaces the display.
type DashboardSnapshot struct {
	ID             uuid.UUID
	GeneratedAt    time.Time
	TotalEmployees int
	Today          TodaySnapshot
	Weekly         []DayBucket
	Statuses       []StatusCount
	Departments    []DepartmentCount
	Recent         []Employee
}
