package services

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/staffdesk/console/internal/models"
)

// recentLimit caps the "recent employees" slice on the dashboard snapshot.
const recentLimit = 6

// AggregationEngine turns a roster and a flat set of attendance records
// into the derived metrics the console displays. It holds no data of its
// own and performs no I/O; callers hand it freshly fetched inputs and get
// back an immutable snapshot. The clock is injected so day bucketing is
// deterministic under test.
type AggregationEngine struct {
	now func() time.Time
}

func NewAggregationEngine(clock func() time.Time) *AggregationEngine {
	if clock == nil {
		clock = time.Now
	}
	return &AggregationEngine{now: clock}
}

// TodaySnapshot counts records dated today by status. Records with an
// unrecognized status still count toward the total, so the rate reflects
// everything the backend reported for the day.
func (e *AggregationEngine) TodaySnapshot(records []models.AttendanceRecord) models.TodaySnapshot {
	today := e.now().Format(models.DateLayout)

	var snap models.TodaySnapshot
	for _, r := range records {
		if r.Date != today {
			continue
		}
		snap.Total++
		switch r.Status {
		case models.StatusPresent:
			snap.Present++
		case models.StatusAbsent:
			snap.Absent++
		case models.StatusLate:
			snap.Late++
		}
	}

	if snap.Total > 0 {
		snap.HasData = true
		snap.Rate = int(math.Round(float64(snap.Present) / float64(snap.Total) * 100))
	}
	return snap
}

// WeeklySeries produces one bucket per calendar day for the 7 days ending
// today, oldest first. Days with no records keep zero counts rather than
// being dropped.
func (e *AggregationEngine) WeeklySeries(records []models.AttendanceRecord) []models.DayBucket {
	now := e.now()

	series := make([]models.DayBucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		bucket := models.DayBucket{
			Date:    day.Format(models.DateLayout),
			Label:   day.Format("Jan 2"),
			DayName: day.Weekday().String(),
		}
		for _, r := range records {
			if r.Date != bucket.Date {
				continue
			}
			switch r.Status {
			case models.StatusPresent:
				bucket.Present++
			case models.StatusAbsent:
				bucket.Absent++
			case models.StatusLate:
				bucket.Late++
			}
		}
		series = append(series, bucket)
	}
	return series
}

// StatusDistribution groups the full record set by status. Only statuses
// that actually occur appear, in first-seen order, and unrecognized status
// strings are kept under their literal value.
func (e *AggregationEngine) StatusDistribution(records []models.AttendanceRecord) []models.StatusCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range records {
		if _, seen := counts[r.Status]; !seen {
			order = append(order, r.Status)
		}
		counts[r.Status]++
	}

	distribution := make([]models.StatusCount, 0, len(order))
	for _, status := range order {
		distribution = append(distribution, models.StatusCount{Status: status, Count: counts[status]})
	}
	return distribution
}

// DepartmentDistribution groups the roster by department in first-seen
// order. The counts always sum to the roster size.
func (e *AggregationEngine) DepartmentDistribution(roster []models.Employee) []models.DepartmentCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, emp := range roster {
		if _, seen := counts[emp.Department]; !seen {
			order = append(order, emp.Department)
		}
		counts[emp.Department]++
	}

	distribution := make([]models.DepartmentCount, 0, len(order))
	for _, dept := range order {
		distribution = append(distribution, models.DepartmentCount{Department: dept, Count: counts[dept]})
	}
	return distribution
}

// BuildHistory sorts one employee's records most recent first and computes
// running status totals over the full set. Zero records yield an empty
// history, not an error.
func (e *AggregationEngine) BuildHistory(employeeName string, records []models.AttendanceRecord) models.EmployeeHistory {
	history := models.EmployeeHistory{
		EmployeeName: employeeName,
		Entries:      make([]models.HistoryEntry, 0, len(records)),
	}

	for _, r := range records {
		entry := models.HistoryEntry{Date: r.Date, Status: r.Status}
		if day, err := time.Parse(models.DateLayout, r.Date); err == nil {
			entry.DayName = day.Weekday().String()
		}
		history.Entries = append(history.Entries, entry)

		switch r.Status {
		case models.StatusPresent:
			history.Totals.Present++
		case models.StatusAbsent:
			history.Totals.Absent++
		case models.StatusLate:
			history.Totals.Late++
		}
	}

	// ISO dates compare correctly as strings. Stable so equal dates keep
	// their input order.
	sort.SliceStable(history.Entries, func(i, j int) bool {
		return history.Entries[i].Date > history.Entries[j].Date
	})

	return history
}

// Snapshot runs every aggregation over the given inputs and packages the
// results as one immutable dashboard snapshot.
func (e *AggregationEngine) Snapshot(roster []models.Employee, records []models.AttendanceRecord) *models.DashboardSnapshot {
	recent := make([]models.Employee, 0, recentLimit)
	for _, emp := range roster {
		if len(recent) == recentLimit {
			break
		}
		recent = append(recent, emp)
	}

	return &models.DashboardSnapshot{
		ID:             uuid.New(),
		GeneratedAt:    e.now(),
		TotalEmployees: len(roster),
		Today:          e.TodaySnapshot(records),
		Weekly:         e.WeeklySeries(records),
		Statuses:       e.StatusDistribution(records),
		Departments:    e.DepartmentDistribution(roster),
		Recent:         recent,
	}
}
