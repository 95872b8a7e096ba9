package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/staffdesk/console/internal/clients"
	"github.com/staffdesk/console/internal/config"
	"github.com/staffdesk/console/internal/models"
	"github.com/staffdesk/console/internal/repositories"
	"github.com/staffdesk/console/internal/services"
	"github.com/staffdesk/console/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.Load()

	// Prefer the durable store; fall back to memory so the console still
	// works when the local database cannot be opened.
	var tokenRepo repositories.TokenRepository
	sqliteRepo, err := repositories.NewSQLiteTokenRepository(cfg.TokenDBPath)
	if err != nil {
		log.Printf("Warning: durable token store unavailable, session will not survive restarts: %v", err)
		tokenRepo = repositories.NewMemoryTokenRepository()
	} else {
		defer sqliteRepo.Close()
		tokenRepo = sqliteRepo
	}

	ctx := context.Background()
	sessions := session.NewManager(ctx, tokenRepo)
	client := clients.NewBackendClient(cfg.APIBaseURL, cfg.RequestTimeout, sessions)
	engine := services.NewAggregationEngine(nil)
	directory := services.NewDirectoryService(client)

	app := &console{
		sessions:   sessions,
		auth:       services.NewAuthService(client, sessions),
		directory:  directory,
		attendance: services.NewAttendanceService(client, engine),
		dashboard:  services.NewDashboardService(client, directory, engine),
		reader:     bufio.NewScanner(os.Stdin),
	}

	// Navigation policy lives here, not in the transport layer: the
	// gateway only raises the expiry event, the console decides to return
	// the operator to the login prompt.
	sessions.Subscribe(func(event session.Event) {
		if event == session.EventExpired {
			fmt.Println("Session expired. Please log in again.")
		}
	})

	log.Printf("Workforce console connected to %s", cfg.APIBaseURL)
	app.run(ctx)
}

type console struct {
	sessions   *session.Manager
	auth       services.AuthService
	directory  services.DirectoryService
	attendance services.AttendanceService
	dashboard  services.DashboardService
	reader     *bufio.Scanner
}

func (c *console) run(ctx context.Context) {
	for {
		if !c.sessions.IsAuthenticated() {
			if !c.promptLogin(ctx) {
				return
			}
		}

		fmt.Print("> ")
		if !c.reader.Scan() {
			return
		}
		fields := strings.Fields(c.reader.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			c.printHelp()
		case "employees":
			c.cmdEmployees(ctx, strings.Join(fields[1:], " "))
		case "add":
			c.cmdAdd(ctx, fields[1:])
		case "delete":
			c.cmdDelete(ctx, fields[1:])
		case "mark":
			c.cmdMark(ctx, fields[1:])
		case "history":
			c.cmdHistory(ctx, fields[1:])
		case "dashboard":
			c.cmdDashboard(ctx)
		case "logout":
			if err := c.auth.Logout(ctx); err != nil {
				fmt.Printf("Logout failed: %v\n", err)
			} else {
				fmt.Println("Logged out.")
			}
		case "exit", "quit":
			return
		default:
			fmt.Printf("Unknown command %q. Type 'help' for a list.\n", fields[0])
		}
	}
}

// promptLogin loops until a login succeeds or input ends. Returns false
// when the operator is done.
func (c *console) promptLogin(ctx context.Context) bool {
	for {
		fmt.Print("Username (or 'exit'): ")
		if !c.reader.Scan() {
			return false
		}
		username := strings.TrimSpace(c.reader.Text())
		if username == "exit" {
			return false
		}

		fmt.Print("Password: ")
		if !c.reader.Scan() {
			return false
		}
		password := c.reader.Text()

		if err := c.auth.Login(ctx, username, password); err != nil {
			fmt.Printf("Login failed: %v\n", err)
			continue
		}
		fmt.Println("Logged in. Type 'help' for commands.")
		return true
	}
}

func (c *console) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  employees [query]           list employees, optionally filtered")
	fmt.Println("  add <name>|<email>|<dept>   create an employee")
	fmt.Println("  delete <id>                 delete an employee")
	fmt.Println("  mark <id> <date> <status>   record attendance (date YYYY-MM-DD)")
	fmt.Println("  history <id>                show an employee's attendance history")
	fmt.Println("  dashboard                   show workforce analytics")
	fmt.Println("  logout / exit")
}

func (c *console) cmdEmployees(ctx context.Context, query string) {
	// Fail-soft: a failed refresh still lists whatever roster we hold.
	if err := c.directory.Load(ctx); err != nil {
		log.Printf("Warning: roster refresh failed: %v", err)
	}

	employees := c.directory.Filter(query)
	if len(employees) == 0 {
		fmt.Println("No employees found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tDEPARTMENT")
	for _, emp := range employees {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", emp.ID, emp.FullName, emp.Email, emp.Department)
	}
	w.Flush()
}

func (c *console) cmdAdd(ctx context.Context, args []string) {
	parts := strings.SplitN(strings.Join(args, " "), "|", 3)
	if len(parts) != 3 {
		fmt.Println("Usage: add <name>|<email>|<department>")
		return
	}

	req := models.CreateEmployeeRequest{
		FullName:   strings.TrimSpace(parts[0]),
		Email:      strings.TrimSpace(parts[1]),
		Department: strings.TrimSpace(parts[2]),
	}
	emp, err := c.directory.Create(ctx, req)
	if err != nil {
		fmt.Printf("Create failed: %v\n", err)
		return
	}
	fmt.Printf("Created employee #%d %s (%s)\n", emp.ID, emp.FullName, emp.Department)
}

func (c *console) cmdDelete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: delete <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Employee id must be a number.")
		return
	}

	if err := c.directory.Delete(ctx, id); err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		return
	}
	fmt.Printf("Deleted employee #%d\n", id)
}

func (c *console) cmdMark(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: mark <id> <YYYY-MM-DD> <Present|Absent|Late>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Employee id must be a number.")
		return
	}

	record, err := c.attendance.Mark(ctx, models.MarkAttendanceRequest{
		EmployeeID: id,
		Date:       args[1],
		Status:     args[2],
	})
	if err != nil {
		fmt.Printf("Mark failed: %v\n", err)
		return
	}
	fmt.Printf("Marked employee #%d as %s on %s\n", record.EmployeeID, record.Status, record.Date)

	// Mirror the form behavior: show the refreshed history right away.
	c.cmdHistory(ctx, []string{args[0]})
}

func (c *console) cmdHistory(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: history <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Employee id must be a number.")
		return
	}

	history, err := c.attendance.History(ctx, id)
	if err != nil {
		fmt.Printf("History fetch failed: %v\n", err)
		return
	}

	if history.EmployeeName != "" {
		fmt.Printf("%s's attendance history\n", history.EmployeeName)
	}
	fmt.Printf("Present: %d  Absent: %d  Late: %d\n",
		history.Totals.Present, history.Totals.Absent, history.Totals.Late)

	if len(history.Entries) == 0 {
		fmt.Println("No attendance records found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDAY\tSTATUS")
	for _, entry := range history.Entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Date, entry.DayName, entry.Status)
	}
	w.Flush()
}

func (c *console) cmdDashboard(ctx context.Context) {
	snapshot, err := c.dashboard.Load(ctx)
	if err != nil {
		fmt.Printf("Dashboard load failed: %v\n", err)
		return
	}

	fmt.Printf("Snapshot %s at %s\n", snapshot.ID, snapshot.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Total employees: %d across %d departments\n",
		snapshot.TotalEmployees, len(snapshot.Departments))

	rate := "no data"
	if snapshot.Today.HasData {
		rate = fmt.Sprintf("%d%%", snapshot.Today.Rate)
	}
	fmt.Printf("Today: %d present, %d absent, %d late (rate %s)\n",
		snapshot.Today.Present, snapshot.Today.Absent, snapshot.Today.Late, rate)

	fmt.Println("\nLast 7 days:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDAY\tPRESENT\tABSENT\tLATE")
	for _, day := range snapshot.Weekly {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", day.Label, day.DayName, day.Present, day.Absent, day.Late)
	}
	w.Flush()

	if len(snapshot.Statuses) > 0 {
		fmt.Println("\nAll-time status breakdown:")
		for _, sc := range snapshot.Statuses {
			fmt.Printf("  %-10s %d\n", sc.Status, sc.Count)
		}
	}

	if len(snapshot.Departments) > 0 {
		fmt.Println("\nEmployees by department:")
		for _, dc := range snapshot.Departments {
			fmt.Printf("  %-15s %d\n", dc.Department, dc.Count)
		}
	}

	if len(snapshot.Recent) > 0 {
		fmt.Println("\nRecent employees:")
		for _, emp := range snapshot.Recent {
			fmt.Printf("  %s <%s> %s\n", emp.FullName, emp.Email, emp.Department)
		}
	}
}
