package clients

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/staffdesk/console/internal/backendtest"
	"github.com/staffdesk/console/internal/models"
	"github.com/staffdesk/console/internal/repositories"
	"github.com/staffdesk/console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*backendtest.Server, BackendClient, *session.Manager) {
	t.Helper()

	backend := backendtest.New()
	server := httptest.NewServer(backend.Router())
	t.Cleanup(server.Close)

	sessions := session.NewManager(context.Background(), repositories.NewMemoryTokenRepository())
	client := NewBackendClient(server.URL, 5*time.Second, sessions)
	return backend, client, sessions
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidCredentialsReturnToken", func(t *testing.T) {
		backend, client, _ := newTestClient(t)

		response, err := client.Login(ctx, backend.Username, backend.Password)
		require.NoError(t, err)
		assert.Equal(t, backend.Token, response.AccessToken)
	})

	t.Run("RejectionSurfacesBackendDetail", func(t *testing.T) {
		_, client, _ := newTestClient(t)

		_, err := client.Login(ctx, "admin", "wrong")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Incorrect username or password", apiErr.Detail)
		assert.True(t, IsUnauthorized(err))
	})
}

func TestBearerInjection(t *testing.T) {
	ctx := context.Background()

	t.Run("AuthenticatedCallsSucceed", func(t *testing.T) {
		backend, client, sessions := newTestClient(t)
		backend.Seed("Ann Smith", "ann@corp.test", "HR")
		require.NoError(t, sessions.Establish(ctx, backend.Token))

		employees, err := client.ListEmployees(ctx)
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, "Ann Smith", employees[0].FullName)
	})

	t.Run("TokenIsReadAtSendTime", func(t *testing.T) {
		backend, client, sessions := newTestClient(t)

		// The client existed before the session did; it must still pick
		// up the token established afterwards.
		_, err := client.ListEmployees(ctx)
		require.Error(t, err)

		require.NoError(t, sessions.Establish(ctx, backend.Token))
		_, err = client.ListEmployees(ctx)
		assert.NoError(t, err)
	})
}

func TestUnauthorizedForcesExpiry(t *testing.T) {
	ctx := context.Background()
	backend, client, sessions := newTestClient(t)
	require.NoError(t, sessions.Establish(ctx, "stale-token"))

	var observed []session.Event
	sessions.Subscribe(func(e session.Event) { observed = append(observed, e) })

	_, err := client.ListEmployees(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	// The forced logout happened before the error surfaced.
	assert.False(t, sessions.IsAuthenticated())
	assert.Equal(t, []session.Event{session.EventExpired}, observed)

	// Recovery: a fresh login makes the same client usable again.
	response, err := client.Login(ctx, backend.Username, backend.Password)
	require.NoError(t, err)
	require.NoError(t, sessions.Establish(ctx, response.AccessToken))

	_, err = client.ListEmployees(ctx)
	assert.NoError(t, err)
}

func TestEmployeeLifecycle(t *testing.T) {
	ctx := context.Background()
	backend, client, sessions := newTestClient(t)
	require.NoError(t, sessions.Establish(ctx, backend.Token))

	emp, err := client.CreateEmployee(ctx, models.CreateEmployeeRequest{
		FullName:   "Bob Jones",
		Email:      "bob@corp.test",
		Department: "Engineering",
	})
	require.NoError(t, err)
	assert.NotZero(t, emp.ID)

	t.Run("DuplicateEmailPropagatesVerbatim", func(t *testing.T) {
		_, err := client.CreateEmployee(ctx, models.CreateEmployeeRequest{
			FullName:   "Bob Again",
			Email:      "bob@corp.test",
			Department: "Engineering",
		})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Email already registered", apiErr.Detail)
		assert.True(t, IsValidation(err))
	})

	t.Run("DeleteRemovesEmployee", func(t *testing.T) {
		require.NoError(t, client.DeleteEmployee(ctx, emp.ID))

		employees, err := client.ListEmployees(ctx)
		require.NoError(t, err)
		assert.Empty(t, employees)
	})
}

func TestMarkThenFetchHistory(t *testing.T) {
	ctx := context.Background()
	backend, client, sessions := newTestClient(t)
	require.NoError(t, sessions.Establish(ctx, backend.Token))

	emp := backend.Seed("Carla Diaz", "carla@corp.test", "Sales")

	record, err := client.MarkAttendance(ctx, models.MarkAttendanceRequest{
		EmployeeID: emp.ID,
		Date:       "2024-03-20",
		Status:     models.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, emp.ID, record.EmployeeID)

	history, err := client.EmployeeAttendance(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carla Diaz", history.EmployeeName)
	require.Len(t, history.Attendance, 1)
	assert.Equal(t, models.StatusPresent, history.Attendance[0].Status)
}
