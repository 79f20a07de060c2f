package routes

import (
	"clientschedule/cmd/internal/service"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123")

type stubAppointmentService struct {
	created   *service.AppointmentRequest
	actor     string
	updatedID int
	timeframe string
	err       apierror.ErrorResponse
}

func (s *stubAppointmentService) GetAppointments(_ context.Context, timeframe string) ([]*service.AppointmentResponse, apierror.ErrorResponse) {
	s.timeframe = timeframe
	if s.err != nil {
		return nil, s.err
	}
	return []*service.AppointmentResponse{{ID: 1, Title: "Sync"}}, nil
}

func (s *stubAppointmentService) GetAppointment(_ context.Context, id int) (*service.AppointmentResponse, apierror.ErrorResponse) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.AppointmentResponse{ID: id}, nil
}

func (s *stubAppointmentService) GetContactAppointments(_ context.Context, contactID int) ([]*service.AppointmentResponse, apierror.ErrorResponse) {
	return []*service.AppointmentResponse{{ID: 1, ContactID: contactID}}, s.err
}

func (s *stubAppointmentService) CreateAppointment(_ context.Context, req *service.AppointmentRequest, actor string) (*service.AppointmentResponse, apierror.ErrorResponse) {
	s.created, s.actor = req, actor
	if s.err != nil {
		return nil, s.err
	}
	return &service.AppointmentResponse{ID: 10, Title: req.Title}, nil
}

func (s *stubAppointmentService) UpdateAppointment(_ context.Context, id int, req *service.AppointmentRequest, actor string) (*service.AppointmentResponse, apierror.ErrorResponse) {
	s.updatedID, s.actor = id, actor
	if s.err != nil {
		return nil, s.err
	}
	return &service.AppointmentResponse{ID: id, Title: req.Title}, nil
}

func (s *stubAppointmentService) DeleteAppointment(_ context.Context, id int) apierror.ErrorResponse {
	return s.err
}

func (s *stubAppointmentService) UpcomingForUser(_ context.Context, userID int, _ time.Duration) ([]*service.AppointmentResponse, apierror.ErrorResponse) {
	return []*service.AppointmentResponse{{ID: 3, UserID: userID}}, nil
}

func newTestServer(svc AppointmentService) *echo.Echo {
	r := NewAppointmentDefault(svc)
	e := echo.New()
	api := e.Group("/api", RequireToken(secret))
	api.GET("/appointments", r.GetAppointments)
	api.GET("/appointments/upcoming", r.GetUpcoming)
	api.GET("/appointments/:id", r.GetAppointment)
	api.POST("/appointments", r.CreateAppointment)
	api.PUT("/appointments/:id", r.UpdateAppointment)
	api.DELETE("/appointments/:id", r.DeleteAppointment)
	api.GET("/contacts/:id/appointments", r.GetContactAppointments)
	return e
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorized {
		token, err := utils.IssueToken(secret, 1, "test", time.Hour)
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAppointmentRoutes_RequireToken(t *testing.T) {
	e := newTestServer(&stubAppointmentService{})

	rec := doRequest(t, e, http.MethodGet, "/api/appointments", "", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "InvalidAuthToken")
}

func TestAppointmentRoutes_ListPassesRange(t *testing.T) {
	svc := &stubAppointmentService{}
	e := newTestServer(svc)

	rec := doRequest(t, e, http.MethodGet, "/api/appointments?range=week", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "week", svc.timeframe)

	var body struct {
		Appointments []service.AppointmentResponse `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Appointments, 1)
	assert.Equal(t, "Sync", body.Appointments[0].Title)
}

func TestAppointmentRoutes_Create(t *testing.T) {
	svc := &stubAppointmentService{}
	e := newTestServer(svc)
	body := `{"title":"Sync","description":"Weekly","location":"Room 1","type":"Planning",
		"contact_id":1,"customer_id":2,"user_id":1,"date":"2024-03-01","starts_at_time":"09:00","ends_at_time":"09:30"}`

	rec := doRequest(t, e, http.MethodPost, "/api/appointments", body, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "test", svc.actor)
	require.NotNil(t, svc.created.CustomerID)
	assert.Equal(t, 2, *svc.created.CustomerID)
	assert.Equal(t, "09:30", svc.created.EndsAtTime)
}

func TestAppointmentRoutes_CreateWithoutSelectionsKeepsNil(t *testing.T) {
	svc := &stubAppointmentService{}
	e := newTestServer(svc)

	rec := doRequest(t, e, http.MethodPost, "/api/appointments", `{"title":"Sync"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, svc.created.ContactID)
}

func TestAppointmentRoutes_MalformedBody(t *testing.T) {
	e := newTestServer(&stubAppointmentService{})

	rec := doRequest(t, e, http.MethodPost, "/api/appointments", `{"title":`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MalformedBody")
}

func TestAppointmentRoutes_ConflictIsForwarded(t *testing.T) {
	svc := &stubAppointmentService{err: apierror.NewConflictingAppointmentsError([]string{`Id: 4, Title: "Review", Starts at: 2024-03-01 09:15 AM EST`})}
	e := newTestServer(svc)

	rec := doRequest(t, e, http.MethodPut, "/api/appointments/4", `{"title":"Sync"}`, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 4, svc.updatedID)

	var body apierror.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ConflictingAppointments", body.Kind)
	assert.Equal(t, []any{`Id: 4, Title: "Review", Starts at: 2024-03-01 09:15 AM EST`}, body.Details)
}

func TestAppointmentRoutes_InvalidID(t *testing.T) {
	e := newTestServer(&stubAppointmentService{})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := doRequest(t, e, method, "/api/appointments/abc", "", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
		assert.Contains(t, rec.Body.String(), "InvalidParamType")
	}
}

func TestAppointmentRoutes_DeleteNotFound(t *testing.T) {
	e := newTestServer(&stubAppointmentService{err: apierror.NotFoundError})

	rec := doRequest(t, e, http.MethodDelete, "/api/appointments/9", "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppointmentRoutes_Upcoming(t *testing.T) {
	e := newTestServer(&stubAppointmentService{})

	rec := doRequest(t, e, http.MethodGet, "/api/appointments/upcoming", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":1`)
}
