package routers

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/delivery/http/controllers"
	"clinic-appointment-service/internal/app/delivery/http/middlewares"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/app/services/shared/metrics"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/dto/responses"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "router-secret"

// stubUsecase answers with err when set, otherwise with a canned appointment,
// and remembers the last actor and request it saw.
type stubUsecase struct {
	err error

	lastActor         models.Actor
	lastStatus        *requests.UpdateAppointmentStatus
	lastReschedule    *requests.RescheduleAppointment
	lastDoctorRequest *requests.FindDoctorAppointments
}

func (s *stubUsecase) appointment(status models.AppointmentStatus) *models.Appointment {
	appointment := &models.Appointment{
		ID:              primitive.NewObjectID(),
		PatientID:       "patient-1",
		DoctorID:        "doctor-1",
		AppointmentDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:00",
		Status:          status,
	}
	appointment.SyncSlotKey()
	return appointment
}

func (s *stubUsecase) CreateAppointment(ctx context.Context, actor models.Actor, request *requests.CreateAppointment) (*models.Appointment, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.appointment(models.AppointmentStatusPending), nil
}

func (s *stubUsecase) ChangeStatus(ctx context.Context, actor models.Actor, request *requests.UpdateAppointmentStatus) (*models.Appointment, error) {
	s.lastActor = actor
	s.lastStatus = request
	if s.err != nil {
		return nil, s.err
	}
	status, _ := models.ParseAppointmentStatus(request.Status)
	return s.appointment(status), nil
}

func (s *stubUsecase) Reschedule(ctx context.Context, actor models.Actor, request *requests.RescheduleAppointment) (*models.Appointment, error) {
	s.lastReschedule = request
	if s.err != nil {
		return nil, s.err
	}
	return s.appointment(models.AppointmentStatusRescheduled), nil
}

func (s *stubUsecase) Rate(ctx context.Context, actor models.Actor, request *requests.RateAppointment) (*models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.appointment(models.AppointmentStatusCompleted), nil
}

func (s *stubUsecase) SubmitMedicalReport(ctx context.Context, actor models.Actor, request *requests.SubmitMedicalReport) (*models.Appointment, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.appointment(models.AppointmentStatusCompleted), nil
}

func (s *stubUsecase) HasConflict(ctx context.Context, doctorID string, date time.Time, slotTime, excludeID string) (bool, error) {
	return false, s.err
}

func (s *stubUsecase) FindByID(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.appointment(models.AppointmentStatusConfirmed), nil
}

func (s *stubUsecase) FindByPatient(ctx context.Context, actor models.Actor, request *requests.FindPatientAppointments) ([]models.Appointment, error) {
	return nil, s.err
}

func (s *stubUsecase) FindByDoctor(ctx context.Context, actor models.Actor, request *requests.FindDoctorAppointments) ([]models.Appointment, error) {
	s.lastDoctorRequest = request
	if s.err != nil {
		return nil, s.err
	}
	return []models.Appointment{*s.appointment(models.AppointmentStatusPending)}, nil
}

func (s *stubUsecase) FindTodayByDoctor(ctx context.Context, actor models.Actor, doctorID string) ([]models.Appointment, error) {
	return nil, s.err
}

func (s *stubUsecase) GetPatientStats(ctx context.Context, actor models.Actor, patientID string) (*models.AppointmentStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.AppointmentStats{Total: 2, StatusCounts: map[string]int64{"pending": 2}}, nil
}

func (s *stubUsecase) FindMedicalReportsByPatient(ctx context.Context, actor models.Actor, patientID string) ([]responses.MedicalReport, error) {
	return nil, s.err
}

func (s *stubUsecase) AutoCancelExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, s.err
}

func newTestRouter(t *testing.T, usecase *stubUsecase) *chi.Mux {
	t.Helper()
	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	internalConfig := &config.InternalConfig{
		App: config.App{EndpointPrefix: "api", Version: "v1", MaxRequests: 1000},
		JWT: config.JWT{Secret: testSecret},
	}

	router := chi.NewRouter()
	SetupRoutes(
		router,
		internalConfig,
		middlewares.NewMiddlewares(logger, internalConfig, metrics.NewCollector(registry, "clinic_test")),
		metrics.MetricsHandler(registry),
		controllers.NewAppointmentController(logger, usecase),
	)
	return router
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(userID, role, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(router http.Handler, method, path, authorization, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authorization != "" {
		req.Header.Set(constvars.HeaderAuthorization, authorization)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Code    string `json:"code"`
	Success bool   `json:"success"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAppointmentRoutes(t *testing.T) {
	patient := bearer(t, "patient-1", constvars.RolePatient)
	doctor := bearer(t, "doctor-1", constvars.RoleDoctor)

	t.Run("Patient books an appointment", func(t *testing.T) {
		usecase := &stubUsecase{}
		rec := serve(newTestRouter(t, usecase), http.MethodPost, "/api/v1/appointments", patient,
			`{"doctorId":"doctor-1","clinicId":"c1","appointmentDate":"2024-06-01","appointmentTime":"10:00","reason":"Check-up"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Status             string   `json:"status"`
				AllowedTransitions []string `json:"allowedTransitions"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "pending", body.Data.Status)
		assert.Equal(t, []string{"confirmed", "cancelled"}, body.Data.AllowedTransitions)
		assert.Equal(t, "patient-1", usecase.lastActor.UserID)
		assert.NotContains(t, rec.Body.String(), "slotKey")
	})

	t.Run("Doctors cannot book", func(t *testing.T) {
		rec := serve(newTestRouter(t, &stubUsecase{}), http.MethodPost, "/api/v1/appointments", doctor, `{}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Requests without a token are rejected", func(t *testing.T) {
		rec := serve(newTestRouter(t, &stubUsecase{}), http.MethodGet, "/api/v1/appointments/abc", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		rec := serve(newTestRouter(t, &stubUsecase{}), http.MethodPost, "/api/v1/appointments", patient, `{"doctorId":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(exceptions.KindValidationFailed), decodeError(t, rec).Code)
	})

	t.Run("Status change passes the path id and maps illegal transitions to 400", func(t *testing.T) {
		usecase := &stubUsecase{err: exceptions.ErrIllegalTransition(nil, "completed", "pending")}
		rec := serve(newTestRouter(t, usecase), http.MethodPatch, "/api/v1/appointments/abc123/status", doctor, `{"status":"pending","reason":"oops"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(exceptions.KindIllegalTransition), decodeError(t, rec).Code)
		require.NotNil(t, usecase.lastStatus)
		assert.Equal(t, "abc123", usecase.lastStatus.AppointmentID)
		assert.Equal(t, "oops", usecase.lastStatus.Reason)
	})

	t.Run("Slot conflicts are 409", func(t *testing.T) {
		usecase := &stubUsecase{err: exceptions.ErrSlotConflict(nil, "doctor-1", "2024-06-01", "10:00")}
		rec := serve(newTestRouter(t, usecase), http.MethodPatch, "/api/v1/appointments/abc123/reschedule", patient, `{"newDate":"2024-06-01","newTime":"10:00"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, string(exceptions.KindSlotConflict), decodeError(t, rec).Code)
		assert.Equal(t, "10:00", usecase.lastReschedule.NewTime)
	})

	t.Run("Error kinds map to their HTTP statuses", func(t *testing.T) {
		cases := []struct {
			err  error
			code int
		}{
			{exceptions.ErrAppointmentNotFound(nil, "abc"), http.StatusNotFound},
			{exceptions.ErrInvalidStatus(nil, "upcoming"), http.StatusBadRequest},
			{exceptions.ErrNotReschedulable(nil, "completed"), http.StatusBadRequest},
			{exceptions.ErrNotCompleted(nil, "pending"), http.StatusBadRequest},
			{exceptions.ErrInvalidRating(nil, 6), http.StatusBadRequest},
			{exceptions.ErrMissingFields(nil, []string{"condition"}), http.StatusBadRequest},
			{exceptions.ErrConcurrentModification(nil, "abc"), http.StatusConflict},
			{exceptions.ErrNotAppointmentParticipant(nil, "patient-2", "abc"), http.StatusForbidden},
			{context.DeadlineExceeded, http.StatusGatewayTimeout},
		}
		for _, tc := range cases {
			rec := serve(newTestRouter(t, &stubUsecase{err: tc.err}), http.MethodPatch, "/api/v1/appointments/abc/rate", patient, `{"rating":5}`)
			assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		}
	})

	t.Run("Medical reports are doctor only", func(t *testing.T) {
		body := `{"condition":"Flu","treatmentMethod":"Rest"}`

		rec := serve(newTestRouter(t, &stubUsecase{}), http.MethodPost, "/api/v1/appointments/abc/medical-report", patient, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		usecase := &stubUsecase{}
		rec = serve(newTestRouter(t, usecase), http.MethodPost, "/api/v1/appointments/abc/medical-report", doctor, body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, constvars.RoleDoctor, usecase.lastActor.Role)
	})

	t.Run("Doctor listing reads date and status from the query", func(t *testing.T) {
		usecase := &stubUsecase{}
		rec := serve(newTestRouter(t, usecase), http.MethodGet, "/api/v1/appointments/doctor/doctor-1?date=2024-06-01&status=pending", doctor, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, usecase.lastDoctorRequest)
		assert.Equal(t, requests.FindDoctorAppointments{DoctorID: "doctor-1", Date: "2024-06-01", Status: "pending"}, *usecase.lastDoctorRequest)
	})

	t.Run("Patient stats", func(t *testing.T) {
		rec := serve(newTestRouter(t, &stubUsecase{}), http.MethodGet, "/api/v1/appointments/user/patient-1/stats", patient, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":2`)
	})
}

func TestOperationalRoutes(t *testing.T) {
	router := newTestRouter(t, &stubUsecase{})

	rec := serve(router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = serve(router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinic_test_http_requests_total")
}
