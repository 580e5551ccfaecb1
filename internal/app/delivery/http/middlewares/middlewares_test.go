package middlewares

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/app/services/shared/metrics"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestMiddlewares() *Middlewares {
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{MaxRequests: 2},
		JWT: config.JWT{Secret: testSecret},
	}, metrics.NewCollector(prometheus.NewRegistry(), "clinic_test"))
}

func actorEcho(t *testing.T, seen *models.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := utils.GetActor(r.Context())
		require.True(t, ok)
		*seen = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	m := newTestMiddlewares()

	t.Run("Valid token attaches the actor", func(t *testing.T) {
		token, err := utils.GenerateAccessToken("patient-1", constvars.RolePatient, testSecret, time.Hour)
		require.NoError(t, err)

		var seen models.Actor
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()

		m.Authenticate(actorEcho(t, &seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, models.Actor{UserID: "patient-1", Role: constvars.RolePatient}, seen)
	})

	t.Run("Missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		m.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		token, err := utils.GenerateAccessToken("patient-1", constvars.RolePatient, "other-secret", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()

		m.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token, err := utils.GenerateAccessToken("patient-1", constvars.RolePatient, testSecret, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()

		m.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	m := newTestMiddlewares()
	handler := m.RequireRoles(constvars.RoleDoctor)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(actor *models.Actor) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if actor != nil {
			req = req.WithContext(utils.ContextWithActor(req.Context(), *actor))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, serve(&models.Actor{UserID: "doctor-1", Role: constvars.RoleDoctor}))
	assert.Equal(t, http.StatusForbidden, serve(&models.Actor{UserID: "patient-1", Role: constvars.RolePatient}))
	assert.Equal(t, http.StatusUnauthorized, serve(nil))
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddlewares()
	var seen string
	handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetRequestID(r.Context())
	}))

	t.Run("Keeps the client's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rec.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Generates one when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	m := newTestMiddlewares()
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestLoggingRecordsRouteMetrics(t *testing.T) {
	m := newTestMiddlewares()
	router := chi.NewRouter()
	router.Use(m.Logging)
	router.Get("/appointments/{appointment_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/appointments/{appointment_id}", "418")))
}

func TestRateLimit(t *testing.T) {
	m := newTestMiddlewares()
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
