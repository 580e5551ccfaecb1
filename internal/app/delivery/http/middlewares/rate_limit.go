package middlewares

import (
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

const defaultMaxRequestsPerSecond = 50

// RateLimit limits each client IP to App.MaxRequests per second.
func (m *Middlewares) RateLimit() func(next http.Handler) http.Handler {
	limit := m.InternalConfig.App.MaxRequests
	if limit <= 0 {
		limit = defaultMaxRequestsPerSecond
	}
	return httprate.Limit(limit, time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(nil))
		}),
	)
}
