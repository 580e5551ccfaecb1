package middlewares

import (
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authenticate verifies the bearer token and attaches the actor it names to the
// request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, constvars.BearerPrefix) {
			m.Log.Info("Middlewares.Authenticate bearer token missing",
				zap.String(constvars.LoggingRequestIDKey, requestID),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.BearerPrefix))
		actor, err := utils.ParseAccessToken(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			m.Log.Info("Middlewares.Authenticate rejected token",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := utils.ContextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles must run after Authenticate.
func (m *Middlewares) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := utils.GetActor(r.Context())
			if !ok {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrActorMissing(nil))
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrRoleNotAllowed(nil, actor.Role))
		})
	}
}
