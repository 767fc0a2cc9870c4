package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"food-ordering-system/internal/auth"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"

	"github.com/go-chi/chi/v5/middleware"
)

// WithLogging logs the start and completion of every request
func WithLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())

			log.Debug("request_started",
				fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				requestID,
				map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"remote_addr": r.RemoteAddr,
					"user_agent":  r.Header.Get("User-Agent"),
				})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("request_completed",
				fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, status),
				requestID,
				map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status_code": status,
					"bytes":       ww.BytesWritten(),
					"duration_ms": time.Since(start).Milliseconds(),
				})
		})
	}
}

// RequireAuth resolves the bearer token into a principal or answers 401
func RequireAuth(authn auth.Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteError(w, r, log, "authentication_failed", models.ErrUnauthenticated)
				return
			}

			p, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				WriteError(w, r, log, "authentication_failed", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// Principal returns the caller set by RequireAuth
func Principal(r *http.Request) (models.Principal, error) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return models.Principal{}, models.ErrUnauthenticated
	}
	return p, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
