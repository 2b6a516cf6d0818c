package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/logger"
	"library-backend/internal/security"
)

type contextKey string

const (
	contextKeyClaims    contextKey = "claims"
	contextKeyRequestID contextKey = "request_id"

	headerRequestID = "X-Request-ID"
)

// RequestID tags each request with a UUID, honoring one supplied by the
// caller.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(headerRequestID, rid)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// Logging emits one structured line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		rid, _ := r.Context().Value(contextKeyRequestID).(string)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency_ms", time.Since(start).Milliseconds(),
			"req_id", rid,
		)
	})
}

// Recovery converts handler panics into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Handler panicked", "path", r.URL.Path, "panic", rec)
				writeJSON(w, http.StatusInternalServerError, ApiResponse{
					Success: false,
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Auth validates the bearer token and stores the claims in the request
// context.
func Auth(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			claims, err := tokens.ValidateToken(raw)
			if err != nil || claims.Type != security.TokenTypeAccess {
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), contextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards an endpoint behind one of the listed roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || !allowed[claims.Role] {
				writeJSON(w, http.StatusForbidden, ApiResponse{
					Success: false,
					Code:    http.StatusForbidden,
					Message: "insufficient permissions",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the authenticated user's claims, or nil on
// unauthenticated routes.
func ClaimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(contextKeyClaims).(*security.UserClaims)
	return claims
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, ApiResponse{
		Success: false,
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}
