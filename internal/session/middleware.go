package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type ctxKey struct{}

func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserFromContext returns the salesperson resolved by Middleware.
func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Middleware rejects requests without a valid bearer token for the active
// session and stores the user id in the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		claims, err := s.Verify(r.Context(), token)
		if err != nil {
			slog.Debug("rejected session token", "error", err)
			http.Error(w, "invalid or ended session", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID)))
	})
}
