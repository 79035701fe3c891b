package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"todoapp/internal/auth"
)

type contextKey string

const subjectKey contextKey = "subject"

// AuthMiddleware verifies the Bearer access token and puts its subject into
// the request context. An expired token gets a distinct message so clients
// know to hit /auth/refresh instead of re-authenticating.
func (h *Handler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			sendError(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, err := h.Tokens.Authenticate(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				sendError(w, "Token expired", http.StatusUnauthorized)
				return
			}
			sendError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next(w, r.WithContext(ctx))
	}
}

// SubjectFromContext returns the subject AuthMiddleware stored, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}
