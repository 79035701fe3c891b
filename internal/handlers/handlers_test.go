package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"todoapp/internal/auth"
	"todoapp/internal/db"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// setupHTTP wires a handler over an in-memory sqlite database with the same
// routing as cmd/server.
func setupHTTP(t *testing.T) (*Handler, *http.ServeMux) {
	t.Helper()

	dbConn, err := db.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })
	require.NoError(t, db.InitSchema(dbConn))

	h := &Handler{
		Tasks:       db.NewTaskRepository(dbConn),
		Users:       db.NewUserRepository(dbConn),
		Tokens:      auth.NewTokenManager(testSecret, 5*time.Minute, time.Hour),
		RateLimiter: NewRateLimiter(100, time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/api/", h.HandleTasks)
	mux.HandleFunc("/auth/register", h.Register)
	mux.HandleFunc("/auth/login", h.Login)
	mux.HandleFunc("/auth/refresh", h.Refresh)
	mux.HandleFunc("/auth/me", h.AuthMiddleware(h.Me))

	return h, mux
}

// doJSON performs a request with a JSON body and decodes the JSON response
// into out when out is non-nil.
func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"response body: %s", rec.Body.String())
	}
	return rec
}
