package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipehub/backend/config"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		ServerHost:         "localhost",
		ServerPort:         "0",
		ServerReadTimeout:  5 * time.Second,
		ServerWriteTimeout: 5 * time.Second,
		StoreBackend:       config.StoreSQL,
		DBDriver:           "sqlite",
		SQLitePath:         filepath.Join(t.TempDir(), "server.db"),
		JWTSecret:          "test-secret-that-is-long-enough-for-hs256",
		TokenTTL:           time.Hour,
		MealDBBaseURL:      "http://127.0.0.1:1",
		MealDBTimeout:      time.Second,
		CORSAllowedOrigins: "http://localhost:5173",
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, err := New(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRoutesAreWired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, err := New(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"latest is public", http.MethodGet, "/api/v1/recipes/latest", "", http.StatusOK},
		{"profile needs a token", http.MethodGet, "/api/v1/profile", "", http.StatusUnauthorized},
		{"favorites need a token", http.MethodGet, "/api/v1/favorites", "", http.StatusUnauthorized},
		{"signup validates", http.MethodPost, "/api/v1/auth/signup", `{"email":"nope"}`, http.StatusBadRequest},
		{"uploads are off without a bucket", http.MethodPost, "/api/v1/uploads/images", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			srv.Router().ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, err := New(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/recipes/latest", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = "cassandra"

	_, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unsupported store backend")
}
