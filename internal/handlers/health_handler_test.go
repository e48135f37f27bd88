package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string]HealthCheck
		status   int
		expected string
	}{
		{
			name:     "no dependencies",
			status:   http.StatusOK,
			expected: `{"status":"ok"}`,
		},
		{
			name: "all checks pass",
			checks: map[string]HealthCheck{
				"redis": func(context.Context) error { return nil },
			},
			status:   http.StatusOK,
			expected: `{"status":"ok","checks":{"redis":"ok"}}`,
		},
		{
			name: "one check fails",
			checks: map[string]HealthCheck{
				"redis":  func(context.Context) error { return errors.New("connection refused") },
				"memory": func(context.Context) error { return nil },
			},
			status:   http.StatusServiceUnavailable,
			expected: `{"status":"unavailable","checks":{"memory":"ok","redis":"unavailable"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checks)
			router := gin.New()
			router.GET("/healthcheck", handler.Healthcheck)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}
