package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmtemplate/firm-api/config"
	"github.com/firmtemplate/firm-api/internal/exitintent"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:             "8081",
			AppEnv:           "test",
			AllowedOrigins:   []string{"https://acme-law.com"},
			MaxBodySizeBytes: 1024,
		},
		Observability: config.ObservabilityConfig{ServiceName: "firm-api"},
		Scheduling:    config.SchedulingConfig{Provider: "calendly", CalendlyURL: "https://Calendly.com/acme-law"},
		ExitIntent: config.ExitIntentConfig{
			Frequency:         "day",
			StorageKey:        exitintent.DefaultStorageKey,
			SessionTTLMinutes: 30,
			BlockedPaths:      exitintent.DefaultBlockedPaths,
		},
		Contact: config.ContactConfig{RateLimitPerHour: 3},
	}
}

func newTestServer(t *testing.T, redisClient *redis.Client) *gin.Engine {
	t.Helper()
	deps := buildDeps(testConfig(), redisClient)
	t.Cleanup(deps.generalRateLimiter.Stop)
	t.Cleanup(deps.contactRateLimiter.Stop)
	return newRouter(testConfig(), deps)
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	router := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "healthcheck", method: http.MethodGet, path: "/api/healthcheck", status: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/api/metrics", status: http.StatusOK},
		{name: "scheduling", method: http.MethodGet, path: "/api/v1/scheduling", status: http.StatusOK},
		{name: "video", method: http.MethodPost, path: "/api/v1/video/resolve", body: `{"provider":"youtube","videoId":"abc"}`, status: http.StatusOK},
		{name: "contact validate", method: http.MethodPost, path: "/api/v1/contact/validate", body: `{}`, status: http.StatusBadRequest},
		{name: "exit intent decide", method: http.MethodPost, path: "/api/v1/exit-intent/decide", body: `{"path":"/"}`, status: http.StatusOK},
		{name: "exit intent shown", method: http.MethodPost, path: "/api/v1/exit-intent/shown", body: `{"visitorId":"v1"}`, status: http.StatusOK},
		{name: "unknown", method: http.MethodGet, path: "/api/v1/matters", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
		})
	}
}

func TestRouter_SchedulingUsesConfig(t *testing.T) {
	router := newTestServer(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scheduling", http.NoBody))

	assert.JSONEq(t, `{"status":"enabled","provider":"calendly","embedUrl":"https://calendly.com/acme-law"}`, w.Body.String())
}

func TestRouter_BodySizeLimit(t *testing.T) {
	router := newTestServer(t, nil)

	w := post(router, "/api/v1/contact", `{"message":"`+strings.Repeat("a", 2048)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_DurableStateInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := newTestServer(t, client)

	w := post(router, "/api/v1/exit-intent/shown", `{"visitorId":"v1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stored":true}`, w.Body.String())
	assert.True(t, mr.Exists(exitintent.DefaultStorageKey+":v1"))

	w = post(router, "/api/v1/exit-intent/decide", `{"visitorId":"v1","path":"/"}`)
	assert.Contains(t, w.Body.String(), `"reason":"cooldown"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthcheck", http.NoBody))
	assert.JSONEq(t, `{"status":"ok","checks":{"redis":"ok"}}`, w.Body.String())
}

func TestRouter_ContactDeliversToWebhook(t *testing.T) {
	var received []byte
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	cfg := testConfig()
	cfg.Leads = config.LeadsConfig{WebhookURL: hook.URL, WebhookSecret: "s3cret", WebhookTimeoutSeconds: 2}
	deps := buildDeps(cfg, nil)
	t.Cleanup(deps.generalRateLimiter.Stop)
	t.Cleanup(deps.contactRateLimiter.Stop)
	router := newRouter(cfg, deps)

	w := post(router, "/api/v1/contact",
		`{"name":"Jane Doe","email":"Jane@Example.com","message":"We need help with a lease."}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, string(received), `"email":"jane@example.com"`)
}

func TestRouter_CORS(t *testing.T) {
	router := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact", http.NoBody)
	req.Header.Set("Origin", "https://acme-law.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://acme-law.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_DevelopmentOriginsLeaveConfigUntouched(t *testing.T) {
	origins := make([]string, 1, 4)
	origins[0] = "https://acme-law.com"

	cfg := testConfig()
	cfg.Server.AppEnv = "development"
	cfg.Server.AllowedOrigins = origins
	deps := buildDeps(cfg, nil)
	t.Cleanup(deps.generalRateLimiter.Stop)
	t.Cleanup(deps.contactRateLimiter.Stop)

	router := newRouter(cfg, deps)

	assert.Equal(t, []string{"https://acme-law.com"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, origins[:2][1])

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact", http.NoBody)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://127.0.0.1:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
