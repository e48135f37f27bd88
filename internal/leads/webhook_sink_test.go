package leads

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/firmtemplate/firm-api/pkg/logger"
	"github.com/firmtemplate/firm-api/pkg/retry"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "test", ServiceName: "firm-api-test"})
}

func fastRetry() retry.Config {
	cfg := retry.WebhookConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = time.Millisecond
	cfg.Jitter = false
	return cfg
}

func testLead() *models.Lead {
	return &models.Lead{
		ID:         "lead-1",
		ReceivedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Message:    "We need help with a contract review.",
		Status:     models.LeadStatusPending,
	}
}

func TestWebhookSink_DeliversSignedLead(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sink := NewWebhookSink(WebhookConfig{URL: server.URL, Secret: "s3cret", Retry: fastRetry()}, nil)
	sink.now = func() time.Time { return time.Unix(1700000000, 0) }

	require.NoError(t, sink.Deliver(context.Background(), testLead()))

	var lead models.Lead
	require.NoError(t, json.Unmarshal(gotBody, &lead))
	assert.Equal(t, "jane@example.com", lead.Email)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "lead-1", gotHeaders.Get(LeadIDHeader))
	assert.Equal(t, "1700000000", gotHeaders.Get(TimestampHeader))
	assert.Equal(t, Sign([]byte("s3cret"), "1700000000", gotBody), gotHeaders.Get(SignatureHeader))
}

func TestWebhookSink_NoSecretNoSignature(t *testing.T) {
	var signature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get(SignatureHeader)
	}))
	defer server.Close()

	sink := NewWebhookSink(WebhookConfig{URL: server.URL, Retry: fastRetry()}, nil)

	require.NoError(t, sink.Deliver(context.Background(), testLead()))
	assert.Empty(t, signature)
}

func TestWebhookSink_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewWebhookSink(WebhookConfig{URL: server.URL, Retry: fastRetry()}, nil)

	require.NoError(t, sink.Deliver(context.Background(), testLead()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestWebhookSink_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	sink := NewWebhookSink(WebhookConfig{URL: server.URL, Retry: fastRetry()}, nil)

	err := sink.Deliver(context.Background(), testLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWebhookSink_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sink := NewWebhookSink(WebhookConfig{URL: server.URL, Retry: fastRetry()}, nil)

	err := sink.Deliver(context.Background(), testLead())
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSign(t *testing.T) {
	sig := Sign([]byte("key"), "1", []byte(`{}`))

	assert.Len(t, sig, len("sha256=")+64)
	assert.Equal(t, sig, Sign([]byte("key"), "1", []byte(`{}`)))
	assert.NotEqual(t, sig, Sign([]byte("other"), "1", []byte(`{}`)))
}
