package leads

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/firmtemplate/firm-api/pkg/circuitbreaker"
	"github.com/firmtemplate/firm-api/pkg/httpclient"
	"github.com/firmtemplate/firm-api/pkg/logger"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	"github.com/firmtemplate/firm-api/pkg/retry"
)

const (
	SignatureHeader = "X-Firm-Signature"
	TimestampHeader = "X-Firm-Timestamp"
	LeadIDHeader    = "X-Firm-Lead-ID"

	breakerName = "lead-webhook"
)

// WebhookConfig configures lead delivery to an external endpoint
type WebhookConfig struct {
	URL    string
	Secret string
	Retry  retry.Config
}

// WebhookSink posts accepted leads as JSON to a CRM or automation endpoint
type WebhookSink struct {
	url     string
	secret  []byte
	retry   retry.Config
	client  httpclient.Client
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewWebhookSink creates a sink. A nil client gets the default HTTP client.
func NewWebhookSink(cfg WebhookConfig, client httpclient.Client) *WebhookSink {
	if client == nil {
		client = httpclient.NewStandardClient(0)
	}
	if cfg.Retry.Multiplier == 0 {
		cfg.Retry = retry.WebhookConfig()
	}

	return &WebhookSink{
		url:     cfg.URL,
		secret:  []byte(cfg.Secret),
		retry:   cfg.Retry,
		client:  client,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig(breakerName)),
		now:     time.Now,
	}
}

// Deliver sends the lead, retrying transient failures. 4xx responses are not retried.
func (s *WebhookSink) Deliver(ctx context.Context, lead *models.Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("failed to encode lead: %w", err)
	}

	err = retry.Do(ctx, s.retry, "lead_webhook", func() error {
		_, cbErr := circuitbreaker.Execute(s.breaker, func() (struct{}, error) {
			return struct{}{}, s.post(ctx, lead.ID, body)
		})
		if circuitbreaker.IsRejection(cbErr) {
			return retry.Permanent(cbErr)
		}
		return cbErr
	})
	if err != nil {
		metrics.LeadWebhookRequests.WithLabelValues("failed").Inc()
		logger.Error("Lead webhook delivery failed",
			zap.String("lead_id", lead.ID),
			zap.Error(err))
		return err
	}

	metrics.LeadWebhookRequests.WithLabelValues("delivered").Inc()
	return nil
}

func (s *WebhookSink) post(ctx context.Context, leadID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to build webhook request: %w", err))
	}

	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(LeadIDHeader, leadID)
	req.Header.Set(TimestampHeader, timestamp)
	if len(s.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(s.secret, timestamp, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)) //nolint:errcheck // drain for connection reuse

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	default:
		return retry.Permanent(fmt.Errorf("webhook rejected lead with status %d", resp.StatusCode))
	}
}

// Sign returns "sha256=<hex>" of HMAC-SHA256 over "<timestamp>.<body>"
func Sign(secret []byte, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
