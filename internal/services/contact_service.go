package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/firmtemplate/firm-api/internal/cache"
	"github.com/firmtemplate/firm-api/internal/contact"
	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/firmtemplate/firm-api/pkg/logger"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	"github.com/firmtemplate/firm-api/pkg/tracing"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Messages returned to the visitor
const (
	MsgContactSuccess     = "Thank you for your message! We'll be in touch soon."
	MsgContactInvalid     = "Please check your form inputs and try again."
	MsgContactHoneypot    = "Unable to submit your message. Please try again."
	MsgContactRateLimited = "Too many submissions. Please try again later."
	MsgContactFailed      = "Something went wrong. Please try again or email us directly."
)

const unknownClientIP = "unknown"

// LeadSink receives accepted contact submissions
type LeadSink interface {
	Deliver(ctx context.Context, lead *models.Lead) error
}

// LogLeadSink writes leads to the structured log. Contact details are hashed.
type LogLeadSink struct{}

// Deliver logs the lead
func (LogLeadSink) Deliver(_ context.Context, lead *models.Lead) error {
	logger.Info("Contact lead received",
		zap.String("lead_id", lead.ID),
		zap.String("email_hash", HashIdentifier(lead.Email)),
		zap.String("ip_hash", lead.ClientIPHash),
		zap.Bool("has_phone", lead.Phone != ""),
		zap.Bool("has_company", lead.Company != ""),
		zap.Int("message_length", len(lead.Message)))
	return nil
}

// ContactService handles contact form submissions
type ContactService struct {
	limiter   *cache.SubmissionLimiter
	sink      LeadSink
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewContactService creates a new contact service instance. A nil sink logs leads.
func NewContactService(limiter *cache.SubmissionLimiter, sink LeadSink) *ContactService {
	if sink == nil {
		sink = LogLeadSink{}
	}

	return &ContactService{
		limiter:   limiter,
		sink:      sink,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// Validate runs the field rules without submitting
func (s *ContactService) Validate(data contact.FormData) contact.Result {
	return contact.Validate(data)
}

// Submit validates, rate limits and delivers a submission.
// The outcome is always reported in the response; internal failures map to a generic message.
func (s *ContactService) Submit(ctx context.Context, data contact.FormData, clientIP string) *models.ContactResponse {
	ctx, span := tracing.StartSpan(ctx, "contact.submit")
	defer span.End()

	if contact.HoneypotTriggered(data) {
		metrics.ContactFormSubmissions.WithLabelValues("honeypot").Inc()
		logger.Warn("Honeypot field triggered for contact form submission")
		return &models.ContactResponse{Success: false, Message: MsgContactHoneypot}
	}

	result := contact.Validate(data)
	if !result.Success {
		metrics.ContactFormSubmissions.WithLabelValues("invalid").Inc()
		for _, field := range result.FieldErrors.Fields() {
			metrics.ContactFieldErrors.WithLabelValues(field).Inc()
		}
		return &models.ContactResponse{
			Success:     false,
			Message:     MsgContactInvalid,
			FieldErrors: result.FieldErrors,
		}
	}

	if strings.TrimSpace(clientIP) == "" {
		clientIP = unknownClientIP
	}
	email := strings.ToLower(strings.TrimSpace(result.Data.Email))
	emailHash := HashIdentifier(email)
	ipHash := HashIdentifier(clientIP)

	if s.limiter != nil && !s.limiter.Allow("email:"+emailHash, "ip:"+ipHash) {
		metrics.ContactFormSubmissions.WithLabelValues("rate_limited").Inc()
		logger.Warn("Rate limit exceeded for contact form",
			zap.String("email_hash", emailHash),
			zap.String("ip_hash", ipHash))
		return &models.ContactResponse{Success: false, Message: MsgContactRateLimited}
	}

	lead := s.buildLead(result.Data, email, ipHash)
	if err := s.sink.Deliver(ctx, lead); err != nil {
		span.SetStatus(codes.Error, "lead delivery failed")
		metrics.ContactFormSubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to deliver contact lead",
			zap.String("lead_id", lead.ID),
			zap.String("email_hash", emailHash),
			zap.Error(err))
		return &models.ContactResponse{Success: false, Message: MsgContactFailed}
	}

	metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
	return &models.ContactResponse{Success: true, Message: MsgContactSuccess}
}

func (s *ContactService) buildLead(data *contact.FormData, email, ipHash string) *models.Lead {
	return &models.Lead{
		ID:           uuid.NewString(),
		ReceivedAt:   s.now().UTC(),
		Name:         s.sanitize(data.Name),
		Email:        email,
		Company:      s.sanitizeOptional(data.Company),
		Phone:        s.sanitizeOptional(data.Phone),
		Message:      s.sanitize(data.Message),
		HearAboutUs:  s.sanitizeOptional(data.HearAboutUs),
		ClientIPHash: ipHash,
		Status:       models.LeadStatusPending,
	}
}

func (s *ContactService) sanitize(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func (s *ContactService) sanitizeOptional(value *string) string {
	if value == nil {
		return ""
	}
	return s.sanitize(*value)
}

// HashIdentifier returns the hex SHA-256 of value, used wherever an email or IP would be logged
func HashIdentifier(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
