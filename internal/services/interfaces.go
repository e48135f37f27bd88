package services

import (
	"context"

	"github.com/firmtemplate/firm-api/internal/contact"
	"github.com/firmtemplate/firm-api/internal/exitintent"
	"github.com/firmtemplate/firm-api/internal/leads"
	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/firmtemplate/firm-api/internal/scheduling"
	"github.com/firmtemplate/firm-api/internal/video"
)

// SchedulingServiceInterface defines the interface for scheduling service operations
type SchedulingServiceInterface interface {
	Current() scheduling.Config
}

// VideoServiceInterface defines the interface for video service operations
type VideoServiceInterface interface {
	Resolve(ctx context.Context, in video.Input) video.Source
}

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	Validate(data contact.FormData) contact.Result
	Submit(ctx context.Context, data contact.FormData, clientIP string) *models.ContactResponse
}

// ExitIntentServiceInterface defines the interface for exit intent service operations
type ExitIntentServiceInterface interface {
	Decide(ctx context.Context, req DecideRequest) Decision
	MarkShown(ctx context.Context, visitorID string, frequency exitintent.Frequency, now int64) bool
}

// Ensure services implement their interfaces
var _ SchedulingServiceInterface = (*SchedulingService)(nil)
var _ VideoServiceInterface = (*VideoService)(nil)
var _ ContactServiceInterface = (*ContactService)(nil)
var _ ExitIntentServiceInterface = (*ExitIntentService)(nil)
var _ LeadSink = LogLeadSink{}
var _ LeadSink = (*leads.WebhookSink)(nil)
