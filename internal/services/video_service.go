package services

import (
	"context"

	"github.com/firmtemplate/firm-api/internal/video"
	"github.com/firmtemplate/firm-api/pkg/logger"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	"github.com/firmtemplate/firm-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// VideoService resolves embeddable video sources
type VideoService struct{}

// NewVideoService creates a new video service instance
func NewVideoService() *VideoService {
	return &VideoService{}
}

// Resolve turns a provider and id/src into an embeddable source.
// Errors are reported in the returned Source, never as a Go error.
func (s *VideoService) Resolve(ctx context.Context, in video.Input) video.Source {
	_, span := tracing.StartSpan(ctx, "video.resolve",
		attribute.String("video.provider", in.Provider))
	defer span.End()

	source := video.Resolve(in)

	providerLabel := string(source.Provider)
	if providerLabel == "" {
		providerLabel = "unknown"
	}
	metrics.VideoResolutions.WithLabelValues(providerLabel, string(source.Status)).Inc()

	if source.Status == video.StatusError {
		span.SetStatus(codes.Error, source.Reason)
		logger.Debug("Video source rejected",
			zap.String("provider", in.Provider),
			zap.String("reason", source.Reason))
	}

	return source
}
