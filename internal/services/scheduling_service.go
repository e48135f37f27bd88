package services

import (
	"github.com/firmtemplate/firm-api/internal/scheduling"
	"github.com/firmtemplate/firm-api/pkg/logger"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	"go.uber.org/zap"
)

// SchedulingService serves the scheduling configuration resolved at startup
type SchedulingService struct {
	current scheduling.Config
}

// NewSchedulingService resolves the provider settings once. The result never changes afterwards.
func NewSchedulingService(in scheduling.Input) *SchedulingService {
	cfg := scheduling.Resolve(in)
	metrics.SchedulingResolutions.WithLabelValues(string(cfg.Provider), string(cfg.Status)).Inc()

	switch cfg.Status {
	case scheduling.StatusError:
		logger.Warn("Scheduling provider misconfigured, CTA hidden",
			zap.String("provider", string(cfg.Provider)),
			zap.String("reason", cfg.Reason))
	case scheduling.StatusDisabled:
		logger.Info("Scheduling disabled", zap.String("reason", cfg.Reason))
	default:
		logger.Info("Scheduling enabled",
			zap.String("provider", string(cfg.Provider)),
			zap.String("embed_url", cfg.EmbedURL))
	}

	return &SchedulingService{current: cfg}
}

// Current returns the resolved configuration
func (s *SchedulingService) Current() scheduling.Config {
	return s.current
}
