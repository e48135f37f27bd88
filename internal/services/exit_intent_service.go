package services

import (
	"context"
	"time"

	"github.com/firmtemplate/firm-api/internal/exitintent"
	"github.com/firmtemplate/firm-api/pkg/logger"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	"github.com/firmtemplate/firm-api/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Decision reasons
const (
	ReasonTouchDevice = "touch_device"
	ReasonPathBlocked = "path_blocked"
	ReasonCooldown    = "cooldown"
	ReasonEligible    = "eligible"
)

// ExitIntentSettings are the site-wide prompt rules
type ExitIntentSettings struct {
	DefaultFrequency exitintent.Frequency
	StorageKey       string
	AllowedPaths     []string
	BlockedPaths     []string
}

// DecideRequest is a single exit-intent check. A zero Frequency uses the site default
// and a zero Now uses the service clock. Now is epoch milliseconds.
type DecideRequest struct {
	VisitorID string
	Frequency exitintent.Frequency
	Path      string
	Window    *exitintent.Window
	Navigator *exitintent.Navigator
	Now       int64
}

// Decision is the outcome of Decide
type Decision struct {
	Show       bool
	Reason     string
	CooldownMs int64
	VisitorID  string
}

// ExitIntentService decides when the exit-intent prompt may appear and remembers when it did
type ExitIntentService struct {
	storage  exitintent.StorageSelector
	settings ExitIntentSettings
	now      func() time.Time
}

// NewExitIntentService creates a new exit intent service instance
func NewExitIntentService(storage exitintent.StorageSelector, settings ExitIntentSettings) *ExitIntentService {
	if settings.DefaultFrequency == "" {
		settings.DefaultFrequency = exitintent.FrequencySession
	}
	if settings.StorageKey == "" {
		settings.StorageKey = exitintent.DefaultStorageKey
	}

	return &ExitIntentService{
		storage:  storage,
		settings: settings,
		now:      time.Now,
	}
}

// SetClock replaces the service clock
func (s *ExitIntentService) SetClock(now func() time.Time) {
	s.now = now
}

// Decide checks the touch heuristic, the page rules and the stored cooldown, in that order
func (s *ExitIntentService) Decide(ctx context.Context, req DecideRequest) Decision {
	frequency := s.frequency(req.Frequency)
	cooldown := exitintent.CooldownMs(frequency)

	visitorID := req.VisitorID
	if visitorID == "" {
		visitorID = uuid.NewString()
	}

	ctx, span := tracing.StartSpan(ctx, "exit_intent.decide",
		attribute.String("exit_intent.frequency", string(frequency)))
	defer span.End()

	decision := Decision{CooldownMs: cooldown, VisitorID: visitorID}

	switch {
	case exitintent.IsTouchDevice(req.Window, req.Navigator):
		decision.Reason = ReasonTouchDevice
	case !exitintent.PathEligible(req.Path, s.settings.AllowedPaths, s.settings.BlockedPaths):
		decision.Reason = ReasonPathBlocked
	default:
		state := s.load(ctx, frequency, visitorID)
		now := req.Now
		if now == 0 {
			now = s.now().UnixMilli()
		}
		if exitintent.ShouldShow(exitintent.ShowInput{Now: now, LastShownAt: state.LastShownAt, CooldownMs: cooldown}) {
			decision.Show = true
			decision.Reason = ReasonEligible
		} else {
			decision.Reason = ReasonCooldown
		}
	}

	span.SetAttributes(attribute.String("exit_intent.reason", decision.Reason))
	metrics.ExitIntentDecisions.WithLabelValues(string(frequency), decision.Reason).Inc()

	return decision
}

// MarkShown stores now as the last display time. It reports whether the write succeeded;
// a failed write only means the prompt may be offered again.
func (s *ExitIntentService) MarkShown(ctx context.Context, visitorID string, frequency exitintent.Frequency, now int64) bool {
	frequency = s.frequency(frequency)
	if now == 0 {
		now = s.now().UnixMilli()
	}

	err := exitintent.SaveState(ctx, s.storage.For(frequency), s.key(visitorID), exitintent.State{LastShownAt: &now})
	if err != nil {
		metrics.ExitIntentStorageFailures.WithLabelValues("write").Inc()
		logger.Warn("Failed to persist exit intent state",
			zap.String("frequency", string(frequency)),
			zap.Error(err))
		return false
	}

	return true
}

func (s *ExitIntentService) load(ctx context.Context, frequency exitintent.Frequency, visitorID string) exitintent.State {
	state, err := exitintent.LoadState(ctx, s.storage.For(frequency), s.key(visitorID))
	if err != nil {
		metrics.ExitIntentStorageFailures.WithLabelValues("read").Inc()
		logger.Warn("Failed to read exit intent state, treating visitor as new",
			zap.String("frequency", string(frequency)),
			zap.Error(err))
		return exitintent.State{}
	}
	return state
}

func (s *ExitIntentService) frequency(f exitintent.Frequency) exitintent.Frequency {
	if f == "" {
		return s.settings.DefaultFrequency
	}
	return f
}

func (s *ExitIntentService) key(visitorID string) string {
	return s.settings.StorageKey + ":" + visitorID
}
