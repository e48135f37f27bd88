package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firmtemplate/firm-api/internal/exitintent"
	"github.com/firmtemplate/firm-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newExitIntentService(session, durable exitintent.Storage) *services.ExitIntentService {
	return services.NewExitIntentService(
		exitintent.StorageSelector{Session: session, Durable: durable},
		services.ExitIntentSettings{
			DefaultFrequency: exitintent.FrequencySession,
			BlockedPaths:     exitintent.DefaultBlockedPaths,
		},
	)
}

func TestExitIntentService_Decide_FirstVisit(t *testing.T) {
	service := newExitIntentService(newMemoryStorage(), newMemoryStorage())

	decision := service.Decide(context.Background(), services.DecideRequest{
		VisitorID: "v1",
		Path:      "/pricing",
		Now:       1_000,
	})

	assert.True(t, decision.Show)
	assert.Equal(t, services.ReasonEligible, decision.Reason)
	assert.Equal(t, exitintent.MaxSafeInteger, decision.CooldownMs)
	assert.Equal(t, "v1", decision.VisitorID)
}

func TestExitIntentService_Decide_MintsVisitorID(t *testing.T) {
	service := newExitIntentService(newMemoryStorage(), newMemoryStorage())

	first := service.Decide(context.Background(), services.DecideRequest{Path: "/"})
	second := service.Decide(context.Background(), services.DecideRequest{Path: "/"})

	assert.Len(t, first.VisitorID, 36)
	assert.NotEqual(t, first.VisitorID, second.VisitorID)
}

func TestExitIntentService_Decide_TouchDevice(t *testing.T) {
	storage := new(MockStorage)
	service := newExitIntentService(storage, storage)

	decision := service.Decide(context.Background(), services.DecideRequest{
		VisitorID: "v1",
		Path:      "/",
		Window:    &exitintent.Window{},
		Navigator: &exitintent.Navigator{MaxTouchPoints: 5},
	})

	assert.False(t, decision.Show)
	assert.Equal(t, services.ReasonTouchDevice, decision.Reason)
	storage.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
}

func TestExitIntentService_Decide_BlockedPath(t *testing.T) {
	service := newExitIntentService(newMemoryStorage(), newMemoryStorage())

	decision := service.Decide(context.Background(), services.DecideRequest{VisitorID: "v1", Path: "/privacy"})

	assert.False(t, decision.Show)
	assert.Equal(t, services.ReasonPathBlocked, decision.Reason)
}

func TestExitIntentService_Decide_AllowList(t *testing.T) {
	service := services.NewExitIntentService(
		exitintent.StorageSelector{Session: newMemoryStorage()},
		services.ExitIntentSettings{AllowedPaths: []string{"/pricing"}},
	)

	assert.Equal(t, services.ReasonPathBlocked,
		service.Decide(context.Background(), services.DecideRequest{VisitorID: "v1", Path: "/about"}).Reason)
	assert.Equal(t, services.ReasonEligible,
		service.Decide(context.Background(), services.DecideRequest{VisitorID: "v1", Path: "/pricing"}).Reason)
}

func TestExitIntentService_SessionShownOnce(t *testing.T) {
	ctx := context.Background()
	session := newMemoryStorage()
	service := newExitIntentService(session, newMemoryStorage())

	require.True(t, service.MarkShown(ctx, "v1", "", 1_000))

	decision := service.Decide(ctx, services.DecideRequest{VisitorID: "v1", Path: "/", Now: 1_000 + exitintent.WeekMs})
	assert.False(t, decision.Show)
	assert.Equal(t, services.ReasonCooldown, decision.Reason)

	raw, found, err := session.GetItem(ctx, exitintent.DefaultStorageKey+":v1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"lastShownAt":1000}`, raw)

	// Another visitor is unaffected.
	assert.True(t, service.Decide(ctx, services.DecideRequest{VisitorID: "v2", Path: "/"}).Show)
}

func TestExitIntentService_DayCooldown(t *testing.T) {
	ctx := context.Background()
	session := newMemoryStorage()
	durable := newMemoryStorage()
	service := newExitIntentService(session, durable)

	require.True(t, service.MarkShown(ctx, "v1", exitintent.FrequencyDay, 10_000))
	assert.Empty(t, session.items, "day frequency must use durable storage")

	tests := []struct {
		name string
		now  int64
		show bool
	}{
		{name: "same day", now: 10_000 + exitintent.DayMs - 1, show: false},
		{name: "cooldown elapsed", now: 10_000 + exitintent.DayMs, show: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := service.Decide(ctx, services.DecideRequest{
				VisitorID: "v1",
				Frequency: exitintent.FrequencyDay,
				Path:      "/",
				Now:       tt.now,
			})
			assert.Equal(t, tt.show, decision.Show)
			assert.Equal(t, exitintent.DayMs, decision.CooldownMs)
		})
	}
}

func TestExitIntentService_StorageFailuresFailSoft(t *testing.T) {
	ctx := context.Background()
	storage := new(MockStorage)
	service := newExitIntentService(storage, storage)

	storage.On("GetItem", mock.Anything, exitintent.DefaultStorageKey+":v1").Return("", false, errors.New("quota exceeded"))
	storage.On("SetItem", mock.Anything, exitintent.DefaultStorageKey+":v1", mock.Anything).Return(errors.New("quota exceeded"))

	decision := service.Decide(ctx, services.DecideRequest{VisitorID: "v1", Path: "/"})
	assert.True(t, decision.Show)
	assert.Equal(t, services.ReasonEligible, decision.Reason)

	assert.False(t, service.MarkShown(ctx, "v1", exitintent.FrequencySession, 1_000))
	storage.AssertExpectations(t)
}

func TestExitIntentService_CorruptStateTreatedAsNew(t *testing.T) {
	ctx := context.Background()
	session := newMemoryStorage()
	require.NoError(t, session.SetItem(ctx, exitintent.DefaultStorageKey+":v1", "{not json"))
	service := newExitIntentService(session, nil)

	assert.True(t, service.Decide(ctx, services.DecideRequest{VisitorID: "v1", Path: "/"}).Show)
}

func TestExitIntentService_MissingDurableBackend(t *testing.T) {
	ctx := context.Background()
	service := newExitIntentService(newMemoryStorage(), nil)

	assert.False(t, service.MarkShown(ctx, "v1", exitintent.FrequencyWeek, 1_000))
	assert.True(t, service.Decide(ctx, services.DecideRequest{VisitorID: "v1", Frequency: exitintent.FrequencyWeek, Path: "/"}).Show)
}

func TestExitIntentService_UsesClock(t *testing.T) {
	ctx := context.Background()
	service := newExitIntentService(newMemoryStorage(), newMemoryStorage())
	now := time.UnixMilli(50_000)
	service.SetClock(func() time.Time { return now })

	require.True(t, service.MarkShown(ctx, "v1", exitintent.FrequencyDay, 0))

	now = now.Add(time.Duration(exitintent.DayMs) * time.Millisecond)
	assert.True(t, service.Decide(ctx, services.DecideRequest{VisitorID: "v1", Frequency: exitintent.FrequencyDay, Path: "/"}).Show)
}
