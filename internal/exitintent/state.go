package exitintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// DefaultStorageKey is the key the prompt state lives under
const DefaultStorageKey = "firm-template:exit-intent"

var (
	// ErrNoStorage is returned when no storage backend is available
	ErrNoStorage = errors.New("exit intent storage unavailable")

	// ErrCorruptState is returned when stored state cannot be decoded
	ErrCorruptState = errors.New("exit intent state corrupt")
)

// Storage is a string key-value store shaped like browser storage.
// GetItem reports found=false for a missing key. Implementations may fail at any time.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

// State is what gets persisted between visits
type State struct {
	LastShownAt *int64 `json:"lastShownAt,omitempty"`
}

// storedState accepts any JSON number so fractional timestamps still decode
type storedState struct {
	LastShownAt *float64 `json:"lastShownAt"`
}

// LoadState reads and decodes the state. A missing key is not an error.
func LoadState(ctx context.Context, storage Storage, key string) (State, error) {
	if storage == nil {
		return State{}, ErrNoStorage
	}

	raw, found, err := storage.GetItem(ctx, key)
	if err != nil {
		return State{}, fmt.Errorf("get %s: %w", key, err)
	}
	if !found || raw == "" {
		return State{}, nil
	}

	var stored storedState
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if stored.LastShownAt == nil {
		return State{}, nil
	}
	if math.Abs(*stored.LastShownAt) > float64(MaxSafeInteger) {
		return State{}, fmt.Errorf("%w: lastShownAt out of range", ErrCorruptState)
	}

	lastShownAt := int64(*stored.LastShownAt)
	return State{LastShownAt: &lastShownAt}, nil
}

// SaveState encodes and stores the state
func SaveState(ctx context.Context, storage Storage, key string, state State) error {
	if storage == nil {
		return ErrNoStorage
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := storage.SetItem(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// ReadState is the fail-soft form of LoadState: any failure yields an empty state
func ReadState(ctx context.Context, storage Storage, key string) State {
	state, err := LoadState(ctx, storage, key)
	if err != nil {
		return State{}
	}
	return state
}

// WriteState is the fail-soft form of SaveState: it reports success instead of an error
func WriteState(ctx context.Context, storage Storage, key string, state State) bool {
	return SaveState(ctx, storage, key, state) == nil
}

// StorageSelector picks the backend for a frequency the way a browser picks
// sessionStorage for per-session prompts and localStorage otherwise.
type StorageSelector struct {
	Session Storage
	Durable Storage
}

// For returns the backend for f, or nil when that backend is not configured
func (s StorageSelector) For(f Frequency) Storage {
	if f == FrequencySession {
		return s.Session
	}
	return s.Durable
}
