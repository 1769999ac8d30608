// Package storage keeps form drafts between sessions. Values are stored as
// JSON documents under a caller-chosen key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/form"
)

// ErrNotFound is returned when no draft is stored under a key.
var ErrNotFound = errors.New("storage: key not found")

// Store persists encoded drafts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Save encodes values and writes them under key.
func Save(ctx context.Context, store Store, key string, values form.Values) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	return store.Set(ctx, key, data)
}

// Load reads the draft stored under key.
func Load(ctx context.Context, store Store, key string) (form.Values, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	values := form.Values{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return values, nil
}

// Restore returns the stored draft for key, falling back to defaults when
// nothing is stored. Stored fields override defaults.
func Restore(ctx context.Context, store Store, key string, defaults form.Values) (form.Values, error) {
	values, err := Load(ctx, store, key)
	if errors.Is(err, ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}
	merged := make(form.Values, len(defaults)+len(values))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	return merged, nil
}

// Persist returns a listener that saves the controller values under key on
// every change. Write failures go to logger when it is non-nil.
func Persist(store Store, key string, logger form.Logger) form.Listener {
	return func(state form.State) {
		if err := Save(context.Background(), store, key, state.Values); err != nil && logger != nil {
			logger.Printf("storage: persist %q: %v", key, err)
		}
	}
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Set(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
