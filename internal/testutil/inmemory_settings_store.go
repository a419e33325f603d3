package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/servexhq/servex/internal/domain/settings"
	"github.com/servexhq/servex/internal/types"
)

// InMemorySettingsStore implements settings.Repository. One document per
// tenant, with defaults served when nothing has been saved.
type InMemorySettingsStore struct {
	mu       sync.RWMutex
	byTenant map[string]*settings.Settings
}

// NewInMemorySettingsStore creates a new in-memory settings store
func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		byTenant: make(map[string]*settings.Settings),
	}
}

func copySettings(s *settings.Settings) *settings.Settings {
	if s == nil {
		return nil
	}
	out := *s
	out.Currencies = append([]settings.Currency(nil), s.Currencies...)
	return &out
}

func (s *InMemorySettingsStore) Get(ctx context.Context) (*settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantID := types.GetTenantID(ctx)
	if doc, ok := s.byTenant[tenantID]; ok {
		return copySettings(doc), nil
	}
	return settings.DefaultSettings(tenantID), nil
}

func (s *InMemorySettingsStore) Upsert(ctx context.Context, doc *settings.Settings) error {
	if doc == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTenant[types.GetTenantID(ctx)] = copySettings(doc)
	return nil
}

func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTenant = make(map[string]*settings.Settings)
}
