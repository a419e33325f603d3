package settings

import "context"

// Repository persists the per-tenant settings document. Get returns the
// tenant defaults when no document has been saved yet.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
}
