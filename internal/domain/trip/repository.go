package trip

import "context"

// Repository supplies trip records for finance reporting.
type Repository interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id string) (*Trip, error)
	ListRecent(ctx context.Context, limit int) ([]*Trip, error)
}
