package invoice

import (
	"context"

	"github.com/servexhq/servex/internal/types"
)

// Filter narrows invoice listings.
type Filter struct {
	ClientID string
	TripID   string
	Statuses []types.InvoiceStatus
	Limit    int
}

// Repository persists invoices together with their line items and
// adjustments. Update replaces the full document and must enforce the
// version token: a stale Version fails with a version conflict.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, filter *Filter) ([]*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
	NextInvoiceNumber(ctx context.Context) (string, error)
}
