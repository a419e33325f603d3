package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/servexhq/servex/internal/domain/invoice"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	mu  sync.Mutex
	seq int
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// copyInvoice deep-copies the aggregate so callers cannot mutate stored
// state through returned pointers.
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}

	out := *inv
	out.TripID = copyPtr(inv.TripID)
	out.SentAt = copyPtr(inv.SentAt)
	out.SentBy = copyPtr(inv.SentBy)
	out.PaidAt = copyPtr(inv.PaidAt)

	out.LineItems = make([]*invoice.LineItem, len(inv.LineItems))
	for i, li := range inv.LineItems {
		liCopy := *li
		liCopy.ShipmentID = copyPtr(li.ShipmentID)
		out.LineItems[i] = &liCopy
	}

	out.Adjustments = make([]*invoice.Adjustment, len(inv.Adjustments))
	for i, adj := range inv.Adjustments {
		adjCopy := *adj
		out.Adjustments[i] = &adjCopy
	}

	return &out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("no invoice found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *invoice.Filter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, inv *invoice.Invoice, f interface{}) bool {
			if inv.TenantID != types.GetTenantID(ctx) {
				return false
			}
			filter, _ := f.(*invoice.Filter)
			if filter == nil {
				return true
			}
			if filter.ClientID != "" && inv.ClientID != filter.ClientID {
				return false
			}
			if filter.TripID != "" && (inv.TripID == nil || *inv.TripID != filter.TripID) {
				return false
			}
			if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, inv.InvoiceStatus) {
				return false
			}
			return true
		},
		func(i, j *invoice.Invoice) bool {
			return i.CreatedAt.After(j.CreatedAt)
		})
	if err != nil {
		return nil, err
	}

	if filter != nil && filter.Limit > 0 && len(invoices) > filter.Limit {
		invoices = invoices[:filter.Limit]
	}

	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

// Update enforces the same version predicate as the SQL repository: the
// incoming invoice carries the already-bumped version and must be exactly
// one ahead of the stored row.
func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}

	existing, err := s.InMemoryStore.Get(ctx, inv.ID)
	if err != nil {
		return ierr.NewError("invoice not found").
			WithHintf("no invoice found with id %s", inv.ID).
			Mark(ierr.ErrNotFound)
	}

	if inv.Version != existing.Version+1 {
		return ierr.NewError("invoice was modified concurrently").
			WithHint("reload the invoice and retry").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrVersionConflict)
	}

	return s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("invoice not found").
			WithHintf("no invoice found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryInvoiceStore) NextInvoiceNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("INV-TEST-%05d", s.seq), nil
}
