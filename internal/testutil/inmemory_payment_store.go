package testutil

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/servexhq/servex/internal/domain/payment"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	out := *p
	if p.InvoiceID != nil {
		invoiceID := *p.InvoiceID
		out.InvoiceID = &invoiceID
	}
	return &out
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return fmt.Errorf("payment cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment not found").
			WithHintf("no payment found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyPayment(p), nil
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *payment.Filter) ([]*payment.Payment, error) {
	payments, err := s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, p *payment.Payment, f interface{}) bool {
			if p.TenantID != types.GetTenantID(ctx) {
				return false
			}
			filter, _ := f.(*payment.Filter)
			if filter == nil {
				return true
			}
			if filter.ClientID != "" && p.ClientID != filter.ClientID {
				return false
			}
			if filter.InvoiceID != "" && (p.InvoiceID == nil || *p.InvoiceID != filter.InvoiceID) {
				return false
			}
			return true
		},
		func(i, j *payment.Payment) bool {
			return i.PaymentDate.After(j.PaymentDate)
		})
	if err != nil {
		return nil, err
	}

	if filter != nil && filter.Limit > 0 && len(payments) > filter.Limit {
		payments = payments[:filter.Limit]
	}

	return lo.Map(payments, func(p *payment.Payment, _ int) *payment.Payment {
		return copyPayment(p)
	}), nil
}

func (s *InMemoryPaymentStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	return s.List(ctx, &payment.Filter{InvoiceID: invoiceID})
}

func (s *InMemoryPaymentStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("payment not found").
			WithHintf("no payment found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
