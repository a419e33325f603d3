package payment

import "context"

// Filter narrows payment listings.
type Filter struct {
	ClientID  string
	InvoiceID string
	Limit     int
}

// Repository persists payments. Payments are append-only apart from
// Delete, which exists for owner corrections.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, filter *Filter) ([]*Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Payment, error)
	Delete(ctx context.Context, id string) error
}
