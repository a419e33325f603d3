package payment

import (
	"time"

	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// Payment is a single recorded receipt against a client, optionally tied
// to an invoice. Payments are immutable once created; corrections are
// made by deleting and re-recording.
type Payment struct {
	ID          string              `json:"id"`
	ClientID    string              `json:"client_id"`
	InvoiceID   *string             `json:"invoice_id,omitempty"`
	Amount      decimal.Decimal     `json:"amount"`
	Currency    string              `json:"currency"`
	PaymentDate time.Time           `json:"payment_date"`
	Method      types.PaymentMethod `json:"method"`
	Reference   string              `json:"reference,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	types.BaseModel
}

func (p *Payment) Validate() error {
	if p.ClientID == "" {
		return ierr.NewError("payment validation failed").
			WithHint("client is required").
			Mark(ierr.ErrValidation)
	}

	if !p.Amount.IsPositive() {
		return ierr.NewError("payment validation failed").
			WithHint("amount must be positive").
			WithReportableDetails(map[string]any{"amount": p.Amount}).
			Mark(ierr.ErrValidation)
	}

	return p.Method.Validate()
}

// TotalOf sums a set of payments. Used when re-deriving an invoice's paid
// amount after a payment is recorded or deleted.
func TotalOf(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
