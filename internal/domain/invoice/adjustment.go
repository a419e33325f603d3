package invoice

import (
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// Adjustment is a signed invoice-level modifier: a surcharge when
// IsAddition is set, otherwise a discount. Amount is always stored as a
// non-negative magnitude.
type Adjustment struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsAddition  bool            `json:"is_addition"`
	types.BaseModel
}

// SignedAmount returns the adjustment's contribution to the invoice
// total: +Amount for surcharges, -Amount for discounts.
func (a *Adjustment) SignedAmount() decimal.Decimal {
	if a.IsAddition {
		return a.Amount
	}
	return a.Amount.Neg()
}

func (a *Adjustment) Validate() error {
	if a.Description == "" {
		return ierr.NewError("adjustment validation failed").
			WithHint("description is required").
			Mark(ierr.ErrValidation)
	}

	if a.Amount.IsNegative() {
		return ierr.NewError("adjustment validation failed").
			WithHint("amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}
