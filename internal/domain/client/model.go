package client

import (
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// Client is the billing view of a customer: contact details plus the
// terms that drive invoice due dates and default rating.
type Client struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone,omitempty"`
	Email            string          `json:"email,omitempty"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	DefaultCurrency  string          `json:"default_currency"`
	DefaultRate      decimal.Decimal `json:"default_rate"`
	types.BaseModel
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("client validation failed").
			WithHint("name is required").
			Mark(ierr.ErrValidation)
	}

	if c.PaymentTermsDays < 0 {
		return ierr.NewError("client validation failed").
			WithHint("payment terms must be non negative").
			Mark(ierr.ErrValidation)
	}

	if c.CreditLimit.IsNegative() || c.DefaultRate.IsNegative() {
		return ierr.NewError("client validation failed").
			WithHint("credit limit and default rate must be non negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}
