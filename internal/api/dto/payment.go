package dto

import (
	"context"
	"time"

	"github.com/servexhq/servex/internal/domain/payment"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/servexhq/servex/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a received payment, optionally against a
// specific invoice.
type CreatePaymentRequest struct {
	ClientID    string              `json:"client_id" validate:"required"`
	InvoiceID   *string             `json:"invoice_id,omitempty"`
	Amount      decimal.Decimal     `json:"amount"`
	PaymentDate time.Time           `json:"payment_date"`
	Method      types.PaymentMethod `json:"method" validate:"required"`
	Reference   string              `json:"reference,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return ierr.WithError(err).
			WithHint("client and payment method are required").
			Mark(ierr.ErrValidation)
	}

	if !r.Amount.IsPositive() {
		return ierr.NewError("invalid payment amount").
			WithHint("amount must be positive").
			WithReportableDetails(map[string]any{"amount": r.Amount}).
			Mark(ierr.ErrValidation)
	}

	return r.Method.Validate()
}

func (r *CreatePaymentRequest) ToPayment(ctx context.Context) *payment.Payment {
	p := &payment.Payment{
		ID:          types.GenerateUUIDWithPrefix(types.UUIDPrefixPayment),
		ClientID:    r.ClientID,
		InvoiceID:   r.InvoiceID,
		Amount:      r.Amount,
		PaymentDate: r.PaymentDate,
		Method:      r.Method,
		Reference:   r.Reference,
		Notes:       r.Notes,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now().UTC()
	}
	if p.Reference == "" {
		p.Reference = types.GenerateShortID()
	}
	return p
}

// PaymentResponse is the payment read model.
type PaymentResponse struct {
	*payment.Payment
	ClientName    string `json:"client_name,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}

func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{Payment: p}
}

// ListPaymentsResponse wraps a payment listing.
type ListPaymentsResponse struct {
	Items []*PaymentResponse `json:"items"`
	Total int                `json:"total"`
}
