package dto

import (
	"context"
	"time"

	"github.com/servexhq/servex/internal/domain/billing"
	"github.com/servexhq/servex/internal/domain/invoice"
	"github.com/servexhq/servex/internal/domain/payment"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/servexhq/servex/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateLineItemRequest is one billable row on an invoice create or
// item-add call. Rate is optional; the tenant default rate applies when
// it is absent.
type CreateLineItemRequest struct {
	ShipmentID  *string          `json:"shipment_id,omitempty"`
	Description string           `json:"description" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Weight      decimal.Decimal  `json:"weight_kg"`
	LengthCm    decimal.Decimal  `json:"length_cm"`
	WidthCm     decimal.Decimal  `json:"width_cm"`
	HeightCm    decimal.Decimal  `json:"height_cm"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
}

func (r *CreateLineItemRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return ierr.WithError(err).
			WithHint("invalid line item").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToLineItem converts the request to a domain line item. The amount is
// left unset; the service derives it after resolving the rate.
func (r *CreateLineItemRequest) ToLineItem(ctx context.Context, invoiceID string) *invoice.LineItem {
	li := &invoice.LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUIDPrefixInvoiceLineItem),
		InvoiceID:   invoiceID,
		ShipmentID:  r.ShipmentID,
		Description: r.Description,
		Quantity:    r.Quantity,
		Weight:      r.Weight,
		Dimensions: billing.Dimensions{
			Length: r.LengthCm,
			Width:  r.WidthCm,
			Height: r.HeightCm,
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if r.Rate != nil {
		li.Rate = *r.Rate
	}
	li.NormalizeKind()
	return li
}

// CreateAdjustmentRequest is a surcharge or discount on an invoice.
type CreateAdjustmentRequest struct {
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	IsAddition  bool            `json:"is_addition"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return ierr.WithError(err).
			WithHint("invalid adjustment").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateAdjustmentRequest) ToAdjustment(ctx context.Context, invoiceID string) *invoice.Adjustment {
	return &invoice.Adjustment{
		ID:          types.GenerateUUIDWithPrefix(types.UUIDPrefixAdjustment),
		InvoiceID:   invoiceID,
		Description: r.Description,
		Amount:      r.Amount,
		IsAddition:  r.IsAddition,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// CreateInvoiceRequest creates a draft invoice. ExpectedTotal, when set,
// is the client-side preview total and must match the server computation
// within tolerance or the save is rejected.
type CreateInvoiceRequest struct {
	ClientID      string                     `json:"client_id" validate:"required"`
	TripID        *string                    `json:"trip_id,omitempty"`
	Currency      string                     `json:"currency,omitempty"`
	LineItems     []*CreateLineItemRequest   `json:"line_items" validate:"required,min=1,dive"`
	Adjustments   []*CreateAdjustmentRequest `json:"adjustments,omitempty"`
	ExpectedTotal *decimal.Decimal           `json:"expected_total,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return ierr.WithError(err).
			WithHint("client and at least one line item are required").
			Mark(ierr.ErrValidation)
	}
	for _, li := range r.LineItems {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	for _, adj := range r.Adjustments {
		if err := adj.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateInvoiceRequest finalizes or re-states an invoice. Version must
// carry the version the caller read; a stale version fails the update.
type UpdateInvoiceRequest struct {
	Status        *types.InvoiceStatus `json:"status,omitempty"`
	ExpectedTotal *decimal.Decimal     `json:"expected_total,omitempty"`
	Version       int                  `json:"version"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if r.Status != nil {
		return r.Status.Validate()
	}
	return nil
}

// SetLineItemRateRequest updates a line item's rate, which re-derives
// its amount and the invoice totals.
type SetLineItemRateRequest struct {
	Rate    decimal.Decimal `json:"rate"`
	Version int             `json:"version"`
}

// InvoiceResponse is the invoice read model, including the derived
// payment figures the presentation layer consumes.
type InvoiceResponse struct {
	*invoice.Invoice
	TotalPaid   decimal.Decimal    `json:"total_paid"`
	Outstanding decimal.Decimal    `json:"outstanding"`
	Payments    []*payment.Payment `json:"payments,omitempty"`
	ClientName  string             `json:"client_name,omitempty"`
}

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice:     inv,
		TotalPaid:   inv.AmountPaid,
		Outstanding: inv.Outstanding(),
	}
}

// ListInvoicesResponse wraps an invoice listing.
type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}

// ConvertAmountRequest projects a canonical amount into a display
// currency using the tenant's current rate table.
type ConvertAmountRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"required"`
}

func (r *ConvertAmountRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return ierr.WithError(err).
			WithHint("currency is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ConvertAmountResponse carries both directions of a projection so the
// UI can render either side.
type ConvertAmountResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Converted decimal.Decimal `json:"converted"`
	Rate      decimal.Decimal `json:"rate"`
	AsOf      time.Time       `json:"as_of"`
}
