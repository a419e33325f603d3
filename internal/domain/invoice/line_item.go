package invoice

import (
	"github.com/servexhq/servex/internal/domain/billing"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// legacyQuantityCeiling is part of the heuristic for rows imported from
// the legacy system, where the quantity column sometimes holds a weight.
// A non-integral quantity, or one above this ceiling with no weight set,
// marks the row as legacy.
var legacyQuantityCeiling = decimal.NewFromInt(10)

// LineItem is a single billable row on an invoice.
//
// Structured items bill shipping weight (max of actual and volumetric)
// times rate. Legacy items predate parcel capture and bill quantity times
// rate. Kind is resolved once when the record is loaded, never re-derived
// in calculation or display code.
type LineItem struct {
	ID          string             `json:"id"`
	InvoiceID   string             `json:"invoice_id"`
	ShipmentID  *string            `json:"shipment_id,omitempty"`
	Description string             `json:"description"`
	Kind        types.LineItemKind `json:"kind"`
	Quantity    decimal.Decimal    `json:"quantity"`
	Weight      decimal.Decimal    `json:"weight_kg"`
	Dimensions  billing.Dimensions `json:"dimensions"`
	Rate        decimal.Decimal    `json:"rate"`
	Amount      decimal.Decimal    `json:"amount"`
	types.BaseModel
}

// ShippingWeight returns the chargeable weight for the item. Legacy items
// have no chargeable weight.
func (li *LineItem) ShippingWeight() (decimal.Decimal, error) {
	if li.Kind == types.LineItemKindLegacy {
		return decimal.Zero, nil
	}
	return billing.ShippingWeight(li.Weight, li.Dimensions)
}

// ComputeAmount re-derives Amount from the item's current rate. This is
// the only path that writes Amount: editing weight or dimensions does not
// implicitly re-bill an item, since parcels are immutable once created.
func (li *LineItem) ComputeAmount() error {
	if li.Kind == types.LineItemKindLegacy {
		amount, err := billing.LegacyAmount(li.Quantity, li.Rate)
		if err != nil {
			return err
		}
		li.Amount = amount
		return nil
	}

	shippingWeight, err := li.ShippingWeight()
	if err != nil {
		return err
	}
	amount, err := billing.Amount(shippingWeight, li.Rate)
	if err != nil {
		return err
	}
	li.Amount = amount
	return nil
}

// SetRate updates the rate and re-derives the amount. Idempotent under
// repeated identical rate sets.
func (li *LineItem) SetRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ierr.NewError("invalid rate").
			WithHint("rate must be non negative").
			Mark(ierr.ErrValidation)
	}
	li.Rate = rate
	return li.ComputeAmount()
}

func (li *LineItem) Validate() error {
	if li.Description == "" {
		return ierr.NewError("line item validation failed").
			WithHint("description is required").
			Mark(ierr.ErrValidation)
	}

	if li.Quantity.IsNegative() {
		return ierr.NewError("line item validation failed").
			WithHint("quantity must be non negative").
			Mark(ierr.ErrValidation)
	}

	if li.Weight.IsNegative() {
		return ierr.NewError("line item validation failed").
			WithHint("weight must be non negative").
			Mark(ierr.ErrValidation)
	}

	if li.Rate.IsNegative() {
		return ierr.NewError("line item validation failed").
			WithHint("rate must be non negative").
			Mark(ierr.ErrValidation)
	}

	if err := li.Dimensions.Validate(); err != nil {
		return err
	}

	if li.Amount.IsNegative() {
		return ierr.NewError("line item validation failed").
			WithHint("amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// NormalizeKind resolves the item's Kind once at load time. Rows with a
// captured weight or a measured parcel are structured; rows with neither
// predate parcel capture and bill by quantity.
func (li *LineItem) NormalizeKind() {
	if li.Kind != "" {
		return
	}

	if li.Weight.IsPositive() || li.Dimensions.Measured() {
		li.Kind = types.LineItemKindStructured
		return
	}

	li.Kind = types.LineItemKindLegacy
}

// LegacyWeight returns the weight a legacy row's quantity column encodes,
// when it looks like one (non-integral, or above the ceiling). Zero when
// the quantity is a plain piece count. Used only for weight reporting;
// billing never re-runs this heuristic.
func (li *LineItem) LegacyWeight() decimal.Decimal {
	if li.Kind != types.LineItemKindLegacy {
		return decimal.Zero
	}
	if !li.Quantity.IsInteger() || li.Quantity.GreaterThan(legacyQuantityCeiling) {
		return li.Quantity
	}
	return decimal.Zero
}
