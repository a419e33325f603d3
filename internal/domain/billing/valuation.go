package billing

import (
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// Dimensions are parcel measurements in centimeters. A zero or missing
// dimension means the parcel was not measured, which disables volumetric
// billing for the item.
type Dimensions struct {
	Length decimal.Decimal `json:"length_cm"`
	Width  decimal.Decimal `json:"width_cm"`
	Height decimal.Decimal `json:"height_cm"`
}

// Validate rejects negative measurements. Zero is allowed and means
// unmeasured.
func (d Dimensions) Validate() error {
	if d.Length.IsNegative() || d.Width.IsNegative() || d.Height.IsNegative() {
		return ierr.NewError("invalid parcel dimensions").
			WithHint("dimensions must be non negative").
			WithReportableDetails(map[string]any{
				"length_cm": d.Length,
				"width_cm":  d.Width,
				"height_cm": d.Height,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Measured reports whether all three dimensions are present.
func (d Dimensions) Measured() bool {
	return d.Length.IsPositive() && d.Width.IsPositive() && d.Height.IsPositive()
}

// VolumetricWeight returns the size-based proxy weight in kg,
// L x W x H / 5000. Unmeasured parcels are not volumetrically chargeable
// and return zero.
func VolumetricWeight(d Dimensions) decimal.Decimal {
	if !d.Measured() {
		return decimal.Zero
	}
	return d.Length.Mul(d.Width).Mul(d.Height).Div(types.VolumetricDivisor)
}

// ShippingWeight returns the chargeable weight for a parcel: the greater
// of actual and volumetric weight.
func ShippingWeight(actualWeight decimal.Decimal, d Dimensions) (decimal.Decimal, error) {
	if actualWeight.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid parcel weight").
			WithHint("weight must be non negative").
			WithReportableDetails(map[string]any{"weight_kg": actualWeight}).
			Mark(ierr.ErrValidation)
	}
	if err := d.Validate(); err != nil {
		return decimal.Zero, err
	}

	volumetric := VolumetricWeight(d)
	if actualWeight.GreaterThanOrEqual(volumetric) {
		return actualWeight, nil
	}
	return volumetric, nil
}

// Amount returns the billable amount for a chargeable weight at the given
// per-kg rate.
func Amount(shippingWeight, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid rate").
			WithHint("rate must be non negative").
			WithReportableDetails(map[string]any{"rate": rate}).
			Mark(ierr.ErrValidation)
	}
	return shippingWeight.Mul(rate), nil
}

// LegacyAmount bills a legacy line item, where no weight was captured and
// the quantity column carries the billable units.
func LegacyAmount(quantity, rate decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid quantity").
			WithHint("quantity must be non negative").
			WithReportableDetails(map[string]any{"quantity": quantity}).
			Mark(ierr.ErrValidation)
	}
	return Amount(quantity, rate)
}
