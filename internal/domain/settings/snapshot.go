package settings

import (
	"strings"

	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/shopspring/decimal"
)

// RateSnapshot is an immutable view of a tenant's exchange-rate table,
// taken once per operation. The table itself is mutable tenant state;
// conversions always work from a snapshot passed in explicitly so a rate
// change between two views is never hidden by a cached value.
type RateSnapshot struct {
	rates map[string]decimal.Decimal
}

// Snapshot captures the current currency table.
func (s *Settings) Snapshot() RateSnapshot {
	rates := make(map[string]decimal.Decimal, len(s.Currencies))
	for _, c := range s.Currencies {
		rates[strings.ToUpper(c.Code)] = c.ExchangeRate
	}
	return RateSnapshot{rates: rates}
}

// NewRateSnapshot builds a snapshot from a plain rate table. Used by
// tests and callers that already hold the rates.
func NewRateSnapshot(rates map[string]decimal.Decimal) RateSnapshot {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return RateSnapshot{rates: normalized}
}

// ToDisplay projects a canonical-currency amount into a display
// currency.
func (rs RateSnapshot) ToDisplay(canonicalAmount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, err := rs.Rate(code)
	if err != nil {
		return decimal.Zero, err
	}
	return canonicalAmount.Mul(rate), nil
}

// ToCanonical is the inverse of ToDisplay.
func (rs RateSnapshot) ToCanonical(displayAmount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, err := rs.Rate(code)
	if err != nil {
		return decimal.Zero, err
	}
	return displayAmount.Div(rate), nil
}

// Rate returns the exchange rate for a currency code.
func (rs RateSnapshot) Rate(code string) (decimal.Decimal, error) {
	rate, ok := rs.rates[strings.ToUpper(code)]
	if !ok {
		return decimal.Zero, ierr.NewError("unknown currency").
			WithHintf("no exchange rate configured for %s", code).
			WithReportableDetails(map[string]any{"currency": code}).
			Mark(ierr.ErrValidation)
	}
	if !rate.IsPositive() {
		return decimal.Zero, ierr.NewError("invalid exchange rate").
			WithHintf("exchange rate for %s must be positive", code).
			Mark(ierr.ErrValidation)
	}
	return rate, nil
}
