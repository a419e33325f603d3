package settings

import (
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// Currency is one entry in a tenant's currency table. ExchangeRate is
// expressed relative to the canonical currency (one canonical unit buys
// ExchangeRate units of this currency); the canonical row carries rate 1.
type Currency struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// Settings is the tenant billing settings document: the mutable currency
// table plus the default per-kg rate applied to line items that arrive
// without one.
type Settings struct {
	ID          string          `json:"id"`
	Currencies  []Currency      `json:"currencies"`
	DefaultRate decimal.Decimal `json:"default_rate"`
	types.BaseModel
}

func (s *Settings) Validate() error {
	if len(s.Currencies) == 0 {
		return ierr.NewError("settings validation failed").
			WithHint("at least one currency is required").
			Mark(ierr.ErrValidation)
	}

	canonical := 0
	for _, c := range s.Currencies {
		if c.Code == "" {
			return ierr.NewError("settings validation failed").
				WithHint("currency code is required").
				Mark(ierr.ErrValidation)
		}
		if !c.ExchangeRate.IsPositive() {
			return ierr.NewError("settings validation failed").
				WithHintf("exchange rate for %s must be positive", c.Code).
				Mark(ierr.ErrValidation)
		}
		if c.ExchangeRate.Equal(decimal.NewFromInt(1)) {
			canonical++
		}
	}

	if canonical == 0 {
		return ierr.NewError("settings validation failed").
			WithHint("the canonical currency must be present with rate 1").
			Mark(ierr.ErrValidation)
	}

	if s.DefaultRate.IsNegative() {
		return ierr.NewError("settings validation failed").
			WithHint("default rate must be non negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// DefaultSettings returns the settings a tenant starts with before any
// owner edits: canonical ZAR plus the secondary KES rate.
func DefaultSettings(tenantID string) *Settings {
	return &Settings{
		ID: types.GenerateUUIDWithPrefix(types.UUIDPrefixSetting),
		Currencies: []Currency{
			{Code: "ZAR", Name: "South African Rand", Symbol: "R", ExchangeRate: decimal.NewFromInt(1)},
			{Code: "KES", Name: "Kenyan Shilling", Symbol: "KES", ExchangeRate: decimal.NewFromFloat(6.67)},
		},
		DefaultRate: decimal.Zero,
		BaseModel: types.BaseModel{
			TenantID: tenantID,
			Status:   types.StatusActive,
		},
	}
}
