package dto

import (
	"github.com/servexhq/servex/internal/domain/settings"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/validator"
	"github.com/shopspring/decimal"
)

// UpdateCurrencySettingsRequest replaces the tenant currency table and
// default rate.
type UpdateCurrencySettingsRequest struct {
	Currencies  []settings.Currency `json:"currencies" validate:"required,min=1"`
	DefaultRate *decimal.Decimal    `json:"default_rate,omitempty"`
}

func (r *UpdateCurrencySettingsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return ierr.WithError(err).
			WithHint("at least one currency is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CurrencySettingsResponse is the settings read model.
type CurrencySettingsResponse struct {
	Currencies  []settings.Currency `json:"currencies"`
	DefaultRate decimal.Decimal     `json:"default_rate"`
}

func NewCurrencySettingsResponse(s *settings.Settings) *CurrencySettingsResponse {
	return &CurrencySettingsResponse{
		Currencies:  s.Currencies,
		DefaultRate: s.DefaultRate,
	}
}
