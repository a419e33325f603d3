package service

import (
	"context"
	"time"

	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// CurrencyService projects canonical-currency amounts into display
// currencies. The rate table is mutable tenant state, so every call
// takes a fresh snapshot; nothing is cached across calls.
type CurrencyService interface {
	ToDisplay(ctx context.Context, req dto.ConvertAmountRequest) (*dto.ConvertAmountResponse, error)
	ToCanonical(ctx context.Context, req dto.ConvertAmountRequest) (*dto.ConvertAmountResponse, error)
	Snapshot(ctx context.Context) (settings.RateSnapshot, error)
}

type currencyService struct {
	ServiceParams
}

func NewCurrencyService(params ServiceParams) CurrencyService {
	return &currencyService{ServiceParams: params}
}

// Snapshot fetches the tenant's current rate table.
func (s *currencyService) Snapshot(ctx context.Context) (settings.RateSnapshot, error) {
	cfg, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return settings.RateSnapshot{}, err
	}
	return cfg.Snapshot(), nil
}

func (s *currencyService) ToDisplay(ctx context.Context, req dto.ConvertAmountRequest) (*dto.ConvertAmountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	converted, err := snapshot.ToDisplay(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	return s.response(req, snapshot, converted)
}

func (s *currencyService) ToCanonical(ctx context.Context, req dto.ConvertAmountRequest) (*dto.ConvertAmountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	converted, err := snapshot.ToCanonical(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	return s.response(req, snapshot, converted)
}

func (s *currencyService) response(req dto.ConvertAmountRequest, snapshot settings.RateSnapshot, converted decimal.Decimal) (*dto.ConvertAmountResponse, error) {
	rate, err := snapshot.Rate(req.Currency)
	if err != nil {
		return nil, err
	}

	return &dto.ConvertAmountResponse{
		Amount:    req.Amount,
		Currency:  req.Currency,
		Converted: converted,
		Rate:      rate,
		AsOf:      time.Now().UTC(),
	}, nil
}
