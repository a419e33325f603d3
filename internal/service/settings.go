package service

import (
	"context"
	"time"

	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/types"
)

// SettingsService manages the tenant billing settings document.
type SettingsService interface {
	GetCurrencySettings(ctx context.Context) (*dto.CurrencySettingsResponse, error)
	UpdateCurrencySettings(ctx context.Context, req dto.UpdateCurrencySettingsRequest) (*dto.CurrencySettingsResponse, error)
}

type settingsService struct {
	ServiceParams
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{ServiceParams: params}
}

func (s *settingsService) GetCurrencySettings(ctx context.Context) (*dto.CurrencySettingsResponse, error) {
	cfg, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewCurrencySettingsResponse(cfg), nil
}

func (s *settingsService) UpdateCurrencySettings(ctx context.Context, req dto.UpdateCurrencySettingsRequest) (*dto.CurrencySettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	cfg.Currencies = req.Currencies
	if req.DefaultRate != nil {
		cfg.DefaultRate = *req.DefaultRate
	}
	cfg.UpdatedAt = time.Now().UTC()
	cfg.UpdatedBy = types.GetUserID(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := s.SettingsRepo.Upsert(ctx, cfg); err != nil {
		s.Logger.Errorw("failed to update currency settings", "error", err)
		return nil, err
	}

	s.Logger.Infow("updated currency settings",
		"currencies", len(cfg.Currencies))
	return dto.NewCurrencySettingsResponse(cfg), nil
}
