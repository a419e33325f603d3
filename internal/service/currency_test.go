package service

import (
	"testing"

	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/domain/settings"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CurrencyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service         CurrencyService
	settingsService SettingsService
}

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceSuite))
}

func (s *CurrencyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		ClientRepo:   s.GetStores().ClientRepo,
		TripRepo:     s.GetStores().TripRepo,
		SettingsRepo: s.GetStores().SettingsRepo,
	}
	s.service = NewCurrencyService(params)
	s.settingsService = NewSettingsService(params)
}

func (s *CurrencyServiceSuite) TestToDisplay() {
	resp, err := s.service.ToDisplay(s.GetContext(), dto.ConvertAmountRequest{
		Amount:   decimal.NewFromInt(1000),
		Currency: "KES",
	})
	s.Require().NoError(err)

	s.True(decimal.NewFromInt(6670).Equal(resp.Converted), "converted %s", resp.Converted)
	s.True(decimal.NewFromFloat(6.67).Equal(resp.Rate))
}

func (s *CurrencyServiceSuite) TestToCanonical() {
	resp, err := s.service.ToCanonical(s.GetContext(), dto.ConvertAmountRequest{
		Amount:   decimal.NewFromInt(6670),
		Currency: "KES",
	})
	s.Require().NoError(err)

	s.True(decimal.NewFromInt(1000).Equal(resp.Converted), "converted %s", resp.Converted)
}

func (s *CurrencyServiceSuite) TestUnknownCurrency() {
	_, err := s.service.ToDisplay(s.GetContext(), dto.ConvertAmountRequest{
		Amount:   decimal.NewFromInt(100),
		Currency: "USD",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

// A rate edit between two conversions must be visible on the second
// call; nothing is cached across operations.
func (s *CurrencyServiceSuite) TestRateChangeVisibleImmediately() {
	before, err := s.service.ToDisplay(s.GetContext(), dto.ConvertAmountRequest{
		Amount:   decimal.NewFromInt(1000),
		Currency: "KES",
	})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(6670).Equal(before.Converted))

	_, err = s.settingsService.UpdateCurrencySettings(s.GetContext(), dto.UpdateCurrencySettingsRequest{
		Currencies: []settings.Currency{
			{Code: "ZAR", Name: "South African Rand", Symbol: "R", ExchangeRate: decimal.NewFromInt(1)},
			{Code: "KES", Name: "Kenyan Shilling", Symbol: "KES", ExchangeRate: decimal.NewFromInt(7)},
		},
	})
	s.Require().NoError(err)

	after, err := s.service.ToDisplay(s.GetContext(), dto.ConvertAmountRequest{
		Amount:   decimal.NewFromInt(1000),
		Currency: "KES",
	})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(7000).Equal(after.Converted), "converted %s", after.Converted)
}

func (s *CurrencyServiceSuite) TestUpdateRequiresCanonicalRow() {
	_, err := s.settingsService.UpdateCurrencySettings(s.GetContext(), dto.UpdateCurrencySettingsRequest{
		Currencies: []settings.Currency{
			{Code: "KES", Name: "Kenyan Shilling", ExchangeRate: decimal.NewFromFloat(6.67)},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
