package service

import (
	"testing"
	"time"

	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/domain/client"
	"github.com/servexhq/servex/internal/domain/trip"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/testutil"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type FinanceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        FinanceService
	invoiceService InvoiceService
	paymentService PaymentService
	testData       struct {
		client *client.Client
		trip   *trip.Trip
	}
}

func TestFinanceService(t *testing.T) {
	suite.Run(t, new(FinanceServiceSuite))
}

func (s *FinanceServiceSuite) SetupTest() {
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
	s.service = NewFinanceService(params)
	s.invoiceService = NewInvoiceService(params)
	s.paymentService = NewPaymentService(params)

	s.testData.client = &client.Client{
		ID:          "cli_finance",
		Name:        "Kampala Imports",
		DefaultRate: decimal.NewFromInt(36),
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))

	s.testData.trip = &trip.Trip{
		ID:            "trip_finance",
		TripNumber:    "TR-042",
		DepartureDate: time.Now().UTC().AddDate(0, 0, -3),
		Route:         []string{"Johannesburg", "Nairobi"},
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().TripRepo.Create(s.GetContext(), s.testData.trip))
}

// createSentInvoice creates a 900-total invoice assigned to the test trip
// and moves it to sent.
func (s *FinanceServiceSuite) createSentInvoice() *dto.InvoiceResponse {
	resp, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
		TripID:   &s.testData.trip.ID,
		LineItems: []*dto.CreateLineItemRequest{
			{Description: "Parcel", Weight: decimal.NewFromInt(25)},
		},
	})
	s.Require().NoError(err)

	sent := types.InvoiceStatusSent
	resp, err = s.invoiceService.UpdateInvoice(s.GetContext(), resp.ID, dto.UpdateInvoiceRequest{
		Status:  &sent,
		Version: resp.Version,
	})
	s.Require().NoError(err)
	return resp
}

func (s *FinanceServiceSuite) TestClientStatements() {
	inv := s.createSentInvoice()

	_, err := s.paymentService.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID:  s.testData.client.ID,
		InvoiceID: &inv.ID,
		Amount:    decimal.NewFromInt(300),
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	resp, err := s.service.ClientStatements(s.GetContext())
	s.Require().NoError(err)

	s.Require().Len(resp.Statements, 1)
	stmt := resp.Statements[0]
	s.Equal("Kampala Imports", stmt.ClientName)
	s.True(decimal.NewFromInt(600).Equal(stmt.TotalOutstanding))
	s.True(decimal.NewFromInt(600).Equal(stmt.TripAmounts["TR-042"]))
	s.False(stmt.HasOverdue)

	s.Contains(resp.TripColumns, "TR-042")
	s.True(decimal.NewFromInt(600).Equal(resp.Summary.TotalOutstanding))
	s.Equal(1, resp.Summary.ClientsWithDebt)
}

func (s *FinanceServiceSuite) TestClientStatementsSkipSettled() {
	inv := s.createSentInvoice()

	_, err := s.paymentService.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID:  s.testData.client.ID,
		InvoiceID: &inv.ID,
		Amount:    decimal.NewFromInt(900),
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	resp, err := s.service.ClientStatements(s.GetContext())
	s.Require().NoError(err)
	s.Empty(resp.Statements)
	s.True(resp.Summary.TotalOutstanding.IsZero())
}

func (s *FinanceServiceSuite) TestClientStatementInvoices() {
	s.createSentInvoice()

	result, err := s.service.ClientStatementInvoices(s.GetContext(), s.testData.client.ID)
	s.Require().NoError(err)

	s.Require().Len(result, 1)
	s.Equal("TR-042", result[0].TripNumber)
	s.True(decimal.NewFromInt(900).Equal(result[0].Outstanding))

	_, err = s.service.ClientStatementInvoices(s.GetContext(), "cli_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *FinanceServiceSuite) TestTripWorksheet() {
	inv := s.createSentInvoice()

	_, err := s.paymentService.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID:  s.testData.client.ID,
		InvoiceID: &inv.ID,
		Amount:    decimal.NewFromInt(300),
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	resp, err := s.service.TripWorksheet(s.GetContext(), s.testData.trip.ID)
	s.Require().NoError(err)

	s.Equal("TR-042", resp.TripNumber)
	s.Require().Len(resp.Rows, 1)

	row := resp.Rows[0]
	s.Equal("Kampala Imports", row.ClientName)
	s.True(decimal.NewFromInt(25).Equal(row.WeightKg))
	s.True(decimal.NewFromInt(900).Equal(row.Total))
	s.True(decimal.NewFromInt(300).Equal(row.PaidAmount))
	s.True(decimal.NewFromInt(600).Equal(row.Outstanding))

	s.True(decimal.NewFromInt(25).Equal(resp.TotalWeight))
	s.True(decimal.NewFromInt(900).Equal(resp.TotalBilled))
	s.True(decimal.NewFromInt(300).Equal(resp.TotalPaid))
	s.True(decimal.NewFromInt(600).Equal(resp.TotalOwed))
}

func (s *FinanceServiceSuite) TestSummary() {
	inv := s.createSentInvoice()

	_, err := s.paymentService.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID:  s.testData.client.ID,
		InvoiceID: &inv.ID,
		Amount:    decimal.NewFromInt(300),
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	resp, err := s.service.Summary(s.GetContext())
	s.Require().NoError(err)

	s.True(decimal.NewFromInt(900).Equal(resp.PartialTotal))
	s.True(decimal.NewFromInt(300).Equal(resp.TotalReceived))
	s.True(decimal.NewFromInt(600).Equal(resp.TotalOwed))
	s.True(resp.SentTotal.IsZero())
	s.True(resp.PaidTotal.IsZero())
}

func (s *FinanceServiceSuite) TestSummaryCountsPastDueDraftAsOverdue() {
	resp, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
		LineItems: []*dto.CreateLineItemRequest{
			{Description: "Parcel", Weight: decimal.NewFromInt(25)},
		},
	})
	s.Require().NoError(err)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	inv.DueDate = time.Now().UTC().AddDate(0, 0, -7)
	inv.Version = resp.Version + 1
	s.Require().NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	summary, err := s.service.Summary(s.GetContext())
	s.Require().NoError(err)

	s.True(summary.DraftTotal.IsZero(), "draft total %s", summary.DraftTotal)
	s.True(decimal.NewFromInt(900).Equal(summary.OverdueTotal), "overdue total %s", summary.OverdueTotal)
}
