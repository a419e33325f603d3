package service

import (
	"testing"
	"time"

	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/domain/client"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/testutil"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        PaymentService
	invoiceService InvoiceService
	testData       struct {
		client  *client.Client
		invoice *dto.InvoiceResponse
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupServices()
	s.setupTestData()
}

func (s *PaymentServiceSuite) params() ServiceParams {
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		ClientRepo:   s.GetStores().ClientRepo,
		TripRepo:     s.GetStores().TripRepo,
		SettingsRepo: s.GetStores().SettingsRepo,
	}
}

func (s *PaymentServiceSuite) setupServices() {
	s.service = NewPaymentService(s.params())
	s.invoiceService = NewInvoiceService(s.params())
}

func (s *PaymentServiceSuite) setupTestData() {
	s.testData.client = &client.Client{
		ID:              "cli_test_payment",
		Name:            "Mombasa Freight",
		DefaultCurrency: "ZAR",
		DefaultRate:     decimal.NewFromInt(36),
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))

	resp, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
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

	// 25kg at 36/kg
	s.Require().True(decimal.NewFromInt(900).Equal(resp.Total))
	s.testData.invoice = resp
}

func (s *PaymentServiceSuite) recordPayment(amount decimal.Decimal) *dto.PaymentResponse {
	resp, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID:  s.testData.client.ID,
		InvoiceID: &s.testData.invoice.ID,
		Amount:    amount,
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)
	return resp
}

func (s *PaymentServiceSuite) getInvoice() *dto.InvoiceResponse {
	resp, err := s.invoiceService.GetInvoice(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)
	return resp
}

func (s *PaymentServiceSuite) TestPartialPayment() {
	s.recordPayment(decimal.NewFromInt(300))

	inv := s.getInvoice()
	s.Equal(types.InvoiceStatusPartial, inv.InvoiceStatus)
	s.True(decimal.NewFromInt(300).Equal(inv.TotalPaid))
	s.True(decimal.NewFromInt(600).Equal(inv.Outstanding))
	s.Nil(inv.PaidAt)
}

func (s *PaymentServiceSuite) TestFullPayment() {
	s.recordPayment(decimal.NewFromInt(900))

	inv := s.getInvoice()
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.True(inv.Outstanding.IsZero())
	s.NotNil(inv.PaidAt)
}

func (s *PaymentServiceSuite) TestAccumulatedPayments() {
	s.recordPayment(decimal.NewFromInt(400))
	s.recordPayment(decimal.NewFromInt(500))

	inv := s.getInvoice()
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.True(decimal.NewFromInt(900).Equal(inv.TotalPaid))
}

func (s *PaymentServiceSuite) TestOverpaymentAllowedByDefault() {
	s.recordPayment(decimal.NewFromInt(1200))

	inv := s.getInvoice()
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.True(decimal.NewFromInt(1200).Equal(inv.TotalPaid))
	// outstanding clamps at zero
	s.True(inv.Outstanding.IsZero())
}

func (s *PaymentServiceSuite) TestOverpaymentRejectPolicy() {
	cfg := s.GetConfig()
	cfg.Billing.OverpaymentPolicy = types.OverpaymentPolicyReject
	s.service = NewPaymentService(s.params())

	_, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID:  s.testData.client.ID,
		InvoiceID: &s.testData.invoice.ID,
		Amount:    decimal.NewFromInt(1200),
		Method:    types.PaymentMethodCash,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// exact settlement still allowed
	_, err = s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID:  s.testData.client.ID,
		InvoiceID: &s.testData.invoice.ID,
		Amount:    decimal.NewFromInt(900),
		Method:    types.PaymentMethodCash,
	})
	s.NoError(err)
}

func (s *PaymentServiceSuite) TestZeroAmountRejected() {
	_, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID: s.testData.client.ID,
		Amount:   decimal.Zero,
		Method:   types.PaymentMethodCash,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestPaymentWithoutInvoice() {
	resp, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		ClientID: s.testData.client.ID,
		Amount:   decimal.NewFromInt(500),
		Method:   types.PaymentMethodBankTransfer,
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.Reference)
	s.Equal("Mombasa Freight", resp.ClientName)

	// on-account payments leave the invoice untouched
	inv := s.getInvoice()
	s.Equal(types.InvoiceStatusSent, inv.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestDeletePaymentRevertsPaidToSent() {
	p := s.recordPayment(decimal.NewFromInt(900))
	s.Equal(types.InvoiceStatusPaid, s.getInvoice().InvoiceStatus)

	s.Require().NoError(s.service.DeletePayment(s.GetContext(), p.ID))

	inv := s.getInvoice()
	s.Equal(types.InvoiceStatusSent, inv.InvoiceStatus)
	s.True(inv.TotalPaid.IsZero())
	s.Nil(inv.PaidAt)
}

func (s *PaymentServiceSuite) TestDeletePaymentRevertsPaidToPartial() {
	first := s.recordPayment(decimal.NewFromInt(400))
	s.recordPayment(decimal.NewFromInt(500))
	s.Equal(types.InvoiceStatusPaid, s.getInvoice().InvoiceStatus)

	s.Require().NoError(s.service.DeletePayment(s.GetContext(), first.ID))

	inv := s.getInvoice()
	s.Equal(types.InvoiceStatusPartial, inv.InvoiceStatus)
	s.True(decimal.NewFromInt(500).Equal(inv.TotalPaid))
}

func (s *PaymentServiceSuite) TestDeletePaymentRevertsToOverdue() {
	p := s.recordPayment(decimal.NewFromInt(900))

	// push the invoice past due while it is paid
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)
	inv.DueDate = time.Now().UTC().AddDate(0, 0, -5)
	inv.Version++
	s.Require().NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	s.Require().NoError(s.service.DeletePayment(s.GetContext(), p.ID))

	got := s.getInvoice()
	s.Equal(types.InvoiceStatusOverdue, got.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestListPaymentsByInvoice() {
	s.recordPayment(decimal.NewFromInt(100))
	s.recordPayment(decimal.NewFromInt(200))

	resp, err := s.service.ListPayments(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, resp.Total)
	s.Equal(s.testData.invoice.InvoiceNumber, resp.Items[0].InvoiceNumber)
}
