package testutil

import (
	"context"
	"time"

	"github.com/servexhq/servex/internal/config"
	"github.com/servexhq/servex/internal/domain/client"
	"github.com/servexhq/servex/internal/domain/invoice"
	"github.com/servexhq/servex/internal/domain/payment"
	"github.com/servexhq/servex/internal/domain/settings"
	"github.com/servexhq/servex/internal/domain/trip"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	ClientRepo   client.Repository
	TripRepo     trip.Repository
	SettingsRepo settings.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.logger = logger.NewNop()
}

// SetupTest is called before each test. Each test gets a fresh config so
// policy overrides cannot leak between tests.
func (s *BaseServiceTestSuite) SetupTest() {
	s.config = &config.Configuration{
		Deployment: config.DeploymentConfig{Mode: "test"},
		Logging:    config.LoggingConfig{Level: "info"},
		Billing: config.BillingConfig{
			DefaultRatePerKg:  decimal.NewFromInt(36),
			OverpaymentPolicy: types.OverpaymentPolicyAllow,
			PaymentTermsDays:  14,
		},
	}
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		PaymentRepo:  NewInMemoryPaymentStore(),
		ClientRepo:   NewInMemoryClientStore(),
		TripRepo:     NewInMemoryTripStore(),
		SettingsRepo: NewInMemorySettingsStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.stores.ClientRepo.(*InMemoryClientStore).Clear()
	s.stores.TripRepo.(*InMemoryTripStore).Clear()
	s.stores.SettingsRepo.(*InMemorySettingsStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the timestamp captured at test setup
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// SetConfig replaces the test configuration for policy-specific tests
func (s *BaseServiceTestSuite) SetConfig(cfg *config.Configuration) {
	s.config = cfg
}
