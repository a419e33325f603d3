package service

import (
	"github.com/servexhq/servex/internal/config"
	"github.com/servexhq/servex/internal/domain/client"
	"github.com/servexhq/servex/internal/domain/invoice"
	"github.com/servexhq/servex/internal/domain/payment"
	"github.com/servexhq/servex/internal/domain/settings"
	"github.com/servexhq/servex/internal/domain/trip"
	"github.com/servexhq/servex/internal/logger"
	"go.uber.org/fx"
)

// ServiceParams bundles the dependencies shared across services so
// constructors stay stable as the dependency set grows.
type ServiceParams struct {
	fx.In

	Logger *logger.Logger
	Config *config.Configuration

	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	ClientRepo   client.Repository
	TripRepo     trip.Repository
	SettingsRepo settings.Repository
}
