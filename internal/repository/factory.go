package repository

import (
	"github.com/servexhq/servex/internal/domain/client"
	"github.com/servexhq/servex/internal/domain/invoice"
	"github.com/servexhq/servex/internal/domain/payment"
	"github.com/servexhq/servex/internal/domain/settings"
	"github.com/servexhq/servex/internal/domain/trip"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/postgres"
	pgrepo "github.com/servexhq/servex/internal/repository/postgres"
)

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return pgrepo.NewInvoiceRepository(db, logger)
}

func NewPaymentRepository(db postgres.IClient, logger *logger.Logger) payment.Repository {
	return pgrepo.NewPaymentRepository(db, logger)
}

func NewClientRepository(db postgres.IClient, logger *logger.Logger) client.Repository {
	return pgrepo.NewClientRepository(db, logger)
}

func NewTripRepository(db postgres.IClient, logger *logger.Logger) trip.Repository {
	return pgrepo.NewTripRepository(db, logger)
}

func NewSettingsRepository(db postgres.IClient, logger *logger.Logger) settings.Repository {
	return pgrepo.NewSettingsRepository(db, logger)
}
