package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servexhq/servex/internal/api"
	v1 "github.com/servexhq/servex/internal/api/v1"
	"github.com/servexhq/servex/internal/config"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/postgres"
	"github.com/servexhq/servex/internal/repository"
	"github.com/servexhq/servex/internal/sentry"
	"github.com/servexhq/servex/internal/service"
	"github.com/servexhq/servex/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,
			postgres.NewSentryClient,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,
			repository.NewClientRepository,
			repository.NewTripRepository,
			repository.NewSettingsRepository,
		),
	)

	// Monitoring
	opts = append(opts, sentry.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewCurrencyService,
			service.NewSettingsService,
			service.NewFinanceService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startAPIServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	currencyService service.CurrencyService,
	settingsService service.SettingsService,
	financeService service.FinanceService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(),
		Invoice:  v1.NewInvoiceHandler(invoiceService, logger),
		Payment:  v1.NewPaymentHandler(paymentService, logger),
		Settings: v1.NewSettingsHandler(settingsService, currencyService, logger),
		Finance:  v1.NewFinanceHandler(financeService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, sentrySvc *sentry.Service) *gin.Engine {
	return api.NewRouter(handlers, cfg, sentrySvc)
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
