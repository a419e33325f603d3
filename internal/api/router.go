package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/servexhq/servex/internal/api/v1"
	"github.com/servexhq/servex/internal/config"
	"github.com/servexhq/servex/internal/rest/middleware"
	sentryService "github.com/servexhq/servex/internal/sentry"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Invoice  *v1.InvoiceHandler
	Payment  *v1.PaymentHandler
	Settings *v1.SettingsHandler
	Finance  *v1.FinanceHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, sentry *sentryService.Service) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(sentry),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
		invoices.POST("/:id/items", handlers.Invoice.AddLineItem)
		invoices.DELETE("/:id/items/:item_id", handlers.Invoice.RemoveLineItem)
		invoices.PUT("/:id/items/:item_id/rate", handlers.Invoice.SetLineItemRate)
		invoices.POST("/:id/adjustments", handlers.Invoice.AddAdjustment)
		invoices.DELETE("/:id/adjustments/:adjustment_id", handlers.Invoice.RemoveAdjustment)
	}

	payments := router.Group("/payments")
	{
		payments.POST("", handlers.Payment.RecordPayment)
		payments.GET("", handlers.Payment.ListPayments)
		payments.GET("/:id", handlers.Payment.GetPayment)
		payments.DELETE("/:id", handlers.Payment.DeletePayment)
	}

	settings := router.Group("/settings")
	{
		settings.GET("/currencies", handlers.Settings.GetCurrencies)
		settings.PUT("/currencies", handlers.Settings.UpdateCurrencies)
		settings.POST("/currencies/convert", handlers.Settings.ConvertAmount)
	}

	finance := router.Group("/finance")
	{
		finance.GET("/client-statements", handlers.Finance.ClientStatements)
		finance.GET("/client-statements/:client_id/invoices", handlers.Finance.ClientStatementInvoices)
		finance.GET("/trip-worksheet/:trip_id", handlers.Finance.TripWorksheet)
		finance.GET("/summary", handlers.Finance.Summary)
	}
}
