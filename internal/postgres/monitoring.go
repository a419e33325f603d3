package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/servexhq/servex/internal/logger"
	sentryService "github.com/servexhq/servex/internal/sentry"
)

// SentryClient wraps the standard postgres client with span tracking
// around transactions.
type SentryClient struct {
	client IClient
	sentry *sentryService.Service
	logger *logger.Logger
}

// NewSentryClient creates a Sentry-instrumented postgres client.
func NewSentryClient(client *Client, sentry *sentryService.Service, logger *logger.Logger) IClient {
	return &SentryClient{
		client: client,
		sentry: sentry,
		logger: logger,
	}
}

// WithTx wraps the given function in a transaction with span tracking.
func (c *SentryClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	span, spanCtx := c.sentry.StartDBSpan(ctx, "postgres.transaction", map[string]interface{}{
		"operation": "transaction",
	})
	if span != nil {
		defer span.Finish()
	}

	return c.client.WithTx(spanCtx, fn)
}

// Querier skips span tracking; individual queries are cheap and the
// interesting latency is at the transaction boundary.
func (c *SentryClient) Querier(ctx context.Context) sqlx.ExtContext {
	return c.client.Querier(ctx)
}
