package sentry

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/servexhq/servex/internal/config"
	"github.com/servexhq/servex/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestDisabledServiceIsInert(t *testing.T) {
	svc := NewSentryService(&config.Configuration{}, logger.NewNop())

	span, ctx := svc.StartDBSpan(context.Background(), "postgres.transaction", nil)
	assert.Nil(t, span)
	assert.Equal(t, context.Background(), ctx)

	// must not panic without an initialized hub
	svc.CaptureException(errors.New("connection refused"))
}
