package settings

import (
	"testing"

	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotToDisplay(t *testing.T) {
	snapshot := DefaultSettings("tenant_test").Snapshot()

	t.Run("canonical currency is identity", func(t *testing.T) {
		got, err := snapshot.ToDisplay(decimal.NewFromInt(1000), "ZAR")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000).Equal(got))
	})

	t.Run("secondary currency applies rate", func(t *testing.T) {
		got, err := snapshot.ToDisplay(decimal.NewFromInt(1000), "KES")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(6670).Equal(got))
	})

	t.Run("code lookup is case insensitive", func(t *testing.T) {
		got, err := snapshot.ToDisplay(decimal.NewFromInt(100), "kes")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(667).Equal(got))
	})

	t.Run("unknown currency rejected", func(t *testing.T) {
		_, err := snapshot.ToDisplay(decimal.NewFromInt(100), "USD")
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	snapshot := NewRateSnapshot(map[string]decimal.Decimal{
		"ZAR": decimal.NewFromInt(1),
		"KES": decimal.NewFromFloat(6.67),
	})

	amount := decimal.NewFromFloat(1234.56)
	display, err := snapshot.ToDisplay(amount, "KES")
	require.NoError(t, err)

	back, err := snapshot.ToCanonical(display, "KES")
	require.NoError(t, err)

	assert.True(t, amount.Sub(back).Abs().LessThan(decimal.NewFromFloat(0.0001)),
		"round trip drifted: %s -> %s", amount, back)
}

func TestSettingsValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultSettings("tenant_test").Validate())
	})

	t.Run("missing canonical row rejected", func(t *testing.T) {
		s := &Settings{
			Currencies: []Currency{
				{Code: "KES", Name: "Kenyan Shilling", ExchangeRate: decimal.NewFromFloat(6.67)},
			},
		}
		err := s.Validate()
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("non positive rate rejected", func(t *testing.T) {
		s := &Settings{
			Currencies: []Currency{
				{Code: "ZAR", ExchangeRate: decimal.NewFromInt(1)},
				{Code: "KES", ExchangeRate: decimal.Zero},
			},
		}
		require.Error(t, s.Validate())
	})
}
