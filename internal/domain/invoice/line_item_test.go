package invoice

import (
	"testing"

	"github.com/servexhq/servex/internal/domain/billing"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKind(t *testing.T) {
	t.Run("weight marks structured", func(t *testing.T) {
		li := &LineItem{Weight: decimal.NewFromInt(12)}
		li.NormalizeKind()
		assert.Equal(t, types.LineItemKindStructured, li.Kind)
	})

	t.Run("measured parcel marks structured", func(t *testing.T) {
		li := &LineItem{
			Dimensions: billing.Dimensions{
				Length: decimal.NewFromInt(40),
				Width:  decimal.NewFromInt(30),
				Height: decimal.NewFromInt(20),
			},
		}
		li.NormalizeKind()
		assert.Equal(t, types.LineItemKindStructured, li.Kind)
	})

	t.Run("no weight no parcel marks legacy", func(t *testing.T) {
		li := &LineItem{Quantity: decimal.NewFromInt(3)}
		li.NormalizeKind()
		assert.Equal(t, types.LineItemKindLegacy, li.Kind)
	})

	t.Run("already resolved kind is kept", func(t *testing.T) {
		li := &LineItem{Kind: types.LineItemKindLegacy, Weight: decimal.NewFromInt(12)}
		li.NormalizeKind()
		assert.Equal(t, types.LineItemKindLegacy, li.Kind)
	})
}

func TestComputeAmount(t *testing.T) {
	t.Run("structured bills shipping weight", func(t *testing.T) {
		li := &LineItem{
			Kind:   types.LineItemKindStructured,
			Weight: decimal.NewFromInt(10),
			Dimensions: billing.Dimensions{
				Length: decimal.NewFromInt(100),
				Width:  decimal.NewFromInt(50),
				Height: decimal.NewFromInt(60),
			},
			Rate: decimal.NewFromInt(36),
		}
		require.NoError(t, li.ComputeAmount())
		// volumetric 60kg beats actual 10kg
		assert.True(t, decimal.NewFromInt(2160).Equal(li.Amount))
	})

	t.Run("legacy bills quantity", func(t *testing.T) {
		li := &LineItem{
			Kind:     types.LineItemKindLegacy,
			Quantity: decimal.NewFromFloat(32.5),
			Rate:     decimal.NewFromInt(36),
		}
		require.NoError(t, li.ComputeAmount())
		assert.True(t, decimal.NewFromInt(1170).Equal(li.Amount))
	})
}

func TestSetRate(t *testing.T) {
	li := &LineItem{
		Kind:   types.LineItemKindStructured,
		Weight: decimal.NewFromInt(10),
		Rate:   decimal.NewFromInt(36),
	}
	require.NoError(t, li.ComputeAmount())
	assert.True(t, decimal.NewFromInt(360).Equal(li.Amount))

	require.NoError(t, li.SetRate(decimal.NewFromInt(40)))
	assert.True(t, decimal.NewFromInt(400).Equal(li.Amount))

	// idempotent under repeated identical sets
	require.NoError(t, li.SetRate(decimal.NewFromInt(40)))
	assert.True(t, decimal.NewFromInt(400).Equal(li.Amount))

	require.Error(t, li.SetRate(decimal.NewFromInt(-1)))
}

func TestLegacyWeight(t *testing.T) {
	t.Run("non integral quantity is a weight", func(t *testing.T) {
		li := &LineItem{Kind: types.LineItemKindLegacy, Quantity: decimal.NewFromFloat(32.5)}
		assert.True(t, decimal.NewFromFloat(32.5).Equal(li.LegacyWeight()))
	})

	t.Run("quantity above ceiling is a weight", func(t *testing.T) {
		li := &LineItem{Kind: types.LineItemKindLegacy, Quantity: decimal.NewFromInt(45)}
		assert.True(t, decimal.NewFromInt(45).Equal(li.LegacyWeight()))
	})

	t.Run("small integral quantity is a piece count", func(t *testing.T) {
		li := &LineItem{Kind: types.LineItemKindLegacy, Quantity: decimal.NewFromInt(3)}
		assert.True(t, li.LegacyWeight().IsZero())
	})

	t.Run("structured items carry no legacy weight", func(t *testing.T) {
		li := &LineItem{Kind: types.LineItemKindStructured, Quantity: decimal.NewFromFloat(32.5)}
		assert.True(t, li.LegacyWeight().IsZero())
	})
}
