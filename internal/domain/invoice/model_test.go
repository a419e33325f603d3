package invoice

import (
	"testing"
	"time"

	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice(status types.InvoiceStatus) *Invoice {
	now := time.Now().UTC()
	return &Invoice{
		ID:            "inv_test",
		InvoiceNumber: "INV-2026-00001",
		ClientID:      "cli_test",
		Currency:      "ZAR",
		InvoiceStatus: status,
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 14),
		Version:       1,
		LineItems: []*LineItem{
			{
				ID:          "li_1",
				InvoiceID:   "inv_test",
				Description: "Parcel",
				Kind:        types.LineItemKindStructured,
				Weight:      decimal.NewFromInt(25),
				Rate:        decimal.NewFromInt(40),
				Amount:      decimal.NewFromInt(1000),
			},
		},
		Adjustments: []*Adjustment{
			{
				ID:          "adj_1",
				InvoiceID:   "inv_test",
				Description: "Loyalty discount",
				Amount:      decimal.NewFromInt(50),
				IsAddition:  false,
			},
		},
	}
}

func TestComputeTotals(t *testing.T) {
	inv := testInvoice(types.InvoiceStatusDraft)
	inv.ComputeTotals()

	assert.True(t, decimal.NewFromInt(1000).Equal(inv.Subtotal))
	assert.True(t, decimal.NewFromInt(950).Equal(inv.Total))

	inv.Adjustments = append(inv.Adjustments, &Adjustment{
		ID:          "adj_2",
		Description: "Fuel surcharge",
		Amount:      decimal.NewFromInt(120),
		IsAddition:  true,
	})
	inv.ComputeTotals()

	assert.True(t, decimal.NewFromInt(1000).Equal(inv.Subtotal))
	assert.True(t, decimal.NewFromInt(1070).Equal(inv.Total))
}

func TestCheckSubmittedTotal(t *testing.T) {
	inv := testInvoice(types.InvoiceStatusDraft)
	inv.ComputeTotals()

	t.Run("exact match accepted", func(t *testing.T) {
		require.NoError(t, inv.CheckSubmittedTotal(decimal.NewFromInt(950)))
	})

	t.Run("within tolerance accepted", func(t *testing.T) {
		require.NoError(t, inv.CheckSubmittedTotal(decimal.NewFromFloat(950.01)))
		require.NoError(t, inv.CheckSubmittedTotal(decimal.NewFromFloat(949.99)))
	})

	t.Run("beyond tolerance rejected", func(t *testing.T) {
		err := inv.CheckSubmittedTotal(decimal.NewFromFloat(950.02))
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("gross mismatch rejected", func(t *testing.T) {
		err := inv.CheckSubmittedTotal(decimal.NewFromInt(900))
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestOutstanding(t *testing.T) {
	inv := testInvoice(types.InvoiceStatusSent)
	inv.ComputeTotals()

	inv.AmountPaid = decimal.NewFromInt(300)
	assert.True(t, decimal.NewFromInt(650).Equal(inv.Outstanding()))

	// overpayment never surfaces as a negative balance
	inv.AmountPaid = decimal.NewFromInt(1200)
	assert.True(t, inv.Outstanding().IsZero())
}

func TestReconcile(t *testing.T) {
	now := time.Now().UTC()

	t.Run("full payment marks paid", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusSent)
		inv.ComputeTotals()
		inv.AmountPaid = decimal.NewFromInt(950)

		changed := inv.Reconcile(now)
		assert.True(t, changed)
		assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
		require.NotNil(t, inv.PaidAt)
	})

	t.Run("overpayment marks paid", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusSent)
		inv.ComputeTotals()
		inv.AmountPaid = decimal.NewFromInt(1000)

		inv.Reconcile(now)
		assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
	})

	t.Run("partial payment marks partial", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusSent)
		inv.ComputeTotals()
		inv.AmountPaid = decimal.NewFromInt(300)

		changed := inv.Reconcile(now)
		assert.True(t, changed)
		assert.Equal(t, types.InvoiceStatusPartial, inv.InvoiceStatus)
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("nothing paid past due marks overdue", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusSent)
		inv.ComputeTotals()
		inv.DueDate = now.AddDate(0, 0, -1)

		changed := inv.Reconcile(now)
		assert.True(t, changed)
		assert.Equal(t, types.InvoiceStatusOverdue, inv.InvoiceStatus)
	})

	t.Run("past due draft goes overdue", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusDraft)
		inv.ComputeTotals()
		inv.DueDate = now.AddDate(0, 0, -10)

		changed := inv.Reconcile(now)
		assert.True(t, changed)
		assert.Equal(t, types.InvoiceStatusOverdue, inv.InvoiceStatus)
	})

	t.Run("nothing paid before due is unchanged", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusSent)
		inv.ComputeTotals()

		changed := inv.Reconcile(now)
		assert.False(t, changed)
		assert.Equal(t, types.InvoiceStatusSent, inv.InvoiceStatus)
	})

	t.Run("deleted payments revert paid to sent", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusPaid)
		inv.ComputeTotals()
		paidAt := now
		inv.PaidAt = &paidAt
		inv.AmountPaid = decimal.Zero

		changed := inv.Reconcile(now)
		assert.True(t, changed)
		assert.Equal(t, types.InvoiceStatusSent, inv.InvoiceStatus)
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("paid then past due stays paid", func(t *testing.T) {
		inv := testInvoice(types.InvoiceStatusPaid)
		inv.ComputeTotals()
		inv.AmountPaid = decimal.NewFromInt(950)
		inv.DueDate = now.AddDate(0, 0, -30)

		changed := inv.Reconcile(now)
		assert.False(t, changed)
		assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
	})
}

func TestEnsureEditable(t *testing.T) {
	inv := testInvoice(types.InvoiceStatusSent)
	require.NoError(t, inv.EnsureEditable())

	inv.InvoiceStatus = types.InvoiceStatusPaid
	err := inv.EnsureEditable()
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidState(err))
}

func TestEnsureDraft(t *testing.T) {
	inv := testInvoice(types.InvoiceStatusDraft)
	require.NoError(t, inv.EnsureDraft())

	inv.InvoiceStatus = types.InvoiceStatusSent
	err := inv.EnsureDraft()
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidState(err))
}

func TestAdjustmentSignedAmount(t *testing.T) {
	addition := &Adjustment{Amount: decimal.NewFromInt(120), IsAddition: true}
	assert.True(t, decimal.NewFromInt(120).Equal(addition.SignedAmount()))

	discount := &Adjustment{Amount: decimal.NewFromInt(50), IsAddition: false}
	assert.True(t, decimal.NewFromInt(-50).Equal(discount.SignedAmount()))
}
