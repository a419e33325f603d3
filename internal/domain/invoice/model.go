package invoice

import (
	"time"

	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is the domain model for a client invoice. All monetary amounts
// are stored in the tenant's canonical currency; Subtotal and Total are
// derived from line items and adjustments and recomputed on every save.
type Invoice struct {
	ID            string              `json:"id"`
	InvoiceNumber string              `json:"invoice_number"`
	ClientID      string              `json:"client_id"`
	TripID        *string             `json:"trip_id,omitempty"`
	Currency      string              `json:"currency"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Total         decimal.Decimal     `json:"total"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date"`
	SentAt        *time.Time          `json:"sent_at,omitempty"`
	SentBy        *string             `json:"sent_by,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	LineItems     []*LineItem         `json:"line_items,omitempty"`
	Adjustments   []*Adjustment       `json:"adjustments,omitempty"`
	Version       int                 `json:"version"`
	types.BaseModel
}

// ComputeTotals re-derives Subtotal and Total from the current line items
// and adjustments. This is the single authoritative computation; callers
// must never trust client-side totals for persistence.
func (i *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	for _, item := range i.LineItems {
		subtotal = subtotal.Add(item.Amount)
	}

	adjustmentTotal := decimal.Zero
	for _, adj := range i.Adjustments {
		adjustmentTotal = adjustmentTotal.Add(adj.SignedAmount())
	}

	i.Subtotal = subtotal
	i.Total = subtotal.Add(adjustmentTotal)
}

// CheckSubmittedTotal compares a client-asserted total against the
// recomputed one within the absolute tolerance. A mismatch rejects the
// save outright; this is the hard gate against client/server drift.
func (i *Invoice) CheckSubmittedTotal(submitted decimal.Decimal) error {
	diff := i.Total.Sub(submitted).Abs()
	if diff.GreaterThan(types.TotalTolerance) {
		return ierr.NewError("invoice total mismatch").
			WithHintf("calculated total %s does not match submitted total %s",
				i.Total.StringFixed(2), submitted.StringFixed(2)).
			WithReportableDetails(map[string]any{
				"calculated_total": i.Total,
				"submitted_total":  submitted,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Outstanding returns the unpaid balance, clamped at zero so an
// overpayment never surfaces as a negative balance.
func (i *Invoice) Outstanding() decimal.Decimal {
	outstanding := i.Total.Sub(i.AmountPaid)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// Reconcile derives the invoice status from accumulated payments against
// the computed total, as of now. Returns true when the status changed.
//
//	paid >= total (and something paid)  -> paid
//	0 < paid < total                    -> partial
//	nothing paid, past due              -> overdue
//	nothing paid, not past due          -> unchanged (draft/sent)
func (i *Invoice) Reconcile(now time.Time) bool {
	previous := i.InvoiceStatus

	switch {
	case i.AmountPaid.IsPositive() && i.AmountPaid.GreaterThanOrEqual(i.Total):
		i.InvoiceStatus = types.InvoiceStatusPaid
		if i.PaidAt == nil {
			paidAt := now
			i.PaidAt = &paidAt
		}
	case i.AmountPaid.IsPositive():
		i.InvoiceStatus = types.InvoiceStatusPartial
		i.PaidAt = nil
	case now.After(i.DueDate):
		i.InvoiceStatus = types.InvoiceStatusOverdue
		i.PaidAt = nil
	default:
		// a deleted payment can leave a previously paid or partial
		// invoice with nothing paid; it reverts to sent
		if i.InvoiceStatus == types.InvoiceStatusPaid ||
			i.InvoiceStatus == types.InvoiceStatusPartial ||
			i.InvoiceStatus == types.InvoiceStatusOverdue {
			i.InvoiceStatus = types.InvoiceStatusSent
		}
		i.PaidAt = nil
	}

	return i.InvoiceStatus != previous
}

// EnsureEditable rejects modifications to line items and adjustments once
// the invoice is paid.
func (i *Invoice) EnsureEditable() error {
	if i.InvoiceStatus.IsFinal() {
		return ierr.NewError("invoice is paid").
			WithHint("line items and adjustments cannot be modified on a paid invoice").
			WithReportableDetails(map[string]any{"invoice_id": i.ID}).
			Mark(ierr.ErrInvalidState)
	}
	return nil
}

// EnsureDraft rejects structural edits outside draft. Items can only be
// added or removed before the invoice is sent.
func (i *Invoice) EnsureDraft() error {
	if i.InvoiceStatus != types.InvoiceStatusDraft {
		return ierr.NewError("invoice is not a draft").
			WithHint("line items can only be added or removed on draft invoices").
			WithReportableDetails(map[string]any{
				"invoice_id": i.ID,
				"status":     i.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidState)
	}
	return nil
}

func (i *Invoice) Validate() error {
	if i.ClientID == "" {
		return ierr.NewError("invoice validation failed").
			WithHint("client is required").
			Mark(ierr.ErrValidation)
	}

	if i.Currency == "" {
		return ierr.NewError("invoice validation failed").
			WithHint("currency is required").
			Mark(ierr.ErrValidation)
	}

	if i.AmountPaid.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("amount paid must be non negative").
			Mark(ierr.ErrValidation)
	}

	if i.DueDate.Before(i.IssueDate) {
		return ierr.NewError("invoice validation failed").
			WithHint("due date must not be before issue date").
			Mark(ierr.ErrValidation)
	}

	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}

	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	for _, adj := range i.Adjustments {
		if err := adj.Validate(); err != nil {
			return err
		}
	}

	return nil
}
