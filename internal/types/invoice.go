package types

import (
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks the billing lifecycle of an invoice.
// draft -> sent -> partial -> paid, with overdue derived from the due
// date whenever nothing has been paid yet. paid is terminal.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPartial,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
	}
	for _, status := range allowed {
		if s == status {
			return nil
		}
	}
	return ierr.NewError("invalid invoice status").
		WithHintf("invoice status must be one of %v", allowed).
		Mark(ierr.ErrValidation)
}

// IsFinal reports whether the status permits no further line item or
// adjustment edits.
func (s InvoiceStatus) IsFinal() bool {
	return s == InvoiceStatusPaid
}

// LineItemKind distinguishes structured line items (weight and dimensions
// captured per parcel) from legacy rows imported before parcel capture
// existed, where the quantity column holds a weight-like value and amount
// is billed as quantity x rate.
type LineItemKind string

const (
	LineItemKindStructured LineItemKind = "structured"
	LineItemKindLegacy     LineItemKind = "legacy"
)

// OverpaymentPolicy decides what happens when recorded payments exceed
// the invoice total. The source system silently allowed it; reject is
// available for tenants that treat it as an input error.
type OverpaymentPolicy string

const (
	OverpaymentPolicyAllow  OverpaymentPolicy = "allow"
	OverpaymentPolicyReject OverpaymentPolicy = "reject"
)

func (p OverpaymentPolicy) Validate() error {
	switch p {
	case OverpaymentPolicyAllow, OverpaymentPolicyReject:
		return nil
	}
	return ierr.NewError("invalid overpayment policy").
		WithHint("overpayment policy must be allow or reject").
		Mark(ierr.ErrValidation)
}

// VolumetricDivisor is the cm3-to-kg divisor used for volumetric weight.
// Industry standard air-freight divisor.
var VolumetricDivisor = decimal.NewFromInt(5000)

// TotalTolerance is the absolute tolerance, in currency units, allowed
// between a client-submitted invoice total and the server-recomputed one.
var TotalTolerance = decimal.NewFromFloat(0.01)
