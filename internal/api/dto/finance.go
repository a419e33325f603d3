package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientStatement is one row of the statement summary: a client's
// outstanding balance, grouped by the trips the invoices belong to.
type ClientStatement struct {
	ClientID         string                     `json:"client_id"`
	ClientName       string                     `json:"client_name"`
	ClientEmail      string                     `json:"client_email,omitempty"`
	ClientPhone      string                     `json:"client_phone,omitempty"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	TripAmounts      map[string]decimal.Decimal `json:"trip_amounts"`
	InvoiceCount     int                        `json:"invoice_count"`
	HasOverdue       bool                       `json:"has_overdue"`
}

// ClientStatementsResponse is the statement summary for all clients with
// outstanding balances, ordered by balance descending.
type ClientStatementsResponse struct {
	Statements  []*ClientStatement `json:"statements"`
	TripColumns []string           `json:"trip_columns"`
	Summary     StatementSummary   `json:"summary"`
}

type StatementSummary struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	ClientsWithDebt  int             `json:"clients_with_debt"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
}

// StatementInvoice is one open invoice on a client's statement detail.
type StatementInvoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	TripNumber    string          `json:"trip_number"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
}

// WorksheetRow is one client's slice of a trip worksheet.
type WorksheetRow struct {
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name"`
	InvoiceNumber string          `json:"invoice_number"`
	WeightKg      decimal.Decimal `json:"weight_kg"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Status        string          `json:"status"`
}

// TripWorksheetResponse is the per-trip invoice breakdown.
type TripWorksheetResponse struct {
	TripID        string          `json:"trip_id"`
	TripNumber    string          `json:"trip_number"`
	DepartureDate time.Time       `json:"departure_date"`
	Rows          []*WorksheetRow `json:"rows"`
	TotalWeight   decimal.Decimal `json:"total_weight_kg"`
	TotalBilled   decimal.Decimal `json:"total_billed"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
}

// FinancialSummaryResponse is the finance overview: invoice totals by
// status plus total payments received.
type FinancialSummaryResponse struct {
	DraftTotal    decimal.Decimal `json:"draft_total"`
	SentTotal     decimal.Decimal `json:"sent_total"`
	PartialTotal  decimal.Decimal `json:"partial_total"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
	OverdueTotal  decimal.Decimal `json:"overdue_total"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
}
