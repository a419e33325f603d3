package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/domain/invoice"
	"github.com/servexhq/servex/internal/domain/payment"
	"github.com/servexhq/servex/internal/domain/trip"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

const (
	recentTripLimit      = 10
	statementTripColumns = 8
)

// openStatuses are the invoice states that can carry an outstanding
// balance.
var openStatuses = []types.InvoiceStatus{
	types.InvoiceStatusDraft,
	types.InvoiceStatusSent,
	types.InvoiceStatusPartial,
	types.InvoiceStatusOverdue,
}

// FinanceService produces the finance hub read models: client statement
// summaries, per-trip worksheets and the overall financial summary. All
// figures are derived from the authoritative invoice totals; nothing
// here recomputes amounts.
type FinanceService interface {
	ClientStatements(ctx context.Context) (*dto.ClientStatementsResponse, error)
	ClientStatementInvoices(ctx context.Context, clientID string) ([]*dto.StatementInvoice, error)
	TripWorksheet(ctx context.Context, tripID string) (*dto.TripWorksheetResponse, error)
	Summary(ctx context.Context) (*dto.FinancialSummaryResponse, error)
}

type financeService struct {
	ServiceParams
}

func NewFinanceService(params ServiceParams) FinanceService {
	return &financeService{ServiceParams: params}
}

func (s *financeService) ClientStatements(ctx context.Context) (*dto.ClientStatementsResponse, error) {
	clients, err := s.ClientRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.TripRepo.ListRecent(ctx, recentTripLimit)
	if err != nil {
		return nil, err
	}
	tripNumbers := lo.Map(trips, func(t *trip.Trip, _ int) string { return t.TripNumber })
	tripByID := lo.SliceToMap(trips, func(t *trip.Trip) (string, *trip.Trip) { return t.ID, t })

	open, err := s.openInvoices(ctx)
	if err != nil {
		return nil, err
	}
	byClient := lo.GroupBy(open, func(inv *invoice.Invoice) string { return inv.ClientID })

	statements := make([]*dto.ClientStatement, 0, len(byClient))
	totalOutstanding := decimal.Zero
	totalOverdue := decimal.Zero

	for _, cli := range clients {
		invoices := byClient[cli.ID]
		if len(invoices) == 0 {
			continue
		}

		clientTotal := decimal.Zero
		clientOverdue := decimal.Zero
		tripAmounts := make(map[string]decimal.Decimal)

		for _, inv := range invoices {
			outstanding := inv.Outstanding()
			if !outstanding.IsPositive() {
				continue
			}

			clientTotal = clientTotal.Add(outstanding)
			if inv.InvoiceStatus == types.InvoiceStatusOverdue {
				clientOverdue = clientOverdue.Add(outstanding)
			}

			tripNum := "Other"
			if inv.TripID != nil {
				if t, ok := tripByID[*inv.TripID]; ok {
					tripNum = t.TripNumber
				}
			}
			tripAmounts[tripNum] = tripAmounts[tripNum].Add(outstanding)
		}

		if !clientTotal.IsPositive() {
			continue
		}

		totalOutstanding = totalOutstanding.Add(clientTotal)
		totalOverdue = totalOverdue.Add(clientOverdue)

		statements = append(statements, &dto.ClientStatement{
			ClientID:         cli.ID,
			ClientName:       cli.Name,
			ClientEmail:      cli.Email,
			ClientPhone:      cli.Phone,
			TotalOutstanding: clientTotal,
			TripAmounts:      tripAmounts,
			InvoiceCount:     len(invoices),
			HasOverdue:       clientOverdue.IsPositive(),
		})
	}

	// largest debtors first
	sort.Slice(statements, func(i, j int) bool {
		return statements[i].TotalOutstanding.GreaterThan(statements[j].TotalOutstanding)
	})

	if len(tripNumbers) > statementTripColumns {
		tripNumbers = tripNumbers[:statementTripColumns]
	}

	return &dto.ClientStatementsResponse{
		Statements:  statements,
		TripColumns: tripNumbers,
		Summary: dto.StatementSummary{
			TotalOutstanding: totalOutstanding,
			ClientsWithDebt:  len(statements),
			OverdueAmount:    totalOverdue,
		},
	}, nil
}

func (s *financeService) ClientStatementInvoices(ctx context.Context, clientID string) ([]*dto.StatementInvoice, error) {
	if _, err := s.ClientRepo.Get(ctx, clientID); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, &invoice.Filter{
		ClientID: clientID,
		Statuses: openStatuses,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.StatementInvoice, 0, len(invoices))
	for _, inv := range invoices {
		tripNumber := "-"
		if inv.TripID != nil {
			if t, err := s.TripRepo.Get(ctx, *inv.TripID); err == nil {
				tripNumber = t.TripNumber
			}
		}

		result = append(result, &dto.StatementInvoice{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			TripNumber:    tripNumber,
			Total:         inv.Total,
			PaidAmount:    inv.AmountPaid,
			Outstanding:   inv.Outstanding(),
			DueDate:       inv.DueDate,
			Status:        inv.InvoiceStatus.String(),
		})
	}

	return result, nil
}

func (s *financeService) TripWorksheet(ctx context.Context, tripID string) (*dto.TripWorksheetResponse, error) {
	t, err := s.TripRepo.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, &invoice.Filter{TripID: tripID})
	if err != nil {
		return nil, err
	}

	resp := &dto.TripWorksheetResponse{
		TripID:        t.ID,
		TripNumber:    t.TripNumber,
		DepartureDate: t.DepartureDate,
		Rows:          make([]*dto.WorksheetRow, 0, len(invoices)),
	}

	for _, inv := range invoices {
		clientName := "Unknown"
		if cli, err := s.ClientRepo.Get(ctx, inv.ClientID); err == nil {
			clientName = cli.Name
		}

		weight := decimal.Zero
		for _, li := range inv.LineItems {
			sw, err := li.ShippingWeight()
			if err != nil {
				return nil, err
			}
			weight = weight.Add(sw).Add(li.LegacyWeight())
		}

		row := &dto.WorksheetRow{
			ClientID:      inv.ClientID,
			ClientName:    clientName,
			InvoiceNumber: inv.InvoiceNumber,
			WeightKg:      weight,
			Subtotal:      inv.Subtotal,
			Total:         inv.Total,
			PaidAmount:    inv.AmountPaid,
			Outstanding:   inv.Outstanding(),
			Status:        inv.InvoiceStatus.String(),
		}
		resp.Rows = append(resp.Rows, row)

		resp.TotalWeight = resp.TotalWeight.Add(weight)
		resp.TotalBilled = resp.TotalBilled.Add(inv.Total)
		resp.TotalPaid = resp.TotalPaid.Add(inv.AmountPaid)
		resp.TotalOwed = resp.TotalOwed.Add(inv.Outstanding())
	}

	return resp, nil
}

func (s *financeService) Summary(ctx context.Context) (*dto.FinancialSummaryResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, &invoice.Filter{})
	if err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.List(ctx, &payment.Filter{})
	if err != nil {
		return nil, err
	}

	resp := &dto.FinancialSummaryResponse{
		TotalReceived: payment.TotalOf(payments),
	}

	now := time.Now().UTC()
	for _, inv := range invoices {
		inv.Reconcile(now)

		switch inv.InvoiceStatus {
		case types.InvoiceStatusDraft:
			resp.DraftTotal = resp.DraftTotal.Add(inv.Total)
		case types.InvoiceStatusSent:
			resp.SentTotal = resp.SentTotal.Add(inv.Total)
		case types.InvoiceStatusPartial:
			resp.PartialTotal = resp.PartialTotal.Add(inv.Total)
		case types.InvoiceStatusPaid:
			resp.PaidTotal = resp.PaidTotal.Add(inv.Total)
		case types.InvoiceStatusOverdue:
			resp.OverdueTotal = resp.OverdueTotal.Add(inv.Total)
		}

		resp.TotalOwed = resp.TotalOwed.Add(inv.Outstanding())
	}

	return resp, nil
}

// openInvoices lists every invoice that can still carry a balance, with
// the overdue sweep applied.
func (s *financeService) openInvoices(ctx context.Context) ([]*invoice.Invoice, error) {
	invoices, err := s.InvoiceRepo.List(ctx, &invoice.Filter{Statuses: openStatuses})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, inv := range invoices {
		inv.Reconcile(now)
	}
	return invoices, nil
}
