package service

import (
	"context"
	"time"

	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/domain/invoice"
	"github.com/servexhq/servex/internal/domain/payment"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceService owns invoice aggregation: it is the sole authority for
// subtotal and total. Client-submitted totals are only ever compared
// against the server computation, never persisted.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *invoice.Filter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error

	AddLineItem(ctx context.Context, invoiceID string, req dto.CreateLineItemRequest) (*dto.InvoiceResponse, error)
	RemoveLineItem(ctx context.Context, invoiceID, itemID string) (*dto.InvoiceResponse, error)
	SetLineItemRate(ctx context.Context, invoiceID, itemID string, req dto.SetLineItemRateRequest) (*dto.InvoiceResponse, error)
	AddAdjustment(ctx context.Context, invoiceID string, req dto.CreateAdjustmentRequest) (*dto.InvoiceResponse, error)
	RemoveAdjustment(ctx context.Context, invoiceID, adjustmentID string) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cli, err := s.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := s.InvoiceRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	termsDays := cli.PaymentTermsDays
	if termsDays == 0 {
		termsDays = s.Config.Billing.PaymentTermsDays
	}

	currency := req.Currency
	if currency == "" {
		currency = cli.DefaultCurrency
	}
	if currency == "" {
		currency = types.DefaultCanonicalCurrency
	}

	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUIDPrefixInvoice),
		InvoiceNumber: invoiceNumber,
		ClientID:      req.ClientID,
		TripID:        req.TripID,
		Currency:      currency,
		InvoiceStatus: types.InvoiceStatusDraft,
		AmountPaid:    decimal.Zero,
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, termsDays),
		Version:       1,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}

	// tenant settings win, then the client's negotiated rate, then the
	// configured fallback
	defaultRate := cfg.DefaultRate
	if defaultRate.IsZero() && cli.DefaultRate.IsPositive() {
		defaultRate = cli.DefaultRate
	}
	if defaultRate.IsZero() {
		defaultRate = s.Config.Billing.DefaultRatePerKg
	}

	for _, liReq := range req.LineItems {
		li := liReq.ToLineItem(ctx, inv.ID)
		if liReq.Rate == nil {
			li.Rate = defaultRate
		}
		if err := li.ComputeAmount(); err != nil {
			return nil, err
		}
		inv.LineItems = append(inv.LineItems, li)
	}

	for _, adjReq := range req.Adjustments {
		inv.Adjustments = append(inv.Adjustments, adjReq.ToAdjustment(ctx, inv.ID))
	}

	inv.ComputeTotals()

	if req.ExpectedTotal != nil {
		if err := inv.CheckSubmittedTotal(*req.ExpectedTotal); err != nil {
			return nil, err
		}
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		s.Logger.Errorw("failed to create invoice",
			"error", err,
			"client_id", req.ClientID)
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"total", inv.Total)

	resp := dto.NewInvoiceResponse(inv)
	resp.ClientName = cli.Name
	return resp, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	inv.AmountPaid = payment.TotalOf(payments)

	// overdue is derived lazily: every read reconciles the status so a
	// past-due invoice surfaces as overdue without a background job
	if inv.Reconcile(time.Now().UTC()) {
		inv.Version++
		inv.UpdatedAt = time.Now().UTC()
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return nil, err
		}
	}

	resp := dto.NewInvoiceResponse(inv)
	resp.Payments = payments
	if cli, err := s.ClientRepo.Get(ctx, inv.ClientID); err == nil {
		resp.ClientName = cli.Name
	}
	return resp, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *invoice.Filter) (*dto.ListInvoicesResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// the list is a read path like GetInvoice: past-due invoices are
	// swept to overdue and the flip is persisted
	now := time.Now().UTC()
	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Reconcile(now) {
			inv.Version++
			inv.UpdatedAt = now
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return nil, err
			}
		}
		items = append(items, dto.NewInvoiceResponse(inv))
	}

	return &dto.ListInvoicesResponse{Items: items, Total: len(items)}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Version != inv.Version {
		return nil, ierr.NewError("invoice was modified concurrently").
			WithHint("reload the invoice and retry").
			WithReportableDetails(map[string]any{
				"submitted_version": req.Version,
				"current_version":   inv.Version,
			}).
			Mark(ierr.ErrVersionConflict)
	}

	// totals are always recomputed server side before comparing
	inv.ComputeTotals()
	if req.ExpectedTotal != nil {
		if err := inv.CheckSubmittedTotal(*req.ExpectedTotal); err != nil {
			return nil, err
		}
	}

	if req.Status != nil && *req.Status != inv.InvoiceStatus {
		if err := s.applyStatusChange(ctx, inv, *req.Status); err != nil {
			return nil, err
		}
	}

	if err := s.saveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

// applyStatusChange handles explicit status edits. Finalizing to sent is
// the only user action; every other status is derived from payments. An
// invoice that went overdue before it was ever finalized (SentAt unset)
// can still be marked sent.
func (s *invoiceService) applyStatusChange(ctx context.Context, inv *invoice.Invoice, status types.InvoiceStatus) error {
	finalizable := inv.InvoiceStatus == types.InvoiceStatusDraft ||
		(inv.InvoiceStatus == types.InvoiceStatusOverdue && inv.SentAt == nil)

	if status == types.InvoiceStatusSent && finalizable {
		now := time.Now().UTC()
		userID := types.GetUserID(ctx)
		inv.InvoiceStatus = types.InvoiceStatusSent
		inv.SentAt = &now
		inv.SentBy = &userID
		return nil
	}

	return ierr.NewError("unsupported status change").
		WithHintf("cannot change invoice status from %s to %s", inv.InvoiceStatus, status).
		Mark(ierr.ErrInvalidState)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if inv.InvoiceStatus != types.InvoiceStatusDraft {
		return ierr.NewError("invoice is not a draft").
			WithHint("only draft invoices can be deleted").
			Mark(ierr.ErrInvalidState)
	}

	return s.InvoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) AddLineItem(ctx context.Context, invoiceID string, req dto.CreateLineItemRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := inv.EnsureDraft(); err != nil {
		return nil, err
	}

	li := req.ToLineItem(ctx, inv.ID)
	if req.Rate == nil {
		cfg, err := s.SettingsRepo.Get(ctx)
		if err != nil {
			return nil, err
		}
		li.Rate = cfg.DefaultRate
		if li.Rate.IsZero() {
			li.Rate = s.Config.Billing.DefaultRatePerKg
		}
	}
	if err := li.ComputeAmount(); err != nil {
		return nil, err
	}
	if err := li.Validate(); err != nil {
		return nil, err
	}

	inv.LineItems = append(inv.LineItems, li)
	inv.ComputeTotals()

	if err := s.saveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) RemoveLineItem(ctx context.Context, invoiceID, itemID string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := inv.EnsureDraft(); err != nil {
		return nil, err
	}

	found := false
	items := make([]*invoice.LineItem, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		if li.ID == itemID {
			found = true
			continue
		}
		items = append(items, li)
	}
	if !found {
		return nil, ierr.NewError("line item not found").
			WithHint("the line item does not exist on this invoice").
			WithReportableDetails(map[string]any{"item_id": itemID}).
			Mark(ierr.ErrNotFound)
	}

	inv.LineItems = items
	inv.ComputeTotals()

	if err := s.saveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) SetLineItemRate(ctx context.Context, invoiceID, itemID string, req dto.SetLineItemRateRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	// rate edits are allowed until the invoice is paid
	if err := inv.EnsureEditable(); err != nil {
		return nil, err
	}

	if req.Version != inv.Version {
		return nil, ierr.NewError("invoice was modified concurrently").
			WithHint("reload the invoice and retry").
			Mark(ierr.ErrVersionConflict)
	}

	var target *invoice.LineItem
	for _, li := range inv.LineItems {
		if li.ID == itemID {
			target = li
			break
		}
	}
	if target == nil {
		return nil, ierr.NewError("line item not found").
			WithHint("the line item does not exist on this invoice").
			WithReportableDetails(map[string]any{"item_id": itemID}).
			Mark(ierr.ErrNotFound)
	}

	if err := target.SetRate(req.Rate); err != nil {
		return nil, err
	}

	inv.ComputeTotals()

	if err := s.saveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) AddAdjustment(ctx context.Context, invoiceID string, req dto.CreateAdjustmentRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := inv.EnsureDraft(); err != nil {
		return nil, err
	}

	adj := req.ToAdjustment(ctx, inv.ID)
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	inv.Adjustments = append(inv.Adjustments, adj)
	inv.ComputeTotals()

	if err := s.saveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) RemoveAdjustment(ctx context.Context, invoiceID, adjustmentID string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := inv.EnsureDraft(); err != nil {
		return nil, err
	}

	found := false
	adjustments := make([]*invoice.Adjustment, 0, len(inv.Adjustments))
	for _, adj := range inv.Adjustments {
		if adj.ID == adjustmentID {
			found = true
			continue
		}
		adjustments = append(adjustments, adj)
	}
	if !found {
		return nil, ierr.NewError("adjustment not found").
			WithHint("the adjustment does not exist on this invoice").
			WithReportableDetails(map[string]any{"adjustment_id": adjustmentID}).
			Mark(ierr.ErrNotFound)
	}

	inv.Adjustments = adjustments
	inv.ComputeTotals()

	if err := s.saveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

// saveInvoice validates and persists the invoice with a version bump.
func (s *invoiceService) saveInvoice(ctx context.Context, inv *invoice.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	inv.Version++
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		s.Logger.Errorw("failed to save invoice",
			"error", err,
			"invoice_id", inv.ID)
		return err
	}
	return nil
}
