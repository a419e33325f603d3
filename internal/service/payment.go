package service

import (
	"context"
	"time"

	"github.com/servexhq/servex/internal/api/dto"
	"github.com/servexhq/servex/internal/domain/payment"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
)

// PaymentService records and removes payments and keeps invoice payment
// status reconciled with the accumulated amounts.
type PaymentService interface {
	RecordPayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *payment.Filter) (*dto.ListPaymentsResponse, error)
	DeletePayment(ctx context.Context, id string) error
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) RecordPayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cli, err := s.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	p := req.ToPayment(ctx)

	if req.InvoiceID != nil {
		inv, err := s.InvoiceRepo.Get(ctx, *req.InvoiceID)
		if err != nil {
			return nil, err
		}

		if s.Config.Billing.OverpaymentPolicy == types.OverpaymentPolicyReject {
			if inv.AmountPaid.Add(p.Amount).GreaterThan(inv.Total) {
				return nil, ierr.NewError("payment exceeds invoice total").
					WithHintf("payment of %s would exceed the outstanding balance of %s",
						p.Amount.StringFixed(2), inv.Outstanding().StringFixed(2)).
					WithReportableDetails(map[string]any{
						"amount":      p.Amount,
						"outstanding": inv.Outstanding(),
					}).
					Mark(ierr.ErrValidation)
			}
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		s.Logger.Errorw("failed to record payment",
			"error", err,
			"client_id", req.ClientID)
		return nil, err
	}

	if req.InvoiceID != nil {
		if err := s.reconcileInvoice(ctx, *req.InvoiceID); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("recorded payment",
		"payment_id", p.ID,
		"client_id", p.ClientID,
		"amount", p.Amount)

	resp := dto.NewPaymentResponse(p)
	resp.ClientName = cli.Name
	return resp, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, p), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *payment.Filter) (*dto.ListPaymentsResponse, error) {
	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, s.enrich(ctx, p))
	}

	return &dto.ListPaymentsResponse{Items: items, Total: len(items)}, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id string) error {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.PaymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	// removing a payment can drop a paid invoice back to partial, sent
	// or overdue
	if p.InvoiceID != nil {
		if err := s.reconcileInvoice(ctx, *p.InvoiceID); err != nil {
			return err
		}
	}

	s.Logger.Infow("deleted payment",
		"payment_id", id,
		"amount", p.Amount)
	return nil
}

// reconcileInvoice re-derives the invoice's paid amount from its current
// payments and applies the status transition rules.
func (s *paymentService) reconcileInvoice(ctx context.Context, invoiceID string) error {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return err
	}

	payments, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	inv.AmountPaid = payment.TotalOf(payments)
	inv.Reconcile(time.Now().UTC())

	inv.Version++
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		s.Logger.Errorw("failed to reconcile invoice after payment change",
			"error", err,
			"invoice_id", invoiceID)
		return err
	}

	return nil
}

func (s *paymentService) enrich(ctx context.Context, p *payment.Payment) *dto.PaymentResponse {
	resp := dto.NewPaymentResponse(p)
	if cli, err := s.ClientRepo.Get(ctx, p.ClientID); err == nil {
		resp.ClientName = cli.Name
	}
	if p.InvoiceID != nil {
		if inv, err := s.InvoiceRepo.Get(ctx, *p.InvoiceID); err == nil {
			resp.InvoiceNumber = inv.InvoiceNumber
		}
	}
	return resp
}
