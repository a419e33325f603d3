package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/servexhq/servex/internal/domain/payment"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/postgres"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

type paymentRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewPaymentRepository(db postgres.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

type paymentRow struct {
	ID          string          `db:"id"`
	InvoiceID   *string         `db:"invoice_id"`
	ClientID    string          `db:"client_id"`
	Amount      decimal.Decimal `db:"amount"`
	Currency    string          `db:"currency"`
	Method      string          `db:"method"`
	Reference   string          `db:"reference"`
	Notes       string          `db:"notes"`
	PaymentDate time.Time       `db:"payment_date"`
	TenantID    string          `db:"tenant_id"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CreatedBy   string          `db:"created_by"`
	UpdatedBy   string          `db:"updated_by"`
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	q := r.db.Querier(ctx)

	_, err := sqlx.NamedExecContext(ctx, q, `
		INSERT INTO payments (
			id, invoice_id, client_id, amount, currency, method,
			reference, notes, payment_date,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :invoice_id, :client_id, :amount, :currency, :method,
			:reference, :notes, :payment_date,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`, toPaymentRow(p))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to record payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	q := r.db.Querier(ctx)

	var row paymentRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT * FROM payments
		WHERE id = $1 AND tenant_id = $2 AND status != $3`,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("payment not found").
			WithHintf("no payment found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return fromPaymentRow(row), nil
}

func (r *paymentRepository) List(ctx context.Context, filter *payment.Filter) ([]*payment.Payment, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT * FROM payments
		WHERE tenant_id = ? AND status != ?`
	args := []any{types.GetTenantID(ctx), types.StatusDeleted}

	if filter != nil {
		if filter.ClientID != "" {
			query += " AND client_id = ?"
			args = append(args, filter.ClientID)
		}
		if filter.InvoiceID != "" {
			query += " AND invoice_id = ?"
			args = append(args, filter.InvoiceID)
		}
	}

	query += " ORDER BY payment_date DESC, created_at DESC"
	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []paymentRow
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list payments").
			Mark(ierr.ErrDatabase)
	}

	payments := make([]*payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, fromPaymentRow(row))
	}
	return payments, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	return r.List(ctx, &payment.Filter{InvoiceID: invoiceID})
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	q := r.db.Querier(ctx)

	res, err := q.ExecContext(ctx, `
		UPDATE payments SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND status != $1`,
		types.StatusDeleted, time.Now().UTC(), id, types.GetTenantID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete payment").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete payment").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError("payment not found").
			WithHintf("no payment found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func toPaymentRow(p *payment.Payment) paymentRow {
	return paymentRow{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		ClientID:    p.ClientID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Method:      string(p.Method),
		Reference:   p.Reference,
		Notes:       p.Notes,
		PaymentDate: p.PaymentDate,
		TenantID:    p.TenantID,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		CreatedBy:   p.CreatedBy,
		UpdatedBy:   p.UpdatedBy,
	}
}

func fromPaymentRow(row paymentRow) *payment.Payment {
	return &payment.Payment{
		ID:          row.ID,
		InvoiceID:   row.InvoiceID,
		ClientID:    row.ClientID,
		Amount:      row.Amount,
		Currency:    row.Currency,
		Method:      types.PaymentMethod(row.Method),
		Reference:   row.Reference,
		Notes:       row.Notes,
		PaymentDate: row.PaymentDate,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			Status:    types.Status(row.Status),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}
}
