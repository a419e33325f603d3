package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/servexhq/servex/internal/domain/billing"
	"github.com/servexhq/servex/internal/domain/invoice"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/postgres"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

type invoiceRow struct {
	ID            string          `db:"id"`
	InvoiceNumber string          `db:"invoice_number"`
	ClientID      string          `db:"client_id"`
	TripID        *string         `db:"trip_id"`
	Currency      string          `db:"currency"`
	InvoiceStatus string          `db:"invoice_status"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Total         decimal.Decimal `db:"total"`
	AmountPaid    decimal.Decimal `db:"amount_paid"`
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       time.Time       `db:"due_date"`
	SentAt        *time.Time      `db:"sent_at"`
	SentBy        *string         `db:"sent_by"`
	PaidAt        *time.Time      `db:"paid_at"`
	Version       int             `db:"version"`
	TenantID      string          `db:"tenant_id"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	CreatedBy     string          `db:"created_by"`
	UpdatedBy     string          `db:"updated_by"`
}

type lineItemRow struct {
	ID          string          `db:"id"`
	InvoiceID   string          `db:"invoice_id"`
	ShipmentID  *string         `db:"shipment_id"`
	Description string          `db:"description"`
	Kind        string          `db:"kind"`
	Quantity    decimal.Decimal `db:"quantity"`
	Weight      decimal.Decimal `db:"weight_kg"`
	LengthCm    decimal.Decimal `db:"length_cm"`
	WidthCm     decimal.Decimal `db:"width_cm"`
	HeightCm    decimal.Decimal `db:"height_cm"`
	Rate        decimal.Decimal `db:"rate"`
	Amount      decimal.Decimal `db:"amount"`
	TenantID    string          `db:"tenant_id"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CreatedBy   string          `db:"created_by"`
	UpdatedBy   string          `db:"updated_by"`
}

type adjustmentRow struct {
	ID          string          `db:"id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	IsAddition  bool            `db:"is_addition"`
	TenantID    string          `db:"tenant_id"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CreatedBy   string          `db:"created_by"`
	UpdatedBy   string          `db:"updated_by"`
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.WithTx(ctx, func(txCtx context.Context) error {
		q := r.db.Querier(txCtx)

		_, err := sqlx.NamedExecContext(txCtx, q, `
			INSERT INTO invoices (
				id, invoice_number, client_id, trip_id, currency,
				invoice_status, subtotal, total, amount_paid,
				issue_date, due_date, sent_at, sent_by, paid_at, version,
				tenant_id, status, created_at, updated_at, created_by, updated_by
			) VALUES (
				:id, :invoice_number, :client_id, :trip_id, :currency,
				:invoice_status, :subtotal, :total, :amount_paid,
				:issue_date, :due_date, :sent_at, :sent_by, :paid_at, :version,
				:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
			)`, toInvoiceRow(inv))
		if err != nil {
			return ierr.WithError(err).
				WithHint("failed to create invoice").
				Mark(ierr.ErrDatabase)
		}

		return r.insertChildren(txCtx, inv)
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	q := r.db.Querier(ctx)

	var row invoiceRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT * FROM invoices
		WHERE id = $1 AND tenant_id = $2 AND status != $3`,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("invoice not found").
			WithHintf("no invoice found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	inv := fromInvoiceRow(row)
	if err := r.loadChildren(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *invoice.Filter) ([]*invoice.Invoice, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT * FROM invoices
		WHERE tenant_id = ? AND status != ?`
	args := []any{types.GetTenantID(ctx), types.StatusDeleted}

	if filter != nil {
		if filter.ClientID != "" {
			query += " AND client_id = ?"
			args = append(args, filter.ClientID)
		}
		if filter.TripID != "" {
			query += " AND trip_id = ?"
			args = append(args, filter.TripID)
		}
		if len(filter.Statuses) > 0 {
			in, inArgs, err := sqlx.In(" AND invoice_status IN (?)", filter.Statuses)
			if err != nil {
				return nil, ierr.WithError(err).
					WithHint("failed to build invoice query").
					Mark(ierr.ErrDatabase)
			}
			query += in
			args = append(args, inArgs...)
		}
	}

	query += " ORDER BY created_at DESC"
	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []invoiceRow
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	invoices := make([]*invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		inv := fromInvoiceRow(row)
		if err := r.loadChildren(ctx, inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// Update replaces the invoice document and its children. The version
// predicate rejects writes based on a stale read.
func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.WithTx(ctx, func(txCtx context.Context) error {
		q := r.db.Querier(txCtx)

		res, err := sqlx.NamedExecContext(txCtx, q, `
			UPDATE invoices SET
				invoice_status = :invoice_status,
				subtotal = :subtotal,
				total = :total,
				amount_paid = :amount_paid,
				due_date = :due_date,
				sent_at = :sent_at,
				sent_by = :sent_by,
				paid_at = :paid_at,
				version = :version,
				updated_at = :updated_at,
				updated_by = :updated_by
			WHERE id = :id AND tenant_id = :tenant_id AND version = :version - 1`,
			toInvoiceRow(inv))
		if err != nil {
			return ierr.WithError(err).
				WithHint("failed to update invoice").
				Mark(ierr.ErrDatabase)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return ierr.WithError(err).
				WithHint("failed to update invoice").
				Mark(ierr.ErrDatabase)
		}
		if affected == 0 {
			return ierr.NewError("invoice was modified concurrently").
				WithHint("reload the invoice and retry").
				WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
				Mark(ierr.ErrVersionConflict)
		}

		// children are replaced wholesale; the invoice is the aggregate root
		if _, err := q.ExecContext(txCtx,
			`DELETE FROM invoice_line_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return ierr.WithError(err).
				WithHint("failed to update invoice line items").
				Mark(ierr.ErrDatabase)
		}
		if _, err := q.ExecContext(txCtx,
			`DELETE FROM invoice_adjustments WHERE invoice_id = $1`, inv.ID); err != nil {
			return ierr.WithError(err).
				WithHint("failed to update invoice adjustments").
				Mark(ierr.ErrDatabase)
		}

		return r.insertChildren(txCtx, inv)
	})
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	q := r.db.Querier(ctx)

	res, err := q.ExecContext(ctx, `
		UPDATE invoices SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND status != $1`,
		types.StatusDeleted, time.Now().UTC(), id, types.GetTenantID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete invoice").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete invoice").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("no invoice found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// NextInvoiceNumber claims the next per-tenant sequence value, formatted
// as INV-<year>-<seq>.
func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	q := r.db.Querier(ctx)

	var seq int
	err := sqlx.GetContext(ctx, q, &seq, `
		INSERT INTO invoice_sequences (tenant_id, seq)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET seq = invoice_sequences.seq + 1
		RETURNING seq`,
		types.GetTenantID(ctx))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("failed to generate invoice number").
			Mark(ierr.ErrDatabase)
	}

	return fmt.Sprintf("INV-%d-%05d", time.Now().UTC().Year(), seq), nil
}

func (r *invoiceRepository) insertChildren(ctx context.Context, inv *invoice.Invoice) error {
	q := r.db.Querier(ctx)

	for _, li := range inv.LineItems {
		if _, err := sqlx.NamedExecContext(ctx, q, `
			INSERT INTO invoice_line_items (
				id, invoice_id, shipment_id, description, kind, quantity,
				weight_kg, length_cm, width_cm, height_cm, rate, amount,
				tenant_id, status, created_at, updated_at, created_by, updated_by
			) VALUES (
				:id, :invoice_id, :shipment_id, :description, :kind, :quantity,
				:weight_kg, :length_cm, :width_cm, :height_cm, :rate, :amount,
				:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
			)`, toLineItemRow(li)); err != nil {
			return ierr.WithError(err).
				WithHint("failed to save invoice line items").
				Mark(ierr.ErrDatabase)
		}
	}

	for _, adj := range inv.Adjustments {
		if _, err := sqlx.NamedExecContext(ctx, q, `
			INSERT INTO invoice_adjustments (
				id, invoice_id, description, amount, is_addition,
				tenant_id, status, created_at, updated_at, created_by, updated_by
			) VALUES (
				:id, :invoice_id, :description, :amount, :is_addition,
				:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
			)`, toAdjustmentRow(adj)); err != nil {
			return ierr.WithError(err).
				WithHint("failed to save invoice adjustments").
				Mark(ierr.ErrDatabase)
		}
	}

	return nil
}

func (r *invoiceRepository) loadChildren(ctx context.Context, inv *invoice.Invoice) error {
	q := r.db.Querier(ctx)

	var itemRows []lineItemRow
	if err := sqlx.SelectContext(ctx, q, &itemRows, `
		SELECT * FROM invoice_line_items
		WHERE invoice_id = $1 ORDER BY created_at, id`, inv.ID); err != nil {
		return ierr.WithError(err).
			WithHint("failed to load invoice line items").
			Mark(ierr.ErrDatabase)
	}
	for _, row := range itemRows {
		inv.LineItems = append(inv.LineItems, fromLineItemRow(row))
	}

	var adjRows []adjustmentRow
	if err := sqlx.SelectContext(ctx, q, &adjRows, `
		SELECT * FROM invoice_adjustments
		WHERE invoice_id = $1 ORDER BY created_at, id`, inv.ID); err != nil {
		return ierr.WithError(err).
			WithHint("failed to load invoice adjustments").
			Mark(ierr.ErrDatabase)
	}
	for _, row := range adjRows {
		inv.Adjustments = append(inv.Adjustments, fromAdjustmentRow(row))
	}

	return nil
}

func toInvoiceRow(inv *invoice.Invoice) invoiceRow {
	return invoiceRow{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		TripID:        inv.TripID,
		Currency:      inv.Currency,
		InvoiceStatus: inv.InvoiceStatus.String(),
		Subtotal:      inv.Subtotal,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		SentAt:        inv.SentAt,
		SentBy:        inv.SentBy,
		PaidAt:        inv.PaidAt,
		Version:       inv.Version,
		TenantID:      inv.TenantID,
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		CreatedBy:     inv.CreatedBy,
		UpdatedBy:     inv.UpdatedBy,
	}
}

func fromInvoiceRow(row invoiceRow) *invoice.Invoice {
	return &invoice.Invoice{
		ID:            row.ID,
		InvoiceNumber: row.InvoiceNumber,
		ClientID:      row.ClientID,
		TripID:        row.TripID,
		Currency:      row.Currency,
		InvoiceStatus: types.InvoiceStatus(row.InvoiceStatus),
		Subtotal:      row.Subtotal,
		Total:         row.Total,
		AmountPaid:    row.AmountPaid,
		IssueDate:     row.IssueDate,
		DueDate:       row.DueDate,
		SentAt:        row.SentAt,
		SentBy:        row.SentBy,
		PaidAt:        row.PaidAt,
		Version:       row.Version,
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

func toLineItemRow(li *invoice.LineItem) lineItemRow {
	return lineItemRow{
		ID:          li.ID,
		InvoiceID:   li.InvoiceID,
		ShipmentID:  li.ShipmentID,
		Description: li.Description,
		Kind:        string(li.Kind),
		Quantity:    li.Quantity,
		Weight:      li.Weight,
		LengthCm:    li.Dimensions.Length,
		WidthCm:     li.Dimensions.Width,
		HeightCm:    li.Dimensions.Height,
		Rate:        li.Rate,
		Amount:      li.Amount,
		TenantID:    li.TenantID,
		Status:      string(li.Status),
		CreatedAt:   li.CreatedAt,
		UpdatedAt:   li.UpdatedAt,
		CreatedBy:   li.CreatedBy,
		UpdatedBy:   li.UpdatedBy,
	}
}

func fromLineItemRow(row lineItemRow) *invoice.LineItem {
	li := &invoice.LineItem{
		ID:          row.ID,
		InvoiceID:   row.InvoiceID,
		ShipmentID:  row.ShipmentID,
		Description: row.Description,
		Kind:        types.LineItemKind(row.Kind),
		Quantity:    row.Quantity,
		Weight:      row.Weight,
		Dimensions: billing.Dimensions{
			Length: row.LengthCm,
			Width:  row.WidthCm,
			Height: row.HeightCm,
		},
		Rate:   row.Rate,
		Amount: row.Amount,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			Status:    types.Status(row.Status),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}
	// legacy rows predate the kind column
	li.NormalizeKind()
	return li
}

func toAdjustmentRow(adj *invoice.Adjustment) adjustmentRow {
	return adjustmentRow{
		ID:          adj.ID,
		InvoiceID:   adj.InvoiceID,
		Description: adj.Description,
		Amount:      adj.Amount,
		IsAddition:  adj.IsAddition,
		TenantID:    adj.TenantID,
		Status:      string(adj.Status),
		CreatedAt:   adj.CreatedAt,
		UpdatedAt:   adj.UpdatedAt,
		CreatedBy:   adj.CreatedBy,
		UpdatedBy:   adj.UpdatedBy,
	}
}

func fromAdjustmentRow(row adjustmentRow) *invoice.Adjustment {
	return &invoice.Adjustment{
		ID:          row.ID,
		InvoiceID:   row.InvoiceID,
		Description: row.Description,
		Amount:      row.Amount,
		IsAddition:  row.IsAddition,
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
