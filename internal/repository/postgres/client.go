package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/servexhq/servex/internal/domain/client"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/postgres"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

type clientRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewClientRepository(db postgres.IClient, logger *logger.Logger) client.Repository {
	return &clientRepository{db: db, logger: logger}
}

type clientRow struct {
	ID               string          `db:"id"`
	Name             string          `db:"name"`
	Phone            string          `db:"phone"`
	Email            string          `db:"email"`
	CreditLimit      decimal.Decimal `db:"credit_limit"`
	PaymentTermsDays int             `db:"payment_terms_days"`
	DefaultCurrency  string          `db:"default_currency"`
	DefaultRate      decimal.Decimal `db:"default_rate"`
	TenantID         string          `db:"tenant_id"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	CreatedBy        string          `db:"created_by"`
	UpdatedBy        string          `db:"updated_by"`
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	q := r.db.Querier(ctx)

	_, err := sqlx.NamedExecContext(ctx, q, `
		INSERT INTO clients (
			id, name, phone, email, credit_limit, payment_terms_days,
			default_currency, default_rate,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :phone, :email, :credit_limit, :payment_terms_days,
			:default_currency, :default_rate,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`, toClientRow(c))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	q := r.db.Querier(ctx)

	var row clientRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT * FROM clients
		WHERE id = $1 AND tenant_id = $2 AND status != $3`,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("client not found").
			WithHintf("no client found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to get client").
			Mark(ierr.ErrDatabase)
	}
	return fromClientRow(row), nil
}

func (r *clientRepository) List(ctx context.Context) ([]*client.Client, error) {
	q := r.db.Querier(ctx)

	var rows []clientRow
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT * FROM clients
		WHERE tenant_id = $1 AND status != $2
		ORDER BY name`,
		types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list clients").
			Mark(ierr.ErrDatabase)
	}

	clients := make([]*client.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, fromClientRow(row))
	}
	return clients, nil
}

func toClientRow(c *client.Client) clientRow {
	return clientRow{
		ID:               c.ID,
		Name:             c.Name,
		Phone:            c.Phone,
		Email:            c.Email,
		CreditLimit:      c.CreditLimit,
		PaymentTermsDays: c.PaymentTermsDays,
		DefaultCurrency:  c.DefaultCurrency,
		DefaultRate:      c.DefaultRate,
		TenantID:         c.TenantID,
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		CreatedBy:        c.CreatedBy,
		UpdatedBy:        c.UpdatedBy,
	}
}

func fromClientRow(row clientRow) *client.Client {
	return &client.Client{
		ID:               row.ID,
		Name:             row.Name,
		Phone:            row.Phone,
		Email:            row.Email,
		CreditLimit:      row.CreditLimit,
		PaymentTermsDays: row.PaymentTermsDays,
		DefaultCurrency:  row.DefaultCurrency,
		DefaultRate:      row.DefaultRate,
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
