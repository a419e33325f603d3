package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/servexhq/servex/internal/domain/settings"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/postgres"
	"github.com/servexhq/servex/internal/types"
	"github.com/shopspring/decimal"
)

type settingsRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewSettingsRepository(db postgres.IClient, logger *logger.Logger) settings.Repository {
	return &settingsRepository{db: db, logger: logger}
}

// currencies are stored as a jsonb column: the table is small, read
// whole, and replaced whole on every owner edit.
type settingsRow struct {
	ID          string          `db:"id"`
	Currencies  []byte          `db:"currencies"`
	DefaultRate decimal.Decimal `db:"default_rate"`
	TenantID    string          `db:"tenant_id"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CreatedBy   string          `db:"created_by"`
	UpdatedBy   string          `db:"updated_by"`
}

func (r *settingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	q := r.db.Querier(ctx)

	var row settingsRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT * FROM tenant_settings
		WHERE tenant_id = $1 AND status != $2`,
		types.GetTenantID(ctx), types.StatusDeleted)
	if err == sql.ErrNoRows {
		return settings.DefaultSettings(types.GetTenantID(ctx)), nil
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to get settings").
			Mark(ierr.ErrDatabase)
	}
	return fromSettingsRow(row)
}

func (r *settingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	q := r.db.Querier(ctx)

	row, err := toSettingsRow(s)
	if err != nil {
		return err
	}

	_, err = sqlx.NamedExecContext(ctx, q, `
		INSERT INTO tenant_settings (
			id, currencies, default_rate,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :currencies, :default_rate,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (tenant_id) DO UPDATE SET
			currencies = EXCLUDED.currencies,
			default_rate = EXCLUDED.default_rate,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`, row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to save settings").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func toSettingsRow(s *settings.Settings) (settingsRow, error) {
	currencies, err := json.Marshal(s.Currencies)
	if err != nil {
		return settingsRow{}, ierr.WithError(err).
			WithHint("failed to encode currency table").
			Mark(ierr.ErrSystem)
	}
	return settingsRow{
		ID:          s.ID,
		Currencies:  currencies,
		DefaultRate: s.DefaultRate,
		TenantID:    s.TenantID,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CreatedBy:   s.CreatedBy,
		UpdatedBy:   s.UpdatedBy,
	}, nil
}

func fromSettingsRow(row settingsRow) (*settings.Settings, error) {
	var currencies []settings.Currency
	if err := json.Unmarshal(row.Currencies, &currencies); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to decode currency table").
			Mark(ierr.ErrSystem)
	}
	return &settings.Settings{
		ID:          row.ID,
		Currencies:  currencies,
		DefaultRate: row.DefaultRate,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			Status:    types.Status(row.Status),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}, nil
}
