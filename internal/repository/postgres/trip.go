package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/servexhq/servex/internal/domain/trip"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/postgres"
	"github.com/servexhq/servex/internal/types"
)

type tripRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewTripRepository(db postgres.IClient, logger *logger.Logger) trip.Repository {
	return &tripRepository{db: db, logger: logger}
}

type tripRow struct {
	ID            string         `db:"id"`
	TripNumber    string         `db:"trip_number"`
	DepartureDate time.Time      `db:"departure_date"`
	Route         pq.StringArray `db:"route"`
	TenantID      string         `db:"tenant_id"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	CreatedBy     string         `db:"created_by"`
	UpdatedBy     string         `db:"updated_by"`
}

func (r *tripRepository) Create(ctx context.Context, t *trip.Trip) error {
	q := r.db.Querier(ctx)

	_, err := sqlx.NamedExecContext(ctx, q, `
		INSERT INTO trips (
			id, trip_number, departure_date, route,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :trip_number, :departure_date, :route,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`, toTripRow(t))
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create trip").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *tripRepository) Get(ctx context.Context, id string) (*trip.Trip, error) {
	q := r.db.Querier(ctx)

	var row tripRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT * FROM trips
		WHERE id = $1 AND tenant_id = $2 AND status != $3`,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("trip not found").
			WithHintf("no trip found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to get trip").
			Mark(ierr.ErrDatabase)
	}
	return fromTripRow(row), nil
}

func (r *tripRepository) ListRecent(ctx context.Context, limit int) ([]*trip.Trip, error) {
	q := r.db.Querier(ctx)

	var rows []tripRow
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT * FROM trips
		WHERE tenant_id = $1 AND status != $2
		ORDER BY departure_date DESC
		LIMIT $3`,
		types.GetTenantID(ctx), types.StatusDeleted, limit)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list trips").
			Mark(ierr.ErrDatabase)
	}

	trips := make([]*trip.Trip, 0, len(rows))
	for _, row := range rows {
		trips = append(trips, fromTripRow(row))
	}
	return trips, nil
}

func toTripRow(t *trip.Trip) tripRow {
	return tripRow{
		ID:            t.ID,
		TripNumber:    t.TripNumber,
		DepartureDate: t.DepartureDate,
		Route:         pq.StringArray(t.Route),
		TenantID:      t.TenantID,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CreatedBy:     t.CreatedBy,
		UpdatedBy:     t.UpdatedBy,
	}
}

func fromTripRow(row tripRow) *trip.Trip {
	return &trip.Trip{
		ID:            row.ID,
		TripNumber:    row.TripNumber,
		DepartureDate: row.DepartureDate,
		Route:         []string(row.Route),
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
