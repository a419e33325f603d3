package testutil

import (
	"context"
	"fmt"

	"github.com/servexhq/servex/internal/domain/trip"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
)

// InMemoryTripStore implements trip.Repository
type InMemoryTripStore struct {
	*InMemoryStore[*trip.Trip]
}

// NewInMemoryTripStore creates a new in-memory trip store
func NewInMemoryTripStore() *InMemoryTripStore {
	return &InMemoryTripStore{
		InMemoryStore: NewInMemoryStore[*trip.Trip](),
	}
}

func copyTrip(t *trip.Trip) *trip.Trip {
	if t == nil {
		return nil
	}
	out := *t
	out.Route = append([]string(nil), t.Route...)
	return &out
}

func (s *InMemoryTripStore) Create(ctx context.Context, t *trip.Trip) error {
	if t == nil {
		return fmt.Errorf("trip cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, t.ID, copyTrip(t))
}

func (s *InMemoryTripStore) Get(ctx context.Context, id string) (*trip.Trip, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("trip not found").
			WithHintf("no trip found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyTrip(t), nil
}

func (s *InMemoryTripStore) ListRecent(ctx context.Context, limit int) ([]*trip.Trip, error) {
	trips, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, t *trip.Trip, _ interface{}) bool {
			return t.TenantID == types.GetTenantID(ctx)
		},
		func(i, j *trip.Trip) bool {
			return i.DepartureDate.After(j.DepartureDate)
		})
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(trips) > limit {
		trips = trips[:limit]
	}

	out := make([]*trip.Trip, 0, len(trips))
	for _, t := range trips {
		out = append(out, copyTrip(t))
	}
	return out, nil
}
