package testutil

import (
	"context"
	"fmt"

	"github.com/servexhq/servex/internal/domain/client"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

// NewInMemoryClientStore creates a new in-memory client store
func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func copyClient(c *client.Client) *client.Client {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	if c == nil {
		return fmt.Errorf("client cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyClient(c))
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("client not found").
			WithHintf("no client found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) List(ctx context.Context) ([]*client.Client, error) {
	clients, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, c *client.Client, _ interface{}) bool {
			return c.TenantID == types.GetTenantID(ctx)
		},
		func(i, j *client.Client) bool {
			return i.Name < j.Name
		})
	if err != nil {
		return nil, err
	}

	out := make([]*client.Client, 0, len(clients))
	for _, c := range clients {
		out = append(out, copyClient(c))
	}
	return out, nil
}
