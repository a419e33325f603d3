package client

import "context"

// Repository supplies client records. The invoice core only reads
// clients; lifecycle management lives with the intake surfaces.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
}
