package supabase

import (
	"context"
	"fmt"
	"net/http"
)

// Ping checks that the project answers and accepts the API key.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodGet, "/auth/v1/health", nil, nil, nil); err != nil {
		return fmt.Errorf("supabase health: %w", err)
	}
	return nil
}
