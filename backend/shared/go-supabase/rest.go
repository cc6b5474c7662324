// backend/shared/go-supabase/rest.go
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RPC invokes the Postgres function fn through PostgREST with named params and
// decodes its JSON answer into out. Set-returning functions answer with an array.
func (c *Client) RPC(ctx context.Context, fn string, params any, out any) error {
	if fn == "" {
		return fmt.Errorf("rpc: empty function name")
	}
	if err := c.doRequest(ctx, http.MethodPost, "/rest/v1/rpc/"+escapeSegments(fn), params, out, nil); err != nil {
		return fmt.Errorf("rpc %s: %w", fn, err)
	}
	return nil
}

// Insert adds row to table without asking the server to echo it back.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	if table == "" {
		return fmt.Errorf("insert: empty table name")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	// Marshal here: a marshal failure inside the query builder sticks to the shared client.
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	if _, _, err := c.rest.From(table).Insert(json.RawMessage(body), false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
