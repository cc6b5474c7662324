// backend/shared/go-supabase/storage.go
package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateSignedURL asks the storage API for a time-limited URL to bucket/objectPath.
// The storage API answers with a path relative to /storage/v1; the returned URL is absolute.
func (c *Client) CreateSignedURL(ctx context.Context, bucket, objectPath string, expiresIn time.Duration) (string, error) {
	if bucket == "" || strings.Trim(objectPath, "/") == "" {
		return "", errors.New("sign: bucket and path are required")
	}
	seconds := int(expiresIn / time.Second)
	if seconds <= 0 {
		return "", fmt.Errorf("sign: expiry must be positive, got %s", expiresIn)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("sign %s/%s: %w", bucket, objectPath, err)
	}

	// The storage client joins bucket and path verbatim.
	out, err := c.storage.CreateSignedUrl(escapeSegments(bucket), escapeSegments(objectPath), seconds)
	if err != nil {
		return "", fmt.Errorf("sign %s/%s: %w", bucket, objectPath, err)
	}
	if out.SignedURL == c.storageBase() {
		return "", fmt.Errorf("sign %s/%s: empty signedURL in response", bucket, objectPath)
	}
	return out.SignedURL, nil
}

func (c *Client) storageBase() string {
	return strings.TrimRight(c.BaseURL.String(), "/") + "/storage/v1"
}
