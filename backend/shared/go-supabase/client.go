// backend/shared/go-supabase/client.go
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"
	storage_go "github.com/supabase-community/storage-go"
)

const defaultTimeout = 15 * time.Second

// APIError is returned for every non-2xx answer of the backend.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase http error (%d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase http error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// errorBody covers both PostgREST ({message, code}) and storage ({error, message, statusCode}) shapes.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Client talks to the REST, RPC and storage endpoints of a Supabase project.
// Calls are never retried.
type Client struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client

	rest    *postgrest.Client
	storage *storage_go.Client
}

// NewClient builds a client for the project at baseURL, authenticating with apiKey
// (service-role key on the server side).
func NewClient(baseURL, apiKey string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("supabase base URL is empty")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid supabase base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid supabase base URL %q: scheme and host required", baseURL)
	}
	if apiKey == "" {
		return nil, errors.New("supabase API key is empty")
	}
	base := strings.TrimRight(parsed.String(), "/")
	headers := map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	}
	return &Client{
		BaseURL:    parsed,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		rest:       postgrest.NewClient(base+"/rest/v1", "public", headers),
		storage:    storage_go.NewClient(base+"/storage/v1", apiKey, map[string]string{"apikey": apiKey}),
	}, nil
}

// requestOptions holds optional request-specific headers.
type requestOptions struct {
	Prefer string
}

// doRequest performs a single HTTP request and decodes a JSON answer into out (if non-nil).
func (c *Client) doRequest(ctx context.Context, method, reqPath string, body any, out any, opts *requestOptions) error {
	// reqPath is already escaped segment by segment.
	fullURL := strings.TrimRight(c.BaseURL.String(), "/") + reqPath

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if opts != nil && opts.Prefer != "" {
		req.Header.Set("Prefer", opts.Prefer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleHTTPError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func handleHTTPError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var parsed errorBody
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		apiErr.Message = strings.TrimSpace(string(bodyBytes))
		return apiErr
	}
	apiErr.Code = parsed.Code
	apiErr.Message = parsed.Message
	if apiErr.Message == "" {
		apiErr.Message = parsed.Error
	}
	return apiErr
}

// escapeSegments path-escapes every segment of p while keeping the "/" separators.
func escapeSegments(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
