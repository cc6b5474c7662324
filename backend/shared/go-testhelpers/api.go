package testhelpers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/cookiejar"

	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/stretchr/testify/require"
)

// BuildAuthRequest sets standard headers for authenticated test requests. Browser
// sessions carry the token in the access-token cookie, other clients in the
// Authorization header.
func (h *TestHelper) BuildAuthRequest(method, reqURL, jwtString string, body []byte, useCookie bool) *http.Request {
	req, err := http.NewRequestWithContext(h.Ctx, method, reqURL, bytes.NewReader(body))
	require.NoError(h.T, err)

	if jwtString != "" {
		if useCookie {
			req.AddCookie(&http.Cookie{
				Name:  middleware.AccessTokenCookieName,
				Value: jwtString,
				Path:  "/",
			})
		} else {
			req.Header.Set("Authorization", "Bearer "+jwtString)
		}
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", h.AppName+"-integration")
	return req
}

// NewHTTPClient creates an HTTP client with a cookie jar for session management.
func (h *TestHelper) NewHTTPClient() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(h.T, err)
	return &http.Client{Jar: jar}
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request, client *http.Client) *http.Response {
	if client.Jar != nil {
		client.Jar.SetCookies(req.URL, req.Cookies())
	}
	resp, err := client.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}
