package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// DefaultClient sends Go's default headers
	// Used for the index page, which is fetched once
	DefaultClient ClientType = "default"

	// BrowserClient uses a fixed browser-like identity to avoid 406 (Not Acceptable) errors
	BrowserClient ClientType = "browser"

	// RotatingClient picks a random browser identity for every request
	// Used for document downloads so the request pattern is less uniform
	RotatingClient ClientType = "rotating"
)

// DefaultTimeout bounds a single request including reading the body
const DefaultTimeout = 30 * time.Second

// ErrUnexpectedStatus is wrapped by StatusError for every non-200 response
var ErrUnexpectedStatus = errors.New("unexpected status code")

// StatusError reports the status code of a non-200 response
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
	rotator    *IdentityRotator
}

// NewClient creates a new HTTP client with the specified type.
// A RotatingClient created here uses the default identity pool.
func NewClient(clientType ClientType) *HTTPClient {
	var rotator *IdentityRotator
	if clientType == RotatingClient {
		rotator = NewIdentityRotator(nil, "")
	}
	return newClient(clientType, rotator, DefaultTimeout)
}

// NewRotatingClient creates a client that presents a fresh identity from rotator on every request
func NewRotatingClient(rotator *IdentityRotator, timeout time.Duration) *HTTPClient {
	if rotator == nil {
		rotator = NewIdentityRotator(nil, "")
	}
	return newClient(RotatingClient, rotator, timeout)
}

func newClient(clientType ClientType, rotator *IdentityRotator, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow up to 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &HTTPClient{
		client:     client,
		clientType: clientType,
		rotator:    rotator,
	}
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// GetText fetches url and returns the body as text.
// Any status other than 200 yields a *StatusError.
func (c *HTTPClient) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// setHeaders sets the appropriate headers based on client type
func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", DefaultUserAgents[2])
		req.Header.Set("Accept", DefaultAccept)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	case RotatingClient:
		identity := c.rotator.Next()
		req.Header.Set("User-Agent", identity.UserAgent)
		req.Header.Set("Accept", identity.Accept)

	default:
		// Default: use Go's default User-Agent
	}
}
