package httpclient

import (
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client defines an interface for making HTTP requests
// This allows for easy mocking and testing of HTTP calls
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates an HTTP client with the given timeout, or 10s when zero
func NewStandardClient(timeout time.Duration) *StandardHTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
