package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps [resty.Client]. It embeds the client to expose resty's
// request builder directly while leaving room for application-specific
// behavior; the webhook forwarder configures timeout and retries on it.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a new HTTPClient with a default-configured
// underlying resty client. Each call returns an independent instance with
// its own connection pool and state.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
