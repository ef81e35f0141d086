package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around resty.Client. It embeds *resty.Client to
// expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://localhost:3000", 15*time.Second)
//	resp, err := client.R().Get("/weights")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client bound to baseURL. A zero
// timeout leaves resty's default (none).
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &HTTPClient{Client: c}
}
