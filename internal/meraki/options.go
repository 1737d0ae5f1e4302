package meraki

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL    = "https://api.meraki.com/api/v1"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (of optionFunc) apply(c *Client) { of(c) }

func OptionBaseURL(baseURL string) Option {
	return optionFunc(func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	})
}

func OptionHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		c.httpClient = hc
	})
}

func OptionTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) {
		c.timeout = d
	})
}

func OptionMaxRetries(n int) Option {
	return optionFunc(func(c *Client) {
		c.maxRetries = n
	})
}

func OptionLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *Client) {
		c.logger = logger
	})
}
