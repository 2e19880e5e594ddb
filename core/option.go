package core

import (
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"
)

type Option func(*Client)

// WithConfirmTimeout bounds how long Submit waits for a sent transaction to
// be confirmed.
func WithConfirmTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.confirmTimeout = timeout
		}
	}
}

// WithPollInterval sets the interval between signature status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithRateLimit limits the number of requests per second sent to each
// endpoint. Public endpoints throttle aggressive clients. A non-positive
// value disables the limit.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.rateLimit, c.rateBurst = rate.Inf, 1
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.rateLimit, c.rateBurst = rate.Limit(requestsPerSecond), burst
	}
}

// WithClock replaces the clock used for confirmation polling.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		c.clock = clk
	}
}
