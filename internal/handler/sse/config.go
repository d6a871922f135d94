package sse

import "time"

const (
	defaultKeepAlive = 10 * time.Second

	// Anything faster only adds traffic; proxies time out after tens of seconds
	minKeepAlive = time.Second
)

// Config holds configuration for SSE connections
type Config struct {
	// KeepAliveInterval is how often a comment line is written while the
	// backend is silent, so proxies do not drop the connection
	KeepAliveInterval time.Duration
}

// DefaultConfig returns the default SSE configuration
func DefaultConfig() *Config {
	return NewConfig(defaultKeepAlive)
}

// NewConfig builds a config from a keep-alive interval. Zero or negative
// selects the default and values under one second are raised to it.
func NewConfig(keepAlive time.Duration) *Config {
	switch {
	case keepAlive <= 0:
		keepAlive = defaultKeepAlive
	case keepAlive < minKeepAlive:
		keepAlive = minKeepAlive
	}
	return &Config{KeepAliveInterval: keepAlive}
}
