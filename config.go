package memcache

import (
	"context"
	"time"
)

// DefaultMaxPoolSize is the connection pool size used when Config.MaxSize
// is left at zero.
const DefaultMaxPoolSize = 8

// DefaultDialTimeout bounds how long dialing a new connection may take
// when Config.DialTimeout is left at zero.
const DefaultDialTimeout = 5 * time.Second

// Config configures a Client/ServerPool: how to dial, how many connections
// to keep open to the one configured address, which pool implementation
// to use, and an optional per-address circuit breaker. It follows the
// teacher's own Config shape (client.go, server_pool.go): a plain struct
// with documented zero-value defaults applied by setDefaults, not a
// flag/env parsing framework.
type Config struct {
	// Dialer establishes the underlying TCP connection. Defaults to
	// DefaultDialer (plain net.Dialer).
	Dialer Dialer

	// DialTimeout bounds how long a single dial may take. Defaults to
	// DefaultDialTimeout.
	DialTimeout time.Duration

	// MaxSize is the maximum number of pooled connections to the address.
	// Defaults to DefaultMaxPoolSize.
	MaxSize int32

	// Clock supplies "now" for TTL math. Defaults to DefaultClock.
	Clock Clock

	// NewPool constructs the connection pool given a connection
	// constructor and the configured MaxSize. Defaults to NewPuddlePool.
	NewPool func(constructor func(ctx context.Context) (*Connection, error), maxSize int32) (Pool, error)

	// NewCircuitBreaker, if set, wraps every request executed against an
	// address in a CircuitBreaker. Nil (the default) means no breaker:
	// requests are never short-circuited.
	NewCircuitBreaker func(addr string) CircuitBreaker
}

func (c *Config) setDefaults() {
	if c.Dialer == nil {
		c.Dialer = DefaultDialer
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxPoolSize
	}
	if c.Clock == nil {
		c.Clock = DefaultClock
	}
	if c.NewPool == nil {
		c.NewPool = NewPuddlePool
	}
}
