package memcache

import (
	"context"

	"github.com/asyncmc/memcache/meta"
)

// Client is the package's public entry point: a single memcache server
// address, pooled and (optionally) circuit-broken, with the typed Commands
// surface layered on top.
type Client struct {
	*Commands

	pool  *ServerPool
	stats *clientStatsCollector
}

// NewClient builds a Client for addr from config (applying Config's
// defaults). No connection is dialed here; the pool dials on first use.
// The returned Client owns the pool: call Close when done with it.
func NewClient(addr string, config Config) (*Client, error) {
	config.setDefaults()

	pool, err := NewServerPool(addr, config)
	if err != nil {
		return nil, err
	}

	stats := newClientStatsCollector()
	execute := func(ctx context.Context, _ string, req *meta.Request) (*meta.Response, error) {
		resp, err := pool.Execute(ctx, req)
		if (err != nil && meta.ShouldCloseConnection(err)) ||
			(err == nil && resp.HasError() && meta.ShouldCloseConnection(resp.Error)) {
			stats.recordConnectionDestroyed()
		}
		return resp, err
	}

	return &Client{
		Commands: NewCommands(execute, stats, config.Clock),
		pool:     pool,
		stats:    stats,
	}, nil
}

// Close releases the connection pool and every connection it holds.
func (cl *Client) Close() {
	cl.pool.Close()
}

// Stats returns a snapshot of client-level operation counters.
func (cl *Client) Stats() ClientStats {
	return cl.stats.snapshot()
}

// PoolStats returns a snapshot of the underlying server pool and (if
// configured) circuit breaker state.
func (cl *Client) PoolStats() ServerPoolStats {
	return cl.pool.Stats()
}
