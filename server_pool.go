package memcache

import (
	"context"
	"errors"

	"github.com/asyncmc/memcache/meta"
)

// NewServerPool sets up a pool of connections to a single address, dialed
// on demand through config's dialer (none is dialed here), and wraps execution in config's circuit breaker (if
// any). Spec §1 places connection pooling across *multiple* servers and
// consistent-hashing/sharding out of scope; ServerPool stays bound to one
// address, which is the natural home for the teacher's own per-server
// pool + breaker pairing (server_pool.go upstream).
func NewServerPool(addr string, config Config) (*ServerPool, error) {
	config.setDefaults()

	constructor := func(ctx context.Context) (*Connection, error) {
		dialCtx := ctx
		if config.DialTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, config.DialTimeout)
			defer cancel()
		}
		netConn, err := config.Dialer.DialContext(dialCtx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return NewConnection(netConn), nil
	}

	pool, err := config.NewPool(constructor, config.MaxSize)
	if err != nil {
		return nil, err
	}

	var breaker CircuitBreaker
	if config.NewCircuitBreaker != nil {
		breaker = config.NewCircuitBreaker(addr)
	}

	return &ServerPool{
		addr:           addr,
		pool:           pool,
		circuitBreaker: breaker,
	}, nil
}

// ServerPool wraps a single address's connection pool and (optionally) a
// circuit breaker guarding every request issued against it.
type ServerPool struct {
	addr           string
	pool           Pool
	circuitBreaker CircuitBreaker
}

func (sp *ServerPool) Address() string {
	return sp.addr
}

// ServerPoolStats contains stats for a single server pool.
type ServerPoolStats struct {
	Addr                string
	PoolStats           PoolStats
	CircuitBreakerState CircuitBreakerState
}

func (sp *ServerPool) Stats() ServerPoolStats {
	stats := ServerPoolStats{
		Addr:      sp.addr,
		PoolStats: sp.pool.Stats(),
	}
	if sp.circuitBreaker != nil {
		stats.CircuitBreakerState = sp.circuitBreaker.State()
	}
	return stats
}

// Close closes the underlying pool and every connection it holds.
func (sp *ServerPool) Close() {
	sp.pool.Close()
}

// Execute executes a single request-response cycle with proper connection management.
// It handles acquiring a connection, sending the request, reading the response, and
// releasing/destroying the connection based on error conditions.
// The request is wrapped with the server's circuit breaker, if one is configured.
func (sp *ServerPool) Execute(ctx context.Context, req *meta.Request) (*meta.Response, error) {
	if sp.circuitBreaker == nil {
		return sp.execRequestDirect(ctx, req)
	}

	return sp.circuitBreaker.Execute(func() (*meta.Response, error) {
		return sp.execRequestDirect(ctx, req)
	})
}

// execRequestDirect performs the actual request execution without circuit breaker.
func (sp *ServerPool) execRequestDirect(ctx context.Context, req *meta.Request) (*meta.Response, error) {
	resource, err := sp.pool.Acquire(ctx)
	if err != nil {
		if errors.Is(err, ErrPoolClosed) {
			return nil, errShutdown(err)
		}
		return nil, err
	}

	conn := resource.Value()

	resp, err := conn.Send(req)
	if err != nil {
		if meta.ShouldCloseConnection(err) {
			resource.Destroy()
		} else {
			resource.Release()
		}
		return nil, err
	}

	if resp.HasError() && meta.ShouldCloseConnection(resp.Error) {
		resource.Destroy()
		return resp, nil
	}

	resource.Release()
	return resp, nil
}
