package memcache

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/asyncmc/memcache/meta"
)

// ErrPoolClosed is returned by a Pool's Acquire once its Close method has
// run. Callers see it wrapped as a ConnectionShutdown *Error (see
// ServerPool.execRequestDirect), matching spec's "every submission made
// after a connection reaches Finished fails with ConnectionShutdown".
var ErrPoolClosed = errors.New("memcache: pool is closed")

func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		Conn:    conn,
		Reader:  bufio.NewReader(conn),
		Writer:  bufio.NewWriter(conn),
		decoder: meta.NewDecoder(),
	}
}

// Connection wraps a network connection with buffered reader and writer for efficient I/O.
// It owns the socket exclusively for the lifetime of one Send call: a single
// goroutine writes the request and then reads exactly the one response that
// corresponds to it, matching the meta-protocol's positional FIFO
// correlation (spec §5: "no interleaving of requests is permitted on the
// wire").
type Connection struct {
	net.Conn
	Reader *bufio.Reader
	Writer *bufio.Writer

	decoder *meta.Decoder
}

// readScratch is the chunk size used to pull bytes off the wire into the
// decoder between Decode attempts.
const readScratch = 4096

// Send writes req to the connection and blocks for its response. Send is
// not safe for concurrent use on the same Connection: callers (the pool's
// Resource) serialize access so only one request/response round-trip is
// in flight on the wire at a time.
func (c *Connection) Send(req *meta.Request) (*meta.Response, error) {
	if _, err := meta.WriteRequest(c.Writer, req); err != nil {
		return nil, err
	}
	if err := c.Writer.Flush(); err != nil {
		return nil, err
	}
	return c.readResponse()
}

// readResponse feeds bytes from the socket into the incremental decoder
// (C4) until it produces a complete Response or a terminal error. This is
// the blocking-reader adaptation of the streaming decoder: a single
// connection only ever has one response outstanding, so there's no need
// for the decoder's NeedMoreBytes signal to cross a goroutine boundary.
func (c *Connection) readResponse() (*meta.Response, error) {
	var scratch [readScratch]byte
	for {
		resp, err := c.decoder.Decode()
		if err == nil {
			return resp, nil
		}
		if err != meta.ErrNeedMoreBytes {
			return nil, err
		}

		n, rerr := c.Reader.Read(scratch[:])
		if n > 0 {
			c.decoder.Feed(scratch[:n])
			if rerr == nil {
				continue
			}
			// A Read can return n > 0 together with a terminal error (e.g.
			// io.EOF) in the same call; give Decode one more chance at the
			// bytes just fed before surfacing rerr.
			if resp, derr := c.decoder.Decode(); derr == nil {
				return resp, nil
			}
		}
		if rerr != nil {
			return nil, c.mapReadError(rerr)
		}
	}
}

// mapReadError classifies a terminal read error against the decoder's
// framing state. An EOF hit while the decoder sits at a clean response
// boundary is a plain closed connection; an EOF hit mid-response is the
// unexpected-EOF case (spec §4.4), and since readResponse is only ever
// called while a request is in flight awaiting its reply, both surface as
// ConnectionShutdown (spec §4.5: "an EOF observed while awaiting a response
// for an in-flight request").
func (c *Connection) mapReadError(err error) error {
	if errors.Is(err, io.EOF) {
		if eofErr := c.decoder.EOF(); eofErr != nil {
			return errShutdown(eofErr)
		}
		return errShutdown(err)
	}
	return err
}

// Resource represents a connection resource from the pool.
type Resource interface {
	// Value returns the underlying connection.
	Value() *Connection

	// Release returns the connection to the pool for reuse.
	Release()

	// ReleaseUnused returns the connection to the pool without marking it as used.
	// Used for health checks that don't actually use the connection.
	ReleaseUnused()

	// Destroy closes the connection and removes it from the pool.
	Destroy()

	// CreationTime returns when the connection was created.
	CreationTime() time.Time

	// IdleDuration returns how long the connection has been idle.
	IdleDuration() time.Duration
}

// Pool manages a pool of connections.
type Pool interface {
	// Acquire gets a connection from the pool, creating one if necessary.
	// Blocks until a connection is available or context is canceled.
	Acquire(ctx context.Context) (Resource, error)

	// AcquireAllIdle acquires all idle connections from the pool.
	// Used for health checks and maintenance.
	AcquireAllIdle() []Resource

	// Close closes the pool and all connections.
	Close()

	// Stats returns a snapshot of pool statistics.
	Stats() PoolStats
}
