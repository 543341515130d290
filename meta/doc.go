// Package meta provides a low-level wire codec for the Memcached meta
// protocol (mg, ms, md, ma, plus the me debug and mn no-op commands).
//
// It is deliberately narrow: Request and Response are plain data, WriteRequest
// serializes a Request to an io.Writer, and Decoder turns a byte stream into
// a sequence of Responses. None of it manages a connection or retries
// anything; that's left to the caller.
//
// # Core types
//
//   - Request / Flag: what to send.
//   - Response / Flags: what came back.
//   - Decoder: incremental response parser.
//
// # Encoding
//
//	req := meta.NewRequest(meta.CmdGet, "mykey", nil, meta.Flag{Type: meta.FlagReturnValue})
//	n, err := meta.WriteRequest(conn, req)
//
// # Decoding
//
// Decoder is push-based: feed it whatever bytes a Read off the socket
// returned, then drain as many complete responses as are available.
//
//	dec := meta.NewDecoder()
//	for {
//	    n, err := conn.Read(buf)
//	    if err != nil {
//	        return err
//	    }
//	    dec.Feed(buf[:n])
//	    for {
//	        resp, err := dec.Decode()
//	        if err == meta.ErrNeedMoreBytes {
//	            break
//	        }
//	        if err != nil {
//	            return err // protocol violation, stop using this Decoder
//	        }
//	        handle(resp)
//	    }
//	}
//
// Decoder never blocks and never reads from a socket itself; it only ever
// consumes bytes already handed to it via Feed. This lets a single TCP Read
// that returns a partial response get parsed correctly across multiple
// Feed/Decode rounds instead of requiring the whole response to arrive in
// one read.
//
// # Errors
//
// ClientError and GenericError mean the protocol state is no longer
// trustworthy and the connection should be closed. ServerError does not.
// ParseError means the Decoder itself got confused by the bytes it was fed
// (also fatal to the Decoder). ShouldCloseConnection centralizes that
// policy for any error value these functions return.
//
// # Design principles
//
//  1. Zero business logic — serialization and parsing only.
//  2. No connection management — the caller owns the socket.
//  3. No TTL/storage-mode semantics — those are a typed layer above this one.
//  4. Minimal allocations on the hot path.
package meta
