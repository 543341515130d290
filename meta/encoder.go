package meta

import (
	"io"
	"strings"
	"sync"
)

// bufferPool reuses the scratch buffers used to serialize one request line
// (plus, for ms, its data block) before a single Write to the connection.
var bufferPool = sync.Pool{
	New: func() any {
		// A typical request line is well under 256 bytes.
		return newBuffer(make([]byte, 0, 256))
	},
}

func getBuffer() *buffer {
	b := bufferPool.Get().(*buffer)
	b.data = b.data[:0]
	b.r = 0
	return b
}

func putBuffer(b *buffer) {
	bufferPool.Put(b)
}

// ValidateKey reports whether key is usable as a meta-protocol key: 1-250
// bytes, and free of whitespace/CR/LF unless the caller has set the base64
// flag (whose payload may itself be whitespace-free base64, but the check
// is relaxed for callers that pre-validated their own encoding).
func ValidateKey(key string, hasBase64Flag bool) error {
	n := len(key)
	if n < MinKeyLength {
		return &InvalidKeyError{Message: "key is empty"}
	}
	if n > MaxKeyLength {
		return &InvalidKeyError{Message: "key exceeds maximum length of 250 bytes"}
	}
	if !hasBase64Flag && strings.ContainsAny(key, " \t\r\n") {
		return &InvalidKeyError{Message: "key contains whitespace"}
	}
	return nil
}

// WriteRequest serializes req to wire format and writes it to w, returning
// the number of bytes written.
//
// Formats:
//
//	ms <key> <len>[ <flags>]\r\n<payload>\r\n
//	mg <key>[ <flags>]\r\n
//	md <key>[ <flags>]\r\n
//	ma <key>[ <flags>]\r\n
//	me <key>\r\n
//	mn\r\n
//
// WriteRequest is synchronous and total: encoding itself cannot fail except
// by precondition violation (invalid key); it returns an error rather than
// panicking since key validity depends on caller-supplied data.
func WriteRequest(w io.Writer, req *Request) (int, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if req.Command == CmdNoOp {
		buf.appendString(string(req.Command))
		buf.appendString(CRLF)
		return w.Write(buf.unread())
	}

	hasBase64 := req.HasFlag(FlagBase64Key)
	if err := ValidateKey(req.Key, hasBase64); err != nil {
		return 0, err
	}

	buf.appendString(string(req.Command))
	buf.appendByte(' ')
	buf.appendString(req.Key)

	if req.Command == CmdSet {
		buf.appendByte(' ')
		buf.appendInt(int64(len(req.Data)))
	}

	for _, f := range req.Flags {
		buf.appendByte(' ')
		buf.appendByte(byte(f.Type))
		if f.Token != "" {
			buf.appendString(f.Token)
		}
	}
	buf.appendString(CRLF)

	if req.Command == CmdSet {
		buf.appendRaw(req.Data)
		buf.appendString(CRLF)
	}

	return w.Write(buf.unread())
}
