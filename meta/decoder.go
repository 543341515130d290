package meta

import (
	"bytes"
	"errors"
	"strings"
)

// ErrNeedMoreBytes is returned by Decoder.Decode when the buffer fed so far
// does not contain a complete response. The caller should Feed more bytes
// from the connection and call Decode again; no bytes are consumed or lost
// across such calls.
var ErrNeedMoreBytes = errors.New("meta: need more bytes")

// ErrUnexpectedEOF is returned by Decoder.EOF when the stream ends while the
// decoder is mid-response (spec: "End-of-stream while in any state other
// than ReturnCode is an unexpected-EOF error").
var ErrUnexpectedEOF = errors.New("meta: unexpected end of stream mid-response")

type decoderState int

const (
	stateHeader decoderState = iota
	stateValue
)

// Decoder is an incremental, push-based parser for the meta-protocol
// response stream. It never blocks on I/O itself: callers feed it bytes as
// they arrive from the socket and call Decode in a loop until it reports
// ErrNeedMoreBytes, at which point the decoder holds onto its partial state
// until the next Feed.
//
// A Decoder is not safe for concurrent use; it is meant to be owned by a
// single reader goroutine, matching the single-reader connection actor.
type Decoder struct {
	buf   buffer
	state decoderState

	// pending holds the header already parsed while state == stateValue,
	// waiting for its data block.
	pending   *Response
	pendingLn int
}

// NewDecoder returns a Decoder ready to receive bytes via Feed.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends newly read bytes to the decoder's internal buffer.
func (d *Decoder) Feed(p []byte) {
	d.buf.appendRaw(p)
}

// EOF classifies a socket EOF observed by the caller: nil if the decoder is
// sitting at a clean response boundary (no bytes buffered, awaiting a fresh
// header), ErrUnexpectedEOF if the stream closed mid-response.
func (d *Decoder) EOF() error {
	if d.state == stateHeader && d.buf.len() == 0 {
		return nil
	}
	return ErrUnexpectedEOF
}

// Decode attempts to produce the next complete Response from the bytes fed
// so far. It returns ErrNeedMoreBytes if the buffer doesn't yet contain a
// full response; callers should Feed more data and retry. Any other
// non-nil error is a protocol violation and is terminal: the Decoder must
// not be reused afterward (the connection it serves should be closed).
func (d *Decoder) Decode() (*Response, error) {
	for {
		switch d.state {
		case stateHeader:
			resp, err := d.decodeHeader()
			if err != nil {
				return nil, err
			}
			if resp == nil {
				continue // VA header parsed; stateValue was set by decodeHeader
			}
			d.buf.compact()
			return resp, nil

		case stateValue:
			resp, err := d.decodeValue()
			if err != nil || resp == nil {
				return nil, err
			}
			d.buf.compact()
			return resp, nil
		}
	}
}

func (d *Decoder) decodeHeader() (*Response, error) {
	idx := d.buf.indexCRLF()
	if idx < 0 {
		return nil, ErrNeedMoreBytes
	}
	line := append([]byte(nil), d.buf.unread()[:idx]...)
	d.buf.advance(idx + 2)

	resp, err := parseHeaderLine(line)
	if err != nil {
		return nil, err
	}

	if resp.Status == StatusVA {
		d.pending = resp
		d.pendingLn = resp.pendingDataLen
		d.state = stateValue
		return nil, nil
	}
	return resp, nil
}

func (d *Decoder) decodeValue() (*Response, error) {
	need := d.pendingLn + 2
	if d.buf.len() < need {
		return nil, ErrNeedMoreBytes
	}
	rest := d.buf.unread()
	data := append([]byte(nil), rest[:d.pendingLn]...)
	terminator := rest[d.pendingLn : d.pendingLn+2]
	if !bytes.Equal(terminator, []byte(CRLF)) {
		return nil, &ParseError{Message: "missing CRLF after data block"}
	}
	d.buf.advance(need)

	resp := d.pending
	resp.Data = data
	d.pending = nil
	d.pendingLn = 0
	d.state = stateHeader
	return resp, nil
}

// parseHeaderLine parses one response line, excluding its terminating
// CRLF. For a VA response, resp.pendingDataLen carries the parsed length
// and resp.Data is left nil for the caller to fill in once the data block
// has arrived.
func parseHeaderLine(line []byte) (*Response, error) {
	s := string(line)

	if msg, ok := strings.CutPrefix(s, ErrorClientPrefix+" "); ok {
		return &Response{Error: &ClientError{Message: msg}}, nil
	}
	if msg, ok := strings.CutPrefix(s, ErrorServerPrefix+" "); ok {
		return &Response{Error: &ServerError{Message: msg}}, nil
	}
	if s == ErrorGeneric {
		return &Response{Error: &GenericError{Message: ErrorGeneric}}, nil
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, &ParseError{Message: "empty response line"}
	}
	if len(fields[0]) != 2 {
		return nil, &ParseError{Message: "malformed return code: " + fields[0]}
	}
	status := StatusType(fields[0])
	if !validStatus(status) {
		return nil, &ParseError{Message: "unknown return code: " + fields[0]}
	}

	resp := &Response{Status: status}
	rest := fields[1:]

	// ME carries free-form key=value debug pairs rather than flag tokens.
	if status == StatusME {
		if _, params, ok := strings.Cut(s, " "); ok {
			resp.Data = []byte(params)
		}
		return resp, nil
	}

	if status == StatusVA {
		if len(rest) == 0 {
			return nil, &ParseError{Message: "VA response missing data length"}
		}
		n, ok := parseNonNegativeInt(rest[0])
		if !ok {
			return nil, &ParseError{Message: "invalid data length in VA response: " + rest[0]}
		}
		resp.pendingDataLen = n
		rest = rest[1:]
	}

	flags, err := parseFlagFields(rest)
	if err != nil {
		return nil, err
	}
	resp.Flags = flags
	return resp, nil
}

func parseFlagFields(fields []string) (Flags, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	flags := make(Flags, 0, len(fields))
	for _, f := range fields {
		if !isKnownFlagByte(f[0]) {
			return nil, &ParseError{Message: "unknown flag byte: " + string(f[0])}
		}
		flags = append(flags, Flag{Type: FlagType(f[0]), Token: f[1:]})
	}
	return flags, nil
}

func parseNonNegativeInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func validStatus(s StatusType) bool {
	switch s {
	case StatusHD, StatusVA, StatusEN, StatusNF, StatusNS, StatusEX, StatusMN, StatusME:
		return true
	default:
		return false
	}
}

func isKnownFlagByte(c byte) bool {
	switch FlagType(c) {
	case FlagBase64Key, FlagReturnKey, FlagOpaque, FlagQuiet,
		FlagReturnCAS, FlagReturnClientFlags, FlagReturnSize, FlagReturnTTL,
		FlagReturnValue, FlagReturnHit, FlagReturnLastAccess,
		FlagCAS, FlagTTL, FlagClientFlags, FlagDelta, FlagMode,
		FlagWin, FlagStale, FlagAlreadyWon:
		return true
	default:
		return false
	}
}
