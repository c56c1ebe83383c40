// Package transport implements the DAIDE frame format and handshake over
// a net.Conn: [u8 type][u8 pad=0][u16 length_be][payload].
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/freeeve/daide-client/internal/errs"
)

// FrameType identifies one of the five DAIDE frame kinds.
type FrameType uint8

const (
	IM FrameType = 0 // Initial Message (handshake)
	RM FrameType = 1 // Representation Message
	DM FrameType = 2 // Diplomacy Message
	FM FrameType = 3 // Final Message (clean close)
	EM FrameType = 4 // Error Message
)

func (f FrameType) String() string {
	switch f {
	case IM:
		return "IM"
	case RM:
		return "RM"
	case DM:
		return "DM"
	case FM:
		return "FM"
	case EM:
		return "EM"
	default:
		return fmt.Sprintf("FrameType(%d)", f)
	}
}

// ProtocolVersion and Magic are the values the handshake's IM payload
// carries: [u16 version_be][u16 magic_be].
const (
	ProtocolVersion uint16 = 1
	Magic           uint16 = 0xDA10
)

// Transport errors are the shared internal/errs sentinels, re-exported
// under this package's own names for callers that only import transport.
var (
	ErrNotConnected = errs.ErrNotConnected
	ErrEOF          = errs.ErrEOF
	ErrHandshake    = errs.ErrHandshakeRejected
)

// Transport owns a single TCP connection and its frame-level I/O. It is
// not safe for concurrent use by more than one writer at a time; the core
// client serializes writes through a single goroutine's send path.
type Transport struct {
	conn      net.Conn
	connected bool
}

// Dial opens a TCP connection to addr (host:port).
func Dial(addr string) (*Transport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial: %w", err)
	}
	return New(conn), nil
}

// New wraps an already-established connection (used by tests against a
// loopback pipe, and by servers accepting a connection).
func New(conn net.Conn) *Transport {
	return &Transport{conn: conn, connected: true}
}

// SetDeadline applies a read/write deadline to the underlying connection.
// The core does not impose one by default; callers that want timeout
// behaviour call this explicitly.
func (t *Transport) SetDeadline(d time.Time) error {
	if !t.connected {
		return ErrNotConnected
	}
	return t.conn.SetDeadline(d)
}

// WriteFrame writes one frame atomically: header then payload as a single
// buffer, so a partial write can't interleave with a concurrent writer.
func (t *Transport) WriteFrame(typ FrameType, payload []byte) error {
	if !t.connected {
		return ErrNotConnected
	}
	buf := make([]byte, 4+len(payload))
	buf[0] = byte(typ)
	buf[1] = 0
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(payload)))
	copy(buf[4:], payload)
	if _, err := t.conn.Write(buf); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// ReadFrame reads exactly 4 header bytes, then the declared payload
// length, retrying on partial reads via io.ReadFull.
func (t *Transport) ReadFrame() (FrameType, []byte, error) {
	if !t.connected {
		return 0, nil, ErrNotConnected
	}
	var header [4]byte
	if _, err := io.ReadFull(t.conn, header[:]); err != nil {
		return 0, nil, wrapReadErr(err)
	}
	typ := FrameType(header[0])
	length := binary.BigEndian.Uint16(header[2:4])
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(t.conn, payload); err != nil {
			return 0, nil, wrapReadErr(err)
		}
	}
	return typ, payload, nil
}

func wrapReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrEOF, err)
	}
	return fmt.Errorf("transport: read: %w", err)
}

// Handshake sends the IM frame and reads the server's reply. A non-EM
// reply (RM, conventionally) indicates acceptance; an EM reply is
// surfaced as ErrHandshake.
func (t *Transport) Handshake() error {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint16(payload[0:2], ProtocolVersion)
	binary.BigEndian.PutUint16(payload[2:4], Magic)
	if err := t.WriteFrame(IM, payload); err != nil {
		return err
	}
	typ, payload, err := t.ReadFrame()
	if err != nil {
		return err
	}
	if typ == EM {
		return fmt.Errorf("%w: %v", ErrHandshake, payload)
	}
	return nil
}

// Close sends a zero-payload FM then tears down the socket. Subsequent
// writes fail with ErrNotConnected.
func (t *Transport) Close() error {
	if !t.connected {
		return ErrNotConnected
	}
	writeErr := t.WriteFrame(FM, nil)
	t.connected = false
	closeErr := t.conn.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("transport: close: %w", closeErr)
	}
	return nil
}
