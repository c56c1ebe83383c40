package transport

import (
	"bytes"
	"errors"
	"math/rand"
	"net"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ct := New(client)
	st := New(server)

	sizes := []int{0, 1, 17, 1024, 65535}
	rng := rand.New(rand.NewSource(1))

	done := make(chan error, 1)
	go func() {
		for _, n := range sizes {
			typ, payload, err := st.ReadFrame()
			if err != nil {
				done <- err
				return
			}
			if typ != DM {
				done <- errors.New("unexpected frame type")
				return
			}
			if len(payload) != n {
				done <- errors.New("unexpected payload length")
				return
			}
		}
		done <- nil
	}()

	for _, n := range sizes {
		payload := make([]byte, n)
		rng.Read(payload)
		if err := ct.WriteFrame(DM, payload); err != nil {
			t.Fatalf("WriteFrame(%d bytes): %v", n, err)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("server-side read: %v", err)
	}
}

func TestFramePayloadContents(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ct := New(client)
	st := New(server)

	want := []byte{0x48, 0x04, 0x41, 0x01}
	errCh := make(chan error, 1)
	go func() { errCh <- ct.WriteFrame(DM, want) }()

	typ, got, err := st.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if typ != DM {
		t.Errorf("frame type = %v, want DM", typ)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("payload = % X, want % X", got, want)
	}
}

func TestHandshake(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ct := New(client)
	st := New(server)

	done := make(chan error, 1)
	go func() { done <- ct.Handshake() }()

	typ, payload, err := st.ReadFrame()
	if err != nil {
		t.Fatalf("server ReadFrame: %v", err)
	}
	if typ != IM {
		t.Fatalf("frame type = %v, want IM", typ)
	}
	if len(payload) != 4 {
		t.Fatalf("IM payload length = %d, want 4", len(payload))
	}
	version := uint16(payload[0])<<8 | uint16(payload[1])
	magic := uint16(payload[2])<<8 | uint16(payload[3])
	if version != ProtocolVersion || magic != Magic {
		t.Fatalf("IM payload = version %#04x magic %#04x, want %#04x/%#04x", version, magic, ProtocolVersion, Magic)
	}
	if err := st.WriteFrame(RM, nil); err != nil {
		t.Fatalf("server WriteFrame: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Handshake: %v", err)
	}
}

func TestHandshakeRejected(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ct := New(client)
	st := New(server)

	done := make(chan error, 1)
	go func() { done <- ct.Handshake() }()

	if _, _, err := st.ReadFrame(); err != nil {
		t.Fatalf("server ReadFrame: %v", err)
	}
	if err := st.WriteFrame(EM, []byte{0x00, 0x01}); err != nil {
		t.Fatalf("server WriteFrame: %v", err)
	}
	err := <-done
	if err == nil || !errors.Is(err, ErrHandshake) {
		t.Fatalf("Handshake() = %v, want ErrHandshake", err)
	}
}

func TestCloseSendsAndInvalidates(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	ct := New(client)
	st := New(server)

	done := make(chan error, 1)
	go func() { done <- ct.Close() }()

	typ, payload, err := st.ReadFrame()
	if err != nil {
		t.Fatalf("server ReadFrame: %v", err)
	}
	if typ != FM || len(payload) != 0 {
		t.Fatalf("got frame %v len %d, want FM len 0", typ, len(payload))
	}
	if err := <-done; err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := ct.WriteFrame(DM, nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("WriteFrame after Close = %v, want ErrNotConnected", err)
	}
}
