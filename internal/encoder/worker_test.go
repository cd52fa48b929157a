package encoder

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"
)

// MockCloser wraps a bytes.Buffer to satisfy io.ReadCloser and
// io.WriteCloser, so in-memory buffers stand in for OS pipes.
type MockCloser struct {
	*bytes.Buffer
}

func (m *MockCloser) Close() error { return nil }

// newMockEncoder builds a PythonEncoder whose pipes are in-memory buffers.
// The response buffer is pre-filled with one length-prefixed payload.
func newMockEncoder(response []byte) (*PythonEncoder, *MockCloser) {
	stdin := &MockCloser{Buffer: new(bytes.Buffer)}
	dataPipe := &MockCloser{Buffer: new(bytes.Buffer)}

	binary.Write(dataPipe, binary.BigEndian, uint32(len(response)))
	dataPipe.Write(response)

	// cmd stays nil: process management is not under test, the protocol is.
	e := &PythonEncoder{
		tolerance: 0.6,
		stdin:     stdin,
		dataPipe:  dataPipe,
	}
	return e, stdin
}

func TestEncodeProtocol(t *testing.T) {
	resp := []byte(`[{"box":[10,20,30,40],"vec":[0.5,0.25]}]`)
	e, stdin := newMockEncoder(resp)

	frame := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	faces, err := e.Encode(context.Background(), frame)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Verify what was sent to the worker: 4-byte header plus the frame.
	sent := stdin.Bytes()
	if len(sent) != 4+len(frame) {
		t.Errorf("Expected %d bytes sent, got %d", 4+len(frame), len(sent))
	}
	if got := binary.BigEndian.Uint32(sent[:4]); got != uint32(len(frame)) {
		t.Errorf("Header length = %d, want %d", got, len(frame))
	}

	if len(faces) != 1 {
		t.Fatalf("Expected 1 face, got %d", len(faces))
	}
	if faces[0].Box != [4]int{10, 20, 30, 40} {
		t.Errorf("Unexpected box: %v", faces[0].Box)
	}
	if math.Abs(faces[0].Vec[0]-0.5) > 1e-9 {
		t.Errorf("Expected vec[0] approx 0.5, got %f", faces[0].Vec[0])
	}
}

func TestEncodeZeroFaces(t *testing.T) {
	e, _ := newMockEncoder([]byte(`[]`))

	faces, err := e.Encode(context.Background(), []byte{0x01})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("Expected no faces, got %d", len(faces))
	}
}

func TestEncodeWorkerError(t *testing.T) {
	e, _ := newMockEncoder([]byte(`{"error":"cannot identify image file"}`))

	_, err := e.Encode(context.Background(), []byte{0x01})
	if err == nil {
		t.Fatal("Expected an error for a worker error object")
	}
	if want := "cannot identify image file"; !bytes.Contains([]byte(err.Error()), []byte(want)) {
		t.Errorf("Error %q does not mention %q", err, want)
	}
}

func TestEncodeTruncatedResponse(t *testing.T) {
	stdin := &MockCloser{Buffer: new(bytes.Buffer)}
	dataPipe := &MockCloser{Buffer: new(bytes.Buffer)}
	// Header promises 100 bytes but the pipe holds only 2.
	binary.Write(dataPipe, binary.BigEndian, uint32(100))
	dataPipe.Write([]byte{0x00, 0x01})

	e := &PythonEncoder{stdin: stdin, dataPipe: dataPipe}
	if _, err := e.Encode(context.Background(), []byte{0x01}); err == nil {
		t.Fatal("Expected an error for a truncated response")
	}
	// The dead worker must be dropped so the next call restarts it.
	if e.stdin != nil || e.dataPipe != nil {
		t.Error("Worker pipes were not cleared after a protocol failure")
	}
}
