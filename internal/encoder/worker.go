package encoder

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Detect probes the deployment for the python encoder worker and returns a
// real encoder when it is present, the null encoder otherwise.
func Detect(pythonBin, script string, tolerance float64) Encoder {
	if _, err := exec.LookPath(pythonBin); err != nil {
		return Unavailable{}
	}
	if _, err := os.Stat(script); err != nil {
		return Unavailable{}
	}
	return NewPythonEncoder(pythonBin, script, tolerance)
}

// PythonEncoder runs the face_recognition model in a python worker process
// and talks to it over length-prefixed pipes. The worker reads JPEG frames
// from stdin and writes JSON results to a side-channel pipe (FD 3) so that
// stray prints inside python never corrupt the data stream.
//
// A single worker serves all calls; the mutex serializes access. If the
// worker dies mid-call, a fresh one is started on the next call.
type PythonEncoder struct {
	pythonBin string
	script    string
	tolerance float64

	mu       sync.Mutex
	cmd      *exec.Cmd
	stderr   *bytes.Buffer
	stdin    io.WriteCloser
	dataPipe io.ReadCloser
}

// NewPythonEncoder returns an encoder backed by the given worker script.
// The worker process is started lazily on first use.
func NewPythonEncoder(pythonBin, script string, tolerance float64) *PythonEncoder {
	return &PythonEncoder{pythonBin: pythonBin, script: script, tolerance: tolerance}
}

func (e *PythonEncoder) Available() bool { return true }

// Match reports whether two encodings are within the configured tolerance.
func (e *PythonEncoder) Match(known, probe Encoding) bool {
	return Distance(known, probe) <= e.tolerance
}

// errorResult captures the error object returned by the worker on failure.
type errorResult struct {
	Error string `json:"error"`
}

// Encode sends one JPEG image to the worker and decodes the faces it found.
func (e *PythonEncoder) Encode(ctx context.Context, img []byte) ([]Face, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.stdin == nil {
		if err := e.start(); err != nil {
			return nil, err
		}
	}

	resp, err := e.communicate(img)
	if err != nil {
		// The worker is in an unknown state; drop it so the next call
		// starts a fresh process.
		var logs string
		if e.stderr != nil {
			logs = strings.TrimSpace(e.stderr.String())
		}
		e.shutdown()
		if logs != "" {
			return nil, fmt.Errorf("encoder worker failed: %w (worker logs: %s)", err, logs)
		}
		return nil, fmt.Errorf("encoder worker failed: %w", err)
	}

	var faces []Face
	if jsonErr := json.Unmarshal(resp, &faces); jsonErr != nil {
		// Check if it's a worker error object (e.g. {"error": "..."}).
		var workerErr errorResult
		if json.Unmarshal(resp, &workerErr) == nil && workerErr.Error != "" {
			return nil, fmt.Errorf("encoder worker error: %s", workerErr.Error)
		}
		return nil, fmt.Errorf("malformed encoder response: %w", jsonErr)
	}
	return faces, nil
}

// Close stops the worker process. The encoder remains usable afterwards; a
// new worker is started on demand.
func (e *PythonEncoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown()
}

// start launches the worker process. Callers must hold e.mu.
func (e *PythonEncoder) start() error {
	cmd := exec.Command(e.pythonBin, "-u", e.script)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	// Side-channel pipe for clean data transfer. The write end appears as
	// FD 3 in the child.
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create data pipe: %w", err)
	}
	cmd.ExtraFiles = []*os.File{w}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		w.Close()
		r.Close()
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		w.Close()
		r.Close()
		return fmt.Errorf("encoder worker failed to start: %w", err)
	}

	// Close the write end in the parent so only the child holds it.
	w.Close()

	e.cmd = cmd
	e.stderr = stderr
	e.stdin = stdin
	e.dataPipe = r
	return nil
}

// communicate performs one request/response exchange with the worker.
// Protocol: [uint32 length][payload], big endian, in both directions.
func (e *PythonEncoder) communicate(data []byte) ([]byte, error) {
	if err := binary.Write(e.stdin, binary.BigEndian, uint32(len(data))); err != nil {
		return nil, err
	}
	if _, err := e.stdin.Write(data); err != nil {
		return nil, err
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(e.dataPipe, header); err != nil {
		return nil, err // catches worker startup crashes such as a missing python module
	}

	respLen := binary.BigEndian.Uint32(header)
	respBody := make([]byte, respLen)
	_, err := io.ReadFull(e.dataPipe, respBody)
	return respBody, err
}

// shutdown tears down the worker process, if any. Callers must hold e.mu.
func (e *PythonEncoder) shutdown() {
	if e.stdin != nil {
		e.stdin.Close()
	}
	if e.dataPipe != nil {
		e.dataPipe.Close()
	}
	if e.cmd != nil {
		e.cmd.Wait()
	}
	e.cmd, e.stdin, e.dataPipe = nil, nil, nil
}
