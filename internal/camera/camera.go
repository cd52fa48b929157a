// Package camera grabs single still frames from a video device through a
// one-shot ffmpeg invocation.
package camera

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const megabyte = 1024 * 1024

var (
	// ErrUnavailable means the camera device could not be opened at all.
	ErrUnavailable = errors.New("camera device is unavailable")
	// ErrNoFrame means the device was opened but produced no usable frame.
	ErrNoFrame = errors.New("no frame captured from camera")
)

// Device is a shared exclusive resource: the mutex guarantees that only one
// capture is in flight system-wide and that the device handle is released on
// every exit path before the next caller acquires it.
type Device struct {
	path    string
	timeout time.Duration

	mu sync.Mutex
}

// NewDevice wraps a video device path. timeout bounds a single capture;
// zero means no bound beyond the caller's context.
func NewDevice(path string, timeout time.Duration) *Device {
	return &Device{path: path, timeout: timeout}
}

// Capture opens the device, reads one frame, and releases the device.
func (d *Device) Capture(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrUnavailable)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	cmd := grabCmd(ctx, d.path)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	out, err := cmd.Output()
	if err != nil {
		if detail := strings.TrimSpace(stderrBuf.String()); detail != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, detail)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return firstFrame(out)
}

// grabCmd builds the one-shot frame grab. MJPEG over image2pipe keeps the
// output splittable with SplitJpeg.
func grabCmd(ctx context.Context, device string) *exec.Cmd {
	return exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2", "-i", device,
		"-frames:v", "1",
		"-f", "image2pipe", "-vcodec", "mjpeg", "-",
	)
}

// firstFrame extracts and decodes the first JPEG in the stream.
func firstFrame(stream []byte) (image.Image, error) {
	scanner := bufio.NewScanner(bytes.NewReader(stream))
	scanner.Buffer(make([]byte, megabyte), 64*megabyte)
	scanner.Split(SplitJpeg)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
		}
		return nil, ErrNoFrame
	}

	img, err := jpeg.Decode(bytes.NewReader(scanner.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return img, nil
}
