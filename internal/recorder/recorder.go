// Package recorder persists intruder photos under timestamped names.
package recorder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// timeNow is a test seam.
var timeNow = time.Now

// Recorder writes captured frames into an append-only photo directory,
// creating it on demand.
type Recorder struct {
	dir string
}

func New(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Persist writes the frame as a PNG and returns the written path.
// Second-resolution timestamps are collision-free at human interaction
// rates (one attempt every few seconds).
func (r *Recorder) Persist(img image.Image) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}

	name := fmt.Sprintf("photo_%s.png", timeNow().Format("20060102_150405"))
	path := filepath.Join(r.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return path, nil
}
