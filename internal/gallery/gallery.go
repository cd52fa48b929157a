// Package gallery builds the reference face gallery from a directory of
// labeled images.
package gallery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmarceau/facegate/internal/encoder"
)

// Entry pairs a person label with the face encoding derived from one
// reference image. Labels are not deduplicated: if two files share a stem,
// both entries exist and enumeration order decides which one matches first.
type Entry struct {
	Label    string
	Encoding encoder.Encoding
}

var validExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Loader scans a directory of reference images. The gallery is rebuilt from
// disk on every Load call; there is no cache.
type Loader struct {
	dir string
	enc encoder.Encoder
}

func NewLoader(dir string, enc encoder.Encoder) *Loader {
	return &Loader{dir: dir, enc: enc}
}

// Load returns the gallery entries in directory enumeration order.
// A missing directory or an absent encoding capability yields an empty
// gallery, never an error. Unreadable and faceless images are skipped.
func (l *Loader) Load(ctx context.Context) []Entry {
	if !l.enc.Available() {
		return nil
	}

	var entries []Entry
	for _, path := range Candidates(l.dir) {
		if entry, ok := LoadFile(ctx, path, l.enc); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Candidates lists the gallery image files in stable (lexical) order,
// filtered to the supported extensions case-insensitively.
func Candidates(dir string) []string {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if !validExts[strings.ToLower(filepath.Ext(item.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, item.Name()))
	}
	return files
}

// LoadFile encodes a single reference image. ok is false when the file is
// unreadable, the encoder fails on it, or no face is detected; such files
// never fail the whole load. When several faces are detected the first one
// wins. The label is the filename without path and extension.
func LoadFile(ctx context.Context, path string, enc encoder.Encoder) (Entry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, false
	}

	faces, err := enc.Encode(ctx, data)
	if err != nil || len(faces) == 0 {
		return Entry{}, false
	}

	name := filepath.Base(path)
	label := strings.TrimSuffix(name, filepath.Ext(name))
	return Entry{Label: label, Encoding: faces[0].Vec}, true
}
