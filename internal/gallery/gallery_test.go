package gallery

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nmarceau/facegate/internal/encoder"
)

// fakeEncoder derives behavior from the file content so tests can stage
// corrupt and faceless images without real image data.
type fakeEncoder struct{}

func (fakeEncoder) Available() bool { return true }

func (fakeEncoder) Encode(_ context.Context, img []byte) ([]encoder.Face, error) {
	switch {
	case bytes.Contains(img, []byte("corrupt")):
		return nil, errors.New("cannot identify image file")
	case bytes.Contains(img, []byte("faceless")):
		return nil, nil
	}
	vec := make(encoder.Encoding, 128)
	vec[0] = float64(img[0])
	return []encoder.Face{{Vec: vec}}, nil
}

func (fakeEncoder) Match(known, probe encoder.Encoding) bool {
	return encoder.Distance(known, probe) <= 0.6
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOrderAndSkipOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alice.png", "A")
	writeFile(t, dir, "broken.png", "corrupt")
	writeFile(t, dir, "carol.jpg", "C")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "dave.JPEG", "D") // extension filter is case-insensitive
	writeFile(t, dir, "empty.png", "faceless")

	entries := NewLoader(dir, fakeEncoder{}).Load(context.Background())

	want := []string{"alice", "carol", "dave"}
	if len(entries) != len(want) {
		t.Fatalf("Loaded %d entries, want %d", len(entries), len(want))
	}
	for i, label := range want {
		if entries[i].Label != label {
			t.Errorf("entries[%d].Label = %q, want %q", i, entries[i].Label, label)
		}
		if len(entries[i].Encoding) != 128 {
			t.Errorf("entries[%d] has encoding of length %d", i, len(entries[i].Encoding))
		}
	}
}

func TestLoadKeepsDuplicateLabels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alice.jpg", "1")
	writeFile(t, dir, "alice.png", "2")

	entries := NewLoader(dir, fakeEncoder{}).Load(context.Background())
	if len(entries) != 2 {
		t.Fatalf("Loaded %d entries, want both duplicates", len(entries))
	}
	if entries[0].Label != "alice" || entries[1].Label != "alice" {
		t.Errorf("Labels = %q, %q, want alice twice", entries[0].Label, entries[1].Label)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	entries := NewLoader(filepath.Join(t.TempDir(), "nope"), fakeEncoder{}).Load(context.Background())
	if len(entries) != 0 {
		t.Errorf("Expected empty gallery for a missing directory, got %d entries", len(entries))
	}
}

func TestLoadEncoderUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alice.png", "A")

	entries := NewLoader(dir, encoder.Unavailable{}).Load(context.Background())
	if len(entries) != 0 {
		t.Errorf("Expected empty gallery without the encoding capability, got %d entries", len(entries))
	}
}

func TestCandidatesSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alice.png", "A")
	if err := os.Mkdir(filepath.Join(dir, "archive.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	files := Candidates(dir)
	if len(files) != 1 || filepath.Base(files[0]) != "alice.png" {
		t.Errorf("Candidates = %v, want just alice.png", files)
	}
}
