package camera

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"testing"
)

func TestSplitJpeg(t *testing.T) {
	// Construct a stream containing: [Garbage] [JPEG] [Garbage]
	jpegData := []byte{0xFF, 0xD8, 0x01, 0x02, 0x03, 0xFF, 0xD9}

	streamData := []byte{0x00, 0x00}
	streamData = append(streamData, jpegData...)
	streamData = append(streamData, []byte{0x00, 0x00}...)

	scanner := bufio.NewScanner(bytes.NewReader(streamData))
	scanner.Split(SplitJpeg)

	if !scanner.Scan() {
		t.Fatal("Expected to find a token, got EOF")
	}
	if !bytes.Equal(scanner.Bytes(), jpegData) {
		t.Errorf("Expected %X, got %X", jpegData, scanner.Bytes())
	}

	// The trailing garbage is not a JPEG, so scanning must stop.
	if scanner.Scan() {
		t.Error("Expected only one token, found more")
	}
}

func TestFirstFrame(t *testing.T) {
	// Encode a real JPEG and pad it with the kind of junk ffmpeg sometimes
	// leaves around the image2pipe output.
	src := image.NewRGBA(image.Rect(0, 0, 16, 9))
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00})
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("Failed to build test JPEG: %v", err)
	}
	buf.Write([]byte{0x00})

	frame, err := firstFrame(buf.Bytes())
	if err != nil {
		t.Fatalf("firstFrame failed: %v", err)
	}

	b := frame.Bounds()
	if b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("Decoded frame is %dx%d, want 16x9", b.Dx(), b.Dy())
	}
}

func TestFirstFrameEmptyStream(t *testing.T) {
	if _, err := firstFrame(nil); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Expected ErrNoFrame, got %v", err)
	}

	// Valid markers around undecodable bytes still yield no frame.
	garbage := []byte{0xFF, 0xD8, 0xBA, 0xAD, 0xFF, 0xD9}
	if _, err := firstFrame(garbage); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Expected ErrNoFrame for garbage JPEG, got %v", err)
	}
}
