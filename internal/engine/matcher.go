package engine

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"

	"github.com/nmarceau/facegate/internal/gallery"
)

// matchGallery encodes the probe frame and compares it against the gallery
// in load order. The FIRST entry within tolerance wins; the closest one is
// deliberately not chosen, so duplicate references resolve deterministically
// by position.
func (e *Engine) matchGallery(ctx context.Context, frame image.Image, entries []gallery.Entry) (string, bool, error) {
	probe, err := e.probeJPEG(frame)
	if err != nil {
		return "", false, err
	}

	faces, err := e.encoder.Encode(ctx, probe)
	if err != nil {
		return "", false, err
	}
	if len(faces) == 0 {
		// Nobody in front of the camera; the caller reports an unknown person.
		return "", false, nil
	}

	enc := faces[0].Vec
	for _, entry := range entries {
		if e.encoder.Match(entry.Encoding, enc) {
			return entry.Label, true, nil
		}
	}
	return "", false, nil
}

// probeJPEG converts a captured frame into the RGB JPEG form the encoder
// expects, downscaling wide frames to keep encoding cheap.
func (e *Engine) probeJPEG(frame image.Image) ([]byte, error) {
	b := frame.Bounds()
	if e.maxWidth > 0 && b.Dx() > e.maxWidth {
		h := b.Dy() * e.maxWidth / b.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, e.maxWidth, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, b, xdraw.Src, nil)
		frame = dst
	} else if _, ok := frame.(*image.RGBA); !ok {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Copy(dst, image.Point{}, frame, b, xdraw.Src, nil)
		frame = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
