// Package encoder provides the optional face-encoding capability: turning
// images into fixed-length face descriptors and comparing them under a
// distance threshold. The real implementation delegates to a python worker
// running the face_recognition model; deployments without python or the
// model fall back to the null encoder.
package encoder

import (
	"context"
	"errors"
)

// Encoding is a 128-dimensional face descriptor. Encodings are derived
// deterministically from an image and immutable once produced.
type Encoding []float64

// Face is a single detected face: its bounding box and descriptor.
// Box follows the face_recognition convention [top, right, bottom, left].
type Face struct {
	Box [4]int   `json:"box"`
	Vec Encoding `json:"vec"`
}

// ErrUnavailable means the face-encoding capability is not installed on
// this deployment. It marks a mode, not a failure.
var ErrUnavailable = errors.New("face encoding capability is not available")

// Encoder produces face encodings from JPEG image bytes and compares them.
type Encoder interface {
	// Available reports whether the capability is usable on this deployment.
	Available() bool
	// Encode returns all faces detected in a JPEG image, in detection order.
	Encode(ctx context.Context, img []byte) ([]Face, error)
	// Match reports whether two encodings belong to the same person.
	Match(known, probe Encoding) bool
}

// Unavailable is the null encoder used when the capability is absent.
// Call sites stay free of scattered capability checks.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Encode(context.Context, []byte) ([]Face, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Match(Encoding, Encoding) bool { return false }
