// Package engine holds the verification pipeline: it turns a submitted
// secret, a live camera frame, and the reference gallery into exactly one
// structured outcome per call.
package engine

import (
	"context"
	"image"
	"log"

	"github.com/nmarceau/facegate/internal/encoder"
	"github.com/nmarceau/facegate/internal/gallery"
)

// Capturer grabs one still frame from the camera, blocking until a frame is
// ready or the capture fails.
type Capturer interface {
	Capture(ctx context.Context) (image.Image, error)
}

// PhotoRecorder persists an intruder frame and returns the written path.
type PhotoRecorder interface {
	Persist(img image.Image) (string, error)
}

// GallerySource produces the reference gallery for one evaluation.
type GallerySource interface {
	Load(ctx context.Context) []gallery.Entry
}

// EventSink records evaluation outcomes, e.g. to Postgres. Optional.
type EventSink interface {
	RecordOutcome(ctx context.Context, o Outcome) error
}

// Engine is the verification pipeline. The wrong-secret path and the
// recognition path are mutually exclusive and the former always wins:
// recognition is never attempted on a wrong secret.
type Engine struct {
	secret   string
	camera   Capturer
	encoder  encoder.Encoder
	gallery  GallerySource
	recorder PhotoRecorder
	events   EventSink // may be nil
	maxWidth int       // probe frames wider than this are downscaled
}

func New(secret string, cam Capturer, enc encoder.Encoder, src GallerySource, rec PhotoRecorder, maxWidth int) *Engine {
	return &Engine{
		secret:   secret,
		camera:   cam,
		encoder:  enc,
		gallery:  src,
		recorder: rec,
		maxWidth: maxWidth,
	}
}

// WithEvents attaches an optional outcome sink.
func (e *Engine) WithEvents(sink EventSink) *Engine {
	e.events = sink
	return e
}

// Evaluate runs the pipeline for one submission. Per call it performs at
// most one camera capture and at most one photo write.
func (e *Engine) Evaluate(ctx context.Context, submitted string) Outcome {
	return e.record(ctx, e.evaluate(ctx, submitted))
}

func (e *Engine) evaluate(ctx context.Context, submitted string) Outcome {
	if submitted != e.secret {
		return e.recordIntruder(ctx)
	}

	// Cheap short-circuit: no camera access when recognition cannot run.
	if !e.encoder.Available() {
		return Outcome{Kind: RecognitionUnavailable, SecretOK: true}
	}

	// The gallery is rebuilt from disk on every call.
	entries := e.gallery.Load(ctx)
	if len(entries) == 0 {
		return Outcome{Kind: RecognitionSkippedNoGallery, SecretOK: true}
	}

	frame, err := e.camera.Capture(ctx)
	if err != nil {
		return Outcome{Kind: CaptureFailed, SecretOK: true, Detail: err.Error()}
	}

	label, found, err := e.matchGallery(ctx, frame, entries)
	if err != nil {
		// A probe frame that cannot be encoded surfaces as a failed
		// recognition attempt on the accepted path.
		return Outcome{Kind: CaptureFailed, SecretOK: true, Detail: err.Error()}
	}
	if !found {
		return Outcome{Kind: PersonUnknown, SecretOK: true}
	}
	return Outcome{Kind: PersonRecognized, SecretOK: true, Label: label}
}

// recordIntruder handles the wrong-secret path: one capture, one photo.
func (e *Engine) recordIntruder(ctx context.Context) Outcome {
	frame, err := e.camera.Capture(ctx)
	if err != nil {
		return Outcome{Kind: CaptureFailed, Detail: err.Error()}
	}

	path, err := e.recorder.Persist(frame)
	if err != nil {
		return Outcome{Kind: PersistFailed, Detail: err.Error()}
	}
	return Outcome{Kind: SecretRejected, PhotoPath: path}
}

// record forwards the outcome to the event sink, best effort. A sink
// failure never alters the outcome the caller sees.
func (e *Engine) record(ctx context.Context, o Outcome) Outcome {
	if e.events != nil {
		if err := e.events.RecordOutcome(ctx, o); err != nil {
			log.Printf("access event not recorded: %v", err)
		}
	}
	return o
}
