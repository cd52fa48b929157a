package engine

import "fmt"

// Kind identifies the outcome variant produced by an evaluation.
type Kind int

const (
	// SecretRejected: wrong secret, intruder photo written.
	SecretRejected Kind = iota
	// RecognitionUnavailable: correct secret but the encoding capability is absent.
	RecognitionUnavailable
	// RecognitionSkippedNoGallery: correct secret but no reference faces on disk.
	RecognitionSkippedNoGallery
	// PersonRecognized: correct secret and the probe matched a gallery entry.
	PersonRecognized
	// PersonUnknown: correct secret but no face matched, or no face was detected.
	PersonUnknown
	// CaptureFailed: the camera produced no frame.
	CaptureFailed
	// PersistFailed: the intruder photo could not be written.
	PersistFailed
)

func (k Kind) String() string {
	switch k {
	case SecretRejected:
		return "secret_rejected"
	case RecognitionUnavailable:
		return "recognition_unavailable"
	case RecognitionSkippedNoGallery:
		return "recognition_skipped_no_gallery"
	case PersonRecognized:
		return "person_recognized"
	case PersonUnknown:
		return "person_unknown"
	case CaptureFailed:
		return "capture_failed"
	case PersistFailed:
		return "persist_failed"
	default:
		return "unknown"
	}
}

// Outcome is the single structured result of one evaluation. Exactly one
// outcome is produced per call; front ends render it and nothing else.
type Outcome struct {
	Kind      Kind
	SecretOK  bool   // whether the submitted secret matched
	Label     string // recognized person, for PersonRecognized
	PhotoPath string // intruder photo, for SecretRejected
	Detail    string // human-readable failure detail
}

// Message renders the line both front ends show to a human.
func (o Outcome) Message() string {
	switch o.Kind {
	case SecretRejected:
		return fmt.Sprintf("Wrong secret, photo saved: %s", o.PhotoPath)
	case CaptureFailed:
		if o.SecretOK {
			return fmt.Sprintf("Correct secret. Could not run recognition: %s", o.Detail)
		}
		return fmt.Sprintf("Wrong secret. Photo capture failed: %s", o.Detail)
	case PersistFailed:
		return fmt.Sprintf("Wrong secret. Could not save photo: %s", o.Detail)
	case RecognitionUnavailable:
		return "Correct secret. Face recognition is not installed on this deployment, recognition skipped."
	case RecognitionSkippedNoGallery:
		return "Correct secret. No reference faces found, recognition skipped."
	case PersonRecognized:
		return fmt.Sprintf("Correct secret. Welcome back, %s!", o.Label)
	case PersonUnknown:
		return "Correct secret. Unknown face."
	default:
		return "Unknown outcome."
	}
}
