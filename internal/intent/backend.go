package intent

import "strings"

// Backend is the closed set of classification backends.
type Backend int

const (
	Distilbert Backend = iota + 1
	Roberta
	ZeroShot
)

// Task names follow the Hugging Face pipeline vocabulary.
const (
	TaskTextClassification     = "text-classification"
	TaskZeroShotClassification = "zero-shot-classification"
)

// topK is the number of scored labels requested from fixed-label backends.
const topK = 3

// DefaultIntents is the candidate label set used by Classify for the zero-shot backend.
var DefaultIntents = []string{"book_flight", "cancel_flight", "greeting", "weather", "play_music"}

// Backends lists every backend in a stable order.
func Backends() []Backend { return []Backend{Distilbert, Roberta, ZeroShot} }

// ParseBackend maps a wire name to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.TrimSpace(name) {
	case "distilbert":
		return Distilbert, nil
	case "roberta":
		return Roberta, nil
	case "zero_shot":
		return ZeroShot, nil
	default:
		return 0, ErrUnsupportedBackend(name)
	}
}

func (b Backend) String() string {
	switch b {
	case Distilbert:
		return "distilbert"
	case Roberta:
		return "roberta"
	case ZeroShot:
		return "zero_shot"
	default:
		return "unknown"
	}
}

// Task reports which inference task the backend serves.
func (b Backend) Task() string {
	if b == ZeroShot {
		return TaskZeroShotClassification
	}
	return TaskTextClassification
}

// FixedLabel reports whether the backend is a fixed-label classifier.
func (b Backend) FixedLabel() bool { return b == Distilbert || b == Roberta }
