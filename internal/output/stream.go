package output

import (
	"github.com/temirov/bundle/internal/services/stream"
)

// StreamRenderer consumes the event sequence produced for one run.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}
