package messenger

import (
	"sync"
)

// Severity classifies a user-facing message
type Severity string

const (
	SeverityStatus  Severity = "status"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message is a single user-facing message emitted while handling a request
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Messenger collects user-facing messages. Messages are non-blocking and
// informational; errors are still returned through the normal error path.
type Messenger interface {
	AddStatus(text string)
	AddWarning(text string)
	AddError(text string)
	Messages() []Message
}

// Recorder is a request-scoped Messenger that accumulates messages so the
// API layer can surface them in the response body.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder creates an empty message recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) AddStatus(text string) {
	r.add(SeverityStatus, text)
}

func (r *Recorder) AddWarning(text string) {
	r.add(SeverityWarning, text)
}

func (r *Recorder) AddError(text string) {
	r.add(SeverityError, text)
}

// Messages returns a copy of the accumulated messages in emission order
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Recorder) add(severity Severity, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, Message{
		Severity: severity,
		Text:     text,
	})
}
