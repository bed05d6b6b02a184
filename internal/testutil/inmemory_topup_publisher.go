package testutil

import (
	"context"
	"sync"

	ierr "github.com/devgate/monetize/internal/errors"
)

// InMemoryTopupPublisher implements publisher.TopupPublisher, recording
// published top-up IDs instead of writing to a message bus. A publish
// failure can be injected to exercise enqueue error paths.
type InMemoryTopupPublisher struct {
	mu         sync.Mutex
	published  []string
	failNext   bool
	shouldFail bool
}

func NewInMemoryTopupPublisher() *InMemoryTopupPublisher {
	return &InMemoryTopupPublisher{}
}

func (p *InMemoryTopupPublisher) Publish(ctx context.Context, topupID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shouldFail || p.failNext {
		p.failNext = false
		return ierr.NewError("publish failed").
			WithHint("Failed to enqueue topup").
			Mark(ierr.ErrSystem)
	}

	p.published = append(p.published, topupID)
	return nil
}

// Published returns the IDs published so far
func (p *InMemoryTopupPublisher) Published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]string, len(p.published))
	copy(result, p.published)
	return result
}

// FailNext makes the next publish fail
func (p *InMemoryTopupPublisher) FailNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = true
}

// SetFailing toggles persistent publish failure
func (p *InMemoryTopupPublisher) SetFailing(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shouldFail = fail
}

// Clear drops the recorded publishes
func (p *InMemoryTopupPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = nil
	p.failNext = false
	p.shouldFail = false
}
