// Package nop provides an eventstream.Publisher that discards events.
package nop

import (
	"context"

	"github.com/papercomputeco/cassette/pkg/eventstream"
)

// Publisher is the eventstream publisher used when no stream is configured.
// It validates events and drops them.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishTurn validates input and otherwise does nothing.
func (p *Publisher) PublishTurn(_ context.Context, event *eventstream.TurnEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
