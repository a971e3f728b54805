package eventstream

import "context"

// Providers accepted by the eventstream.provider setting.
const (
	ProviderNone  = "none"
	ProviderKafka = "kafka"
)

// Publisher publishes turn events to an event stream backend.
type Publisher interface {
	PublishTurn(ctx context.Context, event *TurnEvent) error
	Close() error
}
