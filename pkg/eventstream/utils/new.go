package eventstreamutils

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/papercomputeco/cassette/pkg/eventstream"
	"github.com/papercomputeco/cassette/pkg/eventstream/kafka"
	"github.com/papercomputeco/cassette/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	// Provider is eventstream.ProviderNone (or empty) or eventstream.ProviderKafka.
	Provider string

	Brokers      []string
	Topic        string
	WriteTimeout time.Duration

	Logger *slog.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.Provider {
	case eventstream.ProviderNone, "":
		return nop.NewPublisher(), nil

	case eventstream.ProviderKafka:
		publisher, err := kafka.NewPublisher(kafka.Config{
			Brokers:      o.Brokers,
			Topic:        o.Topic,
			WriteTimeout: o.WriteTimeout,
			Logger:       o.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		o.Logger.Info("publishing turn events to kafka", "brokers", o.Brokers, "topic", o.Topic)
		return publisher, nil

	default:
		return nil, fmt.Errorf("unsupported event stream provider: %s", o.Provider)
	}
}
