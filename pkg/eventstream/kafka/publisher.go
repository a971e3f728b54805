// Package kafka provides an eventstream.Publisher that writes turn events to
// a Kafka topic, one JSON message per event keyed by session id.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/cassette/pkg/eventstream"
)

const (
	// DefaultTopic receives turn events when none is configured.
	DefaultTopic = "cassette.turns"

	defaultWriteTimeout = 10 * time.Second
	maxRetries          = 3
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Config configures the Kafka publisher.
type Config struct {
	// Brokers is the bootstrap list. Entries may themselves be comma separated.
	Brokers []string

	// Topic defaults to DefaultTopic.
	Topic string

	// WriteTimeout bounds one produce attempt. Defaults to 10s.
	WriteTimeout time.Duration

	Logger *slog.Logger
}

// Publisher writes events with a synchronous kafka-go Writer.
type Publisher struct {
	writer       messageWriter
	topic        string
	writeTimeout time.Duration
	logger       *slog.Logger
}

// NewPublisher creates a Kafka publisher. No connection is made until the
// first event is written.
func NewPublisher(c Config) (*Publisher, error) {
	brokers := splitBrokers(c.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topicOrDefault(c.Topic),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		Async:        false,
	}

	return newPublisher(w, c), nil
}

func newPublisher(w messageWriter, c Config) *Publisher {
	timeout := c.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Publisher{
		writer:       w,
		topic:        topicOrDefault(c.Topic),
		writeTimeout: timeout,
		logger:       logger,
	}
}

// PublishTurn writes one event. Leader elections in progress are retried
// with a short linear backoff; any other error is returned immediately.
func (p *Publisher) PublishTurn(ctx context.Context, event *eventstream.TurnEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding turn event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
		Time: event.EmittedAt,
	}

	var writeErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			p.logger.Debug("retrying kafka produce",
				"topic", p.topic,
				"attempt", attempt,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
		writeErr = p.writer.WriteMessages(writeCtx, msg)
		cancel()

		if writeErr == nil {
			p.logger.Debug("published turn event",
				"topic", p.topic,
				"event_id", event.EventID,
				"session", event.SessionID,
			)
			return nil
		}

		if !retryable(writeErr) {
			break
		}
	}

	return fmt.Errorf("publishing turn event to %s: %w", p.topic, writeErr)
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func retryable(err error) bool {
	return errors.Is(err, kafkago.NotLeaderForPartition) || errors.Is(err, kafkago.LeaderNotAvailable)
}

func topicOrDefault(topic string) string {
	if topic = strings.TrimSpace(topic); topic != "" {
		return topic
	}
	return DefaultTopic
}

func splitBrokers(in []string) []string {
	var out []string
	for _, entry := range in {
		for b := range strings.SplitSeq(entry, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, b)
			}
		}
	}
	return out
}
