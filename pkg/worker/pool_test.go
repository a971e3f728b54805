package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/eventstream"
	"github.com/papercomputeco/cassette/pkg/logger"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.TurnEvent
	err    error
	block  chan struct{}
	closed bool
}

func (r *recordingPublisher) PublishTurn(_ context.Context, event *eventstream.TurnEvent) error {
	if r.block != nil {
		<-r.block
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingPublisher) Events() []*eventstream.TurnEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*eventstream.TurnEvent(nil), r.events...)
}

var _ = Describe("Worker Pool", func() {
	var (
		wp  *Pool
		pub *recordingPublisher
	)

	newPool := func(c *Config) *Pool {
		c.Publisher = pub
		c.Logger = logger.Nop()
		p, err := NewPool(c)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	BeforeEach(func() {
		pub = &recordingPublisher{}
		wp = newPool(&Config{})
	})

	Describe("NewPool", func() {
		It("requires a publisher", func() {
			_, err := NewPool(&Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("publisher is required")))
		})

		It("applies defaults", func() {
			Expect(wp.config.NumWorkers).To(Equal(defaultNumWorkers))
			Expect(wp.config.QueueSize).To(Equal(defaultJobQueueSize))
			Expect(wp.config.PublishTimeout).To(Equal(defaultPublishTimeout))
			Expect(wp.Close()).To(Succeed())
		})
	})

	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			ok := wp.Enqueue(Job{Event: eventstream.NewTurnEvent("s", "joke", "joke", "ha", 0)})
			Expect(ok).To(BeTrue())
			Expect(wp.Close()).To(Succeed())
			Expect(pub.Events()).To(HaveLen(1))
		})

		It("rejects nil events", func() {
			Expect(wp.Enqueue(Job{})).To(BeFalse())
			Expect(wp.Close()).To(Succeed())
		})

		It("drops jobs when the queue is full", func() {
			pub.block = make(chan struct{})
			full := newPool(&Config{NumWorkers: 1, QueueSize: 1})

			event := eventstream.NewTurnEvent("s", "joke", "", "", 0)

			// the first job is picked up by the worker, the second fills the queue
			Expect(full.Enqueue(Job{Event: event})).To(BeTrue())
			Eventually(func() int { return len(full.queue) }).Should(Equal(0))
			Expect(full.Enqueue(Job{Event: event})).To(BeTrue())
			Expect(full.Enqueue(Job{Event: event})).To(BeFalse())

			close(pub.block)
			Expect(full.Close()).To(Succeed())
			Expect(wp.Close()).To(Succeed())
		})
	})

	Describe("OnTurn", func() {
		It("publishes an event built from the turn", func() {
			wp.OnTurn(assistant.Turn{
				SessionID: "default",
				Intent:    assistant.IntentCalc,
				Input:     "2+2",
				Reply:     "Result: 4",
				Duration:  42 * time.Millisecond,
			})
			Expect(wp.Close()).To(Succeed())

			events := pub.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].SessionID).To(Equal("default"))
			Expect(events[0].Intent).To(Equal("calc"))
			Expect(events[0].Reply).To(Equal("Result: 4"))
			Expect(events[0].DurationMs).To(Equal(int64(42)))
		})
	})

	Describe("Close", func() {
		It("drains queued jobs and closes the publisher", func() {
			for range 10 {
				wp.Enqueue(Job{Event: eventstream.NewTurnEvent("s", "joke", "", "", 0)})
			}
			Expect(wp.Close()).To(Succeed())
			Expect(pub.Events()).To(HaveLen(10))
			Expect(pub.closed).To(BeTrue())
		})

		It("is safe to call twice", func() {
			Expect(wp.Close()).To(Succeed())
			Expect(wp.Close()).To(Succeed())
		})

		It("survives publish failures", func() {
			pub.err = errors.New("stream down")
			wp.Enqueue(Job{Event: eventstream.NewTurnEvent("s", "joke", "", "", 0)})
			Expect(wp.Close()).To(Succeed())
			Expect(pub.Events()).To(BeEmpty())
		})
	})
})
