package activity_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/activity"
	"github.com/papercomputeco/cassette/pkg/logger"
)

var _ = Describe("Log", func() {
	var log *activity.Log

	BeforeEach(func() {
		log = activity.NewLog(logger.Nop())
	})

	It("appends entries in order", func() {
		log.Record("User message received", "hello")
		log.Record("Tool called: time", "")

		entries := log.Entries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Message).To(Equal("User message received"))
		Expect(entries[0].Detail).To(Equal("hello"))
		Expect(entries[1].Message).To(Equal("Tool called: time"))
		Expect(entries[0].Time).NotTo(BeZero())
	})

	It("returns a copy of the entries", func() {
		log.Record("one", "")
		entries := log.Entries()
		entries[0].Message = "mutated"

		Expect(log.Entries()[0].Message).To(Equal("one"))
	})

	It("records a marker after clearing", func() {
		log.Record("one", "")
		log.Record("two", "")
		log.Clear()

		entries := log.Entries()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Message).To(Equal("Logs cleared"))
	})

	It("notifies subscribed sinks", func() {
		var seen []string
		log.Subscribe(activity.SinkFunc(func(e activity.Entry) {
			seen = append(seen, e.Message)
		}))

		log.Record("Saved memory", `{"name":"Ada"}`)
		Expect(seen).To(Equal([]string{"Saved memory"}))
	})

	It("mirrors entries to the debug logger", func() {
		var buf bytes.Buffer
		l := activity.NewLog(logger.New(logger.WithWriter(&buf), logger.WithDebug(true)))
		l.Record("Safety block", "password")

		Expect(buf.String()).To(ContainSubstring("Safety block"))
		Expect(buf.String()).To(ContainSubstring("password"))
	})

	Describe("Entry.String", func() {
		ts := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

		It("renders message and detail", func() {
			e := activity.Entry{Time: ts, Message: "Calc error", Detail: "division by zero"}
			Expect(e.String()).To(Equal("2026-10-15T09:30:00Z — Calc error — division by zero"))
		})

		It("omits an empty detail", func() {
			e := activity.Entry{Time: ts, Message: "App initialized"}
			Expect(e.String()).To(Equal("2026-10-15T09:30:00Z — App initialized"))
		})
	})
})
