package memory_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/activity"
	"github.com/papercomputeco/cassette/pkg/logger"
	"github.com/papercomputeco/cassette/pkg/memory"
	"github.com/papercomputeco/cassette/pkg/storage"
	"github.com/papercomputeco/cassette/pkg/storage/inmemory"
)

// brokenDriver fails every call.
type brokenDriver struct{}

func (brokenDriver) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (brokenDriver) Put(context.Context, string, []byte) error  { return errors.New("disk on fire") }
func (brokenDriver) Delete(context.Context, string) error       { return errors.New("disk on fire") }
func (brokenDriver) Close() error                               { return nil }

var _ = Describe("Store", func() {
	var (
		ctx    context.Context
		driver *inmemory.Driver
		log    *activity.Log
		store  *memory.Store
	)

	newStore := func(d storage.Driver) *memory.Store {
		s, err := memory.NewStore(memory.Config{
			Driver:   d,
			Logger:   logger.Nop(),
			Recorder: log,
		})
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		log = activity.NewLog(logger.Nop())
		store = newStore(driver)
	})

	Describe("NewStore", func() {
		It("requires a driver", func() {
			_, err := memory.NewStore(memory.Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("storage driver is required")))
		})

		It("requires a logger", func() {
			_, err := memory.NewStore(memory.Config{Driver: driver})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("defaults to the single-user key", func() {
			Expect(store.Key()).To(Equal("mcp_adv_memory"))
		})
	})

	Describe("Load", func() {
		It("returns the empty record when nothing is stored", func() {
			Expect(store.Load(ctx)).To(Equal(memory.Empty()))
		})

		It("returns the empty record for corrupt data", func() {
			Expect(driver.Put(ctx, memory.DefaultKey, []byte("{not json"))).To(Succeed())

			Expect(store.Load(ctx)).To(Equal(memory.Empty()))
			Expect(log.Entries()).To(ContainElement(
				HaveField("Message", "Memory load error"),
			))
		})

		It("returns the empty record for a JSON null", func() {
			Expect(driver.Put(ctx, memory.DefaultKey, []byte("null"))).To(Succeed())
			Expect(store.Load(ctx)).To(Equal(memory.Empty()))
		})

		It("returns the empty record when the driver fails", func() {
			s := newStore(brokenDriver{})
			Expect(s.Load(ctx)).To(Equal(memory.Empty()))
		})

		It("normalizes an unknown persisted tone to friendly", func() {
			Expect(driver.Put(ctx, memory.DefaultKey, []byte(`{"name":"Ada","tone":"shouty","note":null}`))).To(Succeed())

			rec := store.Load(ctx)
			Expect(rec.Name).To(Equal("Ada"))
			Expect(rec.Tone).To(Equal(memory.ToneFriendly))
		})

		It("accepts records written by older clients without a tone", func() {
			Expect(driver.Put(ctx, memory.DefaultKey, []byte(`{"note":"buy milk"}`))).To(Succeed())

			rec := store.Load(ctx)
			Expect(rec.Tone).To(Equal(memory.ToneFriendly))
			Expect(rec.NoteText()).To(Equal("buy milk"))
		})
	})

	Describe("Save", func() {
		It("round-trips the exact record", func() {
			rec := memory.Record{Name: "Ada", Tone: memory.ToneConcise, Note: memory.NoteOf("the oven is on")}
			Expect(store.Save(ctx, rec)).To(Succeed())

			Expect(store.Load(ctx)).To(Equal(rec))
		})

		It("persists the documented JSON shape", func() {
			Expect(store.Save(ctx, memory.Record{Name: "Ada", Tone: memory.ToneDirect})).To(Succeed())

			raw, err := driver.Get(ctx, memory.DefaultKey)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(MatchJSON(`{"name":"Ada","tone":"direct","note":null}`))
		})

		It("normalizes the tone on write", func() {
			Expect(store.Save(ctx, memory.Record{Tone: "loud"})).To(Succeed())

			raw, err := driver.Get(ctx, memory.DefaultKey)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(MatchJSON(`{"name":"","tone":"friendly","note":null}`))
		})

		It("surfaces driver errors", func() {
			s := newStore(brokenDriver{})
			Expect(s.Save(ctx, memory.Empty())).To(MatchError(ContainSubstring("disk on fire")))
		})
	})

	Describe("Clear", func() {
		It("removes the record so Load returns the empty record", func() {
			Expect(store.Save(ctx, memory.Record{Name: "Ada", Tone: memory.ToneConcise})).To(Succeed())
			Expect(store.Clear(ctx)).To(Succeed())

			Expect(store.Load(ctx)).To(Equal(memory.Empty()))
			Expect(driver.Len()).To(Equal(0))
		})

		It("records the clear in the activity log", func() {
			Expect(store.Clear(ctx)).To(Succeed())
			Expect(log.Entries()).To(ContainElement(HaveField("Message", "Memory cleared")))
		})
	})

	Describe("Remember", func() {
		It("replaces only the note", func() {
			Expect(store.Save(ctx, memory.Record{Name: "Ada", Tone: memory.ToneDirect, Note: memory.NoteOf("old")})).To(Succeed())

			rec, err := store.Remember(ctx, "new")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.NoteText()).To(Equal("new"))
			Expect(store.Load(ctx)).To(Equal(memory.Record{Name: "Ada", Tone: memory.ToneDirect, Note: memory.NoteOf("new")}))
		})
	})

	Describe("SaveSettings", func() {
		It("keeps the remembered note", func() {
			_, err := store.Remember(ctx, "pick up keys")
			Expect(err).NotTo(HaveOccurred())

			rec, err := store.SaveSettings(ctx, "  Grace ", "Concise")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(Equal(memory.Record{Name: "Grace", Tone: memory.ToneConcise, Note: memory.NoteOf("pick up keys")}))
			Expect(store.Load(ctx)).To(Equal(rec))
		})

		It("drops an empty note to null", func() {
			_, err := store.Remember(ctx, "")
			Expect(err).NotTo(HaveOccurred())

			rec, err := store.SaveSettings(ctx, "Grace", "friendly")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Note).To(BeNil())
		})

		It("rejects unknown tones without writing", func() {
			_, err := store.SaveSettings(ctx, "Grace", "sarcastic")
			Expect(err).To(MatchError(memory.ErrInvalidTone))
			Expect(driver.Len()).To(Equal(0))
		})
	})

	Describe("SessionKey", func() {
		It("isolates session records", func() {
			Expect(memory.SessionKey("")).To(Equal(memory.DefaultKey))
			Expect(memory.SessionKey("abc")).To(Equal("mcp_adv_memory:abc"))
		})
	})
})
