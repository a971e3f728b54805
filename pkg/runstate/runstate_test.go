package runstate_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/runstate"
)

var _ = Describe("Manager", func() {
	var tempDir string

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
	})

	It("saves and loads state", func() {
		manager, err := runstate.NewManager(tempDir)
		Expect(err).NotTo(HaveOccurred())

		state := &runstate.State{
			PID:             123,
			APIURL:          "http://localhost:8090",
			MCPURL:          "http://localhost:8090/mcp",
			StorageProvider: "sqlite",
			EventStream:     "kafka",
		}

		Expect(manager.SaveState(state)).To(Succeed())
		loaded, err := manager.LoadState()
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).NotTo(BeNil())
		Expect(loaded.Version).To(Equal(1))
		Expect(loaded.PID).To(Equal(123))
		Expect(loaded.APIURL).To(Equal("http://localhost:8090"))
		Expect(loaded.MCPURL).To(Equal("http://localhost:8090/mcp"))
		Expect(loaded.StorageProvider).To(Equal("sqlite"))
		Expect(loaded.EventStream).To(Equal("kafka"))
		Expect(loaded.StartedAt).NotTo(BeZero())
		Expect(loaded.LogPath).To(Equal(filepath.Join(tempDir, "serve.log")))
	})

	It("returns nil when nothing is recorded", func() {
		manager, err := runstate.NewManager(tempDir)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := manager.LoadState()
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeNil())
	})

	It("clears state", func() {
		manager, err := runstate.NewManager(tempDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(manager.SaveState(&runstate.State{PID: 1})).To(Succeed())
		Expect(manager.ClearState()).To(Succeed())
		Expect(manager.ClearState()).To(Succeed())

		loaded, err := manager.LoadState()
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeNil())
	})

	It("rejects a corrupt state file", func() {
		manager, err := runstate.NewManager(tempDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(manager.StatePath, []byte("{"), 0o600)).To(Succeed())
		_, err = manager.LoadState()
		Expect(err).To(MatchError(ContainSubstring("parsing serve state")))
	})

	It("locks and releases", func() {
		manager, err := runstate.NewManager(tempDir)
		Expect(err).NotTo(HaveOccurred())

		lock, err := manager.Lock()
		Expect(err).NotTo(HaveOccurred())
		Expect(lock).NotTo(BeNil())
		Expect(lock.Release()).To(Succeed())
	})

	It("refuses a second lock while the first is held", func() {
		manager, err := runstate.NewManager(tempDir)
		Expect(err).NotTo(HaveOccurred())

		lock, err := manager.Lock()
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.Lock()
		Expect(err).To(MatchError(runstate.ErrAlreadyRunning))

		Expect(lock.Release()).To(Succeed())

		again, err := manager.Lock()
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Release()).To(Succeed())
	})

	It("treats a nil lock as released", func() {
		var lock *runstate.Lock
		Expect(lock.Release()).To(Succeed())
	})
})

var _ = Describe("State", func() {
	It("reports the current process as alive", func() {
		Expect((&runstate.State{PID: os.Getpid()}).Alive()).To(BeTrue())
	})

	It("reports a missing pid as not alive", func() {
		Expect((&runstate.State{}).Alive()).To(BeFalse())
		var s *runstate.State
		Expect(s.Alive()).To(BeFalse())
	})
})
