package memorycmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	memorycmder "github.com/papercomputeco/cassette/cmd/cassette/memory"
)

var _ = Describe("NewMemoryCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := memorycmder.NewMemoryCmd()
		Expect(cmd.Use).To(Equal("memory"))
	})

	It("has show, set, and clear subcommands", func() {
		cmd := memorycmder.NewMemoryCmd()
		var names []string
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ConsistOf("show", "set", "clear"))
	})
})

var _ = Describe("Memory command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()

		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		Expect(os.MkdirAll(filepath.Join(tmpDir, ".cassette"), 0o755)).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
	})

	execute := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := memorycmder.NewMemoryCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	It("shows the empty record", func() {
		out, err := execute("show")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`Memory: {"name":"","tone":"friendly","note":null}`))
	})

	It("persists settings to the dot-dir", func() {
		out, err := execute("set", "--name", "Ada", "--tone", "direct")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`Memory saved: {"name":"Ada","tone":"direct","note":null}`))

		entries, err := os.ReadDir(filepath.Join(tmpDir, ".cassette", "memory"))
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))

		out, err = execute("show")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`Memory: {"name":"Ada","tone":"direct","note":null}`))
	})

	It("uses the configured tone when --tone is omitted", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, ".cassette", "config.toml"),
			[]byte("[assistant]\ntone = \"concise\"\n"), 0o600)).To(Succeed())

		out, err := execute("set", "--name", "Ada")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"tone":"concise"`))
	})

	It("rejects an unknown tone", func() {
		_, err := execute("set", "--name", "Ada", "--tone", "grumpy")
		Expect(err).To(MatchError(ContainSubstring("invalid tone")))
	})

	It("keeps session records apart", func() {
		_, err := execute("set", "--name", "Ada", "--session", "abc")
		Expect(err).NotTo(HaveOccurred())

		out, err := execute("show")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"name":""`))

		out, err = execute("show", "--session", "abc")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"name":"Ada"`))
	})

	It("clears the record", func() {
		_, err := execute("set", "--name", "Ada")
		Expect(err).NotTo(HaveOccurred())

		out, err := execute("clear")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Memory cleared."))

		out, err = execute("show")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"name":""`))
	})

	It("works with the sqlite provider", func() {
		_, err := execute("set", "--name", "Ada", "--storage", "sqlite")
		Expect(err).NotTo(HaveOccurred())

		out, err := execute("show", "--storage", "sqlite")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"name":"Ada"`))

		_, err = os.Stat(filepath.Join(tmpDir, ".cassette", "cassette.sqlite"))
		Expect(err).NotTo(HaveOccurred())
	})
})
