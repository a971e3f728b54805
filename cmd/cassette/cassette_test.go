package cassettecmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	cassettecmder "github.com/papercomputeco/cassette/cmd/cassette"
)

var _ = Describe("NewCassetteCmd", func() {
	It("registers every subcommand", func() {
		cmd := cassettecmder.NewCassetteCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("chat", "serve", "status", "memory", "config", "version"))
	})

	It("has global debug and config-dir flags", func() {
		cmd := cassettecmder.NewCassetteCmd()
		debug := cmd.PersistentFlags().Lookup("debug")
		Expect(debug).NotTo(BeNil())
		Expect(debug.Shorthand).To(Equal("d"))
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("passes the config-dir flag through to subcommands", func() {
		dir := GinkgoT().TempDir()

		var out bytes.Buffer
		cmd := cassettecmder.NewCassetteCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--config-dir", dir, "config", "set", "assistant.tone", "direct"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring(dir))
	})
})
