package versioncmder_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/cassette/cmd/version"
	"github.com/papercomputeco/cassette/pkg/utils"
)

var _ = Describe("NewVersionCmd", func() {
	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		Expect(cmd.Execute()).To(Succeed())
		return out.String()
	}

	It("prints the build information", func() {
		out := run()
		Expect(out).To(ContainSubstring("Version: " + utils.Version))
		Expect(out).To(ContainSubstring("Sha: " + utils.Sha))
	})

	It("prints JSON with --json", func() {
		var parsed map[string]string
		Expect(json.Unmarshal([]byte(run("--json")), &parsed)).To(Succeed())
		Expect(parsed).To(HaveKeyWithValue("version", utils.Version))
		Expect(parsed).To(HaveKey("buildtime"))
	})
})
