package file_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/storage"
	"github.com/papercomputeco/cassette/pkg/storage/file"
	"github.com/papercomputeco/cassette/pkg/storage/storagetest"
)

var _ = Describe("File Driver", func() {
	storagetest.DriverBehaviors(func() storage.Driver {
		d, err := file.NewDriver(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		return d
	})

	It("requires a directory", func() {
		_, err := file.NewDriver("")
		Expect(err).To(HaveOccurred())
	})

	It("creates the directory on demand", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "nested", ".cassette")
		d, err := file.NewDriver(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Dir()).To(Equal(dir))

		info, err := os.Stat(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("writes one json document per key with a safe file name", func() {
		dir := GinkgoT().TempDir()
		d, err := file.NewDriver(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Put(context.Background(), "mcp_adv_memory:1f2e/..", []byte("{}"))).To(Succeed())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Name()).To(Equal("mcp_adv_memory%3A1f2e%2F...json"))
	})

	It("keeps keys that differ only in escaped characters apart", func() {
		ctx := context.Background()
		d, err := file.NewDriver(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Put(ctx, "a:b", []byte(`"colon"`))).To(Succeed())
		Expect(d.Put(ctx, "a_b", []byte(`"underscore"`))).To(Succeed())
		Expect(d.Put(ctx, "a%3Ab", []byte(`"percent"`))).To(Succeed())

		Expect(d.Get(ctx, "a:b")).To(Equal([]byte(`"colon"`)))
		Expect(d.Get(ctx, "a_b")).To(Equal([]byte(`"underscore"`)))
		Expect(d.Get(ctx, "a%3Ab")).To(Equal([]byte(`"percent"`)))
	})

	It("stays inside its directory for dot keys", func() {
		ctx := context.Background()
		dir := GinkgoT().TempDir()
		d, err := file.NewDriver(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Put(ctx, "..", []byte("{}"))).To(Succeed())
		Expect(d.Put(ctx, ".tmp-x", []byte("{}"))).To(Succeed())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		Expect(names).To(ConsistOf("%2E..json", "%2Etmp-x.json"))
	})
})
