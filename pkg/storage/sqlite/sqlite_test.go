package sqlite_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/storage"
	"github.com/papercomputeco/cassette/pkg/storage/sqlite"
	"github.com/papercomputeco/cassette/pkg/storage/storagetest"
)

var _ = Describe("SQLite Driver", func() {
	storagetest.DriverBehaviors(func() storage.Driver {
		d, err := sqlite.NewDriver(context.Background(), ":memory:")
		Expect(err).NotTo(HaveOccurred())
		return d
	})

	Describe("NewDriver", func() {
		It("creates a driver with file database", func() {
			ctx := context.Background()
			dbPath := filepath.Join(GinkgoT().TempDir(), "cassette.db")

			d, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Put(ctx, "k", []byte("persisted"))).To(Succeed())
			Expect(d.Close()).To(Succeed())

			reopened, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			got, err := reopened.Get(ctx, "k")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got)).To(Equal("persisted"))
		})
	})
})
