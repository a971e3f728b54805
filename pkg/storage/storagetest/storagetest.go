// Package storagetest holds shared ginkgo specs every storage.Driver must pass.
package storagetest

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/storage"
)

// DriverBehaviors registers the common Get/Put/Delete specs against the
// driver returned by newDriver. newDriver is called once per test.
func DriverBehaviors(newDriver func() storage.Driver) {
	var (
		driver storage.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = nil
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
		}
	})

	Describe("Get", func() {
		It("returns NotFoundError for a missing key", func() {
			_, err := driver.Get(ctx, "missing")
			Expect(err).To(HaveOccurred())
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("Put", func() {
		It("round-trips the stored bytes", func() {
			Expect(driver.Put(ctx, "k", []byte(`{"name":"Ada"}`))).To(Succeed())

			got, err := driver.Get(ctx, "k")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got)).To(Equal(`{"name":"Ada"}`))
		})

		It("overwrites an existing value", func() {
			Expect(driver.Put(ctx, "k", []byte("one"))).To(Succeed())
			Expect(driver.Put(ctx, "k", []byte("two"))).To(Succeed())

			got, err := driver.Get(ctx, "k")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got)).To(Equal("two"))
		})

		It("keeps keys isolated", func() {
			Expect(driver.Put(ctx, "mcp_adv_memory:a", []byte("a"))).To(Succeed())
			Expect(driver.Put(ctx, "mcp_adv_memory:b", []byte("b"))).To(Succeed())

			got, err := driver.Get(ctx, "mcp_adv_memory:a")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got)).To(Equal("a"))
		})
	})

	Describe("Delete", func() {
		It("removes the key", func() {
			Expect(driver.Put(ctx, "k", []byte("v"))).To(Succeed())
			Expect(driver.Delete(ctx, "k")).To(Succeed())

			_, err := driver.Get(ctx, "k")
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})

		It("is not an error for a missing key", func() {
			Expect(driver.Delete(ctx, "never-written")).To(Succeed())
		})
	})
}
