package redis_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/pkg/storage"
	"github.com/papercomputeco/cassette/pkg/storage/redis"
	"github.com/papercomputeco/cassette/pkg/storage/storagetest"
)

// redisURL returns the Redis URL from environment or skips the test.
func redisURL() string {
	url := os.Getenv("CASSETTE_TEST_REDIS_URL")
	if url == "" {
		Skip("CASSETTE_TEST_REDIS_URL not set, skipping Redis tests")
	}
	return url
}

var _ = Describe("Redis Driver", func() {
	storagetest.DriverBehaviors(func() storage.Driver {
		d, err := redis.NewDriver(context.Background(), redisURL())
		Expect(err).NotTo(HaveOccurred())

		// Start each test without leftover cassette keys.
		keys, err := d.Client.Keys(context.Background(), redis.KeyPrefix+"*").Result()
		Expect(err).NotTo(HaveOccurred())
		if len(keys) > 0 {
			Expect(d.Client.Del(context.Background(), keys...).Err()).To(Succeed())
		}
		return d
	})

	It("rejects a malformed url", func() {
		_, err := redis.NewDriver(context.Background(), "not a url")
		Expect(err).To(HaveOccurred())
	})

	It("namespaces keys", func() {
		d, err := redis.NewDriver(context.Background(), redisURL())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(d.Close)

		Expect(d.Put(context.Background(), "mcp_adv_memory", []byte(`{}`))).To(Succeed())
		n, err := d.Client.Exists(context.Background(), redis.KeyPrefix+"mcp_adv_memory").Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeEquivalentTo(1))
	})
})
