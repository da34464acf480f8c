package store_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/account-rotator/internal/store"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("Memory", func() {
	var (
		mem *store.Memory
		ctx context.Context
	)

	BeforeEach(func() {
		mem = store.NewMemory()
		ctx = context.Background()
	})

	Describe("Get", func() {
		It("should report absent keys without error", func() {
			value, found, err := mem.Get(ctx, "missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
			Expect(value).To(BeEmpty())
		})

		It("should return a stored value", func() {
			Expect(mem.Put(ctx, "account_rotation_index", "2", 0)).To(Succeed())

			value, found, err := mem.Get(ctx, "account_rotation_index")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("2"))
		})
	})

	Describe("Put", func() {
		It("should overwrite an existing value", func() {
			Expect(mem.Put(ctx, "k", "first", 0)).To(Succeed())
			Expect(mem.Put(ctx, "k", "second", 0)).To(Succeed())

			value, _, _ := mem.Get(ctx, "k")
			Expect(value).To(Equal("second"))
		})

		It("should expire entries after their ttl", func() {
			Expect(mem.Put(ctx, "k", "v", 20*time.Millisecond)).To(Succeed())

			_, found, _ := mem.Get(ctx, "k")
			Expect(found).To(BeTrue())

			Eventually(func() bool {
				_, found, _ := mem.Get(ctx, "k")
				return found
			}, "500ms", "10ms").Should(BeFalse())
		})

		It("should keep entries with no ttl", func() {
			Expect(mem.Put(ctx, "k", "v", 0)).To(Succeed())

			Consistently(func() bool {
				_, found, _ := mem.Get(ctx, "k")
				return found
			}, "50ms", "10ms").Should(BeTrue())
		})
	})
})
