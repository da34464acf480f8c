package account_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/account-rotator/internal/account"
)

func TestAccount(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Account Suite")
}

var _ = Describe("Pool", func() {
	Describe("NewPool", func() {
		It("should assign ids in configuration order", func() {
			pool := account.NewPool([]string{"cred-a", "cred-b", "cred-c"})

			accounts := pool.Accounts()
			Expect(accounts).To(HaveLen(3))
			for i, a := range accounts {
				Expect(a.ID()).To(Equal(i))
			}
			Expect(accounts[0].Credential()).To(Equal("cred-a"))
			Expect(accounts[2].Credential()).To(Equal("cred-c"))
		})

		It("should build an empty pool from no credentials", func() {
			pool := account.NewPool(nil)
			Expect(pool.Count()).To(Equal(0))
			Expect(pool.Accounts()).To(BeEmpty())
		})
	})

	Describe("Count", func() {
		It("should match the number of configured credentials", func() {
			pool := account.NewPool([]string{"one", "two"})
			Expect(pool.Count()).To(Equal(2))
		})
	})

	Describe("Accounts", func() {
		It("should return a copy that callers cannot use to desync ids", func() {
			pool := account.NewPool([]string{"one", "two"})

			first := pool.Accounts()
			first[0] = account.New(99, "mutated")

			Expect(pool.Accounts()[0].ID()).To(Equal(0))
			Expect(pool.Accounts()[0].Credential()).To(Equal("one"))
		})

		It("should return a stable order across calls", func() {
			pool := account.NewPool([]string{"one", "two", "three"})
			Expect(pool.Accounts()).To(Equal(pool.Accounts()))
		})
	})

	Describe("Get", func() {
		It("should return the account at the index", func() {
			pool := account.NewPool([]string{"one", "two"})
			Expect(pool.Get(1).Credential()).To(Equal("two"))
		})
	})
})
