package exchange_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/ghostmesh/exchange"
)

var _ = Describe("BufferCache", func() {
	var fx *twoBlockFixture

	BeforeEach(func() {
		fx = newTwoBlockFixture()
	})

	It("builds one row per (block, FillGhost variable, neighbor)", func() {
		cache := exchange.BuildCache(fx.md)

		Expect(cache.Rows).To(HaveLen(2))
		Expect(cache.SendStatus).To(HaveLen(2))
		Expect(cache.RecvStatus).To(HaveLen(2))
		for _, st := range cache.SendStatus {
			Expect(st).To(Equal(exchange.StatusUninitialized))
		}
	})

	It("is not stale immediately after a build", func() {
		cache := exchange.BuildCache(fx.md)
		Expect(cache.Stale(fx.md)).To(BeFalse())
	})

	It("is stale once a sparse variable's allocation state changes", func() {
		cache := exchange.BuildCache(fx.md)

		block, ok := fx.md.Block(0)
		Expect(ok).To(BeTrue())
		v, ok := block.Var("density")
		Expect(ok).To(BeTrue())
		v.AllocateSparse("test")

		Expect(cache.Stale(fx.md)).To(BeTrue())
	})

	It("EnsureCache rebuilds only when stale", func() {
		cache := exchange.BuildCache(fx.md)
		same := exchange.EnsureCache(fx.md, cache)
		Expect(same).To(BeIdenticalTo(cache))

		block, _ := fx.md.Block(1)
		v, _ := block.Var("density")
		v.AllocateSparse("test")

		rebuilt := exchange.EnsureCache(fx.md, cache)
		Expect(rebuilt).NotTo(BeIdenticalTo(cache))
	})

	It("Verify panics on a recorded/actual allocation mismatch", func() {
		cache := exchange.BuildCache(fx.md)
		block, _ := fx.md.Block(0)
		v, _ := block.Var("density")
		v.AllocateSparse("test")

		Expect(func() { cache.Verify() }).To(PanicWith(BeAssignableToTypeOf(&exchange.AllocationMismatchError{})))
	})

	It("CacheIterator walks every row exactly once and Reset rewinds it", func() {
		cache := exchange.BuildCache(fx.md)
		it := exchange.NewCacheIterator(cache)

		count := 0
		for {
			_, idx, ok := it.Next()
			if !ok {
				break
			}
			Expect(idx).To(Equal(count))
			count++
		}
		Expect(count).To(Equal(len(cache.Rows)))

		it.Reset()
		_, idx, ok := it.Next()
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(0))
	})
})
