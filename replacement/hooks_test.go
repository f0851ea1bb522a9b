package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/trace"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Policy hooks", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	posIs := func(pos *hooking.HookPos) gomock.Matcher {
		return gomock.Cond(func(ctx hooking.HookCtx) bool {
			return ctx.Pos == pos
		})
	}

	It("should publish one access event per reference", func() {
		p := NewLRU(2)
		p.AcceptHook(hook)

		hook.EXPECT().Func(posIs(HookPosAccess)).Times(3)

		Run(p, trace.Reads(1, 2, 1))
	})

	It("should publish evict, writeback and access in order", func() {
		p := NewEnhancedSecondChance(1)
		p.Access(trace.NewReference(1, trace.Write))
		p.AcceptHook(hook)

		hook.EXPECT().Func(posIs(HookPosSweep)).Times(3)
		gomock.InOrder(
			hook.EXPECT().Func(gomock.Cond(func(ctx hooking.HookCtx) bool {
				res, ok := ctx.Detail.(AccessResult)
				return ok &&
					ctx.Pos == HookPosEvict &&
					ctx.Step == 1 &&
					res.Evicted.Holds(1)
			})),
			hook.EXPECT().Func(posIs(HookPosWriteback)),
			hook.EXPECT().Func(gomock.Cond(func(ctx hooking.HookCtx) bool {
				ref, ok := ctx.Item.(trace.PageReference)
				return ok &&
					ctx.Pos == HookPosAccess &&
					ctx.Domain == p &&
					ref.Page() == 2
			})),
		)

		p.Access(trace.NewReference(2, trace.Read))
	})

	It("should not publish evictions when filling free frames", func() {
		p := NewFIFO(2)
		p.AcceptHook(hook)

		hook.EXPECT().Func(posIs(HookPosAccess)).Times(2)

		Run(p, trace.Reads(1, 2))
	})
})
