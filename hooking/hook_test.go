package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		hookable *HookableBase
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hookable = &HookableBase{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should register hooks", func() {
		hook := NewMockHook(mockCtrl)

		hookable.AcceptHook(hook)

		Expect(hookable.NumHooks()).To(Equal(1))
		Expect(hookable.Hooks()).To(ConsistOf(hook))
	})

	It("should panic when the same hook is registered twice", func() {
		hook := NewMockHook(mockCtrl)
		hookable.AcceptHook(hook)

		Expect(func() { hookable.AcceptHook(hook) }).To(Panic())
	})

	It("should accept several function hooks", func() {
		hookable.AcceptHook(HookFunc(func(HookCtx) {}))
		hookable.AcceptHook(HookFunc(func(HookCtx) {}))

		Expect(hookable.NumHooks()).To(Equal(2))
	})

	It("should invoke every hook in registration order", func() {
		pos := &HookPos{Name: "Test"}
		ctx := HookCtx{Domain: hookable, Pos: pos, Step: 3, Item: 7}

		first := NewMockHook(mockCtrl)
		second := NewMockHook(mockCtrl)
		gomock.InOrder(
			first.EXPECT().Func(ctx),
			second.EXPECT().Func(ctx),
		)

		hookable.AcceptHook(first)
		hookable.AcceptHook(second)
		hookable.InvokeHook(ctx)
	})

	It("should pass the context to function hooks", func() {
		var got HookCtx
		hookable.AcceptHook(HookFunc(func(ctx HookCtx) { got = ctx }))

		hookable.InvokeHook(HookCtx{Step: 5, Detail: "evict"})

		Expect(got.Step).To(Equal(5))
		Expect(got.Detail).To(Equal("evict"))
	})
})
