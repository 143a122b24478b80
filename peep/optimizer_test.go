package peep_test

import (
	"errors"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/opt816/asm"
	"github.com/sarchlab/opt816/peep"
)

var sample = []string{
	`.ramsection ".bss" bank $7e slot 2`,
	"counter dsb 2",
	".ends",
	`.section ".text_0x0" superfree`,
	"main:",
	"lda.w #0",
	"sta.b tcc__r0",
	"lda.l counter",
	"sta.b tcc__r1",
	"lda.b tcc__r1",
	"clc",
	"adc #4",
	"sta.b tcc__r1",
	"inc.b tcc__r1",
	"inc.b tcc__r1",
	"lda.b tcc__r1",
	"stx.b tcc__r3",
	"pei (tcc__r3)",
	"jsr.l putchar",
	"rep #$20",
	"sep #$20",
	"jmp.w __local_0",
	"__local_0:",
	"rtl",
	".ends",
}

var _ = Describe("Optimizer", func() {
	var optimizer *peep.Optimizer

	BeforeEach(func() {
		optimizer = peep.MakeBuilder().Build()
	})

	optimize := func(lines ...string) []string {
		res, err := optimizer.Optimize(listing(lines...))
		Expect(err).NotTo(HaveOccurred())
		return res.Program.Lines()
	}

	It("should remove a dead store", func() {
		Expect(optimize("lda #5", "sta.b tcc__r0", "nop", "sta.b tcc__r0")).
			To(Equal([]string{"lda #5", "nop", "sta.b tcc__r0"}))
	})

	It("should fuse a push before a call", func() {
		Expect(optimize("stx.b tcc__r3", "pei (tcc__r3)", "jsr.l routine")).
			To(Equal([]string{"phx", "jsr.l routine"}))
	})

	It("should remove a jump to the next line", func() {
		Expect(optimize("jmp.w done", "done:")).To(Equal([]string{"done:"}))
	})

	It("should narrow access to static storage", func() {
		Expect(optimize(
			`.ramsection ".bss" bank $7e slot 2`,
			"counter dsb 2",
			".ends",
			"lda.l counter ,x",
		)).To(Equal([]string{
			`.ramsection ".bss" bank $7e slot 2`,
			"counter dsb 2",
			".ends",
			"lda.w counter ,x",
		}))
	})

	It("should cancel a widening followed by a narrowing", func() {
		Expect(optimize("rep #$20", "sep #$20")).To(BeEmpty())
	})

	It("should optimize a function to a fixpoint", func() {
		res, err := optimizer.Optimize(listing(sample...))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Program.Lines()).To(Equal([]string{
			`.ramsection ".bss" bank $7e slot 2`,
			"counter dsb 2",
			".ends",
			`.section ".text_0x0" superfree`,
			"main:",
			"lda.w counter",
			"clc",
			"adc #4 + 2",
			"phx",
			"jsr.l putchar",
			"__local_0:",
			"rtl",
			".ends",
		}))
		Expect(res.Static.Names()).To(Equal([]string{"counter"}))
		Expect(res.Passes).To(HaveLen(3))
		Expect(res.Passes[0].Optimizations).To(Equal(7))
		Expect(res.Passes[1].Optimizations).To(Equal(3))
		Expect(res.Passes[2].Fired()).To(BeFalse())
		Expect(res.Total).To(Equal(10))
		Expect(res.Passes[1].ByRule).To(Equal(map[string]int{"dead-store": 3}))
	})

	It("should be idempotent", func() {
		first, err := optimizer.Optimize(listing(sample...))
		Expect(err).NotTo(HaveOccurred())

		second, err := optimizer.Optimize(first.Program)
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Total).To(BeZero())
		Expect(second.Passes).To(HaveLen(1))
		Expect(second.Program.Lines()).To(Equal(first.Program.Lines()))
	})

	It("should never grow the program", func() {
		res, err := optimizer.Optimize(listing(sample...))
		Expect(err).NotTo(HaveOccurred())

		prev := len(sample)
		for _, p := range res.Passes {
			Expect(p.Len).To(BeNumerically("<=", prev))
			prev = p.Len
		}
	})

	It("should not modify its input", func() {
		prog := listing(sample...)
		before := prog.Lines()

		_, err := optimizer.Optimize(prog)

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Lines()).To(Equal(before))
	})

	It("should count reorders separately", func() {
		res, err := optimizer.Optimize(listing(
			"lda.b tcc__r2", "sta.b tcc__r0",
			"lda.b tcc__r2h", "sta.b tcc__r0h",
			"lda.b tcc__r0",
			"rtl",
		))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Passes[0].Reorders).To(Equal(1))
		Expect(res.Passes[0].Optimizations).To(BeZero())
		Expect(res.Program.Lines()).To(Equal([]string{
			"lda.b tcc__r2h", "sta.b tcc__r0h",
			"lda.b tcc__r2", "sta.b tcc__r0",
			"rtl",
		}))
		Expect(res.Total).To(Equal(1))
	})

	It("should reject an unterminated static section", func() {
		_, err := optimizer.Optimize(listing(
			"nop",
			`.ramsection ".bss" bank $7e slot 2`,
			"counter dsb 2",
		))

		Expect(errors.Is(err, asm.ErrUnterminatedSection)).To(BeTrue())
	})

	It("should pass unknown lines through", func() {
		lines := []string{"mymacro 1, 2", "", ".db 1", "weird.q thing"}
		Expect(optimize(lines...)).To(Equal(lines))
	})

	Context("with mocked rules and hooks", func() {
		var (
			mockCtrl *gomock.Controller
			first    *MockRule
			second   *MockRule
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			first = NewMockRule(mockCtrl)
			second = NewMockRule(mockCtrl)

			first.EXPECT().Name().Return("first").AnyTimes()
			second.EXPECT().Name().Return("second").AnyTimes()
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should stop at the first matching rule", func() {
			first.EXPECT().
				Match(gomock.Any()).
				Return(peep.Rewrite{Consumed: 1}, true)

			o := peep.MakeBuilder().WithRules(first, second).Build()
			res, err := o.Optimize(listing("nop"))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Program).To(BeEmpty())
			Expect(res.Passes[0].ByRule).To(Equal(map[string]int{"first": 1}))
		})

		It("should copy a line no rule matches", func() {
			first.EXPECT().Match(gomock.Any()).Return(peep.Rewrite{}, false)
			second.EXPECT().Match(gomock.Any()).Return(peep.Rewrite{}, false)

			o := peep.MakeBuilder().WithRules(first, second).Build()
			res, err := o.Optimize(listing("nop"))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Program.Lines()).To(Equal([]string{"nop"}))
			Expect(res.Passes).To(HaveLen(1))
		})

		It("should panic on a rewrite that grows the program", func() {
			first.EXPECT().
				Match(gomock.Any()).
				Return(peep.Rewrite{
					Emit:     listing("nop", "nop"),
					Consumed: 1,
				}, true)

			o := peep.MakeBuilder().WithRules(first).Build()

			Expect(func() { _, _ = o.Optimize(listing("nop")) }).To(Panic())
		})

		It("should panic on a rewrite that consumes nothing", func() {
			first.EXPECT().
				Match(gomock.Any()).
				Return(peep.Rewrite{}, true)

			o := peep.MakeBuilder().WithRules(first).Build()

			Expect(func() { _, _ = o.Optimize(listing("nop")) }).To(Panic())
		})

		It("should invoke hooks on rewrites and pass ends", func() {
			hook := NewMockHook(mockCtrl)

			var ctxs []sim.HookCtx
			hook.EXPECT().
				Func(gomock.Any()).
				Do(func(ctx sim.HookCtx) { ctxs = append(ctxs, ctx) }).
				Times(3)

			o := peep.MakeBuilder().WithHook(hook).Build()
			_, err := o.Optimize(listing("rep #$20", "sep #$20"))

			Expect(err).NotTo(HaveOccurred())
			Expect(ctxs[0].Pos).To(Equal(peep.HookPosRewrite))
			Expect(ctxs[1].Pos).To(Equal(peep.HookPosPassEnd))
			Expect(ctxs[2].Pos).To(Equal(peep.HookPosPassEnd))

			evt := ctxs[0].Item.(peep.RewriteEvent)
			Expect(evt.Rule).To(Equal("mode-cancel"))
			Expect(evt.Pass).To(Equal(1))
			Expect(asm.Program(evt.Before).Lines()).
				To(Equal([]string{"rep #$20", "sep #$20"}))
			Expect(evt.After).To(BeEmpty())

			Expect(ctxs[2].Item.(peep.PassStats).Fired()).To(BeFalse())
		})
	})
})
