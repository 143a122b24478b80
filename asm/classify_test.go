package asm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Safety classifier", func() {
	r0 := PseudoReg{Family: 'r', Index: 0}
	r0h := r0.HighHalf()

	DescribeTable("IsControl",
		func(line string, want bool) {
			Expect(IsControl(Parse(line))).To(Equal(want))
		},
		Entry("label", "__local_3:", true),
		Entry("anonymous label", "+", true),
		Entry("long jump", "jmp.w done", true),
		Entry("short branch", "bra __l1", true),
		Entry("conditional branch", "beq __l1", true),
		Entry("call", "jsr.l routine", true),
		Entry("return", "rtl", true),
		Entry("bit test by first letter", "bit.b tcc__r0", true),
		Entry("unknown j-line", "jfoo", true),
		Entry("label sharing a line with code", "loop: lda #1", true),
		Entry("label sharing a line with a comment", "loop: ; top", true),
		Entry("store", "sta.b tcc__r0", false),
		Entry("nop", "nop", false),
		Entry("empty line", "", false),
	)

	DescribeTable("TouchesAccu",
		func(line string, want bool) {
			Expect(TouchesAccu(Parse(line))).To(Equal(want))
		},
		Entry("load", "lda.b tcc__r1", true),
		Entry("pull", "pla", true),
		Entry("add", "adc.b tcc__r1", true),
		Entry("exclusive or", "eor #$ffff", true),
		Entry("transfer into accu", "txa", true),
		Entry("byte swap", "xba", true),
		Entry("accumulator shift", "asl a", true),
		Entry("accumulator increment", "inc a", true),
		Entry("mode switch", "sep #$20", true),
		Entry("unclassified line", "some_macro 3", true),
		Entry("push accu", "pha", false),
		Entry("store accu", "sta.b tcc__r1", false),
		Entry("memory increment", "inc.b tcc__r1", false),
		Entry("index load", "ldx.b tcc__r1", false),
		Entry("transfer out of accu", "tax", false),
		Entry("compare", "cmp.b tcc__r1", false),
		Entry("clear carry", "clc", false),
	)

	DescribeTable("UsesX",
		func(line string, want bool) {
			Expect(UsesX(Parse(line))).To(Equal(want))
		},
		Entry("indexed load", "lda.l foo,x", true),
		Entry("store x", "stx.b tcc__r0", true),
		Entry("push x", "phx", true),
		Entry("branch", "bra __l", true),
		Entry("plain load", "lda.b tcc__r0", false),
		Entry("y indexed", "lda.l foo,y", false),
		Entry("x overwrite", "ldx #4", false),
	)

	It("should only report exact register references", func() {
		Expect(Parse("lda.b tcc__r0").References(r0)).To(BeTrue())
		Expect(Parse("lda.b tcc__r10").References(r0)).To(BeFalse())
		Expect(Parse("lda.b tcc__r0h").References(r0)).To(BeFalse())
		Expect(Parse("lda.w [tcc__r0],y").References(r0)).To(BeTrue())
		Expect(Parse("some_macro tcc__r0, 2").References(r0)).To(BeTrue())
	})

	It("should treat a long pointer dereference as reading the high half", func() {
		deref := Parse("lda.w [tcc__r0],y")

		Expect(deref.References(r0h)).To(BeFalse())
		Expect(deref.DerefsLong(r0)).To(BeTrue())
		Expect(deref.Reads(r0h)).To(BeTrue())
		Expect(Parse("lda.w (tcc__r0),y").Reads(r0h)).To(BeFalse())
	})

	It("should treat an offset long pointer dereference as reading the high half", func() {
		deref := Parse("lda.w [tcc__r0 + 2]")

		Expect(deref.DerefsLong(r0)).To(BeTrue())
		Expect(deref.Reads(r0h)).To(BeTrue())
		Expect(Parse("lda.w [tcc__r1 + 2],y").Reads(r0h)).To(BeFalse())
	})

	It("should detect stack pointer movement", func() {
		Expect(MovesStack(Parse("pha"))).To(BeTrue())
		Expect(MovesStack(Parse("pei (tcc__r0)"))).To(BeTrue())
		Expect(MovesStack(Parse("sta 3,s"))).To(BeTrue())
		Expect(MovesStack(Parse("tcs"))).To(BeTrue())
		Expect(MovesStack(Parse("lda 3,s"))).To(BeFalse())
		Expect(MovesStack(Parse("sta.b tcc__r0"))).To(BeFalse())
		Expect(MovesStack(Parse(""))).To(BeFalse())
	})
})
