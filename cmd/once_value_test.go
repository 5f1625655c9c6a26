package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("onceValue", func() {
	var sut *onceValue

	BeforeEach(func() {
		sut = newOnceValue("timeout")
	})

	It("accepts a single assignment", func() {
		Expect(sut.Set("5")).Should(Succeed())
		Expect(sut.String()).Should(Equal("5"))
		Expect(sut.IsSet()).Should(BeTrue())
	})

	It("rejects a second assignment", func() {
		Expect(sut.Set("5")).Should(Succeed())
		Expect(sut.Set("7")).Should(MatchError("timeout option can be used once only"))
	})

	It("rejects an empty argument", func() {
		Expect(sut.Set("")).Should(MatchError("timeout argument can not be empty"))
	})

	It("starts unset", func() {
		Expect(sut.IsSet()).Should(BeFalse())
		Expect(sut.String()).Should(BeEmpty())
	})
})
