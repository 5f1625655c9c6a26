package config

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Duration", func() {
	Describe("UnmarshalText", func() {
		It("reads a plain number as seconds", func() {
			var d Duration
			Expect(d.UnmarshalText([]byte("30"))).Should(Succeed())
			Expect(d.ToDuration()).Should(Equal(30 * time.Second))
		})

		It("reads a Go duration", func() {
			var d Duration
			Expect(d.UnmarshalText([]byte("1m30s"))).Should(Succeed())
			Expect(d.ToDuration()).Should(Equal(90 * time.Second))
		})

		It("rejects garbage", func() {
			var d Duration
			Expect(d.UnmarshalText([]byte("soon"))).ShouldNot(Succeed())
		})
	})

	Describe("IsAboveZero", func() {
		It("accepts only strictly positive durations", func() {
			Expect(Duration(0).IsAboveZero()).Should(BeFalse())
			Expect(Duration(-time.Second).IsAboveZero()).Should(BeFalse())
			Expect(Duration(time.Second).IsAboveZero()).Should(BeTrue())
		})
	})

	Describe("Seconds", func() {
		It("converts to seconds", func() {
			Expect(Duration(1500 * time.Millisecond).Seconds()).Should(Equal(1.5))
		})
	})
})
