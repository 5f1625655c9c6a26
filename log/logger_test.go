package log

import (
	"io"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Log", func() {
	It("provides the global logger", func() {
		Expect(Log()).ShouldNot(BeNil())
	})

	Describe("PrefixedLog", func() {
		It("attaches the prefix field", func() {
			entry := PrefixedLog("scanner")
			Expect(entry.Data["prefix"]).Should(Equal("scanner"))
		})
	})

	Describe("ConfigureLogger", func() {
		It("applies the log level", func() {
			ConfigureLogger("debug")
			Expect(Log().GetLevel()).Should(Equal(logrus.DebugLevel))

			ConfigureLogger("info")
			Expect(Log().GetLevel()).Should(Equal(logrus.InfoLevel))
		})
	})

	Describe("Silence", func() {
		It("discards all output", func() {
			Silence()
			Expect(Log().Out).Should(Equal(io.Discard))
		})
	})
})
