package config

import (
	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TrustAnchor", func() {
	Describe("UnmarshalText", func() {
		It("parses the five anchor fields", func() {
			var anchor TrustAnchor
			Expect(anchor.UnmarshalText([]byte("example.test 257 3 13 QUI="))).Should(Succeed())
			Expect(anchor.Zone).Should(Equal("example.test"))
			Expect(anchor.Flags).Should(Equal(uint16(257)))
			Expect(anchor.Protocol).Should(Equal(uint8(3)))
			Expect(anchor.Algorithm).Should(Equal(uint8(13)))
			Expect(anchor.PublicKey).Should(Equal([]byte("AB")))
		})

		It("tolerates repeated whitespace between fields", func() {
			var anchor TrustAnchor
			Expect(anchor.UnmarshalText([]byte("example.test  257 3  13 QUI="))).Should(Succeed())
			Expect(anchor.Flags).Should(Equal(uint16(257)))
		})

		It("rejects a wrong field count", func() {
			var anchor TrustAnchor
			Expect(anchor.UnmarshalText([]byte("example.test 257 3 13"))).ShouldNot(Succeed())
		})

		It("rejects out of range numbers", func() {
			var anchor TrustAnchor
			Expect(anchor.UnmarshalText([]byte("example.test 70000 3 13 QUI="))).ShouldNot(Succeed())
			Expect(anchor.UnmarshalText([]byte("example.test 257 300 13 QUI="))).ShouldNot(Succeed())
		})

		It("rejects an unparseable key", func() {
			var anchor TrustAnchor
			Expect(anchor.UnmarshalText([]byte("example.test 257 3 13 %%%"))).ShouldNot(Succeed())
		})
	})

	Describe("String", func() {
		It("round-trips the textual form", func() {
			input := "example.test 257 3 13 QUI="

			var anchor TrustAnchor
			Expect(anchor.UnmarshalText([]byte(input))).Should(Succeed())
			Expect(anchor.String()).Should(Equal(input))
		})
	})

	Describe("ToDNSKEY", func() {
		It("builds a DNSKEY resource record", func() {
			var anchor TrustAnchor
			Expect(anchor.UnmarshalText([]byte("example.test 257 3 13 QUI="))).Should(Succeed())

			key := anchor.ToDNSKEY()
			Expect(key.Header().Name).Should(Equal("example.test."))
			Expect(key.Header().Rrtype).Should(Equal(dns.TypeDNSKEY))
			Expect(key.Flags).Should(Equal(uint16(257)))
			Expect(key.PublicKey).Should(Equal("QUI="))
		})
	})
})
