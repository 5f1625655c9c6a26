package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transport", func() {
	Describe("ParseTransport", func() {
		It("parses every known transport", func() {
			for _, name := range TransportNames() {
				transport, err := ParseTransport(name)
				Expect(err).Should(Succeed())
				Expect(transport.String()).Should(Equal(name))
			}
		})

		It("rejects unknown transports", func() {
			_, err := ParseTransport("doh")
			Expect(err).Should(HaveOccurred())
		})
	})

	Describe("Net", func() {
		It("maps to the network names of the DNS client", func() {
			Expect(TransportUdp.Net()).Should(Equal("udp"))
			Expect(TransportTcp.Net()).Should(Equal("tcp"))
			Expect(TransportTls.Net()).Should(Equal("tcp-tls"))
		})
	})
})
