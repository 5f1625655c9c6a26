package model

import (
	"encoding/base64"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cdnskey", func() {
	Describe("String", func() {
		It("prints decimal fields and the base64 encoded key", func() {
			key := Cdnskey{Flags: 257, Protocol: 3, Algorithm: 13, PublicKey: []byte("AB")}
			Expect(key.String()).Should(Equal("257 3 13 QUI="))
		})

		It("keeps the full numeric ranges", func() {
			key := Cdnskey{Flags: 65535, Protocol: 255, Algorithm: 255, PublicKey: []byte{0x00}}
			Expect(key.String()).Should(Equal("65535 255 255 AA=="))
		})
	})

	It("round-trips the public key through base64", func() {
		original := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
		key := Cdnskey{PublicKey: original}

		encoded := key.String()
		fields := []byte(encoded[len(encoded)-8:])
		decoded, err := base64.StdEncoding.DecodeString(string(fields))
		Expect(err).Should(Succeed())
		Expect(decoded).Should(Equal(original))
	})
})

var _ = Describe("QueryStatus", func() {
	It("names every state", func() {
		Expect(QueryStatusNone.String()).Should(Equal("none"))
		Expect(QueryStatusInProgress.String()).Should(Equal("inProgress"))
		Expect(QueryStatusCompleted.String()).Should(Equal("completed"))
		Expect(QueryStatusCancelled.String()).Should(Equal("cancelled"))
		Expect(QueryStatusTimedOut.String()).Should(Equal("timedOut"))
		Expect(QueryStatusFailed.String()).Should(Equal("failed"))
		Expect(QueryStatusUntrustworthyAnswer.String()).Should(Equal("untrustworthyAnswer"))
	})

	It("parses its own names", func() {
		for _, name := range QueryStatusNames() {
			status, err := ParseQueryStatus(name)
			Expect(err).Should(Succeed())
			Expect(status.String()).Should(Equal(name))
		}
	})
})
