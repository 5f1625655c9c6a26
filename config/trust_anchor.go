package config

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

const trustAnchorFields = 5

// TrustAnchor is a DNSKEY accepted a priori as authoritative; it is the root
// of the chain of trust used to verify signed CDNSKEY answers.
// The textual form is "zone flags protocol algorithm public_key_base64".
type TrustAnchor struct {
	Zone      string
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

// String implements `fmt.Stringer`
func (a TrustAnchor) String() string {
	return fmt.Sprintf("%s %d %d %d %s",
		a.Zone, a.Flags, a.Protocol, a.Algorithm, base64.StdEncoding.EncodeToString(a.PublicKey))
}

// UnmarshalText implements `encoding.TextUnmarshaler`.
func (a *TrustAnchor) UnmarshalText(data []byte) error {
	fields := strings.Fields(string(data))
	if len(fields) != trustAnchorFields {
		return fmt.Errorf("trust anchor must have %d fields (zone flags protocol algorithm public_key_base64), got %d",
			trustAnchorFields, len(fields))
	}

	flags, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return fmt.Errorf("can't parse trust anchor flags '%s': %w", fields[1], err)
	}

	protocol, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return fmt.Errorf("can't parse trust anchor protocol '%s': %w", fields[2], err)
	}

	algorithm, err := strconv.ParseUint(fields[3], 10, 8)
	if err != nil {
		return fmt.Errorf("can't parse trust anchor algorithm '%s': %w", fields[3], err)
	}

	publicKey, err := base64.StdEncoding.DecodeString(fields[4])
	if err != nil {
		return fmt.Errorf("can't decode trust anchor public key: %w", err)
	}

	*a = TrustAnchor{
		Zone:      fields[0],
		Flags:     uint16(flags),
		Protocol:  uint8(protocol),
		Algorithm: uint8(algorithm),
		PublicKey: publicKey,
	}

	return nil
}

// ToDNSKEY converts the anchor into a DNSKEY resource record
func (a TrustAnchor) ToDNSKEY() *dns.DNSKEY {
	return &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(a.Zone),
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
		},
		Flags:     a.Flags,
		Protocol:  a.Protocol,
		Algorithm: a.Algorithm,
		PublicKey: base64.StdEncoding.EncodeToString(a.PublicKey),
	}
}
