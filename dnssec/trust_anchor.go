package dnssec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// Default root KSK trust anchors from IANA.
// Source: https://data.iana.org/root-anchors/root-anchors.xml
//
// - KSK-2017 (Key Tag 20326): Active since February 2017
// - KSK-2024 (Key Tag 38696): Active since July 2024
var defaultRootAnchors = []string{
	". 172800 IN DNSKEY 257 3 8 " +
		"AwEAAaz/tAm8yTn4Mfeh5eyI96WSVexTBAvkMgJzkKTOiW1vkIbzxeF3+/4RgWOq7HrxRixHlFlExOLAJr5emLvN7SWXgnLh4+B5xQlNVz8Og8k" +
		"vArMtNROxVQuCaSnIDdD5LKyWbRd2n9WGe2R8PzgCmr3EgVLrjyBxWezF0jLHwVN8efS3rCj/EWgvIWgb9tarpVUDK/b58Da+sqqls3eNbuv7pr" +
		"+eoZG+SrDK6nWeL3c6H5Apxz7LjVc1uTIdsIXxuOLYA4/ilBmSVIzuDWfdRUfhHdY6+cn8HFRm+2hM8AnXGXws9555KrUB5qihylGa8subX2Nn6" +
		"UwNR1AkUTV74bU=",
	". 172800 IN DNSKEY 257 3 8 " +
		"AwEAAa96jeuknZlaeSrvyAJj6ZHv28hhOKkx3rLGXVaC6rXTsDc449/cidltpkyGwCJNnOAlFNKF2jBosZBU5eeHspaQWOmOElZsjICMQMC3aeH" +
		"bGiShvZsx4wMYSjH8e7Vrhbu6irwCzVBApESjbUdpWWmEnhathWu1jo+siFUiRAAxm9qyJNg/wOZqqzL/dL/q8PkcRU5oUKEpUge71M3ej2/7CP" +
		"qpdVwuMoTvoB+ZOT4YeGyxMvHmbrxlFzGOHOijtzN+u1TQNatX2XBuzZNQ1K+s2CXkPIZo7s6JgZyvaBevYtxPvYLw4z9mR7K2vaF18UYH9Z9GN" +
		"UUeayffKC73PYc=",
}

// TrustAnchorStore manages the DNSKEYs accepted a priori, keyed by zone
type TrustAnchorStore struct {
	anchors map[string][]*dns.DNSKEY
}

// NewTrustAnchorStore creates a trust anchor store from the given DNSKEYs.
// With no keys the built-in IANA root KSKs are used.
func NewTrustAnchorStore(keys []*dns.DNSKEY) (*TrustAnchorStore, error) {
	store := &TrustAnchorStore{
		anchors: make(map[string][]*dns.DNSKEY),
	}

	if len(keys) == 0 {
		var err error

		keys, err = parseRootAnchors()
		if err != nil {
			return nil, err
		}
	}

	for _, key := range keys {
		if err := store.add(key); err != nil {
			return nil, fmt.Errorf("failed to load trust anchor: %w", err)
		}
	}

	return store, nil
}

func parseRootAnchors() ([]*dns.DNSKEY, error) {
	keys := make([]*dns.DNSKEY, 0, len(defaultRootAnchors))

	for _, anchor := range defaultRootAnchors {
		rr, err := dns.NewRR(anchor)
		if err != nil {
			return nil, fmt.Errorf("failed to parse built-in root anchor: %w", err)
		}

		keys = append(keys, rr.(*dns.DNSKEY))
	}

	return keys, nil
}

func (s *TrustAnchorStore) add(key *dns.DNSKEY) error {
	if key.Header().Rrtype != dns.TypeDNSKEY {
		return errors.New("trust anchor is not a DNSKEY record")
	}

	zone := strings.ToLower(dns.Fqdn(key.Header().Name))
	s.anchors[zone] = append(s.anchors[zone], key)

	return nil
}

// Anchors returns the trust anchors configured for a zone
func (s *TrustAnchorStore) Anchors(zone string) []*dns.DNSKEY {
	return s.anchors[strings.ToLower(dns.Fqdn(zone))]
}

// HasAnchor returns true if the store has a trust anchor for the zone
func (s *TrustAnchorStore) HasAnchor(zone string) bool {
	return len(s.Anchors(zone)) > 0
}
