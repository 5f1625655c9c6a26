// Package dnssec verifies CDNSKEY answers against a chain of trust.
//
// The validator walks from the RRSIG signer zone up to the closest
// configured trust anchor: the zone's DNSKEY set is authenticated either by
// an anchor directly or by a DS record set that is itself signed by the
// (recursively validated) parent zone. Signatures are verified with the
// authenticated keys. Negative answers are accepted when the authority
// section carries verifiable proof from the signer.
package dnssec

//go:generate go run github.com/abice/go-enum -f=$GOFILE --names

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

const defaultMaxChainDepth = 10

var (
	errInsecureDelegation = errors.New("delegation has no DS records in the parent zone")
	errNoAnchorReached    = errors.New("chain of trust ends without reaching a trust anchor")
)

// ValidationResult represents the outcome of a validation ENUM(
// Secure // valid signatures and chain of trust
// Insecure // unsigned zone, no validation possible
// Bogus // signatures present but invalid
// Indeterminate // validation could not be completed
// )
type ValidationResult int

// Querier asks the upstream for the records the chain walk needs
type Querier interface {
	Query(name string, qtype uint16) (*dns.Msg, error)
}

// Validator validates DNSSEC signatures and chains of trust.
// The solver creates one per CDNSKEY transaction; validated zone keys are
// cached for the lifetime of the validator only.
type Validator struct {
	anchors       *TrustAnchorStore
	querier       Querier
	logger        *logrus.Entry
	maxChainDepth int
	keyCache      map[string][]*dns.DNSKEY
}

// NewValidator creates a validator on top of the given trust anchors and querier
func NewValidator(anchors *TrustAnchorStore, querier Querier, logger *logrus.Entry) *Validator {
	return &Validator{
		anchors:       anchors,
		querier:       querier,
		logger:        logger,
		maxChainDepth: defaultMaxChainDepth,
		keyCache:      make(map[string][]*dns.DNSKEY),
	}
}

// ValidateCDNSKEY validates the CDNSKEY response for a zone
func (v *Validator) ValidateCDNSKEY(zone string, response *dns.Msg) ValidationResult {
	zone = strings.ToLower(dns.Fqdn(zone))

	switch response.Rcode {
	case dns.RcodeSuccess, dns.RcodeNameError:
	case dns.RcodeServerFailure:
		// a validating recursor answers SERVFAIL for answers it considers bogus
		return ValidationResultBogus
	default:
		return ValidationResultIndeterminate
	}

	answer := recordsOfType(response.Answer, dns.TypeCDNSKEY)
	sigs := sigsCovering(response.Answer, dns.TypeCDNSKEY)

	if len(answer) > 0 {
		if len(sigs) == 0 {
			v.logger.Debugf("CDNSKEY answer for %s carries no RRSIG", zone)

			return ValidationResultInsecure
		}

		return v.verifyRRset(answer, sigs)
	}

	return v.validateNegative(zone, response)
}

// validateNegative checks a NODATA/NXDOMAIN response: every RRset of the
// authority section must verify against the chain of trust
func (v *Validator) validateNegative(zone string, response *dns.Msg) ValidationResult {
	rrsets := groupRRsets(response.Ns)
	if len(rrsets) == 0 {
		v.logger.Debugf("negative CDNSKEY answer for %s has an empty authority section", zone)

		return ValidationResultInsecure
	}

	for key, rrset := range rrsets {
		sigs := sigsCoveringName(response.Ns, key.name, key.rrType)
		if len(sigs) == 0 {
			v.logger.Debugf("authority RRset %s/%d for %s carries no RRSIG", key.name, key.rrType, zone)

			return ValidationResultInsecure
		}

		if result := v.verifyRRset(rrset, sigs); result != ValidationResultSecure {
			return result
		}
	}

	return ValidationResultSecure
}

// verifyRRset tries all signatures; one verified signature with an anchored
// chain of trust makes the RRset secure
func (v *Validator) verifyRRset(rrset []dns.RR, sigs []*dns.RRSIG) ValidationResult {
	var (
		lastErr       error
		indeterminate bool
	)

	now := time.Now()

	for _, sig := range sigs {
		if !sig.ValidityPeriod(now) {
			lastErr = fmt.Errorf("signature of %s is outside its validity period", sig.Header().Name)

			continue
		}

		keys, err := v.validatedZoneKeys(sig.SignerName, 0)

		switch {
		case errors.Is(err, errInsecureDelegation):
			return ValidationResultInsecure
		case err != nil:
			indeterminate = indeterminate || isQueryError(err)
			lastErr = err

			continue
		}

		key := findKey(keys, sig.KeyTag, sig.Algorithm)
		if key == nil {
			lastErr = fmt.Errorf("no DNSKEY with key tag %d and algorithm %d for signer %s",
				sig.KeyTag, sig.Algorithm, sig.SignerName)

			continue
		}

		if err := sig.Verify(key, rrset); err != nil {
			indeterminate = false
			lastErr = err

			continue
		}

		return ValidationResultSecure
	}

	v.logger.Debugf("all signature verification attempts failed, last error: %v", lastErr)

	if indeterminate {
		return ValidationResultIndeterminate
	}

	return ValidationResultBogus
}

// validatedZoneKeys returns the DNSKEY set of a zone after authenticating it
// against the chain of trust
func (v *Validator) validatedZoneKeys(zone string, depth int) ([]*dns.DNSKEY, error) {
	zone = strings.ToLower(dns.Fqdn(zone))

	if keys, ok := v.keyCache[zone]; ok {
		return keys, nil
	}

	if depth > v.maxChainDepth {
		return nil, fmt.Errorf("chain of trust exceeds maximum depth of %d at %s", v.maxChainDepth, zone)
	}

	response, err := v.querier.Query(zone, dns.TypeDNSKEY)
	if err != nil {
		return nil, queryError{fmt.Errorf("DNSKEY query for %s failed: %w", zone, err)}
	}

	keys := recordsOfType(response.Answer, dns.TypeDNSKEY)
	keySigs := sigsCovering(response.Answer, dns.TypeDNSKEY)

	if len(keys) == 0 {
		return nil, fmt.Errorf("zone %s published no DNSKEY records", zone)
	}

	dnskeys := make([]*dns.DNSKEY, 0, len(keys))
	for _, rr := range keys {
		dnskeys = append(dnskeys, rr.(*dns.DNSKEY))
	}

	var trusted []*dns.DNSKEY
	if anchors := v.anchors.Anchors(zone); len(anchors) > 0 {
		trusted = anchors
	} else {
		trusted, err = v.keysMatchingDS(zone, dnskeys, depth)
		if err != nil {
			return nil, err
		}
	}

	if err := verifyKeySet(keys, keySigs, trusted); err != nil {
		return nil, fmt.Errorf("DNSKEY set of %s: %w", zone, err)
	}

	v.keyCache[zone] = dnskeys

	return dnskeys, nil
}

// keysMatchingDS authenticates the zone's key set through the parent: the DS
// RRset must be signed by the validated parent zone and at least one DNSKEY
// must match a DS digest. The matching keys become the trusted signers.
func (v *Validator) keysMatchingDS(zone string, keys []*dns.DNSKEY, depth int) ([]*dns.DNSKEY, error) {
	if zone == "." {
		return nil, errNoAnchorReached
	}

	response, err := v.querier.Query(zone, dns.TypeDS)
	if err != nil {
		return nil, queryError{fmt.Errorf("DS query for %s failed: %w", zone, err)}
	}

	dsRecords := recordsOfType(response.Answer, dns.TypeDS)
	if len(dsRecords) == 0 {
		return nil, errInsecureDelegation
	}

	parentKeys, err := v.validatedZoneKeys(parentZone(zone), depth+1)
	if err != nil {
		return nil, err
	}

	dsSigs := sigsCovering(response.Answer, dns.TypeDS)
	if err := verifyKeySet(dsRecords, dsSigs, parentKeys); err != nil {
		return nil, fmt.Errorf("DS set of %s: %w", zone, err)
	}

	var trusted []*dns.DNSKEY

	for _, rr := range dsRecords {
		ds := rr.(*dns.DS)

		for _, key := range keys {
			if key.KeyTag() != ds.KeyTag || key.Algorithm != ds.Algorithm {
				continue
			}

			computed := key.ToDS(ds.DigestType)
			if computed != nil && strings.EqualFold(computed.Digest, ds.Digest) {
				trusted = append(trusted, key)
			}
		}
	}

	if len(trusted) == 0 {
		return nil, fmt.Errorf("no DNSKEY of %s matches a DS record of its parent", zone)
	}

	return trusted, nil
}

// verifyKeySet checks that at least one signature over the RRset verifies
// with one of the trusted keys
func verifyKeySet(rrset []dns.RR, sigs []*dns.RRSIG, trusted []*dns.DNSKEY) error {
	now := time.Now()

	var lastErr error

	for _, sig := range sigs {
		if !sig.ValidityPeriod(now) {
			lastErr = errors.New("signature is outside its validity period")

			continue
		}

		key := findKey(trusted, sig.KeyTag, sig.Algorithm)
		if key == nil {
			continue
		}

		if err := sig.Verify(key, rrset); err != nil {
			lastErr = err

			continue
		}

		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("no signature matches a trusted key")
	}

	return lastErr
}

// queryError marks chain failures caused by the upstream, not by crypto
type queryError struct {
	err error
}

func (e queryError) Error() string { return e.err.Error() }

func (e queryError) Unwrap() error { return e.err }

func isQueryError(err error) bool {
	var qe queryError

	return errors.As(err, &qe)
}

func findKey(keys []*dns.DNSKEY, keyTag uint16, algorithm uint8) *dns.DNSKEY {
	for _, key := range keys {
		if key.KeyTag() == keyTag && key.Algorithm == algorithm {
			return key
		}
	}

	return nil
}

func parentZone(zone string) string {
	labels := dns.SplitDomainName(zone)
	if len(labels) <= 1 {
		return "."
	}

	return dns.Fqdn(strings.Join(labels[1:], "."))
}

func recordsOfType(rrs []dns.RR, rrType uint16) []dns.RR {
	var result []dns.RR

	for _, rr := range rrs {
		if rr.Header().Rrtype == rrType {
			result = append(result, rr)
		}
	}

	return result
}

func sigsCovering(rrs []dns.RR, covered uint16) []*dns.RRSIG {
	var sigs []*dns.RRSIG

	for _, rr := range rrs {
		if sig, ok := rr.(*dns.RRSIG); ok && sig.TypeCovered == covered {
			sigs = append(sigs, sig)
		}
	}

	return sigs
}

func sigsCoveringName(rrs []dns.RR, name string, covered uint16) []*dns.RRSIG {
	var sigs []*dns.RRSIG

	for _, sig := range sigsCovering(rrs, covered) {
		if strings.EqualFold(sig.Header().Name, name) {
			sigs = append(sigs, sig)
		}
	}

	return sigs
}

// rrsetKey uniquely identifies an RRset by owner name and type
type rrsetKey struct {
	name   string
	rrType uint16
}

// groupRRsets groups records by owner name and type, excluding RRSIGs
func groupRRsets(rrs []dns.RR) map[rrsetKey][]dns.RR {
	rrsets := make(map[rrsetKey][]dns.RR)

	for _, rr := range rrs {
		if _, isSig := rr.(*dns.RRSIG); isSig {
			continue
		}

		key := rrsetKey{
			name:   dns.Fqdn(rr.Header().Name),
			rrType: rr.Header().Rrtype,
		}
		rrsets[key] = append(rrsets[key], rr)
	}

	return rrsets
}
