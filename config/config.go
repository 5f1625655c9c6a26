package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/creasty/defaults"
	"github.com/hashicorp/go-multierror"
)

// Config holds everything the scanner needs for one run. It is filled from
// command line arguments only; there is no configuration file.
type Config struct {
	// HostnameResolvers are the recursors used to resolve A/AAAA records of
	// nameservers. Empty means: use the resolvers configured in the OS.
	HostnameResolvers []net.IP

	// CdnskeyResolvers are the validating recursors used for CDNSKEY records
	// of signed zones. Empty means: use the resolvers configured in the OS.
	CdnskeyResolvers []net.IP

	// TrustAnchors is the chain of trust used to verify signed CDNSKEY
	// records. Empty means: use the built-in root key signing keys.
	TrustAnchors []TrustAnchor

	// QueryTimeout is the hard per-query timeout
	QueryTimeout Duration `default:"10s"`

	// Runtime is the total wall-clock budget for the whole run
	Runtime Duration

	// Transports is the ordered transport preference for all queries
	Transports []Transport

	// DNSPort is the port queried on every upstream and nameserver address
	DNSPort uint16 `default:"53"`
}

// NewConfig returns a Config with all defaults applied: 10s query timeout,
// port 53 and TCP as the only transport (CDNSKEY answers of larger zones do
// not fit into unsignalled UDP payloads anyway)
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("can't apply default values: %w", err)
	}

	cfg.Transports = []Transport{TransportTcp}

	return cfg, nil
}

// Validate checks the invariants the scan relies on and aggregates all
// violations into one error
func (c *Config) Validate() error {
	var result *multierror.Error

	if !c.Runtime.IsAboveZero() {
		result = multierror.Append(result, fmt.Errorf("lack of time"))
	}

	if !c.QueryTimeout.IsAboveZero() {
		result = multierror.Append(result, fmt.Errorf("query timeout must be above zero"))
	}

	if len(c.Transports) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one transport is required"))
	}

	return result.ErrorOrNil()
}

// ParseIPList parses a comma separated list of IP addresses.
// An empty input yields an empty list.
func ParseIPList(value string) ([]net.IP, error) {
	if value == "" {
		return nil, nil
	}

	items := strings.Split(value, ",")
	ips := make([]net.IP, 0, len(items))

	for _, item := range items {
		ip := net.ParseIP(item)
		if ip == nil {
			return nil, fmt.Errorf("can't parse IP address '%s'", item)
		}

		ips = append(ips, ip)
	}

	return ips, nil
}

// ParseTrustAnchorList parses a comma separated list of trust anchors, each
// in the form "zone flags protocol algorithm public_key_base64".
// An empty input yields an empty list.
func ParseTrustAnchorList(value string) ([]TrustAnchor, error) {
	if value == "" {
		return nil, nil
	}

	items := strings.Split(value, ",")
	anchors := make([]TrustAnchor, 0, len(items))

	for _, item := range items {
		var anchor TrustAnchor
		if err := anchor.UnmarshalText([]byte(item)); err != nil {
			return nil, err
		}

		anchors = append(anchors, anchor)
	}

	return anchors, nil
}
