package resolver

import (
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"
	"github.com/fred-dns/cdnskey-scanner/dnssec"

	"github.com/miekg/dns"
)

// InitialSettings selects how a context seeds its upstream servers
type InitialSettings int

const (
	// InitialSettingsNone requires explicit upstreams
	InitialSettingsNone InitialSettings = iota
	// InitialSettingsFromOS falls back to the resolvers configured in the OS
	// when no explicit upstreams are given
	InitialSettingsFromOS
)

// ValidateFunc checks a CDNSKEY response for a zone; everything but a secure
// verdict suppresses the reply tree of a ReturnOnlySecure transaction
type ValidateFunc func(zone string, response *dns.Msg, querier dnssec.Querier) dnssec.ValidationResult

// Context carries the settings of one transaction. Contexts are cheap values
// and may be shared by all queries of a phase or created per query.
type Context struct {
	InitialSettings InitialSettings
	Upstreams       []net.IP
	Transports      []config.Transport
	Timeout         time.Duration
	Port            uint16

	// TrustAnchors roots the validation of ReturnOnlySecure transactions
	TrustAnchors *dnssec.TrustAnchorStore

	// ReturnOnlySecure suppresses answers that do not validate as secure
	ReturnOnlySecure bool

	// Validate replaces the built-in validation; used by tests
	Validate ValidateFunc
}

const defaultDNSPort = 53

var errNoUpstreams = errors.New("context has no upstream servers")

// upstreamAddrs resolves the effective upstream host:port list
func (c *Context) upstreamAddrs() ([]string, error) {
	ips := c.Upstreams

	if len(ips) == 0 {
		if c.InitialSettings != InitialSettingsFromOS {
			return nil, errNoUpstreams
		}

		var err error

		ips, err = nameserversFromOS()
		if err != nil {
			return nil, err
		}
	}

	port := c.Port
	if port == 0 {
		port = defaultDNSPort
	}

	addrs := make([]string, len(ips))
	for i, ip := range ips {
		addrs[i] = net.JoinHostPort(ip.String(), strconv.Itoa(int(port)))
	}

	return addrs, nil
}

// recursionDesired: contexts seeded from the OS talk to recursors, contexts
// without initial settings talk to authoritative servers directly
func (c *Context) recursionDesired() bool {
	return c.InitialSettings == InitialSettingsFromOS
}
