package resolver

import (
	"fmt"
	"net"

	"github.com/miekg/dns"
)

const resolvConfPath = "/etc/resolv.conf"

// nameserversFromOS reads the recursors configured in the host's resolver
// configuration
func nameserversFromOS() ([]net.IP, error) {
	clientConfig, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil {
		return nil, fmt.Errorf("can't read %s: %w", resolvConfPath, err)
	}

	ips := make([]net.IP, 0, len(clientConfig.Servers))

	for _, server := range clientConfig.Servers {
		if ip := net.ParseIP(server); ip != nil {
			ips = append(ips, ip)
		}
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("no nameservers found in %s", resolvConfPath)
	}

	return ips, nil
}
