package resolver

import (
	"errors"
	"os"
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"

	"github.com/miekg/dns"
)

const ednsBufferSize = 4096

var errTruncated = errors.New("answer was truncated on every configured transport")

// transportClient exchanges DNS messages over an ordered transport
// preference list
type transportClient struct {
	clients []*dns.Client
	timeout time.Duration
}

func newTransportClient(transports []config.Transport, timeout time.Duration) *transportClient {
	clients := make([]*dns.Client, 0, len(transports))

	for _, transport := range transports {
		clients = append(clients, &dns.Client{
			Net:     transport.Net(),
			Timeout: timeout,
			UDPSize: ednsBufferSize,
		})
	}

	return &transportClient{clients: clients, timeout: timeout}
}

// exchange walks the transport list until one of them carries a full answer.
// A truncated UDP answer falls through to the next transport. The timeout
// bounds the whole exchange, not each attempt.
func (c *transportClient) exchange(msg *dns.Msg, addr string) (*dns.Msg, error) {
	deadline := time.Now().Add(c.timeout)

	var lastErr error = errTruncated

	for _, client := range c.clients {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, os.ErrDeadlineExceeded
		}

		attempt := dns.Client{
			Net:     client.Net,
			Timeout: remaining,
			UDPSize: client.UDPSize,
		}

		response, _, err := attempt.Exchange(msg, addr)
		if err != nil {
			lastErr = err

			continue
		}

		if response.Truncated && client.Net == "udp" {
			lastErr = errTruncated

			continue
		}

		return response, nil
	}

	return nil, lastErr
}

// exchangeAny asks the upstreams in order until one of them answers
func (c *transportClient) exchangeAny(msg *dns.Msg, addrs []string) (*dns.Msg, error) {
	var lastErr error = errNoUpstreams

	for _, addr := range addrs {
		response, err := c.exchange(msg, addr)
		if err != nil {
			lastErr = err

			continue
		}

		return response, nil
	}

	return nil, lastErr
}
