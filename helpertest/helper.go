// Package helpertest provides shared test helpers: an in-process DNS server
// on the loopback interface and builders for the records the scanner deals
// with.
package helpertest

import (
	"encoding/base64"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/miekg/dns"
)

// Responder fills in the response for one question. Returning false drops
// the query without an answer, which makes the client run into its timeout.
type Responder func(question dns.Question, response *dns.Msg) bool

// MockDNS is an in-process DNS server for tests. It serves UDP and TCP on
// the same random loopback port.
type MockDNS struct {
	IP   net.IP
	Port uint16

	udp     *dns.Server
	tcp     *dns.Server
	queries int32
}

// NewMockDNS starts a mock server answering with the given responder
func NewMockDNS(respond Responder) (*MockDNS, error) {
	packetConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("can't listen on udp: %w", err)
	}

	port := packetConn.LocalAddr().(*net.UDPAddr).Port

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		_ = packetConn.Close()

		return nil, fmt.Errorf("can't listen on tcp: %w", err)
	}

	mock := &MockDNS{
		IP:   net.ParseIP("127.0.0.1"),
		Port: uint16(port),
	}

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, request *dns.Msg) {
		atomic.AddInt32(&mock.queries, 1)

		response := new(dns.Msg)
		response.SetReply(request)

		if len(request.Question) > 0 && respond != nil {
			if !respond(request.Question[0], response) {
				return
			}
		}

		_ = w.WriteMsg(response)
	})

	mock.udp = &dns.Server{PacketConn: packetConn, Handler: handler}
	mock.tcp = &dns.Server{Listener: listener, Handler: handler}

	go func() { _ = mock.udp.ActivateAndServe() }()
	go func() { _ = mock.tcp.ActivateAndServe() }()

	return mock, nil
}

// QueryCount returns how many queries the server has received
func (m *MockDNS) QueryCount() int {
	return int(atomic.LoadInt32(&m.queries))
}

// Close shuts both listeners down. The sockets are closed directly as well,
// because Shutdown has no effect on a server whose goroutine has not started
// serving yet.
func (m *MockDNS) Close() {
	_ = m.udp.Shutdown()
	_ = m.tcp.Shutdown()
	_ = m.udp.PacketConn.Close()
	_ = m.tcp.Listener.Close()
}

// ARecord builds an A record for tests
func ARecord(name string, ip string) dns.RR {
	return &dns.A{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(name),
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		A: net.ParseIP(ip),
	}
}

// CdnskeyRecord builds a CDNSKEY record for tests
func CdnskeyRecord(zone string, flags uint16, protocol, algorithm uint8, publicKey []byte) dns.RR {
	return &dns.CDNSKEY{
		DNSKEY: dns.DNSKEY{
			Hdr: dns.RR_Header{
				Name:   dns.Fqdn(zone),
				Rrtype: dns.TypeCDNSKEY,
				Class:  dns.ClassINET,
				Ttl:    300,
			},
			Flags:     flags,
			Protocol:  protocol,
			Algorithm: algorithm,
			PublicKey: base64.StdEncoding.EncodeToString(publicKey),
		},
	}
}
