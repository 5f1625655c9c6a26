// Package resolver is the asynchronous DNS runtime of the scanner: a single
// threaded event loop multiplexing many outstanding transactions.
//
// A transaction is submitted with a Context and a Request; its network I/O
// runs on a short-lived goroutine that delivers exactly one terminal event
// back into the loop. All Request callbacks execute on the goroutine pumping
// Step, so phases stay free of shared state.
package resolver

import (
	"encoding/base64"
	"errors"
	"net"
	"time"

	"github.com/fred-dns/cdnskey-scanner/dnssec"
	"github.com/fred-dns/cdnskey-scanner/log"
	"github.com/fred-dns/cdnskey-scanner/model"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

const eventBacklog = 64

type eventKind int

const (
	eventComplete eventKind = iota
	eventCancel
	eventTimeout
	eventError
)

type event struct {
	id       TransactionID
	kind     eventKind
	response *Response
}

// Solver owns the active transaction set of one scan phase
type Solver struct {
	logger   *logrus.Entry
	active   map[TransactionID]Request
	finished []Request
	events   chan event
	lastID   TransactionID
}

// NewSolver creates an empty solver. One solver serves one phase; it must
// only be used from a single goroutine.
func NewSolver() *Solver {
	return &Solver{
		logger: log.PrefixedLog("solver"),
		active: make(map[TransactionID]Request),
		events: make(chan event, eventBacklog),
	}
}

// SubmitAddress starts a joint A/AAAA transaction for a hostname
func (s *Solver) SubmitAddress(qctx *Context, hostname string, request Request) TransactionID {
	id := s.register(request)
	go s.runAddressQuery(qctx, hostname, id)

	return id
}

// SubmitCDNSKEY starts a CDNSKEY transaction for a zone
func (s *Solver) SubmitCDNSKEY(qctx *Context, zone string, request Request) TransactionID {
	id := s.register(request)
	go s.runCdnskeyQuery(qctx, zone, id)

	return id
}

func (s *Solver) register(request Request) TransactionID {
	s.lastID++
	s.active[s.lastID] = request

	return s.lastID
}

// Step blocks until the pacing timer fires (returns true) or one transaction
// reaches a terminal state and is dispatched (returns false). A nil timer
// channel never fires.
func (s *Solver) Step(timer <-chan time.Time) bool {
	select {
	case <-timer:
		return true
	case ev := <-s.events:
		s.dispatch(ev)

		return false
	}
}

// Outstanding returns the number of transactions without a terminal state
func (s *Solver) Outstanding() int {
	return len(s.active)
}

// PopFinished drains the finished queue
func (s *Solver) PopFinished() []Request {
	finished := s.finished
	s.finished = nil

	return finished
}

// CancelAll forces a terminal state onto every active transaction. Workers
// still in flight deliver their events later; those are ignored as late
// callbacks.
func (s *Solver) CancelAll() {
	for id, request := range s.active {
		s.invoke(request, event{id: id, kind: eventCancel})
		s.finished = append(s.finished, request)
		delete(s.active, id)
	}
}

func (s *Solver) dispatch(ev event) {
	request, ok := s.active[ev.id]
	if !ok {
		s.logger.Debugf("ignoring late callback for unknown transaction %d", ev.id)

		return
	}

	s.invoke(request, ev)
	s.finished = append(s.finished, request)
	delete(s.active, ev.id)
}

// invoke shields the loop from panicking request handlers; the transaction
// is finalised either way
func (s *Solver) invoke(request Request, ev event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("request handler of transaction %d panicked: %v", ev.id, r)
		}
	}()

	switch ev.kind {
	case eventComplete:
		request.OnComplete(ev.response, ev.id)
	case eventCancel:
		request.OnCancel(ev.id)
	case eventTimeout:
		request.OnTimeout(ev.id)
	case eventError:
		request.OnError(ev.id)
	}
}

// runAddressQuery asks for A and AAAA jointly and projects the distinct
// addresses. One answered question type is enough to complete.
func (s *Solver) runAddressQuery(qctx *Context, hostname string, id TransactionID) {
	addrs, err := qctx.upstreamAddrs()
	if err != nil {
		s.logger.Warnf("address query for %s has no usable upstream: %v", hostname, err)
		s.events <- event{id: id, kind: eventError}

		return
	}

	client := newTransportClient(qctx.Transports, qctx.Timeout)

	var (
		ips      []net.IP
		lastErr  error
		answered bool
	)

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(hostname), qtype)
		msg.RecursionDesired = qctx.recursionDesired()

		response, err := client.exchangeAny(msg, addrs)
		if err != nil {
			lastErr = err

			continue
		}

		answered = true
		ips = appendAddresses(ips, response.Answer)
	}

	if !answered {
		s.events <- event{id: id, kind: terminalKind(lastErr)}

		return
	}

	s.events <- event{id: id, kind: eventComplete, response: &Response{Addresses: ips}}
}

// runCdnskeyQuery asks for the CDNSKEY records of a zone. With
// ReturnOnlySecure set, a non-validating answer completes with a suppressed
// reply tree.
func (s *Solver) runCdnskeyQuery(qctx *Context, zone string, id TransactionID) {
	addrs, err := qctx.upstreamAddrs()
	if err != nil {
		s.logger.Warnf("CDNSKEY query for %s has no usable upstream: %v", zone, err)
		s.events <- event{id: id, kind: eventError}

		return
	}

	client := newTransportClient(qctx.Transports, qctx.Timeout)

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(zone), dns.TypeCDNSKEY)
	msg.RecursionDesired = qctx.recursionDesired()

	if qctx.ReturnOnlySecure {
		msg.SetEdns0(ednsBufferSize, true)
		msg.AuthenticatedData = true
	}

	response, err := client.exchangeAny(msg, addrs)
	if err != nil {
		s.events <- event{id: id, kind: terminalKind(err)}

		return
	}

	if qctx.ReturnOnlySecure && s.validationResult(qctx, client, addrs, zone, response) != dnssec.ValidationResultSecure {
		s.events <- event{id: id, kind: eventComplete, response: &Response{}}

		return
	}

	reply := Reply{Keys: extractCdnskeys(response.Answer)}
	s.events <- event{id: id, kind: eventComplete, response: &Response{Replies: []Reply{reply}}}
}

func (s *Solver) validationResult(qctx *Context, client *transportClient, addrs []string,
	zone string, response *dns.Msg,
) dnssec.ValidationResult {
	querier := &chainQuerier{client: client, addrs: addrs}

	if qctx.Validate != nil {
		return qctx.Validate(zone, response, querier)
	}

	anchors := qctx.TrustAnchors
	if anchors == nil {
		var err error

		anchors, err = dnssec.NewTrustAnchorStore(nil)
		if err != nil {
			s.logger.Errorf("can't load built-in trust anchors: %v", err)

			return dnssec.ValidationResultIndeterminate
		}
	}

	return dnssec.NewValidator(anchors, querier, s.logger).ValidateCDNSKEY(zone, response)
}

// chainQuerier serves the DNSKEY/DS lookups of the chain walk over the same
// upstreams as the transaction that triggered it
type chainQuerier struct {
	client *transportClient
	addrs  []string
}

func (q *chainQuerier) Query(name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(ednsBufferSize, true)

	return q.client.exchangeAny(msg, q.addrs)
}

func appendAddresses(ips []net.IP, answers []dns.RR) []net.IP {
	for _, rr := range answers {
		var ip net.IP

		switch v := rr.(type) {
		case *dns.A:
			ip = v.A
		case *dns.AAAA:
			ip = v.AAAA
		default:
			continue
		}

		if !containsIP(ips, ip) {
			ips = append(ips, ip)
		}
	}

	return ips
}

func containsIP(ips []net.IP, ip net.IP) bool {
	for _, known := range ips {
		if known.Equal(ip) {
			return true
		}
	}

	return false
}

// extractCdnskeys projects the CDNSKEY records of an answer section into
// owned tuples. The result is never nil: a completed reply without records
// is an empty set, not a missing one.
func extractCdnskeys(answers []dns.RR) []model.Cdnskey {
	keys := make([]model.Cdnskey, 0, len(answers))

	for _, rr := range answers {
		cdnskey, ok := rr.(*dns.CDNSKEY)
		if !ok {
			continue
		}

		publicKey, err := base64.StdEncoding.DecodeString(cdnskey.PublicKey)
		if err != nil {
			continue
		}

		keys = append(keys, model.Cdnskey{
			Flags:     cdnskey.Flags,
			Protocol:  cdnskey.Protocol,
			Algorithm: cdnskey.Algorithm,
			PublicKey: publicKey,
		})
	}

	return keys
}

func terminalKind(err error) eventKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return eventTimeout
	}

	return eventError
}
