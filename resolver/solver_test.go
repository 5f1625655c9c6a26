package resolver

import (
	"net"
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"
	"github.com/fred-dns/cdnskey-scanner/dnssec"
	"github.com/fred-dns/cdnskey-scanner/helpertest"
	"github.com/fred-dns/cdnskey-scanner/model"

	"github.com/miekg/dns"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// recordingRequest keeps the terminal state it observed
type recordingRequest struct {
	id              TransactionID
	status          model.QueryStatus
	response        *Response
	panicOnComplete bool
}

func (r *recordingRequest) OnComplete(response *Response, id TransactionID) {
	r.id = id

	if r.panicOnComplete {
		panic("handler failure")
	}

	r.status = model.QueryStatusCompleted
	r.response = response
}

func (r *recordingRequest) OnCancel(id TransactionID) {
	r.id = id
	r.status = model.QueryStatusCancelled
}

func (r *recordingRequest) OnTimeout(id TransactionID) {
	r.id = id
	r.status = model.QueryStatusTimedOut
}

func (r *recordingRequest) OnError(id TransactionID) {
	r.id = id
	r.status = model.QueryStatusFailed
}

func pump(solver *Solver) {
	for solver.Outstanding() > 0 {
		solver.Step(nil)
	}
}

var _ = ginkgo.Describe("Solver", func() {
	var (
		sut  *Solver
		mock *helpertest.MockDNS
	)

	localhost := net.ParseIP("127.0.0.1")

	newContext := func(port uint16) *Context {
		return &Context{
			InitialSettings: InitialSettingsNone,
			Upstreams:       []net.IP{localhost},
			Transports:      []config.Transport{config.TransportTcp},
			Timeout:         2 * time.Second,
			Port:            port,
		}
	}

	ginkgo.BeforeEach(func() {
		sut = NewSolver()
		mock = nil
	})

	ginkgo.AfterEach(func() {
		if mock != nil {
			mock.Close()
		}
	})

	ginkgo.Describe("SubmitCDNSKEY", func() {
		ginkgo.When("the server answers with records", func() {
			ginkgo.It("completes with the projected keys", func() {
				var err error
				mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
					m.Answer = append(m.Answer,
						helpertest.CdnskeyRecord(q.Name, 257, 3, 13, []byte("AB")))

					return true
				})
				Expect(err).Should(Succeed())

				request := &recordingRequest{}
				id := sut.SubmitCDNSKEY(newContext(mock.Port), "zone.test", request)
				Expect(sut.Outstanding()).Should(Equal(1))

				pump(sut)

				Expect(request.id).Should(Equal(id))
				Expect(request.status).Should(Equal(model.QueryStatusCompleted))
				Expect(request.response.Replies).Should(HaveLen(1))
				Expect(request.response.Replies[0].Keys).Should(Equal([]model.Cdnskey{
					{Flags: 257, Protocol: 3, Algorithm: 13, PublicKey: []byte("AB")},
				}))
				Expect(sut.PopFinished()).Should(ConsistOf(request))
			})
		})

		ginkgo.When("the server answers without records", func() {
			ginkgo.It("completes with an empty, non-suppressed reply", func() {
				var err error
				mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
					return true
				})
				Expect(err).Should(Succeed())

				request := &recordingRequest{}
				sut.SubmitCDNSKEY(newContext(mock.Port), "zone.test", request)
				pump(sut)

				Expect(request.status).Should(Equal(model.QueryStatusCompleted))
				Expect(request.response.Replies).ShouldNot(BeNil())
				Expect(request.response.Replies[0].Keys).Should(BeEmpty())
			})
		})

		ginkgo.When("the context has no upstream", func() {
			ginkgo.It("fails", func() {
				qctx := &Context{
					InitialSettings: InitialSettingsNone,
					Transports:      []config.Transport{config.TransportTcp},
					Timeout:         time.Second,
				}

				request := &recordingRequest{}
				sut.SubmitCDNSKEY(qctx, "zone.test", request)
				pump(sut)

				Expect(request.status).Should(Equal(model.QueryStatusFailed))
			})
		})

		ginkgo.When("the server never answers", func() {
			ginkgo.It("times out", func() {
				var err error
				mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
					return false
				})
				Expect(err).Should(Succeed())

				qctx := newContext(mock.Port)
				qctx.Timeout = 300 * time.Millisecond

				request := &recordingRequest{}
				sut.SubmitCDNSKEY(qctx, "zone.test", request)
				pump(sut)

				Expect(request.status).Should(Equal(model.QueryStatusTimedOut))
			})
		})

		ginkgo.When("nothing listens on the port", func() {
			ginkgo.It("fails", func() {
				var err error
				mock, err = helpertest.NewMockDNS(nil)
				Expect(err).Should(Succeed())

				port := mock.Port
				mock.Close()
				mock = nil

				request := &recordingRequest{}
				sut.SubmitCDNSKEY(newContext(port), "zone.test", request)
				pump(sut)

				Expect(request.status).Should(Equal(model.QueryStatusFailed))
			})
		})

		ginkgo.When("only secure answers are wanted", func() {
			ginkgo.It("suppresses the reply tree of a non-validating answer", func() {
				var err error
				mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
					m.Answer = append(m.Answer,
						helpertest.CdnskeyRecord(q.Name, 257, 3, 13, []byte("AB")))

					return true
				})
				Expect(err).Should(Succeed())

				qctx := newContext(mock.Port)
				qctx.ReturnOnlySecure = true
				qctx.Validate = func(string, *dns.Msg, dnssec.Querier) dnssec.ValidationResult {
					return dnssec.ValidationResultBogus
				}

				request := &recordingRequest{}
				sut.SubmitCDNSKEY(qctx, "zone.test", request)
				pump(sut)

				Expect(request.status).Should(Equal(model.QueryStatusCompleted))
				Expect(request.response.Replies).Should(BeNil())
			})

			ginkgo.It("keeps the reply tree of a validated answer", func() {
				var err error
				mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
					m.Answer = append(m.Answer,
						helpertest.CdnskeyRecord(q.Name, 257, 3, 13, []byte("AB")))

					return true
				})
				Expect(err).Should(Succeed())

				qctx := newContext(mock.Port)
				qctx.ReturnOnlySecure = true
				qctx.Validate = func(string, *dns.Msg, dnssec.Querier) dnssec.ValidationResult {
					return dnssec.ValidationResultSecure
				}

				request := &recordingRequest{}
				sut.SubmitCDNSKEY(qctx, "zone.test", request)
				pump(sut)

				Expect(request.status).Should(Equal(model.QueryStatusCompleted))
				Expect(request.response.Replies).Should(HaveLen(1))
				Expect(request.response.Replies[0].Keys).Should(HaveLen(1))
			})
		})
	})

	ginkgo.Describe("SubmitAddress", func() {
		ginkgo.It("projects the distinct A and AAAA answers", func() {
			var err error
			mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
				if q.Qtype == dns.TypeA {
					m.Answer = append(m.Answer,
						helpertest.ARecord(q.Name, "192.0.2.1"),
						helpertest.ARecord(q.Name, "192.0.2.2"),
						helpertest.ARecord(q.Name, "192.0.2.1"))
				}

				return true
			})
			Expect(err).Should(Succeed())

			request := &recordingRequest{}
			sut.SubmitAddress(newContext(mock.Port), "ns.test", request)
			pump(sut)

			Expect(request.status).Should(Equal(model.QueryStatusCompleted))
			Expect(request.response.Addresses).Should(HaveLen(2))
		})
	})

	ginkgo.Describe("Step", func() {
		ginkgo.It("ignores late callbacks for unknown transactions", func() {
			sut.events <- event{id: 4711, kind: eventComplete}

			Expect(sut.Step(nil)).Should(BeFalse())
			Expect(sut.PopFinished()).Should(BeEmpty())
		})

		ginkgo.It("contains panicking request handlers", func() {
			var err error
			mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
				return true
			})
			Expect(err).Should(Succeed())

			request := &recordingRequest{panicOnComplete: true}
			sut.SubmitCDNSKEY(newContext(mock.Port), "zone.test", request)

			Expect(func() { pump(sut) }).ShouldNot(Panic(), "pumping must not propagate handler panics")

			Expect(sut.Outstanding()).Should(BeZero())
			Expect(sut.PopFinished()).Should(ConsistOf(request))
		})
	})

	ginkgo.Describe("CancelAll", func() {
		ginkgo.It("forces a terminal state onto active transactions", func() {
			var err error
			mock, err = helpertest.NewMockDNS(func(q dns.Question, m *dns.Msg) bool {
				return false
			})
			Expect(err).Should(Succeed())

			request := &recordingRequest{}
			sut.SubmitCDNSKEY(newContext(mock.Port), "zone.test", request)

			sut.CancelAll()

			Expect(sut.Outstanding()).Should(BeZero())
			Expect(request.status).Should(Equal(model.QueryStatusCancelled))
			Expect(sut.PopFinished()).Should(ConsistOf(request))
		})
	})
})
