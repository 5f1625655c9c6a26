package scanner

import (
	"math/rand"
	"net"
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"
	"github.com/fred-dns/cdnskey-scanner/evt"
	"github.com/fred-dns/cdnskey-scanner/model"
	"github.com/fred-dns/cdnskey-scanner/resolver"
	"github.com/fred-dns/cdnskey-scanner/workload"
)

// buildInsecureItems crosses every resolved address of a nameserver with the
// zones delegated to it and shuffles the result so no authoritative server
// is hit in a burst
func buildInsecureItems(w *workload.Workload, addresses map[string][]net.IP, rng *rand.Rand) []model.Insecure {
	var items []model.Insecure

	for _, nameserver := range w.Nameservers() {
		zones := w.ZonesOf(nameserver)

		for _, address := range addresses[nameserver] {
			for _, zone := range zones {
				items = append(items, model.Insecure{
					Zone:       zone,
					Nameserver: nameserver,
					Address:    address,
				})
			}
		}
	}

	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	return items
}

// insecureQuery collects the CDNSKEY records one authoritative server
// publishes for one zone
type insecureQuery struct {
	id     resolver.TransactionID
	status model.QueryStatus
	keys   []model.Cdnskey
}

func (q *insecureQuery) OnComplete(response *resolver.Response, id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusCompleted
	q.keys = nil

	for _, reply := range response.Replies {
		q.keys = append(q.keys, reply.Keys...)
	}
}

func (q *insecureQuery) OnCancel(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusCancelled
}

func (q *insecureQuery) OnTimeout(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusTimedOut
}

func (q *insecureQuery) OnError(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusFailed
}

// resolveInsecure is the second scan phase: every item is asked directly on
// its nameserver address, without recursion. Each query gets its own
// context with the single authoritative upstream.
func resolveInsecure(solver *resolver.Solver, items []model.Insecure,
	cfg *config.Config, out *ResultWriter, assigned time.Duration,
) {
	if len(items) == 0 {
		return
	}

	evt.Bus().Publish(evt.ScanPhaseStarted, phaseInsecure, len(items), assigned)

	tasks := make(map[resolver.TransactionID]model.Insecure, len(items))

	runPaced(solver, len(items), assigned,
		func(index int) {
			item := items[index]
			qctx := &resolver.Context{
				InitialSettings: resolver.InitialSettingsNone,
				Upstreams:       []net.IP{item.Address},
				Transports:      cfg.Transports,
				Timeout:         cfg.QueryTimeout.ToDuration(),
				Port:            cfg.DNSPort,
			}

			query := &insecureQuery{status: model.QueryStatusInProgress}
			id := solver.SubmitCDNSKEY(qctx, item.Zone, query)
			tasks[id] = item
			evt.Bus().Publish(evt.ScanQuerySubmitted, phaseInsecure)
		},
		func(request resolver.Request) {
			query, ok := request.(*insecureQuery)
			if !ok {
				return
			}

			item, ok := tasks[query.id]
			if !ok {
				return
			}

			delete(tasks, query.id)

			switch {
			case query.status == model.QueryStatusCompleted && len(query.keys) == 0:
				out.InsecureEmpty(item)
			case query.status == model.QueryStatusCompleted:
				for _, key := range query.keys {
					out.Insecure(item, key)
				}
			default:
				out.Unresolved(item)
			}
		})

	evt.Bus().Publish(evt.ScanPhaseFinished, phaseInsecure)
}
