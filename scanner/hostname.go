package scanner

import (
	"net"
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"
	"github.com/fred-dns/cdnskey-scanner/evt"
	"github.com/fred-dns/cdnskey-scanner/model"
	"github.com/fred-dns/cdnskey-scanner/resolver"
)

// hostnameQuery collects the addresses of one nameserver hostname
type hostnameQuery struct {
	id        resolver.TransactionID
	status    model.QueryStatus
	addresses []net.IP
}

func (q *hostnameQuery) OnComplete(response *resolver.Response, id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusCompleted
	q.addresses = response.Addresses
}

func (q *hostnameQuery) OnCancel(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusCancelled
}

func (q *hostnameQuery) OnTimeout(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusTimedOut
}

func (q *hostnameQuery) OnError(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusFailed
}

// resolveHostnames is the first scan phase: it maps every nameserver
// hostname to its resolved addresses. Hostnames that did not produce at
// least one address are absent from the result.
func resolveHostnames(solver *resolver.Solver, hostnames []string,
	cfg *config.Config, assigned time.Duration,
) map[string][]net.IP {
	result := make(map[string][]net.IP, len(hostnames))
	if len(hostnames) == 0 {
		return result
	}

	evt.Bus().Publish(evt.ScanPhaseStarted, phaseHostnames, len(hostnames), assigned)

	qctx := &resolver.Context{
		InitialSettings: resolver.InitialSettingsFromOS,
		Upstreams:       cfg.HostnameResolvers,
		Transports:      cfg.Transports,
		Timeout:         cfg.QueryTimeout.ToDuration(),
		Port:            cfg.DNSPort,
	}

	tasks := make(map[resolver.TransactionID]string, len(hostnames))

	runPaced(solver, len(hostnames), assigned,
		func(index int) {
			query := &hostnameQuery{status: model.QueryStatusInProgress}
			id := solver.SubmitAddress(qctx, hostnames[index], query)
			tasks[id] = hostnames[index]
			evt.Bus().Publish(evt.ScanQuerySubmitted, phaseHostnames)
		},
		func(request resolver.Request) {
			query, ok := request.(*hostnameQuery)
			if !ok {
				return
			}

			hostname, ok := tasks[query.id]
			if !ok {
				return
			}

			delete(tasks, query.id)

			if query.status == model.QueryStatusCompleted && len(query.addresses) > 0 {
				result[hostname] = query.addresses
			}
		})

	evt.Bus().Publish(evt.ScanPhaseFinished, phaseHostnames)

	return result
}
