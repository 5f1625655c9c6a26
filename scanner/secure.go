package scanner

import (
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"
	"github.com/fred-dns/cdnskey-scanner/dnssec"
	"github.com/fred-dns/cdnskey-scanner/evt"
	"github.com/fred-dns/cdnskey-scanner/model"
	"github.com/fred-dns/cdnskey-scanner/resolver"
)

// secureQuery collects the validated CDNSKEY records of one signed zone
type secureQuery struct {
	id     resolver.TransactionID
	status model.QueryStatus
	keys   []model.Cdnskey
}

// OnComplete promotes the status to completed only after the whole reply
// tree was walked; a suppressed tree leaves the answer untrustworthy
func (q *secureQuery) OnComplete(response *resolver.Response, id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusUntrustworthyAnswer
	q.keys = nil

	if response.Replies == nil {
		return
	}

	for _, reply := range response.Replies {
		q.keys = append(q.keys, reply.Keys...)
	}

	q.status = model.QueryStatusCompleted
}

func (q *secureQuery) OnCancel(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusCancelled
}

func (q *secureQuery) OnTimeout(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusTimedOut
}

func (q *secureQuery) OnError(id resolver.TransactionID) {
	q.id = id
	q.status = model.QueryStatusFailed
}

// resolveSecure is the third scan phase: the configured recursors answer
// CDNSKEY queries for signed zones and only validated answers count
func resolveSecure(solver *resolver.Solver, zones []string, cfg *config.Config,
	anchors *dnssec.TrustAnchorStore, validate resolver.ValidateFunc,
	out *ResultWriter, assigned time.Duration,
) {
	if len(zones) == 0 {
		return
	}

	evt.Bus().Publish(evt.ScanPhaseStarted, phaseSecure, len(zones), assigned)

	qctx := &resolver.Context{
		InitialSettings:  resolver.InitialSettingsFromOS,
		Upstreams:        cfg.CdnskeyResolvers,
		Transports:       cfg.Transports,
		Timeout:          cfg.QueryTimeout.ToDuration(),
		Port:             cfg.DNSPort,
		TrustAnchors:     anchors,
		ReturnOnlySecure: true,
		Validate:         validate,
	}

	tasks := make(map[resolver.TransactionID]string, len(zones))

	runPaced(solver, len(zones), assigned,
		func(index int) {
			query := &secureQuery{status: model.QueryStatusInProgress}
			id := solver.SubmitCDNSKEY(qctx, zones[index], query)
			tasks[id] = zones[index]
			evt.Bus().Publish(evt.ScanQuerySubmitted, phaseSecure)
		},
		func(request resolver.Request) {
			query, ok := request.(*secureQuery)
			if !ok {
				return
			}

			zone, ok := tasks[query.id]
			if !ok {
				return
			}

			delete(tasks, query.id)

			switch query.status {
			case model.QueryStatusCompleted:
				if len(query.keys) == 0 {
					out.SecureEmpty(zone)
				} else {
					for _, key := range query.keys {
						out.Secure(zone, key)
					}
				}
			case model.QueryStatusUntrustworthyAnswer:
				out.Untrustworthy(zone)
			default:
				out.Unknown(zone)
			}
		})

	evt.Bus().Publish(evt.ScanPhaseFinished, phaseSecure)
}
