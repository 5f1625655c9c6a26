// Package scanner runs the three-phase CDNSKEY scan: nameserver hostname
// resolution, direct CDNSKEY queries on authoritative servers of unsigned
// zones, and validated CDNSKEY queries for signed zones. The total runtime
// is split over the phases in proportion to their query counts; phases run
// strictly one after another, each on its own event loop.
package scanner

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/fred-dns/cdnskey-scanner/config"
	"github.com/fred-dns/cdnskey-scanner/dnssec"
	"github.com/fred-dns/cdnskey-scanner/log"
	"github.com/fred-dns/cdnskey-scanner/resolver"
	"github.com/fred-dns/cdnskey-scanner/workload"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

const (
	phaseHostnames = "hostnames"
	phaseInsecure  = "insecure"
	phaseSecure    = "secure"
)

// ErrLackOfTime is returned when the runtime is exhausted before all phases
// could run
var ErrLackOfTime = errors.New("lack of time")

// Scanner executes one scan run
type Scanner struct {
	cfg      *config.Config
	out      *ResultWriter
	logger   *logrus.Entry
	rng      *rand.Rand
	validate resolver.ValidateFunc
}

// New creates a scanner emitting its results to out
func New(cfg *config.Config, out io.Writer) *Scanner {
	return &Scanner{
		cfg:    cfg,
		out:    NewResultWriter(out),
		logger: log.PrefixedLog("scanner"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run performs the whole scan within the configured runtime
func (s *Scanner) Run(w *workload.Workload) error {
	runID := uuid.New()
	deadline := time.Now().Add(s.cfg.Runtime.ToDuration())

	s.logger.Infof("scan %s: %d nameservers, %d insecure zones, %d signed zones, runtime %s",
		runID, w.NumberOfNameservers(), w.NumberOfInsecureZones(), w.NumberOfSignedZones(), s.cfg.Runtime)

	estimatedQueries := w.NumberOfNameservers() + 2*w.NumberOfZones()
	if estimatedQueries == 0 {
		return nil
	}

	s.logger.Infof("estimated total number of queries = %d", estimatedQueries)

	queryDistance := s.cfg.Runtime.ToDuration() / time.Duration(estimatedQueries)
	timeForHostnames := queryDistance * time.Duration(w.NumberOfNameservers())
	s.logger.Infof("time for hostname resolution = %s", durafmt.Parse(timeForHostnames))

	addresses := resolveHostnames(resolver.NewSolver(), w.Nameservers(), s.cfg, timeForHostnames)

	remaining := time.Until(deadline)
	if remaining <= 0 {
		return ErrLackOfTime
	}

	items := buildInsecureItems(w, addresses, s.rng)

	numInsecure := len(items)
	numSecure := w.NumberOfSignedZones()

	s.logger.Infof("number of insecure queries = %d", numInsecure)
	s.logger.Infof("number of secure queries = %d", numSecure)

	totalQueries := numInsecure + numSecure
	if totalQueries == 0 {
		return nil
	}

	timeForInsecure := remaining * time.Duration(numInsecure) / time.Duration(totalQueries)
	timeForSecure := remaining * time.Duration(numSecure) / time.Duration(totalQueries)

	resolveInsecure(resolver.NewSolver(), items, s.cfg, s.out, timeForInsecure)

	if numSecure > 0 {
		anchors, err := s.trustAnchors()
		if err != nil {
			return err
		}

		resolveSecure(resolver.NewSolver(), w.SignedZones(), s.cfg, anchors, s.validate, s.out, timeForSecure)
	}

	return nil
}

// trustAnchors builds the anchor store from the configuration; without
// configured anchors the built-in root keys apply
func (s *Scanner) trustAnchors() (*dnssec.TrustAnchorStore, error) {
	keys := make([]*dns.DNSKEY, 0, len(s.cfg.TrustAnchors))
	for _, anchor := range s.cfg.TrustAnchors {
		keys = append(keys, anchor.ToDNSKEY())
	}

	return dnssec.NewTrustAnchorStore(keys)
}
