// Package workload reads the list of zones to scan from a stream.
//
// The input is line oriented and section switched: a line consisting of
// exactly "[secure]" or "[insecure]" selects the active section. Within
// [secure] every token is a signed zone. Within [insecure] the first token
// of a line is a nameserver hostname, all following tokens are zones
// delegated to it. A section header token appearing after other tokens on
// the same line is treated as data, not as a switch.
package workload

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

const (
	secureHeader   = "[secure]"
	insecureHeader = "[insecure]"

	readChunkSize = 0x10000
)

// ErrNoSection is returned when data tokens appear before any section header
var ErrNoSection = errors.New("no section specified yet")

type section int

const (
	sectionNone section = iota
	sectionSecure
	sectionInsecure
)

// Workload is the parsed scan input: the set of signed zones and the
// unsigned zones grouped by their authoritative nameserver hostname.
// Every recorded nameserver has at least one zone.
type Workload struct {
	signed       map[string]struct{}
	insecureByNS map[string]map[string]struct{}
}

// Read consumes the whole stream and returns the workload.
// The stream is read in chunks; tokens may span chunk boundaries.
func Read(r io.Reader) (*Workload, error) {
	p := newParser()
	buf := make([]byte, readChunkSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			if perr := p.consume(buf[:n]); perr != nil {
				return nil, perr
			}
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("can't read workload data: %w", err)
		}
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	return p.workload, nil
}

// SignedZones returns the zones of the [secure] section in set order
func (w *Workload) SignedZones() []string {
	return sortedKeys(w.signed)
}

// Nameservers returns all nameserver hostnames of the [insecure] section in set order
func (w *Workload) Nameservers() []string {
	names := make([]string, 0, len(w.insecureByNS))
	for ns := range w.insecureByNS {
		names = append(names, ns)
	}

	sort.Strings(names)

	return names
}

// ZonesOf returns the zones delegated to the given nameserver in set order
func (w *Workload) ZonesOf(nameserver string) []string {
	return sortedKeys(w.insecureByNS[nameserver])
}

// NumberOfNameservers returns the count of distinct nameserver hostnames
func (w *Workload) NumberOfNameservers() int {
	return len(w.insecureByNS)
}

// NumberOfSignedZones returns the count of zones in the [secure] section
func (w *Workload) NumberOfSignedZones() int {
	return len(w.signed)
}

// NumberOfInsecureZones returns the summed zone count over all nameservers
func (w *Workload) NumberOfInsecureZones() int {
	sum := 0
	for _, zones := range w.insecureByNS {
		sum += len(zones)
	}

	return sum
}

// NumberOfZones returns the total zone count over both sections
func (w *Workload) NumberOfZones() int {
	return w.NumberOfSignedZones() + w.NumberOfInsecureZones()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

type parser struct {
	workload    *Workload
	section     section
	carry       []byte
	nameserver  string
	zones       map[string]struct{}
	atLineStart bool
}

func newParser() *parser {
	return &parser{
		workload: &Workload{
			signed:       make(map[string]struct{}),
			insecureByNS: make(map[string]map[string]struct{}),
		},
		zones:       make(map[string]struct{}),
		atLineStart: true,
	}
}

// consume tokenises one chunk. An unterminated trailing token is carried
// over to the next chunk.
func (p *parser) consume(data []byte) error {
	itemBegin := 0

	for pos := 0; pos < len(data); pos++ {
		itemEnd := data[pos] == ' '
		lineEnd := data[pos] == '\n'

		if !itemEnd && !lineEnd {
			continue
		}

		item := string(p.carry) + string(data[itemBegin:pos])
		p.carry = p.carry[:0]

		if err := p.token(item, lineEnd); err != nil {
			return err
		}

		itemBegin = pos + 1
	}

	p.carry = append(p.carry, data[itemBegin:]...)

	return nil
}

// finish flushes the pending token and line at end of stream
func (p *parser) finish() error {
	item := string(p.carry)
	p.carry = nil

	if p.atLineStart {
		// a clean end of stream or a lone section header needs no flush
		if item == "" || item == secureHeader || item == insecureHeader {
			return nil
		}
	}

	if err := p.data(item); err != nil {
		return err
	}

	p.flushLine()

	return nil
}

func (p *parser) token(item string, lineEnd bool) error {
	// section headers count only when they make up the whole line
	if p.atLineStart && lineEnd && p.switchSection(item) {
		return nil
	}

	if err := p.data(item); err != nil {
		return err
	}

	if lineEnd {
		p.flushLine()
	}

	return nil
}

func (p *parser) switchSection(item string) bool {
	switch item {
	case secureHeader:
		p.section = sectionSecure
	case insecureHeader:
		p.section = sectionInsecure
	default:
		return false
	}

	p.nameserver = ""
	p.zones = make(map[string]struct{})
	p.atLineStart = true

	return true
}

func (p *parser) data(item string) error {
	switch p.section {
	case sectionSecure:
		if item != "" {
			p.workload.signed[item] = struct{}{}
		}

		p.atLineStart = false
	case sectionInsecure:
		if p.atLineStart {
			p.nameserver = item
			p.zones = make(map[string]struct{})
			p.atLineStart = false
		} else if item != "" {
			p.zones[item] = struct{}{}
		}
	case sectionNone:
		return ErrNoSection
	}

	return nil
}

// flushLine records the pending nameserver line. Hostnames without any zone
// are dropped; a hostname listed on several lines accumulates all its zones.
func (p *parser) flushLine() {
	if p.section == sectionInsecure && p.nameserver != "" && len(p.zones) > 0 {
		zones := p.workload.insecureByNS[p.nameserver]
		if zones == nil {
			zones = make(map[string]struct{}, len(p.zones))
			p.workload.insecureByNS[p.nameserver] = zones
		}

		for zone := range p.zones {
			zones[zone] = struct{}{}
		}
	}

	p.nameserver = ""
	p.zones = make(map[string]struct{})
	p.atLineStart = true
}
