package scanner

import (
	"fmt"
	"io"

	"github.com/fred-dns/cdnskey-scanner/model"
)

// ResultWriter emits the scan results, one line per result. The line order
// is unspecified; consumers must not rely on it.
type ResultWriter struct {
	w io.Writer
}

// NewResultWriter creates a writer emitting to w
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{w: w}
}

// Insecure reports one CDNSKEY record published by an unsigned zone
func (r *ResultWriter) Insecure(item model.Insecure, key model.Cdnskey) {
	fmt.Fprintf(r.w, "insecure %s %s %s %s\n", item.Nameserver, item.Address, item.Zone, key)
}

// InsecureEmpty reports an unsigned zone whose nameserver answered without
// any CDNSKEY record
func (r *ResultWriter) InsecureEmpty(item model.Insecure) {
	fmt.Fprintf(r.w, "insecure-empty %s %s %s\n", item.Nameserver, item.Address, item.Zone)
}

// Unresolved reports an unsigned zone whose query never completed
func (r *ResultWriter) Unresolved(item model.Insecure) {
	fmt.Fprintf(r.w, "unresolved %s %s %s\n", item.Nameserver, item.Address, item.Zone)
}

// Secure reports one validated CDNSKEY record of a signed zone
func (r *ResultWriter) Secure(zone string, key model.Cdnskey) {
	fmt.Fprintf(r.w, "secure %s %s\n", zone, key)
}

// SecureEmpty reports a signed zone validated to publish no CDNSKEY records
func (r *ResultWriter) SecureEmpty(zone string) {
	fmt.Fprintf(r.w, "secure-empty %s\n", zone)
}

// Untrustworthy reports a signed zone whose answer did not validate
func (r *ResultWriter) Untrustworthy(zone string) {
	fmt.Fprintf(r.w, "untrustworthy %s\n", zone)
}

// Unknown reports a signed zone whose query never completed
func (r *ResultWriter) Unknown(zone string) {
	fmt.Fprintf(r.w, "unknown %s\n", zone)
}
