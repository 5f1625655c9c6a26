package resolver

import (
	"net"

	"github.com/fred-dns/cdnskey-scanner/model"
)

// TransactionID is the opaque handle identifying a submitted query until its
// terminal callback
type TransactionID uint64

// Reply is one reply of a CDNSKEY transaction, already projected into owned
// records. Resolver internals are never retained beyond the callback.
type Reply struct {
	Keys []model.Cdnskey
}

// Response is the projection of a completed transaction
type Response struct {
	// Addresses carries the joint A/AAAA answers of an address transaction
	Addresses []net.IP

	// Replies carries the reply tree of a CDNSKEY transaction. nil means the
	// transaction produced no usable reply tree; with ReturnOnlySecure this
	// is how suppressed answers surface.
	Replies []Reply
}

// Request receives exactly one of the four terminal callbacks of its
// transaction. After the callback the request is handed to the finished
// queue and dropped from the active set.
type Request interface {
	OnComplete(response *Response, id TransactionID)
	OnCancel(id TransactionID)
	OnTimeout(id TransactionID)
	OnError(id TransactionID)
}
