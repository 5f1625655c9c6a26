package model

//go:generate go run github.com/abice/go-enum -f=$GOFILE --marshal --names

import (
	"encoding/base64"
	"fmt"
	"net"
)

// QueryStatus represents the lifecycle state of a DNS transaction ENUM(
// none // not submitted yet
// inProgress // submitted, waiting for a terminal callback
// completed // finished with a usable response
// cancelled // cancelled before completion
// timedOut // per-query timeout expired
// failed // transport or protocol failure
// untrustworthyAnswer // completed, but the answer did not validate as secure
// )
type QueryStatus int

// Cdnskey is one CDNSKEY resource record as published by a zone
type Cdnskey struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

// String renders the record the way result lines carry it:
// decimal flags, protocol and algorithm followed by the base64 encoded key
func (k Cdnskey) String() string {
	return fmt.Sprintf("%d %d %d %s",
		k.Flags, k.Protocol, k.Algorithm, base64.StdEncoding.EncodeToString(k.PublicKey))
}

// Insecure is the atomic unit of work of the insecure phase: one zone
// asked on one address of one of its delegated nameservers
type Insecure struct {
	Zone       string
	Nameserver string
	Address    net.IP
}
