package config

//go:generate go run github.com/abice/go-enum -f=$GOFILE --marshal --names

// Transport is one way of carrying a DNS exchange ENUM(
// udp // plain UDP
// tcp // plain TCP
// tls // DNS over TLS
// )
type Transport int

// Net returns the network name understood by the DNS client
func (x Transport) Net() string {
	if x == TransportTls {
		return "tcp-tls"
	}

	return x.String()
}
