// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"net"
	"net/netip"
)

// Endpoint is an opaque remote-peer identity: a comparable value suitable
// for equality checks and for addressing a reply, held by value inside
// sink and source state.
type Endpoint struct {
	addr netip.AddrPort
}

// EndpointFromUDPAddr converts a resolved *net.UDPAddr into an Endpoint.
func EndpointFromUDPAddr(a *net.UDPAddr) Endpoint {
	return Endpoint{addr: a.AddrPort()}
}

// Equal reports whether e and o identify the same remote peer.
func (e Endpoint) Equal(o Endpoint) bool { return e.addr == o.addr }

// IsValid reports whether e was ever populated (the zero Endpoint is not
// valid and never Equal to a real peer).
func (e Endpoint) IsValid() bool { return e.addr.IsValid() }

// String returns a human-readable "host:port" form.
func (e Endpoint) String() string { return e.addr.String() }

// AddrPort exposes the underlying netip.AddrPort, for callers that need to
// separate host from port (e.g. to pass to ResolveAndConnect).
func (e Endpoint) AddrPort() netip.AddrPort { return e.addr }

func (e Endpoint) udpAddr() *net.UDPAddr {
	return net.UDPAddrFromAddrPort(e.addr)
}

// EndpointEqual is the package-level form of Endpoint.Equal, handy when
// comparing without a receiver value in hand.
func EndpointEqual(a, b Endpoint) bool { return a.Equal(b) }
