// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transporttest provides a deterministic in-memory transport.Transport
// for sink/source engine tests.
//
// A real loopback-UDP test is inherently timing-sensitive (scheduling,
// kernel buffering, port reuse across parallel test runs); Network gives
// engine tests the same multi-endpoint, would-block-on-empty semantics as
// transport.UDPTransport without touching a real socket, much like reaching
// for net.Pipe instead of a real TCP dial for a deterministic stream test.
package transporttest

import (
	"net"
	"sync"

	"code.hybscloud.com/lumen/transport"
)

// Network is a shared in-memory datagram fabric. Transports created from
// the same Network can address each other by the transport.Endpoint
// returned from LocalAddr.
type Network struct {
	mu       sync.Mutex
	nodes    map[transport.Endpoint]*Transport
	nextPort int
}

// NewNetwork returns an empty Network.
func NewNetwork() *Network {
	return &Network{nodes: make(map[transport.Endpoint]*Transport)}
}

// NewTransport attaches a new Transport to the network with a fresh,
// unique loopback endpoint.
func (n *Network) NewTransport() *Transport {
	n.mu.Lock()
	n.nextPort++
	port := n.nextPort
	n.mu.Unlock()

	local := transport.EndpointFromUDPAddr(&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	tr := &Transport{network: n, local: local, inbox: make(chan datagram, 64)}

	n.mu.Lock()
	n.nodes[local] = tr
	n.mu.Unlock()
	return tr
}

func (n *Network) lookup(ep transport.Endpoint) (*Transport, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	tr, ok := n.nodes[ep]
	return tr, ok
}

func (n *Network) remove(ep transport.Endpoint) {
	n.mu.Lock()
	delete(n.nodes, ep)
	n.mu.Unlock()
}

type datagram struct {
	data []byte
	from transport.Endpoint
}

// Transport is a transport.Transport backed by a Network instead of a real
// socket. Sends to an endpoint with no attached Transport are silently
// dropped, and a full inbox drops the newest datagram — both stand in for
// ordinary unreliable-network behavior.
type Transport struct {
	network *Network
	local   transport.Endpoint
	peer    *transport.Endpoint
	inbox   chan datagram
}

var _ transport.Transport = (*Transport)(nil)

// Send transmits b to the current peer set by SetPeer.
func (t *Transport) Send(b []byte) error {
	if t.peer == nil {
		return transport.ErrNoPeer
	}
	return t.SendTo(b, *t.peer)
}

// SendTo transmits b to ep.
func (t *Transport) SendTo(b []byte, ep transport.Endpoint) error {
	dst, ok := t.network.lookup(ep)
	if !ok {
		return nil
	}
	cp := append([]byte(nil), b...)
	select {
	case dst.inbox <- datagram{data: cp, from: t.local}:
	default:
	}
	return nil
}

// RecvFrom returns the next queued datagram, or transport.ErrWouldBlock if
// none is queued.
func (t *Transport) RecvFrom(buf []byte) (int, transport.Endpoint, error) {
	select {
	case dg := <-t.inbox:
		n := copy(buf, dg.data)
		return n, dg.from, nil
	default:
		return 0, transport.Endpoint{}, transport.ErrWouldBlock
	}
}

// SetPeer sets the default peer used by Send.
func (t *Transport) SetPeer(ep transport.Endpoint) { t.peer = &ep }

// ClearPeer clears the default peer.
func (t *Transport) ClearPeer() { t.peer = nil }

// LocalAddr returns this Transport's endpoint on the network.
func (t *Transport) LocalAddr() transport.Endpoint { return t.local }

// Close detaches the Transport from its Network.
func (t *Transport) Close() error {
	t.network.remove(t.local)
	return nil
}
