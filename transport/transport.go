// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport implements the narrow datagram contract the sink and
// source engines rely on: non-blocking UDP bind/send/receive
// with retrievable sender identity. Every method returns promptly; a
// would-block condition is reported as ErrWouldBlock rather than by
// blocking the caller.
package transport

// Transport is the contract the sink and source engines program against.
// UDPTransport is the only implementation in this module; the interface
// exists so engine tests can substitute an in-memory fake (see
// transport/transporttest) without opening real sockets.
type Transport interface {
	// Send transmits b to the transport's current peer (set by
	// ResolveAndConnect or SetPeer). It returns ErrNoPeer if no peer is
	// set, ErrWouldBlock if the send could not complete without blocking,
	// or a wrapped error for any other failure.
	Send(b []byte) error

	// SendTo transmits b to ep regardless of any peer set on the
	// transport.
	SendTo(b []byte, ep Endpoint) error

	// RecvFrom reads one datagram into buf without blocking. It returns
	// ErrWouldBlock if no datagram was available.
	RecvFrom(buf []byte) (n int, from Endpoint, err error)

	// SetPeer sets the default peer used by Send.
	SetPeer(ep Endpoint)

	// ClearPeer clears the default peer set by SetPeer or
	// ResolveAndConnect; subsequent Send calls fail with ErrNoPeer.
	ClearPeer()

	// LocalAddr returns the transport's bound local address.
	LocalAddr() Endpoint

	// Close releases the transport's socket.
	Close() error
}

var _ Transport = (*UDPTransport)(nil)
