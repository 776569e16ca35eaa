// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// UDPTransport is the concrete, non-blocking UDP implementation of
// Transport. It never dials in the net.Dial sense — a UDP "connect" here
// only remembers a default peer address for Send, matching the
// resolve_and_connect/set_peer/clear_peer contract for a connectionless
// socket.
type UDPTransport struct {
	conn *net.UDPConn
	peer *net.UDPAddr
}

// BindAny binds a non-blocking UDP socket on any free port.
func BindAny(opts ...Option) (*UDPTransport, error) {
	return bind(0, opts...)
}

// BindPort binds a non-blocking UDP socket on the given port (0 selects
// any free port, same as BindAny).
func BindPort(port int, opts ...Option) (*UDPTransport, error) {
	return bind(port, opts...)
}

func bind(port int, opts ...Option) (*UDPTransport, error) {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}

	network, ip := "udp", net.IPv6unspecified
	if o.ForceIPv4 {
		network, ip = "udp4", net.IPv4zero
	}

	conn, err := net.ListenUDP(network, &net.UDPAddr{IP: ip, Port: port})
	if err != nil && network == "udp" {
		// Some platforms / network configs reject the IPv6 wildcard bind
		// outright; falling back to a v4-only build is acceptable here.
		conn, err = net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	}
	if err != nil {
		return nil, fmt.Errorf("transport: bind: %w", err)
	}
	if network == "udp" {
		setDualStack(conn)
	}
	return &UDPTransport{conn: conn}, nil
}

// ResolveAndConnect resolves host:port and sets it as the default peer for
// Send. It does not perform a stream-style connect; the underlying socket
// stays unconnected so SendTo/RecvFrom keep working with other endpoints.
func (t *UDPTransport) ResolveAndConnect(host string, port int) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("transport: resolve %s: %w", host, err)
	}
	t.peer = addr
	return nil
}

// SetPeer sets the default peer used by Send.
func (t *UDPTransport) SetPeer(ep Endpoint) { t.peer = ep.udpAddr() }

// ClearPeer clears the default peer; subsequent Send calls return
// ErrNoPeer.
func (t *UDPTransport) ClearPeer() { t.peer = nil }

// LocalAddr returns the bound local address.
func (t *UDPTransport) LocalAddr() Endpoint {
	return EndpointFromUDPAddr(t.conn.LocalAddr().(*net.UDPAddr))
}

// Close releases the socket.
func (t *UDPTransport) Close() error { return t.conn.Close() }

// Send transmits b to the current peer.
func (t *UDPTransport) Send(b []byte) error {
	if t.peer == nil {
		return ErrNoPeer
	}
	return t.sendTo(b, t.peer)
}

// SendTo transmits b to ep.
func (t *UDPTransport) SendTo(b []byte, ep Endpoint) error {
	return t.sendTo(b, ep.udpAddr())
}

func (t *UDPTransport) sendTo(b []byte, addr *net.UDPAddr) error {
	// An already-past deadline turns a would-otherwise-block send into an
	// immediate ErrWouldBlock, without ever parking the calling goroutine.
	if err := t.conn.SetWriteDeadline(time.Now()); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if _, err := t.conn.WriteToUDP(b, addr); err != nil {
		if isTimeout(err) {
			return ErrWouldBlock
		}
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

// RecvFrom reads one datagram into buf without blocking.
func (t *UDPTransport) RecvFrom(buf []byte) (int, Endpoint, error) {
	if err := t.conn.SetReadDeadline(time.Now()); err != nil {
		return 0, Endpoint{}, fmt.Errorf("transport: set read deadline: %w", err)
	}
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		if isTimeout(err) {
			return 0, Endpoint{}, ErrWouldBlock
		}
		return 0, Endpoint{}, fmt.Errorf("transport: recv: %w", err)
	}
	return n, EndpointFromUDPAddr(addr), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
