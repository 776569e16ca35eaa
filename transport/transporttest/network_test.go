// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transporttest_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/lumen/transport"
	"code.hybscloud.com/lumen/transport/transporttest"
)

func TestNetwork_SendRecv(t *testing.T) {
	net := transporttest.NewNetwork()
	a := net.NewTransport()
	b := net.NewTransport()

	if err := b.SendTo([]byte("ping"), a.LocalAddr()); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	buf := make([]byte, 16)
	n, from, err := a.RecvFrom(buf)
	if err != nil {
		t.Fatalf("RecvFrom: %v", err)
	}
	if string(buf[:n]) != "ping" {
		t.Fatalf("payload = %q, want %q", buf[:n], "ping")
	}
	if !transport.EndpointEqual(from, b.LocalAddr()) {
		t.Fatalf("from = %v, want %v", from, b.LocalAddr())
	}
}

func TestNetwork_RecvFrom_WouldBlockWhenEmpty(t *testing.T) {
	net := transporttest.NewNetwork()
	a := net.NewTransport()
	_, _, err := a.RecvFrom(make([]byte, 16))
	if !errors.Is(err, transport.ErrWouldBlock) {
		t.Fatalf("RecvFrom on empty inbox = %v, want ErrWouldBlock", err)
	}
}

func TestNetwork_SendTo_UnknownEndpointDropsSilently(t *testing.T) {
	net := transporttest.NewNetwork()
	a := net.NewTransport()
	ghost := net.NewTransport()
	ghost.Close()
	if err := a.SendTo([]byte("x"), ghost.LocalAddr()); err != nil {
		t.Fatalf("SendTo to closed endpoint = %v, want nil (silent drop)", err)
	}
}

func TestNetwork_Peer(t *testing.T) {
	net := transporttest.NewNetwork()
	a := net.NewTransport()
	b := net.NewTransport()
	b.SetPeer(a.LocalAddr())
	if err := b.Send([]byte("via-peer")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	buf := make([]byte, 16)
	n, _, err := a.RecvFrom(buf)
	if err != nil {
		t.Fatalf("RecvFrom: %v", err)
	}
	if string(buf[:n]) != "via-peer" {
		t.Fatalf("payload = %q, want %q", buf[:n], "via-peer")
	}
	b.ClearPeer()
	if err := b.Send([]byte("x")); !errors.Is(err, transport.ErrNoPeer) {
		t.Fatalf("Send after ClearPeer = %v, want ErrNoPeer", err)
	}
}
