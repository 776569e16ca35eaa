//go:build linux

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"net"

	"golang.org/x/sys/unix"
)

// setDualStack clears IPV6_V6ONLY on a wildcard-bound UDP6 socket so it
// also accepts v4-mapped traffic, rather than relying on whatever the
// platform's default happens to be. Best-effort: a failure here just means
// the socket stays IPv6-only, which callers can work around with
// WithIPv4Only.
func setDualStack(conn *net.UDPConn) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0)
	})
}
