//go:build !linux

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import "net"

// setDualStack is a no-op on platforms where we don't have a
// golang.org/x/sys binding wired up for IPV6_V6ONLY; net.ListenUDP's
// platform default applies instead.
func setDualStack(conn *net.UDPConn) {}
