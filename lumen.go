// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lumen ties together the wire codec, byte ring, transport adapter,
// and the sink/source engines that stream real-time light-color frames over
// an unreliable datagram transport.
//
// This package itself is just version metadata; the actual engines live in
// the sink and source subpackages, the wire format in wire, the pending-frame
// queue in ring, and the UDP contract in transport.
package lumen

const (
	// LibraryVersionMajor, LibraryVersionMinor, and LibraryVersionPatch
	// identify this implementation, independent of the wire protocol version.
	LibraryVersionMajor = 0
	LibraryVersionMinor = 1
	LibraryVersionPatch = 0

	// ProtocolVersionMajor and ProtocolVersionMinor identify the wire format
	// described in wire's package doc. Peers do not negotiate a version on
	// the wire; this constant exists for embedders to report and compare
	// out of band.
	ProtocolVersionMajor = 1
	ProtocolVersionMinor = 0
)
