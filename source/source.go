// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package source implements the producer-side half of the protocol: the
// connection handshake with retry and timeout, and the buffer-aware
// frame-pacing model behind Put. Like sink, a Source is driven entirely
// by calls from a single goroutine.
package source

import (
	"errors"
	"time"

	"code.hybscloud.com/lumen/internal/clock"
	"code.hybscloud.com/lumen/transport"
	"code.hybscloud.com/lumen/wire"
)

// Source is the producer-side engine.
type Source struct {
	tr      transport.Transport
	builder *wire.Builder

	frameDurationMs     byte
	maxBufferedFrames   int
	retryTimeoutMs      uint32
	disconnectTimeoutMs uint32

	state  State
	errMsg string

	nextFrameIdx byte

	firstBorrowTime uint32
	lastBorrowTime  uint32

	hasLastFrameTime bool
	lastFrameTime    uint32

	lastLentTime uint32

	recvBuf []byte
}

// New resolves and connects a UDP socket to cfg.SinkHost:cfg.SinkPort,
// emits the first BORROW, and — unless cfg.AsyncMake is set — blocks,
// ticking and sleeping 5ms at a time, until the source leaves Waiting.
func New(cfg Config) (*Source, error) {
	tr, err := transport.BindAny()
	if err != nil {
		return nil, err
	}
	if err := tr.ResolveAndConnect(cfg.SinkHost, cfg.SinkPort); err != nil {
		tr.Close()
		return nil, err
	}
	return newSource(cfg, tr)
}

// NewWithTransport builds a Source over an already-constructed,
// already-peered transport, letting tests substitute
// transporttest.Transport for a real UDP socket.
func NewWithTransport(cfg Config, tr transport.Transport) (*Source, error) {
	return newSource(cfg, tr)
}

func newSource(cfg Config, tr transport.Transport) (*Source, error) {
	if cfg.FrameDurationMs < minFrameDurationMs {
		return nil, ErrInvalidConfig
	}
	s := &Source{
		tr:                  tr,
		builder:             wire.NewBuilder(),
		frameDurationMs:     cfg.FrameDurationMs,
		maxBufferedFrames:   cfg.maxBufferedFrames(),
		retryTimeoutMs:      cfg.retryTimeoutMs(),
		disconnectTimeoutMs: cfg.disconnectTimeoutMs(),
		state:               StateWaiting,
		recvBuf:             make([]byte, 64),
	}

	now := clock.NowMs()
	s.firstBorrowTime = now
	s.lastBorrowTime = now
	s.emitBorrow()

	if !cfg.AsyncMake {
		for s.state == StateWaiting {
			s.Tick()
			clock.Sleep(5 * time.Millisecond)
		}
	}
	return s, nil
}

// State returns the source's current connection status.
func (s *Source) State() State { return s.state }

// ErrorMessage returns the human-readable message recorded alongside
// StateError. It is empty if State() != StateError.
func (s *Source) ErrorMessage() string { return s.errMsg }

// NextFrameIdx returns the frame index the next Put will send.
func (s *Source) NextFrameIdx() byte { return s.nextFrameIdx }

// LocalAddr returns the source's own transport endpoint, the identity a
// sink records as its borrower once this source's BORROW is accepted.
func (s *Source) LocalAddr() transport.Endpoint { return s.tr.LocalAddr() }

// Close releases the source's transport.
func (s *Source) Close() error { return s.tr.Close() }

func (s *Source) emitBorrow() {
	msg := s.builder.BuildBorrow(s.frameDurationMs, byte(s.maxBufferedFrames))
	_ = s.tr.Send(msg)
}

func (s *Source) enterError(msg string) {
	s.state = StateError
	s.errMsg = msg
}

// Tick drains at most one incoming datagram (non-blocking) and then
// evaluates whichever timer applies to the current state: handshake
// retry/timeout while Waiting, lost-connection timeout while Open.
func (s *Source) Tick() {
	if s.state == StateError {
		return
	}
	s.recvDrain()
	switch s.state {
	case StateWaiting:
		s.checkHandshake()
	case StateOpen:
		s.checkDisconnect()
	}
}

func (s *Source) recvDrain() {
	n, _, err := s.tr.RecvFrom(s.recvBuf)
	if err != nil {
		if errors.Is(err, transport.ErrWouldBlock) {
			return
		}
		s.enterError("transport failure: " + err.Error())
		return
	}
	s.processDatagram(s.recvBuf[:n])
}

func (s *Source) checkHandshake() {
	now := clock.NowMs()
	if clock.Elapsed(s.firstBorrowTime, now) > s.disconnectTimeoutMs {
		s.enterError("borrow timed out")
		return
	}
	if clock.Elapsed(s.lastBorrowTime, now) > s.retryTimeoutMs {
		s.emitBorrow()
		s.lastBorrowTime = now
	}
}

func (s *Source) checkDisconnect() {
	now := clock.NowMs()
	if clock.Elapsed(s.lastLentTime, now) >= s.disconnectTimeoutMs {
		s.enterError("connection lost")
	}
}

func (s *Source) processDatagram(data []byte) {
	it := wire.NewIterator(data)
	for it.HasNext() {
		if err := it.Next(); err != nil {
			s.enterError("malformed message")
			return
		}
		s.dispatch(it)
		if s.state == StateError {
			return
		}
	}
}

func (s *Source) dispatch(it *wire.Iterator) {
	switch it.Type() {
	case wire.TypeLent:
		now := clock.NowMs()
		wasWaiting := s.state == StateWaiting
		s.state = StateOpen
		s.lastLentTime = now
		if wasWaiting {
			s.hasLastFrameTime = false
		}
	case wire.TypeFail:
		_, code, ok := it.FailParams()
		if !ok {
			s.enterError("malformed message")
			return
		}
		s.enterError(wire.ErrorCode(code).String())
	default:
		// BORROW and ENQUEUE are source-to-sink only; ignore if echoed back.
	}
}

// PutReadyCount returns how many frames the source believes the sink's
// queue can currently accept: floor((now - last_frame_time) /
// frame_duration_ms), clamped to 0 when not Open, and equal to
// maxBufferedFrames before the first Put (the queue is assumed empty at
// handshake).
func (s *Source) PutReadyCount() int {
	if s.state != StateOpen {
		return 0
	}
	if !s.hasLastFrameTime {
		return s.maxBufferedFrames
	}
	elapsed := clock.Elapsed(s.lastFrameTime, clock.NowMs())
	return int(elapsed / uint32(s.frameDurationMs))
}

// PutReadyTimeout returns how many milliseconds remain before the next
// Put should be sent: 0 if PutReadyCount() > 0, -1 if not Open, otherwise
// the remaining time until the next slot opens.
func (s *Source) PutReadyTimeout() int32 {
	if s.state != StateOpen {
		return -1
	}
	if s.PutReadyCount() > 0 {
		return 0
	}
	now := clock.NowMs()
	return int32(s.lastFrameTime+uint32(s.frameDurationMs)) - int32(now)
}

// Put sends one ENQUEUE carrying frame at the next frame index, pacing
// itself against PutReadyTimeout by sleeping first if necessary. It never
// retries: delivery is best-effort, and the sink's duplicate/skip logic
// compensates for loss. Returns ErrNotOpen if the source is not Open, or
// a wrapped transport error if the send itself fails for a reason other
// than would-block (a would-block send is treated as a dropped datagram,
// same as on the wire).
func (s *Source) Put(frame []byte) error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	if t := s.PutReadyTimeout(); t > 0 {
		clock.Sleep(time.Duration(t) * time.Millisecond)
	}

	msg, err := s.builder.BuildEnqueue(s.nextFrameIdx, frame)
	if err != nil {
		return err
	}
	if err := s.tr.Send(msg); err != nil && !errors.Is(err, transport.ErrWouldBlock) {
		return err
	}

	now := clock.NowMs()
	if !s.hasLastFrameTime {
		s.lastFrameTime = now - uint32(s.maxBufferedFrames-1)*uint32(s.frameDurationMs)
		s.hasLastFrameTime = true
	} else {
		s.lastFrameTime += uint32(s.frameDurationMs)
	}
	s.nextFrameIdx++
	return nil
}
