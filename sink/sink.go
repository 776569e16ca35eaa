// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sink implements the display-side half of the protocol: the
// reservation state machine, the time-paced frame queue, and the
// recv/send loop. A Sink is not safe for
// concurrent use — it is driven entirely by calls to Tick and Get from a
// single goroutine, the same "single-threaded and cooperative" model the
// whole core follows.
package sink

import (
	"errors"

	"code.hybscloud.com/lumen/internal/clock"
	"code.hybscloud.com/lumen/ring"
	"code.hybscloud.com/lumen/transport"
	"code.hybscloud.com/lumen/wire"
)

// Sink is the display-side engine.
type Sink struct {
	tr      transport.Transport
	builder *wire.Builder

	lightsCount   int
	frameByteSize int

	state State

	borrower    transport.Endpoint
	hasBorrower bool

	frameDurationMs byte

	ring *ring.Ring

	hasLastEnqueuedIdx bool
	lastEnqueuedIdx    byte

	hasCurrentFrame bool
	currentFrame    []byte
	nextFrameBuf    []byte
	frameScratch    []byte

	timeOrigin uint32

	lastRecvTime uint32
	lastLentTime uint32

	recvBuf []byte

	metrics *Metrics
}

// New binds a UDP socket on cfg.ListenPort and returns a Sink in StateOpen.
func New(cfg Config) (*Sink, error) {
	tr, err := transport.BindPort(cfg.ListenPort)
	if err != nil {
		return nil, err
	}
	s, err := NewWithTransport(cfg, tr)
	if err != nil {
		tr.Close()
		return nil, err
	}
	return s, nil
}

// NewWithTransport builds a Sink over an already-constructed transport,
// letting tests substitute transporttest.Transport for a real UDP socket.
func NewWithTransport(cfg Config, tr transport.Transport) (*Sink, error) {
	if cfg.LightsCount <= 0 {
		return nil, ErrInvalidConfig
	}
	maxQueueFrames := cfg.MaxQueueFrames
	if maxQueueFrames <= 0 {
		maxQueueFrames = DefaultMaxQueueFrames
	}
	frameByteSize := cfg.LightsCount * 3

	return &Sink{
		tr:            tr,
		builder:       wire.NewBuilder(),
		lightsCount:   cfg.LightsCount,
		frameByteSize: frameByteSize,
		state:         StateOpen,
		ring:          ring.New(frameByteSize * maxQueueFrames),
		currentFrame:  make([]byte, frameByteSize),
		nextFrameBuf:  make([]byte, frameByteSize),
		frameScratch:  make([]byte, frameByteSize),
		recvBuf:       make([]byte, frameByteSize+10),
		metrics:       cfg.Metrics,
	}, nil
}

// State returns the sink's current reservation status.
func (s *Sink) State() State { return s.state }

// IsBorrowed reports whether a borrower endpoint is currently recorded.
// This holds if and only if State() == StateLent.
func (s *Sink) IsBorrowed() bool { return s.hasBorrower }

// Borrower returns the current borrower endpoint. ok is false unless
// IsBorrowed is true.
func (s *Sink) Borrower() (ep transport.Endpoint, ok bool) {
	return s.borrower, s.hasBorrower
}

// FrameByteSize returns LightsCount*3, the fixed size of one frame.
func (s *Sink) FrameByteSize() int { return s.frameByteSize }

// LocalAddr returns the sink's bound transport endpoint.
func (s *Sink) LocalAddr() transport.Endpoint { return s.tr.LocalAddr() }

// QueuedFrames returns the number of whole frames currently buffered.
func (s *Sink) QueuedFrames() int {
	if s.frameByteSize == 0 {
		return 0
	}
	return s.ring.Len() / s.frameByteSize
}

// Close releases the sink's transport.
func (s *Sink) Close() error { return s.tr.Close() }

// Tick drains at most one incoming datagram (non-blocking), evaluates the
// drop-timeout, and evaluates the LENT heartbeat timer. Callers invoke Tick
// before any state query.
func (s *Sink) Tick() {
	if s.state == StateError {
		return
	}
	s.recvDrain()
	s.checkHeartbeat()
	s.metrics.setOccupancy(s.QueuedFrames())
}

func (s *Sink) recvDrain() {
	n, from, err := s.tr.RecvFrom(s.recvBuf)
	if err != nil {
		if errors.Is(err, transport.ErrWouldBlock) {
			s.checkDropTimeout()
			return
		}
		// An unrecoverable local transport failure: terminal.
		s.hasBorrower = false
		s.borrower = transport.Endpoint{}
		s.state = StateError
		return
	}
	s.lastRecvTime = clock.NowMs()
	s.processDatagram(s.recvBuf[:n], from)
	s.checkDropTimeout()
}

func (s *Sink) checkDropTimeout() {
	if s.state != StateLent {
		return
	}
	if clock.Elapsed(s.lastRecvTime, clock.NowMs()) > dropTimeoutMs {
		s.emitFailTo(s.borrower, 0, wire.ErrCodeTimeout)
		s.dropBorrower()
	}
}

func (s *Sink) checkHeartbeat() {
	if s.state != StateLent {
		return
	}
	now := clock.NowMs()
	if clock.Elapsed(s.lastLentTime, now) >= heartbeatIntervalMs {
		s.emitLentTo(s.borrower)
		s.lastLentTime = now
	}
}

// Get exposes the currently displayed frame. Only
// meaningful while Lent; returns false otherwise, or if the ring has never
// held a whole frame yet. The first successful call dequeues one frame and
// stamps the playback clock origin; later calls advance it at the
// negotiated frame_duration_ms cadence, stopping early (keeping the
// previous frame) if the ring underruns mid-advance.
func (s *Sink) Get(out []byte) bool {
	if s.state != StateLent {
		return false
	}
	now := clock.NowMs()
	if !s.hasCurrentFrame {
		if !s.ring.DequeueInto(s.currentFrame) {
			return false
		}
		s.timeOrigin = now
		s.hasCurrentFrame = true
	} else {
		for clock.Elapsed(s.timeOrigin, now) > uint32(s.frameDurationMs) {
			if !s.ring.DequeueInto(s.nextFrameBuf) {
				break
			}
			copy(s.currentFrame, s.nextFrameBuf)
			s.timeOrigin += uint32(s.frameDurationMs)
		}
	}
	patternFill(out, s.currentFrame)
	return true
}

func (s *Sink) emitFailTo(to transport.Endpoint, offendingMsgID uint16, code wire.ErrorCode) {
	msg := s.builder.BuildFail(offendingMsgID, code)
	_ = s.tr.SendTo(msg, to)
}

func (s *Sink) emitLentTo(to transport.Endpoint) {
	msg := s.builder.BuildLent()
	_ = s.tr.SendTo(msg, to)
}

func (s *Sink) beginLent(from transport.Endpoint, durMs, bufLenFrames byte) {
	s.ring.SetLimit(int(bufLenFrames) * s.frameByteSize)
	s.frameDurationMs = durMs
	s.borrower = from
	s.hasBorrower = true
	s.hasLastEnqueuedIdx = false
	s.hasCurrentFrame = false
	now := clock.NowMs()
	// Stamp last_recv_time here rather than leaving it at a sentinel, so
	// the drop-timeout can't mis-fire immediately after a borrow.
	s.lastRecvTime = now
	s.lastLentTime = now
	s.state = StateLent
	s.emitLentTo(from)
	s.metrics.incBorrows()
}

func (s *Sink) dropBorrower() {
	s.hasBorrower = false
	s.borrower = transport.Endpoint{}
	s.hasCurrentFrame = false
	s.state = StateOpen
}
