// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package source_test

import (
	"testing"
	"time"

	"code.hybscloud.com/lumen/source"
	"code.hybscloud.com/lumen/transport/transporttest"
	"code.hybscloud.com/lumen/wire"
)

func newTestSource(t *testing.T, cfg source.Config) (*source.Source, *transporttest.Network, *transporttest.Transport) {
	t.Helper()
	net := transporttest.NewNetwork()
	fakeSink := net.NewTransport()
	srcTr := net.NewTransport()
	srcTr.SetPeer(fakeSink.LocalAddr())
	fakeSink.SetPeer(srcTr.LocalAddr())

	cfg.AsyncMake = true
	s, err := source.NewWithTransport(cfg, srcTr)
	if err != nil {
		t.Fatalf("NewWithTransport: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, net, fakeSink
}

func drainOne(t *testing.T, tr *transporttest.Transport) []byte {
	t.Helper()
	buf := make([]byte, 4096)
	n, _, err := tr.RecvFrom(buf)
	if err != nil {
		t.Fatalf("RecvFrom: %v", err)
	}
	return buf[:n]
}

func replyLent(t *testing.T, fakeSink *transporttest.Transport) {
	t.Helper()
	b := wire.NewBuilder()
	if err := fakeSink.Send(b.BuildLent()); err != nil {
		t.Fatalf("send LENT: %v", err)
	}
}

func TestSource_EmitsBorrowOnConstruction(t *testing.T) {
	_, _, fakeSink := newTestSource(t, source.Config{FrameDurationMs: 20})
	msg := drainOne(t, fakeSink)
	it := wire.NewIterator(msg)
	if !it.HasNext() || it.Next() != nil || it.Type() != wire.TypeBorrow {
		t.Fatalf("expected an initial BORROW")
	}
	durMs, bufFrames, ok := it.BorrowParams()
	if !ok || durMs != 20 {
		t.Fatalf("BorrowParams = (%d, %d, %v), want durMs=20", durMs, bufFrames, ok)
	}
}

func TestSource_HandshakeSuccess(t *testing.T) {
	s, _, fakeSink := newTestSource(t, source.Config{FrameDurationMs: 20})
	drainOne(t, fakeSink) // initial BORROW

	replyLent(t, fakeSink)
	s.Tick()

	if s.State() != source.StateOpen {
		t.Fatalf("state = %v, want Open", s.State())
	}
}

func TestSource_InvalidConfigRejected(t *testing.T) {
	net := transporttest.NewNetwork()
	tr := net.NewTransport()
	_, err := source.NewWithTransport(source.Config{FrameDurationMs: 9, AsyncMake: true}, tr)
	if err != source.ErrInvalidConfig {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSource_FailTransitionsToError(t *testing.T) {
	s, _, fakeSink := newTestSource(t, source.Config{FrameDurationMs: 20})
	drainOne(t, fakeSink)

	b := wire.NewBuilder()
	if err := fakeSink.Send(b.BuildFail(0, wire.ErrCodeLentToOtherSource)); err != nil {
		t.Fatalf("send FAIL: %v", err)
	}
	s.Tick()

	if s.State() != source.StateError {
		t.Fatalf("state = %v, want Error", s.State())
	}
	if s.ErrorMessage() == "" {
		t.Fatalf("ErrorMessage is empty in Error state")
	}
}

func TestSource_PutAdvancesFrameIdxAndSends(t *testing.T) {
	s, _, fakeSink := newTestSource(t, source.Config{FrameDurationMs: 20, MaxBufferedFrames: 4})
	drainOne(t, fakeSink)
	replyLent(t, fakeSink)
	s.Tick()

	frame := []byte{1, 2, 3, 4, 5, 6}
	if err := s.Put(frame); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if s.NextFrameIdx() != 1 {
		t.Fatalf("NextFrameIdx = %d, want 1", s.NextFrameIdx())
	}

	msg := drainOne(t, fakeSink)
	it := wire.NewIterator(msg)
	if !it.HasNext() || it.Next() != nil || it.Type() != wire.TypeEnqueue {
		t.Fatalf("expected an ENQUEUE")
	}
	idx, got, ok := it.EnqueueParams()
	if !ok || idx != 0 {
		t.Fatalf("EnqueueParams idx = %d, ok=%v, want 0", idx, ok)
	}
	if string(got) != string(frame) {
		t.Fatalf("frame = %v, want %v", got, frame)
	}
}

func TestSource_PutReadyCountFullBeforeFirstPut(t *testing.T) {
	s, _, fakeSink := newTestSource(t, source.Config{FrameDurationMs: 20, MaxBufferedFrames: 7})
	drainOne(t, fakeSink)
	replyLent(t, fakeSink)
	s.Tick()

	if got := s.PutReadyCount(); got != 7 {
		t.Fatalf("PutReadyCount = %d, want 7 before first Put", got)
	}
}

func TestSource_PutNotOpenFails(t *testing.T) {
	s, _, _ := newTestSource(t, source.Config{FrameDurationMs: 20})
	if err := s.Put([]byte{1, 2, 3}); err != source.ErrNotOpen {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
}

func TestSource_HandshakeTimeoutEntersError(t *testing.T) {
	s, _, _ := newTestSource(t, source.Config{
		FrameDurationMs:     20,
		DisconnectTimeoutMs: 30,
		RetryTimeoutMs:      5,
	})

	deadline := time.Now().Add(500 * time.Millisecond)
	for s.State() == source.StateWaiting && time.Now().Before(deadline) {
		s.Tick()
		time.Sleep(5 * time.Millisecond)
	}

	if s.State() != source.StateError {
		t.Fatalf("state = %v, want Error after handshake timeout", s.State())
	}
	if s.ErrorMessage() != "borrow timed out" {
		t.Fatalf("ErrorMessage = %q, want %q", s.ErrorMessage(), "borrow timed out")
	}
}
