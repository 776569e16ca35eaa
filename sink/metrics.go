// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds optional Prometheus instrumentation for a Sink. A Sink with
// no Metrics attached runs exactly as before; nothing on the hot path
// allocates or branches differently because of this struct existing.
//
// Construct the counters/gauge with prometheus.NewCounter/NewGauge, register
// them with whatever registry the embedder uses, and pass the result to
// Config.Metrics.
type Metrics struct {
	// FramesEnqueued counts frames successfully written into the ring,
	// including the duplicated frames from a skip-fill.
	FramesEnqueued prometheus.Counter

	// FramesDropped counts ENQUEUE payloads rejected: ring-full, and
	// out-of-order (diff > 128) drops.
	FramesDropped prometheus.Counter

	// Borrows counts successful Open/Lent-same-borrower BORROW transitions
	// that reached beginLent.
	Borrows prometheus.Counter

	// RingOccupancy reports QueuedFrames() after every call to Tick.
	RingOccupancy prometheus.Gauge
}

func (m *Metrics) incEnqueued() {
	if m != nil && m.FramesEnqueued != nil {
		m.FramesEnqueued.Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil && m.FramesDropped != nil {
		m.FramesDropped.Inc()
	}
}

func (m *Metrics) incBorrows() {
	if m != nil && m.Borrows != nil {
		m.Borrows.Inc()
	}
}

func (m *Metrics) setOccupancy(frames int) {
	if m != nil && m.RingOccupancy != nil {
		m.RingOccupancy.Set(float64(frames))
	}
}
