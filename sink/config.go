// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

// DefaultMaxQueueFrames is the ring's preconfigured upper bound in frames
// when Config.MaxQueueFrames is left at zero.
const DefaultMaxQueueFrames = 128

const (
	// minFrameDurationMs is the smallest frame_duration_ms a BORROW may
	// request.
	minFrameDurationMs = 10

	// heartbeatIntervalMs is how often a Lent sink re-emits LENT.
	heartbeatIntervalMs = 500

	// dropTimeoutMs is how long a Lent sink tolerates silence before
	// dropping its borrower.
	dropTimeoutMs = 1500
)

// Config parametrizes a Sink.
type Config struct {
	// ListenPort is the UDP port to bind. 0 selects any free port.
	ListenPort int

	// LightsCount is the number of lights this sink drives; frame size in
	// bytes is LightsCount*3.
	LightsCount int

	// MaxQueueFrames bounds the byte ring's backing allocation, in whole
	// frames. Zero selects DefaultMaxQueueFrames. A BORROW requesting more
	// frames than this is rejected with REQUESTED_BUFFER_TOO_LARGE.
	MaxQueueFrames int

	// Metrics, if non-nil, receives Prometheus instrumentation for this
	// Sink's lifetime. Left nil, the Sink has zero metrics overhead.
	Metrics *Metrics
}
