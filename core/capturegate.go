package coordinator

import "sync"

const (
	// mutedGainFloor suppresses headphone bleed while the assistant speaks.
	mutedGainFloor = 0.01
	// openGainFloor is the regular noise-gate level during the user's turn.
	openGainFloor = 0.2
)

// CaptureState is the process-wide capture path state. It is mutated only by
// the capture gate; the speech classifier reads it to pick its threshold.
type CaptureState struct {
	Enabled   bool
	GainFloor float64
}

// captureGate is the single choke point for the outbound microphone signal.
// Device calls are best effort: an unavailable capture device downgrades to a
// logged warning and the logical state still changes, so the coordinator
// never wedges on hardware.
type captureGate struct {
	mu     sync.Mutex
	state  CaptureState
	device CaptureDevice
}

func newCaptureGate(device CaptureDevice) *captureGate {
	return &captureGate{
		state:  CaptureState{Enabled: true, GainFloor: openGainFloor},
		device: device,
	}
}

// Disable stops passing the microphone signal downstream and lowers the gain
// floor. Idempotent.
func (g *captureGate) Disable() {
	g.apply(false, mutedGainFloor)
}

// Enable restores the microphone signal and the regular gain floor.
// Idempotent.
func (g *captureGate) Enable() {
	g.apply(true, openGainFloor)
}

func (g *captureGate) apply(enabled bool, gainFloor float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Enabled == enabled && g.state.GainFloor == gainFloor {
		return
	}

	g.state = CaptureState{Enabled: enabled, GainFloor: gainFloor}

	if g.device == nil {
		return
	}
	if err := g.device.SetCaptureEnabled(enabled); err != nil {
		logger.Warn("failed to toggle capture device", "enabled", enabled, "error", err)
	}
	if err := g.device.SetGainFloor(gainFloor); err != nil {
		logger.Warn("failed to adjust capture gain floor", "gainFloor", gainFloor, "error", err)
	}
}

func (g *captureGate) State() CaptureState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
