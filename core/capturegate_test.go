package coordinator

import (
	"fmt"
	"sync"
	"testing"
)

type recordingCaptureDevice struct {
	mu           sync.Mutex
	enabledCalls []bool
	gainCalls    []float64
	err          error
}

func (d *recordingCaptureDevice) SetCaptureEnabled(enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabledCalls = append(d.enabledCalls, enabled)
	return d.err
}

func (d *recordingCaptureDevice) SetGainFloor(gainFloor float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gainCalls = append(d.gainCalls, gainFloor)
	return d.err
}

func (d *recordingCaptureDevice) calls() ([]bool, []float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bool(nil), d.enabledCalls...), append([]float64(nil), d.gainCalls...)
}

func TestCaptureGateStartsEnabled(t *testing.T) {
	gate := newCaptureGate(nil)

	state := gate.State()
	if !state.Enabled {
		t.Fatalf("Expected capture to start enabled")
	}
	if state.GainFloor != openGainFloor {
		t.Fatalf("Expected gain floor %v, got %v", openGainFloor, state.GainFloor)
	}
}

func TestCaptureGateDisableEnable(t *testing.T) {
	device := &recordingCaptureDevice{}
	gate := newCaptureGate(device)

	gate.Disable()
	state := gate.State()
	if state.Enabled {
		t.Fatalf("Expected capture disabled")
	}
	if state.GainFloor != mutedGainFloor {
		t.Fatalf("Expected gain floor %v, got %v", mutedGainFloor, state.GainFloor)
	}

	gate.Enable()
	state = gate.State()
	if !state.Enabled {
		t.Fatalf("Expected capture enabled")
	}
	if state.GainFloor != openGainFloor {
		t.Fatalf("Expected gain floor %v, got %v", openGainFloor, state.GainFloor)
	}

	enabledCalls, gainCalls := device.calls()
	if len(enabledCalls) != 2 || enabledCalls[0] != false || enabledCalls[1] != true {
		t.Fatalf("Expected device calls [false true], got %v", enabledCalls)
	}
	if len(gainCalls) != 2 || gainCalls[0] != mutedGainFloor || gainCalls[1] != openGainFloor {
		t.Fatalf("Expected gain calls [%v %v], got %v", mutedGainFloor, openGainFloor, gainCalls)
	}
}

func TestCaptureGateIdempotence(t *testing.T) {
	device := &recordingCaptureDevice{}
	gate := newCaptureGate(device)

	gate.Disable()
	stateAfterFirst := gate.State()
	gate.Disable()
	gate.Disable()

	if gate.State() != stateAfterFirst {
		t.Fatalf("Expected repeated disables to leave state unchanged, got %+v", gate.State())
	}

	enabledCalls, _ := device.calls()
	if len(enabledCalls) != 1 {
		t.Fatalf("Expected a single device call, got %d", len(enabledCalls))
	}

	gate.Enable()
	gate.Enable()
	enabledCalls, _ = device.calls()
	if len(enabledCalls) != 2 {
		t.Fatalf("Expected two device calls, got %d", len(enabledCalls))
	}
}

func TestCaptureGateBestEffortDevice(t *testing.T) {
	device := &recordingCaptureDevice{err: fmt.Errorf("device released")}
	gate := newCaptureGate(device)

	gate.Disable()
	if gate.State().Enabled {
		t.Fatalf("Expected logical state to change despite device error")
	}

	gate.Enable()
	if !gate.State().Enabled {
		t.Fatalf("Expected logical state to change despite device error")
	}
}

func TestCaptureGateWithoutDevice(t *testing.T) {
	gate := newCaptureGate(nil)

	gate.Disable()
	if gate.State().Enabled {
		t.Fatalf("Expected capture disabled")
	}
	gate.Enable()
	if !gate.State().Enabled {
		t.Fatalf("Expected capture enabled")
	}
}
