package coordinator

import (
	"math"
	"testing"
)

const testSampleRate = 16000

// sineFrame synthesizes one capture frame of a pure tone. 1kHz at a 16kHz
// sample rate lands exactly on an FFT bin for a 512-sample frame, keeping the
// spectral numbers clean.
func sineFrame(amplitude, frequencyHz float64, length int) []int16 {
	samples := make([]int16, length)
	for i := range samples {
		samples[i] = int16(amplitude * math.MaxInt16 *
			math.Sin(2*math.Pi*frequencyHz*float64(i)/float64(testSampleRate)))
	}
	return samples
}

func newTestClassifier(state *CaptureState) *speechClassifier {
	return newSpeechClassifier(defaultClassifierConfig(testSampleRate), func() CaptureState {
		return *state
	})
}

func TestClassifierDetectsLoudSpeechBandTone(t *testing.T) {
	state := CaptureState{Enabled: true, GainFloor: openGainFloor}
	classifier := newTestClassifier(&state)

	activity := classifier.ProcessFrame(sineFrame(1.0, 1000, 512))
	if activity.Level <= 0 {
		t.Fatalf("Expected a positive level for a full-scale tone, got %v", activity.Level)
	}
	if activity.Level > 1 {
		t.Fatalf("Expected level clamped to 1, got %v", activity.Level)
	}
}

func TestClassifierRejectsQuietFrame(t *testing.T) {
	state := CaptureState{Enabled: true, GainFloor: openGainFloor}
	classifier := newTestClassifier(&state)

	activity := classifier.ProcessFrame(sineFrame(0.05, 1000, 512))
	if activity.Level != 0 {
		t.Fatalf("Expected zero level for a near-silent frame, got %v", activity.Level)
	}

	state = CaptureState{Enabled: false, GainFloor: mutedGainFloor}
	activity = classifier.ProcessFrame(sineFrame(0.05, 1000, 512))
	if activity.Level != 0 {
		t.Fatalf("Expected zero level below even the gated threshold, got %v", activity.Level)
	}
}

func TestClassifierThresholdDependsOnCaptureState(t *testing.T) {
	// A mid-level tone sits between the two thresholds: inaudible during the
	// user's turn, detectable while capture is gated off.
	frame := sineFrame(0.3, 1000, 512)

	state := CaptureState{Enabled: true, GainFloor: openGainFloor}
	classifier := newTestClassifier(&state)
	if activity := classifier.ProcessFrame(frame); activity.Level != 0 {
		t.Fatalf("Expected mid-level tone below the user-turn threshold, got %v", activity.Level)
	}

	state = CaptureState{Enabled: false, GainFloor: mutedGainFloor}
	if activity := classifier.ProcessFrame(frame); activity.Level <= 0 {
		t.Fatalf("Expected mid-level tone above the gated threshold, got %v", activity.Level)
	}
}

func TestClassifierAttackHysteresis(t *testing.T) {
	state := CaptureState{Enabled: true, GainFloor: openGainFloor}
	classifier := newTestClassifier(&state)
	loud := sineFrame(1.0, 1000, 512)

	config := defaultClassifierConfig(testSampleRate)
	for i := 0; i < config.AttackFrames-1; i++ {
		if activity := classifier.ProcessFrame(loud); activity.IsSpeaking {
			t.Fatalf("Expected no speaking verdict after %d loud frames", i+1)
		}
	}

	if activity := classifier.ProcessFrame(loud); !activity.IsSpeaking {
		t.Fatalf("Expected speaking verdict after %d loud frames", config.AttackFrames)
	}
}

func TestClassifierReleaseHysteresis(t *testing.T) {
	state := CaptureState{Enabled: true, GainFloor: openGainFloor}
	classifier := newTestClassifier(&state)
	loud := sineFrame(1.0, 1000, 512)
	quiet := make([]int16, 512)

	config := defaultClassifierConfig(testSampleRate)
	for i := 0; i < config.AttackFrames; i++ {
		classifier.ProcessFrame(loud)
	}
	if !classifier.Activity().IsSpeaking {
		t.Fatalf("Expected speaking verdict before release")
	}

	for i := 0; i < config.ReleaseFrames-1; i++ {
		if activity := classifier.ProcessFrame(quiet); !activity.IsSpeaking {
			t.Fatalf("Expected speaking verdict to persist through %d quiet frames", i+1)
		}
	}

	if activity := classifier.ProcessFrame(quiet); activity.IsSpeaking {
		t.Fatalf("Expected speaking verdict to release after %d quiet frames", config.ReleaseFrames)
	}
}

func TestClassifierEmptyFrame(t *testing.T) {
	state := CaptureState{Enabled: true, GainFloor: openGainFloor}
	classifier := newTestClassifier(&state)

	activity := classifier.ProcessFrame(nil)
	if activity.IsSpeaking || activity.Level != 0 {
		t.Fatalf("Expected zero activity for an empty frame, got %+v", activity)
	}
}
