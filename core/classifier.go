package coordinator

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mlovric/duplex-core/internal/utils"
)

// Human speech concentrates in this band; energy outside it is mostly room
// noise and playback bleed.
const (
	speechBandLowHz  = 300.0
	speechBandHighHz = 3400.0
)

// SpeechActivity is the classifier's advisory output. It informs the UI and
// may seed attaching a live transcription feed; it never drives the capture
// gate directly.
type SpeechActivity struct {
	IsSpeaking bool
	Level      float64
}

type classifierConfig struct {
	SampleRate int

	// AssistantSpeakingThreshold applies while capture is gated off, when
	// any detected energy is likely echo or bleed-through.
	AssistantSpeakingThreshold float64
	// UserTurnThreshold applies while the user holds the floor.
	UserTurnThreshold float64

	// AttackFrames and ReleaseFrames implement asymmetric hysteresis: flip
	// to speaking quickly, flip back slowly, so the output does not chatter
	// around the threshold.
	AttackFrames  int
	ReleaseFrames int
}

func defaultClassifierConfig(sampleRate int) classifierConfig {
	return classifierConfig{
		SampleRate:                 sampleRate,
		AssistantSpeakingThreshold: 0.05,
		UserTurnThreshold:          0.15,
		AttackFrames:               3,
		ReleaseFrames:              10,
	}
}

// speechClassifier turns pre-gate capture frames into a speech activity
// signal. It only reads CaptureState (through the provided accessor) and
// never mutates it.
type speechClassifier struct {
	config       classifierConfig
	captureState func() CaptureState

	mu          sync.Mutex
	activity    SpeechActivity
	aboveStreak int
	belowStreak int
}

func newSpeechClassifier(config classifierConfig, captureState func() CaptureState) *speechClassifier {
	if captureState == nil {
		captureState = func() CaptureState { return CaptureState{Enabled: true, GainFloor: openGainFloor} }
	}

	return &speechClassifier{config: config, captureState: captureState}
}

// ProcessFrame analyzes one capture frame and returns the updated activity.
// Frames are expected at 20 Hz or faster.
func (c *speechClassifier) ProcessFrame(samples []int16) SpeechActivity {
	if c == nil || len(samples) == 0 {
		return SpeechActivity{}
	}

	level := c.frameLevel(samples)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.activity.Level = level
	if level > 0 {
		c.aboveStreak++
		c.belowStreak = 0
		if !c.activity.IsSpeaking && c.aboveStreak >= c.config.AttackFrames {
			c.activity.IsSpeaking = true
		}
	} else {
		c.belowStreak++
		c.aboveStreak = 0
		if c.activity.IsSpeaking && c.belowStreak >= c.config.ReleaseFrames {
			c.activity.IsSpeaking = false
		}
	}

	return c.activity
}

func (c *speechClassifier) Activity() SpeechActivity {
	if c == nil {
		return SpeechActivity{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activity
}

// frameLevel combines speech-band spectral energy with time-domain RMS and
// gates the result against the phase-dependent threshold, returning a
// normalized 0-1 level (0 when below threshold).
func (c *speechClassifier) frameLevel(samples []int16) float64 {
	normalized := make([]float64, len(samples))
	sumSquares := 0.0
	for i, sample := range samples {
		value := float64(sample) / math.MaxInt16
		normalized[i] = value
		sumSquares += value * value
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))

	band := c.speechBandAverage(normalized)
	combined := band*0.7 + rms*0.3

	threshold := c.config.UserTurnThreshold
	if !c.captureState().Enabled {
		threshold = c.config.AssistantSpeakingThreshold
	}
	if combined <= threshold {
		return 0
	}

	return utils.Clamp(combined*1.5, 0, 1)
}

func (c *speechClassifier) speechBandAverage(normalized []float64) float64 {
	spectrum := fft.FFTReal(normalized)
	halfBins := len(spectrum) / 2
	if halfBins == 0 || c.config.SampleRate <= 0 {
		return 0
	}

	nyquist := float64(c.config.SampleRate) / 2
	startBin := utils.Clamp(int(speechBandLowHz/nyquist*float64(halfBins)), 0, halfBins-1)
	endBin := utils.Clamp(int(speechBandHighHz/nyquist*float64(halfBins)), startBin+1, halfBins)

	sum := 0.0
	for bin := startBin; bin < endBin; bin++ {
		sum += cmplx.Abs(spectrum[bin])
	}

	// Scale per-bin magnitude back to the 0-1 amplitude domain.
	return sum / float64(endBin-startBin) * 2 / float64(len(normalized))
}
