package coordinator

import (
	"context"
	"time"

	"github.com/mlovric/duplex-core/core/audio"
	"github.com/mlovric/duplex-core/core/transcription"
)

// Player exposes the playback element's independently queryable state. The
// watchdog polls Position and the completion predicate consults IsPlaying.
type Player interface {
	Position() time.Duration
	IsPlaying() bool
}

// CaptureDevice is the physical capture path controlled by the capture gate.
// Implementations must tolerate repeated calls with the same value.
type CaptureDevice interface {
	SetCaptureEnabled(enabled bool) error
	SetGainFloor(gainFloor float64) error
}

// TranscriptionFeed is an optional live local transcription service attached
// while the user speaks.
type TranscriptionFeed interface {
	Start(ctx context.Context, opts ...transcription.Option) error
	SendAudio(audio []byte) error
	Stop(ctx context.Context) error
}

type CoordinatorOption func(*Coordinator)

func WithPlayer(player Player) CoordinatorOption {
	return func(c *Coordinator) { c.player = player }
}

func WithCaptureDevice(device CaptureDevice) CoordinatorOption {
	return func(c *Coordinator) { c.captureDevice = device }
}

func WithTranscriptionFeed(feed TranscriptionFeed) CoordinatorOption {
	return func(c *Coordinator) { c.feed = feed }
}

func WithWatchdogInterval(interval time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.watchdogInterval = interval }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) CoordinatorOption {
	return func(c *Coordinator) { c.encodingInfo = encodingInfo }
}

// WithClassifierThresholds overrides the phase-dependent speech thresholds.
func WithClassifierThresholds(assistantSpeaking, userTurn float64) CoordinatorOption {
	return func(c *Coordinator) {
		c.classifierConfig.AssistantSpeakingThreshold = assistantSpeaking
		c.classifierConfig.UserTurnThreshold = userTurn
	}
}

// WithClassifierHysteresis overrides the attack/release frame counts.
func WithClassifierHysteresis(attackFrames, releaseFrames int) CoordinatorOption {
	return func(c *Coordinator) {
		c.classifierConfig.AttackFrames = attackFrames
		c.classifierConfig.ReleaseFrames = releaseFrames
	}
}

// RunOptions carries the per-session consumer callbacks.
type RunOptions struct {
	onSnapshot            func(Snapshot)
	onTurnEnded           func(TurnEnded)
	onActivity            func(SpeechActivity)
	onUserTranscript      func(transcript string)
	onUserTranscriptDelta func(segment string)
	onAssistantTranscript func(segment string)
}

type RunOption func(*RunOptions)

func WithSnapshotCallback(callback func(Snapshot)) RunOption {
	return func(o *RunOptions) { o.onSnapshot = callback }
}

func WithTurnEndedCallback(callback func(TurnEnded)) RunOption {
	return func(o *RunOptions) { o.onTurnEnded = callback }
}

func WithActivityCallback(callback func(SpeechActivity)) RunOption {
	return func(o *RunOptions) { o.onActivity = callback }
}

func WithUserTranscriptCallback(callback func(transcript string)) RunOption {
	return func(o *RunOptions) { o.onUserTranscript = callback }
}

func WithUserTranscriptDeltaCallback(callback func(segment string)) RunOption {
	return func(o *RunOptions) { o.onUserTranscriptDelta = callback }
}

func WithAssistantTranscriptCallback(callback func(segment string)) RunOption {
	return func(o *RunOptions) { o.onAssistantTranscript = callback }
}
