package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mlovric/duplex-core/core/audio"
	"github.com/mlovric/duplex-core/core/events"
)

const eventQueueCapacity = 16

type queuedEvent struct {
	event    events.Event
	queuedAt time.Time
}

// Coordinator is the half-duplex turn-taking authority. It classifies the
// asynchronous signals arriving from the media layer and the event channel,
// decides the single safe moment to re-enable capture after the assistant
// finishes speaking, and discards signals belonging to superseded turns.
//
// All transitions run on one event goroutine; every handler runs to
// completion relative to its triggering event, so turn state never needs a
// lock.
type Coordinator struct {
	player        Player
	captureDevice CaptureDevice
	feed          TranscriptionFeed

	encodingInfo     audio.EncodingInfo
	classifierConfig classifierConfig
	watchdogInterval time.Duration

	gate       *captureGate
	classifier *speechClassifier
	watchdog   *playbackWatchdog

	queue   chan queuedEvent
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	started   atomic.Bool

	baseContext context.Context

	// runOptions is published atomically: Run stores a fresh value before the
	// event goroutine starts, and the capture-callback path loads it without
	// ordering constraints against Run.
	runOptions atomic.Pointer[RunOptions]

	// Owned by the event goroutine.
	phase        TurnPhase
	current      *turn
	userSpeaking bool

	feedActive atomic.Bool

	snapshotMu sync.RWMutex
	snapshot   Snapshot

	subscribersMu        sync.Mutex
	turnEndedSubscribers map[string]func(TurnEnded)
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		encodingInfo:         audio.GetDefaultEncodingInfo(),
		watchdogInterval:     defaultWatchdogInterval,
		queue:                make(chan queuedEvent, eventQueueCapacity),
		closeCh:              make(chan struct{}),
		done:                 make(chan struct{}),
		baseContext:          context.Background(),
		phase:                TurnPhaseIdle,
		turnEndedSubscribers: map[string]func(TurnEnded){},
	}
	c.runOptions.Store(&RunOptions{})
	c.classifierConfig = defaultClassifierConfig(c.encodingInfo.SampleRate)

	for _, opt := range opts {
		opt(c)
	}
	c.classifierConfig.SampleRate = c.encodingInfo.SampleRate

	c.gate = newCaptureGate(c.captureDevice)
	c.classifier = newSpeechClassifier(c.classifierConfig, c.gate.State)
	c.watchdog = newPlaybackWatchdog(c.player, c.watchdogInterval,
		func(turnID string) { c.Handle(events.NewPlaybackStalled(turnID)) },
		func(turnID string) { c.Handle(events.NewPlaybackDrained(turnID)) },
	)

	c.snapshot = Snapshot{
		Turn:           TurnPhaseIdle,
		CaptureEnabled: true,
		GainFloor:      openGainFloor,
	}

	return c
}

// Run starts draining the event queue until ctx is cancelled or Close is
// called.
//
// Contract: call Run at most once per coordinator instance.
func (c *Coordinator) Run(ctx context.Context, opts ...RunOption) {
	if c.isClosed() {
		logger.Warn("coordinator already closed, skipping Run")
		return
	}

	options := RunOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	c.runOptions.Store(&options)
	c.baseContext = ctx

	c.startOnce.Do(func() {
		c.started.Store(true)
		go func() {
			defer close(c.done)

			for {
				select {
				case <-c.closeCh:
					return
				case queued := <-c.queue:
					if c.isClosed() {
						return
					}
					c.processQueuedEvent(queued)
				}
			}
		}()

		go func() {
			select {
			case <-ctx.Done():
				c.Close()
			case <-c.closeCh:
			}
		}()
	})
}

// Handle enqueues an event for processing. Events are applied strictly in
// arrival order. Returns false if the coordinator is already closed.
func (c *Coordinator) Handle(event events.Event) bool {
	if c.isClosed() {
		return false
	}

	select {
	case <-c.closeCh:
		return false
	case c.queue <- queuedEvent{event: event, queuedAt: time.Now()}:
		return true
	}
}

// ObserveCaptureFrame feeds one pre-gate capture frame to the speech
// classifier and, while a live transcription feed is attached and capture is
// enabled, forwards the audio to the feed. Called from the capture device's
// delivery callback at 20 Hz or faster.
func (c *Coordinator) ObserveCaptureFrame(samples []int16) SpeechActivity {
	activity := c.classifier.ProcessFrame(samples)

	c.updateSnapshot(func(snapshot *Snapshot) {
		snapshot.SpeechLevel = activity.Level
	})
	if callbacks := c.callbacks(); callbacks.onActivity != nil {
		callbacks.onActivity(activity)
	}

	if c.feedActive.Load() && c.gate.State().Enabled {
		if err := c.feed.SendAudio(audio.EncodePCM16(samples)); err != nil {
			logger.Warn("failed to forward audio to transcription feed", "error", err)
		}
	}

	return activity
}

// Activity returns the classifier's current advisory output.
func (c *Coordinator) Activity() SpeechActivity {
	return c.classifier.Activity()
}

// Close tears the session down: stops the watchdog, detaches the
// transcription feed, discards all turn state, and forces capture enabled.
// Failing open is deliberate; leaving the user permanently muted is the
// worse failure.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)

		c.watchdog.Cancel()
		c.stopTranscriptionFeed(context.Background())
		c.gate.Enable()

		if c.started.Load() {
			<-c.done
		}

		captureState := c.gate.State()
		c.updateSnapshot(func(snapshot *Snapshot) {
			snapshot.Turn = TurnPhaseIdle
			snapshot.TurnID = ""
			snapshot.CaptureEnabled = captureState.Enabled
			snapshot.GainFloor = captureState.GainFloor
			snapshot.UserSpeaking = false
		})
	})
}

func (c *Coordinator) callbacks() *RunOptions {
	return c.runOptions.Load()
}

func (c *Coordinator) isClosed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

func (c *Coordinator) processQueuedEvent(queued queuedEvent) {
	ctx, span := tracer.Start(c.baseContext, "apply coordination event")
	defer span.End()

	span.SetAttributes(
		attribute.String("event.kind", string(queued.event.Kind())),
		attribute.Float64("event.queued_time", time.Since(queued.queuedAt).Seconds()),
	)

	c.apply(ctx, queued.event)
}
