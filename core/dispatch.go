package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mlovric/duplex-core/core/events"
	"github.com/mlovric/duplex-core/core/transcription"
)

// apply is the single transition dispatch point. It runs on the coordinator's
// event goroutine only, so turn state needs no locking; the staleness guard
// lives in applyCompletion instead of being duplicated per handler.
func (c *Coordinator) apply(ctx context.Context, event events.Event) {
	switch typed := event.(type) {
	case events.TurnStarted:
		c.beginTurn(ctx, typed.TurnID())

	case events.TurnAudioObserved:
		c.ensureAssistantSpeaking(ctx, typed.TurnID())

	case events.TurnTranscriptSegment:
		c.ensureAssistantSpeaking(ctx, typed.TurnID())
		if c.current != nil {
			c.current.appendTranscript(typed.Segment)
		}
		if callbacks := c.callbacks(); callbacks.onAssistantTranscript != nil {
			callbacks.onAssistantTranscript(typed.Segment)
		}

	case events.TurnTranscriptComplete:
		c.applyCompletion(typed, func(completion *CompletionState) {
			completion.TranscriptComplete = true
			c.current.setTranscript(typed.Transcript)
		})

	case events.TurnStreamComplete:
		c.applyCompletion(typed, func(completion *CompletionState) {
			completion.StreamComplete = true
		})

	case events.TurnGenerationComplete:
		c.applyCompletion(typed, func(completion *CompletionState) {
			completion.GenerationComplete = true
		})

	case events.PlaybackEnded:
		c.applyCompletion(typed, func(completion *CompletionState) {
			completion.PlaybackEndedNaturally = true
		})

	case events.PlaybackDrained:
		// No flag changes hands; the drain only re-runs the completion
		// predicate now that the player reports itself idle.
		c.applyCompletion(typed, func(*CompletionState) {})

	case events.PlaybackStalled:
		c.applyCompletion(typed, func(completion *CompletionState) {
			completion.StreamComplete = true
			completion.WatchdogStalled = true
		})

	case events.UserSpeechStarted:
		c.onUserSpeechStarted(ctx)

	case events.UserSpeechStopped:
		c.onUserSpeechStopped(ctx)

	case events.UserTranscriptSegment:
		if callbacks := c.callbacks(); callbacks.onUserTranscriptDelta != nil {
			callbacks.onUserTranscriptDelta(typed.Segment)
		}

	case events.UserTranscriptFinal:
		if callbacks := c.callbacks(); callbacks.onUserTranscript != nil {
			callbacks.onUserTranscript(typed.Transcript)
		}

	default:
		logger.Debug("ignoring unrecognized event", "kind", event.Kind())
	}
}

// beginTurn supersedes whatever turn is active. The later start always wins:
// the prior turn's completion state is dropped wholesale, so a delayed
// finished signal from the old turn can never unmute capture mid-turn.
func (c *Coordinator) beginTurn(ctx context.Context, id string) {
	if id == "" {
		// The channel sometimes reports audio in flight before any
		// correlated start event; synthesize an ID so staleness filtering
		// still works for the implicit turn.
		id = "local-" + uuid.NewString()
	}

	if c.phase == TurnPhaseAssistant && c.current != nil && c.current.ID == id {
		return
	}

	if c.current != nil {
		logger.Info("superseding unresolved turn", "priorTurnID", c.current.ID, "turnID", id)
	}

	c.stopTranscriptionFeed(ctx)
	c.userSpeaking = false
	c.current = newTurn(id)
	c.phase = TurnPhaseAssistant

	c.gate.Disable()
	c.watchdog.Watch(id)

	captureState := c.gate.State()
	c.updateSnapshot(func(snapshot *Snapshot) {
		snapshot.Turn = TurnPhaseAssistant
		snapshot.TurnID = id
		snapshot.CaptureEnabled = captureState.Enabled
		snapshot.GainFloor = captureState.GainFloor
		snapshot.UserSpeaking = false
	})
}

// ensureAssistantSpeaking treats any evidence of assistant audio as an
// implicit turn start, defending against a missed explicit start event.
func (c *Coordinator) ensureAssistantSpeaking(ctx context.Context, id string) {
	if c.phase == TurnPhaseAssistant && c.current != nil && (id == "" || id == c.current.ID) {
		return
	}

	c.beginTurn(ctx, id)
}

// applyCompletion runs the shared staleness guard, mutates the current
// turn's completion state and re-evaluates the completion predicate. Events
// for a superseded or unknown turn are expected under normal jitter and are
// dropped silently.
func (c *Coordinator) applyCompletion(event events.Correlated, mutate func(*CompletionState)) {
	if c.current == nil || event.TurnID() != c.current.ID {
		logger.Debug("ignoring signal for stale turn",
			"kind", event.Kind(), "turnID", event.TurnID())
		return
	}

	mutate(&c.current.completion)
	c.evaluateCompletion()
}

// evaluateCompletion is re-run on every flag mutation rather than on a
// polling tick so short responses resolve immediately.
func (c *Coordinator) evaluateCompletion() {
	playing := c.player != nil && c.player.IsPlaying()
	if !safeToEnd(c.current.completion, playing) {
		return
	}

	ended := TurnEnded{
		TurnID:     c.current.ID,
		Transcript: c.current.Transcript(),
		EndedAt:    time.Now(),
	}

	c.watchdog.Cancel()
	c.current = nil
	c.phase = TurnPhaseUser
	c.gate.Enable()

	captureState := c.gate.State()
	c.updateSnapshot(func(snapshot *Snapshot) {
		snapshot.Turn = TurnPhaseUser
		snapshot.TurnID = ""
		snapshot.CaptureEnabled = captureState.Enabled
		snapshot.GainFloor = captureState.GainFloor
	})

	c.notifyTurnEnded(ended)
}

func (c *Coordinator) onUserSpeechStarted(ctx context.Context) {
	if c.phase != TurnPhaseUser {
		// Capture is already gated off while the assistant speaks; a
		// spurious local detection must not flip any visible state.
		logger.Debug("ignoring user speech start outside user turn", "phase", c.phase)
		return
	}

	c.userSpeaking = true
	c.updateSnapshot(func(snapshot *Snapshot) { snapshot.UserSpeaking = true })
	c.startTranscriptionFeed(ctx)
}

func (c *Coordinator) onUserSpeechStopped(ctx context.Context) {
	c.userSpeaking = false
	c.updateSnapshot(func(snapshot *Snapshot) { snapshot.UserSpeaking = false })
	c.stopTranscriptionFeed(ctx)
}

func (c *Coordinator) startTranscriptionFeed(ctx context.Context) {
	if c.feed == nil || c.feedActive.Load() {
		return
	}

	err := c.feed.Start(ctx,
		transcription.WithEncodingInfo(c.encodingInfo),
		transcription.WithTranscriptCallback(func(transcript string) {
			c.Handle(events.NewUserTranscriptFinal(transcript))
		}),
		transcription.WithInterimCallback(func(segment string) {
			c.Handle(events.NewUserTranscriptSegment(segment))
		}),
	)
	if err != nil {
		logger.Warn("failed to start live transcription feed", "error", err)
		return
	}

	c.feedActive.Store(true)
}

func (c *Coordinator) stopTranscriptionFeed(ctx context.Context) {
	if c.feed == nil || !c.feedActive.CompareAndSwap(true, false) {
		return
	}

	if err := c.feed.Stop(ctx); err != nil {
		recordedErr := fmt.Errorf("failed to stop live transcription feed: %w", err)
		span := trace.SpanFromContext(ctx)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		logger.Warn("failed to stop live transcription feed", "error", err)
	}
}
