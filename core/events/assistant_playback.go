package events

const (
	// KindPlaybackEnded identifies a natural end-of-media report from the player.
	KindPlaybackEnded Kind = "assistant_playback.ended"
	// KindPlaybackStalled identifies a watchdog stall verdict for the playhead.
	KindPlaybackStalled Kind = "assistant_playback.stalled"
	// KindPlaybackDrained identifies the player going idle after consuming its
	// buffered audio.
	KindPlaybackDrained Kind = "assistant_playback.drained"
)

// PlaybackEnded marks a natural end of media for the turn's audio. It is the
// only completion signal that short-circuits the completion predicate.
type PlaybackEnded struct{ CorrelatedBase }

// NewPlaybackEnded creates a playback ended event.
func NewPlaybackEnded(turnID string) PlaybackEnded {
	return PlaybackEnded{CorrelatedBase: NewCorrelatedBase(KindPlaybackEnded, turnID)}
}

// PlaybackDrained marks a watchdog observation that the player transitioned
// from playing to idle. It carries no completion verdict of its own: buffered
// audio often outlasts the completion signals, so the drain is the moment the
// completion predicate must be re-checked against the now-idle player.
type PlaybackDrained struct{ CorrelatedBase }

// NewPlaybackDrained creates a playback drained event.
func NewPlaybackDrained(turnID string) PlaybackDrained {
	return PlaybackDrained{CorrelatedBase: NewCorrelatedBase(KindPlaybackDrained, turnID)}
}

// PlaybackStalled marks a watchdog observation that the playhead stopped
// advancing while the player reported itself as playing. The watchdog cannot
// distinguish finished from stuck; either way no further playback signal is
// coming, so this is the designated recovery path for missing completion
// events.
type PlaybackStalled struct{ CorrelatedBase }

// NewPlaybackStalled creates a playback stalled event.
func NewPlaybackStalled(turnID string) PlaybackStalled {
	return PlaybackStalled{CorrelatedBase: NewCorrelatedBase(KindPlaybackStalled, turnID)}
}
