package events

const (
	// KindTurnStarted identifies the start of a new assistant response.
	KindTurnStarted Kind = "assistant_turn.started"
	// KindTurnAudioObserved identifies assistant audio bytes in flight.
	KindTurnAudioObserved Kind = "assistant_turn.audio_observed"
	// KindTurnTranscriptSegment identifies a streamed assistant transcript delta.
	KindTurnTranscriptSegment Kind = "assistant_turn.transcript_segment"
	// KindTurnTranscriptComplete identifies full delivery of the assistant transcript.
	KindTurnTranscriptComplete Kind = "assistant_turn.transcript_complete"
	// KindTurnStreamComplete identifies the end of the assistant audio stream.
	KindTurnStreamComplete Kind = "assistant_turn.stream_complete"
	// KindTurnGenerationComplete identifies completion of the response object.
	KindTurnGenerationComplete Kind = "assistant_turn.generation_complete"
)

// TurnStarted marks the start of a new assistant response.
type TurnStarted struct{ CorrelatedBase }

// NewTurnStarted creates a turn started event.
func NewTurnStarted(turnID string) TurnStarted {
	return TurnStarted{CorrelatedBase: NewCorrelatedBase(KindTurnStarted, turnID)}
}

// TurnAudioObserved marks assistant audio bytes flowing for a turn. It acts
// as an implicit TurnStarted when the explicit start event was missed.
type TurnAudioObserved struct{ CorrelatedBase }

// NewTurnAudioObserved creates a turn audio observed event.
func NewTurnAudioObserved(turnID string) TurnAudioObserved {
	return TurnAudioObserved{CorrelatedBase: NewCorrelatedBase(KindTurnAudioObserved, turnID)}
}

// TurnTranscriptSegment carries a streamed assistant transcript delta.
type TurnTranscriptSegment struct {
	CorrelatedBase
	Segment string
}

// NewTurnTranscriptSegment creates an assistant transcript segment event.
func NewTurnTranscriptSegment(turnID, segment string) TurnTranscriptSegment {
	return TurnTranscriptSegment{CorrelatedBase: NewCorrelatedBase(KindTurnTranscriptSegment, turnID), Segment: segment}
}

// TurnTranscriptComplete marks full delivery of the assistant transcript.
type TurnTranscriptComplete struct {
	CorrelatedBase
	Transcript string
}

// NewTurnTranscriptComplete creates an assistant transcript complete event.
func NewTurnTranscriptComplete(turnID, transcript string) TurnTranscriptComplete {
	return TurnTranscriptComplete{CorrelatedBase: NewCorrelatedBase(KindTurnTranscriptComplete, turnID), Transcript: transcript}
}

// TurnStreamComplete marks the end of the assistant audio stream.
type TurnStreamComplete struct{ CorrelatedBase }

// NewTurnStreamComplete creates a stream complete event.
func NewTurnStreamComplete(turnID string) TurnStreamComplete {
	return TurnStreamComplete{CorrelatedBase: NewCorrelatedBase(KindTurnStreamComplete, turnID)}
}

// TurnGenerationComplete marks completion of the remote response object.
type TurnGenerationComplete struct{ CorrelatedBase }

// NewTurnGenerationComplete creates a generation complete event.
func NewTurnGenerationComplete(turnID string) TurnGenerationComplete {
	return TurnGenerationComplete{CorrelatedBase: NewCorrelatedBase(KindTurnGenerationComplete, turnID)}
}
