package coordinator

import (
	"strings"
	"time"
)

// TurnPhase names who currently holds the floor.
type TurnPhase string

const (
	TurnPhaseIdle      TurnPhase = "idle"
	TurnPhaseAssistant TurnPhase = "assistant"
	TurnPhaseUser      TurnPhase = "user"
)

// CompletionState tracks the independent completion signals for one turn.
// All flags start false when the turn is created and the whole struct is
// replaced when a new turn supersedes the old one, so signals from different
// turns can never be compared against each other.
type CompletionState struct {
	StreamComplete         bool
	TranscriptComplete     bool
	GenerationComplete     bool
	PlaybackEndedNaturally bool
	WatchdogStalled        bool
}

// turn is one assistant-generated response. Owned exclusively by the
// coordinator's event goroutine.
type turn struct {
	ID        string
	CreatedAt time.Time

	completion CompletionState
	transcript strings.Builder
}

func newTurn(id string) *turn {
	return &turn{ID: id, CreatedAt: time.Now()}
}

func (t *turn) appendTranscript(segment string) {
	t.transcript.WriteString(segment)
}

// setTranscript replaces the accumulated transcript with the authoritative
// full text delivered by the transcript-complete signal.
func (t *turn) setTranscript(transcript string) {
	if transcript == "" {
		return
	}

	t.transcript.Reset()
	t.transcript.WriteString(transcript)
}

func (t *turn) Transcript() string {
	return t.transcript.String()
}

// TurnEnded is delivered to subscribers when a turn is retired.
type TurnEnded struct {
	TurnID     string
	Transcript string
	EndedAt    time.Time
}
