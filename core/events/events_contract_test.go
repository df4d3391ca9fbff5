package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "turn started", event: NewTurnStarted("r1"), expected: KindTurnStarted},
		{name: "turn audio observed", event: NewTurnAudioObserved("r1"), expected: KindTurnAudioObserved},
		{name: "turn transcript segment", event: NewTurnTranscriptSegment("r1", "seg"), expected: KindTurnTranscriptSegment},
		{name: "turn transcript complete", event: NewTurnTranscriptComplete("r1", "text"), expected: KindTurnTranscriptComplete},
		{name: "turn stream complete", event: NewTurnStreamComplete("r1"), expected: KindTurnStreamComplete},
		{name: "turn generation complete", event: NewTurnGenerationComplete("r1"), expected: KindTurnGenerationComplete},
		{name: "playback ended", event: NewPlaybackEnded("r1"), expected: KindPlaybackEnded},
		{name: "playback stalled", event: NewPlaybackStalled("r1"), expected: KindPlaybackStalled},
		{name: "playback drained", event: NewPlaybackDrained("r1"), expected: KindPlaybackDrained},
		{name: "user speech started", event: NewUserSpeechStarted(), expected: KindUserSpeechStarted},
		{name: "user speech stopped", event: NewUserSpeechStopped(), expected: KindUserSpeechStopped},
		{name: "user transcript segment", event: NewUserTranscriptSegment("seg"), expected: KindUserTranscriptSegment},
		{name: "user transcript final", event: NewUserTranscriptFinal("text"), expected: KindUserTranscriptFinal},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestCorrelatedEventsCarryTurnID(t *testing.T) {
	testCases := []struct {
		name  string
		event Correlated
	}{
		{name: "turn started", event: NewTurnStarted("r42")},
		{name: "turn audio observed", event: NewTurnAudioObserved("r42")},
		{name: "turn transcript complete", event: NewTurnTranscriptComplete("r42", "")},
		{name: "turn stream complete", event: NewTurnStreamComplete("r42")},
		{name: "turn generation complete", event: NewTurnGenerationComplete("r42")},
		{name: "playback ended", event: NewPlaybackEnded("r42")},
		{name: "playback stalled", event: NewPlaybackStalled("r42")},
		{name: "playback drained", event: NewPlaybackDrained("r42")},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.TurnID(); got != "r42" {
				t.Fatalf("expected turn ID %q, got %q", "r42", got)
			}
		})
	}
}

func TestUserSpeechEventsAreNotCorrelated(t *testing.T) {
	var started Event = NewUserSpeechStarted()
	if _, ok := started.(Correlated); ok {
		t.Fatalf("expected user speech started to carry no turn correlation")
	}

	var stopped Event = NewUserSpeechStopped()
	if _, ok := stopped.(Correlated); ok {
		t.Fatalf("expected user speech stopped to carry no turn correlation")
	}
}
