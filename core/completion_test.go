package coordinator

import "testing"

func TestSafeToEnd(t *testing.T) {
	testCases := []struct {
		name       string
		completion CompletionState
		playing    bool
		expected   bool
	}{
		{
			name:       "no signals",
			completion: CompletionState{},
			expected:   false,
		},
		{
			name:       "natural end alone",
			completion: CompletionState{PlaybackEndedNaturally: true},
			expected:   true,
		},
		{
			name:       "natural end overrides playing",
			completion: CompletionState{PlaybackEndedNaturally: true},
			playing:    true,
			expected:   true,
		},
		{
			name: "all flags with player idle",
			completion: CompletionState{
				StreamComplete:     true,
				TranscriptComplete: true,
				GenerationComplete: true,
			},
			expected: true,
		},
		{
			name: "all flags vetoed by playing",
			completion: CompletionState{
				StreamComplete:     true,
				TranscriptComplete: true,
				GenerationComplete: true,
			},
			playing:  true,
			expected: false,
		},
		{
			name: "missing generation",
			completion: CompletionState{
				StreamComplete:     true,
				TranscriptComplete: true,
			},
			expected: false,
		},
		{
			name: "missing transcript",
			completion: CompletionState{
				StreamComplete:     true,
				GenerationComplete: true,
			},
			expected: false,
		},
		{
			name:       "stall alone",
			completion: CompletionState{WatchdogStalled: true, StreamComplete: true},
			expected:   true,
		},
		{
			name:       "stall while player still claims playing",
			completion: CompletionState{WatchdogStalled: true, StreamComplete: true},
			playing:    true,
			expected:   true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := safeToEnd(testCase.completion, testCase.playing)
			if got != testCase.expected {
				t.Fatalf("Expected %v, got %v", testCase.expected, got)
			}
		})
	}
}
