package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/mlovric/duplex-core/core/events"
)

// Server message types that participate in turn coordination. Everything else
// is forwarded through the unhandled message callback untouched.
const (
	typeResponseCreated          = "response.created"
	typeResponseDone             = "response.done"
	typeResponseAudioDelta       = "response.audio.delta"
	typeResponseAudioDone        = "response.audio.done"
	typeResponseTranscriptDelta  = "response.audio_transcript.delta"
	typeResponseTranscriptDone   = "response.audio_transcript.done"
	typeOutputAudioBufferStarted = "output_audio_buffer.started"
	typeOutputAudioBufferStopped = "output_audio_buffer.stopped"
	typeOutputAudioBufferDone    = "response.output_audio_buffer.done"
	typeInputSpeechStarted       = "input_audio_buffer.speech_started"
	typeInputSpeechStopped       = "input_audio_buffer.speech_stopped"
	typeInputTranscriptionDelta  = "conversation.item.input_audio_transcription.delta"
	typeInputTranscriptionDone   = "conversation.item.input_audio_transcription.completed"
)

type serverMessage struct {
	Type       string `json:"type"`
	ResponseID string `json:"response_id"`
	Response   struct {
		ID string `json:"id"`
	} `json:"response"`
	Delta      string `json:"delta"`
	Transcript string `json:"transcript"`
}

func (m serverMessage) turnID() string {
	if m.ResponseID != "" {
		return m.ResponseID
	}
	return m.Response.ID
}

// decodeServerMessage maps one wire message onto a coordination event. The
// second return value reports whether the message type is one the decoder
// understands; decoded == false with a nil error means the caller should
// forward the raw message instead.
func decodeServerMessage(payload []byte) (events.Event, bool, error) {
	var msg serverMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal server message: %w", err)
	}

	event, decoded := decodeEvent(msg)
	return event, decoded, nil
}

func decodeEvent(msg serverMessage) (events.Event, bool) {
	switch msg.Type {
	case typeResponseCreated:
		return events.NewTurnStarted(msg.turnID()), true
	case typeResponseDone:
		return events.NewTurnGenerationComplete(msg.turnID()), true
	case typeResponseAudioDelta, typeOutputAudioBufferStarted:
		return events.NewTurnAudioObserved(msg.turnID()), true
	case typeResponseAudioDone:
		return events.NewTurnStreamComplete(msg.turnID()), true
	case typeResponseTranscriptDelta:
		return events.NewTurnTranscriptSegment(msg.turnID(), msg.Delta), true
	case typeResponseTranscriptDone:
		return events.NewTurnTranscriptComplete(msg.turnID(), msg.Transcript), true
	case typeOutputAudioBufferStopped:
		return events.NewPlaybackEnded(msg.turnID()), true
	case typeOutputAudioBufferDone:
		// Redundant with the stopped message, drop it so playback end is
		// reported exactly once.
		return nil, true
	case typeInputSpeechStarted:
		return events.NewUserSpeechStarted(), true
	case typeInputSpeechStopped:
		return events.NewUserSpeechStopped(), true
	case typeInputTranscriptionDelta:
		return events.NewUserTranscriptSegment(msg.Delta), true
	case typeInputTranscriptionDone:
		return events.NewUserTranscriptFinal(msg.Transcript), true
	}

	return nil, false
}
