// Package events defines the typed coordination event contract.
//
// Event kinds are grouped by source-facing namespaces:
//
//   - assistant_turn.*
//   - assistant_playback.*
//   - user_input.*
//
// Semantics used across the package:
//
//   - Correlated: the event carries the turn ID it belongs to; the
//     coordinator drops correlated events whose ID does not match the
//     current turn.
//   - Segment: append-only text piece emitted in stream order.
//   - Complete: terminal milestone for one of the independent completion
//     signals tracked per turn.
//
// assistant_turn events
//
//   - TurnStarted (assistant_turn.started): the remote agent began a new
//     response; supersedes any unresolved turn.
//   - TurnAudioObserved (assistant_turn.audio_observed): assistant audio
//     bytes are flowing; acts as an implicit TurnStarted when no explicit
//     start was seen for this ID.
//   - TurnTranscriptSegment (assistant_turn.transcript_segment): streamed
//     assistant transcript delta.
//   - TurnTranscriptComplete (assistant_turn.transcript_complete): the
//     assistant transcript is fully delivered.
//   - TurnStreamComplete (assistant_turn.stream_complete): the assistant
//     audio packetization ended.
//   - TurnGenerationComplete (assistant_turn.generation_complete): the
//     remote agent finished the response object.
//
// assistant_playback events
//
//   - PlaybackEnded (assistant_playback.ended): the local player reported a
//     natural end of media for this turn's audio. This is the single
//     authoritative short-circuit completion signal.
//   - PlaybackStalled (assistant_playback.stalled): the playback watchdog
//     observed the playhead stop advancing while nominally playing. No
//     further playback signal can be counted on after a stall, so it is the
//     recovery path that resolves the turn even when other completion
//     signals never arrive.
//   - PlaybackDrained (assistant_playback.drained): the playback watchdog
//     observed the player transition from playing to idle. Carries no
//     completion verdict; it prompts a re-check of the completion predicate
//     against the now-idle player.
//
// user_input events
//
//   - UserSpeechStarted (user_input.speech_started): the channel reported
//     user speech activity began.
//   - UserSpeechStopped (user_input.speech_stopped): user speech activity
//     ended.
//   - UserTranscriptSegment (user_input.transcript_segment): live user
//     transcript delta, forwarded to consumers.
//   - UserTranscriptFinal (user_input.transcript_final): terminal user
//     transcript for the utterance, forwarded to consumers.
package events
