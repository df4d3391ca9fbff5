package coordinator

// safeToEnd reports whether a turn with the given completion state may be
// retired. A natural end-of-media report is the most trustworthy signal the
// player can emit and ends the turn on its own; the three remaining flags
// exist to catch the case where that report never fires, and they only
// suffice together and with the player independently confirmed not playing.
func safeToEnd(completion CompletionState, playerPlaying bool) bool {
	if completion.PlaybackEndedNaturally {
		return true
	}

	if completion.StreamComplete &&
		completion.TranscriptComplete &&
		completion.GenerationComplete &&
		!playerPlaying {
		return true
	}

	// A stall verdict is only reached after the playhead froze while the
	// player still claimed to be playing. No further player or channel signal
	// can be counted on at that point, and leaving capture disabled forever
	// is the worse failure, so the stall resolves the turn even when the
	// other flags never arrive.
	return completion.WatchdogStalled
}
