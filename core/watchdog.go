package coordinator

import (
	"sync"
	"time"
)

const defaultWatchdogInterval = 500 * time.Millisecond

// playbackWatchdog polls the player position while a turn is in the
// assistant-speaking phase. Real players can silently stop advancing
// (buffer underrun, decode stall) without any terminal event; without this
// poll the session could deadlock with capture disabled forever.
type playbackWatchdog struct {
	player   Player
	interval time.Duration
	emit     func(turnID string)
	drained  func(turnID string)

	mu     sync.Mutex
	cancel chan struct{}
}

func newPlaybackWatchdog(player Player, interval time.Duration, emit, drained func(turnID string)) *playbackWatchdog {
	if interval <= 0 {
		interval = defaultWatchdogInterval
	}

	return &playbackWatchdog{player: player, interval: interval, emit: emit, drained: drained}
}

// Watch starts monitoring playback progress for the given turn, cancelling
// any monitoring still running for a prior turn.
func (w *playbackWatchdog) Watch(turnID string) {
	if w == nil {
		return
	}

	w.mu.Lock()
	prior := w.cancel
	w.cancel = make(chan struct{})
	cancel := w.cancel
	w.mu.Unlock()

	if prior != nil {
		close(prior)
	}

	if w.player == nil || w.emit == nil {
		return
	}

	go w.monitor(turnID, cancel)
}

// Cancel stops any active monitoring. Safe to call repeatedly.
func (w *playbackWatchdog) Cancel() {
	if w == nil {
		return
	}

	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		close(cancel)
	}
}

func (w *playbackWatchdog) monitor(turnID string, cancel <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastPosition time.Duration
	wasPlaying := false
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			position := w.player.Position()
			playing := w.player.IsPlaying()
			advancing := position > lastPosition
			stalled := !advancing && playing && position > 0
			// Buffered audio regularly outlasts every completion signal, and
			// once the player goes idle no further playback transition will
			// arrive. The drain report re-checks completion at that moment;
			// monitoring continues because more audio may still be queued for
			// the same turn.
			drained := wasPlaying && !playing && position > 0
			lastPosition = position
			wasPlaying = playing

			if stalled {
				logger.Warn("playback position stopped advancing, declaring stall",
					"turnID", turnID, "position", position)
				w.emit(turnID)
				return
			}
			if drained && w.drained != nil {
				w.drained(turnID)
			}
		}
	}
}
