package coordinator

import (
	"sync"
	"testing"
	"time"
)

type fakePlayer struct {
	mu       sync.Mutex
	playing  bool
	position time.Duration
	// advance is added to position on every read, simulating a healthy
	// playhead.
	advance time.Duration
}

func (p *fakePlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position += p.advance
	return p.position
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) set(playing bool, position time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = playing
	p.position = position
}

func TestWatchdogDeclaresStall(t *testing.T) {
	player := &fakePlayer{}
	player.set(true, time.Second)

	stalls := make(chan string, 2)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond, func(turnID string) {
		stalls <- turnID
	}, nil)

	watchdog.Watch("turn-1")
	defer watchdog.Cancel()

	select {
	case turnID := <-stalls:
		if turnID != "turn-1" {
			t.Fatalf("Expected stall for %q, got %q", "turn-1", turnID)
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected a stall verdict")
	}

	select {
	case <-stalls:
		t.Fatalf("Expected exactly one stall verdict")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogIgnoresAdvancingPlayhead(t *testing.T) {
	player := &fakePlayer{advance: time.Millisecond}
	player.set(true, time.Second)

	stalls := make(chan string, 1)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond, func(turnID string) {
		stalls <- turnID
	}, nil)

	watchdog.Watch("turn-1")
	defer watchdog.Cancel()

	select {
	case <-stalls:
		t.Fatalf("Expected no stall while the playhead advances")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogIgnoresZeroPosition(t *testing.T) {
	player := &fakePlayer{}
	player.set(true, 0)

	stalls := make(chan string, 1)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond, func(turnID string) {
		stalls <- turnID
	}, nil)

	watchdog.Watch("turn-1")
	defer watchdog.Cancel()

	select {
	case <-stalls:
		t.Fatalf("Expected no stall before playback produced any audio")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogIgnoresPausedPlayer(t *testing.T) {
	player := &fakePlayer{}
	player.set(false, time.Second)

	stalls := make(chan string, 1)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond, func(turnID string) {
		stalls <- turnID
	}, nil)

	watchdog.Watch("turn-1")
	defer watchdog.Cancel()

	select {
	case <-stalls:
		t.Fatalf("Expected no stall while the player is not playing")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogCancelStopsMonitoring(t *testing.T) {
	player := &fakePlayer{}
	player.set(true, time.Second)

	stalls := make(chan string, 1)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond, func(turnID string) {
		stalls <- turnID
	}, nil)

	watchdog.Watch("turn-1")
	watchdog.Cancel()

	select {
	case <-stalls:
		t.Fatalf("Expected no stall after cancellation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogWatchSupersedesPriorTurn(t *testing.T) {
	player := &fakePlayer{}
	player.set(true, time.Second)

	stalls := make(chan string, 2)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond, func(turnID string) {
		stalls <- turnID
	}, nil)

	watchdog.Watch("turn-1")
	watchdog.Watch("turn-2")
	defer watchdog.Cancel()

	select {
	case turnID := <-stalls:
		if turnID != "turn-2" {
			t.Fatalf("Expected stall for %q, got %q", "turn-2", turnID)
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected a stall verdict")
	}
}

func TestWatchdogReportsDrainedPlayback(t *testing.T) {
	player := &fakePlayer{advance: time.Millisecond}
	player.set(true, time.Millisecond)

	stalls := make(chan string, 1)
	drains := make(chan string, 2)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond,
		func(turnID string) { stalls <- turnID },
		func(turnID string) { drains <- turnID },
	)

	watchdog.Watch("turn-1")
	defer watchdog.Cancel()

	// Let the watchdog observe the playing player, then drain the buffer.
	time.Sleep(20 * time.Millisecond)
	player.set(false, 500*time.Millisecond)

	select {
	case turnID := <-drains:
		if turnID != "turn-1" {
			t.Fatalf("Expected drain for %q, got %q", "turn-1", turnID)
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected a drain report once the player went idle")
	}

	select {
	case <-stalls:
		t.Fatalf("Expected no stall verdict for an idle player")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogKeepsMonitoringAfterDrain(t *testing.T) {
	player := &fakePlayer{advance: time.Millisecond}
	player.set(true, time.Millisecond)

	stalls := make(chan string, 1)
	drains := make(chan string, 2)
	watchdog := newPlaybackWatchdog(player, 5*time.Millisecond,
		func(turnID string) { stalls <- turnID },
		func(turnID string) { drains <- turnID },
	)

	watchdog.Watch("turn-1")
	defer watchdog.Cancel()

	time.Sleep(20 * time.Millisecond)
	player.set(false, 500*time.Millisecond)

	select {
	case <-drains:
	case <-time.After(time.Second):
		t.Fatalf("Expected a drain report once the player went idle")
	}

	// More audio for the same turn resumes playback; a second drain must be
	// reported when it runs out too.
	player.set(true, 600*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	player.set(false, 800*time.Millisecond)

	select {
	case turnID := <-drains:
		if turnID != "turn-1" {
			t.Fatalf("Expected drain for %q, got %q", "turn-1", turnID)
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected a second drain report after playback resumed")
	}
}

func TestWatchdogWithoutPlayer(t *testing.T) {
	watchdog := newPlaybackWatchdog(nil, 5*time.Millisecond, func(string) {
		t.Errorf("Expected no stall without a player")
	}, nil)

	watchdog.Watch("turn-1")
	time.Sleep(20 * time.Millisecond)
	watchdog.Cancel()
}
