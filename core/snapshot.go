package coordinator

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Snapshot is the read-only view exposed to consumers (UI, persistence).
// It is updated on every transition and safe to retain: subscribers always
// receive a detached copy.
type Snapshot struct {
	Turn           TurnPhase
	TurnID         string
	CaptureEnabled bool
	GainFloor      float64
	SpeechLevel    float64
	UserSpeaking   bool
}

func (c *Coordinator) Snapshot() Snapshot {
	c.snapshotMu.RLock()
	defer c.snapshotMu.RUnlock()

	snapshot := Snapshot{}
	if err := copier.Copy(&snapshot, &c.snapshot); err != nil {
		return c.snapshot
	}
	return snapshot
}

func (c *Coordinator) updateSnapshot(mutate func(*Snapshot)) {
	c.snapshotMu.Lock()
	mutate(&c.snapshot)
	c.snapshotMu.Unlock()

	if callbacks := c.callbacks(); callbacks.onSnapshot != nil {
		callbacks.onSnapshot(c.Snapshot())
	}
}

// SubscribeTurnEnded registers a subscriber for turn-ended notifications and
// returns a token for unsubscribing.
func (c *Coordinator) SubscribeTurnEnded(subscriber func(TurnEnded)) string {
	id := uuid.NewString()

	c.subscribersMu.Lock()
	defer c.subscribersMu.Unlock()
	c.turnEndedSubscribers[id] = subscriber
	return id
}

func (c *Coordinator) UnsubscribeTurnEnded(id string) {
	c.subscribersMu.Lock()
	defer c.subscribersMu.Unlock()
	delete(c.turnEndedSubscribers, id)
}

func (c *Coordinator) notifyTurnEnded(ended TurnEnded) {
	if callbacks := c.callbacks(); callbacks.onTurnEnded != nil {
		callbacks.onTurnEnded(ended)
	}

	c.subscribersMu.Lock()
	subscribers := make([]func(TurnEnded), 0, len(c.turnEndedSubscribers))
	for _, subscriber := range c.turnEndedSubscribers {
		subscribers = append(subscribers, subscriber)
	}
	c.subscribersMu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(ended)
	}
}
