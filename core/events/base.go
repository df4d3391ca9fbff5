package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Correlated is implemented by events that carry a turn correlation ID.
// Events without a correlation ID apply to whatever turn is current.
type Correlated interface {
	Event
	TurnID() string
}

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

// CorrelatedBase extends Base with the turn ID the event belongs to.
type CorrelatedBase struct {
	Base
	turnID string
}

func NewCorrelatedBase(kind Kind, turnID string) CorrelatedBase {
	return CorrelatedBase{Base: NewBase(kind), turnID: turnID}
}

func (b CorrelatedBase) TurnID() string {
	return b.turnID
}
