package view

import "github.com/zappabad/stocksurge/internal/news"

// EventType tells subscribers what kind of engine mutation happened.
type EventType int

const (
	EventTick EventType = iota
	EventStarted
	EventPaused
	EventReset
)

func (t EventType) String() string {
	switch t {
	case EventTick:
		return "tick"
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// MarketEvent is emitted after every mutating engine call.
type MarketEvent struct {
	Type          EventType
	SimulatedTime int64
	News          *news.Event // set for EventTick only
}
