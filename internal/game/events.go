package game

// Event mirrors the wire format pushed to websocket clients in a match group.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	EventGameStateUpdate = "game_state_update"
	EventInfoMessage     = "info_message"
)

func StateUpdateEvent(snap *Snapshot) Event {
	return Event{Type: EventGameStateUpdate, Payload: snap}
}

func InfoEvent(message string) Event {
	return Event{Type: EventInfoMessage, Message: message}
}

// Broadcaster fans an event out to every connection in a match's group. The
// websocket hub implements it; the core never sees connection details.
type Broadcaster interface {
	Broadcast(matchCode string, event interface{})
}

// NopBroadcaster discards events. Used where no gateway is wired (tests).
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, interface{}) {}
