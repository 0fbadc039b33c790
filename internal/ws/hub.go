package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub is the broadcast group registry, keyed by match code. Joining and
// leaving a group is independent of match-state locking and may happen
// concurrently with in-flight turns.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) add(matchCode string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[matchCode]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[matchCode] = room
	}
	room[c] = true
}

func (h *Hub) remove(matchCode string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[matchCode]
	if !ok {
		return
	}
	if _, ok := room[c]; ok {
		delete(room, c)
		c.close()
	}
	if len(room) == 0 {
		delete(h.rooms, matchCode)
	}
}

// Broadcast fans an event out to every connection in the match's group.
// Slow consumers are dropped rather than allowed to stall the group.
func (h *Hub) Broadcast(matchCode string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("broadcast marshal failed for match %s: %v", matchCode, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[matchCode]
	for c := range room {
		if !c.trySend(data) {
			delete(room, c)
			c.close()
		}
	}
	if len(room) == 0 {
		delete(h.rooms, matchCode)
	}
}

// RoomSize reports the number of connections in a match's group.
func (h *Hub) RoomSize(matchCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchCode])
}
