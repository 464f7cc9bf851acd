// Package client provides a Go client for the parley backend: a websocket
// connection that mirrors server-pushed events into a local view of rooms
// and per-room message histories.
package client

import (
	"encoding/json"
	"sync"

	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/protocol"
)

// State mirrors server-pushed events into local per-room message sequences
// and a room list. Updates match entities by ID; new messages append,
// deletes filter, edit/receipt updates replace in place. Events for rooms
// not seen before initialize that room's sequence.
type State struct {
	mu       sync.RWMutex
	rooms    []models.Room
	messages map[string][]models.Message
}

// NewState creates an empty State.
func NewState() *State {
	return &State{messages: make(map[string][]models.Message)}
}

// Apply folds one server event into the local state. Events that carry no
// room state (acks, errors) are ignored. Unknown events are ignored too, so
// a newer server cannot break an older client.
func (s *State) Apply(env protocol.Envelope) error {
	switch env.Event {
	case protocol.EventReceiveMessage:
		var msg models.Message
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return err
		}
		s.appendMessage(msg)

	case protocol.EventMessageEdited, protocol.EventDeliveryUpdate, protocol.EventReadUpdate:
		var msg models.Message
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return err
		}
		s.mergeMessage(msg)

	case protocol.EventMessageDeleted:
		var p protocol.DeletedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return err
		}
		s.removeMessage(p.RoomID, p.MessageID)
	}
	return nil
}

// SetRooms replaces the local room list, typically from GET /api/rooms.
func (s *State) SetRooms(rooms []models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append([]models.Room{}, rooms...)
}

// Rooms returns the local room list.
func (s *State) Rooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Room{}, s.rooms...)
}

// SetMessages replaces a room's local history, typically from the refetch
// after a reconnect.
func (s *State) SetMessages(roomID string, messages []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[roomID] = append([]models.Message{}, messages...)
}

// Messages returns a room's local history in arrival order.
func (s *State) Messages(roomID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message{}, s.messages[roomID]...)
}

func (s *State) appendMessage(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.RoomID] = append(s.messages[msg.RoomID], msg)
}

// mergeMessage replaces the cached message with the same ID. A room that
// was never cached gets its sequence initialized; an update for a message
// we never saw is dropped rather than appended out of order.
func (s *State) mergeMessage(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.messages[msg.RoomID]
	if !ok {
		s.messages[msg.RoomID] = []models.Message{}
		return
	}
	for i := range history {
		if history[i].ID == msg.ID {
			history[i] = msg
			return
		}
	}
}

func (s *State) removeMessage(roomID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.messages[roomID]
	filtered := history[:0]
	for _, m := range history {
		if m.ID != messageID {
			filtered = append(filtered, m)
		}
	}
	s.messages[roomID] = filtered
}
