package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/protocol"
)

func event(t *testing.T, eventType protocol.EventType, payload any) protocol.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return protocol.Envelope{Event: eventType, Payload: raw}
}

func TestState_ReceiveMessageAppends(t *testing.T) {
	s := NewState()

	require.NoError(t, s.Apply(event(t, protocol.EventReceiveMessage,
		models.Message{ID: "m1", RoomID: "room1", Text: "first", Sender: "alice"})))
	require.NoError(t, s.Apply(event(t, protocol.EventReceiveMessage,
		models.Message{ID: "m2", RoomID: "room1", Text: "second", Sender: "bob"})))

	messages := s.Messages("room1")
	require.Len(t, messages, 2)
	require.Equal(t, "m1", messages[0].ID)
	require.Equal(t, "m2", messages[1].ID)
}

func TestState_ReceiveMessageForUncachedRoom(t *testing.T) {
	s := NewState()

	// Events for rooms never seen before must not be dropped
	require.NoError(t, s.Apply(event(t, protocol.EventReceiveMessage,
		models.Message{ID: "m1", RoomID: "brand-new", Text: "hi", Sender: "alice"})))

	require.Len(t, s.Messages("brand-new"), 1)
}

func TestState_EditReplacesByID(t *testing.T) {
	s := NewState()
	s.SetMessages("room1", []models.Message{
		{ID: "m1", RoomID: "room1", Text: "original", Sender: "alice"},
		{ID: "m2", RoomID: "room1", Text: "other", Sender: "bob"},
	})

	require.NoError(t, s.Apply(event(t, protocol.EventMessageEdited,
		models.Message{ID: "m1", RoomID: "room1", Text: "edited", Sender: "alice", IsEdited: true})))

	messages := s.Messages("room1")
	require.Equal(t, "edited", messages[0].Text)
	require.True(t, messages[0].IsEdited)
	require.Equal(t, "other", messages[1].Text)
}

func TestState_ReceiptUpdatesMergeByID(t *testing.T) {
	s := NewState()
	s.SetMessages("room1", []models.Message{
		{ID: "m1", RoomID: "room1", Text: "hi", Sender: "alice"},
	})

	require.NoError(t, s.Apply(event(t, protocol.EventDeliveryUpdate,
		models.Message{ID: "m1", RoomID: "room1", Text: "hi", Sender: "alice", DeliveredTo: []string{"bob"}})))
	require.NoError(t, s.Apply(event(t, protocol.EventReadUpdate,
		models.Message{ID: "m1", RoomID: "room1", Text: "hi", Sender: "alice",
			DeliveredTo: []string{"bob"}, ReadBy: []models.ReadReceipt{{Username: "bob"}}})))

	messages := s.Messages("room1")
	require.Len(t, messages, 1)
	require.Equal(t, []string{"bob"}, messages[0].DeliveredTo)
	require.Len(t, messages[0].ReadBy, 1)
}

func TestState_UpdateForUncachedRoomInitializes(t *testing.T) {
	s := NewState()

	require.NoError(t, s.Apply(event(t, protocol.EventMessageEdited,
		models.Message{ID: "m1", RoomID: "room1", Text: "edited"})))

	// Sequence exists but an update for an unseen message is not appended
	require.Empty(t, s.Messages("room1"))
}

func TestState_DeleteFilters(t *testing.T) {
	s := NewState()
	s.SetMessages("room1", []models.Message{
		{ID: "m1", RoomID: "room1"},
		{ID: "m2", RoomID: "room1"},
		{ID: "m3", RoomID: "room1"},
	})

	require.NoError(t, s.Apply(event(t, protocol.EventMessageDeleted,
		protocol.DeletedPayload{MessageID: "m2", RoomID: "room1"})))

	messages := s.Messages("room1")
	require.Len(t, messages, 2)
	require.Equal(t, "m1", messages[0].ID)
	require.Equal(t, "m3", messages[1].ID)
}

func TestState_AcksAndErrorsAreIgnored(t *testing.T) {
	s := NewState()

	require.NoError(t, s.Apply(event(t, protocol.EventJoined, protocol.RoomPayload{RoomID: "room1"})))
	require.NoError(t, s.Apply(event(t, protocol.EventError, protocol.ErrorPayload{Error: "boom"})))
	require.NoError(t, s.Apply(protocol.Envelope{Event: "future-event"}))

	require.Empty(t, s.Messages("room1"))
}

func TestState_RoomList(t *testing.T) {
	s := NewState()
	s.SetRooms([]models.Room{{ID: "r1", Name: "General"}, {ID: "r2", Name: "Random"}})

	rooms := s.Rooms()
	require.Len(t, rooms, 2)

	// Mutating the returned slice must not touch the state
	rooms[0].Name = "Hacked"
	require.Equal(t, "General", s.Rooms()[0].Name)
}
