package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/protocol"
	"github.com/parley-chat/parley/internal/services"
)

// newTestHub starts a hub loop over a fresh message log. Clients are built
// without a network connection; frames are read straight off their send
// channels instead of running the pumps.
func newTestHub(t *testing.T) (*Hub, *services.MessageService) {
	t.Helper()
	messages := services.NewMessageService()
	hub := NewHub(messages)
	go hub.Run()
	return hub, messages
}

func connect(hub *Hub, username string) *Client {
	c := NewClient(hub, nil, username)
	hub.Register(c)
	return c
}

func frame(t *testing.T, event protocol.EventType, payload any) []byte {
	t.Helper()
	data, err := protocol.Encode(event, payload)
	require.NoError(t, err)
	return data
}

// readFrame pops the next frame from a client's send buffer.
func readFrame(t *testing.T, c *Client) protocol.Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return protocol.Envelope{}
	}
}

// requireNoFrame asserts a client receives nothing for a short window.
func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func joinRoom(t *testing.T, hub *Hub, c *Client, roomID string) {
	t.Helper()
	hub.HandleEvent(c, frame(t, protocol.EventJoinRoom, protocol.RoomPayload{RoomID: roomID}))
	env := readFrame(t, c)
	require.Equal(t, protocol.EventJoined, env.Event)
}

func TestJoinRoom_AcksAndSubscribes(t *testing.T) {
	hub, _ := newTestHub(t)
	alice := connect(hub, "alice")

	hub.HandleEvent(alice, frame(t, protocol.EventJoinRoom, protocol.RoomPayload{RoomID: "room1"}))

	env := readFrame(t, alice)
	require.Equal(t, protocol.EventJoined, env.Event)

	var ack protocol.RoomPayload
	require.NoError(t, json.Unmarshal(env.Payload, &ack))
	require.Equal(t, "room1", ack.RoomID)
}

func TestSendMessage_FansOutToSubscribersOnly(t *testing.T) {
	hub, _ := newTestHub(t)
	alice := connect(hub, "alice")
	bob := connect(hub, "bob")
	eve := connect(hub, "eve")

	joinRoom(t, hub, alice, "room1")
	joinRoom(t, hub, bob, "room1")
	joinRoom(t, hub, eve, "room2")

	hub.HandleEvent(alice, frame(t, protocol.EventSendMessage, models.SendMessageRequest{
		RoomID: "room1", Text: "hi", Sender: "alice",
	}))

	for _, c := range []*Client{alice, bob} {
		env := readFrame(t, c)
		require.Equal(t, protocol.EventReceiveMessage, env.Event)

		var msg models.Message
		require.NoError(t, json.Unmarshal(env.Payload, &msg))
		require.Equal(t, "hi", msg.Text)
		require.Equal(t, "alice", msg.Sender)
		require.Equal(t, "room1", msg.RoomID)
	}
	requireNoFrame(t, eve)
}

func TestLeaveRoom_StopsDelivery(t *testing.T) {
	hub, _ := newTestHub(t)
	alice := connect(hub, "alice")
	bob := connect(hub, "bob")

	joinRoom(t, hub, alice, "room1")
	joinRoom(t, hub, bob, "room1")

	hub.HandleEvent(bob, frame(t, protocol.EventLeaveRoom, protocol.RoomPayload{RoomID: "room1"}))
	env := readFrame(t, bob)
	require.Equal(t, protocol.EventLeft, env.Event)

	hub.HandleEvent(alice, frame(t, protocol.EventSendMessage, models.SendMessageRequest{
		RoomID: "room1", Text: "still here?", Sender: "alice",
	}))

	env = readFrame(t, alice)
	require.Equal(t, protocol.EventReceiveMessage, env.Event)
	requireNoFrame(t, bob)
}

func TestDeliveryReceipt_BroadcastsUpdate(t *testing.T) {
	hub, messages := newTestHub(t)
	alice := connect(hub, "alice")
	joinRoom(t, hub, alice, "room1")

	msg := messages.CreateMessage(models.SendMessageRequest{RoomID: "room1", Text: "hi", Sender: "alice"})

	hub.HandleEvent(alice, frame(t, protocol.EventMessageDelivered, protocol.ReceiptPayload{
		MessageID: msg.ID, RoomID: "room1", Username: "bob",
	}))

	env := readFrame(t, alice)
	require.Equal(t, protocol.EventDeliveryUpdate, env.Event)

	var updated models.Message
	require.NoError(t, json.Unmarshal(env.Payload, &updated))
	require.Equal(t, []string{"bob"}, updated.DeliveredTo)
}

func TestReadReceipt_BroadcastsUpdate(t *testing.T) {
	hub, messages := newTestHub(t)
	alice := connect(hub, "alice")
	joinRoom(t, hub, alice, "room1")

	msg := messages.CreateMessage(models.SendMessageRequest{RoomID: "room1", Text: "hi", Sender: "alice"})

	hub.HandleEvent(alice, frame(t, protocol.EventMessageRead, protocol.ReceiptPayload{
		MessageID: msg.ID, RoomID: "room1", Username: "bob",
	}))

	env := readFrame(t, alice)
	require.Equal(t, protocol.EventReadUpdate, env.Event)

	var updated models.Message
	require.NoError(t, json.Unmarshal(env.Payload, &updated))
	require.Len(t, updated.ReadBy, 1)
	require.Equal(t, "bob", updated.ReadBy[0].Username)
}

func TestReceipt_UnknownMessageIsSilent(t *testing.T) {
	hub, _ := newTestHub(t)
	alice := connect(hub, "alice")
	joinRoom(t, hub, alice, "room1")

	hub.HandleEvent(alice, frame(t, protocol.EventMessageDelivered, protocol.ReceiptPayload{
		MessageID: "missing", RoomID: "room1", Username: "bob",
	}))

	// No broadcast and no error ack for a no-op mark
	requireNoFrame(t, alice)
}

func TestEditMessage_BroadcastsToRoom(t *testing.T) {
	hub, messages := newTestHub(t)
	alice := connect(hub, "alice")
	joinRoom(t, hub, alice, "room1")

	msg := messages.CreateMessage(models.SendMessageRequest{RoomID: "room1", Text: "hi", Sender: "alice"})

	hub.HandleEvent(alice, frame(t, protocol.EventEditMessage, protocol.EditPayload{
		MessageID: msg.ID, RoomID: "room1", Sender: "alice", Text: "edited",
	}))

	env := readFrame(t, alice)
	require.Equal(t, protocol.EventMessageEdited, env.Event)

	var updated models.Message
	require.NoError(t, json.Unmarshal(env.Payload, &updated))
	require.Equal(t, "edited", updated.Text)
	require.True(t, updated.IsEdited)
}

func TestEditMessage_ForbiddenGoesOnlyToOrigin(t *testing.T) {
	hub, messages := newTestHub(t)
	alice := connect(hub, "alice")
	mallory := connect(hub, "mallory")
	joinRoom(t, hub, alice, "room1")
	joinRoom(t, hub, mallory, "room1")

	msg := messages.CreateMessage(models.SendMessageRequest{RoomID: "room1", Text: "hi", Sender: "alice"})

	hub.HandleEvent(mallory, frame(t, protocol.EventEditMessage, protocol.EditPayload{
		MessageID: msg.ID, RoomID: "room1", Sender: "mallory", Text: "hijacked",
	}))

	env := readFrame(t, mallory)
	require.Equal(t, protocol.EventError, env.Event)
	requireNoFrame(t, alice)

	require.Equal(t, "hi", messages.ListMessages("room1")[0].Text)
}

func TestDeleteMessage_BroadcastsIDs(t *testing.T) {
	hub, messages := newTestHub(t)
	alice := connect(hub, "alice")
	joinRoom(t, hub, alice, "room1")

	msg := messages.CreateMessage(models.SendMessageRequest{RoomID: "room1", Text: "hi", Sender: "alice"})

	hub.HandleEvent(alice, frame(t, protocol.EventDeleteMessage, protocol.DeletePayload{
		MessageID: msg.ID, RoomID: "room1", Sender: "alice",
	}))

	env := readFrame(t, alice)
	require.Equal(t, protocol.EventMessageDeleted, env.Event)

	var p protocol.DeletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	require.Equal(t, msg.ID, p.MessageID)
	require.Equal(t, "room1", p.RoomID)
	require.Empty(t, messages.ListMessages("room1"))
}

func TestUnknownEvent_ErrorAck(t *testing.T) {
	hub, _ := newTestHub(t)
	alice := connect(hub, "alice")

	hub.HandleEvent(alice, []byte(`{"event":"no-such-event"}`))

	env := readFrame(t, alice)
	require.Equal(t, protocol.EventError, env.Event)
}
