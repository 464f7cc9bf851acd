package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/parley-chat/parley/internal/errs"
	"github.com/parley-chat/parley/internal/models"
)

// MessageService owns the per-room ordered message histories along with
// per-recipient delivery and read tracking. Histories are keyed by room ID
// only; the service holds no reference to Room entities, so a history can
// outlive (or predate) the registry's view of a room.
type MessageService struct {
	mu sync.RWMutex

	// messages maps roomID to that room's history in creation order
	messages map[string][]*models.Message
}

// NewMessageService creates an empty MessageService.
func NewMessageService() *MessageService {
	return &MessageService{
		messages: make(map[string][]*models.Message),
	}
}

// ListMessages returns a room's history in creation order. A room with no
// history yields an empty slice, never an error.
func (s *MessageService) ListMessages(roomID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.messages[roomID]
	out := make([]models.Message, 0, len(history))
	for _, m := range history {
		out = append(out, cloneMessage(m))
	}
	return out
}

// CreateMessage appends a new message to its room's history, creating the
// history on first use. The reply reference, if any, is snapshotted by value
// so later edits to the original do not change the quote.
func (s *MessageService) CreateMessage(req models.SendMessageRequest) models.Message {
	now := time.Now().UTC()
	msg := &models.Message{
		ID:          uuid.New().String(),
		RoomID:      req.RoomID,
		Text:        strings.TrimSpace(req.Text),
		Sender:      req.Sender,
		Timestamp:   now.Format(time.RFC3339Nano),
		CreatedAt:   now,
		DeliveredTo: []string{},
		ReadBy:      []models.ReadReceipt{},
	}
	if req.ReplyTo != nil {
		snapshot := *req.ReplyTo
		msg.ReplyTo = &snapshot
	}

	s.mu.Lock()
	s.messages[req.RoomID] = append(s.messages[req.RoomID], msg)
	s.mu.Unlock()

	log.Debug().Str("room", req.RoomID).Str("message", msg.ID).Str("sender", req.Sender).Msg("message created")
	return cloneMessage(msg)
}

// MarkDelivered records that username received the message. Unknown rooms or
// messages return nil; marking by the sender is a no-op that still returns
// the message. Repeated marks add the username once.
func (s *MessageService) MarkDelivered(messageID, roomID, username string) *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.find(messageID, roomID)
	if msg == nil {
		return nil
	}
	if msg.Sender != username && !lo.Contains(msg.DeliveredTo, username) {
		msg.DeliveredTo = append(msg.DeliveredTo, username)
	}
	out := cloneMessage(msg)
	return &out
}

// MarkRead records the first-read instant for username. Semantics mirror
// MarkDelivered: nil on unknown room or message, sender excluded, first
// occurrence only.
func (s *MessageService) MarkRead(messageID, roomID, username string) *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.find(messageID, roomID)
	if msg == nil {
		return nil
	}
	already := lo.ContainsBy(msg.ReadBy, func(r models.ReadReceipt) bool {
		return r.Username == username
	})
	if msg.Sender != username && !already {
		msg.ReadBy = append(msg.ReadBy, models.ReadReceipt{
			Username: username,
			ReadAt:   time.Now().UTC(),
		})
	}
	out := cloneMessage(msg)
	return &out
}

// EditMessage replaces the text of a message. Only the original sender may
// edit; anyone else gets ErrNotSender and the message is left unchanged.
func (s *MessageService) EditMessage(messageID, roomID, sender, newText string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.messages[roomID]
	if !ok {
		return models.Message{}, errs.ErrRoomNotFound
	}
	msg := findIn(history, messageID)
	if msg == nil {
		return models.Message{}, errs.ErrMessageNotFound
	}
	if msg.Sender != sender {
		return models.Message{}, errs.ErrNotSender
	}

	now := time.Now().UTC()
	msg.Text = strings.TrimSpace(newText)
	msg.IsEdited = true
	msg.EditedAt = &now

	log.Debug().Str("room", roomID).Str("message", messageID).Msg("message edited")
	return cloneMessage(msg), nil
}

// DeleteMessage removes a message from its room's history. Same
// authorization rules as EditMessage.
func (s *MessageService) DeleteMessage(messageID, roomID, sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.messages[roomID]
	if !ok {
		return errs.ErrRoomNotFound
	}
	msg := findIn(history, messageID)
	if msg == nil {
		return errs.ErrMessageNotFound
	}
	if msg.Sender != sender {
		return errs.ErrNotSender
	}

	s.messages[roomID] = lo.Reject(history, func(m *models.Message, _ int) bool {
		return m.ID == messageID
	})
	log.Debug().Str("room", roomID).Str("message", messageID).Msg("message deleted")
	return nil
}

// DeleteRoomHistory drops a room's entire history. Called by the room
// registry when a room is deleted.
func (s *MessageService) DeleteRoomHistory(roomID string) {
	s.mu.Lock()
	count := len(s.messages[roomID])
	delete(s.messages, roomID)
	s.mu.Unlock()

	if count > 0 {
		log.Info().Str("room", roomID).Int("count", count).Msg("room history deleted")
	}
}

// find locates a message under the lock; nil if the room or message is unknown.
func (s *MessageService) find(messageID, roomID string) *models.Message {
	history, ok := s.messages[roomID]
	if !ok {
		return nil
	}
	return findIn(history, messageID)
}

func findIn(history []*models.Message, messageID string) *models.Message {
	for _, m := range history {
		if m.ID == messageID {
			return m
		}
	}
	return nil
}

// cloneMessage copies a message including its receipt slices and reply
// snapshot, so callers never alias service-owned state.
func cloneMessage(m *models.Message) models.Message {
	c := *m
	c.DeliveredTo = append([]string{}, m.DeliveredTo...)
	c.ReadBy = append([]models.ReadReceipt{}, m.ReadBy...)
	if m.EditedAt != nil {
		at := *m.EditedAt
		c.EditedAt = &at
	}
	if m.ReplyTo != nil {
		ref := *m.ReplyTo
		c.ReplyTo = &ref
	}
	return c
}
