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

// HistoryDropper removes a room's message history when the room goes away.
// Satisfied by MessageService; kept as an interface so the room registry
// never depends on message internals.
type HistoryDropper interface {
	DeleteRoomHistory(roomID string)
}

// RoomService owns room identity, membership, and the join-request queue.
// All state is in-memory and guarded by a single RWMutex; every mutation is
// a check-then-act sequence, so reads that feed a write take the write lock.
type RoomService struct {
	mu sync.RWMutex

	// rooms maps roomID to the room; order keeps creation order for listing
	rooms map[string]*models.Room
	order []string

	history HistoryDropper
}

// NewRoomService creates a RoomService. history receives the cascade when a
// room is deleted; it may be nil in tests that don't care about messages.
func NewRoomService(history HistoryDropper) *RoomService {
	return &RoomService{
		rooms:   make(map[string]*models.Room),
		history: history,
	}
}

// CreateRoom creates a room with the given name and creator. The creator
// becomes the admin and the first member. An empty name after trimming is
// rejected.
func (s *RoomService) CreateRoom(name, creator string) (models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Room{}, errs.ErrEmptyRoomName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room := &models.Room{
		ID:              uuid.New().String(),
		Name:            name,
		Admin:           creator,
		MembersList:     []string{},
		PendingRequests: []string{},
		CreatedAt:       time.Now().UTC(),
	}
	if creator != "" {
		room.MembersList = []string{creator}
	}

	s.rooms[room.ID] = room
	s.order = append(s.order, room.ID)

	log.Info().Str("room", room.ID).Str("admin", creator).Msg("room created")
	return cloneRoom(room), nil
}

// ListRooms returns all rooms in creation order. The member count is
// recomputed from the membership list on every read.
func (s *RoomService) ListRooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]models.Room, 0, len(s.order))
	for _, id := range s.order {
		rooms = append(rooms, cloneRoom(s.rooms[id]))
	}
	return rooms
}

// GetRoom returns a single room by ID.
func (s *RoomService) GetRoom(id string) (models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return models.Room{}, errs.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

// DeleteRoom removes a room and cascades to its message history.
func (s *RoomService) DeleteRoom(id string) error {
	s.mu.Lock()
	if _, ok := s.rooms[id]; !ok {
		s.mu.Unlock()
		return errs.ErrRoomNotFound
	}
	delete(s.rooms, id)
	s.order = lo.Without(s.order, id)
	s.mu.Unlock()

	if s.history != nil {
		s.history.DeleteRoomHistory(id)
	}
	log.Info().Str("room", id).Msg("room deleted")
	return nil
}

// RequestJoin queues a join request for a non-member. Requests from current
// members are ignored, and repeated requests are collapsed into one.
func (s *RoomService) RequestJoin(id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return errs.ErrRoomNotFound
	}
	if lo.Contains(room.MembersList, username) {
		return nil
	}
	if !lo.Contains(room.PendingRequests, username) {
		room.PendingRequests = append(room.PendingRequests, username)
		log.Info().Str("room", id).Str("user", username).Msg("join request queued")
	}
	return nil
}

// ApproveJoin promotes a pending request to membership. A username that is
// not pending is a no-op, so approve after decline (or vice versa) cannot
// double-apply.
func (s *RoomService) ApproveJoin(id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return errs.ErrRoomNotFound
	}
	if !lo.Contains(room.PendingRequests, username) {
		return nil
	}
	room.PendingRequests = lo.Without(room.PendingRequests, username)
	if !lo.Contains(room.MembersList, username) {
		room.MembersList = append(room.MembersList, username)
	}
	log.Info().Str("room", id).Str("user", username).Msg("join request approved")
	return nil
}

// DeclineJoin drops a pending request without adding the user anywhere.
func (s *RoomService) DeclineJoin(id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return errs.ErrRoomNotFound
	}
	if !lo.Contains(room.PendingRequests, username) {
		return nil
	}
	room.PendingRequests = lo.Without(room.PendingRequests, username)
	log.Info().Str("room", id).Str("user", username).Msg("join request declined")
	return nil
}

// ListMembers returns the room's member usernames in join order.
func (s *RoomService) ListMembers(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, errs.ErrRoomNotFound
	}
	return append([]string{}, room.MembersList...), nil
}

// ListRequests returns the room's pending join requests in request order.
func (s *RoomService) ListRequests(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, errs.ErrRoomNotFound
	}
	return append([]string{}, room.PendingRequests...), nil
}

// KickMember removes a member from the room. Kicking the admin or a
// non-member is a no-op.
func (s *RoomService) KickMember(id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return errs.ErrRoomNotFound
	}
	if room.Admin != "" && room.Admin == username {
		return nil
	}
	if !lo.Contains(room.MembersList, username) {
		return nil
	}
	room.MembersList = lo.Without(room.MembersList, username)
	log.Info().Str("room", id).Str("user", username).Msg("member kicked")
	return nil
}

// cloneRoom copies a room so callers never alias the service's internal
// slices. Members is recomputed here, the single place reads go through.
func cloneRoom(r *models.Room) models.Room {
	c := *r
	c.MembersList = append([]string{}, r.MembersList...)
	c.PendingRequests = append([]string{}, r.PendingRequests...)
	c.Members = len(r.MembersList)
	return c
}
