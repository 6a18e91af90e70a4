package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lounge/internal/core"
	"github.com/dkeye/Lounge/internal/domain"
)

// RoomStore owns the room registry. Rooms exist exactly while they have
// members: created on first join, deleted when the last member leaves.
// State is lost on restart; that is intentional, rooms are ephemeral.
//
// Membership mutations run under the store write lock so that creating a
// room can never interleave with its empty-room deletion. Mic and message
// operations only need the per-room lock.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[domain.RoomID]*core.Room)}
}

// GetOrCreate returns the existing room or atomically creates an empty one.
func (s *RoomStore) GetOrCreate(id domain.RoomID) *core.Room {
	s.mu.RLock()
	room, ok := s.rooms[id]
	s.mu.RUnlock()
	if ok {
		return room
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok = s.rooms[id]; ok {
		return room
	}
	room = core.NewRoom(id)
	s.rooms[id] = room
	log.Info().Str("module", "app.store").Str("room", string(id)).Msg("room created")
	return room
}

// Get looks a room up without creating it.
func (s *RoomStore) Get(id domain.RoomID) (*core.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

// Remove deletes the room; no-op if absent.
func (s *RoomStore) Remove(id domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// Touch bumps the room's updatedAt; no-op if absent.
func (s *RoomStore) Touch(id domain.RoomID) {
	if room, ok := s.Get(id); ok {
		room.Touch()
	}
}

func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// AddMember inserts sid into the room, creating it first if needed. Held
// under the store write lock so a concurrent empty-room removal cannot
// drop the room between creation and insert.
func (s *RoomStore) AddMember(id domain.RoomID, sid core.SessionID, conn core.SignalConnection, meta *domain.Member) *core.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		room = core.NewRoom(id)
		s.rooms[id] = room
		log.Info().Str("module", "app.store").Str("room", string(id)).Msg("room created")
	}
	room.AddMember(sid, conn, meta)
	return room
}

// RemoveMember drops sid from the room and deletes the room when it
// empties. The count-then-delete decision shares the store write lock
// with AddMember.
func (s *RoomStore) RemoveMember(id domain.RoomID, sid core.SessionID) (room *core.Room, name string, deleted, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok = s.rooms[id]
	if !ok {
		return nil, "", false, false
	}
	name, empty, removed := room.RemoveMember(sid)
	if !removed {
		return room, "", false, false
	}
	if empty {
		delete(s.rooms, id)
		deleted = true
		log.Info().Str("module", "app.store").Str("room", string(id)).Msg("room deleted, last member left")
	}
	return room, name, deleted, true
}
