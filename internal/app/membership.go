package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lounge/internal/core"
	"github.com/dkeye/Lounge/internal/domain"
)

// MembershipService handles join and disconnect for the room lifecycle:
// rooms appear on first join and disappear with their last member.
type MembershipService struct {
	Registry *Registry
	Rooms    *RoomStore
}

// Join puts the connection into roomID, sends it the room snapshot and
// notifies the other members. A connection already bound to a room is
// rebound; only the latest binding is tracked, so the old room keeps the
// stale member entry for its own lifetime.
func (s *MembershipService) Join(sid core.SessionID, roomID domain.RoomID, name string) {
	conn, ok := s.Registry.Conn(sid)
	if !ok {
		log.Warn().Str("module", "app.membership").Str("sid", string(sid)).Msg("join from unknown session")
		return
	}

	meta := domain.NewMember(name, time.Now())
	room := s.Rooms.AddMember(roomID, sid, conn, meta)
	s.Registry.SetRoom(sid, roomID, meta.Name)

	users, slots := room.Snapshot()
	core.Send(conn, core.RoomDataEvent{
		Type:     core.EvtRoomData,
		Users:    users,
		MicSlots: slots,
		RoomID:   roomID,
		YourName: meta.Name,
	})

	notice := domain.NewSystemMessage(fmt.Sprintf("%s joined the room", meta.Name), time.Now())
	room.PostMessage(notice, sid)
	log.Info().Str("module", "app.membership").Str("sid", string(sid)).Str("room", string(roomID)).Str("name", meta.Name).Msg("join")
}

// Disconnect removes the connection from its room (if any), notifies the
// remaining members and invalidates the identity binding. Idempotent: a
// connection that never joined, or was already cleaned up, is a no-op.
func (s *MembershipService) Disconnect(sid core.SessionID) {
	roomID, name, bound := s.Registry.RoomOf(sid)
	if bound {
		room, _, deleted, removed := s.Rooms.RemoveMember(roomID, sid)
		if removed {
			notice := domain.NewSystemMessage(fmt.Sprintf("%s left the room", name), time.Now())
			room.PostMessage(notice)
		}
		if deleted {
			log.Info().Str("module", "app.membership").Str("room", string(roomID)).Msg("room emptied on disconnect")
		}
	}
	s.Registry.Unbind(sid)
	log.Info().Str("module", "app.membership").Str("sid", string(sid)).Msg("disconnect")
}
