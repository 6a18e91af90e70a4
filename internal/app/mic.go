package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lounge/internal/core"
	"github.com/dkeye/Lounge/internal/domain"
)

// MicSlotArbiter assigns and frees the exclusive mic slots of a room.
// A rejected claim is answered to the requester only; a missing room is a
// silent no-op for both operations.
type MicSlotArbiter struct {
	Registry *Registry
	Rooms    *RoomStore
}

// Claim tries to seat user on slot. On success the room broadcasts the
// updated slot map itself; on an occupied slot the requester gets a
// mic_error and nothing mutates.
func (a *MicSlotArbiter) Claim(sid core.SessionID, roomID domain.RoomID, slot domain.SlotID, user string) {
	room, ok := a.Rooms.Get(roomID)
	if !ok {
		return
	}
	err := room.Claim(slot, user)
	if err == nil {
		return
	}
	if errors.Is(err, core.ErrSlotOccupied) {
		if conn, ok := a.Registry.Conn(sid); ok {
			core.Send(conn, core.MicErrorEvent{Type: core.EvtMicError, Message: "Slot already taken"})
		}
		log.Info().Str("module", "app.mic").Str("room", string(roomID)).Str("slot", string(slot)).Str("user", user).Msg("claim rejected, slot taken")
	}
}

// Release frees whatever slot user holds; the room broadcasts the update.
func (a *MicSlotArbiter) Release(roomID domain.RoomID, user string) {
	room, ok := a.Rooms.Get(roomID)
	if !ok {
		return
	}
	room.Release(user)
}
