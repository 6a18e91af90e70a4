package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lounge/internal/core"
	"github.com/dkeye/Lounge/internal/domain"
)

// Dispatcher routes every inbound frame to exactly one service method.
// The event set is closed; unknown types are logged and dropped, bad JSON
// never terminates a connection.
type Dispatcher struct {
	Registry *Registry
	Rooms    *RoomStore
	Members  *MembershipService
	Mics     *MicSlotArbiter
	Messages *MessageBroadcaster
}

func NewDispatcher(reg *Registry, rooms *RoomStore) *Dispatcher {
	return &Dispatcher{
		Registry: reg,
		Rooms:    rooms,
		Members:  &MembershipService{Registry: reg, Rooms: rooms},
		Mics:     &MicSlotArbiter{Registry: reg, Rooms: rooms},
		Messages: &MessageBroadcaster{Rooms: rooms},
	}
}

// Connect binds the transport connection and greets it with its session id.
func (d *Dispatcher) Connect(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	d.Registry.Bind(sid, conn, cancel)
	core.Send(conn, core.ConnectedEvent{Type: core.EvtConnected, SID: sid})
}

// Disconnect runs the membership cleanup for a gone connection.
func (d *Dispatcher) Disconnect(sid core.SessionID) {
	d.Members.Disconnect(sid)
}

// Dispatch routes one raw frame from sid.
func (d *Dispatcher) Dispatch(sid core.SessionID, data core.Frame) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "app.dispatch").Str("sid", string(sid)).Msg("bad json")
		return
	}

	switch env.Type {
	case core.EvtJoinRoom:
		d.handleJoin(sid, data)
	case core.EvtSendMessage:
		d.handleMessage(sid, data)
	case core.EvtJoinMic:
		d.handleJoinMic(sid, data)
	case core.EvtLeaveMic:
		d.handleLeaveMic(sid, data)
	case core.EvtPing:
		d.handlePing(sid)
	default:
		log.Warn().Str("module", "app.dispatch").Str("type", env.Type).Msg("unknown event")
	}
}

func (d *Dispatcher) handleJoin(sid core.SessionID, data core.Frame) {
	var p struct {
		RoomID   string `json:"roomId"`
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "app.dispatch").Msg("bad join payload")
		return
	}
	d.Members.Join(sid, domain.RoomID(p.RoomID), p.UserName)
}

func (d *Dispatcher) handleMessage(sid core.SessionID, data core.Frame) {
	var p struct {
		RoomID   string `json:"roomId"`
		Text     string `json:"text"`
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "app.dispatch").Msg("bad message payload")
		return
	}
	d.Messages.Post(domain.RoomID(p.RoomID), domain.DisplayName(p.UserName), p.Text)
}

func (d *Dispatcher) handleJoinMic(sid core.SessionID, data core.Frame) {
	var p struct {
		RoomID   string `json:"roomId"`
		Slot     string `json:"slot"`
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "app.dispatch").Msg("bad join_mic payload")
		return
	}
	d.Mics.Claim(sid, domain.RoomID(p.RoomID), domain.SlotID(p.Slot), domain.DisplayName(p.UserName))
}

func (d *Dispatcher) handleLeaveMic(sid core.SessionID, data core.Frame) {
	var p struct {
		RoomID   string `json:"roomId"`
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "app.dispatch").Msg("bad leave_mic payload")
		return
	}
	d.Mics.Release(domain.RoomID(p.RoomID), domain.DisplayName(p.UserName))
}

func (d *Dispatcher) handlePing(sid core.SessionID) {
	if conn, ok := d.Registry.Conn(sid); ok {
		core.Send(conn, core.PongEvent{Type: core.EvtPong})
	}
}
