package core

import "github.com/dkeye/Lounge/internal/domain"

// Event type discriminators. Every frame on the wire is a flat JSON object
// carrying one of these in its "type" field.
const (
	// inbound
	EvtJoinRoom    = "join_room"
	EvtSendMessage = "send_message"
	EvtJoinMic     = "join_mic"
	EvtLeaveMic    = "leave_mic"
	EvtPing        = "ping"

	// outbound
	EvtConnected  = "connected"
	EvtRoomData   = "room_data"
	EvtNewMessage = "new_message"
	EvtMicUpdate  = "mic_update"
	EvtMicError   = "mic_error"
	EvtPong       = "pong"
)

// ConnectedEvent greets a fresh connection with its session id.
type ConnectedEvent struct {
	Type string    `json:"type"`
	SID  SessionID `json:"sid"`
}

// RoomDataEvent is the snapshot sent to a joining connection only.
type RoomDataEvent struct {
	Type     string                   `json:"type"`
	Users    []domain.Member          `json:"users"`
	MicSlots map[domain.SlotID]string `json:"micSlots"`
	RoomID   domain.RoomID            `json:"roomId"`
	YourName string                   `json:"yourName"`
}

// MessageEvent carries one chat or system message.
type MessageEvent struct {
	Type string `json:"type"`
	domain.Message
}

// MicUpdateEvent broadcasts the full slot map after every claim/release.
type MicUpdateEvent struct {
	Type     string                   `json:"type"`
	MicSlots map[domain.SlotID]string `json:"micSlots"`
}

// MicErrorEvent rejects a claim; sent to the requester only.
type MicErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PongEvent struct {
	Type string `json:"type"`
}
