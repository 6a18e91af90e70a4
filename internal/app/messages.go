package app

import (
	"strings"
	"time"

	"github.com/dkeye/Lounge/internal/domain"
)

// MessageBroadcaster appends chat messages to room history and fans them
// out to every member, sender included.
type MessageBroadcaster struct {
	Rooms *RoomStore
}

// Post appends and broadcasts one message. Whitespace-only text and
// missing rooms are silent no-ops.
func (b *MessageBroadcaster) Post(roomID domain.RoomID, user, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	room, ok := b.Rooms.Get(roomID)
	if !ok {
		return
	}
	room.PostMessage(domain.Message{User: user, Text: text, Timestamp: time.Now()})
}
