package core

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Frame is a single encoded protocol event.
type Frame []byte

// SessionID identifies one live transport connection. It is minted on
// connect and never reused after disconnect.
type SessionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

func encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	return Frame(b), err
}

// Send marshals v and queues it on conn. Delivery is best effort: a full
// send buffer drops the frame rather than blocking room locks.
func Send(conn SignalConnection, v any) {
	b, err := encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "core").Msg("send marshal")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "core").Msg("send dropped")
	}
}
