package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lounge/internal/core"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("closed")
	}
	b := make(core.Frame, len(fr))
	copy(b, fr)
	f.frames = append(f.frames, b)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(fr, &m))
		out = append(out, m)
	}
	return out
}

func (f *fakeConn) eventsOfType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, e := range f.events(t) {
		if e["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

// connect binds a fresh fake connection through the dispatcher, the same
// path the websocket adapter takes.
func connect(d *Dispatcher, sid core.SessionID) *fakeConn {
	conn := &fakeConn{}
	d.Connect(sid, conn, func() {})
	return conn
}

func newDispatcher() *Dispatcher {
	return NewDispatcher(NewRegistry(), NewRoomStore())
}

func dispatch(t *testing.T, d *Dispatcher, sid core.SessionID, v map[string]any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	d.Dispatch(sid, b)
}
