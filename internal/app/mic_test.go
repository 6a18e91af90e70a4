package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lounge/internal/core"
	"github.com/dkeye/Lounge/internal/domain"
)

func TestClaim_BroadcastsSlotMapToAllMembers(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()
	alice := connect(d, "sid-alice")
	bob := connect(d, "sid-bob")
	d.Members.Join("sid-alice", "r1", "alice")
	d.Members.Join("sid-bob", "r1", "bob")

	d.Mics.Claim("sid-alice", "r1", "1", "alice")

	for _, conn := range []*fakeConn{alice, bob} {
		updates := conn.eventsOfType(t, "mic_update")
		req.Len(updates, 1)
		req.Equal(map[string]any{"1": "alice"}, updates[0]["micSlots"])
	}
}

func TestClaim_OccupiedSlotRejectsRequesterOnly(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()
	alice := connect(d, "sid-alice")
	bob := connect(d, "sid-bob")
	d.Members.Join("sid-alice", "r1", "alice")
	d.Members.Join("sid-bob", "r1", "bob")

	d.Mics.Claim("sid-alice", "r1", "1", "alice")
	d.Mics.Claim("sid-bob", "r1", "1", "bob")

	errs := bob.eventsOfType(t, "mic_error")
	req.Len(errs, 1)
	req.Equal("Slot already taken", errs[0]["message"])
	req.Empty(alice.eventsOfType(t, "mic_error"))

	room, _ := d.Rooms.Get("r1")
	req.Equal(map[domain.SlotID]string{"1": "alice"}, room.Slots())
	// rejection does not broadcast a second update
	req.Len(alice.eventsOfType(t, "mic_update"), 1)
}

func TestClaim_MissingRoomIsSilent(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()
	conn := connect(d, "sid-1")

	d.Mics.Claim("sid-1", "ghost", "1", "alice")

	req.Empty(conn.eventsOfType(t, "mic_error"))
	req.Empty(conn.eventsOfType(t, "mic_update"))
}

func TestRelease_BroadcastsUpdatedMapOrStaysSilent(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()
	alice := connect(d, "sid-alice")
	d.Members.Join("sid-alice", "r1", "alice")
	d.Mics.Claim("sid-alice", "r1", "1", "alice")

	d.Mics.Release("r1", "alice")
	updates := alice.eventsOfType(t, "mic_update")
	req.Len(updates, 2)
	req.Equal(map[string]any{}, updates[1]["micSlots"])

	// nothing held anymore, no further broadcast
	d.Mics.Release("r1", "alice")
	req.Len(alice.eventsOfType(t, "mic_update"), 2)

	d.Mics.Release("ghost", "alice")
}

func TestClaim_ConcurrentClaimsElectExactlyOneHolder(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	const n = 16
	conns := make([]*fakeConn, n)
	for i := range n {
		sid := core.SessionID(fmt.Sprintf("sid-%d", i))
		conns[i] = connect(d, sid)
		d.Members.Join(sid, "r1", fmt.Sprintf("user-%d", i))
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := core.SessionID(fmt.Sprintf("sid-%d", i))
			d.Mics.Claim(sid, "r1", "1", fmt.Sprintf("user-%d", i))
		}(i)
	}
	wg.Wait()

	room, ok := d.Rooms.Get("r1")
	req.True(ok)
	slots := room.Slots()
	req.Len(slots, 1)

	rejected := 0
	for _, conn := range conns {
		rejected += len(conn.eventsOfType(t, "mic_error"))
	}
	req.Equal(n-1, rejected)

	// the two slot indexes stay exact mutual inverses
	users := room.UserSlots()
	req.Len(users, 1)
	for slot, user := range slots {
		req.Equal(slot, users[user])
	}
}
