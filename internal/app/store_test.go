package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lounge/internal/domain"
)

func TestRoomStore_GetOrCreate_ReturnsSameRoom(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore()

	r1 := store.GetOrCreate("r1")
	r2 := store.GetOrCreate("r1")
	req.Same(r1, r2)
	req.Equal(1, store.Count())
	req.Empty(r1.Slots())
	req.Empty(r1.Messages())
	req.False(r1.CreatedAt().IsZero())
}

func TestRoomStore_Get_DoesNotCreate(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore()

	_, ok := store.Get("nope")
	req.False(ok)
	req.Zero(store.Count())
}

func TestRoomStore_Remove_IsIdempotent(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore()
	store.GetOrCreate("r1")

	store.Remove("r1")
	store.Remove("r1")
	req.Zero(store.Count())
}

func TestRoomStore_Touch_BumpsUpdatedAt(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore()
	room := store.GetOrCreate("r1")
	before := room.UpdatedAt()

	time.Sleep(2 * time.Millisecond)
	store.Touch("r1")
	req.True(room.UpdatedAt().After(before))

	store.Touch("absent") // no-op
}

func TestRoomStore_RemoveMember_DeletesEmptyRoom(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore()
	conn := &fakeConn{}

	store.AddMember("r1", "s1", conn, domain.NewMember("alice", time.Now()))
	store.AddMember("r1", "s2", conn, domain.NewMember("bob", time.Now()))
	req.Equal(1, store.Count())

	_, name, deleted, ok := store.RemoveMember("r1", "s1")
	req.True(ok)
	req.False(deleted)
	req.Equal("alice", name)
	req.Equal(1, store.Count())

	_, _, deleted, ok = store.RemoveMember("r1", "s2")
	req.True(ok)
	req.True(deleted)
	req.Zero(store.Count())

	_, _, _, ok = store.RemoveMember("r1", "s2")
	req.False(ok)
}
