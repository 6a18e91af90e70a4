package core

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/Lounge/internal/domain"
)

// ErrSlotOccupied rejects a claim for a slot somebody else already holds.
var ErrSlotOccupied = errors.New("slot already taken")

// memberSession pairs membership meta with its transport endpoint.
type memberSession struct {
	meta *domain.Member
	conn SignalConnection
}

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped int
}

// Room is a threadsafe in-memory room. Mutations and their fan-out run
// under one lock so every member observes slot and message updates in the
// order they were applied. The room never closes adapter-owned connections.
type Room struct {
	id domain.RoomID

	mu        sync.RWMutex
	members   map[SessionID]*memberSession
	micSlots  map[domain.SlotID]string
	userSlots map[string]domain.SlotID
	messages  []domain.Message
	createdAt time.Time
	updatedAt time.Time
}

func NewRoom(id domain.RoomID) *Room {
	now := time.Now()
	return &Room{
		id:        id,
		members:   make(map[SessionID]*memberSession),
		micSlots:  make(map[domain.SlotID]string),
		userSlots: make(map[string]domain.SlotID),
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Room) ID() domain.RoomID { return r.id }

func (r *Room) CreatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.createdAt
}

func (r *Room) UpdatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updatedAt
}

// Touch bumps updatedAt without any other mutation.
func (r *Room) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updatedAt = time.Now()
}

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// AddMember inserts or replaces the member bound to sid.
func (r *Room) AddMember(sid SessionID, conn SignalConnection, meta *domain.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[sid] = &memberSession{meta: meta, conn: conn}
	r.updatedAt = time.Now()
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(sid)).Str("name", meta.Name).Msg("member added")
}

// RemoveMember drops sid and reports the member's name and whether the
// room is now empty. Removing an unknown sid is a no-op.
func (r *Room) RemoveMember(sid SessionID) (name string, empty, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms, ok := r.members[sid]
	if !ok {
		return "", len(r.members) == 0, false
	}
	delete(r.members, sid)
	r.updatedAt = time.Now()
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(sid)).Msg("member removed")
	return ms.meta.Name, len(r.members) == 0, true
}

// Snapshot returns the member list and slot map as one consistent view,
// for the room_data event sent to a joiner.
func (r *Room) Snapshot() ([]domain.Member, map[domain.SlotID]string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := lo.MapToSlice(r.members, func(_ SessionID, ms *memberSession) domain.Member {
		return *ms.meta
	})
	return users, lo.Assign(r.micSlots)
}

// Slots returns a copy of the current slot map.
func (r *Room) Slots() map[domain.SlotID]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Assign(r.micSlots)
}

// UserSlots returns a copy of the inverse slot index.
func (r *Room) UserSlots() map[string]domain.SlotID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Assign(r.userSlots)
}

// Messages returns a copy of the append-only log.
func (r *Room) Messages() []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// PostMessage appends msg to the log and fans it out to every member not
// listed in exclude. Append and fan-out share the critical section, so
// delivery order matches log order.
func (r *Room) PostMessage(msg domain.Message, exclude ...SessionID) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	r.updatedAt = msg.Timestamp
	return r.fanOut(MessageEvent{Type: EvtNewMessage, Message: msg}, exclude...)
}

// Claim assigns slot to user and broadcasts the updated slot map. A user
// who already holds a different slot is moved: the old slot is released in
// the same critical section, so micSlots and userSlots stay inverses.
func (r *Room) Claim(slot domain.SlotID, user string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.micSlots[slot]; taken {
		return ErrSlotOccupied
	}
	if prev, held := r.userSlots[user]; held {
		delete(r.micSlots, prev)
	}
	r.micSlots[slot] = user
	r.userSlots[user] = slot
	r.updatedAt = time.Now()
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("slot", string(slot)).Str("user", user).Msg("mic claimed")
	r.fanOut(MicUpdateEvent{Type: EvtMicUpdate, MicSlots: lo.Assign(r.micSlots)})
	return nil
}

// Release frees the slot held by user, if any, and broadcasts the updated
// slot map. Returns false when the user holds nothing.
func (r *Room) Release(user string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, held := r.userSlots[user]
	if !held {
		return false
	}
	delete(r.micSlots, slot)
	delete(r.userSlots, user)
	r.updatedAt = time.Now()
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("slot", string(slot)).Str("user", user).Msg("mic released")
	r.fanOut(MicUpdateEvent{Type: EvtMicUpdate, MicSlots: lo.Assign(r.micSlots)})
	return true
}

// fanOut delivers v to every member except the excluded sids.
// Callers hold r.mu.
func (r *Room) fanOut(v any, exclude ...SessionID) PublishResult {
	res := PublishResult{}
	frame, err := encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("room", string(r.id)).Msg("fanout marshal")
		return res
	}
	for sid, ms := range r.members {
		if lo.Contains(exclude, sid) {
			continue
		}
		if err := ms.conn.TrySend(frame); err != nil {
			res.Dropped++
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("fanout result")
	return res
}
