package domain

type (
	// RoomID names a room; rooms are created lazily on first join.
	RoomID string
	// SlotID names one of the finite mic positions in a room.
	SlotID string
)
