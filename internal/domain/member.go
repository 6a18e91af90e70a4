// Package domain contains entities without logic, just meta-data.
package domain

import "time"

const (
	MaxDisplayNameLen  = 36
	DefaultDisplayName = "User"
)

// Member represents a user's participation meta for a room.
// No transport or lifecycle logic here.
type Member struct {
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(name string, joinedAt time.Time) *Member {
	return &Member{Name: DisplayName(name), JoinedAt: joinedAt}
}

// DisplayName normalizes a client-supplied name: empty falls back to the
// generic placeholder, overlong names are clamped.
func DisplayName(raw string) string {
	if raw == "" {
		return DefaultDisplayName
	}
	if len(raw) > MaxDisplayNameLen {
		return raw[:MaxDisplayNameLen]
	}
	return raw
}
