package domain

import "time"

// SystemAuthor is the author of join/leave notices.
const SystemAuthor = "System"

// Message is immutable once appended to a room's log.
type Message struct {
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSystemMessage(text string, at time.Time) Message {
	return Message{User: SystemAuthor, Text: text, Timestamp: at}
}
