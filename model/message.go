package model

import "time"

// Message represents a chat message in the conversation. Messages are
// append-only; insertion order is display order.
type Message struct {
	Role      string
	Content   string
	Rendered  string // Cached rendered markdown
	HasImage  bool   // User message carried an image attachment
	IsError   bool   // Synthetic assistant message for a failed send
	Timestamp time.Time
}
