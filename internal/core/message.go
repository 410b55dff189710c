package core

import "time"

// Message is the domain model for a chat message. The hub relays it to room
// members verbatim; persistence happens off the event loop via MessageRecorder.
type Message struct {
	Room   string
	Sender string
	Text   string
	SentAt time.Time
}

// Channel is a declarative channel descriptor. It is held only for the
// current process lifetime and never validated against a canonical list.
type Channel struct {
	Name string
	Type Role
}

// MessageRecorder receives relayed chat messages for out-of-band persistence.
// Implementations must not block: the hub calls Record from its event loop.
type MessageRecorder interface {
	Record(room, sender, text string, at time.Time)
}
