package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomMembers carries the full membership snapshot of a room.
	EventRoomMembers EventKind = iota
	// EventChatMessage notifies room members about a chat message.
	EventChatMessage
	// EventChannelCreated announces a declared channel to every connection.
	EventChannelCreated
	// EventOffer delivers a relayed WebRTC offer to its target peer.
	EventOffer
	// EventAnswer delivers a relayed WebRTC answer to its target peer.
	EventAnswer
	// EventICECandidate delivers a relayed ICE candidate.
	EventICECandidate
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Room    string
	Members []Member // EventRoomMembers
	Message Message  // EventChatMessage
	Group   string   // EventChannelCreated
	Channel Channel  // EventChannelCreated
	Peer    string   // signaling events: originating connection handle
	Payload json.RawMessage
}
