package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room, upserting its record.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandSendChat delivers a chat message to room participants.
	CommandSendChat
	// CommandDeclareChannel records a channel descriptor and announces it.
	CommandDeclareChannel
	// CommandRelayOffer forwards a WebRTC offer to a single peer.
	CommandRelayOffer
	// CommandRelayAnswer forwards a WebRTC answer to a single peer.
	CommandRelayAnswer
	// CommandRelayICE fans an ICE candidate out to all other connections.
	CommandRelayICE
)

// Command represents an action requested by a client. Fields are used per
// kind; the transport mapper guarantees the required ones are populated.
type Command struct {
	Kind    CommandKind
	Room    string
	Name    string // display name, join only
	Role    Role   // join only
	Message Message
	Group   string
	Channel Channel
	Target  string          // offer/answer destination handle
	Payload json.RawMessage // opaque negotiation payload, never parsed
}
