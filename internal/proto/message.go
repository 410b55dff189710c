package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Wire event names. Client-to-server and server-to-client types share one
// namespace; chat, offer and answer events keep the same name in both
// directions, with the server rewriting the payload shape on relay.
const (
	TypeJoinRoom       = "join-room"
	TypeLeaveRoom      = "leave-room"
	TypeChatMessage    = "chat-message"
	TypeRoomMembers    = "room-members"
	TypeCreateChannel  = "create-channel"
	TypeChannelCreated = "channel-created"
	TypeWebRTCOffer    = "webrtc-offer"
	TypeWebRTCAnswer   = "webrtc-answer"
	TypeWebRTCICE      = "webrtc-ice"
	TypeError          = "error"
)

// Protocol error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
)

// UserRef carries the display name supplied by the auth layer; the server
// does not re-validate it.
type UserRef struct {
	Name string `json:"name"`
}

// JoinRoomData requests membership in a room.
type JoinRoomData struct {
	RoomID   string  `json:"roomId"`
	User     UserRef `json:"user"`
	RoomType string  `json:"roomType"`
}

// LeaveRoomData drops membership in a room.
type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

// ChatMessageData is relayed verbatim to every member of the room.
type ChatMessageData struct {
	RoomID  string `json:"roomId"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// ChannelData describes one declared channel.
type ChannelData struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateChannelData declares a channel within a group.
type CreateChannelData struct {
	Group   string      `json:"group"`
	Channel ChannelData `json:"channel"`
}

// OfferData targets a WebRTC offer at one connection. The offer body is an
// opaque envelope the server never parses.
type OfferData struct {
	TargetID string          `json:"targetId"`
	Offer    json.RawMessage `json:"offer"`
}

// AnswerData targets a WebRTC answer at one connection.
type AnswerData struct {
	TargetID string          `json:"targetId"`
	Answer   json.RawMessage `json:"answer"`
}

// ICECandidateData carries an ICE candidate for system-wide fan-out.
type ICECandidateData struct {
	Candidate json.RawMessage `json:"candidate"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MemberData is one entry of a presence snapshot.
type MemberData struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RoomMembersData is the full membership snapshot pushed after any change.
type RoomMembersData struct {
	RoomID  string       `json:"roomId"`
	Members []MemberData `json:"members"`
}

// ChannelCreatedData announces a declared channel to all connections.
type ChannelCreatedData struct {
	Group   string      `json:"group"`
	Channel ChannelData `json:"channel"`
}

// OfferEventData delivers a relayed offer to its target.
type OfferEventData struct {
	SenderID string          `json:"senderId"`
	Offer    json.RawMessage `json:"offer"`
}

// AnswerEventData delivers a relayed answer to its target.
type AnswerEventData struct {
	SenderID string          `json:"senderId"`
	Answer   json.RawMessage `json:"answer"`
}

// ICEEventData delivers a relayed ICE candidate.
type ICEEventData struct {
	SenderID  string          `json:"senderId"`
	Candidate json.RawMessage `json:"candidate"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
