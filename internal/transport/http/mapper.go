package http

import (
	"encoding/json"
	"time"

	"github.com/studyhub/studyhub-server/internal/core"
	"github.com/studyhub/studyhub-server/internal/proto"
)

// inboundToCommand validates a wire message and maps it to a core command.
// A malformed payload yields a protocol error for the sender and never
// reaches the hub, so a bad event cannot corrupt the room directory.
func inboundToCommand(client *core.Client, inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.TypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.RoomID == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		role := core.Role(join.RoomType)
		if !role.Valid() {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "roomType must be text, voice or video"}, nil
		}
		name := join.User.Name
		if name == "" {
			name = client.Name
		}
		if name == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "user.name is required"}, nil
		}
		// Remember the name for the chat sender fallback. The read
		// goroutine is the only writer after connect.
		client.Name = name
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.RoomID,
			Name: name,
			Role: role,
		}, nil, nil

	case proto.TypeLeaveRoom:
		var leave proto.LeaveRoomData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		if leave.RoomID == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandLeaveRoom,
			Room: leave.RoomID,
		}, nil, nil

	case proto.TypeChatMessage:
		var msg proto.ChatMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.RoomID == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		if msg.Content == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "content is required"}, nil
		}
		sender := msg.Sender
		if sender == "" {
			sender = client.Name
		}
		return &core.Command{
			Kind: core.CommandSendChat,
			Message: core.Message{
				Room:   msg.RoomID,
				Sender: sender,
				Text:   msg.Content,
				SentAt: time.Now(),
			},
		}, nil, nil

	case proto.TypeCreateChannel:
		var create proto.CreateChannelData
		if err := json.Unmarshal(inbound.Data, &create); err != nil {
			return nil, nil, err
		}
		if create.Group == "" || create.Channel.Name == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "group and channel.name are required"}, nil
		}
		chType := core.Role(create.Channel.Type)
		if !chType.Valid() {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "channel.type must be text, voice or video"}, nil
		}
		return &core.Command{
			Kind:    core.CommandDeclareChannel,
			Group:   create.Group,
			Channel: core.Channel{Name: create.Channel.Name, Type: chType},
		}, nil, nil

	case proto.TypeWebRTCOffer:
		var offer proto.OfferData
		if err := json.Unmarshal(inbound.Data, &offer); err != nil {
			return nil, nil, err
		}
		if offer.TargetID == "" || len(offer.Offer) == 0 {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "targetId and offer are required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandRelayOffer,
			Target:  offer.TargetID,
			Payload: offer.Offer,
		}, nil, nil

	case proto.TypeWebRTCAnswer:
		var answer proto.AnswerData
		if err := json.Unmarshal(inbound.Data, &answer); err != nil {
			return nil, nil, err
		}
		if answer.TargetID == "" || len(answer.Answer) == 0 {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "targetId and answer are required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandRelayAnswer,
			Target:  answer.TargetID,
			Payload: answer.Answer,
		}, nil, nil

	case proto.TypeWebRTCICE:
		var ice proto.ICECandidateData
		if err := json.Unmarshal(inbound.Data, &ice); err != nil {
			return nil, nil, err
		}
		if len(ice.Candidate) == 0 {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "candidate is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandRelayICE,
			Payload: ice.Candidate,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

// outboundFromEvent maps a core event to its wire representation.
func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomMembers:
		members := make([]proto.MemberData, 0, len(event.Members))
		for _, m := range event.Members {
			members = append(members, proto.MemberData{Name: m.Name, Type: string(m.Role)})
		}
		return proto.Outbound{
			Type: proto.TypeRoomMembers,
			Data: proto.RoomMembersData{RoomID: event.Room, Members: members},
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type: proto.TypeChatMessage,
			Data: proto.ChatMessageData{
				RoomID:  event.Message.Room,
				Sender:  event.Message.Sender,
				Content: event.Message.Text,
			},
		}
	case core.EventChannelCreated:
		return proto.Outbound{
			Type: proto.TypeChannelCreated,
			Data: proto.ChannelCreatedData{
				Group:   event.Group,
				Channel: proto.ChannelData{Name: event.Channel.Name, Type: string(event.Channel.Type)},
			},
		}
	case core.EventOffer:
		return proto.Outbound{
			Type: proto.TypeWebRTCOffer,
			Data: proto.OfferEventData{SenderID: event.Peer, Offer: event.Payload},
		}
	case core.EventAnswer:
		return proto.Outbound{
			Type: proto.TypeWebRTCAnswer,
			Data: proto.AnswerEventData{SenderID: event.Peer, Answer: event.Payload},
		}
	case core.EventICECandidate:
		return proto.Outbound{
			Type: proto.TypeWebRTCICE,
			Data: proto.ICEEventData{SenderID: event.Peer, Candidate: event.Payload},
		}
	default:
		return proto.Outbound{Type: proto.TypeError, Error: &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown event"}}
	}
}
