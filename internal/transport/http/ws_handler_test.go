package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/studyhub/studyhub-server/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinPresenceAndChat(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	connA := dialWS(ctx, t, ts)
	connB := dialWS(ctx, t, ts)

	sendInbound(ctx, t, connA, proto.TypeJoinRoom, proto.JoinRoomData{
		RoomID:   "math::general",
		User:     proto.UserRef{Name: "alice"},
		RoomType: "text",
	})

	out := readUntil(ctx, t, connA, proto.TypeRoomMembers)
	var snapshot proto.RoomMembersData
	decodeData(t, out, &snapshot)
	if snapshot.RoomID != "math::general" || len(snapshot.Members) != 1 {
		t.Fatalf("unexpected first snapshot: %+v", snapshot)
	}
	if snapshot.Members[0].Name != "alice" || snapshot.Members[0].Type != "text" {
		t.Fatalf("unexpected member entry: %+v", snapshot.Members[0])
	}

	sendInbound(ctx, t, connB, proto.TypeJoinRoom, proto.JoinRoomData{
		RoomID:   "math::general",
		User:     proto.UserRef{Name: "bob"},
		RoomType: "text",
	})

	// Both members receive the two-member snapshot after the second join.
	out = readUntil(ctx, t, connA, proto.TypeRoomMembers)
	decodeData(t, out, &snapshot)
	if len(snapshot.Members) != 2 {
		t.Fatalf("expected 2 members after second join, got %+v", snapshot)
	}

	out = readUntil(ctx, t, connB, proto.TypeRoomMembers)
	decodeData(t, out, &snapshot)
	if len(snapshot.Members) != 2 {
		t.Fatalf("expected 2 members on joiner, got %+v", snapshot)
	}

	sendInbound(ctx, t, connA, proto.TypeChatMessage, proto.ChatMessageData{
		RoomID:  "math::general",
		Sender:  "alice",
		Content: "anyone stuck on problem 3?",
	})

	var chat proto.ChatMessageData
	out = readUntil(ctx, t, connB, proto.TypeChatMessage)
	decodeData(t, out, &chat)
	if chat.Sender != "alice" || chat.Content != "anyone stuck on problem 3?" || chat.RoomID != "math::general" {
		t.Fatalf("unexpected chat payload: %+v", chat)
	}

	// Sender hears its own message back too.
	out = readUntil(ctx, t, connA, proto.TypeChatMessage)
	decodeData(t, out, &chat)
	if chat.Sender != "alice" {
		t.Fatalf("sender did not receive echo: %+v", chat)
	}
}

func TestWebSocketOfferRelay(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	connA := dialWS(ctx, t, ts)
	connB := dialWS(ctx, t, ts)

	sendInbound(ctx, t, connA, proto.TypeJoinRoom, proto.JoinRoomData{
		RoomID:   "physics::video",
		User:     proto.UserRef{Name: "alice"},
		RoomType: "video",
	})
	readUntil(ctx, t, connA, proto.TypeRoomMembers)

	sendInbound(ctx, t, connB, proto.TypeJoinRoom, proto.JoinRoomData{
		RoomID:   "physics::video",
		User:     proto.UserRef{Name: "bob"},
		RoomType: "video",
	})
	readUntil(ctx, t, connB, proto.TypeRoomMembers)

	// An ICE candidate fans out to every other connection carrying the
	// sender's connection id; bob learns alice's id from it.
	sendInbound(ctx, t, connA, proto.TypeWebRTCICE, proto.ICECandidateData{
		Candidate: json.RawMessage(`{"candidate":"cand-1"}`),
	})

	var ice proto.ICEEventData
	out := readUntil(ctx, t, connB, proto.TypeWebRTCICE)
	decodeData(t, out, &ice)
	if ice.SenderID == "" {
		t.Fatalf("ice candidate missing sender id: %+v", ice)
	}

	sendInbound(ctx, t, connB, proto.TypeWebRTCOffer, proto.OfferData{
		TargetID: ice.SenderID,
		Offer:    json.RawMessage(`{"sdp":"offer-sdp","type":"offer"}`),
	})

	var offer proto.OfferEventData
	out = readUntil(ctx, t, connA, proto.TypeWebRTCOffer)
	decodeData(t, out, &offer)
	if offer.SenderID == "" {
		t.Fatalf("offer missing sender id: %+v", offer)
	}
	if string(offer.Offer) != `{"sdp":"offer-sdp","type":"offer"}` {
		t.Fatalf("offer payload mangled: %s", offer.Offer)
	}

	// Answer flows back targeted at the offerer.
	sendInbound(ctx, t, connA, proto.TypeWebRTCAnswer, proto.AnswerData{
		TargetID: offer.SenderID,
		Answer:   json.RawMessage(`{"sdp":"answer-sdp","type":"answer"}`),
	})

	var answer proto.AnswerEventData
	out = readUntil(ctx, t, connB, proto.TypeWebRTCAnswer)
	decodeData(t, out, &answer)
	if string(answer.Answer) != `{"sdp":"answer-sdp","type":"answer"}` {
		t.Fatalf("answer payload mangled: %s", answer.Answer)
	}
}

func TestWebSocketChannelDeclarationBroadcast(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	connA := dialWS(ctx, t, ts)
	connB := dialWS(ctx, t, ts)

	// connB is in no room; channel announcements still reach it.
	sendInbound(ctx, t, connA, proto.TypeCreateChannel, proto.CreateChannelData{
		Group:   "chemistry",
		Channel: proto.ChannelData{Name: "lab-prep", Type: "voice"},
	})

	var created proto.ChannelCreatedData
	out := readUntil(ctx, t, connB, proto.TypeChannelCreated)
	decodeData(t, out, &created)
	if created.Group != "chemistry" || created.Channel.Name != "lab-prep" || created.Channel.Type != "voice" {
		t.Fatalf("unexpected channel-created payload: %+v", created)
	}
}

func TestWebSocketRejectsMalformedJoin(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	conn := dialWS(ctx, t, ts)

	sendInbound(ctx, t, conn, proto.TypeJoinRoom, proto.JoinRoomData{
		User:     proto.UserRef{Name: "alice"},
		RoomType: "text",
	})

	out := readUntil(ctx, t, conn, proto.TypeError)
	if out.Error == nil || out.Error.Code != proto.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", out.Error)
	}

	// The connection survives a rejected message.
	sendInbound(ctx, t, conn, proto.TypeJoinRoom, proto.JoinRoomData{
		RoomID:   "math::general",
		User:     proto.UserRef{Name: "alice"},
		RoomType: "text",
	})

	var snapshot proto.RoomMembersData
	out = readUntil(ctx, t, conn, proto.TypeRoomMembers)
	decodeData(t, out, &snapshot)
	if len(snapshot.Members) != 1 {
		t.Fatalf("expected join to succeed after error, got %+v", snapshot)
	}
}

func TestWebSocketDisconnectUpdatesPresence(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	connA := dialWS(ctx, t, ts)
	connB := dialWS(ctx, t, ts)

	sendInbound(ctx, t, connA, proto.TypeJoinRoom, proto.JoinRoomData{
		RoomID:   "history::notes",
		User:     proto.UserRef{Name: "alice"},
		RoomType: "text",
	})
	readUntil(ctx, t, connA, proto.TypeRoomMembers)

	sendInbound(ctx, t, connB, proto.TypeJoinRoom, proto.JoinRoomData{
		RoomID:   "history::notes",
		User:     proto.UserRef{Name: "bob"},
		RoomType: "text",
	})
	readUntil(ctx, t, connB, proto.TypeRoomMembers)

	// Drain alice's copy of the two-member snapshot, then drop bob.
	readUntil(ctx, t, connA, proto.TypeRoomMembers)
	_ = connB.CloseNow()

	var snapshot proto.RoomMembersData
	out := readUntil(ctx, t, connA, proto.TypeRoomMembers)
	decodeData(t, out, &snapshot)
	if len(snapshot.Members) != 1 || snapshot.Members[0].Name != "alice" {
		t.Fatalf("expected alice alone after disconnect, got %+v", snapshot)
	}
}
