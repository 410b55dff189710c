package core

import (
	"context"

	"github.com/rs/zerolog"
)

// envelope tags a command with the connection that issued it.
type envelope struct {
	client *Client
	cmd    *Command
}

type channelKey struct {
	group string
	name  string
}

// DeclaredChannel is a channel descriptor together with its owning group.
type DeclaredChannel struct {
	Group   string
	Channel Channel
}

// Hub owns all mutable shared state: the connection registry, the room
// directory, and the channel directory. Every mutation happens on the single
// Run goroutine, so each inbound command is an atomic step with respect to
// the directory and presence broadcasts for a room are observed in the order
// the originating commands were processed.
//
// Membership is process memory only. A connection that vanishes without the
// transport reporting a disconnect keeps its membership entries until the
// transport notices; there is no timer-based expiry of stale members.
type Hub struct {
	log      zerolog.Logger
	recorder MessageRecorder

	register   chan *Client
	unregister chan *Client
	commands   chan envelope
	inspect    chan func()

	clients  map[string]*Client
	rooms    map[string]*Room
	known    map[channelKey]struct{}
	declared []DeclaredChannel
}

// NewHub creates a hub. recorder may be nil to disable chat persistence;
// logger may be nil to disable logging.
func NewHub(recorder MessageRecorder, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:        *logger,
		recorder:   recorder,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan envelope),
		inspect:    make(chan func()),
		clients:    make(map[string]*Client),
		rooms:      make(map[string]*Room),
		known:      make(map[channelKey]struct{}),
	}
}

// RegisterClient hands a freshly connected client to the hub.
func (h *Hub) RegisterClient(c *Client) { h.register <- c }

// UnregisterClient runs the disconnect sweep for c. The transport must stop
// producing commands (close c.Commands) around the same time; buffered
// commands that arrive after the sweep are discarded.
func (h *Hub) UnregisterClient(c *Client) { h.unregister <- c }

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(ctx, c)
		case c := <-h.unregister:
			h.dropClient(c)
		case env := <-h.commands:
			h.dispatch(env.client, env.cmd)
		case fn := <-h.inspect:
			fn()
		}
	}
}

// addClient records the connection and starts its command pump. The pump
// preserves per-connection FIFO while funnelling everything into the single
// processing loop.
func (h *Hub) addClient(ctx context.Context, c *Client) {
	h.clients[c.ID] = c
	h.log.Debug().Str("conn", c.ID).Msg("connection registered")

	go func() {
		for cmd := range c.Commands {
			select {
			case h.commands <- envelope{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// dropClient removes the connection from every room it joined, broadcasting
// presence once per affected room, then closes its event stream. No
// membership edge may survive the sweep.
func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)

	for roomID := range c.Rooms {
		delete(c.Rooms, roomID)
		room, ok := h.rooms[roomID]
		if !ok || !room.Remove(c) {
			continue
		}
		if room.Empty() {
			delete(h.rooms, roomID)
			continue
		}
		h.broadcastMembers(room)
	}

	close(c.Events)
	h.log.Debug().Str("conn", c.ID).Msg("connection dropped")
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	// Commands buffered before a disconnect may still arrive; ignore them.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd)
	case CommandLeaveRoom:
		h.handleLeave(c, cmd.Room)
	case CommandSendChat:
		h.handleChat(cmd)
	case CommandDeclareChannel:
		h.handleDeclareChannel(cmd.Group, cmd.Channel)
	case CommandRelayOffer:
		h.relayTargeted(EventOffer, c, cmd.Target, cmd.Payload)
	case CommandRelayAnswer:
		h.relayTargeted(EventAnswer, c, cmd.Target, cmd.Payload)
	case CommandRelayICE:
		h.relayICE(c, cmd.Payload)
	}
}

// handleJoin is an idempotent upsert: re-joining the same room replaces the
// display name and role instead of duplicating the member. The name travels
// in the command; the hub never reads or writes c.Name, which belongs to the
// transport's read goroutine.
func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if cmd.Room == "" || cmd.Name == "" || !cmd.Role.Valid() {
		return
	}

	room, ok := h.rooms[cmd.Room]
	if !ok {
		room = NewRoom(cmd.Room)
		h.rooms[cmd.Room] = room
	}
	room.Upsert(c, Member{ID: c.ID, Name: cmd.Name, Role: cmd.Role})
	c.Rooms[cmd.Room] = struct{}{}

	h.log.Debug().Str("conn", c.ID).Str("room", cmd.Room).Str("role", string(cmd.Role)).Msg("join")
	h.broadcastMembers(room)
}

// handleLeave removes the membership if present; leaving a room the client
// never joined is a no-op, not an error. When the last member departs, the
// empty snapshot goes to the departing client so its UI clears.
func (h *Hub) handleLeave(c *Client, roomID string) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	removed := room.Remove(c)
	delete(c.Rooms, roomID)
	if !removed {
		return
	}

	h.log.Debug().Str("conn", c.ID).Str("room", roomID).Msg("leave")
	if room.Empty() {
		delete(h.rooms, roomID)
		c.send(&Event{Kind: EventRoomMembers, Room: roomID, Members: []Member{}})
		return
	}
	h.broadcastMembers(room)
}

// handleChat re-emits the message verbatim to every member of the room,
// including the sender. An unknown room drops the message silently.
func (h *Hub) handleChat(cmd *Command) {
	room, ok := h.rooms[cmd.Message.Room]
	if !ok {
		return
	}
	room.Broadcast(&Event{
		Kind:    EventChatMessage,
		Room:    cmd.Message.Room,
		Message: cmd.Message,
	})
	if h.recorder != nil {
		h.recorder.Record(cmd.Message.Room, cmd.Message.Sender, cmd.Message.Text, cmd.Message.SentAt)
	}
}

// handleDeclareChannel records the descriptor (deduplicated by group and
// name) and announces the declaration to every connection. Every declaration
// broadcasts, even a repeated one.
func (h *Hub) handleDeclareChannel(group string, ch Channel) {
	key := channelKey{group: group, name: ch.Name}
	if _, seen := h.known[key]; !seen {
		h.known[key] = struct{}{}
		h.declared = append(h.declared, DeclaredChannel{Group: group, Channel: ch})
	}

	event := &Event{Kind: EventChannelCreated, Group: group, Channel: ch}
	for _, c := range h.clients {
		c.send(event)
	}
}

// relayTargeted forwards an offer or answer to exactly one peer. The payload
// is an opaque envelope; an unknown target drops the message silently.
func (h *Hub) relayTargeted(kind EventKind, from *Client, target string, payload []byte) {
	peer, ok := h.clients[target]
	if !ok {
		h.log.Debug().Str("conn", from.ID).Str("target", target).Msg("signal target not connected")
		return
	}
	peer.send(&Event{Kind: kind, Peer: from.ID, Payload: payload})
}

// relayICE fans the candidate out to every other connected client. Receivers
// discard candidates irrelevant to their active negotiation.
func (h *Hub) relayICE(from *Client, payload []byte) {
	event := &Event{Kind: EventICECandidate, Peer: from.ID, Payload: payload}
	for id, peer := range h.clients {
		if id == from.ID {
			continue
		}
		peer.send(event)
	}
}

func (h *Hub) broadcastMembers(room *Room) {
	room.Broadcast(&Event{Kind: EventRoomMembers, Room: room.ID, Members: room.Members()})
}

// RoomMembers reports the current membership snapshot of a room. An absent
// room yields an empty set, never an error. Must only be called while Run is
// active.
func (h *Hub) RoomMembers(roomID string) []Member {
	reply := make(chan []Member, 1)
	h.inspect <- func() {
		if room, ok := h.rooms[roomID]; ok {
			reply <- room.Members()
			return
		}
		reply <- []Member{}
	}
	return <-reply
}

// Channels lists declared channels in declaration order, optionally filtered
// by group (empty group means all). Must only be called while Run is active.
func (h *Hub) Channels(group string) []DeclaredChannel {
	reply := make(chan []DeclaredChannel, 1)
	h.inspect <- func() {
		out := make([]DeclaredChannel, 0, len(h.declared))
		for _, dc := range h.declared {
			if group == "" || dc.Group == group {
				out = append(out, dc)
			}
		}
		reply <- out
	}
	return <-reply
}
