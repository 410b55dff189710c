package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/core"
	"github.com/studyhub/studyhub-server/internal/store"
)

// ChannelHandlers provides HTTP handlers for the channel directory and
// per-room read-only views.
type ChannelHandlers struct {
	hub      *core.Hub
	messages store.MessageStore
	log      *zerolog.Logger
}

// NewChannelHandlers creates a new channel handlers instance.
func NewChannelHandlers(hub *core.Hub, messages store.MessageStore, logger *zerolog.Logger) *ChannelHandlers {
	return &ChannelHandlers{hub: hub, messages: messages, log: logger}
}

// ChannelInfo represents one declared channel in API responses.
type ChannelInfo struct {
	Group string `json:"group"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// List returns declared channels, optionally filtered by study group.
// GET /api/channels?group=<name>
func (h *ChannelHandlers) List(c *gin.Context) {
	group := c.Query("group")

	declared := h.hub.Channels(group)
	out := make([]ChannelInfo, 0, len(declared))
	for _, d := range declared {
		out = append(out, ChannelInfo{
			Group: d.Group,
			Name:  d.Channel.Name,
			Type:  string(d.Channel.Type),
		})
	}
	c.JSON(http.StatusOK, out)
}

// MemberInfo represents one room member in API responses.
type MemberInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Members returns the current member snapshot for a room.
// GET /api/rooms/:group/:channel/members
func (h *ChannelHandlers) Members(c *gin.Context) {
	roomID := core.RoomID(c.Param("group"), c.Param("channel"))

	members := h.hub.RoomMembers(roomID)
	out := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		out = append(out, MemberInfo{Name: m.Name, Type: string(m.Role)})
	}
	c.JSON(http.StatusOK, out)
}

// MessageInfo represents one persisted chat message in API responses.
type MessageInfo struct {
	ID      int64     `json:"id"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}

// Messages returns recent chat history for a room, oldest first.
// GET /api/rooms/:group/:channel/messages?limit=<n>
func (h *ChannelHandlers) Messages(c *gin.Context) {
	roomID := core.RoomID(c.Param("group"), c.Param("channel"))

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		if n > 200 {
			n = 200
		}
		limit = n
	}

	history, err := h.messages.RecentMessages(c.Request.Context(), roomID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to load message history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]MessageInfo, 0, len(history))
	for _, m := range history {
		out = append(out, MessageInfo{ID: m.ID, Sender: m.Sender, Content: m.Text, SentAt: m.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}
