package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/moderation"
)

// ModerationHandlers provides HTTP handlers for content moderation endpoints.
type ModerationHandlers struct {
	moderation *moderation.Service
	log        *zerolog.Logger
}

// NewModerationHandlers creates a new moderation handlers instance.
func NewModerationHandlers(svc *moderation.Service, logger *zerolog.Logger) *ModerationHandlers {
	return &ModerationHandlers{
		moderation: svc,
		log:        logger,
	}
}

// ModerateRequest represents the moderation request body.
type ModerateRequest struct {
	Content string `json:"content" binding:"required"`
	UserID  int64  `json:"userId"`
}

// Moderate scores a candidate message and reports whether it may be sent.
// POST /api/moderate
func (h *ModerationHandlers) Moderate(c *gin.Context) {
	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid moderation request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	verdict, err := h.moderation.Check(c.Request.Context(), req.Content, req.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("moderation check failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, verdict)
}
