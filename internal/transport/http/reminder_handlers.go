package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/store"
)

// ReminderHandlers provides HTTP handlers for study reminder endpoints.
type ReminderHandlers struct {
	reminders store.ReminderStore
	log       *zerolog.Logger
}

// NewReminderHandlers creates a new reminder handlers instance.
func NewReminderHandlers(reminders store.ReminderStore, logger *zerolog.Logger) *ReminderHandlers {
	return &ReminderHandlers{
		reminders: reminders,
		log:       logger,
	}
}

// CreateReminderRequest represents the reminder creation request body.
type CreateReminderRequest struct {
	Title string    `json:"title" binding:"required"`
	DueAt time.Time `json:"dueAt" binding:"required"`
	Notes string    `json:"notes"`
}

// ReminderResponse represents a reminder in API responses.
type ReminderResponse struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	DueAt time.Time `json:"dueAt"`
	Notes string    `json:"notes,omitempty"`
}

func reminderResponse(r store.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:    r.ID,
		Title: r.Title,
		DueAt: r.DueAt,
		Notes: r.Notes,
	}
}

// List returns the authenticated user's reminders.
// GET /api/reminders
func (h *ReminderHandlers) List(c *gin.Context) {
	userID := c.GetInt64(ContextKeyUserID)

	reminders, err := h.reminders.ListReminders(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to list reminders")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, reminderResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// Create adds a new reminder for the authenticated user.
// POST /api/reminders
func (h *ReminderHandlers) Create(c *gin.Context) {
	userID := c.GetInt64(ContextKeyUserID)

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid reminder request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.reminders.CreateReminder(c.Request.Context(), &store.Reminder{
		UserID: userID,
		Title:  req.Title,
		DueAt:  req.DueAt,
		Notes:  req.Notes,
	})
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to create reminder")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, reminderResponse(*created))
}

// Delete removes one of the authenticated user's reminders.
// DELETE /api/reminders/:id
func (h *ReminderHandlers) Delete(c *gin.Context) {
	userID := c.GetInt64(ContextKeyUserID)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid reminder id"})
		return
	}

	if err := h.reminders.DeleteReminder(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "reminder not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", userID).Int64("reminder_id", id).Msg("failed to delete reminder")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
