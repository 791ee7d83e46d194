package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/store"
)

// SessionHandlers exposes the session journal read-only.
type SessionHandlers struct {
	store store.SessionStore
	log   *zerolog.Logger
}

// NewSessionHandlers creates a new session handlers instance.
func NewSessionHandlers(st store.SessionStore, logger *zerolog.Logger) *SessionHandlers {
	return &SessionHandlers{store: st, log: logger}
}

// ListSessionsQuery holds query parameters for listing sessions.
type ListSessionsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// SessionResponse represents a journaled session in API responses.
type SessionResponse struct {
	ID             string  `json:"id"`
	ClientID       int64   `json:"client_id"`
	Username       string  `json:"username"`
	Origin         string  `json:"origin"`
	ConnectedAt    string  `json:"connected_at"`
	DisconnectedAt *string `json:"disconnected_at,omitempty"`
	Active         bool    `json:"active"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// List returns the most recent sessions.
// GET /api/sessions?limit=N
func (h *SessionHandlers) List(c *gin.Context) {
	var q ListSessionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.log.Debug().Err(err).Msg("invalid sessions query")
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "invalid query"})
		return
	}

	sessions, err := h.store.ListSessions(c.Request.Context(), q.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list sessions")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		item := SessionResponse{
			ID:          s.ID,
			ClientID:    s.ClientID,
			Username:    s.Username,
			Origin:      s.Origin,
			ConnectedAt: s.ConnectedAt.Format(time.RFC3339),
			Active:      s.DisconnectedAt == nil,
		}
		if s.DisconnectedAt != nil {
			at := s.DisconnectedAt.Format(time.RFC3339)
			item.DisconnectedAt = &at
		}
		resp = append(resp, item)
	}
	c.JSON(stdhttp.StatusOK, resp)
}
