package chatbot

import (
	"context"
	"net/http"

	"meal-deals/internal/core/chatbot"
	"meal-deals/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Assistant chat service
type Assistant interface {
	Chat(ctx context.Context, sessionID, message string) (*chatbot.Reply, error)
}

// Request chat request body
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Handler chat endpoint
type Handler struct {
	svc   Assistant
	debug bool
}

// NewHandler creates a Handler
func NewHandler(svc Assistant, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

// HandleChat POST /api/chatbot
func (h *Handler) HandleChat(c *gin.Context) {
	var req Request
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, reply)
}
