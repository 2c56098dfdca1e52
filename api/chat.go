package api

import (
	"net/http"

	"github.com/Domenick1991/travelease/internal/assistant"
	"github.com/Domenick1991/travelease/internal/responses"
	"github.com/gin-gonic/gin"
)

type Assistant interface {
	Reply(message string) (assistant.Reply, error)
}

type ChatHandler struct {
	assistant Assistant
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func NewChatHandler(a Assistant) *ChatHandler {
	return &ChatHandler{assistant: a}
}

func (h *ChatHandler) Register(router *gin.RouterGroup) {
	router.POST("/chat", h.reply)
}

func (h *ChatHandler) reply(c *gin.Context) {
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.assistant.Reply(req.Message)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, reply)
}
