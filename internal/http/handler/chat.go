package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"parley.app/relay/internal/http/dto"
	"parley.app/relay/internal/model"
	"parley.app/relay/internal/service"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Complete handles POST /api/v1/chat. Every outcome, including an
// unparseable body, terminates in a ChatReply envelope so the client always
// has a sentence to render.
func (h *ChatHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ChatReply{Reply: service.FallbackReply})
		return
	}

	transcript := make([]model.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		transcript = append(transcript, model.Message{Role: m.Role, Content: m.Content})
	}

	var referenceText string
	if req.UploadedFileContent != nil {
		referenceText = *req.UploadedFileContent
	}

	result := h.chatService.Complete(ctx, transcript, referenceText)
	if result.Failed() {
		c.JSON(http.StatusInternalServerError, dto.ChatReply{Reply: result.Reply})
		return
	}

	c.JSON(http.StatusOK, dto.ChatReply{Reply: result.Reply})
}
