package router

import (
	"github.com/gin-gonic/gin"

	"parley.app/relay/internal/http/handler"
	"parley.app/relay/internal/service"
)

func SetupRoutes(router *gin.Engine, chatService service.ChatService) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		chatHandler := handler.NewChatHandler(chatService)
		ChatRouter(v1.Group("/chat"), chatHandler)
	}
}

func ChatRouter(g *gin.RouterGroup, h *handler.ChatHandler) {
	g.POST("", h.Complete)
}
