package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley.app/relay/internal/http/dto"
	"parley.app/relay/internal/http/middleware"
	"parley.app/relay/internal/http/router"
	"parley.app/relay/internal/llm"
	"parley.app/relay/internal/service"
)

type stubCompletionClient struct {
	reply string
	err   error
	seen  [][]llm.Message
}

func (s *stubCompletionClient) Complete(_ context.Context, messages []llm.Message) (string, error) {
	s.seen = append(s.seen, messages)
	return s.reply, s.err
}

func (s *stubCompletionClient) Model() string { return "stub" }

var _ = Describe("Routes", func() {
	var (
		engine *gin.Engine
		client *stubCompletionClient
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		client = &stubCompletionClient{reply: "Hi there"}
		engine = gin.New()
		engine.Use(middleware.CORS())
		router.SetupRoutes(engine, service.NewChatService(client, 0))
	})

	It("serves the health endpoint", func() {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		engine.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("completes a chat request end to end", func() {
		body, _ := json.Marshal(dto.ChatRequest{
			Messages: []dto.ChatMessage{{Role: "user", Content: "Hello"}},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		engine.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var reply dto.ChatReply
		Expect(json.Unmarshal(w.Body.Bytes(), &reply)).To(Succeed())
		Expect(reply.Reply).To(Equal("Hi there"))

		// system message first, then the transcript
		Expect(client.seen).To(HaveLen(1))
		Expect(client.seen[0]).To(HaveLen(2))
		Expect(client.seen[0][0].Role).To(Equal("system"))
		Expect(client.seen[0][1].Content).To(Equal("Hello"))

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})

	It("returns the uniform fallback envelope with 500 when the upstream fails", func() {
		client.err = errors.New("connection reset")

		body, _ := json.Marshal(dto.ChatRequest{
			Messages: []dto.ChatMessage{{Role: "user", Content: "Hello"}},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		engine.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var reply dto.ChatReply
		Expect(json.Unmarshal(w.Body.Bytes(), &reply)).To(Succeed())
		Expect(reply.Reply).To(Equal(service.FallbackReply))
	})

	It("answers a preflight for the chat route", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
		w := httptest.NewRecorder()

		engine.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(Equal("POST, OPTIONS"))
	})
})
