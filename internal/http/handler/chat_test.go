package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley.app/relay/internal/http/dto"
	"parley.app/relay/internal/http/handler"
	"parley.app/relay/internal/model"
	"parley.app/relay/internal/service"
)

var _ = Describe("ChatHandler", func() {
	var (
		router *gin.Engine
		svc    *mockChatService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockChatService{}
		h := handler.NewChatHandler(svc)
		router.POST("/chat", h.Complete)
	})

	post := func(body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("returns 200 with the reply on success", func() {
		svc.completeFn = func(_ context.Context, transcript []model.Message, referenceText string) service.Result {
			Expect(transcript).To(HaveLen(1))
			Expect(transcript[0].Content).To(Equal("Hello"))
			Expect(referenceText).To(BeEmpty())
			return service.Result{Reply: "Hi there"}
		}

		body, _ := json.Marshal(dto.ChatRequest{
			Messages: []dto.ChatMessage{{Role: "user", Content: "Hello"}},
		})
		w := post(body)

		Expect(w.Code).To(Equal(http.StatusOK))
		var reply dto.ChatReply
		Expect(json.Unmarshal(w.Body.Bytes(), &reply)).To(Succeed())
		Expect(reply.Reply).To(Equal("Hi there"))
	})

	It("passes the uploaded file content through to the service", func() {
		var gotReference string
		svc.completeFn = func(_ context.Context, _ []model.Message, referenceText string) service.Result {
			gotReference = referenceText
			return service.Result{Reply: "ok"}
		}

		content := "ABC"
		body, _ := json.Marshal(dto.ChatRequest{
			Messages:            []dto.ChatMessage{{Role: "user", Content: "Hi"}},
			UploadedFileContent: &content,
		})
		post(body)

		Expect(gotReference).To(Equal("ABC"))
	})

	It("returns 500 with the same envelope shape when the completion fails", func() {
		svc.completeFn = func(_ context.Context, _ []model.Message, _ string) service.Result {
			return service.Result{Reply: service.FallbackReply, Failure: service.FailureNetwork}
		}

		body, _ := json.Marshal(dto.ChatRequest{
			Messages: []dto.ChatMessage{{Role: "user", Content: "Hello"}},
		})
		w := post(body)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var reply dto.ChatReply
		Expect(json.Unmarshal(w.Body.Bytes(), &reply)).To(Succeed())
		Expect(reply.Reply).To(Equal(service.FallbackReply))
	})

	It("returns 500 with the fallback envelope on a malformed body", func() {
		w := post([]byte(`{`))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var reply dto.ChatReply
		Expect(json.Unmarshal(w.Body.Bytes(), &reply)).To(Succeed())
		Expect(reply.Reply).To(Equal(service.FallbackReply))
	})
})
