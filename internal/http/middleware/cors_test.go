package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley.app/relay/internal/http/middleware"
)

var _ = Describe("CORS", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(middleware.CORS())
		router.POST("/chat", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"reply": "ok"})
		})
	})

	It("answers OPTIONS preflight without reaching a handler", func() {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(Equal("POST, OPTIONS"))
		Expect(w.Header().Get("Access-Control-Allow-Headers")).To(Equal("Content-Type"))
	})

	It("adds the allow-origin header to POST responses", func() {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})
})
