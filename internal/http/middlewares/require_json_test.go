package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mkamau/bloghub/internal/http/middlewares"
)

func setupJSONRouter() *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequireJSON())

	handle := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}

	r.POST("/things", handle)
	r.GET("/things", handle)

	return r
}

func TestRequireJSON(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		contentType    string
		wantStatusCode int
	}{
		{
			name:           "json_body_accepted",
			method:         http.MethodPost,
			body:           `{"title":"hi"}`,
			contentType:    "application/json",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "json_with_charset_accepted",
			method:         http.MethodPost,
			body:           `{"title":"hi"}`,
			contentType:    "application/json; charset=utf-8",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "wrong_content_type_rejected",
			method:         http.MethodPost,
			body:           `{"title":"hi"}`,
			contentType:    "text/plain",
			wantStatusCode: http.StatusUnsupportedMediaType,
		},
		{
			name:           "missing_content_type_rejected",
			method:         http.MethodPost,
			body:           `{"title":"hi"}`,
			wantStatusCode: http.StatusUnsupportedMediaType,
		},
		{
			// a body-less POST (logout style) needs no Content-Type
			name:           "empty_body_exempt",
			method:         http.MethodPost,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "get_exempt",
			method:         http.MethodGet,
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := setupJSONRouter()

			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}

			req := httptest.NewRequest(tt.method, "/things", body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
