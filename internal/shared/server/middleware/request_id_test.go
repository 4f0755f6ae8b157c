package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDSources(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"explicit", map[string]string{"X-Request-Id": "req-1"}, "req-1"},
		{"cloud trace", map[string]string{"X-Cloud-Trace-Context": "105445aa7843bc8bf206b12000100000/1;o=1"}, "105445aa7843bc8bf206b12000100000"},
		{"explicit wins", map[string]string{"X-Request-Id": "req-2", "X-Cloud-Trace-Context": "abc/1"}, "req-2"},
		{"too long", map[string]string{"X-Request-Id": strings.Repeat("x", 200)}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/id", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			got := resp.Body.String()
			if tc.want == "" {
				if len(got) != 36 {
					t.Fatalf("expected generated uuid, got %q", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if resp.Header().Get("X-Request-Id") != got {
				t.Fatal("request id not echoed")
			}
		})
	}
}
