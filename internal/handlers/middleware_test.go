package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestOriginFilter_Rules(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		allowed    []string
		method     string
		header     string
		origin     string
		wantStatus int
		wantACAO   string
	}{
		{name: "empty list allows any origin", method: http.MethodGet, header: "Origin", origin: "https://anything.example", wantStatus: http.StatusOK},
		{name: "empty list leaves preflight to the router", method: http.MethodOptions, header: "Origin", origin: "https://anything.example", wantStatus: http.StatusNotFound},
		{name: "no origin passes", allowed: []string{"https://meet.example"}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "listed origin", allowed: []string{"https://meet.example"}, method: http.MethodGet, header: "Origin", origin: "https://meet.example", wantStatus: http.StatusOK, wantACAO: "https://meet.example"},
		{name: "legacy websocket origin header", allowed: []string{"https://meet.example"}, method: http.MethodGet, header: "Sec-WebSocket-Origin", origin: "https://meet.example", wantStatus: http.StatusOK, wantACAO: "https://meet.example"},
		{name: "unlisted origin", allowed: []string{"https://meet.example"}, method: http.MethodGet, header: "Origin", origin: "https://evil.example", wantStatus: http.StatusForbidden},
		{name: "preflight", allowed: []string{"https://meet.example"}, method: http.MethodOptions, header: "Origin", origin: "https://meet.example", wantStatus: http.StatusNoContent, wantACAO: "https://meet.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(OriginFilter(tt.allowed))
			router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.origin)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantACAO {
				t.Fatalf("ACAO=%q, want %q", got, tt.wantACAO)
			}
			if tt.wantACAO != "" {
				if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
					t.Fatalf("methods=%q", got)
				}
			}
		})
	}
}
