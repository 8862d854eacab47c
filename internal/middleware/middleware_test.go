package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/aptitude-quiz/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_AllowAndRefill(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("bucket should refill after an interval")
	}

	now = now.Add(10 * time.Minute)
	if dropped := rl.Cleanup(); dropped != 2 {
		t.Errorf("Cleanup dropped %d, want 2", dropped)
	}
}

func TestRequireTicket(t *testing.T) {
	tickets := service.NewTicketService("middleware-secret", time.Hour)
	id := uuid.New()
	ticket, _, err := tickets.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := gin.New()
	r.GET("/t", RequireTicket(tickets), func(c *gin.Context) {
		got, ok := SessionID(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, got.String())
	})

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer " + ticket, "", http.StatusOK},
		{"query token", "", "?token=" + ticket, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + ticket, "", http.StatusUnauthorized},
		{"tampered", "Bearer " + ticket + "x", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/t"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusOK && rec.Body.String() != id.String() {
				t.Errorf("session = %q, want %s", rec.Body.String(), id)
			}
		})
	}
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat(`{"question":"What is 2+2?"},`, 100)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(large))
	})
	r.GET("/small", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"ok":true}`))
	})
	r.GET("/png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", []byte(large))
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/large")
	if rec.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("large response not compressed: %v", rec.Header())
	}
	body, err := io.ReadAll(brotli.NewReader(rec.Body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body) != large {
		t.Error("round trip mismatch")
	}

	rec = get("/small")
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != `{"ok":true}` {
		t.Errorf("small response altered: %q %q", rec.Header().Get("Content-Encoding"), rec.Body.String())
	}

	rec = get("/png")
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.Len() != len(large) {
		t.Error("images must pass through")
	}
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.GET("/a", CacheControl(24*time.Hour), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a", nil))
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", got)
	}
}
