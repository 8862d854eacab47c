package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/aptitude-quiz/internal/response"
)

// SystemHandler reports liveness and a few process facts.
type SystemHandler struct {
	startTime    time.Time
	questions    int
	sessionStore string
}

// NewSystemHandler creates a new SystemHandler. questions is the loaded bank
// size and sessionStore the configured backend name.
func NewSystemHandler(questions int, sessionStore string) *SystemHandler {
	return &SystemHandler{
		startTime:    time.Now(),
		questions:    questions,
		sessionStore: sessionStore,
	}
}

type healthStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Questions    int    `json:"questions"`
	SessionStore string `json:"session_store"`
	Goroutines   int    `json:"goroutines"`
	GoVersion    string `json:"go_version"`
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, healthStatus{
		Status:       "ok",
		Uptime:       formatDuration(time.Since(h.startTime)),
		Questions:    h.questions,
		SessionStore: h.sessionStore,
		Goroutines:   runtime.NumGoroutine(),
		GoVersion:    runtime.Version(),
	})
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
