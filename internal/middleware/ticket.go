package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/aptitude-quiz/internal/response"
	"github.com/stemsi/aptitude-quiz/internal/service"
)

const (
	// ContextKeyTicket is the Gin context key for validated ticket claims.
	ContextKeyTicket = "ticket"
)

// RequireTicket validates the session ticket from the Authorization header,
// falling back to the ?token= query parameter for WebSocket upgrades.
func RequireTicket(tickets *service.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractTicket(c)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTicketRequired)
			return
		}

		claims, err := tickets.Validate(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTicketInvalid)
			return
		}

		c.Set(ContextKeyTicket, claims)
		c.Next()
	}
}

// GetTicket retrieves the ticket claims from the Gin context.
func GetTicket(c *gin.Context) *service.TicketClaims {
	val, exists := c.Get(ContextKeyTicket)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.TicketClaims)
	if !ok {
		return nil
	}
	return claims
}

// SessionID returns the session bound to the request's ticket.
func SessionID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetTicket(c)
	if claims == nil {
		return uuid.Nil, false
	}
	return claims.SessionID, true
}

func extractTicket(c *gin.Context) (string, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	// Browsers cannot set headers on a WebSocket handshake.
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}

	if tokenStr == "" {
		return "", fmt.Errorf("authorization header or token query required")
	}
	return tokenStr, nil
}
