package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ActorHeader names the staff member making the change.
	ActorHeader = "X-Actor"
	// ContextActorKey is the gin context key storing the actor name.
	ContextActorKey = "actor"

	maxActorLength = 100
)

// Actor copies the X-Actor header onto the context, capped at 100 characters. Requests without one keep
// an empty actor and fall back to the configured default downstream.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(strings.ToValidUTF8(c.GetHeader(ActorHeader), ""))
		if runes := []rune(actor); len(runes) > maxActorLength {
			actor = strings.TrimSpace(string(runes[:maxActorLength]))
		}
		if actor != "" {
			c.Set(ContextActorKey, actor)
		}
		c.Next()
	}
}

// ActorFrom returns the actor stored by Actor, or "".
func ActorFrom(c *gin.Context) string {
	return c.GetString(ContextActorKey)
}
