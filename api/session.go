package api

import (
	"log"
	"net/http"

	"canteenq/internal/queue"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	queue    queue.UseCase
	sessions SessionStore
}

func NewSessionHandler(q queue.UseCase, sessions SessionStore) *SessionHandler {
	return &SessionHandler{queue: q, sessions: sessions}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.GET("/session/token", h.current)
	router.DELETE("/session/token", h.acknowledge)
}

// current resolves the session's tracked token against the live set. A
// tracked id whose token has disappeared (cleared by staff) drops the
// mapping instead of pointing at nothing.
func (h *SessionHandler) current(c *gin.Context) {
	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tracked token"})
		return
	}
	id, ok, err := h.sessions.Token(c.Request.Context(), sid)
	if err != nil {
		log.Printf("api: read session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tracked token"})
		return
	}
	token, live := h.queue.FindToken(id)
	if !live {
		if err := h.sessions.Clear(c.Request.Context(), sid); err != nil {
			log.Printf("api: clear stale session token: %v", err)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "no tracked token"})
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *SessionHandler) acknowledge(c *gin.Context) {
	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.sessions.Clear(c.Request.Context(), sid); err != nil {
		log.Printf("api: clear session token: %v", err)
	}
	c.Status(http.StatusNoContent)
}
