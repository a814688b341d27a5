package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"canteenq/internal/domain"
	"canteenq/internal/queue"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "canteenq_session"

// SessionStore maps a browser session to the token it booked.
type SessionStore interface {
	SetToken(ctx context.Context, sessionID string, tokenID int64) error
	Token(ctx context.Context, sessionID string) (int64, bool, error)
	Clear(ctx context.Context, sessionID string) error
}

type TokenHandler struct {
	queue      queue.UseCase
	sessions   SessionStore
	sessionAge int
}

type bookTokenRequest struct {
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
}

func NewTokenHandler(q queue.UseCase, sessions SessionStore, sessionAgeSeconds int) *TokenHandler {
	return &TokenHandler{queue: q, sessions: sessions, sessionAge: sessionAgeSeconds}
}

func (h *TokenHandler) Register(router *gin.RouterGroup, bookingLimiter gin.HandlerFunc) {
	router.POST("/tokens", bookingLimiter, h.create)
	router.GET("/tokens", h.list)
	router.GET("/queue", h.queueView)
	router.PUT("/tokens/:id/status", h.updateStatus)
	router.DELETE("/tokens/completed", h.clearCompleted)
}

func (h *TokenHandler) create(c *gin.Context) {
	var req bookTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.queue.Book(c.Request.Context(), req.CustomerName, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrInvalidPhone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not book token, please retry"})
		return
	}

	if h.sessions != nil {
		sid := h.ensureSession(c)
		if err := h.sessions.SetToken(c.Request.Context(), sid, token.ID); err != nil {
			log.Printf("api: track session token: %v", err)
		}
	}
	c.JSON(http.StatusCreated, token)
}

func (h *TokenHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.queue.Tokens())
}

func (h *TokenHandler) queueView(c *gin.Context) {
	c.JSON(http.StatusOK, h.queue.View())
}

func (h *TokenHandler) updateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token id"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := domain.ParseTokenStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	token, err := h.queue.Advance(c.Request.Context(), id, status)
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		case errors.Is(err, domain.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not update token, please retry"})
		}
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *TokenHandler) clearCompleted(c *gin.Context) {
	cleared := h.queue.ClearCompleted(c.Request.Context())
	c.JSON(http.StatusAccepted, gin.H{"cleared": cleared})
}

func (h *TokenHandler) ensureSession(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(sessionCookie, sid, h.sessionAge, "/", "", false, true)
	return sid
}
