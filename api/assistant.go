package api

import (
	"net/http"
	"strconv"

	"canteenq/internal/assistant"
	"canteenq/internal/domain"
	"canteenq/internal/queue"
	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	gateway assistant.UseCase
	queue   queue.UseCase
}

type chatRequest struct {
	History []domain.ChatMessage `json:"history"`
	Message string               `json:"message"`
}

type notifyRequest struct {
	Channel string `json:"channel"`
}

type generateDishRequest struct {
	Keywords string `json:"keywords"`
}

func NewAssistantHandler(gateway assistant.UseCase, q queue.UseCase) *AssistantHandler {
	return &AssistantHandler{gateway: gateway, queue: q}
}

func (h *AssistantHandler) Register(router *gin.RouterGroup) {
	router.POST("/assistant/chat", h.chat)
	router.POST("/tokens/:id/notify", h.notify)
	router.POST("/dish/generate", h.generateDish)
}

// The gateway never fails; service trouble comes back as a fixed fallback
// string, so this is always a 200.
func (h *AssistantHandler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	reply := h.gateway.Converse(c.Request.Context(), req.History, req.Message)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *AssistantHandler) notify(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token id"})
		return
	}
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Channel != assistant.ChannelWhatsApp && req.Channel != assistant.ChannelCall {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel must be whatsapp or call"})
		return
	}
	token, ok := h.queue.FindToken(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		return
	}
	message := h.gateway.DraftNotification(c.Request.Context(), *token, req.Channel)
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// generateDish distinguishes "could not generate" (nil from the gateway,
// 503 here) from the credential-missing placeholder Dish, which comes back
// as a normal 200.
func (h *AssistantHandler) generateDish(c *gin.Context) {
	var req generateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Keywords == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keywords are required"})
		return
	}
	dish := h.gateway.GenerateDish(c.Request.Context(), req.Keywords)
	if dish == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not generate a dish"})
		return
	}
	c.JSON(http.StatusOK, dish)
}
