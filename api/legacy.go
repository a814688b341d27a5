package api

import (
	"net/http"

	"canteenq/internal/display"
	"github.com/gin-gonic/gin"
)

// LegacyHandler keeps the hardware token-display contract alive: the board
// POSTs the number it is showing and the old frontend polls it back.
type LegacyHandler struct {
	counter *display.Counter
}

func NewLegacyHandler(counter *display.Counter) *LegacyHandler {
	return &LegacyHandler{counter: counter}
}

func (h *LegacyHandler) Register(router *gin.RouterGroup) {
	router.POST("/updateToken", h.update)
	router.GET("/getToken", h.get)
}

func (h *LegacyHandler) update(c *gin.Context) {
	var req struct {
		Token int64 `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.counter.Set(req.Token)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *LegacyHandler) get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"token": h.counter.Current()})
}
