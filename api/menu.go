package api

import (
	"net/http"

	"canteenq/internal/domain"
	"canteenq/internal/queue"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

type MenuHandler struct {
	queue     queue.UseCase
	menuCache *gocache.Cache
}

func NewMenuHandler(q queue.UseCase, menuCache *gocache.Cache) *MenuHandler {
	return &MenuHandler{queue: q, menuCache: menuCache}
}

func (h *MenuHandler) Register(router *gin.RouterGroup, menuCache gin.HandlerFunc) {
	router.GET("/dish", h.getDish)
	router.PUT("/dish", h.setDish)
	router.GET("/menu", menuCache, h.listMenu)
	router.POST("/menu/:id/toggle", h.toggleItem)
}

func (h *MenuHandler) getDish(c *gin.Context) {
	dish := h.queue.DishOfTheDay()
	if dish == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no special today"})
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *MenuHandler) setDish(c *gin.Context) {
	var dish domain.Dish
	if err := c.ShouldBindJSON(&dish); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dish.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dish name is required"})
		return
	}
	if err := h.queue.SetDishOfTheDay(c.Request.Context(), dish); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not save dish, please retry"})
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *MenuHandler) listMenu(c *gin.Context) {
	c.JSON(http.StatusOK, h.queue.MenuItems())
}

func (h *MenuHandler) toggleItem(c *gin.Context) {
	if err := h.queue.ToggleMenuItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not update menu item, please retry"})
		return
	}
	// a cached menu response must not outlive the toggle that changed it
	if h.menuCache != nil {
		h.menuCache.Flush()
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
