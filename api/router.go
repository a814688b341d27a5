package api

import (
	"time"

	"canteenq/config"
	"canteenq/internal/assistant"
	"canteenq/internal/display"
	"canteenq/internal/mw"
	"canteenq/internal/queue"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

func NewRouter(q queue.UseCase, gateway assistant.UseCase, sessions SessionStore, counter *display.Counter, cfg config.QueueConfig) *gin.Engine {
	router := gin.Default()

	bookingLimiter := mw.RateLimit(rate.Limit(float64(cfg.RateLimitPerMinute)/60.0), cfg.RateLimitBurst)
	menuTTL := time.Duration(cfg.MenuCacheSeconds) * time.Second
	menuStore := gocache.New(menuTTL, 2*menuTTL)
	menuCache := mw.CacheGET(menuStore, menuTTL)

	group := router.Group("/api")
	NewTokenHandler(q, sessions, cfg.SessionTTLMinutes*60).Register(group, bookingLimiter)
	NewMenuHandler(q, menuStore).Register(group, menuCache)
	NewAssistantHandler(gateway, q).Register(group)
	NewSessionHandler(q, sessions).Register(group)
	NewLegacyHandler(counter).Register(group)

	return router
}
