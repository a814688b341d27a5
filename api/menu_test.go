package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"canteenq/internal/domain"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func TestMenuHandler_getDish(t *testing.T) {
	mockQueue := &MockQueueUseCase{}
	handler := NewMenuHandler(mockQueue, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/dish", nil)

	mockQueue.On("DishOfTheDay").Return(&domain.Dish{Name: "Masala Dosa", Description: "Crispy rice crepe with potato filling."})

	handler.getDish(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.Dish
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Masala Dosa", response.Name)
	mockQueue.AssertExpectations(t)
}

func TestMenuHandler_getDish_noSpecial(t *testing.T) {
	mockQueue := &MockQueueUseCase{}
	handler := NewMenuHandler(mockQueue, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/dish", nil)

	mockQueue.On("DishOfTheDay").Return(nil)

	handler.getDish(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockQueue.AssertExpectations(t)
}

func TestMenuHandler_setDish(t *testing.T) {
	mockQueue := &MockQueueUseCase{}
	handler := NewMenuHandler(mockQueue, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	dish := domain.Dish{Name: "Masala Dosa", Description: "Crispy rice crepe with potato filling."}
	body, _ := json.Marshal(dish)
	c.Request = httptest.NewRequest("PUT", "/dish", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockQueue.On("SetDishOfTheDay", c.Request.Context(), dish).Return(nil)

	handler.setDish(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockQueue.AssertExpectations(t)
}

func TestMenuHandler_setDish_nameRequired(t *testing.T) {
	mockQueue := &MockQueueUseCase{}
	handler := NewMenuHandler(mockQueue, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(domain.Dish{Description: "no name"})
	c.Request = httptest.NewRequest("PUT", "/dish", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.setDish(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockQueue.AssertNotCalled(t, "SetDishOfTheDay")
}

func TestMenuHandler_listMenu(t *testing.T) {
	mockQueue := &MockQueueUseCase{}
	handler := NewMenuHandler(mockQueue, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/menu", nil)

	mockQueue.On("MenuItems").Return(domain.DefaultMenu())

	handler.listMenu(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.MenuItem
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, len(domain.DefaultMenu()))
	mockQueue.AssertExpectations(t)
}

func TestMenuHandler_toggleItem(t *testing.T) {
	mockQueue := &MockQueueUseCase{}
	handler := NewMenuHandler(mockQueue, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	c.Request = httptest.NewRequest("POST", "/menu/p1/toggle", nil)

	mockQueue.On("ToggleMenuItem", c.Request.Context(), "p1").Return(nil)

	handler.toggleItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockQueue.AssertExpectations(t)
}

func TestMenuHandler_toggleItem_flushesCachedMenu(t *testing.T) {
	mockQueue := &MockQueueUseCase{}
	menuCache := gocache.New(time.Minute, time.Minute)
	handler := NewMenuHandler(mockQueue, menuCache)

	menuCache.Set("/api/menu", "stale response", gocache.DefaultExpiration)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	c.Request = httptest.NewRequest("POST", "/menu/p1/toggle", nil)

	mockQueue.On("ToggleMenuItem", c.Request.Context(), "p1").Return(nil)

	handler.toggleItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, found := menuCache.Get("/api/menu")
	assert.False(t, found, "cached menu response should be gone after a toggle")
	mockQueue.AssertExpectations(t)
}
