package handler

import (
	"net/http"
	"strconv"

	"raidboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedHandler exposes the merged activity feed.
type FeedHandler struct {
	feed *service.FeedService
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feed *service.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// Get godoc
// @Summary      Get the activity feed
// @Description  Returns the merged, time-ordered feed of recent events. Limits outside [1,50] are clamped.
// @Tags         feed
// @Produce      json
// @Param        limit query int false "Max entries" default(20)
// @Success      200 {array} service.ActivityEvent
// @Router       /feed [get]
func (h *FeedHandler) Get(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := h.feed.Build(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}
