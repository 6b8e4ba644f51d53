package handler

import (
	"net/http"
	"strconv"
	"time"

	"raidboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// LeaderboardHandler exposes ranked aggregates over a date window.
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler creates a LeaderboardHandler.
func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Get godoc
// @Summary      Get leaderboard rankings
// @Description  Ranks users over [start,end] by rooms created, rooms joined, and average host rating.
// @Tags         leaderboard
// @Produce      json
// @Param        start query string false "Window start (RFC3339), default 7 days ago"
// @Param        end   query string false "Window end (RFC3339), default now"
// @Param        limit query int    false "Entries per list" default(10)
// @Success      200 {object} service.Rankings
// @Failure      400 {object} ErrorResponse "Bad window"
// @Router       /rankings [get]
func (h *LeaderboardHandler) Get(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339"})
			return
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339"})
			return
		}
		end = parsed
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rankings, err := h.leaderboard.Rankings(c.Request.Context(), start, end, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rankings)
}
