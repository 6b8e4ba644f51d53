package handler

import (
	"net/http"
	"strconv"
	"time"

	"raidboard/backend/internal/auth"
	"raidboard/backend/internal/models"
	"raidboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewInput defines the payload for posting a review.
type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment"`
}

// ReviewResponse is a review as exposed to clients.
type ReviewResponse struct {
	ID        uint      `json:"id"`
	RoomID    uint      `json:"room_id"`
	AuthorID  uint      `json:"author_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		RoomID:    r.RoomID,
		AuthorID:  r.AuthorID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// ReviewHandler exposes review operations.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create godoc
// @Summary      Review a room
// @Description  Records a 1-5 rating and refreshes the room's cached average.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Room ID"
// @Param        input body ReviewInput true "Review"
// @Success      201 {object} ReviewResponse
// @Failure      400 {object} ErrorResponse "Rating out of range"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.Add(c.Request.Context(), uint(roomID), actor.ID, input.Rating, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newReviewResponse(review))
}

// HostRating godoc
// @Summary      Get a user's aggregate host rating
// @Description  Aggregates all reviews received across rooms owned by the user.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} repository.HostRating
// @Router       /users/{id}/host-rating [get]
func (h *ReviewHandler) HostRating(c *gin.Context) {
	userID, _ := strconv.Atoi(c.Param("id"))

	agg, err := h.reviews.HostRatingFor(c.Request.Context(), uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agg)
}
