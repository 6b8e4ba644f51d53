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

// region --- DTOs ---

// RoomInput defines the payload for creating a room.
type RoomInput struct {
	Boss       string    `json:"boss" binding:"required" example:"Mega Rayquaza"`
	RaidBossID uint      `json:"raid_boss_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	MaxMembers int       `json:"max_members" binding:"required,min=1"`
	Note       string    `json:"note"`
	// Status force-creates the room in a non-initial state; operators only.
	Status models.RoomStatus `json:"status"`
}

// StatusInput defines the payload for a status change.
type StatusInput struct {
	Status models.RoomStatus `json:"status" binding:"required" example:"active"`
}

// RoomResponse is the room as exposed to clients.
type RoomResponse struct {
	ID          uint              `json:"id"`
	Boss        string            `json:"boss"`
	RaidBossID  uint              `json:"raid_boss_id"`
	OwnerID     uint              `json:"owner_id"`
	StartTime   time.Time         `json:"start_time"`
	MaxMembers  int               `json:"max_members"`
	Status      models.RoomStatus `json:"status"`
	Note        string            `json:"note,omitempty"`
	AvgRating   *float64          `json:"avg_rating"`
	ReviewCount int               `json:"review_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

func newRoomResponse(room *models.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Boss:        room.Boss,
		RaidBossID:  room.RaidBossID,
		OwnerID:     room.OwnerID,
		StartTime:   room.StartTime,
		MaxMembers:  room.MaxMembers,
		Status:      room.Status,
		Note:        room.Note,
		AvgRating:   room.AvgRating,
		ReviewCount: room.ReviewCount,
		CreatedAt:   room.CreatedAt,
	}
}

// endregion

// RoomHandler exposes room lifecycle operations.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler creates a RoomHandler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create godoc
// @Summary      Create a raid room
// @Description  Opens a new room with the caller as owner; the owner membership is created atomically.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RoomInput true "Room Info"
// @Success      201  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != "" && input.Status != models.RoomInvited && !actor.Role.CanModerate() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only operators may force-create an active room"})
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), service.CreateRoomInput{
		Boss:       input.Boss,
		RaidBossID: input.RaidBossID,
		StartTime:  input.StartTime,
		MaxMembers: input.MaxMembers,
		OwnerID:    actor.ID,
		Note:       input.Note,
		Status:     input.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRoomResponse(room))
}

// Get godoc
// @Summary      Get a room by ID
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} RoomResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	roomID, _ := strconv.Atoi(c.Param("id"))

	room, err := h.rooms.Get(c.Request.Context(), uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(room))
}

// List godoc
// @Summary      List rooms
// @Description  Gets a paginated list of rooms, newest first.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[RoomResponse]
// @Router       /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rooms, total, err := h.rooms.List(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		response = append(response, newRoomResponse(&rooms[i]))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// Transition godoc
// @Summary      Change room status
// @Description  Moves the room along one allowed lifecycle edge (invited→active, active→closed, invited/active→canceled).
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Room ID"
// @Param        input body StatusInput true "Target status"
// @Success      200 {object} RoomResponse
// @Failure      403 {object} ErrorResponse "Not owner or operator"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Transition not allowed"
// @Router       /rooms/{id}/status [post]
func (h *RoomHandler) Transition(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))

	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.TransitionStatus(c.Request.Context(), uint(roomID), input.Status, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(room))
}

// ForceStatus godoc
// @Summary      Force room status (operator only)
// @Description  Writes any status regardless of the transition table. Administrative escape hatch.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Room ID"
// @Param        input body StatusInput true "Target status"
// @Success      200 {object} RoomResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /admin/rooms/{id}/status [put]
func (h *RoomHandler) ForceStatus(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))

	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.ForceStatus(c.Request.Context(), uint(roomID), input.Status, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(room))
}

// Delete godoc
// @Summary      Delete a room
// @Description  Removes the room and all of its memberships in one unit of work.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]string "{"message": "Room deleted"}"
// @Failure      403 {object} ErrorResponse "Not owner or operator"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))

	if err := h.rooms.Delete(c.Request.Context(), uint(roomID), actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}
