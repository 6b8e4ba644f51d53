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

// MembershipResponse is a membership row as exposed to clients.
type MembershipResponse struct {
	RoomID        uint                  `json:"room_id"`
	UserID        uint                  `json:"user_id"`
	Role          models.MembershipRole `json:"role"`
	JoinedAt      time.Time             `json:"joined_at"`
	FriendReady   bool                  `json:"friend_ready"`
	FriendReadyAt *time.Time            `json:"friend_ready_at,omitempty"`
}

func newMembershipResponse(m *models.Membership) MembershipResponse {
	return MembershipResponse{
		RoomID:        m.RoomID,
		UserID:        m.UserID,
		Role:          m.Role,
		JoinedAt:      m.JoinedAt,
		FriendReady:   m.FriendReady,
		FriendReadyAt: m.FriendReadyAt,
	}
}

// RosterHandler exposes membership operations.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// Join godoc
// @Summary      Join a room
// @Description  Joins a room if it has a free slot and the caller is not already a member.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      201 {object} MembershipResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Room full or already joined"
// @Router       /rooms/{id}/join [post]
func (h *RosterHandler) Join(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))

	membership, err := h.roster.Join(c.Request.Context(), uint(roomID), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newMembershipResponse(membership))
}

// Leave godoc
// @Summary      Leave a room
// @Description  Removes the caller's own membership. Owners cannot leave their room.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]string "{"message": "Left room successfully"}"
// @Failure      404 {object} ErrorResponse "Membership not found"
// @Failure      409 {object} ErrorResponse "Owner cannot leave"
// @Router       /rooms/{id}/leave [post]
func (h *RosterHandler) Leave(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))

	if err := h.roster.Leave(c.Request.Context(), uint(roomID), actor.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left room successfully"})
}

// Kick godoc
// @Summary      Kick a member (owner or operator only)
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id     path int true "Room ID"
// @Param        userID path int true "User ID of member to kick"
// @Success      200 {object} map[string]string "{"message": "Member kicked successfully"}"
// @Failure      403 {object} ErrorResponse "Not owner or operator"
// @Failure      404 {object} ErrorResponse "Membership not found"
// @Failure      409 {object} ErrorResponse "Owner membership is protected"
// @Router       /rooms/{id}/members/{userID} [delete]
func (h *RosterHandler) Kick(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))
	targetID, _ := strconv.Atoi(c.Param("userID"))

	if err := h.roster.Kick(c.Request.Context(), uint(roomID), uint(targetID), actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member kicked successfully"})
}

// FriendReady godoc
// @Summary      Mark own membership friend-ready
// @Description  Idempotent: the first call stamps the readiness time, later calls return the current state.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} MembershipResponse
// @Failure      404 {object} ErrorResponse "Membership not found"
// @Router       /rooms/{id}/friend-ready [post]
func (h *RosterHandler) FriendReady(c *gin.Context) {
	actor, ok := auth.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	roomID, _ := strconv.Atoi(c.Param("id"))

	membership, err := h.roster.MarkFriendReady(c.Request.Context(), uint(roomID), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newMembershipResponse(membership))
}

// MemberTotal godoc
// @Summary      Count distinct members of a room
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]int64 "{"member_total": 3}"
// @Router       /rooms/{id}/members/count [get]
func (h *RosterHandler) MemberTotal(c *gin.Context) {
	roomID, _ := strconv.Atoi(c.Param("id"))

	count, err := h.roster.MemberTotal(c.Request.Context(), uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member_total": count})
}
