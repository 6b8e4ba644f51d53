package handler

import (
	"net/http"
	"strconv"

	"raidboard/backend/internal/database"
	"raidboard/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RaidBossInput defines the payload for creating or updating a boss.
type RaidBossInput struct {
	Name        string `json:"name" binding:"required" example:"Shadow Lugia"`
	Tier        int    `json:"tier" binding:"required,min=1,max=6"`
	Description string `json:"description"`
}

// CreateRaidBoss godoc
// @Summary      Create a raid boss (Admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RaidBossInput true "Boss Info"
// @Success      201  {object}  models.RaidBoss
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Boss already exists"
// @Router       /admin/bosses [post]
func CreateRaidBoss(c *gin.Context) {
	var input RaidBossInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boss := models.RaidBoss{
		Name:        input.Name,
		Tier:        input.Tier,
		Description: input.Description,
	}
	if err := database.DB.Create(&boss).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Boss already exists"})
		return
	}

	c.JSON(http.StatusCreated, boss)
}

// GetRaidBosses godoc
// @Summary      List raid bosses
// @Tags         bosses
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.RaidBoss
// @Router       /bosses [get]
func GetRaidBosses(c *gin.Context) {
	var bosses []models.RaidBoss
	database.DB.Order("tier DESC, name ASC").Find(&bosses)
	c.JSON(http.StatusOK, bosses)
}

// UpdateRaidBoss godoc
// @Summary      Update a raid boss (Admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int           true "Boss ID"
// @Param        input body RaidBossInput true "New Boss Info"
// @Success      200 {object} models.RaidBoss
// @Failure      404 {object} ErrorResponse "Boss not found"
// @Router       /admin/bosses/{id} [put]
func UpdateRaidBoss(c *gin.Context) {
	bossID, _ := strconv.Atoi(c.Param("id"))

	var boss models.RaidBoss
	if err := database.DB.First(&boss, bossID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Boss not found"})
		return
	}

	var input RaidBossInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boss.Name = input.Name
	boss.Tier = input.Tier
	boss.Description = input.Description
	database.DB.Save(&boss)

	c.JSON(http.StatusOK, boss)
}

// DeleteRaidBoss godoc
// @Summary      Delete a raid boss (Admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Boss ID"
// @Success      200 {object} map[string]string "{"message": "Boss deleted"}"
// @Failure      404 {object} ErrorResponse "Boss not found"
// @Router       /admin/bosses/{id} [delete]
func DeleteRaidBoss(c *gin.Context) {
	bossID, _ := strconv.Atoi(c.Param("id"))

	var boss models.RaidBoss
	if err := database.DB.First(&boss, bossID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Boss not found"})
		return
	}

	database.DB.Delete(&boss)
	c.JSON(http.StatusOK, gin.H{"message": "Boss deleted"})
}
