package controllers

import (
	"net/http"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/utils"

	"github.com/gin-gonic/gin"
)

// GetTeamComments lists the team discussion, oldest first. Members and
// admins only.
func GetTeamComments(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, err := loadTeam(teamID); err != nil {
		respondError(c, err)
		return
	}

	if !isAdmin(c) {
		role, err := teamRoleOf(teamID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
			return
		}
		if role == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only team members may read the discussion"})
			return
		}
	}

	var comments []models.TeamComment
	err := config.DB.Preload("User").
		Where("team_id = ?", teamID).
		Order("create_at ASC").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"comments": comments,
		"total":    len(comments),
	})
}

// CreateTeamComment appends to the team discussion. Comments are immutable
// once created.
func CreateTeamComment(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := utils.SanitizeInput(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
		return
	}

	if _, err := loadTeam(teamID); err != nil {
		respondError(c, err)
		return
	}

	role, err := teamRoleOf(teamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only team members may comment"})
		return
	}

	comment := models.TeamComment{
		TeamID:   teamID,
		UserID:   userID,
		Text:     text,
		CreateAt: time.Now(),
	}
	if err := config.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}
