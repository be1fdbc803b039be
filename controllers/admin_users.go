package controllers

import (
	"net/http"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"

	"github.com/gin-gonic/gin"
)

// GetUsers lists accounts with optional role and department filters. Admin
// only.
func GetUsers(c *gin.Context) {
	query := config.DB.Preload("Department").Where("delete_at IS NULL")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var users []models.User
	if err := query.Order("user_id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// VerifyUser verifies an account without the email round trip. Admin only.
func VerifyUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	err := config.DB.Model(&user).Updates(map[string]interface{}{
		"is_verified":        true,
		"verification_token": nil,
		"update_at":          now,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateUserCapabilities grants or revokes the dual-role capabilities that
// enable role switching. Admin only.
func UpdateUserCapabilities(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		HasReviewerCapability *bool `json:"has_reviewer_capability"`
		HasTeacherCapability  *bool `json:"has_teacher_capability"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.HasReviewerCapability == nil && req.HasTeacherCapability == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No capability changes requested"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.HasReviewerCapability != nil {
		if user.Role != models.RoleTeacher && *req.HasReviewerCapability {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reviewer capability applies to teacher accounts"})
			return
		}
		updates["has_reviewer_capability"] = *req.HasReviewerCapability
	}
	if req.HasTeacherCapability != nil {
		if user.Role != models.RoleReviewer && *req.HasTeacherCapability {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Teacher capability applies to reviewer accounts"})
			return
		}
		updates["has_teacher_capability"] = *req.HasTeacherCapability
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update capabilities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
