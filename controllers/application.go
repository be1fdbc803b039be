package controllers

import (
	"net/http"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyToTeam files a join request against a public, recruiting team.
// Students only; one open application per team.
func ApplyToTeam(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	team, err := loadTeam(teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	if team.Visibility != models.TeamVisibilityPublic {
		c.JSON(http.StatusForbidden, gin.H{"error": "Applications are only accepted for public teams"})
		return
	}
	if team.Status != models.TeamStatusRecruiting {
		c.JSON(http.StatusConflict, gin.H{"error": "Team is not recruiting"})
		return
	}

	role, err := teamRoleOf(teamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Already a team member"})
		return
	}

	var open int64
	err = config.DB.Model(&models.TeamApplication{}).
		Where("team_id = ? AND student_id = ? AND status = ?", teamID, userID, models.ApplicationStatusPending).
		Count(&open).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check applications"})
		return
	}
	if open > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "An application is already pending"})
		return
	}

	application := models.TeamApplication{
		TeamID:    teamID,
		StudentID: userID,
		Status:    models.ApplicationStatusPending,
		AppliedAt: time.Now(),
	}
	if err := config.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "application": application})
}

// GetTeamApplications lists join requests for a team. Lead only.
func GetTeamApplications(c *gin.Context) {
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

	role, err := teamRoleOf(teamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role != models.TeamRoleLead {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team lead may view applications"})
		return
	}

	status := c.DefaultQuery("status", models.ApplicationStatusPending)
	var applications []models.TeamApplication
	err = config.DB.Preload("Student").
		Where("team_id = ? AND status = ?", teamID, status).
		Order("applied_at ASC").
		Find(&applications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": applications,
		"total":        len(applications),
	})
}

// DecideApplication approves or rejects a pending join request. Approval
// adds the student as a researcher inside the same transaction, checked
// against team capacity.
func DecideApplication(c *gin.Context) {
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.ApplicationStatusApproved && req.Status != models.ApplicationStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be approved or rejected"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var application models.TeamApplication
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ?", applicationID).
			First(&application).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return services.NewError(services.KindNotFound, "Application not found")
			}
			return err
		}
		if application.Status != models.ApplicationStatusPending {
			return services.NewError(services.KindConflict, "Application was already decided")
		}

		var member models.TeamMember
		err = tx.Where("team_id = ? AND user_id = ?", application.TeamID, userID).First(&member).Error
		if err != nil || member.RoleInTeam != models.TeamRoleLead {
			return services.NewError(services.KindUnauthorized, "Only the team lead may decide applications")
		}

		if req.Status == models.ApplicationStatusApproved {
			var team models.Team
			if err := tx.Where("team_id = ?", application.TeamID).First(&team).Error; err != nil {
				return err
			}
			var current int64
			if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", application.TeamID).Count(&current).Error; err != nil {
				return err
			}
			if int(current) >= team.MaxMembers {
				return services.NewError(services.KindConflict, "Team is at capacity")
			}

			row := models.TeamMember{
				TeamID:     application.TeamID,
				UserID:     application.StudentID,
				RoleInTeam: models.TeamRoleResearcher,
				JoinedAt:   time.Now(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		err = tx.Model(&models.TeamApplication{}).
			Where("application_id = ?", applicationID).
			Updates(map[string]interface{}{
				"status":     req.Status,
				"decided_at": now,
				"decided_by": userID,
			}).Error
		if err != nil {
			return err
		}

		return services.CreateNotification(tx, application.StudentID, "info", "Team application update",
			"Your team application was "+req.Status, nil, nil)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}
