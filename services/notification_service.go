package services

import (
	"time"

	"research-cell-api/models"

	"gorm.io/gorm"
)

// CreateNotification inserts an in-app notification inside the caller's
// transaction so it commits or rolls back with the triggering mutation.
func CreateNotification(tx *gorm.DB, userID int, notifType, title, message string, submissionType *string, submissionID *int) error {
	notification := models.Notification{
		UserID:         userID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		SubmissionType: submissionType,
		SubmissionID:   submissionID,
		CreateAt:       time.Now(),
	}
	if err := tx.Create(&notification).Error; err != nil {
		return WrapError(KindInternal, "Failed to create notification", err)
	}
	return nil
}

// notifyTeamLead notifies the lead of a team, if one exists. Teams are
// created with a lead, but a missing lead is not an error here.
func notifyTeamLead(tx *gorm.DB, teamID int, title, message string, submissionType *string, submissionID *int) error {
	var lead models.TeamMember
	err := tx.Where("team_id = ? AND role_in_team = ?", teamID, models.TeamRoleLead).First(&lead).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return WrapError(KindInternal, "Failed to resolve team lead", err)
	}
	return CreateNotification(tx, lead.UserID, "info", title, message, submissionType, submissionID)
}
