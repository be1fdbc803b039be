package controllers

import (
	"net/http"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"
	"research-cell-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePaper uploads a paper for a team. Teachers only (route-gated); the
// caller must be a member of the team.
func CreatePaper(c *gin.Context) {
	createSubmission(c, models.SubmissionTypePaper)
}

// CreateProposal uploads an additional proposal for a team. Any member.
func CreateProposal(c *gin.Context) {
	createSubmission(c, models.SubmissionTypeProposal)
}

// createSubmission stores the document and inserts the submission at
// pending in one transaction; a failed transaction removes the stored file.
func createSubmission(c *gin.Context, submissionType string) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	title := utils.SanitizeInput(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	abstract := utils.SanitizeInput(c.PostForm("abstract"))

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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only team members may submit"})
		return
	}

	file, err := storeUploadedFile(c, "file", userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A document file is required"})
		return
	}
	if !file.IsValidDocumentType() {
		cleanupStoredFile(file.StoredPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported document type"})
		return
	}

	now := time.Now()
	var submissionID int
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return err
		}

		if submissionType == models.SubmissionTypePaper {
			paper := models.Paper{
				TeamID: teamID, Title: title, Abstract: abstract, FileID: file.FileID,
				Status: models.SubmissionStatusPending, ReviewRound: 1,
				CreatedBy: userID, CreatedAt: now, UpdatedAt: now,
			}
			if err := tx.Create(&paper).Error; err != nil {
				return err
			}
			submissionID = paper.SubmissionID
		} else {
			proposal := models.Proposal{
				TeamID: teamID, Title: title, Abstract: abstract, FileID: file.FileID,
				Status: models.SubmissionStatusPending, ReviewRound: 1,
				CreatedBy: userID, CreatedAt: now, UpdatedAt: now,
			}
			if err := tx.Create(&proposal).Error; err != nil {
				return err
			}
			submissionID = proposal.SubmissionID
		}

		history := models.SubmissionStatusHistory{
			SubmissionType: submissionType,
			SubmissionID:   submissionID,
			NewStatus:      models.SubmissionStatusPending,
			ChangedBy:      userID,
			CreatedAt:      now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		cleanupStoredFile(file.StoredPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"submission_id": submissionID,
		"status":        models.SubmissionStatusPending,
	})
}

// GetTeamPapers lists a team's papers. Members and admins.
func GetTeamPapers(c *gin.Context) {
	listTeamSubmissions(c, models.SubmissionTypePaper)
}

// GetTeamProposals lists a team's proposals. Members and admins.
func GetTeamProposals(c *gin.Context) {
	listTeamSubmissions(c, models.SubmissionTypeProposal)
}

func listTeamSubmissions(c *gin.Context, submissionType string) {
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
			c.JSON(http.StatusForbidden, gin.H{"error": "Only team members may view submissions"})
			return
		}
	}

	query := config.DB.Table(models.SubmissionTableName(submissionType)).
		Where("team_id = ? AND deleted_at IS NULL", teamID).
		Order("created_at DESC")

	if submissionType == models.SubmissionTypePaper {
		var papers []models.Paper
		if err := query.Find(&papers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch papers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "papers": papers, "total": len(papers)})
		return
	}

	var proposals []models.Proposal
	if err := query.Find(&proposals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "proposals": proposals, "total": len(proposals)})
}

// GetPaper returns one paper with its review state.
func GetPaper(c *gin.Context) {
	getSubmission(c, models.SubmissionTypePaper)
}

// GetProposal returns one proposal with its review state.
func GetProposal(c *gin.Context) {
	getSubmission(c, models.SubmissionTypeProposal)
}

func getSubmission(c *gin.Context, submissionType string) {
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var teamID int
	var payload interface{}
	if submissionType == models.SubmissionTypePaper {
		var paper models.Paper
		err := config.DB.Preload("File").
			Where("submission_id = ? AND deleted_at IS NULL", submissionID).
			First(&paper).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		teamID, payload = paper.TeamID, paper
	} else {
		var proposal models.Proposal
		err := config.DB.Preload("File").
			Where("submission_id = ? AND deleted_at IS NULL", submissionID).
			First(&proposal).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		teamID, payload = proposal.TeamID, proposal
	}

	if !isAdmin(c) {
		role, err := teamRoleOf(teamID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
			return
		}
		if role == "" {
			var assigned int64
			config.DB.Model(&models.ReviewerAssignment{}).
				Where("submission_type = ? AND submission_id = ? AND reviewer_id = ?", submissionType, submissionID, userID).
				Count(&assigned)
			if assigned == 0 {
				c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
				return
			}
		}
	}

	var assignments []models.ReviewerAssignment
	config.DB.Preload("Reviewer").
		Where("submission_type = ? AND submission_id = ?", submissionType, submissionID).
		Find(&assignments)

	var decisions []models.AggregatedDecision
	config.DB.Where("submission_type = ? AND submission_id = ?", submissionType, submissionID).
		Order("review_round ASC").
		Find(&decisions)

	c.JSON(http.StatusOK, gin.H{
		"submission":  payload,
		"assignments": assignments,
		"decisions":   decisions,
	})
}

// DeletePaper removes a paper still eligible for deletion.
func DeletePaper(c *gin.Context) {
	deleteSubmission(c, models.SubmissionTypePaper)
}

// DeleteProposal removes a proposal still eligible for deletion.
func DeleteProposal(c *gin.Context) {
	deleteSubmission(c, models.SubmissionTypeProposal)
}

func deleteSubmission(c *gin.Context, submissionType string) {
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := services.DeleteSubmission(submissionType, submissionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted successfully"})
}

// ResubmitPaper starts a new review round after revisions were requested.
func ResubmitPaper(c *gin.Context) {
	resubmitSubmission(c, models.SubmissionTypePaper)
}

// ResubmitProposal starts a new review round after revisions were requested.
func ResubmitProposal(c *gin.Context) {
	resubmitSubmission(c, models.SubmissionTypeProposal)
}

func resubmitSubmission(c *gin.Context, submissionType string) {
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := services.ResubmitSubmission(submissionType, submissionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  models.SubmissionStatusUnderReview,
	})
}

// CompleteProposal marks an accepted proposal as completed. Lead only.
func CompleteProposal(c *gin.Context) {
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := services.CompleteProposal(submissionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  models.SubmissionStatusCompleted,
	})
}
